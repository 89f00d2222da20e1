package config

import (
	"fmt"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/ethereum/go-ethereum/common"

	"charm-feedback-tui/contract"
	"charm-feedback-tui/helpers"
)

// Env is the environment overlay on top of the config file.
type Env struct {
	RPCURL          string   `env:"ETH_RPC_URL"`
	ContractAddress string   `env:"FEEDBACK_CONTRACT_ADDRESS"`
	ChainID         uint64   `env:"FEEDBACK_CHAIN_ID" envDefault:"11155111"`
	Keystore        string   `env:"FEEDBACK_KEYSTORE"`
	Password        string   `env:"FEEDBACK_PASSWORD"`
	PrivateKeys     []string `env:"FEEDBACK_PRIVATE_KEYS"`
	Locale          string   `env:"FEEDBACK_LOCALE"`
	Lang            string   `env:"LANG"`
	LogLevel        string   `env:"FEEDBACK_LOG_LEVEL" envDefault:"info"`
	AutoApprove     bool     `env:"FEEDBACK_AUTO_APPROVE"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// LocaleName is FEEDBACK_LOCALE, falling back to LANG.
func (e Env) LocaleName() string {
	if e.Locale != "" {
		return e.Locale
	}
	return e.Lang
}

// WithEnv applies the overlay to a copy of cfg.
func WithEnv(cfg Config, e Env) (Config, error) {
	cfg.RPCURLs = slices.Clone(cfg.RPCURLs)
	cfg.Deployments = slices.Clone(cfg.ContractDeployments())

	if e.RPCURL != "" {
		i := slices.IndexFunc(cfg.RPCURLs, func(r RPCUrl) bool { return r.URL == e.RPCURL })
		if i < 0 {
			cfg.RPCURLs = append([]RPCUrl{{Name: "ETH_RPC_URL", URL: e.RPCURL}}, cfg.RPCURLs...)
			i = 0
		}
		cfg.SetActiveRPC(i)
	}

	if e.ContractAddress != "" {
		if !helpers.IsValidEthAddress(e.ContractAddress) {
			return cfg, fmt.Errorf("FEEDBACK_CONTRACT_ADDRESS: invalid address %q", e.ContractAddress)
		}
		d := contract.Deployment{ChainID: e.ChainID, Address: common.HexToAddress(e.ContractAddress)}
		i := slices.IndexFunc(cfg.Deployments, func(x contract.Deployment) bool { return x.ChainID == e.ChainID })
		if i < 0 {
			cfg.Deployments = append(cfg.Deployments, d)
		} else {
			d.Explorer = cfg.Deployments[i].Explorer
			cfg.Deployments[i] = d
		}
	}

	if e.Keystore != "" {
		cfg.Keystore = e.Keystore
	}
	cfg.AutoApprove = cfg.AutoApprove || e.AutoApprove
	return cfg, nil
}
