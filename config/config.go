package config

import (
	"encoding/json"
	"os"
	"slices"

	"charm-feedback-tui/contract"
)

// Config represents the application configuration
type Config struct {
	RPCURLs     []RPCUrl              `json:"rpc_urls"`
	Deployments []contract.Deployment `json:"deployments,omitempty"`
	Keystore    string                `json:"keystore,omitempty"`
	AutoApprove bool                  `json:"auto_approve"`
	Logger      bool                  `json:"logger"`
}

// RPCUrl represents an RPC endpoint
type RPCUrl struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Load reads the config from the specified path
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}

	return cfg
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		RPCURLs: []RPCUrl{
			{
				Name:   "Sepolia PublicNode",
				URL:    "https://ethereum-sepolia-rpc.publicnode.com",
				Active: true,
			},
			{
				Name: "Local Anvil",
				URL:  "http://127.0.0.1:8545",
			},
		},
		Deployments: slices.Clone(contract.Deployments),
		Logger:      false,
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg := DefaultConfig()
		_ = Save(path, cfg)
		return cfg
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		// Invalid config, return default
		return DefaultConfig()
	}

	return cfg
}

// ActiveRPC returns the endpoint marked active, or the first one
func (c Config) ActiveRPC() (RPCUrl, bool) {
	for _, r := range c.RPCURLs {
		if r.Active {
			return r, true
		}
	}
	if len(c.RPCURLs) > 0 {
		return c.RPCURLs[0], true
	}
	return RPCUrl{}, false
}

// SetActiveRPC marks the endpoint at index i as the only active one
func (c *Config) SetActiveRPC(i int) {
	for j := range c.RPCURLs {
		c.RPCURLs[j].Active = j == i
	}
}

// ContractDeployments returns the configured table, or the built-in one
func (c Config) ContractDeployments() []contract.Deployment {
	if len(c.Deployments) == 0 {
		return contract.Deployments
	}
	return c.Deployments
}
