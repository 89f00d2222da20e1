package contract

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var ErrNoDeployment = errors.New("feedback contract is not deployed on this chain")

// Deployment locates the contract on one chain.
type Deployment struct {
	ChainID  uint64         `json:"chain_id"`
	Address  common.Address `json:"address"`
	Explorer string         `json:"explorer,omitempty"`
}

// Deployments is the compiled-in table. The 31337 entry is a placeholder
// for a local development chain and has to be overridden before use.
var Deployments = []Deployment{
	{
		ChainID:  11155111,
		Address:  common.HexToAddress("0x5d415f103F35387FD0Edfc3eD299eD65548De388"),
		Explorer: "https://sepolia.etherscan.io",
	},
	{
		ChainID: 31337,
	},
}

// Find returns the deployment for chainID. Entries with a zero address do not
// count as deployed.
func Find(ds []Deployment, chainID uint64) (Deployment, error) {
	for _, d := range ds {
		if d.ChainID == chainID && d.Address != (common.Address{}) {
			return d, nil
		}
	}
	return Deployment{}, fmt.Errorf("%w: chain %d", ErrNoDeployment, chainID)
}
