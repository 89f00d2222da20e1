package chain

import "math/big"

// Network is a chain id with its conventional short name.
type Network struct {
	ChainID *big.Int
	Name    string
}

var networkNames = map[uint64]string{
	1:        "mainnet",
	10:       "optimism",
	56:       "bnb",
	137:      "matic",
	8453:     "base",
	17000:    "holesky",
	42161:    "arbitrum",
	560048:   "hoodi",
	84532:    "base-sepolia",
	11155111: "sepolia",
}

// NetworkFor names id. Chains not in the table are "unknown".
func NetworkFor(id *big.Int) Network {
	n := Network{ChainID: new(big.Int).Set(id), Name: "unknown"}
	if id.IsUint64() {
		if name, ok := networkNames[id.Uint64()]; ok {
			n.Name = name
		}
	}
	return n
}
