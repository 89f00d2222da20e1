// Package contract binds the on-chain feedback store.
package contract

import (
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ABI of the feedback contract.
const ABI = `[
	{"type":"function","name":"submitFeedback","stateMutability":"nonpayable",
	 "inputs":[{"name":"_message","type":"string"}],"outputs":[]},
	{"type":"function","name":"getAllFeedback","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"","type":"tuple[]","components":[
		{"name":"user","type":"address"},
		{"name":"message","type":"string"},
		{"name":"timestamp","type":"uint256"}]}]},
	{"type":"function","name":"getFeedbackCount","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getFeedbackByIndex","stateMutability":"view",
	 "inputs":[{"name":"index","type":"uint256"}],
	 "outputs":[
		{"name":"user","type":"address"},
		{"name":"message","type":"string"},
		{"name":"timestamp","type":"uint256"}]},
	{"type":"event","name":"NewFeedback","anonymous":false,"inputs":[
		{"name":"user","type":"address","indexed":true},
		{"name":"message","type":"string","indexed":false},
		{"name":"timestamp","type":"uint256","indexed":false}]}
]`

// ParsedABI returns ABI decoded once.
var ParsedABI = sync.OnceValues(func() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(ABI))
})

// Entry is one stored feedback record.
type Entry struct {
	User      common.Address
	Message   string
	Timestamp *big.Int
}

// Time converts the epoch-seconds timestamp.
func (e Entry) Time() time.Time {
	if e.Timestamp == nil {
		return time.Time{}
	}
	return time.Unix(e.Timestamp.Int64(), 0)
}
