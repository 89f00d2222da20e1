package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrReadOnly = errors.New("contract binding has no signer")

// Transactor hands out signing options for one account.
type Transactor interface {
	TransactOpts(ctx context.Context) *bind.TransactOpts
}

// Backend is everything a writable binding needs from the chain.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Binding is a typed handle on the feedback contract.
type Binding struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
	backend  bind.DeployBackend
	signer   Transactor
}

// NewReader binds the contract for calls only.
func NewReader(address common.Address, caller bind.ContractCaller) (*Binding, error) {
	parsed, err := ParsedABI()
	if err != nil {
		return nil, err
	}
	return &Binding{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, caller, nil, nil),
	}, nil
}

// Bind binds the contract for reads and writes signed by signer.
func Bind(address common.Address, backend Backend, signer Transactor) (*Binding, error) {
	parsed, err := ParsedABI()
	if err != nil {
		return nil, err
	}
	return &Binding{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend:  backend,
		signer:   signer,
	}, nil
}

func (b *Binding) Address() common.Address { return b.address }

func (b *Binding) GetAllFeedback(ctx context.Context) ([]Entry, error) {
	var out []any
	if err := b.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getAllFeedback"); err != nil {
		return nil, fmt.Errorf("getAllFeedback: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("getAllFeedback: unexpected %d outputs", len(out))
	}
	entries := *abi.ConvertType(out[0], new([]Entry)).(*[]Entry)
	return entries, nil
}

func (b *Binding) GetFeedbackCount(ctx context.Context) (*big.Int, error) {
	var out []any
	if err := b.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getFeedbackCount"); err != nil {
		return nil, fmt.Errorf("getFeedbackCount: %w", err)
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (b *Binding) GetFeedbackByIndex(ctx context.Context, index *big.Int) (Entry, error) {
	var out []any
	if err := b.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getFeedbackByIndex", index); err != nil {
		return Entry{}, fmt.Errorf("getFeedbackByIndex(%s): %w", index, err)
	}
	return Entry{
		User:      *abi.ConvertType(out[0], new(common.Address)).(*common.Address),
		Message:   *abi.ConvertType(out[1], new(string)).(*string),
		Timestamp: *abi.ConvertType(out[2], new(*big.Int)).(**big.Int),
	}, nil
}

// SubmitFeedback signs and sends a submitFeedback transaction. It returns as
// soon as the node accepted the transaction.
func (b *Binding) SubmitFeedback(ctx context.Context, message string) (*types.Transaction, error) {
	if b.signer == nil {
		return nil, ErrReadOnly
	}
	return b.contract.Transact(b.signer.TransactOpts(ctx), "submitFeedback", message)
}

// WaitMined blocks until tx is included or ctx ends.
func (b *Binding) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if b.backend == nil {
		return nil, ErrReadOnly
	}
	return bind.WaitMined(ctx, b.backend, tx)
}

// NewFeedback decodes the NewFeedback event from a receipt of this contract.
func (b *Binding) NewFeedback(receipt *types.Receipt) (Entry, bool) {
	ev, ok := b.abi.Events["NewFeedback"]
	if !ok {
		return Entry{}, false
	}
	for _, l := range receipt.Logs {
		if l.Address != b.address || len(l.Topics) == 0 || l.Topics[0] != ev.ID {
			continue
		}
		var e Entry
		if err := b.contract.UnpackLog(&e, "NewFeedback", *l); err != nil {
			continue
		}
		return e, true
	}
	return Entry{}, false
}
