package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Upstream is the node connection a wallet forwards chain requests to.
// *rpc.Client from go-ethereum satisfies it.
type Upstream interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

// ApprovalKind tells the approver what the page is asking for.
type ApprovalKind int

const (
	ApproveConnect ApprovalKind = iota
	ApproveSign
)

func (k ApprovalKind) String() string {
	switch k {
	case ApproveConnect:
		return "connect"
	case ApproveSign:
		return "sign"
	}
	return "unknown"
}

// Approval describes a request that needs the wallet user's consent.
type Approval struct {
	Kind     ApprovalKind
	Accounts []common.Address   // connect
	From     common.Address     // sign
	Tx       *types.Transaction // sign
}

// ApproveFunc asks the wallet user for consent. Returning false rejects the
// request with code 4001.
type ApproveFunc func(ctx context.Context, a Approval) bool

// AutoApprove grants every request.
func AutoApprove(context.Context, Approval) bool { return true }

// SignRequest is the single parameter of eth_signTransaction: the unsigned
// transaction in its binary encoding.
type SignRequest struct {
	From common.Address `json:"from"`
	Raw  hexutil.Bytes  `json:"raw"`
}

// Local is a wallet backed by a local keyring and an upstream node. Wallet
// methods are answered locally; everything else is forwarded.
type Local struct {
	Emitter

	approve ApproveFunc
	keys    Keyring

	mu        sync.Mutex
	upstream  Upstream
	selected  common.Address
	connected bool
}

// NewLocal creates a wallet. approve may be nil, which means AutoApprove.
func NewLocal(upstream Upstream, keys Keyring, approve ApproveFunc) *Local {
	if approve == nil {
		approve = AutoApprove
	}
	w := &Local{upstream: upstream, keys: keys, approve: approve}
	if accts := keys.Accounts(); len(accts) > 0 {
		w.selected = accts[0]
	}
	return w
}

func (w *Local) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	switch method {
	case "eth_requestAccounts":
		return w.requestAccounts(ctx)
	case "eth_accounts":
		return json.Marshal(w.exposed())
	case "eth_signTransaction":
		return w.signTransaction(ctx, params)
	case "wallet_revokePermissions":
		if err := w.Disconnect(ctx); err != nil {
			return nil, err
		}
		return json.RawMessage("null"), nil
	}

	w.mu.Lock()
	up := w.upstream
	w.mu.Unlock()
	if up == nil {
		return nil, &RPCError{Code: CodeDisconnected, Message: "no upstream node"}
	}
	var raw json.RawMessage
	if err := up.CallContext(ctx, &raw, method, params...); err != nil {
		return nil, err
	}
	return raw, nil
}

// Accounts lists every account the wallet holds, whether exposed or not.
func (w *Local) Accounts() []common.Address { return w.keys.Accounts() }

// Selected returns the account the wallet currently puts first.
func (w *Local) Selected() common.Address {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected
}

// Connected reports whether the page has been granted account access.
func (w *Local) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}

// SelectAccount makes addr the first exposed account, notifying listeners
// when the page is connected.
func (w *Local) SelectAccount(addr common.Address) error {
	if !slices.Contains(w.keys.Accounts(), addr) {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, addr.Hex())
	}
	w.mu.Lock()
	changed := w.selected != addr
	w.selected = addr
	notify := changed && w.connected
	w.mu.Unlock()

	if notify {
		return w.Emit(EventAccountsChanged, w.exposedStrings())
	}
	return nil
}

// Disconnect revokes the page's access and reports zero accounts.
func (w *Local) Disconnect(ctx context.Context) error {
	w.mu.Lock()
	was := w.connected
	w.connected = false
	w.mu.Unlock()

	if was {
		return w.Emit(EventAccountsChanged, []string{})
	}
	return nil
}

// SwitchUpstream replaces the node connection. chainChanged is emitted when
// the new node serves a different chain.
func (w *Local) SwitchUpstream(ctx context.Context, up Upstream) error {
	w.mu.Lock()
	old := w.upstream
	w.mu.Unlock()

	next, err := chainIDOf(ctx, up)
	if err != nil {
		return fmt.Errorf("query chain id: %w", err)
	}
	var prev *big.Int
	if old != nil {
		prev, _ = chainIDOf(ctx, old)
	}

	w.mu.Lock()
	w.upstream = up
	w.mu.Unlock()

	if prev == nil || prev.Cmp(next) != 0 {
		return w.Emit(EventChainChanged, (*hexutil.Big)(next))
	}
	return nil
}

func (w *Local) requestAccounts(ctx context.Context) (json.RawMessage, error) {
	w.mu.Lock()
	connected := w.connected
	w.mu.Unlock()

	if !connected {
		if !w.approve(ctx, Approval{Kind: ApproveConnect, Accounts: w.ordered()}) {
			return nil, &RPCError{Code: CodeUserRejected, Message: "User rejected the request."}
		}
		w.mu.Lock()
		w.connected = true
		w.mu.Unlock()
	}
	return json.Marshal(w.exposedStrings())
}

func (w *Local) signTransaction(ctx context.Context, params []any) (json.RawMessage, error) {
	if len(params) != 1 {
		return nil, &RPCError{Code: CodeUnsupported, Message: "eth_signTransaction expects one parameter"}
	}
	var req SignRequest
	data, err := json.Marshal(params[0])
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode sign request: %w", err)
	}
	if !slices.Contains(w.exposed(), req.From) {
		return nil, &RPCError{Code: CodeUnauthorized, Message: "account " + req.From.Hex() + " is not authorized"}
	}

	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(req.Raw); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}

	w.mu.Lock()
	up := w.upstream
	w.mu.Unlock()
	if up == nil {
		return nil, &RPCError{Code: CodeDisconnected, Message: "no upstream node"}
	}
	chainID, err := chainIDOf(ctx, up)
	if err != nil {
		return nil, fmt.Errorf("query chain id: %w", err)
	}

	if !w.approve(ctx, Approval{Kind: ApproveSign, From: req.From, Tx: tx}) {
		return nil, &RPCError{Code: CodeUserRejected, Message: "User denied transaction signature."}
	}

	signed, err := w.keys.SignTx(req.From, tx, chainID)
	if err != nil {
		return nil, err
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return json.Marshal(hexutil.Bytes(raw))
}

// ordered lists the keyring with the selected account first.
func (w *Local) ordered() []common.Address {
	all := w.keys.Accounts()
	w.mu.Lock()
	sel := w.selected
	w.mu.Unlock()

	out := make([]common.Address, 0, len(all))
	if slices.Contains(all, sel) {
		out = append(out, sel)
	}
	for _, a := range all {
		if a != sel {
			out = append(out, a)
		}
	}
	return out
}

func (w *Local) exposed() []common.Address {
	if !w.Connected() {
		return []common.Address{}
	}
	return w.ordered()
}

func (w *Local) exposedStrings() []string {
	accts := w.exposed()
	out := make([]string, 0, len(accts))
	for _, a := range accts {
		out = append(out, a.Hex())
	}
	return out
}

func chainIDOf(ctx context.Context, up Upstream) (*big.Int, error) {
	var id hexutil.Big
	if err := up.CallContext(ctx, &id, "eth_chainId"); err != nil {
		return nil, err
	}
	return (*big.Int)(&id), nil
}
