// Package wallet defines the provider contract the front end consumes from an
// injected wallet, plus a local keystore-backed wallet that implements it.
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Events emitted by a Provider.
const (
	EventAccountsChanged = "accountsChanged"
	EventChainChanged    = "chainChanged"
)

// EIP-1193 provider error codes.
const (
	CodeUserRejected = 4001
	CodeUnauthorized = 4100
	CodeUnsupported  = 4200
	CodeDisconnected = 4900
)

var (
	// ErrNoProvider is returned when no wallet was detected at startup.
	ErrNoProvider = errors.New("no wallet provider detected")
	// ErrUserRejected matches a request the wallet user explicitly denied.
	ErrUserRejected = errors.New("user rejected the request")
	// ErrInvalidEventPayload marks a wallet notification with an unexpected shape.
	ErrInvalidEventPayload = errors.New("invalid wallet event payload")
)

// RPCError is a provider error carrying an EIP-1193 code.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("wallet error %d: %s", e.Code, e.Message)
}

// Is lets errors.Is(err, ErrUserRejected) match code 4001.
func (e *RPCError) Is(target error) bool {
	return target == ErrUserRejected && e.Code == CodeUserRejected
}

// Listener receives provider events. Listeners are compared with == on
// removal, so implementations should be pointer types.
type Listener interface {
	HandleEvent(event string, payload json.RawMessage)
}

// Provider is the surface of an injected wallet.
type Provider interface {
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)
	On(event string, l Listener)
	RemoveListener(event string, l Listener)
}

// Disconnector is implemented by providers that can revoke the page's access.
type Disconnector interface {
	Disconnect(ctx context.Context) error
}

// ParseAccounts validates an accountsChanged payload: a JSON array of hex
// address strings. An empty array is valid and means "no accounts".
func ParseAccounts(payload json.RawMessage) ([]string, error) {
	var accounts []string
	if err := json.Unmarshal(payload, &accounts); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidEventPayload, EventAccountsChanged, err)
	}
	if accounts == nil {
		return nil, fmt.Errorf("%w: %s: null payload", ErrInvalidEventPayload, EventAccountsChanged)
	}
	for _, a := range accounts {
		if !common.IsHexAddress(a) {
			return nil, fmt.Errorf("%w: %s: %q is not an address", ErrInvalidEventPayload, EventAccountsChanged, a)
		}
	}
	return accounts, nil
}
