// Package session tracks the connection between the front end and a wallet:
// which account is active and the signer and contract derived for it.
package session

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"charm-feedback-tui/chain"
	"charm-feedback-tui/contract"
	"charm-feedback-tui/feedback"
	"charm-feedback-tui/wallet"
)

type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	}
	return "unknown"
}

// Bound is the write capability derived for one account.
type Bound struct {
	Signer   *chain.Signer
	Contract feedback.Contract
}

// Deriver builds the signer and contract for an account.
type Deriver interface {
	Derive(ctx context.Context, account common.Address) (Bound, error)
}

// Transition is what an accountsChanged event asks the caller to do.
type Transition int

const (
	// None means the event changes nothing.
	None Transition = iota
	// Cleared means the session was dropped.
	Cleared
	// Switch means a new account must be derived under the returned token.
	Switch
)

// Session is the connection state. Account, Signer and Contract are either
// all set or all empty. It is not safe for concurrent use; the UI loop owns
// it.
type Session struct {
	Account  string
	Signer   *chain.Signer
	Contract feedback.Contract

	state   State
	token   uint64
	pending string
}

func (s *Session) State() State { return s.state }

func (s *Session) Connected() bool { return s.state == Connected }

// Token is the id of the latest derivation. Results carrying an older token
// are stale.
func (s *Session) Token() uint64 { return s.token }

// Pending is the account a derivation is running for, if any.
func (s *Session) Pending() string { return s.pending }

// BeginConnect starts a user initiated connect. hasProvider false reports
// wallet.ErrNoProvider and leaves the session alone.
func (s *Session) BeginConnect(hasProvider bool) (uint64, error) {
	if !hasProvider {
		return 0, wallet.ErrNoProvider
	}
	s.token++
	s.state = Connecting
	s.pending = ""
	return s.token, nil
}

// Accounts records the reply to eth_requestAccounts for the connect started
// under token. It returns false when the connect was superseded or the wallet
// returned no accounts.
func (s *Session) Accounts(token uint64, accounts []string) (string, bool) {
	if token != s.token || len(accounts) == 0 {
		return "", false
	}
	s.pending = accounts[0]
	return accounts[0], true
}

// AccountsChanged applies an accountsChanged event.
func (s *Session) AccountsChanged(accounts []string) (Transition, string, uint64) {
	if len(accounts) == 0 {
		s.Clear()
		return Cleared, "", s.token
	}
	next := accounts[0]
	if s.state == Connected && sameAccount(next, s.Account) {
		// back to the bound account: a switch still deriving is abandoned
		if s.pending != "" {
			s.token++
			s.pending = ""
		}
		return None, "", s.token
	}
	if sameAccount(next, s.pending) {
		return None, "", s.token
	}
	s.token++
	if s.state != Connected {
		s.state = Connecting
	}
	s.pending = next
	return Switch, next, s.token
}

// Apply installs a derivation. A stale token is ignored and reported as false.
func (s *Session) Apply(token uint64, account string, b Bound) bool {
	if token != s.token {
		return false
	}
	s.Account = account
	s.Signer = b.Signer
	s.Contract = b.Contract
	s.state = Connected
	s.pending = ""
	return true
}

// Fail ends the derivation started under token. The session is cleared since
// the previous signer no longer matches the wallet's selected account.
func (s *Session) Fail(token uint64) bool {
	if token != s.token {
		return false
	}
	s.Clear()
	return true
}

// Clear drops the account and everything derived from it. The token moves on
// so that in-flight derivations are discarded.
func (s *Session) Clear() {
	s.Account = ""
	s.Signer = nil
	s.Contract = nil
	s.state = Disconnected
	s.pending = ""
	s.token++
}

func sameAccount(a, b string) bool {
	return a != "" && strings.EqualFold(a, b)
}

// ContractDeriver derives signers from a connection and binds the deployment
// for the connection's chain.
type ContractDeriver struct {
	Conn        *chain.Connection
	Deployments []contract.Deployment
}

func (d ContractDeriver) Derive(ctx context.Context, account common.Address) (Bound, error) {
	signer, err := d.Conn.Signer(ctx, account)
	if err != nil {
		return Bound{}, err
	}
	dep, err := contract.Find(d.Deployments, signer.ChainID().Uint64())
	if err != nil {
		return Bound{}, err
	}
	binding, err := contract.Bind(dep.Address, d.Conn, signer)
	if err != nil {
		return Bound{}, err
	}
	return Bound{Signer: signer, Contract: binding}, nil
}
