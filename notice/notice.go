// Package notice holds the user visible status messages of the front end.
package notice

import (
	"errors"
	"time"

	"charm-feedback-tui/chain"
	"charm-feedback-tui/contract"
	"charm-feedback-tui/feedback"
	"charm-feedback-tui/helpers"
	"charm-feedback-tui/wallet"
)

type Kind int

const (
	Info Kind = iota
	Success
	Error
	Pending
)

func (k Kind) String() string {
	switch k {
	case Info:
		return "info"
	case Success:
		return "success"
	case Error:
		return "error"
	case Pending:
		return "pending"
	}
	return "unknown"
}

// Notice is a toast: a title with an optional description.
type Notice struct {
	Kind        Kind
	Title       string
	Description string
	At          time.Time
}

func New(kind Kind, title, description string) Notice {
	return Notice{Kind: kind, Title: title, Description: description, At: time.Now()}
}

// Expired reports whether n has been on screen longer than ttl. Pending
// notices stay until replaced.
func (n Notice) Expired(now time.Time, ttl time.Duration) bool {
	return n.Kind != Pending && now.Sub(n.At) > ttl
}

func Connected(account string) Notice {
	return New(Success, "Wallet Connected", "Connected to "+helpers.ShortenAddr(account))
}

func Disconnected() Notice {
	return New(Info, "Wallet Disconnected", "Your wallet has been disconnected")
}

func Submitting() Notice {
	return New(Pending, "Transaction in progress...", "Waiting for the transaction to be included")
}

func Submitted() Notice {
	return New(Success, "Feedback Submitted", "Your feedback has been successfully recorded on the blockchain")
}

// SwitchFailed is shown when an account picked in the wallet could not be
// bound.
func SwitchFailed() Notice {
	return New(Error, "Connection Error", "Failed to connect with selected account")
}

func NetworkError() Notice {
	return New(Error, "Connection Error", "Failed to connect to Ethereum network")
}

// FromError maps a failure to the notice the user sees.
func FromError(err error) Notice {
	var rpcErr *wallet.RPCError
	switch {
	case errors.Is(err, wallet.ErrNoProvider):
		return New(Error, "No Provider", "Please install MetaMask or another Ethereum wallet")
	case errors.Is(err, wallet.ErrInvalidEventPayload):
		return New(Error, "Invalid Wallet Event", "The wallet sent an account list that could not be read")
	case errors.Is(err, feedback.ErrEmptyMessage):
		return New(Error, "Empty Feedback", "Please enter a message")
	case errors.Is(err, feedback.ErrMessageTooLong):
		return New(Error, "Feedback Too Long", "Feedback is limited to 500 characters")
	case errors.Is(err, feedback.ErrNotConnected):
		return New(Error, "Not Connected", "Please connect your wallet first")
	case errors.Is(err, feedback.ErrTransactionFailed):
		return New(Error, "Transaction Failed", "Failed to submit feedback. Please try again.")
	case errors.Is(err, feedback.ErrNetworkRead):
		return New(Error, "Loading Error", "Failed to load feedbacks from the contract")
	case errors.Is(err, contract.ErrNoDeployment):
		return New(Error, "Unsupported Network", "The feedback contract is not deployed on this network")
	case errors.Is(err, chain.ErrAccountNotExposed):
		return New(Error, "Connection Failed", "The wallet no longer exposes this account")
	case errors.Is(err, wallet.ErrUserRejected):
		return New(Error, "Request Rejected", "You rejected the request in your wallet")
	case errors.As(err, &rpcErr) && rpcErr.Code == wallet.CodeUnauthorized:
		return New(Error, "Not Authorized", "The wallet has not authorized this account")
	}
	return New(Error, "Connection Failed", "Failed to connect wallet. Please try again.")
}
