package main

import (
	"encoding/json"
	"math/big"

	"charm-feedback-tui/chain"
	"charm-feedback-tui/feedback"
	"charm-feedback-tui/rpc"
	"charm-feedback-tui/session"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct{ what string }

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}

// rpcConnectedMsg contains result of RPC connection attempt
type rpcConnectedMsg struct {
	client *rpc.Client
	status rpc.Status
	err    error
}

// providerReadyMsg is the result of probing the wallet on (re)load
type providerReadyMsg struct {
	generation int
	conn       *chain.Connection
	network    chain.Network
	err        error
}

// walletEventMsg carries an accountsChanged or chainChanged notification
type walletEventMsg struct {
	relay   *eventRelay
	event   string
	payload json.RawMessage
}

// approvalPromptMsg asks the user to approve a wallet request
type approvalPromptMsg struct {
	req approvalRequest
}

// accountsRequestedMsg is the reply to eth_requestAccounts
type accountsRequestedMsg struct {
	token    uint64
	accounts []string
	err      error
}

// sessionDerivedMsg contains the signer and contract derived for an account
type sessionDerivedMsg struct {
	token         uint64
	account       string
	bound         session.Bound
	userInitiated bool
	err           error
}

// feedbackLoadedMsg contains the result of a feedback list read
type feedbackLoadedMsg struct {
	token   uint64
	entries []feedback.Formatted
	err     error
}

// submitResultMsg reports an included (or failed) feedback submission
type submitResultMsg struct {
	token  uint64
	result feedback.Result
	err    error
}

// balanceLoadedMsg contains the ETH balance of the active account
type balanceLoadedMsg struct {
	account string
	wei     *big.Int
	err     error
}

// walletActionMsg reports a wallet side action such as a disconnect or an
// account switch
type walletActionMsg struct {
	action string
	err    error
}
