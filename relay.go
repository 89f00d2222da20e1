package main

import (
	"context"
	"encoding/json"
	"sync"

	"charm-feedback-tui/wallet"

	tea "github.com/charmbracelet/bubbletea"
)

// -------------------- WALLET → TEA RELAYS --------------------
// Wallet callbacks run on the wallet's goroutine. They never touch the model;
// they post into channels drained by re-armed commands.

// eventRelay is the one listener registered per bootstrap. The same pointer
// is handed to On and RemoveListener.
type eventRelay struct {
	events chan walletEvent
	done   chan struct{}
	once   sync.Once
}

type walletEvent struct {
	name    string
	payload json.RawMessage
}

func newEventRelay() *eventRelay {
	return &eventRelay{
		events: make(chan walletEvent, 16),
		done:   make(chan struct{}),
	}
}

func (r *eventRelay) HandleEvent(event string, payload json.RawMessage) {
	select {
	case r.events <- walletEvent{name: event, payload: payload}:
	case <-r.done:
	}
}

func (r *eventRelay) stop() {
	r.once.Do(func() { close(r.done) })
}

func (r *eventRelay) register(p wallet.Provider) {
	p.On(wallet.EventAccountsChanged, r)
	p.On(wallet.EventChainChanged, r)
}

func (r *eventRelay) unregister(p wallet.Provider) {
	p.RemoveListener(wallet.EventAccountsChanged, r)
	p.RemoveListener(wallet.EventChainChanged, r)
	r.stop()
}

// waitForWalletEvent delivers the next event of r, or nothing once r stopped.
func waitForWalletEvent(r *eventRelay) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-r.events:
			return walletEventMsg{relay: r, event: ev.name, payload: ev.payload}
		case <-r.done:
			return nil
		}
	}
}

// approvalBridge turns wallet consent callbacks into prompts in the TUI.
type approvalBridge struct {
	requests chan approvalRequest
}

type approvalRequest struct {
	approval wallet.Approval
	reply    chan bool
}

func newApprovalBridge() *approvalBridge {
	return &approvalBridge{requests: make(chan approvalRequest)}
}

// Approve blocks until the prompt is answered or ctx ends.
func (b *approvalBridge) Approve(ctx context.Context, a wallet.Approval) bool {
	req := approvalRequest{approval: a, reply: make(chan bool, 1)}
	select {
	case b.requests <- req:
	case <-ctx.Done():
		return false
	}
	select {
	case ok := <-req.reply:
		return ok
	case <-ctx.Done():
		return false
	}
}

func waitForApproval(b *approvalBridge) tea.Cmd {
	return func() tea.Msg {
		return approvalPromptMsg{req: <-b.requests}
	}
}
