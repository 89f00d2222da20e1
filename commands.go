package main

import (
	"context"
	"time"

	"charm-feedback-tui/chain"
	"charm-feedback-tui/feedback"
	"charm-feedback-tui/notice"
	"charm-feedback-tui/rpc"
	"charm-feedback-tui/wallet"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
)

const (
	noticeTTL         = 5 * time.Second
	requestTimeout    = 2 * time.Minute
	readTimeout       = 20 * time.Second
	submitTimeout     = 5 * time.Minute
	deriveTimeout     = 30 * time.Second
	walletCallTimeout = 10 * time.Second
)

// -------------------- COMMAND FUNCTIONS --------------------
// Functions that return tea.Cmd for async operations

// connectRPC establishes an RPC connection to the Ethereum node and, when the
// wallet supports it, points the wallet at the new node
func connectRPC(url string, sw upstreamSwitcher) tea.Cmd {
	return func() tea.Msg {
		result := rpc.Connect(url)
		if result.Error != nil {
			return rpcConnectedMsg{err: result.Error}
		}
		status := rpc.Probe(result.Client, 5*time.Second)
		if sw != nil {
			ctx, cancel := context.WithTimeout(context.Background(), walletCallTimeout)
			defer cancel()
			if err := sw.SwitchUpstream(ctx, result.Client.Upstream()); err != nil {
				// the wallet keeps its previous node
				result.Client.Close()
				return rpcConnectedMsg{status: status, err: err}
			}
		}
		return rpcConnectedMsg{client: result.Client, status: status, err: status.Err}
	}
}

// probeProvider wraps the wallet and reads its network
func probeProvider(p wallet.Provider, generation int) tea.Cmd {
	return func() tea.Msg {
		conn := chain.NewConnection(p)
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()
		network, err := conn.Network(ctx)
		return providerReadyMsg{generation: generation, conn: conn, network: network, err: err}
	}
}

// requestAccounts asks the wallet to expose its accounts
func requestAccounts(conn *chain.Connection, token uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		accounts, err := conn.RequestAccounts(ctx)
		if err != nil {
			return accountsRequestedMsg{token: token, err: err}
		}
		hex := make([]string, len(accounts))
		for i, a := range accounts {
			hex[i] = a.Hex()
		}
		return accountsRequestedMsg{token: token, accounts: hex}
	}
}

// deriveSession binds a signer and the contract for account
func deriveSession(d deriverFunc, conn *chain.Connection, token uint64, account string, userInitiated bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deriveTimeout)
		defer cancel()
		bound, err := d(conn).Derive(ctx, common.HexToAddress(account))
		return sessionDerivedMsg{token: token, account: account, bound: bound, userInitiated: userInitiated, err: err}
	}
}

// loadFeedback reads and formats the whole feedback list
func loadFeedback(src feedback.Source, f feedback.Formatter, token uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()
		entries, err := feedback.Load(ctx, src, f)
		return feedbackLoadedMsg{token: token, entries: entries, err: err}
	}
}

// submitFeedback sends the message and waits for inclusion
func submitFeedback(sink feedback.Sink, message string, token uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		res, err := feedback.Submit(ctx, sink, message)
		return submitResultMsg{token: token, result: res, err: err}
	}
}

// loadBalance reads the ETH balance of account through the wallet
func loadBalance(conn *chain.Connection, account string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), readTimeout)
		defer cancel()
		wei, err := conn.BalanceAt(ctx, common.HexToAddress(account), nil)
		return balanceLoadedMsg{account: account, wei: wei, err: err}
	}
}

// selectWalletAccount switches the account the wallet exposes. The wallet
// answers with an accountsChanged event.
func selectWalletAccount(sel accountSelector, addr common.Address) tea.Cmd {
	return func() tea.Msg {
		return walletActionMsg{action: "select", err: sel.SelectAccount(addr)}
	}
}

// disconnectWallet revokes the connection when the wallet can, otherwise it
// asks for a reload
func disconnectWallet(p wallet.Provider) tea.Cmd {
	return func() tea.Msg {
		d, ok := p.(wallet.Disconnector)
		if !ok {
			return walletActionMsg{action: "reload"}
		}
		ctx, cancel := context.WithTimeout(context.Background(), walletCallTimeout)
		defer cancel()
		return walletActionMsg{action: "disconnect", err: d.Disconnect(ctx)}
	}
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}

// copyToClipboard copies text to clipboard
func copyToClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		err := clipboard.WriteAll(text)
		if err == nil {
			return clipboardCopiedMsg{what: what}
		}
		return nil
	}
}

// clearClipboardMsg waits 2 seconds then sends a message to clear clipboard feedback
func clearClipboardMsg() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return struct{ clearClipboard bool }{true}
	})
}

// noticeTick redraws once a toast has had time to expire
func noticeTick() tea.Cmd {
	return tea.Tick(noticeTTL, func(t time.Time) tea.Msg {
		return struct{ noticeExpired bool }{true}
	})
}

// -------------------- MODEL HELPER METHODS --------------------
// These methods help with state management and command generation

// addLog adds a log entry with timestamp and type
func (m *model) addLog(logType, message string) {
	if !m.logEnabled || !m.logReady || m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message)
	case "success":
		m.logger.Info("✓", "msg", message)
	case "error":
		m.logger.Error(message)
	case "warning":
		m.logger.Warn(message)
	case "debug":
		m.logger.Debug(message)
	default:
		m.logger.Print(message)
	}

	m.updateLogViewport()
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if !m.logReady || m.logBuffer == nil {
		return
	}

	content := m.logBuffer.String()
	m.logViewport.SetContent(content)
	// Scroll to bottom to show latest entries
	m.logViewport.GotoBottom()
}

// notify shows a toast and mirrors it to the log panel
func (m *model) notify(n notice.Notice) tea.Cmd {
	m.notices = append(m.notices, n)
	m.prune(n.At)

	text := n.Title
	if n.Description != "" {
		text += ": " + n.Description
	}
	switch n.Kind {
	case notice.Error:
		m.addLog("error", text)
	case notice.Success:
		m.addLog("success", text)
	default:
		m.addLog("info", text)
	}
	return noticeTick()
}

// notifyError shows the toast for err
func (m *model) notifyError(err error) tea.Cmd {
	return m.notify(notice.FromError(err))
}

// prune drops expired toasts and keeps at most a handful around
func (m *model) prune(now time.Time) {
	live := m.notices[:0]
	for _, n := range m.notices {
		if !n.Expired(now, noticeTTL) {
			live = append(live, n)
		}
	}
	if len(live) > 4 {
		live = live[len(live)-4:]
	}
	m.notices = live
}

// dismissPending removes the in-progress toast once its transaction settled
func (m *model) dismissPending() {
	live := m.notices[:0]
	for _, n := range m.notices {
		if n.Kind != notice.Pending {
			live = append(live, n)
		}
	}
	m.notices = live
}

// textInputActive returns true if any text input is currently active
func (m model) textInputActive() bool {
	if m.input.Focused() {
		return true
	}
	if m.approvalForm != nil {
		return true
	}
	if m.settingsMode == "add" && m.form != nil {
		return true
	}
	return false
}
