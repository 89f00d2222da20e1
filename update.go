package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"charm-feedback-tui/chain"
	"charm-feedback-tui/config"
	"charm-feedback-tui/contract"
	"charm-feedback-tui/feedback"
	"charm-feedback-tui/helpers"
	"charm-feedback-tui/notice"
	"charm-feedback-tui/session"
	"charm-feedback-tui/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// -------------------- TEMP FORM STORAGE --------------------
// Temporary form field storage (package-level to avoid pointer-to-copy issues)
var (
	tempRPCFormName string
	tempRPCFormURL  string
	tempApprove     bool
)

func (m *model) createAddRPCForm() {
	tempRPCFormName = ""
	tempRPCFormURL = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("RPC Name").
				Description("A friendly name for this RPC endpoint").
				Value(&tempRPCFormName).
				Placeholder("My Sepolia Node"),

			huh.NewInput().
				Title("RPC URL").
				Description("The complete RPC URL (https://...)").
				Value(&tempRPCFormURL).
				Placeholder("https://ethereum-sepolia-rpc.publicnode.com").
				Validate(func(s string) error {
					u, err := url.Parse(strings.TrimSpace(s))
					if err != nil || u.Host == "" {
						return fmt.Errorf("invalid url")
					}
					switch u.Scheme {
					case "http", "https", "ws", "wss":
						return nil
					}
					return fmt.Errorf("unsupported scheme %q", u.Scheme)
				}),
		),
	).WithTheme(huh.ThemeCatppuccin())

	// Initialize the form
	m.form.Init()
}

func (m *model) createApprovalForm(a wallet.Approval) {
	tempApprove = true

	title, description := approvalText(a)
	m.approvalForm = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Approve").
				Negative("Reject").
				Value(&tempApprove),
		),
	).WithTheme(huh.ThemeCatppuccin()).WithWidth(64)

	m.approvalForm.Init()
}

func approvalText(a wallet.Approval) (string, string) {
	switch a.Kind {
	case wallet.ApproveConnect:
		addrs := make([]string, len(a.Accounts))
		for i, acc := range a.Accounts {
			addrs[i] = acc.Hex()
		}
		return "Connect to Decentralized Feedback?",
			"The page will see " + helpers.Plural(len(addrs), "account", "accounts") + ":\n" + strings.Join(addrs, "\n")
	case wallet.ApproveSign:
		var lines []string
		lines = append(lines, "From: "+a.From.Hex())
		if a.Tx != nil {
			if to := a.Tx.To(); to != nil {
				lines = append(lines, "To:   "+to.Hex())
			}
			lines = append(lines,
				fmt.Sprintf("Gas:  %d", a.Tx.Gas()),
				fmt.Sprintf("Data: %d bytes", len(a.Tx.Data())),
			)
			if a.Tx.Value().Sign() > 0 {
				lines = append(lines, "Value: "+helpers.FormatETH(a.Tx.Value()))
			}
		}
		return "Sign transaction?", strings.Join(lines, "\n")
	}
	return "Approve wallet request?", a.Kind.String()
}

// -------------------- UPDATE --------------------

// Update handles all incoming messages and updates the model accordingly
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "ctrl+c" {
			m.shutdown()
			return m, tea.Quit
		}
		// The wallet prompt takes every key until answered
		if m.approvalForm != nil {
			return m.updateApprovalForm(msg)
		}
		if m.activePage == config.PageSettings && m.settingsMode == "add" && m.form != nil {
			return m.updateRPCForm(msg)
		}
		return m.handleKey(keyMsg)
	}

	switch msg := msg.(type) {

	case logInitMsg:
		if !m.logEnabled {
			return m, nil
		}
		// Create logger that writes to our buffer
		m.logger = log.NewWithOptions(m.logBuffer, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Prefix:          "",
		})
		m.logger.SetLevel(log.DebugLevel)
		m.logger.SetStyles(&log.Styles{
			Timestamp: lipgloss.NewStyle().Foreground(cMuted),
			Caller:    lipgloss.NewStyle().Faint(true),
			Prefix:    lipgloss.NewStyle().Bold(true).Foreground(cAccent2),
			Message:   lipgloss.NewStyle().Foreground(cText),
			Key:       lipgloss.NewStyle().Foreground(cAccent),
			Value:     lipgloss.NewStyle().Foreground(cText),
			Separator: lipgloss.NewStyle().Faint(true),
			Levels: map[log.Level]lipgloss.Style{
				log.DebugLevel: lipgloss.NewStyle().Foreground(cMuted).SetString("DEBUG"),
				log.InfoLevel:  lipgloss.NewStyle().Foreground(cAccent2).SetString("INFO"),
				log.WarnLevel:  lipgloss.NewStyle().Foreground(cWarn).SetString("WARN"),
				log.ErrorLevel: lipgloss.NewStyle().Foreground(cError).SetString("ERROR"),
			},
		})
		m.logReady = true
		m.addLog("info", "Logger enabled")
		return m, nil

	case rpcConnectedMsg:
		m.rpcConnecting = false
		m.rpcStatus = msg.status
		if msg.client != nil {
			m.setNode(msg.client)
		}
		if msg.err != nil {
			m.rpcConnected = false
			m.addLog("error", fmt.Sprintf("RPC connection failed: `%s`", msg.err.Error()))
		} else {
			m.rpcConnected = true
			m.addLog("success", fmt.Sprintf("RPC connected to `%s` (chain %s, block %d)", msg.client.URL, msg.status.ChainID, msg.status.Block))
		}
		// The first node answer, good or bad, lets the page probe the wallet
		if m.generation == 0 {
			return m, m.bootstrap()
		}
		return m, nil

	case providerReadyMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		m.conn = msg.conn
		m.relay = newEventRelay()
		m.relay.register(m.provider)
		cmds := []tea.Cmd{waitForWalletEvent(m.relay)}
		if msg.err != nil {
			m.networkErr = msg.err
			m.addLog("error", "Network query failed: "+msg.err.Error())
			cmds = append(cmds, m.notify(notice.NetworkError()))
		} else {
			m.network = msg.network
			m.networkErr = nil
			m.addLog("info", fmt.Sprintf("Wallet is on %s (chain %s)", msg.network.Name, msg.network.ChainID))
		}
		return m, tea.Batch(cmds...)

	case walletEventMsg:
		if msg.relay != m.relay {
			return m, nil
		}
		return m.handleWalletEvent(msg)

	case approvalPromptMsg:
		req := msg.req
		m.pendingApproval = &req
		m.createApprovalForm(req.approval)
		m.addLog("info", fmt.Sprintf("Wallet asks to %s", req.approval.Kind))
		return m, nil

	case accountsRequestedMsg:
		if msg.err != nil {
			if !m.session.Fail(msg.token) {
				return m, nil
			}
			m.addLog("error", "eth_requestAccounts failed: "+msg.err.Error())
			return m, m.notifyError(msg.err)
		}
		account, ok := m.session.Accounts(msg.token, msg.accounts)
		if !ok {
			if msg.token != m.session.Token() {
				return m, nil
			}
			m.session.Fail(msg.token)
			return m, m.notifyError(errors.New("wallet returned no accounts"))
		}
		m.addLog("info", "Wallet exposed "+helpers.ShortenAddr(account))
		return m, deriveSession(m.deriver, m.conn, msg.token, account, true)

	case sessionDerivedMsg:
		if msg.err != nil {
			if !m.session.Fail(msg.token) {
				m.addLog("debug", "Discarded stale derivation for "+helpers.ShortenAddr(msg.account))
				return m, nil
			}
			m.balance = nil
			m.input.Blur()
			m.addLog("error", fmt.Sprintf("Binding %s failed: %s", helpers.ShortenAddr(msg.account), msg.err))
			if errors.Is(msg.err, contract.ErrNoDeployment) {
				return m, m.notifyError(msg.err)
			}
			return m, m.notify(notice.SwitchFailed())
		}
		if !m.session.Apply(msg.token, msg.account, msg.bound) {
			m.addLog("debug", "Discarded stale derivation for "+helpers.ShortenAddr(msg.account))
			return m, nil
		}
		m.balance = nil
		if msg.userInitiated {
			m.addLog("success", "Connected "+msg.account)
		} else {
			m.addLog("success", "Switched to "+msg.account)
		}
		return m, tea.Batch(
			m.notify(notice.Connected(msg.account)),
			m.refresh(),
			loadBalance(m.conn, msg.account),
		)

	case feedbackLoadedMsg:
		m.loadsInFlight = max(0, m.loadsInFlight-1)
		if msg.token != m.session.Token() {
			m.addLog("debug", "Discarded feedback list of a previous session")
			return m, nil
		}
		if msg.err != nil {
			m.addLog("error", msg.err.Error())
			return m, m.notifyError(msg.err)
		}
		m.entries = msg.entries
		m.loadedAt = time.Now()
		m.selectedEntry = min(m.selectedEntry, max(0, len(m.entries)-1))
		m.addLog("success", "Loaded "+helpers.Plural(len(m.entries), "feedback", "feedbacks"))
		return m, nil

	case submitResultMsg:
		m.submitting = false
		m.dismissPending()
		if msg.err != nil {
			m.addLog("error", "Submit failed: "+msg.err.Error())
			return m, m.notifyError(msg.err)
		}
		m.input.Reset()
		if msg.result.Tx != nil {
			m.addLog("success", "Feedback included in "+msg.result.Tx.Hash().Hex())
		}
		if e := msg.result.Entry; e != nil {
			m.addLog("debug", fmt.Sprintf("NewFeedback from %s at %s", helpers.ShortenAddr(e.User.Hex()), e.Time().Format(time.RFC3339)))
		}
		cmds := []tea.Cmd{m.notify(notice.Submitted())}
		if msg.token == m.session.Token() {
			cmds = append(cmds, m.refresh(), loadBalance(m.conn, m.session.Account))
		}
		return m, tea.Batch(cmds...)

	case balanceLoadedMsg:
		if !helpers.SameAddress(msg.account, m.session.Account) {
			return m, nil
		}
		if msg.err != nil {
			m.addLog("warning", "Balance unavailable: "+msg.err.Error())
			return m, nil
		}
		m.balance = msg.wei
		return m, nil

	case walletActionMsg:
		switch {
		case msg.action == "reload":
			return m, m.reload()
		case msg.err != nil:
			m.addLog("error", fmt.Sprintf("Wallet %s failed: %s", msg.action, msg.err))
			return m, m.notifyError(msg.err)
		}
		m.addLog("info", "Wallet "+msg.action+" done")
		return m, nil

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		m.input.SetWidth(max(20, msg.Width/2-10))

		// Only initialize viewport if log is enabled
		if m.logEnabled {
			// Width accounts for border and padding
			m.logViewport.Width = max(0, msg.Width-6)
			if m.logReady {
				m.updateLogViewport()
			}
		}
		return m, nil

	case tea.MouseMsg:
		if m.logEnabled && m.logReady {
			var cmd tea.Cmd
			m.logViewport, cmd = m.logViewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		var cmds []tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		// Update log spinner too if log is enabled but not ready
		if m.logEnabled && !m.logReady {
			m.logSpinner, cmd = m.logSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case clipboardCopiedMsg:
		m.copiedMsg = "✓ Copied " + msg.what + " to clipboard"
		m.copiedMsgTime = time.Now()
		m.addLog("info", "Copied "+msg.what+" to clipboard")
		return m, clearClipboardMsg()

	default:
		// Clear clipboard message after timeout
		if msg, ok := msg.(struct{ clearClipboard bool }); ok && msg.clearClipboard {
			if time.Since(m.copiedMsgTime) >= 2*time.Second {
				m.copiedMsg = ""
			}
			return m, nil
		}
		if _, ok := msg.(struct{ noticeExpired bool }); ok {
			m.prune(time.Now())
			return m, nil
		}
		// Everything else belongs to the active form or the text area
		switch {
		case m.approvalForm != nil:
			return m.updateApprovalForm(msg)
		case m.settingsMode == "add" && m.form != nil:
			return m.updateRPCForm(msg)
		case m.input.Focused():
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *model) updateApprovalForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Intercept ESC key to reject
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		return m, m.answerApproval(false)
	}

	form, cmd := m.approvalForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.approvalForm = f
		switch m.approvalForm.State {
		case huh.StateCompleted:
			return m, m.answerApproval(tempApprove)
		case huh.StateAborted:
			return m, m.answerApproval(false)
		}
	}
	return m, cmd
}

// answerApproval replies to the pending wallet prompt and waits for the next
func (m *model) answerApproval(ok bool) tea.Cmd {
	if m.pendingApproval != nil {
		m.pendingApproval.reply <- ok
		if ok {
			m.addLog("info", fmt.Sprintf("Approved %s request", m.pendingApproval.approval.Kind))
		} else {
			m.addLog("warning", fmt.Sprintf("Rejected %s request", m.pendingApproval.approval.Kind))
		}
	}
	m.pendingApproval = nil
	m.approvalForm = nil
	if m.approvals == nil {
		return nil
	}
	return waitForApproval(m.approvals)
}

func (m *model) updateRPCForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Intercept ESC key to cancel form
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.settingsMode = "list"
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f

		if m.form.State == huh.StateCompleted {
			name := strings.TrimSpace(tempRPCFormName)
			u := strings.TrimSpace(tempRPCFormURL)
			if name == "" {
				name = u
			}
			if u != "" {
				m.cfg.RPCURLs = append(m.cfg.RPCURLs, config.RPCUrl{Name: name, URL: u})
				m.saveConfig()
				m.addLog("success", fmt.Sprintf("Added RPC endpoint: `%s` (%s)", name, u))
			}
			m.settingsMode = "list"
			m.form = nil
			// Return without the form's cmd to ensure we're back in list mode
			return m, nil
		}

		if m.form.State == huh.StateAborted {
			m.settingsMode = "list"
			m.form = nil
			return m, nil
		}
	}
	return m, cmd
}

// handleWalletEvent applies an accountsChanged or chainChanged notification
func (m *model) handleWalletEvent(msg walletEventMsg) (tea.Model, tea.Cmd) {
	switch msg.event {
	case wallet.EventChainChanged:
		m.addLog("warning", "Wallet switched chains, reloading")
		return m, m.reload()

	case wallet.EventAccountsChanged:
		next := waitForWalletEvent(m.relay)
		accounts, err := wallet.ParseAccounts(msg.payload)
		if err != nil {
			m.addLog("error", err.Error())
			return m, tea.Batch(next, m.notifyError(err))
		}

		transition, account, token := m.session.AccountsChanged(accounts)
		switch transition {
		case session.Cleared:
			m.balance = nil
			m.input.Blur()
			return m, tea.Batch(next, m.notify(notice.Disconnected()))
		case session.Switch:
			m.addLog("info", "Wallet switched to "+helpers.ShortenAddr(account))
			return m, tea.Batch(next, deriveSession(m.deriver, m.conn, token, account, false))
		}
		return m, next
	}

	m.addLog("debug", "Ignored wallet event "+msg.event)
	return m, waitForWalletEvent(m.relay)
}

// -------------------- KEYS --------------------

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showExplorer {
		switch msg.String() {
		case "c", "C":
			return m, copyToClipboard(m.explorerURL, "explorer link")
		case "esc", "enter", "q":
			m.showExplorer = false
			m.copiedMsg = ""
		}
		return m, nil
	}

	if m.showAccountListPopup {
		return m.handleAccountListKey(msg)
	}

	// Writing feedback
	if m.input.Focused() {
		switch msg.String() {
		case "esc":
			m.input.Blur()
			return m, nil
		case "ctrl+s":
			return m, m.submit()
		case "ctrl+l":
			if !m.submitting {
				m.input.Reset()
			}
			return m, nil
		}
		if m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	// global keys
	if !m.textInputActive() {
		switch msg.String() {
		case "q":
			m.shutdown()
			return m, tea.Quit

		case "l", "L":
			// Toggle logger
			m.logEnabled = !m.logEnabled
			if m.logEnabled {
				if m.w > 0 {
					m.logViewport.Width = m.w - 6
				}
				m.logReady = false
				m.saveConfig()
				return m, tea.Batch(initLogViewport(), m.logSpinner.Tick)
			}
			// Clear logs and de-initialize when disabling
			if m.logBuffer != nil {
				m.logBuffer.Reset()
			}
			m.logger = nil
			m.logReady = false
			m.saveConfig()
			return m, nil

		case "pageup", "pagedown":
			if m.logEnabled && m.logReady {
				var cmd tea.Cmd
				m.logViewport, cmd = m.logViewport.Update(msg)
				return m, cmd
			}
		}
	}

	switch m.activePage {
	case config.PageFeedback:
		return m.handleFeedbackKey(msg)
	case config.PageSettings:
		return m.handleSettingsKey(msg)
	}
	return m, nil
}

func (m *model) handleFeedbackKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c", "C":
		return m, m.connect()

	case "x", "X":
		if !m.session.Connected() || m.provider == nil {
			return m, nil
		}
		m.addLog("info", "Disconnecting wallet")
		return m, disconnectWallet(m.provider)

	case "tab", "i":
		if !m.session.Connected() {
			return m, nil
		}
		return m, m.input.Focus()

	case "ctrl+s":
		return m, m.submit()

	case "r", "R":
		if !m.session.Connected() {
			return m, nil
		}
		return m, tea.Batch(m.refresh(), loadBalance(m.conn, m.session.Account))

	case "a", "A":
		sel := m.selector()
		if sel == nil {
			m.addLog("warning", "The wallet does not offer account selection")
			return m, nil
		}
		m.accountListSelectedIdx = 0
		current := sel.Selected()
		for i, a := range sel.Accounts() {
			if a == current {
				m.accountListSelectedIdx = i
			}
		}
		m.showAccountListPopup = true
		return m, nil

	case "e", "E":
		if m.session.Connected() {
			m.openExplorer("View on Explorer", m.session.Account)
		}
		return m, nil

	case "o", "O":
		if m.session.Connected() && m.selectedEntry < len(m.entries) {
			e := m.entries[m.selectedEntry]
			m.openExplorer("Author "+e.ShortAddress, e.User)
		}
		return m, nil

	case "up", "k":
		if m.selectedEntry > 0 {
			m.selectedEntry--
		}
		return m, nil

	case "down", "j":
		if m.selectedEntry < len(m.entries)-1 {
			m.selectedEntry++
		}
		return m, nil

	case "s", "S":
		m.activePage = config.PageSettings
		m.settingsMode = "list"
		return m, nil
	}
	return m, nil
}

func (m *model) handleAccountListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel := m.selector()
	if sel == nil {
		m.showAccountListPopup = false
		return m, nil
	}
	accounts := sel.Accounts()

	switch msg.String() {
	case "up", "k":
		if m.accountListSelectedIdx > 0 {
			m.accountListSelectedIdx--
		}
	case "down", "j":
		if m.accountListSelectedIdx < len(accounts)-1 {
			m.accountListSelectedIdx++
		}
	case "enter":
		m.showAccountListPopup = false
		if m.accountListSelectedIdx < len(accounts) {
			addr := accounts[m.accountListSelectedIdx]
			m.addLog("info", "Selecting "+helpers.ShortenAddr(addr.Hex()))
			return m, selectWalletAccount(sel, addr)
		}
	case "esc":
		m.showAccountListPopup = false
	}
	return m, nil
}

func (m *model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.activePage = config.PageFeedback
		return m, nil

	case "a", "A":
		m.settingsMode = "add"
		m.createAddRPCForm()
		return m, nil

	case "d", "delete", "backspace":
		if m.selectedRPCIdx >= len(m.cfg.RPCURLs) {
			return m, nil
		}
		r := m.cfg.RPCURLs[m.selectedRPCIdx]
		if r.Active {
			m.addLog("warning", "Activate another endpoint before deleting the active one")
			return m, nil
		}
		m.cfg.RPCURLs = append(m.cfg.RPCURLs[:m.selectedRPCIdx], m.cfg.RPCURLs[m.selectedRPCIdx+1:]...)
		if m.selectedRPCIdx >= len(m.cfg.RPCURLs) && m.selectedRPCIdx > 0 {
			m.selectedRPCIdx--
		}
		m.saveConfig()
		m.addLog("warning", fmt.Sprintf("Deleted RPC endpoint `%s`", r.Name))
		return m, nil

	case "up", "k":
		if m.selectedRPCIdx > 0 {
			m.selectedRPCIdx--
		}
		return m, nil

	case "down", "j":
		if m.selectedRPCIdx < len(m.cfg.RPCURLs)-1 {
			m.selectedRPCIdx++
		}
		return m, nil

	case "enter", " ":
		if m.selectedRPCIdx >= len(m.cfg.RPCURLs) {
			return m, nil
		}
		m.cfg.SetActiveRPC(m.selectedRPCIdx)
		m.rpcURL = m.cfg.RPCURLs[m.selectedRPCIdx].URL
		m.saveConfig()
		// Set connecting state and reconnect with new RPC
		m.rpcConnecting = true
		m.rpcConnected = false
		m.addLog("info", "Switching node to "+m.rpcURL)
		return m, connectRPC(m.rpcURL, m.switcher())
	}
	return m, nil
}

// -------------------- ACTIONS --------------------

// connect starts a user initiated connect
func (m *model) connect() tea.Cmd {
	if m.session.State() != session.Disconnected {
		return nil
	}
	token, err := m.session.BeginConnect(m.provider != nil)
	if err != nil {
		return m.notifyError(err)
	}
	if m.conn == nil {
		m.conn = chain.NewConnection(m.provider)
	}
	m.addLog("info", "Requesting accounts")
	return requestAccounts(m.conn, token)
}

// submit sends the text area content when a session is bound
func (m *model) submit() tea.Cmd {
	if m.submitting {
		return nil
	}
	if !m.session.Connected() {
		return m.notifyError(feedback.ErrNotConnected)
	}
	message, err := feedback.Validate(m.input.Value())
	if err != nil {
		return m.notifyError(err)
	}
	m.submitting = true
	m.addLog("info", fmt.Sprintf("Submitting feedback (%d characters)", utf8.RuneCountInString(message)))
	return tea.Batch(
		m.notify(notice.Submitting()),
		submitFeedback(m.session.Contract, message, m.session.Token()),
	)
}

// refresh reloads the list of the bound session
func (m *model) refresh() tea.Cmd {
	if !m.session.Connected() || m.session.Contract == nil {
		return nil
	}
	m.loadsInFlight++
	return loadFeedback(m.session.Contract, m.formatter, m.session.Token())
}

// openExplorer shows the explorer link of addr for the current network
func (m *model) openExplorer(title, addr string) {
	base := m.explorerBase()
	if base == "" {
		m.addLog("warning", "No block explorer known for this network")
		return
	}
	m.explorerTitle = title
	m.explorerURL = helpers.ExplorerURL(base, addr)
	m.showExplorer = true
}

func (m *model) explorerBase() string {
	if m.network.ChainID == nil {
		return ""
	}
	d, err := contract.Find(m.cfg.ContractDeployments(), m.network.ChainID.Uint64())
	if err != nil {
		return ""
	}
	return d.Explorer
}

func (m *model) saveConfig() {
	m.cfg.Logger = m.logEnabled
	if err := config.Save(m.configPath, m.cfg); err != nil {
		m.addLog("error", "Failed to save config: "+err.Error())
	}
}
