package main

import (
	"context"
	"math/big"
	"strings"
	"time"

	"charm-feedback-tui/chain"
	"charm-feedback-tui/config"
	"charm-feedback-tui/feedback"
	"charm-feedback-tui/notice"
	"charm-feedback-tui/rpc"
	"charm-feedback-tui/session"
	"charm-feedback-tui/styles"
	"charm-feedback-tui/wallet"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/ethereum/go-ethereum/common"
)

// -------------------- MODEL --------------------

// accountSelector is implemented by wallets that let the user pick the
// account they expose.
type accountSelector interface {
	Accounts() []common.Address
	Selected() common.Address
	SelectAccount(addr common.Address) error
}

// upstreamSwitcher is implemented by wallets whose node can be replaced.
type upstreamSwitcher interface {
	SwitchUpstream(ctx context.Context, up wallet.Upstream) error
}

// closer is a dialed node connection. *rpc.Client implements it.
type closer interface {
	Close()
}

// deriverFunc builds the session deriver for a freshly probed connection
type deriverFunc func(conn *chain.Connection) session.Deriver

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	activePage config.Page
	cfg        config.Config
	configPath string
	formatter  feedback.Formatter
	deriver    deriverFunc

	// wallet provider, nil when none is configured
	provider   wallet.Provider
	approvals  *approvalBridge
	relay      *eventRelay
	generation int
	conn       *chain.Connection
	network    chain.Network
	networkErr error

	session session.Session
	balance *big.Int

	// feedback list and form
	entries       []feedback.Formatted
	selectedEntry int
	loadsInFlight int
	loadedAt      time.Time
	submitting    bool
	input         textarea.Model

	// toasts, newest last
	notices []notice.Notice

	// wallet consent prompt
	approvalForm    *huh.Form
	pendingApproval *approvalRequest

	// rpc state
	rpcURL        string
	ethClient     closer // node the wallet's upstream points at, held only to be closed
	rpcStatus     rpc.Status
	rpcConnected  bool
	rpcConnecting bool

	// settings state
	settingsMode   string // "list", "add"
	selectedRPCIdx int
	form           *huh.Form

	// account list popup
	showAccountListPopup   bool
	accountListSelectedIdx int

	// explorer popup
	showExplorer  bool
	explorerTitle string
	explorerURL   string

	// clipboard feedback
	copiedMsg     string
	copiedMsgTime time.Time

	spin spinner.Model

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *strings.Builder
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model
}

// appDeps is everything newModel needs from the outside world
type appDeps struct {
	cfg        config.Config
	configPath string
	provider   wallet.Provider
	approvals  *approvalBridge
	formatter  feedback.Formatter
	deriver    deriverFunc
}

// -------------------- INIT --------------------

// newModel creates and initializes a new model
func newModel(d appDeps) model {
	deriver := d.deriver
	if deriver == nil {
		deployments := d.cfg.ContractDeployments()
		deriver = func(conn *chain.Connection) session.Deriver {
			return session.ContractDeriver{Conn: conn, Deployments: deployments}
		}
	}

	// feedback input
	in := textarea.New()
	in.Placeholder = "Share your thoughts on the blockchain..."
	in.CharLimit = feedback.MaxMessageLength
	in.ShowLineNumbers = false
	in.Prompt = "┃ "
	in.SetHeight(4)
	in.SetWidth(60)
	in.FocusedStyle.CursorLine = lipgloss.NewStyle()
	in.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(styles.CAccent)
	in.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(styles.CMuted)
	in.Blur()

	// spinner
	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	// Find active RPC
	var activeRPC string
	selectedRPC := 0
	for i, r := range d.cfg.RPCURLs {
		if r.Active {
			activeRPC = r.URL
			selectedRPC = i
			break
		}
	}

	// Initialize log viewport
	vp := viewport.New(0, 20) // Will be resized in Update on first WindowSizeMsg
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	// Initialize log spinner
	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	return model{
		activePage:     config.PageFeedback,
		cfg:            d.cfg,
		configPath:     d.configPath,
		formatter:      d.formatter,
		deriver:        deriver,
		provider:       d.provider,
		approvals:      d.approvals,
		input:          in,
		spin:           sp,
		rpcURL:         activeRPC,
		settingsMode:   "list",
		selectedRPCIdx: selectedRPC,
		logEnabled:     d.cfg.Logger,
		logViewport:    vp,
		logBuffer:      &strings.Builder{},
		logSpinner:     logSpin,
	}
}

// Init implements tea.Model interface and returns initial commands
func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	if m.approvals != nil {
		cmds = append(cmds, waitForApproval(m.approvals))
	}
	// The wallet needs its node before the page can probe it
	sw := m.switcher()
	if m.rpcURL != "" {
		m.rpcConnecting = true
		cmds = append(cmds, connectRPC(m.rpcURL, sw))
	}
	if m.rpcURL == "" || sw == nil {
		cmds = append(cmds, m.bootstrap())
	}
	return tea.Batch(cmds...)
}

func (m *model) switcher() upstreamSwitcher {
	if sw, ok := m.provider.(upstreamSwitcher); ok {
		return sw
	}
	return nil
}

func (m *model) selector() accountSelector {
	if sel, ok := m.provider.(accountSelector); ok {
		return sel
	}
	return nil
}

// loading reports whether any feedback read is in flight
func (m *model) loading() bool {
	return m.loadsInFlight > 0
}

// bootstrap probes the provider. Each call starts a new generation so that
// results of an earlier page load are ignored.
func (m *model) bootstrap() tea.Cmd {
	m.generation++
	if m.provider == nil {
		m.addLog("warning", "No wallet configured (set FEEDBACK_PRIVATE_KEYS or FEEDBACK_KEYSTORE)")
		return nil
	}
	return probeProvider(m.provider, m.generation)
}

// teardown deregisters the listener registered by the last bootstrap
func (m *model) teardown() {
	if m.relay != nil && m.provider != nil {
		m.relay.unregister(m.provider)
	}
	m.relay = nil
}

// setNode adopts the latest dialed node and closes the one it replaces
func (m *model) setNode(c closer) {
	if m.ethClient != nil && m.ethClient != c {
		m.ethClient.Close()
	}
	m.ethClient = c
}

// shutdown releases the listeners and the node before the program quits
func (m *model) shutdown() {
	m.teardown()
	m.setNode(nil)
}

// reload discards everything derived from the wallet and bootstraps again
func (m *model) reload() tea.Cmd {
	m.teardown()
	m.session.Clear()
	m.conn = nil
	m.network = chain.Network{}
	m.networkErr = nil
	m.entries = nil
	m.selectedEntry = 0
	m.balance = nil
	m.submitting = false
	m.showAccountListPopup = false
	m.showExplorer = false
	m.addLog("info", "Reloading")
	return m.bootstrap()
}
