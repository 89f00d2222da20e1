package main

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"charm-feedback-tui/chain"
	"charm-feedback-tui/config"
	"charm-feedback-tui/contract"
	"charm-feedback-tui/feedback"
	"charm-feedback-tui/session"
	"charm-feedback-tui/wallet"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000A11cE")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000B0b")
)

// -------------------- FAKES --------------------

// fakeProvider is an injected wallet that exposes a fixed account list
type fakeProvider struct {
	wallet.Emitter

	mu         sync.Mutex
	accounts   []common.Address
	requestErr error
	networkErr error
	requests   map[string]int
}

func newFakeProvider(accounts ...common.Address) *fakeProvider {
	if accounts == nil {
		accounts = []common.Address{}
	}
	return &fakeProvider{accounts: accounts, requests: map[string]int{}}
}

func (p *fakeProvider) Request(_ context.Context, method string, _ ...any) (json.RawMessage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests[method]++

	switch method {
	case "eth_chainId":
		if p.networkErr != nil {
			return nil, p.networkErr
		}
		return json.RawMessage(`"0xaa36a7"`), nil
	case "eth_requestAccounts", "eth_accounts":
		if p.requestErr != nil {
			return nil, p.requestErr
		}
		return json.Marshal(p.accounts)
	case "eth_getBalance":
		return json.RawMessage(`"0xde0b6b3a7640000"`), nil
	}
	return nil, &wallet.RPCError{Code: wallet.CodeUnsupported, Message: method}
}

func (p *fakeProvider) count(method string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[method]
}

// fakeNode answers the reads a local wallet forwards upstream
type fakeNode struct{}

func (fakeNode) CallContext(_ context.Context, result any, method string, _ ...any) error {
	var v any
	switch method {
	case "eth_chainId":
		v = "0xaa36a7"
	case "eth_getBalance":
		v = "0x0"
	default:
		return errors.New("unexpected call " + method)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

// fakeContract keeps submitted messages in memory
type fakeContract struct {
	mu        sync.Mutex
	entries   []contract.Entry
	reads     int
	readErr   error
	sendErr   error
	mineErr   error
	reverted  bool
	submitted []string
	from      common.Address
}

func (c *fakeContract) GetAllFeedback(context.Context) ([]contract.Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	if c.readErr != nil {
		return nil, c.readErr
	}
	return append([]contract.Entry(nil), c.entries...), nil
}

func (c *fakeContract) SubmitFeedback(_ context.Context, message string) (*types.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return nil, c.sendErr
	}
	c.submitted = append(c.submitted, message)
	c.entries = append(c.entries, contract.Entry{User: c.from, Message: message, Timestamp: big.NewInt(time.Now().Unix())})
	return types.NewTx(&types.LegacyTx{Nonce: uint64(len(c.submitted))}), nil
}

func (c *fakeContract) WaitMined(context.Context, *types.Transaction) (*types.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mineErr != nil {
		return nil, c.mineErr
	}
	status := types.ReceiptStatusSuccessful
	if c.reverted {
		status = types.ReceiptStatusFailed
	}
	return &types.Receipt{Status: status, BlockNumber: big.NewInt(1)}, nil
}

func (c *fakeContract) NewFeedback(*types.Receipt) (contract.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) == 0 {
		return contract.Entry{}, false
	}
	return c.entries[len(c.entries)-1], true
}

func (c *fakeContract) readCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

func (c *fakeContract) submitCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.submitted)
}

// fakeDeriver binds every account to the same contract. A gated account
// blocks until its gate is closed.
type fakeDeriver struct {
	contract *fakeContract

	mu      sync.Mutex
	derived map[common.Address]int
	gates   map[common.Address]chan struct{}
	err     error
}

func newFakeDeriver(c *fakeContract) *fakeDeriver {
	return &fakeDeriver{contract: c, derived: map[common.Address]int{}, gates: map[common.Address]chan struct{}{}}
}

func (d *fakeDeriver) gate(a common.Address) chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	g := make(chan struct{})
	d.gates[a] = g
	return g
}

func (d *fakeDeriver) Derive(ctx context.Context, account common.Address) (session.Bound, error) {
	d.mu.Lock()
	d.derived[account]++
	g := d.gates[account]
	err := d.err
	d.mu.Unlock()

	if g != nil {
		select {
		case <-g:
		case <-ctx.Done():
			return session.Bound{}, ctx.Err()
		}
	}
	if err != nil {
		return session.Bound{}, err
	}
	return session.Bound{Contract: d.contract}, nil
}

func (d *fakeDeriver) count(a common.Address) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.derived[a]
}

func (d *fakeDeriver) total() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.derived {
		n += c
	}
	return n
}

func (d *fakeDeriver) fn() deriverFunc {
	return func(*chain.Connection) session.Deriver { return d }
}

// -------------------- HARNESS --------------------

// harness drives a model the way tea.Program does: every returned command
// runs on its own goroutine and its message is fed back into Update.
type harness struct {
	t    *testing.T
	m    *model
	msgs chan tea.Msg
}

func newHarness(t *testing.T, provider wallet.Provider, d *fakeDeriver) *harness {
	t.Helper()
	deps := appDeps{
		cfg:        config.Config{},
		configPath: filepath.Join(t.TempDir(), "config.json"),
		provider:   provider,
		formatter:  feedback.NewFormatter(language.AmericanEnglish, time.UTC),
	}
	if d != nil {
		deps.deriver = d.fn()
	}
	m := newModel(deps)
	h := &harness{t: t, m: &m, msgs: make(chan tea.Msg, 256)}
	h.run(h.m.Init())
	h.settle()
	return h
}

func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		if msg := cmd(); msg != nil {
			h.msgs <- msg
		}
	}()
}

func (h *harness) dispatch(msg tea.Msg) {
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			h.run(c)
		}
		return
	case spinner.TickMsg:
		return
	}
	_, cmd := h.m.Update(msg)
	h.run(cmd)
}

// settle processes messages until none arrives for a while. Commands that
// block longer, like wallet event waits and toast timers, stay pending and
// are picked up by a later settle.
func (h *harness) settle() {
	for {
		select {
		case msg := <-h.msgs:
			h.dispatch(msg)
		case <-time.After(200 * time.Millisecond):
			return
		}
	}
}

func (h *harness) send(msg tea.Msg) {
	h.dispatch(msg)
	h.settle()
}

func (h *harness) press(key string) {
	switch key {
	case "tab":
		h.send(tea.KeyMsg{Type: tea.KeyTab})
	case "esc":
		h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case "ctrl+s":
		h.send(tea.KeyMsg{Type: tea.KeyCtrlS})
	default:
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	}
}

func (h *harness) titles() []string {
	var out []string
	for _, n := range h.m.notices {
		out = append(out, n.Title)
	}
	return out
}

func (h *harness) count(title string) int {
	n := 0
	for _, t := range h.titles() {
		if t == title {
			n++
		}
	}
	return n
}

// connected returns a harness with alice connected through a fake wallet
func connected(t *testing.T, accounts ...common.Address) (*harness, *fakeProvider, *fakeDeriver, *fakeContract) {
	t.Helper()
	if len(accounts) == 0 {
		accounts = []common.Address{alice}
	}
	c := &fakeContract{from: accounts[0]}
	d := newFakeDeriver(c)
	p := newFakeProvider(accounts...)
	h := newHarness(t, p, d)
	h.press("c")
	require.True(t, h.m.session.Connected(), "notices: %v", h.titles())
	return h, p, d, c
}

// -------------------- TESTS --------------------

func TestConnectBindsFirstAccount(t *testing.T) {
	h, p, d, c := connected(t, alice, bob)

	assert.Equal(t, alice.Hex(), h.m.session.Account)
	assert.NotNil(t, h.m.session.Contract)
	assert.Equal(t, 1, d.count(alice))
	assert.Zero(t, d.count(bob))
	assert.Equal(t, 1, p.count("eth_requestAccounts"))
	assert.Equal(t, 1, c.readCount())
	assert.Equal(t, "sepolia", h.m.network.Name)
	require.NotNil(t, h.m.balance)
	assert.Equal(t, 0, new(big.Int).SetUint64(1e18).Cmp(h.m.balance))
	assert.Contains(t, h.titles(), "Wallet Connected")

	// a second connect while connected asks nothing
	h.press("c")
	assert.Equal(t, 1, p.count("eth_requestAccounts"))
}

func TestConnectWithoutProvider(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.press("c")

	assert.Equal(t, session.Disconnected, h.m.session.State())
	assert.Contains(t, h.titles(), "No Provider")
}

func TestConnectRequestRejected(t *testing.T) {
	c := &fakeContract{}
	d := newFakeDeriver(c)
	p := newFakeProvider(alice)
	p.requestErr = &wallet.RPCError{Code: wallet.CodeUserRejected, Message: "User rejected the request."}
	h := newHarness(t, p, d)

	h.press("c")
	assert.Equal(t, session.Disconnected, h.m.session.State())
	assert.Contains(t, h.titles(), "Request Rejected")
	assert.Zero(t, d.total())
}

func TestConnectNoAccounts(t *testing.T) {
	c := &fakeContract{}
	d := newFakeDeriver(c)
	h := newHarness(t, newFakeProvider(), d)

	h.press("c")
	assert.Equal(t, session.Disconnected, h.m.session.State())
	assert.Zero(t, d.total())
	assert.Contains(t, h.titles(), "Connection Failed")
}

func TestDerivationFailureClears(t *testing.T) {
	c := &fakeContract{}
	d := newFakeDeriver(c)
	d.err = errors.New("boom")
	h := newHarness(t, newFakeProvider(alice), d)

	h.press("c")
	assert.Equal(t, session.Disconnected, h.m.session.State())
	assert.Empty(t, h.m.session.Account)
	assert.Contains(t, h.titles(), "Connection Error")
}

func TestUnsupportedNetwork(t *testing.T) {
	c := &fakeContract{}
	d := newFakeDeriver(c)
	d.err = contract.ErrNoDeployment
	h := newHarness(t, newFakeProvider(alice), d)

	h.press("c")
	assert.Equal(t, session.Disconnected, h.m.session.State())
	assert.Contains(t, h.titles(), "Unsupported Network")
}

func TestNetworkQueryFailure(t *testing.T) {
	p := newFakeProvider(alice)
	p.networkErr = errors.New("dial tcp: refused")
	h := newHarness(t, p, newFakeDeriver(&fakeContract{}))

	assert.Error(t, h.m.networkErr)
	assert.Contains(t, h.titles(), "Connection Error")
	// listeners stay registered
	assert.Equal(t, 1, p.ListenerCount(wallet.EventAccountsChanged))
	assert.Equal(t, 1, p.ListenerCount(wallet.EventChainChanged))
}

func TestEmptyAccountsChangedClears(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		h, p, _, _ := connected(t)

		require.NoError(t, p.Emit(wallet.EventAccountsChanged, []string{}))
		h.settle()

		assert.Equal(t, session.Disconnected, h.m.session.State())
		assert.Empty(t, h.m.session.Account)
		assert.Nil(t, h.m.session.Contract)
		assert.Nil(t, h.m.session.Signer)
		assert.Contains(t, h.titles(), "Wallet Disconnected")
	})

	t.Run("disconnected", func(t *testing.T) {
		p := newFakeProvider(alice)
		h := newHarness(t, p, newFakeDeriver(&fakeContract{}))

		require.NoError(t, p.Emit(wallet.EventAccountsChanged, []string{}))
		h.settle()

		assert.Equal(t, session.Disconnected, h.m.session.State())
		assert.Empty(t, h.m.session.Account)
		assert.Nil(t, h.m.session.Contract)
	})
}

func TestAccountSwitch(t *testing.T) {
	h, p, d, c := connected(t)
	require.Equal(t, 1, c.readCount())

	require.NoError(t, p.Emit(wallet.EventAccountsChanged, []string{bob.Hex()}))
	h.settle()

	assert.Equal(t, bob.Hex(), h.m.session.Account)
	assert.Equal(t, 1, d.count(bob))
	assert.Equal(t, 2, c.readCount())

	// the same first account again changes nothing
	require.NoError(t, p.Emit(wallet.EventAccountsChanged, []string{bob.Hex(), alice.Hex()}))
	h.settle()

	assert.Equal(t, bob.Hex(), h.m.session.Account)
	assert.Equal(t, 1, d.count(bob))
	assert.Equal(t, 1, d.count(alice))
	assert.Equal(t, 2, c.readCount())
}

func TestStaleDerivationDiscarded(t *testing.T) {
	c := &fakeContract{}
	d := newFakeDeriver(c)
	p := newFakeProvider(alice)
	gate := d.gate(alice)
	h := newHarness(t, p, d)

	h.press("c")
	require.Equal(t, session.Connecting, h.m.session.State())

	require.NoError(t, p.Emit(wallet.EventAccountsChanged, []string{bob.Hex()}))
	h.settle()
	require.Equal(t, bob.Hex(), h.m.session.Account)

	close(gate)
	h.settle()

	assert.Equal(t, bob.Hex(), h.m.session.Account)
	assert.True(t, h.m.session.Connected())
	assert.Equal(t, 1, h.count("Wallet Connected"))
}

func TestSwitchBackDiscardsPendingDerivation(t *testing.T) {
	t.Run("apply", func(t *testing.T) {
		h, p, d, _ := connected(t)
		gate := d.gate(bob)

		require.NoError(t, p.Emit(wallet.EventAccountsChanged, []string{bob.Hex(), alice.Hex()}))
		h.settle()
		require.Equal(t, 1, d.count(bob))

		require.NoError(t, p.Emit(wallet.EventAccountsChanged, []string{alice.Hex(), bob.Hex()}))
		h.settle()

		close(gate)
		h.settle()

		assert.Equal(t, alice.Hex(), h.m.session.Account)
		assert.True(t, h.m.session.Connected())
		assert.Equal(t, 1, h.count("Wallet Connected"))
	})

	t.Run("fail", func(t *testing.T) {
		h, p, d, _ := connected(t)
		gate := d.gate(bob)
		d.mu.Lock()
		d.err = errors.New("boom")
		d.mu.Unlock()

		require.NoError(t, p.Emit(wallet.EventAccountsChanged, []string{bob.Hex(), alice.Hex()}))
		h.settle()
		require.NoError(t, p.Emit(wallet.EventAccountsChanged, []string{alice.Hex(), bob.Hex()}))
		h.settle()

		close(gate)
		h.settle()

		assert.Equal(t, alice.Hex(), h.m.session.Account)
		assert.True(t, h.m.session.Connected())
		assert.Zero(t, h.count("Connection Error"))
	})
}

func TestInvalidAccountsPayload(t *testing.T) {
	h, p, d, _ := connected(t)
	before := h.count("Invalid Wallet Event")

	require.NoError(t, p.Emit(wallet.EventAccountsChanged, 42))
	h.settle()

	assert.Equal(t, before+1, h.count("Invalid Wallet Event"))
	assert.Equal(t, alice.Hex(), h.m.session.Account)
	assert.True(t, h.m.session.Connected())

	// the relay keeps listening
	require.NoError(t, p.Emit(wallet.EventAccountsChanged, []string{bob.Hex()}))
	h.settle()
	assert.Equal(t, bob.Hex(), h.m.session.Account)
	assert.Equal(t, 1, d.count(bob))
}

func TestChainChangedReloads(t *testing.T) {
	h, p, _, _ := connected(t)
	old := h.m.relay

	require.NoError(t, p.Emit(wallet.EventChainChanged, "0x1"))
	h.settle()

	assert.Equal(t, session.Disconnected, h.m.session.State())
	assert.NotSame(t, old, h.m.relay)
	assert.Equal(t, 1, p.ListenerCount(wallet.EventAccountsChanged))
	assert.Equal(t, 1, p.ListenerCount(wallet.EventChainChanged))

	// events reaching the discarded relay are ignored
	h.send(walletEventMsg{relay: old, event: wallet.EventAccountsChanged, payload: json.RawMessage(`[]`)})
	assert.Equal(t, session.Disconnected, h.m.session.State())
}

func TestStaleGenerationIgnored(t *testing.T) {
	h, _, _, _ := connected(t)
	conn := h.m.conn

	h.send(providerReadyMsg{generation: h.m.generation - 1, conn: chain.NewConnection(nil)})
	assert.Same(t, conn, h.m.conn)
}

func TestLoadingSettles(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, _, _, c := connected(t)
		c.mu.Lock()
		c.entries = []contract.Entry{{User: bob, Message: "gm", Timestamp: big.NewInt(1700000000)}}
		c.mu.Unlock()

		h.press("r")
		assert.False(t, h.m.loading())
		require.Len(t, h.m.entries, 1)
		assert.Equal(t, "gm", h.m.entries[0].Message)
	})

	t.Run("error", func(t *testing.T) {
		h, _, _, c := connected(t)
		c.mu.Lock()
		c.readErr = errors.New("execution reverted")
		c.mu.Unlock()

		h.press("r")
		assert.False(t, h.m.loading())
		assert.Contains(t, h.titles(), "Loading Error")
	})
}

func TestSubmitFeedback(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, _, _, c := connected(t)
		h.press("tab")
		require.True(t, h.m.input.Focused())
		h.m.input.SetValue("hello")

		h.dispatch(tea.KeyMsg{Type: tea.KeyCtrlS})
		require.NotEmpty(t, h.m.notices)
		assert.Equal(t, "Transaction in progress...", h.m.notices[len(h.m.notices)-1].Title)
		assert.True(t, h.m.submitting)

		h.settle()
		assert.False(t, h.m.submitting)
		assert.Contains(t, h.titles(), "Feedback Submitted")
		assert.NotContains(t, h.titles(), "Transaction in progress...")
		assert.Equal(t, 1, c.submitCount())
		assert.Empty(t, h.m.input.Value())
		require.Len(t, h.m.entries, 1)
		assert.Equal(t, "hello", h.m.entries[0].Message)
	})

	t.Run("failure", func(t *testing.T) {
		h, _, _, c := connected(t)
		c.mu.Lock()
		c.sendErr = &wallet.RPCError{Code: wallet.CodeUserRejected, Message: "denied"}
		c.mu.Unlock()
		h.press("tab")
		h.m.input.SetValue("hello")

		h.dispatch(tea.KeyMsg{Type: tea.KeyCtrlS})
		assert.Equal(t, "Transaction in progress...", h.m.notices[len(h.m.notices)-1].Title)

		h.settle()
		assert.False(t, h.m.submitting)
		assert.Contains(t, h.titles(), "Transaction Failed")
		assert.Empty(t, h.m.entries)
		assert.Equal(t, "hello", h.m.input.Value())
	})

	inclusion := []struct {
		name string
		set  func(c *fakeContract)
	}{
		{"not mined", func(c *fakeContract) { c.mineErr = context.DeadlineExceeded }},
		{"reverted", func(c *fakeContract) { c.reverted = true }},
	}
	for _, tt := range inclusion {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _, c := connected(t)
			c.mu.Lock()
			tt.set(c)
			c.mu.Unlock()
			h.press("tab")
			h.m.input.SetValue("hello")

			h.press("ctrl+s")
			assert.False(t, h.m.submitting)
			assert.Equal(t, 1, c.submitCount())
			assert.Contains(t, h.titles(), "Transaction Failed")
			assert.NotContains(t, h.titles(), "Feedback Submitted")
			assert.Empty(t, h.m.entries)
			assert.Equal(t, "hello", h.m.input.Value())
		})
	}

	t.Run("empty", func(t *testing.T) {
		h, _, _, c := connected(t)
		h.press("tab")
		h.m.input.SetValue("   ")

		h.press("ctrl+s")
		assert.Contains(t, h.titles(), "Empty Feedback")
		assert.Zero(t, c.submitCount())
	})
}

func TestSubmitWhileDisconnected(t *testing.T) {
	c := &fakeContract{}
	h := newHarness(t, newFakeProvider(alice), newFakeDeriver(c))
	h.m.input.SetValue("hello")

	h.press("ctrl+s")
	assert.Equal(t, []string{"Not Connected"}, h.titles())
	assert.Zero(t, c.submitCount())
	assert.False(t, h.m.submitting)
	assert.Empty(t, h.m.entries)
	assert.Equal(t, session.Disconnected, h.m.session.State())
}

func TestApprovalPrompt(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	bridge := newApprovalBridge()
	local := wallet.NewLocal(fakeNode{}, wallet.NewPrivateKeys(key), bridge.Approve)

	c := &fakeContract{}
	d := newFakeDeriver(c)
	deps := appDeps{
		cfg:        config.Config{},
		configPath: filepath.Join(t.TempDir(), "config.json"),
		provider:   local,
		approvals:  bridge,
		formatter:  feedback.NewFormatter(language.AmericanEnglish, time.UTC),
		deriver:    d.fn(),
	}
	m := newModel(deps)
	h := &harness{t: t, m: &m, msgs: make(chan tea.Msg, 256)}
	h.run(h.m.Init())
	h.settle()

	h.press("c")
	require.NotNil(t, h.m.approvalForm)
	assert.Equal(t, session.Connecting, h.m.session.State())

	h.press("esc")
	assert.Nil(t, h.m.approvalForm)
	assert.Equal(t, session.Disconnected, h.m.session.State())
	assert.Contains(t, h.titles(), "Request Rejected")
	assert.False(t, local.Connected())
	assert.Zero(t, d.total())
}

func TestDisconnectThroughWallet(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	local := wallet.NewLocal(fakeNode{}, wallet.NewPrivateKeys(key), wallet.AutoApprove)

	c := &fakeContract{}
	d := newFakeDeriver(c)
	m := newModel(appDeps{
		cfg:        config.Config{},
		configPath: filepath.Join(t.TempDir(), "config.json"),
		provider:   local,
		formatter:  feedback.NewFormatter(language.AmericanEnglish, time.UTC),
		deriver:    d.fn(),
	})
	h := &harness{t: t, m: &m, msgs: make(chan tea.Msg, 256)}
	h.run(h.m.Init())
	h.settle()

	h.press("c")
	require.True(t, h.m.session.Connected(), "notices: %v", h.titles())
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), h.m.session.Account)

	h.press("x")
	assert.Equal(t, session.Disconnected, h.m.session.State())
	assert.False(t, local.Connected())
	assert.Contains(t, h.titles(), "Wallet Disconnected")
}

func TestNoticesArePruned(t *testing.T) {
	h := newHarness(t, nil, nil)
	for range 6 {
		h.press("c")
	}
	assert.Len(t, h.m.notices, 4)
}

type fakeCloser struct{ closed int }

func (c *fakeCloser) Close() { c.closed++ }

type failingSwitcher struct{ err error }

func (s failingSwitcher) SwitchUpstream(context.Context, wallet.Upstream) error { return s.err }

func TestNodeLifecycle(t *testing.T) {
	h := newHarness(t, nil, nil)
	first, second := &fakeCloser{}, &fakeCloser{}

	h.m.setNode(first)
	h.m.setNode(second)
	assert.Equal(t, 1, first.closed)
	assert.Zero(t, second.closed)

	h.m.setNode(second)
	assert.Zero(t, second.closed, "the active node is not closed when adopted again")

	// a failed switch leaves the wallet on its previous node
	h.m.Update(rpcConnectedMsg{err: errors.New("query chain id: refused")})
	assert.Zero(t, second.closed)
	assert.False(t, h.m.rpcConnected)

	_, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, 1, second.closed)
	assert.Nil(t, h.m.ethClient)
}

func TestConnectRPCSwitchFailure(t *testing.T) {
	boom := errors.New("query chain id: refused")
	msg, ok := connectRPC("http://127.0.0.1:1", failingSwitcher{err: boom})().(rpcConnectedMsg)
	require.True(t, ok)

	assert.Nil(t, msg.client)
	assert.ErrorIs(t, msg.err, boom)
}
