package main

import (
	"strings"
	"time"
	"unicode/utf8"

	"charm-feedback-tui/config"
	"charm-feedback-tui/helpers"
	"charm-feedback-tui/notice"
	"charm-feedback-tui/session"
	"charm-feedback-tui/styles"
	"charm-feedback-tui/views/accounts"
	"charm-feedback-tui/views/connect"
	"charm-feedback-tui/views/explorer"
	feedbackview "charm-feedback-tui/views/feedback"
	logview "charm-feedback-tui/views/log"
	"charm-feedback-tui/views/settings"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

// popup centers content in a bordered dialog over the whole screen
func (m *model) popup(content string) string {
	dialog := popupStyle.Background(cPanel).Render(content)
	return lipgloss.Place(m.w, m.h, lipgloss.Center, lipgloss.Center, dialog)
}

func (m *model) renderAccountListPopup() string {
	title := lipgloss.NewStyle().
		Foreground(cAccent2).
		Bold(true).
		Align(lipgloss.Center).
		Width(70).
		Render("Select Account")

	var items []accounts.Account
	if sel := m.selector(); sel != nil {
		current := sel.Selected()
		for _, a := range sel.Accounts() {
			items = append(items, accounts.Account{
				Address:  a.Hex(),
				Selected: a == current,
				Session:  helpers.SameAddress(a.Hex(), m.session.Account),
			})
		}
	}

	help := lipgloss.NewStyle().
		Foreground(cMuted).
		Align(lipgloss.Center).
		Width(70).
		MarginTop(1).
		Render("↑/↓: Navigate • Enter: Select • Esc: Cancel")

	return m.popup(lipgloss.JoinVertical(lipgloss.Left, title, "", accounts.RenderList(items, m.accountListSelectedIdx), help))
}

func (m *model) renderApprovalPopup() string {
	title := lipgloss.NewStyle().
		Foreground(cWarn).
		Bold(true).
		Render("Wallet Request")
	return m.popup(lipgloss.JoinVertical(lipgloss.Left, title, "", m.approvalForm.View()))
}

func (m *model) globalHeader() string {
	availableWidth := max(0, m.w-8) // Account for panel padding

	// Bound account
	var addrDisplay string
	switch {
	case m.session.Connected():
		addrDisplay = lipgloss.NewStyle().
			Foreground(cAccent2).
			Bold(true).
			Render("Account: " + helpers.FadeString(helpers.ShortenAddr(m.session.Account), "#F25D94", "#EDFF82"))
	case m.session.State() == session.Connecting:
		addrDisplay = lipgloss.NewStyle().Foreground(cMuted).Render("Account: " + m.spin.View() + " connecting")
	default:
		addrDisplay = lipgloss.NewStyle().Foreground(cMuted).Render("Account: Not connected")
	}

	// RPC Status with green dot
	var statusIcon string
	var statusColor lipgloss.Color
	var statusText string

	if m.rpcURL == "" {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "No RPC"
	} else if m.rpcConnecting {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Connecting..."
	} else if !m.rpcConnected {
		statusIcon = "○"
		statusColor = lipgloss.Color("#c01c28")
		statusText = "Connection Failed"
	} else {
		statusIcon = "●"
		statusColor = cAccent
		if r, ok := m.cfg.ActiveRPC(); ok && r.URL == m.rpcURL {
			statusText = r.Name
		}
		if statusText == "" {
			statusText = "Connected"
		}
	}

	rpcDisplay := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)

	// Center title
	titleText := lipgloss.NewStyle().
		Foreground(cAccent).
		Bold(true).
		Render(helpers.FadeString("decentralized feedback", "#7EE787", "#82CFFD"))

	addrWidth := lipgloss.Width(addrDisplay)
	rpcWidth := lipgloss.Width(rpcDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := addrWidth + rpcWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		// Not enough space, stack vertically
		headerLine = addrDisplay + "\n" + titleText + "\n" + rpcDisplay
	} else {
		// Three-column layout: Address | Title (centered) | RPC
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding

		leftSpacer := strings.Repeat(" ", max(1, leftPadding))
		rightSpacer := strings.Repeat(" ", max(1, rightPadding))

		headerLine = addrDisplay + leftSpacer + titleText + rightSpacer + rpcDisplay
	}

	// Subtitle with the wallet's network
	subtitle := lipgloss.NewStyle().Foreground(cMuted).Render("Share your thoughts on the blockchain")
	switch {
	case m.network.Name != "":
		subtitle += "  " + styles.Badge("Network: "+m.network.Name, cBorder)
	case m.networkErr != nil:
		subtitle += "  " + styles.Badge("Network: unavailable", cError)
	}
	subtitle = lipgloss.PlaceHorizontal(availableWidth, lipgloss.Center, subtitle)

	separator := lipgloss.NewStyle().
		Foreground(cBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + subtitle + "\n" + separator
}

// renderNotices draws the toasts that are still on screen
func (m *model) renderNotices() string {
	now := time.Now()
	var toasts []string
	for _, n := range m.notices {
		if n.Expired(now, noticeTTL) {
			continue
		}
		color := cAccent2
		switch n.Kind {
		case notice.Success:
			color = cAccent
		case notice.Error:
			color = cError
		case notice.Pending:
			color = cWarn
		}

		title := lipgloss.NewStyle().Foreground(color).Bold(true).Render(n.Title)
		if n.Kind == notice.Pending {
			title = m.spin.View() + " " + title
		}
		body := title
		if n.Description != "" {
			body += "\n" + lipgloss.NewStyle().Foreground(cText).Render(n.Description)
		}
		toasts = append(toasts, toastStyle.BorderForeground(color).Render(body))
	}
	if len(toasts) == 0 {
		return ""
	}
	return lipgloss.PlaceHorizontal(max(0, m.w-2), lipgloss.Right, lipgloss.JoinHorizontal(lipgloss.Top, toasts...))
}

func (m *model) feedbackPage() string {
	width := max(0, m.w-2)

	card := connect.Render(connect.State{
		HasProvider: m.provider != nil,
		Connecting:  m.session.State() == session.Connecting,
		Account:     m.session.Account,
		Network:     m.network.Name,
		Balance:     m.balance,
		ExplorerURL: m.explorerBase(),
		Spinner:     m.spin.View(),
	})
	walletPanel := panelStyle.Width(width).Render(card)

	if !m.session.Connected() {
		return walletPanel
	}

	formWidth := max(0, (m.w*4)/10-2)
	listWidth := max(0, (m.w*6)/10-2)

	form := feedbackview.RenderForm(feedbackview.Form{
		Input:      m.input.View(),
		Length:     utf8.RuneCountInString(m.input.Value()),
		Submitting: m.submitting,
		Spinner:    m.spin.View(),
	})
	formPanel := panelStyle.Width(formWidth).Render(form)
	if m.input.Focused() {
		formPanel = panelStyle.BorderForeground(cAccent2).Width(formWidth).Render(form)
	}

	// list takes what is left below the wallet card
	listHeight := max(4, m.h-lipgloss.Height(walletPanel)-12)
	if m.logEnabled {
		listHeight = max(4, listHeight-logview.Height(m.h)-4)
	}
	list := feedbackview.RenderList(feedbackview.List{
		Entries:  m.entries,
		Selected: m.selectedEntry,
		Account:  m.session.Account,
		Loading:  m.loading(),
		LoadedAt: m.loadedAt,
		Spinner:  m.spin.View(),
		Width:    listWidth - 6,
		Height:   listHeight,
	})
	leftPanel := formPanel
	rightPanel := panelStyle.Width(listWidth + 1).Height(max(lipgloss.Height(leftPanel)-2, 0)).Render(list)

	return lipgloss.JoinVertical(lipgloss.Left, walletPanel, lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel))
}

func (m *model) settingsPage() string {
	content := settings.Render(m.cfg.RPCURLs, m.selectedRPCIdx, m.rpcStatus, m.cfg.ContractDeployments())
	if m.settingsMode == "add" && m.form != nil {
		content = styles.TitleStyle.Render("Add RPC Endpoint") + "\n\n" + m.form.View()
	}
	return panelStyle.Width(max(0, m.w-2)).Render(content)
}

// View implements tea.Model
func (m *model) View() string {
	// Popups own the whole screen
	switch {
	case m.approvalForm != nil:
		return m.renderApprovalPopup()
	case m.showExplorer:
		return m.popup(explorer.Render(m.explorerTitle, m.explorerURL, m.copiedMsg))
	case m.showAccountListPopup:
		return m.renderAccountListPopup()
	}

	headerPanel := panelStyle.Width(max(0, m.w-2)).Render(m.globalHeader())

	var pageContent, nav string
	switch m.activePage {
	case config.PageSettings:
		pageContent = m.settingsPage()
		nav = settings.Nav(m.w-2, m.settingsMode)
	default:
		pageContent = m.feedbackPage()
		nav = feedbackview.Nav(m.w-2, m.input.Focused(), m.session.Connected())
	}

	sections := []string{headerPanel}
	if toasts := m.renderNotices(); toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections, pageContent, nav)

	if m.logEnabled {
		// Ensure viewport height stays in sync with the rendered panel
		m.logViewport.Height = logview.Height(m.h)
		sections = append(sections, logview.Render(logview.Panel{
			Width:        m.w,
			ScreenHeight: m.h,
			Ready:        m.logReady,
			Spinner:      m.logSpinner.View(),
			Viewport:     m.logViewport,
		}))
	}

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
