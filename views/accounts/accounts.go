package accounts

import (
	"strings"

	"charm-feedback-tui/helpers"
	"charm-feedback-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Account is one key the wallet holds
type Account struct {
	Address string
	// Selected is the account the wallet exposes
	Selected bool
	// Session is the account the page is bound to
	Session bool
}

// RenderList renders the account picker
func RenderList(accounts []Account, selectedIdx int) string {
	if len(accounts) == 0 {
		return lipgloss.NewStyle().Foreground(styles.CMuted).Render("The wallet holds no accounts.")
	}

	var listItems []string
	for i, a := range accounts {
		var itemStyle lipgloss.Style
		var marker string
		var fullAddr, shortAddr string

		if i == selectedIdx {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("▶ ")
			itemStyle = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true)
			fullAddr = lipgloss.NewStyle().Foreground(styles.CText).Render(a.Address)
			shortAddr = helpers.ShortenAddr(a.Address)
		} else {
			marker = "  "
			itemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e1a2aa"))
			fullAddr = helpers.FadeString(a.Address, "#7D5AFC", "#FF87D7")
			shortAddr = helpers.FadeString(helpers.ShortenAddr(a.Address), "#F25D94", "#EDFF82")
		}

		if a.Selected {
			shortAddr = "✓ " + shortAddr
		}
		line := marker + itemStyle.Render(shortAddr)
		if a.Session {
			line += " " + styles.Badge("connected", styles.CAccent)
		}
		listItems = append(listItems, line+"\n  "+fullAddr)
	}

	return strings.Join(listItems, "\n\n")
}
