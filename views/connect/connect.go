package connect

import (
	"math/big"
	"strings"

	"charm-feedback-tui/helpers"
	"charm-feedback-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// State is what the wallet card shows
type State struct {
	HasProvider bool
	Connecting  bool
	Account     string
	Network     string
	Balance     *big.Int
	ExplorerURL string
	Spinner     string
}

var (
	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF7DB")).
			Background(lipgloss.Color("#F25D94")).
			Padding(0, 3)

	disabledButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFF7DB")).
				Background(lipgloss.Color("#888B7E")).
				Padding(0, 3)
)

// Render renders the wallet card
func Render(s State) string {
	muted := lipgloss.NewStyle().Foreground(styles.CMuted)

	if s.Account == "" {
		var button string
		switch {
		case s.Connecting:
			button = disabledButtonStyle.Render(s.Spinner + " Connecting...")
		case !s.HasProvider:
			button = disabledButtonStyle.Render("Connect Wallet")
		default:
			button = buttonStyle.Render("Connect Wallet")
		}

		hint := muted.Render("Press ") + styles.Key("c") + muted.Render(" to connect your wallet")
		if !s.HasProvider {
			hint = muted.Render("No wallet configured. Set FEEDBACK_PRIVATE_KEYS or FEEDBACK_KEYSTORE.")
		}
		return lipgloss.JoinVertical(lipgloss.Left, button, "", hint)
	}

	head := styles.Badge("Connected", styles.CAccent)
	if s.Network != "" {
		head += " " + styles.Badge(s.Network, styles.CAccent2)
	}

	lines := []string{
		head,
		"",
		lipgloss.NewStyle().Foreground(styles.CText).Bold(true).Render(s.Account),
		muted.Render("Balance: ") + lipgloss.NewStyle().Foreground(styles.CAccent).Render(balance(s.Balance)),
		"",
	}

	var actions []string
	if s.ExplorerURL != "" {
		actions = append(actions, styles.Key("e")+" View on Explorer")
	}
	actions = append(actions, styles.Key("a")+" accounts", styles.Key("x")+" Disconnect")
	lines = append(lines, strings.Join(actions, "   "))

	return strings.Join(lines, "\n")
}

func balance(wei *big.Int) string {
	if wei == nil {
		return "…"
	}
	return helpers.FormatETH(wei)
}
