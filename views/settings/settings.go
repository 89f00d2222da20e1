package settings

import (
	"fmt"
	"strings"

	"charm-feedback-tui/config"
	"charm-feedback-tui/contract"
	"charm-feedback-tui/helpers"
	"charm-feedback-tui/rpc"
	"charm-feedback-tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
)

// Nav returns the navigation bar for settings view
func Nav(width int, settingsMode string) string {
	var left string
	if settingsMode == "add" {
		left = strings.Join([]string{
			styles.Key("Enter") + " next/save",
			styles.Key("Esc") + " cancel",
		}, "   ")
	} else {
		left = strings.Join([]string{
			styles.Key("↑/↓") + " select",
			styles.Key("Enter") + " activate",
			styles.Key("a") + " add",
			styles.Key("d") + " delete",
			styles.Key("l") + " debug log",
			styles.Key("Esc") + " back",
		}, "   ")
	}

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the node list, the status of the active node and the
// contract deployments
func Render(rpcURLs []config.RPCUrl, selectedIdx int, status rpc.Status, deployments []contract.Deployment) string {
	muted := lipgloss.NewStyle().Foreground(styles.CMuted)
	lines := []string{styles.TitleStyle.Render("Node Settings"), ""}

	if len(rpcURLs) == 0 {
		lines = append(lines, muted.Render("No RPC URLs configured."))
		lines = append(lines, "")
		lines = append(lines, muted.Render("Press ")+styles.Key("a")+muted.Render(" to add your first RPC URL."))
	} else {
		lines = append(lines, muted.Render("Configured RPC Endpoints:"))
		lines = append(lines, "")

		for i, r := range rpcURLs {
			var marker string
			if r.Active {
				marker = lipgloss.NewStyle().Foreground(styles.CAccent).Render("● ")
			} else {
				marker = muted.Render("○ ")
			}

			nameStyle := lipgloss.NewStyle().Foreground(styles.CText)
			urlStyle := lipgloss.NewStyle().Foreground(styles.CMuted)

			if i == selectedIdx {
				nameStyle = nameStyle.Background(styles.CPanel).Foreground(styles.CAccent2).Bold(true)
				urlStyle = urlStyle.Background(styles.CPanel)
				marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Render("▶ ")
			}

			lines = append(lines, marker+nameStyle.Render(r.Name))
			lines = append(lines, "  "+urlStyle.Render(r.URL))
			if r.Active && status.URL == r.URL {
				lines = append(lines, "  "+renderStatus(status))
			}
			lines = append(lines, "")
		}
	}

	lines = append(lines, styles.TitleStyle.Render("Feedback Contract"), "")
	if len(deployments) == 0 {
		lines = append(lines, muted.Render("No deployments configured."))
	}
	for _, d := range deployments {
		addr := d.Address.Hex()
		if d.Address == (common.Address{}) {
			addr = "not deployed"
		}
		lines = append(lines, fmt.Sprintf("%s %s", muted.Render(fmt.Sprintf("chain %d", d.ChainID)), addr))
	}

	return strings.Join(lines, "\n")
}

func renderStatus(s rpc.Status) string {
	if s.Err != nil {
		return lipgloss.NewStyle().Foreground(styles.CError).Render("unreachable: " + s.Err.Error())
	}
	return lipgloss.NewStyle().Foreground(styles.CMuted).Render(
		fmt.Sprintf("chain %s • block %d • checked %s", s.ChainID, s.Block, helpers.LoadedAt(s.LoadedAt, false)),
	)
}
