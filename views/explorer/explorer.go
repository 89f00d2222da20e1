package explorer

import (
	"charm-feedback-tui/helpers"
	"charm-feedback-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Render renders the explorer link of an address with a QR code to open it
// on a phone
func Render(title, url, copiedMsg string) string {
	head := lipgloss.NewStyle().
		Foreground(styles.CAccent2).
		Bold(true).
		Render(title)

	link := lipgloss.NewStyle().
		Foreground(styles.CText).
		Render(url)

	help := lipgloss.NewStyle().
		Foreground(styles.CMuted).
		MarginTop(1).
		Render("c: Copy link • Esc: Close")

	parts := []string{head, "", helpers.GenerateQRCode(url), link, help}
	if copiedMsg != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(styles.CAccent).Render(copiedMsg))
	}
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}
