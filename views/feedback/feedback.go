package feedback

import (
	"fmt"
	"strings"
	"time"

	"charm-feedback-tui/feedback"
	"charm-feedback-tui/helpers"
	"charm-feedback-tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the feedback page
func Nav(width int, editing, connected bool) string {
	var keys []string
	switch {
	case editing:
		keys = []string{
			styles.Key("Ctrl+s") + " submit",
			styles.Key("Ctrl+l") + " clear",
			styles.Key("Esc") + " done",
		}
	case connected:
		keys = []string{
			styles.Key("Tab") + " write",
			styles.Key("↑/↓") + " browse",
			styles.Key("o") + " open author",
			styles.Key("r") + " refresh",
			styles.Key("a") + " accounts",
			styles.Key("x") + " disconnect",
			styles.Key("s") + " settings",
			styles.Key("l") + " debug log",
			styles.Key("q") + " quit",
		}
	default:
		keys = []string{
			styles.Key("c") + " connect",
			styles.Key("s") + " settings",
			styles.Key("l") + " debug log",
			styles.Key("q") + " quit",
		}
	}
	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}

// Form is what the submission card shows
type Form struct {
	Input      string
	Length     int
	Submitting bool
	Spinner    string
}

// RenderForm renders the submission card around the text area view
func RenderForm(f Form) string {
	muted := lipgloss.NewStyle().Foreground(styles.CMuted)

	head := styles.TitleStyle.Render("Submit Your Feedback") + " " + styles.Badge("On-Chain", styles.CAccent2)

	counterStyle := muted
	if f.Length >= feedback.MaxMessageLength {
		counterStyle = lipgloss.NewStyle().Foreground(styles.CWarn)
	}
	counter := counterStyle.Render(fmt.Sprintf("%d/%d characters", f.Length, feedback.MaxMessageLength))

	status := muted.Render("Ctrl+s Submit Feedback")
	if f.Submitting {
		status = lipgloss.NewStyle().Foreground(styles.CWarn).Render(f.Spinner + " Confirming Transaction...")
	}

	return strings.Join([]string{head, "", f.Input, counter, "", status}, "\n")
}

// List is what the feedback list card shows
type List struct {
	Entries  []feedback.Formatted
	Selected int
	Account  string
	Loading  bool
	LoadedAt time.Time
	Spinner  string
	Width    int
	Height   int
}

// RenderList renders the feedback list card. Only the entries around the
// selection that fit into Height are drawn.
func RenderList(l List) string {
	muted := lipgloss.NewStyle().Foreground(styles.CMuted)

	head := styles.TitleStyle.Render("Community Feedback") + " " +
		styles.Badge(helpers.Plural(len(l.Entries), "Entry", "Entries"), styles.CBorder) + " " +
		muted.Render("updated "+helpers.LoadedAt(l.LoadedAt, l.Loading))

	switch {
	case l.Loading && len(l.Entries) == 0:
		return head + "\n\n" + l.Spinner + " Loading feedbacks..."
	case len(l.Entries) == 0:
		return head + "\n\n" +
			lipgloss.NewStyle().Foreground(styles.CText).Bold(true).Render("No feedback yet") + "\n" +
			muted.Width(helpers.Max(20, l.Width)).Render("Be the first to share your thoughts on the blockchain. Your feedback will be permanently stored and visible to everyone.")
	}

	start, end := window(len(l.Entries), l.Selected, helpers.Max(1, l.Height/4))
	blocks := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		blocks = append(blocks, renderEntry(l.Entries[i], i == l.Selected, helpers.SameAddress(l.Entries[i].User, l.Account), l.Width))
	}

	body := strings.Join(blocks, "\n\n")
	if start > 0 || end < len(l.Entries) {
		body += "\n\n" + muted.Render(fmt.Sprintf("%d-%d of %d", start+1, end, len(l.Entries)))
	}
	return head + "\n\n" + body
}

func renderEntry(e feedback.Formatted, selected, mine bool, width int) string {
	marker := "  "
	addrStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#e1a2aa"))
	if selected {
		marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("▶ ")
		addrStyle = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true)
	}

	avatar := lipgloss.NewStyle().Foreground(styles.CBg).Background(styles.CBorder).Render(avatarOf(e.ShortAddress))
	line := marker + avatar + " " + addrStyle.Render(e.ShortAddress)
	if mine {
		line += " " + styles.Badge("You", styles.CAccent)
	}
	line += "  " + styles.MutedStyle.Render(e.Timestamp+" ("+e.Ago()+")")

	msg := lipgloss.NewStyle().
		Foreground(styles.CText).
		PaddingLeft(2).
		Width(helpers.Max(20, width)).
		Render(e.Message)
	return line + "\n" + msg
}

// avatarOf is the two character label drawn in front of an author
func avatarOf(short string) string {
	if len(short) < 2 {
		return short
	}
	return short[:2]
}

// window returns the [start, end) range of size at most n that contains
// the selection
func window(total, selected, n int) (int, int) {
	if total <= n {
		return 0, total
	}
	start := selected - n/2
	if start < 0 {
		start = 0
	}
	if start+n > total {
		start = total - n
	}
	return start, start + n
}
