package config

// Page identifies a top-level screen of the TUI
type Page int

const (
	PageFeedback Page = iota
	PageSettings
)

func (p Page) String() string {
	switch p {
	case PageFeedback:
		return "feedback"
	case PageSettings:
		return "settings"
	}
	return "unknown"
}
