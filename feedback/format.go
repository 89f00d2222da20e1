package feedback

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"

	"charm-feedback-tui/contract"
	"charm-feedback-tui/helpers"
)

var (
	layoutTags = []language.Tag{
		language.AmericanEnglish,
		language.BritishEnglish,
		language.German,
		language.French,
		language.Japanese,
		language.Spanish,
	}
	layouts = []string{
		"1/2/2006, 3:04:05 PM",
		"02/01/2006, 15:04:05",
		"2.1.2006, 15:04:05",
		"02/01/2006 15:04:05",
		"2006/1/2 15:04:05",
		"2/1/2006, 15:04:05",
	}
	layoutMatcher = language.NewMatcher(layoutTags)
)

// Formatted is an entry prepared for display.
type Formatted struct {
	User         string
	Message      string
	Timestamp    string
	ShortAddress string
	Time         time.Time
}

// Ago is the humanized age of the entry, e.g. "3 hours ago".
func (f Formatted) Ago() string {
	if f.Time.IsZero() {
		return ""
	}
	return humanize.Time(f.Time)
}

// Formatter renders timestamps in a locale's date and time layout.
type Formatter struct {
	Layout   string
	Location *time.Location
}

// NewFormatter picks the closest known layout for tag. A nil loc means local
// time.
func NewFormatter(tag language.Tag, loc *time.Location) Formatter {
	_, idx, _ := layoutMatcher.Match(tag)
	if loc == nil {
		loc = time.Local
	}
	return Formatter{Layout: layouts[idx], Location: loc}
}

// ParseLocale reads POSIX style locale names such as "en_US.UTF-8".
// Unknown or neutral locales map to American English.
func ParseLocale(s string) language.Tag {
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")
	switch s {
	case "", "C", "POSIX":
		return language.AmericanEnglish
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

// Format converts a stored entry. It is pure: the same entry always formats
// the same way.
func (f Formatter) Format(e contract.Entry) Formatted {
	user := e.User.Hex()
	t := e.Time()
	out := Formatted{
		User:         user,
		Message:      e.Message,
		ShortAddress: helpers.ShortenAddr(user),
		Time:         t,
	}
	if !t.IsZero() {
		loc := f.Location
		if loc == nil {
			loc = time.Local
		}
		layout := f.Layout
		if layout == "" {
			layout = layouts[0]
		}
		out.Timestamp = t.In(loc).Format(layout)
	}
	return out
}
