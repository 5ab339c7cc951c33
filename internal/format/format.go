// Package format renders API values for display.
package format

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/studiowebux/adminctl/internal/types"
)

var (
	vnPrinter  = message.NewPrinter(language.Vietnamese)
	titleCaser = cases.Title(language.English)
)

// timeLayouts are the timestamp shapes the admin API has been seen to emit
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC1123,
	"2006-01-02",
}

// Amount formats a payment amount. VND uses Vietnamese digit grouping
// without decimals, anything else "$12.50 USD".
func Amount(amount float64, currency string) string {
	currency = strings.ToUpper(Untrusted(currency))
	if currency == "VND" {
		return vnPrinter.Sprintf("%d", int64(amount)) + " VND"
	}
	return fmt.Sprintf("$%.2f %s", amount, currency)
}

// Number groups digits for counters
func Number(n int) string {
	return vnPrinter.Sprintf("%d", n)
}

// ParseTime parses an API timestamp
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateTime renders a timestamp as "17/10/2026 14:30"
func DateTime(s string) string {
	if t, ok := ParseTime(s); ok {
		return t.Local().Format("02/01/2006 15:04")
	}
	return Dash(s)
}

// Date renders a timestamp as "17/10/2026"
func Date(s string) string {
	if t, ok := ParseTime(s); ok {
		return t.Local().Format("02/01/2006")
	}
	return Dash(s)
}

// Tier renders a tier name as a title, e.g. "Premium"
func Tier(t types.Tier) string {
	if t == "" {
		return "-"
	}
	return titleCaser.String(Untrusted(string(t)))
}

// Dash returns "-" for empty values, the sanitized value otherwise
func Dash(s string) string {
	s = Untrusted(s)
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Untrusted makes server-sourced text safe to embed in terminal output:
// escape sequences are stripped, line breaks and tabs become spaces and
// remaining control characters are dropped.
func Untrusted(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// Truncate shortens s to width cells, marking the cut with an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
