package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const (
	dayLayout      = "Jan 2, 2006"
	dateTimeLayout = "Jan 2, 2006 15:04"
	spanSeparator  = " – "
)

// FormatDate renders t as "Jun 3, 2023"; nil renders as "".
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dayLayout)
}

// FormatDateTime renders t as "Jun 3, 2023 21:04"; nil renders as "".
func FormatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateTimeLayout)
}

// FormatDateSpan renders the shortest unambiguous label for a date range,
// collapsing the parts shared by both ends:
//
//	Jun 3, 2023
//	Jun 3–5, 2023
//	Jun 3 – Jul 5, 2023
//	Dec 30, 2022 – Jan 2, 2023
func FormatDateSpan(start, end *time.Time) string {
	switch {
	case (start == nil || start.IsZero()) && (end == nil || end.IsZero()):
		return ""
	case start == nil || start.IsZero():
		return FormatDate(end)
	case end == nil || end.IsZero():
		return FormatDate(start)
	}
	a, b := *start, *end
	if b.Before(a) {
		a, b = b, a
	}
	switch {
	case a.Year() != b.Year():
		return a.Format(dayLayout) + spanSeparator + b.Format(dayLayout)
	case a.Month() != b.Month():
		return a.Format("Jan 2") + spanSeparator + b.Format(dayLayout)
	case a.Day() != b.Day():
		return fmt.Sprintf("%s %d–%d, %d", a.Format("Jan"), a.Day(), b.Day(), a.Year())
	default:
		return a.Format(dayLayout)
	}
}

// FormatDuration renders d as "2h 30m"; sub-minute durations render as "<1m".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	if d < time.Minute {
		return "<1m"
	}
	d = d.Round(time.Minute)
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	var parts []string
	if days := hours / 24; days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
		hours %= 24
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	return strings.Join(parts, " ")
}

// FormatCount renders "12,345 captures". nil renders as "".
func FormatCount(n *int, noun string) string {
	if n == nil {
		return ""
	}
	if *n != 1 {
		noun += "s"
	}
	return humanize.Comma(int64(*n)) + " " + noun
}

// FormatScore renders a 0..1 score with two decimals. nil renders as "".
func FormatScore(score *float64) string {
	if score == nil {
		return ""
	}
	return decimal.NewFromFloat(*score).Round(2).StringFixed(2)
}

// FormatPercent renders a 0..1 ratio as a whole percentage.
func FormatPercent(ratio float64) string {
	return decimal.NewFromFloat(ratio).Mul(decimal.NewFromInt(100)).Round(0).String() + "%"
}

// FormatCoordinates renders "51.5074, -0.1278"; missing either half renders as "".
func FormatCoordinates(lat, lon *float64) string {
	if lat == nil || lon == nil {
		return ""
	}
	return decimal.NewFromFloat(*lat).StringFixed(4) + ", " + decimal.NewFromFloat(*lon).StringFixed(4)
}
