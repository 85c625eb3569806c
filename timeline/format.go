// ABOUTME: Tick and highlight labels for timeline rulers
// ABOUTME: Formats instants in an explicit location with English ordinal day suffixes

package timeline

import (
	"fmt"
	"time"
)

// OrdinalSuffix returns the English ordinal suffix for a day of month
func OrdinalSuffix(day int) string {
	switch day % 100 {
	case 11, 12, 13:
		return "th"
	}

	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// SecondsLabel formats the seconds field, "05"
func SecondsLabel(ms int64, loc *time.Location) string {
	return at(ms, loc).Format("05")
}

// MinutesLabel formats minutes and seconds, "04:05"
func MinutesLabel(ms int64, loc *time.Location) string {
	return at(ms, loc).Format("04:05")
}

// DayLabel formats the day of month with its suffix, "2nd"
func DayLabel(ms int64, loc *time.Location) string {
	day := at(ms, loc).Day()
	return fmt.Sprintf("%d%s", day, OrdinalSuffix(day))
}

// CurrentTimeLabel formats the indicator readout, "January 2nd 2023 - 15:04:05 PM"
func CurrentTimeLabel(ms int64, loc *time.Location) string {
	t := at(ms, loc)
	day := t.Day()

	return fmt.Sprintf("%s %d%s %d - %s", t.Month(), day, OrdinalSuffix(day), t.Year(), t.Format("15:04:05 PM"))
}

// TickLabel formats a tick for the given span
func TickLabel(ms int64, span Span, loc *time.Location) string {
	switch span {
	case Minutes:
		return MinutesLabel(ms, loc)
	case Days:
		return DayLabel(ms, loc)
	default:
		return SecondsLabel(ms, loc)
	}
}

func at(ms int64, loc *time.Location) time.Time {
	return time.UnixMilli(ms).In(location(loc))
}
