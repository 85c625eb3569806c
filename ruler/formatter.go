// ABOUTME: Value formatting capabilities that turn tick indices into display text
// ABOUTME: Plain integer rulers use a host title provider; timelines plug in their own formatter

package ruler

import "strconv"

// ValueFormatter supplies the text a renderer shows for ticks.
// DisplayText returns false when the tick carries no label.
type ValueFormatter interface {
	DisplayText(index int) (string, bool)
	HighlightText(index int) string
}

// Paginator grows the index domain when the live index reaches a boundary.
// It returns the replacement metrics and true when the domain changed.
type Paginator interface {
	Paginate(index int, current Metrics) (Metrics, bool, error)
}

// TitleProvider is the host data source for plain rulers.
// Either field may be nil, meaning no label for any tick.
type TitleProvider struct {
	TitleForIndex          func(index int) (string, bool)
	HighlightTitleForIndex func(index int) (string, bool)
}

// PlainFormatter formats plain rulers through an optional TitleProvider
type PlainFormatter struct {
	Titles TitleProvider
}

// DisplayText returns the provider's tick label, if any
func (f PlainFormatter) DisplayText(index int) (string, bool) {
	if f.Titles.TitleForIndex == nil {
		return "", false
	}

	return f.Titles.TitleForIndex(index)
}

// HighlightText returns the provider's highlight label or an empty string
func (f PlainFormatter) HighlightText(index int) string {
	if f.Titles.HighlightTitleForIndex == nil {
		return ""
	}

	text, ok := f.Titles.HighlightTitleForIndex(index)
	if !ok {
		return ""
	}

	return text
}

// ValueLabels returns a TitleProvider that labels full ticks with their value
// and highlights every tick with its value. metrics is read on every call so
// the labels follow configuration swaps.
func ValueLabels(metrics func() Metrics) TitleProvider {
	return TitleProvider{
		TitleForIndex: func(index int) (string, bool) {
			m := metrics()
			if Classify(index, m.Divisions) != TierFull {
				return "", false
			}

			return strconv.Itoa(m.ValueAt(index)), true
		},
		HighlightTitleForIndex: func(index int) (string, bool) {
			return strconv.Itoa(metrics().ValueAt(index)), true
		},
	}
}
