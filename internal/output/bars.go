package output

import (
	"fmt"
	"strings"
)

const (
	fullBlock  = "█"
	shadeBlock = "▓"
	emptyBlock = "░"
)

func cells(value, limit float64, width int) int {
	if limit <= 0 || value <= 0 {
		return 0
	}
	n := int(value / limit * float64(width))
	if n > width {
		n = width
	}
	return n
}

// ShareBar renders a percentage bar where lower is better.
// Example: "███░░░░░░░ 31.2%"
func ShareBar(percent float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := cells(percent, 100, width)
	bar := strings.Repeat(fullBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleSuccess
	switch {
	case percent >= 25:
		style = StyleError
	case percent >= 10:
		style = StyleWarning
	}
	return fmt.Sprintf("%s %s", style.Render(bar), StyleMuted.Render(fmt.Sprintf("%5.1f%%", percent)))
}

// CountBar renders value scaled against limit.
func CountBar(value, limit, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := cells(float64(value), float64(limit), width)
	bar := strings.Repeat(fullBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return fmt.Sprintf("%s %s", StyleWarning.Render(bar), StyleMuted.Render(fmt.Sprintf("%d", value)))
}

// FrictionBar renders ended and canceled friction events stacked, scaled
// against limit total events.
// Example: "████▓▓░░░░ 6 (2 canceled)"
func FrictionBar(ended, canceled, limit, width int) string {
	if width <= 0 {
		width = 20
	}
	total := ended + canceled
	filled := cells(float64(total), float64(limit), width)
	cancelCells := 0
	if total > 0 {
		cancelCells = filled * canceled / total
	}
	endedCells := filled - cancelCells

	bar := StyleSuccess.Render(strings.Repeat(fullBlock, endedCells)) +
		StyleError.Render(strings.Repeat(shadeBlock, cancelCells)) +
		StyleMuted.Render(strings.Repeat(emptyBlock, width-filled))

	label := fmt.Sprintf("%d", total)
	if canceled > 0 {
		label = fmt.Sprintf("%d (%d canceled)", total, canceled)
	}
	return fmt.Sprintf("%s %s", bar, StyleMuted.Render(label))
}

// TrendArrow returns a styled trend indicator for a delta value.
// Positive delta shows an up arrow, negative shows down, zero shows a dash.
func TrendArrow(delta float64, higherIsBetter bool) string {
	if delta == 0 {
		return StyleMuted.Render("─")
	}

	isPositive := delta > 0
	isImproved := isPositive == higherIsBetter

	var arrow string
	if isPositive {
		arrow = fmt.Sprintf("▲ +%.1f", delta)
	} else {
		arrow = fmt.Sprintf("▼ %.1f", delta)
	}

	if isImproved {
		return StyleSuccess.Render(arrow)
	}
	return StyleError.Render(arrow)
}

// Section returns a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// Metric returns one aligned "label value" line.
func Metric(label string, value any) string {
	return fmt.Sprintf(" %s%s", StyleLabel.Render(label), StyleValue.Render(fmt.Sprint(value)))
}
