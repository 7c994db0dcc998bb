package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderLoadBar renders a credit load bar like [████░░░░] 60/120.
// Green up to 90% of max, yellow up to max, red beyond.
func RenderLoadBar(used float64, max int, width int) string {
	if width < 2 {
		width = 2
	}
	pct := 0.0
	if max > 0 {
		pct = used / float64(max)
	}
	shown := pct
	if shown < 0 {
		shown = 0
	}
	if shown > 1 {
		shown = 1
	}
	filled := int(shown * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct > 1:
		style = StyleRed
	case pct >= 0.9:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %s/%d", style.Render(bar), FormatCredits(used), max)
}
