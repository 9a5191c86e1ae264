// Package ui provides the shared modal primitives for the TUI: backdrop
// compositing, a filterable list picker, and button dialogs.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DimStyle applies a dim gray color to background content behind modals.
// Existing ANSI codes are stripped first; SGR 2 (faint) doesn't reliably
// combine with color codes in most terminals.
var DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

// maxLineWidth returns the maximum visual width of the given lines.
func maxLineWidth(lines []string) int {
	maxWidth := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

// dimLine strips ANSI codes and applies dim gray styling.
func dimLine(s string) string {
	return DimStyle.Render(ansi.Strip(s))
}

// compositeRow overlays modalLine onto bgLine at startX, dimming the
// background segments on both sides.
func compositeRow(bgLine, modalLine string, startX, modalWidth, totalWidth int) string {
	var b strings.Builder

	stripped := ansi.Strip(bgLine)
	bgWidth := ansi.StringWidth(stripped)

	if startX > 0 {
		left := ansi.Truncate(stripped, startX, "")
		leftWidth := ansi.StringWidth(left)
		b.WriteString(DimStyle.Render(left))
		if leftWidth < startX {
			b.WriteString(strings.Repeat(" ", startX-leftWidth))
		}
	}

	b.WriteString(modalLine)

	rightStart := startX + modalWidth
	if rightStart < totalWidth && bgWidth > rightStart {
		b.WriteString(DimStyle.Render(ansi.Cut(stripped, rightStart, bgWidth)))
	}

	return b.String()
}

// Overlay composites a modal box on top of a dimmed background, centered.
func Overlay(background, modal string, width, height int) string {
	bgLines := strings.Split(background, "\n")
	modalLines := strings.Split(modal, "\n")

	modalWidth := maxLineWidth(modalLines)
	modalHeight := len(modalLines)
	startX := (width - modalWidth) / 2
	startY := (height - modalHeight) / 2
	if startX < 0 {
		startX = 0
	}
	if startY < 0 {
		startY = 0
	}

	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	out := make([]string, 0, height)
	for y := 0; y < height; y++ {
		bgLine := ""
		if y < len(bgLines) {
			bgLine = bgLines[y]
		}
		row := y - startY
		if row >= 0 && row < modalHeight {
			out = append(out, compositeRow(bgLine, modalLines[row], startX, modalWidth, width))
		} else {
			out = append(out, dimLine(bgLine))
		}
	}

	return strings.Join(out, "\n")
}
