package status

import (
	"regexp"
	"strings"
)

// namedColors translates the color names the tracker reports into hex values.
var namedColors = map[string]string{
	"red":     "#EF4444",
	"orange":  "#F97316",
	"amber":   "#F59E0B",
	"yellow":  "#EAB308",
	"green":   "#10B981",
	"teal":    "#14B8A6",
	"blue":    "#3B82F6",
	"indigo":  "#6366F1",
	"purple":  "#7C3AED",
	"violet":  "#8B5CF6",
	"pink":    "#EC4899",
	"gray":    "#6B7280",
	"grey":    "#6B7280",
	"brown":   "#92400E",
	"crimson": "#DC2626",
}

// DefaultPalette is cycled for statuses with no translatable remote color and
// for groups with no configuration at all.
var DefaultPalette = []string{
	"#3B82F6", // blue
	"#10B981", // green
	"#F59E0B", // amber
	"#7C3AED", // purple
	"#EC4899", // pink
	"#14B8A6", // teal
	"#EF4444", // red
	"#6366F1", // indigo
}

// UnknownColor is the fixed neutral color for the Unknown group.
const UnknownColor = "#6B7280"

var hexRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidHex reports whether s is a 6-digit #RRGGBB color, case-insensitively.
func ValidHex(s string) bool {
	return hexRe.MatchString(s)
}

// translateColorName maps a remote color name to hex; ok is false when the
// name is unknown or empty.
func translateColorName(name string) (string, bool) {
	hex, ok := namedColors[strings.ToLower(strings.TrimSpace(name))]
	return hex, ok
}

// PaletteColor returns the palette entry for a cycle position.
func PaletteColor(i int) string {
	if i < 0 {
		i = -i
	}
	return DefaultPalette[i%len(DefaultPalette)]
}
