// Package markup converts lang values between their storage and display
// encodings and understands the inline color, bold and italic tags embedded
// in them.
package markup

import (
	"regexp"
	"strings"
)

const (
	// LineBreak is the two-character escape that stands for a newline in
	// storage format.
	LineBreak = `\n`

	// DefaultColor is used for preview text outside any color tag.
	DefaultColor = "#e0e0e0"

	colorOpenPrefix = `<color is="`
	colorClose      = `</color>`
)

// ToDisplay replaces every storage line break escape with a real newline.
func ToDisplay(value string) string {
	return strings.ReplaceAll(value, LineBreak, "\n")
}

// ToStorage replaces every real newline with the storage line break escape.
// It is the inverse of ToDisplay for values without raw newlines.
func ToStorage(value string) string {
	return strings.ReplaceAll(value, "\n", LineBreak)
}

// ColorTag returns an empty color tag pair for color.
func ColorTag(color string) string {
	return colorOpenPrefix + color + `">` + colorClose
}

// formattingTag matches any opening or closing b, i or color tag.
var formattingTag = regexp.MustCompile(`</?(?:b|i)>|<color[^>]*>|</color>`)

// StripTags removes all formatting tags, keeping their content.
func StripTags(value string) string {
	return formattingTag.ReplaceAllString(value, "")
}

// Plain returns value without tags and with line breaks shown as spaces,
// suitable for single-line listings.
func Plain(value string) string {
	return strings.ReplaceAll(StripTags(value), LineBreak, " ")
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// NormalizeHex turns user input such as "FFAA00" or " #ffaa00 " into a
// lower-case "#rrggbb" color. It reports false when the input is not a six
// digit hex color.
func NormalizeHex(input string) (string, bool) {
	hex := strings.TrimSpace(input)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if !hexColor.MatchString(hex) {
		return "", false
	}
	return strings.ToLower(hex), true
}

// Presets are the quick-insert colors offered next to the value editor.
var Presets = []string{
	"#ffffff", "#4ade80", "#f87171", "#ffd700", "#60a5fa", "#c084fc", "#808080",
}

// Palette is the full picker grid, six rows of eight.
var Palette = []string{
	"#fecaca", "#fca5a5", "#f87171", "#ef4444", "#dc2626", "#b91c1c", "#991b1b", "#7f1d1d",
	"#fed7aa", "#fdba74", "#fb923c", "#f97316", "#fde047", "#facc15", "#eab308", "#ca8a04",
	"#bbf7d0", "#86efac", "#4ade80", "#22c55e", "#16a34a", "#15803d", "#166534", "#14532d",
	"#a5f3fc", "#67e8f9", "#22d3ee", "#06b6d4", "#93c5fd", "#60a5fa", "#3b82f6", "#2563eb",
	"#e9d5ff", "#d8b4fe", "#c084fc", "#a855f7", "#f5d0fe", "#f0abfc", "#e879f9", "#d946ef",
	"#ffffff", "#e5e5e5", "#a3a3a3", "#737373", "#525252", "#404040", "#262626", "#000000",
}
