// Package preview draws segmented lang values on a terminal.
package preview

import (
	"io"
	"strings"

	"lang-editor/internal/markup"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Renderer turns preview lines into styled terminal text. Spans in the
// default color are left to the terminal's own foreground.
type Renderer struct {
	lg *lipgloss.Renderer
}

// New creates a renderer that detects color support from w.
func New(w io.Writer) *Renderer {
	return &Renderer{lg: lipgloss.NewRenderer(w)}
}

// NewWithProfile creates a renderer with a fixed color profile.
func NewWithProfile(w io.Writer, profile termenv.Profile) *Renderer {
	r := New(w)
	r.lg.SetColorProfile(profile)
	return r
}

// Lipgloss exposes the underlying renderer for building related styles.
func (r *Renderer) Lipgloss() *lipgloss.Renderer { return r.lg }

// Span renders one span.
func (r *Renderer) Span(s markup.Span) string {
	hex, ok := markup.NormalizeHex(s.Color)
	if !ok || hex == markup.DefaultColor {
		return s.Text
	}
	return r.lg.NewStyle().Foreground(lipgloss.Color(hex)).Render(s.Text)
}

// Line renders the spans of one preview line side by side.
func (r *Renderer) Line(line markup.Line) string {
	var b strings.Builder
	for _, s := range line {
		b.WriteString(r.Span(s))
	}
	return b.String()
}

// Value segments a storage value and renders each of its lines.
func (r *Renderer) Value(value string) []string {
	lines := markup.Segment(value)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = r.Line(l)
	}
	return out
}

// Block renders a storage value as a single newline separated string.
func (r *Renderer) Block(value string) string {
	return strings.Join(r.Value(value), "\n")
}
