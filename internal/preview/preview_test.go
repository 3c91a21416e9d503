package preview

import (
	"io"
	"strings"
	"testing"

	"lang-editor/internal/markup"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_NoColorProfile(t *testing.T) {
	r := NewWithProfile(io.Discard, termenv.Ascii)

	lines := r.Value(`Welcome <color is="#ffd700">traveler</color>\n<b>Enjoy</b>`)
	require.Len(t, lines, 2)
	assert.Equal(t, "Welcome traveler", lines[0])
	assert.Equal(t, "Enjoy", lines[1])
}

func TestValue_EmptyLineKeepsRow(t *testing.T) {
	r := NewWithProfile(io.Discard, termenv.Ascii)
	assert.Equal(t, "a\n \nb", r.Block(`a\n\nb`))
}

func TestSpan_Colors(t *testing.T) {
	r := NewWithProfile(io.Discard, termenv.TrueColor)

	colored := r.Span(markup.Span{Text: "gold", Color: "#ffd700"})
	assert.Contains(t, colored, "gold")
	assert.True(t, strings.HasPrefix(colored, "\x1b["), "expected an escape sequence, got %q", colored)

	assert.Equal(t, "plain", r.Span(markup.Span{Text: "plain", Color: markup.DefaultColor}))
	assert.Equal(t, "odd", r.Span(markup.Span{Text: "odd", Color: "not-a-color"}))
}

func TestLine_JoinsSpans(t *testing.T) {
	r := NewWithProfile(io.Discard, termenv.Ascii)
	line := markup.Line{{Text: "a", Color: markup.DefaultColor}, {Text: "b", Color: "#ff0000"}}
	assert.Equal(t, "ab", r.Line(line))
}
