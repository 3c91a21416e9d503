package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFind(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "none", value: "Hello there", want: nil},
		{name: "named", value: "Hello {player}, you have {count} coins", want: []string{"{player}", "{count}"}},
		{name: "indexed", value: "{0} gave {1} to {0}", want: []string{"{0}", "{1}", "{0}"}},
		{name: "printf", value: "%s scored %2d points (%.1f%%)", want: []string{"%s", "%2d", "%.1f"}},
		{name: "dollar wins over braces", value: "Cost: ${price}", want: []string{"${price}"}},
		{name: "ignores markup", value: `<color is="#ff0000">{name}</color>\n`, want: []string{"{name}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Find(tt.value))
		})
	}
}

func TestDiff(t *testing.T) {
	missing, extra := Diff("Hello {player}, {count} coins", "{count} pièces, bonjour {player}")
	assert.Empty(t, missing)
	assert.Empty(t, extra)

	missing, extra = Diff("{0} and {0} and {1}", "{0} et {2}")
	assert.Equal(t, []string{"{0}", "{1}"}, missing)
	assert.Equal(t, []string{"{2}"}, extra)

	missing, extra = Diff("plain", "%s")
	assert.Empty(t, missing)
	assert.Equal(t, []string{"%s"}, extra)
}
