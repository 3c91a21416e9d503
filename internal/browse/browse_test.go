package browse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lang-editor/internal/langfile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		number    int
		wantNum   int
		wantCount int
		wantLen   int
		wantFirst int
	}{
		{name: "first page", total: 65, number: 0, wantNum: 0, wantCount: 3, wantLen: 30, wantFirst: 0},
		{name: "last partial page", total: 65, number: 2, wantNum: 2, wantCount: 3, wantLen: 5, wantFirst: 60},
		{name: "past the end clamps", total: 65, number: 9, wantNum: 2, wantCount: 3, wantLen: 5, wantFirst: 60},
		{name: "negative clamps", total: 65, number: -1, wantNum: 0, wantCount: 3, wantLen: 30, wantFirst: 0},
		{name: "exact multiple", total: 60, number: 1, wantNum: 1, wantCount: 2, wantLen: 30, wantFirst: 30},
		{name: "empty", total: 0, number: 3, wantNum: 0, wantCount: 1, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(numbers(tt.total), tt.number, DefaultPageSize)
			assert.Equal(t, tt.wantNum, p.Number)
			assert.Equal(t, tt.wantCount, p.Count)
			assert.Len(t, p.Items, tt.wantLen)
			assert.Equal(t, tt.total, p.Total)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, p.Items[0])
			}
		})
	}
}

func TestPage_Labels(t *testing.T) {
	p := Paginate(numbers(65), 1, 30)
	assert.Equal(t, "Page 2/3", p.Label())
	assert.Equal(t, "65 results", p.ResultLabel())
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())

	one := Paginate(numbers(1), 0, 30)
	assert.Equal(t, "Page 1/1", one.Label())
	assert.Equal(t, "1 result", one.ResultLabel())
	assert.False(t, one.HasPrev())
	assert.False(t, one.HasNext())

	assert.Equal(t, "Page 1/1", Paginate[int](nil, 0, 30).Label())
}

func TestPaginate_BadSizeFallsBack(t *testing.T) {
	p := Paginate(numbers(31), 0, 0)
	assert.Len(t, p.Items, DefaultPageSize)
}

func TestColumns(t *testing.T) {
	left, right := Columns(numbers(5))
	assert.Equal(t, []int{0, 1, 2}, left)
	assert.Equal(t, []int{3, 4}, right)

	left, right = Columns(numbers(30))
	assert.Len(t, left, 15)
	assert.Len(t, right, 15)

	left, right = Columns[int](nil)
	assert.Empty(t, left)
	assert.Empty(t, right)
}

func TestRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.lang")
	long := strings.Repeat("k", 40)
	require.NoError(t, os.WriteFile(path, []byte("short=1\n"+long+"=2\n"), 0o644))

	doc := langfile.New()
	require.NoError(t, doc.Load(path))

	e, _ := doc.Get("short")
	assert.Equal(t, "short", Row(e))

	e, _ = doc.Get(long)
	assert.Equal(t, strings.Repeat("k", 32)+"...", Row(e))

	require.NoError(t, doc.Update("short", "short", "changed"))
	e, _ = doc.Get("short")
	assert.Equal(t, "*short", Row(e))
}
