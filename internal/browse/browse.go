// Package browse lays out search results the way the entry browser shows
// them: fixed-size pages split over two columns.
package browse

import (
	"fmt"

	"lang-editor/internal/langfile"
	"lang-editor/internal/textutil"
)

const (
	// DefaultPageSize is fifteen rows in each of two columns.
	DefaultPageSize = 30
	// KeyWidth is the widest key shown before truncation.
	KeyWidth = 35
	// DirtyMarker prefixes entries with unsaved changes.
	DirtyMarker = "*"
)

// Page is one page of results. Number is zero-based and always within
// range, Count is at least 1 even for no results.
type Page[T any] struct {
	Items  []T
	Number int
	Count  int
	Total  int
}

// Paginate returns page number of items, clamping out-of-range numbers to
// the nearest existing page.
func Paginate[T any](items []T, number, size int) Page[T] {
	if size < 1 {
		size = DefaultPageSize
	}
	count := max((len(items)+size-1)/size, 1)
	number = min(max(number, 0), count-1)

	start := number * size
	end := min(start+size, len(items))
	return Page[T]{
		Items:  items[start:end],
		Number: number,
		Count:  count,
		Total:  len(items),
	}
}

func (p Page[T]) HasPrev() bool { return p.Number > 0 }
func (p Page[T]) HasNext() bool { return p.Number < p.Count-1 }

// Label is the "Page x/y" indicator.
func (p Page[T]) Label() string {
	return fmt.Sprintf("Page %d/%d", p.Number+1, p.Count)
}

// ResultLabel is the "n results" indicator.
func (p Page[T]) ResultLabel() string {
	return fmt.Sprintf("%d %s", p.Total, textutil.Plural(p.Total, "result"))
}

// Columns splits items into a left and right column, the left one taking
// the extra item when the count is odd.
func Columns[T any](items []T) (left, right []T) {
	half := (len(items) + 1) / 2
	return items[:half], items[half:]
}

// Row is the label of an entry in the browser.
func Row(e *langfile.Entry) string {
	label := textutil.Truncate(e.Key(), KeyWidth)
	if e.Dirty() {
		return DirtyMarker + label
	}
	return label
}
