// Package placeholder finds the substitution variables in lang values so a
// translation can be checked against its source language.
package placeholder

import (
	"regexp"
	"sort"
)

// patterns detect the variables a game substitutes into a value at runtime.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[a-zA-Z_][a-zA-Z0-9_.]*\}`),         // ${value}
	regexp.MustCompile(`\{[a-zA-Z_][a-zA-Z0-9_.]*\}`),           // {name}
	regexp.MustCompile(`\{[0-9]+\}`),                            // {0}
	regexp.MustCompile(`%[-+0-9]*\.?[0-9]*[dsfieEgGxXoubcpq]`), // %d, %s, %2d
}

type match struct {
	start, end int
	value      string
}

// Find returns the placeholders in value in order of appearance. Where two
// patterns overlap the longer match wins.
func Find(value string) []string {
	var all []match
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(value, -1) {
			all = append(all, match{start: loc[0], end: loc[1], value: value[loc[0]:loc[1]]})
		}
	}
	if len(all) == 0 {
		return nil
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end-all[i].start > all[j].end-all[j].start
	})

	var found []string
	lastEnd := -1
	for _, m := range all {
		if m.start >= lastEnd {
			found = append(found, m.value)
			lastEnd = m.end
		}
	}
	return found
}

// Diff compares the placeholders of a source value with those of its
// translation. missing are used by source but not by translation, extra the
// reverse. Order does not matter, counts do.
func Diff(source, translation string) (missing, extra []string) {
	counts := make(map[string]int)
	for _, p := range Find(source) {
		counts[p]++
	}
	for _, p := range Find(translation) {
		counts[p]--
	}

	for p, n := range counts {
		for ; n > 0; n-- {
			missing = append(missing, p)
		}
		for ; n < 0; n++ {
			extra = append(extra, p)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}
