package markup

import "regexp"

// cleanStep is a single rewrite in the CleanTags pipeline.
type cleanStep struct {
	pattern *regexp.Regexp
	repl    string
}

// The tag names in these patterns are b, i and color. Opening color tags keep
// their attributes via the first capture group.
var cleanSteps = []cleanStep{
	// (1) line break escapes, and the whitespace around them, right before a
	// closing tag
	{regexp.MustCompile(`(?:\s*\\n)+\s*</(color|b|i)>`), `</$1>`},
	// (2) line break escapes right after an opening tag
	{regexp.MustCompile(`<(color[^>]*|b|i)>\s*(?:\\n\s*)+`), `<$1>`},
	// (3) whitespace hugging tag boundaries
	{regexp.MustCompile(`\s+</(color|b|i)>`), `</$1>`},
	{regexp.MustCompile(`<(color[^>]*|b|i)>\s+`), `<$1>`},
	// (4) pairs that enclose nothing
	{regexp.MustCompile(`<color[^>]*></color>|<b></b>|<i></i>`), ``},
}

// CleanTags normalizes badly placed whitespace and line breaks around
// formatting tags and drops empty tag pairs.
//
// Removing an empty pair can bring a line break or blank next to another
// tag, so the pipeline runs until the value stops changing. Every step only
// deletes text, which bounds the number of passes by the value length.
func CleanTags(value string) string {
	for {
		next := value
		for _, step := range cleanSteps {
			next = step.pattern.ReplaceAllString(next, step.repl)
		}
		if next == value {
			return next
		}
		value = next
	}
}
