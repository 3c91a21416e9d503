package markup

import "strings"

// Span is a run of preview text drawn in a single color.
type Span struct {
	Text  string
	Color string
}

// Line is one logical preview line.
type Line []Span

// colorMatch is one <color is="...">...</color> occurrence within a line.
type colorMatch struct {
	start, end int
	color      string
	content    string
}

// Segment splits a storage value into preview lines of colored spans.
//
// Each color tag is matched non-greedily: its content runs up to the first
// closing color tag, and any tags inside that content are stripped. Text
// outside color tags takes DefaultColor. A line with nothing visible gets a
// single space so it still occupies a row.
func Segment(value string) []Line {
	raw := strings.Split(value, LineBreak)
	lines := make([]Line, 0, len(raw))
	for _, text := range raw {
		lines = append(lines, segmentLine(text))
	}
	return lines
}

func segmentLine(text string) Line {
	var line Line
	emit := func(s, color string) {
		s = StripTags(s)
		if s != "" {
			line = append(line, Span{Text: s, Color: color})
		}
	}

	last := 0
	for _, m := range findColorTags(text) {
		if m.start > last {
			emit(text[last:m.start], DefaultColor)
		}
		emit(m.content, m.color)
		last = m.end
	}
	if last < len(text) {
		emit(text[last:], DefaultColor)
	}

	if len(line) == 0 {
		line = Line{{Text: " ", Color: DefaultColor}}
	}
	return line
}

// findColorTags scans text left to right for color tags. An opening tag is
// `<color is="` followed by a non-empty, quote-free color and `">`. Its
// content ends at the next `</color>`. Malformed openings are skipped and the
// scan resumes one byte later.
func findColorTags(text string) []colorMatch {
	var matches []colorMatch
	pos := 0
	for pos < len(text) {
		rel := strings.Index(text[pos:], colorOpenPrefix)
		if rel < 0 {
			break
		}
		start := pos + rel
		colorStart := start + len(colorOpenPrefix)

		quote := strings.IndexByte(text[colorStart:], '"')
		if quote <= 0 || !strings.HasPrefix(text[colorStart+quote:], `">`) {
			pos = start + 1
			continue
		}
		color := text[colorStart : colorStart+quote]
		contentStart := colorStart + quote + len(`">`)

		closeRel := strings.Index(text[contentStart:], colorClose)
		if closeRel < 0 {
			// no later opening can be closed either
			break
		}
		end := contentStart + closeRel + len(colorClose)

		matches = append(matches, colorMatch{
			start:   start,
			end:     end,
			color:   color,
			content: text[contentStart : contentStart+closeRel],
		})
		pos = end
	}
	return matches
}
