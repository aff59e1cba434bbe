// Package textwrap packs words into lines that fit a fixed pixel width.
package textwrap

import "strings"

// Wrap greedily appends words to a line while the measured line still fits
// within width, then starts a new line. A word wider than width is placed
// alone on its line; words are never broken. Whitespace runs collapse to a
// single space. At least one line is always returned.
func Wrap(text string, width float64, m Measurer) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	lines := make([]string, 0, 2)
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if m.Measure(candidate) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line = candidate
	}
	return append(lines, line)
}

// Line is one positioned line of a wrapped block.
type Line struct {
	Text string  `json:"text"`
	Y    float64 `json:"y"`
}

// Block is wrapped text stacked from a starting baseline.
type Block struct {
	Lines []Line `json:"lines"`
}

// Count returns the number of lines in the block.
func (b Block) Count() int { return len(b.Lines) }

// Height is the vertical space the block occupies.
func (b Block) Height(lineHeight float64) float64 {
	return float64(len(b.Lines)) * lineHeight
}

// Layout wraps text and assigns each line a baseline starting at startY,
// lineHeight apart, so content that follows can be stacked below it.
func Layout(text string, width, lineHeight, startY float64, m Measurer) Block {
	wrapped := Wrap(text, width, m)
	b := Block{Lines: make([]Line, len(wrapped))}
	for i, s := range wrapped {
		b.Lines[i] = Line{Text: s, Y: startY + float64(i)*lineHeight}
	}
	return b
}
