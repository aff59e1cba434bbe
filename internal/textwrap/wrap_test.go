package textwrap

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapFitsOnOneLine(t *testing.T) {
	lines := Wrap("Alice Smith", 90, FixedMeasurer(6))
	assert.Equal(t, []string{"Alice Smith"}, lines)
}

func TestWrapBreaksGreedily(t *testing.T) {
	// 6px per rune, 60px wide: at most 10 runes per line.
	lines := Wrap("Maria de los Angeles Ortega", 60, FixedMeasurer(6))
	assert.Equal(t, []string{"Maria de", "los", "Angeles", "Ortega"}, lines)
}

func TestWrapLongWordAlone(t *testing.T) {
	lines := Wrap("Wolfeschlegelsteinhausen Jr", 60, FixedMeasurer(6))
	assert.Equal(t, []string{"Wolfeschlegelsteinhausen", "Jr"}, lines)
}

func TestWrapCollapsesWhitespace(t *testing.T) {
	lines := Wrap("  Bob \t\n  Jones  ", 200, FixedMeasurer(6))
	assert.Equal(t, []string{"Bob Jones"}, lines)
}

func TestWrapEmpty(t *testing.T) {
	assert.Equal(t, []string{""}, Wrap("", 50, FixedMeasurer(6)))
	assert.Equal(t, []string{""}, Wrap("   ", 50, FixedMeasurer(6)))
}

func TestWrapNeverExceedsWidthUnlessSingleWord(t *testing.T) {
	m := FixedMeasurer(5.5)
	texts := []string{
		"(2024-01-15 → 2024-06-30)",
		"Dr. Jonathan Q. Public-Service the Third",
		"a bb ccc dddd eeeee ffffff ggggggg hhhhhhhh",
		"Supercalifragilisticexpialidocious",
	}
	for _, width := range []float64{20, 45, 90, 150} {
		for _, text := range texts {
			lines := Wrap(text, width, m)
			for _, line := range lines {
				if m.Measure(line) > width {
					assert.Len(t, strings.Fields(line), 1, "line %q exceeds %v", line, width)
				}
			}
			// Nothing is lost or reordered.
			assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")))
		}
	}
}

func TestLayoutStacksLines(t *testing.T) {
	b := Layout("Maria de los Angeles", 60, 11, 28, FixedMeasurer(6))
	require.Equal(t, 3, b.Count())
	assert.Equal(t, Line{Text: "Maria de", Y: 28}, b.Lines[0])
	assert.Equal(t, Line{Text: "los", Y: 39}, b.Lines[1])
	assert.Equal(t, Line{Text: "Angeles", Y: 50}, b.Lines[2])
	assert.Equal(t, 33.0, b.Height(11))
}

func TestFontMeasurer(t *testing.T) {
	m, err := NewFontMeasurer(10)
	require.NoError(t, err)
	assert.Equal(t, 10.0, m.Size())

	assert.Zero(t, m.Measure(""))
	short := m.Measure("Al")
	long := m.Measure("Alice Smith")
	assert.Greater(t, short, 0.0)
	assert.Greater(t, long, short)

	bigger, err := NewFontMeasurer(20)
	require.NoError(t, err)
	assert.InDelta(t, 2*long, bigger.Measure("Alice Smith"), 1.0)
}

func TestFontMeasurerConcurrent(t *testing.T) {
	m, err := NewFontMeasurer(10)
	require.NoError(t, err)
	want := m.Measure("Occupant Name")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.Equal(t, want, m.Measure("Occupant Name"))
			}
		}()
	}
	wg.Wait()
}
