package textwrap

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Measurer returns the rendered width of s in pixels.
type Measurer interface {
	Measure(s string) float64
}

// FixedMeasurer gives every rune the same advance. It is used in tests and
// wherever font metrics are not worth the cost.
type FixedMeasurer float64

// Measure implements Measurer.
func (m FixedMeasurer) Measure(s string) float64 {
	return float64(m) * float64(utf8.RuneCountInString(s))
}

// FontMeasurer measures text with real glyph advances from Go Regular.
// It is safe for concurrent use.
type FontMeasurer struct {
	mu   sync.Mutex
	face font.Face
	size float64
}

var (
	goRegularOnce sync.Once
	goRegular     *opentype.Font
	goRegularErr  error
)

// NewFontMeasurer returns a measurer for Go Regular at the given pixel size.
func NewFontMeasurer(size float64) (*FontMeasurer, error) {
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = opentype.Parse(goregular.TTF)
	})
	if goRegularErr != nil {
		return nil, fmt.Errorf("parsing Go Regular: %w", goRegularErr)
	}
	face, err := opentype.NewFace(goRegular, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %.1fpx face: %w", size, err)
	}
	return &FontMeasurer{face: face, size: size}, nil
}

// Size returns the font size the measurer was built for.
func (m *FontMeasurer) Size() float64 { return m.size }

// Measure implements Measurer.
func (m *FontMeasurer) Measure(s string) float64 {
	if s == "" {
		return 0
	}
	m.mu.Lock()
	adv := font.MeasureString(m.face, s)
	m.mu.Unlock()
	// 26.6 fixed point to pixels.
	return float64(adv) / 64
}
