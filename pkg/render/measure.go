package render

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/plotforge/barchart/pkg/chart"
)

// fontSet holds the parsed Go font variants shared by the measurer and the
// PNG sink. Parsing happens once per process.
type fontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
	italic  *truetype.Font
}

var (
	fontsOnce sync.Once
	fonts     fontSet
	fontsErr  error
)

func loadFonts() (fontSet, error) {
	fontsOnce.Do(func() {
		parse := func(ttf []byte) *truetype.Font {
			if fontsErr != nil {
				return nil
			}
			var f *truetype.Font
			f, fontsErr = truetype.Parse(ttf)
			return f
		}
		fonts.regular = parse(goregular.TTF)
		fonts.bold = parse(gobold.TTF)
		fonts.italic = parse(goitalic.TTF)
	})
	return fonts, fontsErr
}

func (fs fontSet) variant(style chart.FontStyle) *truetype.Font {
	switch style {
	case chart.FontBold:
		return fs.bold
	case chart.FontItalic:
		return fs.italic
	}
	return fs.regular
}

type faceKey struct {
	size  float64
	style chart.FontStyle
}

// Measurer measures text with the Go fonts the PNG sink renders with, so
// layout insets computed from measurements match the drawn glyphs.
type Measurer struct {
	fonts fontSet

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

// NewMeasurer creates the production text measurer.
func NewMeasurer() (*Measurer, error) {
	fs, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &Measurer{fonts: fs, faces: make(map[faceKey]font.Face)}, nil
}

// Measure implements chart.TextMeasurer.
func (m *Measurer) Measure(text string, spec chart.FontSpec) float64 {
	adv := font.MeasureString(m.face(spec), text)
	return float64(adv) / 64
}

func (m *Measurer) face(spec chart.FontSpec) font.Face {
	key := faceKey{size: spec.Size, style: spec.Style}

	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.faces[key]; ok {
		return f
	}
	f := truetype.NewFace(m.fonts.variant(spec.Style), &truetype.Options{Size: spec.Size})
	m.faces[key] = f
	return f
}

// Ensure Measurer implements TextMeasurer.
var _ chart.TextMeasurer = (*Measurer)(nil)
