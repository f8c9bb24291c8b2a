package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/thereisnosecondbestasset/250327-racing-game-3rd-kcycle-kboat-track/engine/geometry"
)

// ErrEmptyFont is returned when a typeface file defines no glyphs.
var ErrEmptyFont = errors.New("font defines no glyphs")

// defaultFontResolution applies when the typeface omits its units per em.
const defaultFontResolution = 1000

// Font is a typeface JSON font: per-glyph advances and outlines in font units.
type Font struct {
	Family     string
	Resolution float64
	Glyphs     map[rune]FontGlyph
}

// FontGlyph is the metric and outline data of one character.
type FontGlyph struct {
	// Advance is the horizontal advance ("ha").
	Advance float64

	XMin, XMax float64

	// Outline is the raw move/line/curve command string ("o").
	Outline string
}

type typefaceFile struct {
	FamilyName string                   `json:"familyName"`
	Resolution float64                  `json:"resolution"`
	Glyphs     map[string]typefaceGlyph `json:"glyphs"`
}

type typefaceGlyph struct {
	HA   float64 `json:"ha"`
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	O    string  `json:"o"`
}

// ParseFont decodes a typeface JSON font. Glyph keys longer than one character
// are ignored.
//
// Parameters:
//   - r: the font file contents
//
// Returns:
//   - *Font: the decoded font
//   - error: ErrEmptyFont if no usable glyph is defined, or a decode error
func ParseFont(r io.Reader) (*Font, error) {
	var raw typefaceFile
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode typeface: %w", err)
	}

	f := &Font{
		Family:     raw.FamilyName,
		Resolution: raw.Resolution,
		Glyphs:     make(map[rune]FontGlyph, len(raw.Glyphs)),
	}
	if f.Resolution <= 0 {
		f.Resolution = defaultFontResolution
	}
	for key, g := range raw.Glyphs {
		r, size := utf8.DecodeRuneInString(key)
		if r == utf8.RuneError || size != len(key) {
			continue
		}
		f.Glyphs[r] = FontGlyph{Advance: g.HA, XMin: g.XMin, XMax: g.XMax, Outline: g.O}
	}
	if len(f.Glyphs) == 0 {
		return nil, ErrEmptyFont
	}
	return f, nil
}

// Layout maps text onto glyph metrics. Characters the font lacks fall back to
// '?' when the font has it and are dropped otherwise; a missing space still
// advances by a third of an em.
func (f *Font) Layout(text string) []geometry.Glyph {
	out := make([]geometry.Glyph, 0, len(text))
	for _, r := range text {
		g, ok := f.Glyphs[r]
		switch {
		case ok:
		case r == ' ':
			g = FontGlyph{Advance: f.Resolution / 3}
		default:
			if g, ok = f.Glyphs['?']; !ok {
				continue
			}
		}
		out = append(out, geometry.Glyph{Rune: r, Advance: g.Advance})
	}
	return out
}
