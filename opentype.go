package otmetrics

import (
	"github.com/npillmayer/otmetrics/ot"
	"github.com/npillmayer/otmetrics/otquery"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/unicode/norm"
)

// FromBinary parses raw OpenType bytes and returns a decoded font.
//
// The input is expected to contain a complete single-font SFNT stream.
// It must not change after parsing for the font to be usable.
func FromBinary(data []byte) (*ot.Font, error) {
	return ot.Parse(data)
}

// FamilyName extracts family and subfamily names from a font's `name` table.
//
// Returned values are empty if no matching records exist or if records cannot be
// decoded by the current name-table reader.
func FamilyName(f *ot.Font) (family, subfamily string) {
	return otquery.FamilyName(f)
}

// TextAdvance sums up the advance widths of the glyphs for a short piece of text,
// in font design units.
//
// Text is NFC-normalized first. There is no shaping involved: every code-point is
// mapped to a glyph through the font's cmap, and code-points without a mapping
// contribute the advance of glyph 0 ('.notdef'). If a glyph has no horizontal
// metrics, the sum so far is returned together with the error.
func TextAdvance(otf *ot.Font, text string) (sfnt.Units, error) {
	if otf == nil || text == "" {
		return 0, nil
	}
	text = norm.NFC.String(text)
	glyphs := make([]ot.GlyphIndex, 0, len(text))
	for _, r := range text {
		glyphs = append(glyphs, otquery.GlyphIndex(otf, r))
	}
	advances, err := otquery.Advances(otf, glyphs)
	var total sfnt.Units
	for _, a := range advances {
		total += a
	}
	if err != nil {
		tracer().Debugf("text advance for %q incomplete: %v", text, err)
	}
	return total, err
}
