package otquery

import (
	"fmt"

	"github.com/npillmayer/otmetrics/ot"
	"golang.org/x/image/font/sfnt"
)

// --- Font Information -------------------------------------------------

// FontMetrics retrieves selected metrics of a font.
// Values are taken from tables 'head' and 'hhea', which every font parsed by
// package ot is guaranteed to have.
func FontMetrics(otf *ot.Font) FontMetricsInfo {
	metrics := FontMetricsInfo{}
	if otf == nil {
		return metrics
	}
	if hhea := otf.HHea; hhea != nil {
		metrics.Ascent = sfnt.Units(hhea.Ascender)
		metrics.Descent = sfnt.Units(hhea.Descender)
		metrics.LineGap = sfnt.Units(hhea.LineGap)
		metrics.MaxAdvance = sfnt.Units(hhea.AdvanceWidthMax)
	}
	metrics.UnitsPerEm = sfnt.Units(otf.UnitsPerEm())
	return metrics
}

// --- Glyph Routines --------------------------------------------------------

// GlyphIndex returns the glyph index for a give code-point.
// If the code-point cannot be found, 0 is returned.
//
// From the OpenType specification: character codes that do not correspond to any glyph in
// the font should be mapped to glyph index 0. The glyph at this location must be a special
// glyph representing a missing character, commonly known as '.notdef'.
func GlyphIndex(otf *ot.Font, codepoint rune) ot.GlyphIndex {
	return otf.GlyphIndex(codepoint).Or(0)
}

// CodePointForGlyph returns the code-point for a given glyph index.
//
// This is an inefficient operation: All character ranges contained in the font's CMap
// are checked sequentially if they produce the given glyph.
// If the glyph index does not correspond to a code-point, 0 is returned.
func CodePointForGlyph(otf *ot.Font, gid ot.GlyphIndex) rune {
	if gid == 0 || otf == nil || otf.CMap == nil || otf.CMap.GlyphIndexMap == nil {
		return 0
	}
	return otf.CMap.GlyphIndexMap.ReverseLookup(gid)
}

// GlyphMetrics retrieves metrics for a given glyph.
// Errors are those of ot.LookupHorizontalMetrics, or ot.ErrTableMissing if the font
// does not have an 'hmtx' table.
func GlyphMetrics(otf *ot.Font, gid ot.GlyphIndex) (GlyphMetricsInfo, error) {
	metrics := GlyphMetricsInfo{}
	m, err := otf.GlyphHMetrics(gid)
	if err != nil {
		tracer().Debugf("no metrics for glyph %d: %v", gid, err)
		return metrics, fmt.Errorf("glyph metrics: %w", err)
	}
	metrics.Advance = sfnt.Units(m.AdvanceWidth)
	metrics.LSB = sfnt.Units(m.LeftSideBearing)
	return metrics, nil
}

// Advances returns the advance widths for a sequence of glyphs.
// It stops at the first glyph without metrics and returns the advances found so far,
// together with the error.
func Advances(otf *ot.Font, glyphs []ot.GlyphIndex) ([]sfnt.Units, error) {
	advances := make([]sfnt.Units, 0, len(glyphs))
	for _, gid := range glyphs {
		m, err := GlyphMetrics(otf, gid)
		if err != nil {
			return advances, err
		}
		advances = append(advances, m.Advance)
	}
	return advances, nil
}
