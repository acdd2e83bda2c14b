package main

import (
	"testing"

	"github.com/npillmayer/otmetrics/internal/fontload"
	"github.com/npillmayer/otmetrics/internal/fonttest"
	"github.com/npillmayer/otmetrics/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestParseGlyphList(t *testing.T) {
	glyphs, err := parseGlyphList("0, 3-5 9")
	require.NoError(t, err)
	assert.Equal(t, []ot.GlyphIndex{0, 3, 4, 5, 9}, glyphs)
	_, err = parseGlyphList("5-3")
	assert.Error(t, err, "expected descending range to be rejected")
	_, err = parseGlyphList("70000")
	assert.Error(t, err, "expected glyph index to be limited to 16 bit")
	glyphs, err = parseGlyphList("")
	require.NoError(t, err)
	assert.Empty(t, glyphs)
}

func TestParseCodepointToken(t *testing.T) {
	for _, token := range []string{"U+0041", "u+41", "0x41", "41"} {
		r, err := parseCodepointToken(token)
		require.NoError(t, err, token)
		assert.Equal(t, 'A', r, token)
	}
	_, err := parseCodepointToken("U+110000")
	assert.Error(t, err)
	_, err = parseCodepointToken("")
	assert.Error(t, err)
	runes, err := parseCodepoints("U+0041,U+1F600")
	require.NoError(t, err)
	assert.Equal(t, []rune{'A', 0x1F600}, runes)
}

func TestCompareWithSFNT(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	sf, err := fontload.ParseOpenTypeFont(goregular.TTF)
	require.NoError(t, err)
	otf, err := ot.Parse(sf.Binary)
	require.NoError(t, err)
	require.NoError(t, compareRawTables(otf, sf.Binary))
	glyphs := make([]ot.GlyphIndex, otf.NumGlyphs())
	for i := range glyphs {
		glyphs[i] = ot.GlyphIndex(i)
	}
	mismatches, err := compareAdvances(otf, sf.SFNT, glyphs)
	require.NoError(t, err)
	assert.Empty(t, mismatches, "expected hmtx advances to match package sfnt")
}

func TestFormatMapping(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := ot.Parse(fonttest.Latin().Bytes())
	require.NoError(t, err)
	assert.Equal(t, "U+0042 'B' -> 2 advance=700", formatMapping(otf, 'B'))
	assert.Equal(t, "U+0045 'E' -> (none)", formatMapping(otf, 'E'))
}

func TestRenderGlyphRun(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	sf, err := fontload.ParseOpenTypeFont(goregular.TTF)
	require.NoError(t, err)
	otf, err := ot.Parse(sf.Binary)
	require.NoError(t, err)
	glyphs := []ot.GlyphIndex{}
	for _, r := range "Hamburg" {
		g, ok := otf.GlyphIndex(r).Unwrap()
		if !ok {
			g = ot.GlyphIndex(0)
		}
		glyphs = append(glyphs, g)
	}
	opts := renderOptions{ppem: 48, width: 400, height: 120, showAdvances: true}
	img, err := renderGlyphRun(otf, sf.SFNT, glyphs, opts)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	_, err = renderGlyphRun(otf, sf.SFNT, nil, opts)
	assert.Error(t, err)
	_, err = renderGlyphRun(otf, sf.SFNT, []ot.GlyphIndex{ot.GlyphIndex(otf.NumGlyphs())}, opts)
	assert.Error(t, err, "expected invalid glyph to fail")
}
