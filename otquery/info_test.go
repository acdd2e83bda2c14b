package otquery

import (
	"errors"
	"testing"

	"github.com/npillmayer/otmetrics/internal/fonttest"
	"github.com/npillmayer/otmetrics/ot"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// --- Test Suite Preparation ------------------------------------------------

type InfoTestEnviron struct {
	suite.Suite
	otf   *ot.Font // Go Regular
	latin *ot.Font // synthetic font with format 12 cmap
}

// listen for 'go test' command --> run test methods
func TestInfoFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	suite.Run(t, new(InfoTestEnviron))
}

// run once, before test suite methods
func (env *InfoTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("font.opentype").SetTraceLevel(tracing.LevelError)
	var err error
	env.otf, err = ot.Parse(goregular.TTF)
	env.Require().NoError(err, "cannot parse Go Regular")
	env.latin, err = ot.Parse(fonttest.Latin().Bytes())
	env.Require().NoError(err, "cannot parse synthetic test font")
	tracing.Select("font.opentype").SetTraceLevel(tracing.LevelInfo)
}

// run once, after test suite methods
func (env *InfoTestEnviron) TearDownSuite() {
	env.T().Log("Tearing down test suite")
}

// --- Tests -----------------------------------------------------------------

func (env *InfoTestEnviron) TestGeneralInfo() {
	sf, err := sfnt.Parse(goregular.TTF)
	env.Require().NoError(err)
	expected, err := sf.Name(nil, sfnt.NameIDFamily)
	env.Require().NoError(err)
	family, _ := FamilyName(env.otf)
	env.Equal(expected, family, "expected font family name %q", expected)
	family, subfamily := FamilyName(env.latin)
	env.Empty(family+subfamily, "expected synthetic font to have no names")
}

func (env *InfoTestEnviron) TestHeadInfo() {
	h, ok := HeadInfo(env.otf)
	env.Require().True(ok, "expected to decode table 'head'")
	env.Equal(env.otf.Head.Flags, h.Flags, "expected matching Flags")
	env.Equal(env.otf.UnitsPerEm(), h.UnitsPerEm, "expected matching UnitsPerEm")
	env.Equal(uint32(0x5F0F3CF5), h.MagicNumber, "expected OpenType head magic number")
	env.Equal(1904, longDateTime(0).Year(), "expected LONGDATETIME epoch 1904")
	env.Equal(1970, longDateTime(2082844800).Year(), "expected Unix epoch at 2082844800")
	_, ok = HeadInfo(nil)
	env.False(ok)
}

func (env *InfoTestEnviron) TestMaxPInfo() {
	m, ok := MaxPInfo(env.otf)
	env.Require().True(ok, "expected to decode table 'maxp'")
	env.Equal(uint16(env.otf.NumGlyphs()), m.NumGlyphs, "expected matching numGlyphs")
	env.True(m.TrueType(), "expected Go Regular to have TrueType outlines")
	m, ok = MaxPInfo(env.latin)
	env.Require().True(ok)
	env.False(m.TrueType(), "expected synthetic font to have a version 0.5 maxp")
	env.Equal(uint16(5), m.NumGlyphs)
}

func (env *InfoTestEnviron) TestTablesOfExactSize() {
	font := fonttest.Latin()
	env.Require().Len(font["head"], headTableSize)
	env.Require().Len(font["maxp"], maxpTableSize)
	h, ok := HeadInfo(env.latin)
	env.Require().True(ok, "expected to decode 'head' ending at its last byte")
	env.Equal(uint16(1000), h.UnitsPerEm)
	env.Equal(uint32(0x5F0F3CF5), h.MagicNumber)
	m, ok := MaxPInfo(env.latin)
	env.Require().True(ok, "expected to decode 'maxp' ending at its last byte")
	env.Equal(uint16(5), m.NumGlyphs)
}

func (env *InfoTestEnviron) TestTruncatedNameTable() {
	for _, name := range [][]byte{
		{0, 0, 0},                 // header cut short
		{0, 0, 0, 2, 0, 30},       // 2 records announced, none present
		{0, 0, 0, 1, 0, 18, 0, 3}, // record cut short
	} {
		font := fonttest.Latin()
		font["name"] = name
		otf, err := ot.Parse(font.Bytes())
		env.Require().NoError(err)
		count := 0
		for range NamesRange(otf) {
			count++
		}
		env.Zero(count, "expected no names from truncated name table % x", name)
	}
}

func (env *InfoTestEnviron) TestFontMetrics() {
	m := FontMetrics(env.latin)
	env.Equal(sfnt.Units(1000), m.UnitsPerEm)
	env.Equal(sfnt.Units(800), m.Ascent)
	env.Equal(sfnt.Units(-200), m.Descent)
	env.Equal(sfnt.Units(1090), m.LineHeight())
	m = FontMetrics(env.otf)
	env.Equal(sfnt.Units(2048), m.UnitsPerEm, "expected Go Regular to have 2048 units per em")
	env.True(m.MaxAdvance > 0)
	env.Equal(FontMetricsInfo{}, FontMetrics(nil))
}

func (env *InfoTestEnviron) TestGlyphIndex() {
	env.Equal(ot.GlyphIndex(1), GlyphIndex(env.latin, 'A'))
	env.Equal(ot.GlyphIndex(4), GlyphIndex(env.latin, 'D'))
	env.Equal(ot.GlyphIndex(0), GlyphIndex(env.latin, 'E'), "expected unmapped 'E' to map to .notdef")
	env.Equal(ot.GlyphIndex(0), GlyphIndex(nil, 'A'))
}

func (env *InfoTestEnviron) TestReverseLookup() {
	r := CodePointForGlyph(env.latin, 3)
	env.Equal('C', r, "expected code-point to be %#U, is %#U", 'C', r)
	env.Equal(rune(0), CodePointForGlyph(env.latin, 0))
}

func (env *InfoTestEnviron) TestGlyphMetrics() {
	m, err := GlyphMetrics(env.latin, GlyphIndex(env.latin, 'D'))
	env.Require().NoError(err)
	env.Equal(GlyphMetricsInfo{Advance: 700, LSB: 50}, m)
	_, err = GlyphMetrics(env.latin, 5)
	env.True(errors.Is(err, ot.ErrInvalidGlyphID), "expected glyph 5 to be invalid, error is %v", err)
	adv, err := Advances(env.latin, []ot.GlyphIndex{0, 1, 2, 9})
	env.True(errors.Is(err, ot.ErrInvalidGlyphID))
	env.Equal([]sfnt.Units{600, 650, 700}, adv)
}

func (env *InfoTestEnviron) TestGlyphMetricsGoRegular() {
	sf, err := sfnt.Parse(goregular.TTF)
	env.Require().NoError(err)
	var buf sfnt.Buffer
	for _, r := range "Hamburgefonts" {
		x, err := sf.GlyphIndex(&buf, r)
		env.Require().NoError(err)
		m, err := GlyphMetrics(env.otf, ot.GlyphIndex(x))
		env.Require().NoError(err)
		env.True(m.Advance > 0, "expected glyph for %q to have an advance", r)
	}
}
