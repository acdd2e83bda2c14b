package ot

import (
	"bytes"
	"errors"
	"testing"

	"github.com/npillmayer/otmetrics/internal/fontload"
	"github.com/npillmayer/otmetrics/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

func TestParseHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := Parse(metricsTestFont().Bytes())
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("otf.header.tag = %x", otf.Header.FontType)
	if otf.Header.FontType != 0x00010000 {
		t.Fatalf("expected font to be OT 0x0001000, is %x", otf.Header.FontType)
	}
	if otf.Header.TableCount != 5 {
		t.Errorf("expected font to have 5 tables, has %d", otf.Header.TableCount)
	}
	tags := otf.TableTags()
	if len(tags) != 5 || tags[0] != T("cmap") || tags[4] != T("maxp") {
		t.Errorf("expected sorted table tags cmap…maxp, have %v", tags)
	}
	if len(otf.Errors()) != 0 {
		t.Errorf("expected no parse errors, have %v", otf.Errors())
	}
}

func TestParseMetricsTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := Parse(metricsTestFont().Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if otf.UnitsPerEm() != 1000 {
		t.Errorf("expected 1000 units per em, have %d", otf.UnitsPerEm())
	}
	if otf.NumGlyphs() != 5 || otf.NumberOfHMetrics() != 3 {
		t.Errorf("expected 5 glyphs with 3 long metrics, have %d/%d", otf.NumGlyphs(), otf.NumberOfHMetrics())
	}
	if otf.HHea.Ascender != 800 || otf.HHea.Descender != -200 || otf.HHea.LineGap != 90 {
		t.Errorf("unexpected vertical metrics in hhea: %d/%d/%d",
			otf.HHea.Ascender, otf.HHea.Descender, otf.HHea.LineGap)
	}
	if m, err := otf.GlyphHMetrics(4); err != nil || m != (HMetricRecord{700, 50}) {
		t.Errorf("expected glyph 4 to have metrics {700 50}, have %v (%v)", m, err)
	}
	if _, err := otf.GlyphHMetrics(5); !errors.Is(err, ErrInvalidGlyphID) {
		t.Errorf("expected glyph 5 to be invalid, have %v", err)
	}
	if g := otf.GlyphIndex('Z'); g != Some[GlyphIndex](61) {
		t.Errorf("expected 'Z' to map to glyph 61, have %v", g)
	}
	if g := otf.GlyphIndex('a'); g.IsSome() {
		t.Errorf("expected 'a' to be unmapped, have %v", g)
	}
	if otf.CMap.GroupCount() != 1 {
		t.Errorf("expected cmap to have 1 group, has %d", otf.CMap.GroupCount())
	}
	if otf.Table(T("hmtx")).Self().AsHMtx() != otf.HMtx {
		t.Errorf("expected table hmtx to be the typed hmtx table")
	}
	off, size := otf.HMtx.Extent()
	if size != 16 || off%4 != 0 {
		t.Errorf("unexpected extent of hmtx: offset %d, size %d", off, size)
	}
}

func TestParseMissingMetricsTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	f := metricsTestFont()
	delete(f, "hmtx")
	delete(f, "cmap")
	f["OS/2"] = make([]byte, 96)
	otf, err := Parse(f.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := otf.GlyphHMetrics(1); !errors.Is(err, ErrTableMissing) {
		t.Errorf("expected ErrTableMissing, have %v", err)
	}
	if otf.GlyphIndex('A').IsSome() {
		t.Errorf("expected font without cmap to map nothing")
	}
	if otf.Table(T("OS/2")) == nil {
		t.Errorf("expected uninterpreted table OS/2 to be kept")
	}
	if len(otf.Warnings()) != 3 {
		t.Errorf("expected 3 warnings (hmtx, cmap, OS/2), have %v", otf.Warnings())
	}
}

func TestParseMissingRequiredTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	for _, tag := range []string{"head", "hhea", "maxp"} {
		f := metricsTestFont()
		delete(f, tag)
		if _, err := Parse(f.Bytes()); err == nil {
			t.Errorf("expected font without %s to be rejected", tag)
		}
	}
}

func TestParseBrokenFonts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	good := metricsTestFont().Bytes()
	if _, err := Parse(good[:10]); err == nil {
		t.Errorf("expected truncated header to be rejected")
	}
	if _, err := Parse(good[:40]); err == nil {
		t.Errorf("expected truncated table directory to be rejected")
	}
	if _, err := Parse(good[:len(good)-8]); err == nil {
		t.Errorf("expected table exceeding font data to be rejected")
	}
	bogus := bytes.Clone(good)
	copy(bogus, []byte("wOFF"))
	if _, err := Parse(bogus); err == nil {
		t.Errorf("expected unsupported font type to be rejected")
	}
	unsorted := bytes.Clone(good)
	copy(unsorted[12:16], []byte("zzzz")) // first table record now sorts last
	if _, err := Parse(unsorted); err == nil {
		t.Errorf("expected unsorted table records to be rejected")
	}
	f := metricsTestFont()
	f["maxp"] = f["maxp"][:4]
	if _, err := Parse(f.Bytes()); err == nil {
		t.Errorf("expected truncated maxp to be rejected")
	}
}

func TestParseInconsistentMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	f := metricsTestFont()
	f["hmtx"] = f["hmtx"][:13] // tail of left side bearings truncated
	otf, err := Parse(f.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(otf.Errors()) != 1 || !errors.Is(otf.Errors()[0], ErrUnexpectedEOF) {
		t.Errorf("expected hmtx size error, have %v", otf.Errors())
	}
	if _, err := otf.GlyphHMetrics(3); !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("expected lookup in truncated tail to fail, have %v", err)
	}
	if _, err := otf.GlyphHMetrics(1); err != nil {
		t.Errorf("expected lookup of long metric to succeed, have %v", err)
	}
	//
	f = metricsTestFont()
	f["hhea"] = fonttest.HHea(800, -200, 90, 7) // more long metrics than glyphs
	otf, err = Parse(f.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if len(otf.Errors()) != 1 || otf.Errors()[0].Section != "NumberOfHMetrics" {
		t.Errorf("expected NumberOfHMetrics error, have %v", otf.Errors())
	}
}

func TestParseCorruptCMap(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	f := metricsTestFont()
	f["cmap"] = f["cmap"][:30] // group record truncated
	otf, err := Parse(f.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if otf.CMap == nil || otf.CMap.GlyphIndexMap != nil {
		t.Fatalf("expected cmap table without glyph index map")
	}
	if len(otf.Errors()) != 1 || otf.Errors()[0].Severity != SeverityMajor {
		t.Errorf("expected one major cmap error, have %v", otf.Errors())
	}
	if otf.GlyphIndex('A').IsSome() {
		t.Errorf("expected corrupt cmap to map nothing")
	}
	//
	f = metricsTestFont()
	f["cmap"] = fonttest.CMap(1, 0, fonttest.Group{Start: 65, End: 90, GlyphID: 36}) // Macintosh
	otf, err = Parse(f.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if otf.CMap.GlyphIndexMap != nil || len(otf.Errors()) != 1 {
		t.Errorf("expected Macintosh cmap subtable to be ignored, errors = %v", otf.Errors())
	}
}

func TestParseFontForgeCMap(t *testing.T) {
	f := metricsTestFont()
	f["cmap"] = fonttest.CMap(0, 10, fonttest.Group{Start: 0x1f600, End: 0x1f602, GlyphID: 2})
	otf, err := Parse(f.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if g := otf.GlyphIndex(0x1f601); g != Some[GlyphIndex](3) {
		t.Errorf("expected U+1F601 to map to glyph 3, have %v", g)
	}
	if r := otf.CMap.GlyphIndexMap.ReverseLookup(4); r != 0x1f602 {
		t.Errorf("expected glyph 4 to map back to U+1F602, have %U", r)
	}
}

// Go Regular is a TrueType font with several hundred glyphs. We compare our
// hmtx lookups with the advances reported by package sfnt and with the
// table locations found by go-text.
func TestGoRegularHMtx(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	sf, err := sfnt.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	if otf.NumGlyphs() != sf.NumGlyphs() {
		t.Fatalf("expected %d glyphs, have %d", sf.NumGlyphs(), otf.NumGlyphs())
	}
	upem := otf.UnitsPerEm()
	if u := sf.UnitsPerEm(); uint16(u) != upem {
		t.Fatalf("expected %d units per em, have %d", u, upem)
	}
	// with ppem = units per em, sfnt reports advances in font units (as 26.6 values)
	ppem := fixed.Int26_6(upem) << 6
	var buf sfnt.Buffer
	for gid := 0; gid < otf.NumGlyphs(); gid++ {
		m, err := otf.GlyphHMetrics(GlyphIndex(gid))
		if err != nil {
			t.Fatalf("glyph %d: %v", gid, err)
		}
		adv, err := sf.GlyphAdvance(&buf, sfnt.GlyphIndex(gid), ppem, font.HintingNone)
		if err != nil {
			t.Fatalf("sfnt, glyph %d: %v", gid, err)
		}
		if fixed.Int26_6(m.AdvanceWidth)<<6 != adv {
			t.Errorf("glyph %d: expected advance %d, have %d", gid, adv>>6, m.AdvanceWidth)
		}
	}
	raw, err := fontload.RawTables(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw.HMtx, otf.HMtx.Binary()) {
		t.Errorf("expected hmtx bytes to equal those located by go-text")
	}
	if !bytes.Equal(raw.HHea, otf.HHea.Binary()) {
		t.Errorf("expected hhea bytes to equal those located by go-text")
	}
}

func TestConcurrentLookups(t *testing.T) {
	otf, err := Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error)
	for w := 0; w < 4; w++ {
		go func() {
			var err error
			for gid := 0; gid < otf.NumGlyphs() && err == nil; gid++ {
				_, err = otf.GlyphHMetrics(GlyphIndex(gid))
			}
			done <- err
		}()
	}
	for w := 0; w < 4; w++ {
		if err := <-done; err != nil {
			t.Error(err)
		}
	}
}
