package ot

import (
	"testing"

	"github.com/npillmayer/otmetrics/internal/fonttest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	tag := Tag(0x636d6170)
	if tag.String() != "cmap" {
		t.Errorf("expected tag 0x636d6170 to be 'cmap', is %s", tag.String())
	}
	tag = MakeTag([]byte("cmap"))
	if tag.String() != "cmap" {
		t.Errorf("expected tag MakeTag(cmap) to be 'cmap', is %s", tag.String())
	}
	tag = T("cmap")
	if tag.String() != "cmap" {
		t.Errorf("expected tag T(cmap) to be 'cmap', is %s", tag.String())
	}
	if T("cvt").String() != "cvt " {
		t.Errorf("expected short tag to be padded with blanks, is %q", T("cvt").String())
	}
	if MakeTag([]byte("hmtx\x00\x00\x00\x12")) != T("hmtx") {
		t.Errorf("expected MakeTag to read the leading 4 bytes only")
	}
}

func TestNilFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	var otf *Font
	if tags := otf.TableTags(); tags != nil {
		t.Errorf("expected nil font to have no table tags, have %v", tags)
	}
	if otf.Table(T("hmtx")) != nil || otf.NumGlyphs() != 0 {
		t.Errorf("expected nil font to have no tables and no glyphs")
	}
}

func TestTableName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	tb := tableBase{}
	tb.name = 0x636d6170
	s := tb.Self().NameTag().String()
	if s != "cmap" {
		t.Errorf("expected table name to be cmap, is %v", s)
	}
	if (TableSelf{}).AsHMtx() != nil || (TableSelf{}).NameTag() != 0 {
		t.Errorf("expected empty table reference to convert to nothing")
	}
	generic := newTable(T("OS/2"), nil, 0, 0)
	if generic.Self().AsCMap() != nil || generic.Self().AsHead() != nil {
		t.Errorf("expected generic table not to convert to concrete tables")
	}
}

// --- Synthetic fonts -------------------------------------------------------

// metricsTestFont is a small font with 5 glyphs, 3 of them with long metrics,
// mapping 'A'…'Z' to glyphs 36…61.
func metricsTestFont() fonttest.Font {
	return fonttest.Font{
		"cmap": fonttest.CMap(3, 10, testGroups([]SequentialMapGroup{latinCaps})...),
		"head": fonttest.Head(1000),
		"hhea": fonttest.HHea(800, -200, 90, 3),
		"hmtx": hmtxBytes(threeMetrics, []int16{40, 50}),
		"maxp": fonttest.MaxP(5),
	}
}
