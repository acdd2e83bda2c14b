package otmetrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/otmetrics/internal/fonttest"
	"github.com/npillmayer/otmetrics/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

func TestFromBinaryFamilyName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	//
	otf, err := FromBinary(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	sf, err := sfnt.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	expected, _ := sf.Name(nil, sfnt.NameIDFamily)
	family, _ := FamilyName(otf)
	if family != expected {
		t.Errorf("expected family name of Go Regular to be %q, is %q", expected, family)
	}
}

func TestTextAdvance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	//
	otf, err := FromBinary(fonttest.Latin().Bytes())
	if err != nil {
		t.Fatal(err)
	}
	// A=650, B=700, C=700, D=700, unmapped 'x' uses .notdef = 600
	adv, err := TextAdvance(otf, "ABCDx")
	if err != nil {
		t.Fatal(err)
	}
	if adv != sfnt.Units(650+700+700+700+600) {
		t.Errorf("expected advance of 3350, have %d", adv)
	}
	if adv, _ = TextAdvance(otf, ""); adv != 0 {
		t.Errorf("expected empty text to have advance 0, have %d", adv)
	}
}

func TestTextAdvanceMissingMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	//
	font := fonttest.Latin()
	delete(font, "hmtx")
	otf, err := FromBinary(font.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	_, err = TextAdvance(otf, "A")
	if !errors.Is(err, ot.ErrTableMissing) {
		t.Errorf("expected ErrTableMissing, have %v", err)
	}
}

func TestLoadFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "latin.otf")
	if err := os.WriteFile(path, fonttest.Latin().Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	otf, err := LoadFont(path)
	if err != nil {
		t.Fatal(err)
	}
	if otf.NumGlyphs() != 5 {
		t.Errorf("expected 5 glyphs, have %d", otf.NumGlyphs())
	}
	if _, err = LoadFont(filepath.Join(t.TempDir(), "missing.otf")); err == nil {
		t.Errorf("expected loading a missing file to fail")
	}
}
