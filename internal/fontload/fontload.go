// Package fontload loads font files for tests and tools.
//
// Besides loading, it locates the raw bytes of the metrics tables with
// go-text's OpenType loader, which serves as an independent table directory
// parser to compare against.
package fontload

import (
	"bytes"
	"fmt"
	"os"

	gotext "github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// ScalableFont is a parsed scalable font with original bytes and SFNT view.
type ScalableFont struct {
	Fontname string
	Filepath string
	Binary   []byte
	SFNT     *sfnt.Font
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF or OTF) from memory.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, err
	}
	if f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull); err != nil {
		f.Fontname = "<unnamed>"
	}
	return f, nil
}

// Tables holds the raw bytes of the tables relevant for horizontal metrics
// and character mapping. Missing tables are nil.
type Tables struct {
	Head, HHea, MaxP, HMtx, CMap []byte
}

// RawTables locates the metrics tables of a font binary.
// Tables 'head', 'hhea' and 'maxp' are required.
func RawTables(fbytes []byte) (Tables, error) {
	ld, err := gotext.NewLoader(bytes.NewReader(fbytes))
	if err != nil {
		return Tables{}, err
	}
	var tables Tables
	for _, t := range []struct {
		tag      string
		dest     *[]byte
		required bool
	}{
		{"head", &tables.Head, true},
		{"hhea", &tables.HHea, true},
		{"maxp", &tables.MaxP, true},
		{"hmtx", &tables.HMtx, false},
		{"cmap", &tables.CMap, false},
	} {
		b, err := ld.RawTable(gotext.MustNewTag(t.tag))
		if err != nil {
			if t.required {
				return Tables{}, fmt.Errorf("font table %s: %w", t.tag, err)
			}
			continue
		}
		*t.dest = b
	}
	return tables, nil
}
