package main

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/otmetrics/internal/fontload"
	"github.com/npillmayer/otmetrics/ot"
	"github.com/npillmayer/otmetrics/otquery"
	"github.com/thatisuday/commando"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

func runMetricsCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	otf, sf := mustLoadFont(fontPath)
	glyphs, err := parseGlyphList(args["glyphs"].Value)
	if err != nil {
		fatalf("%v", err)
	}
	if len(glyphs) == 0 {
		for g := 0; g < otf.NumGlyphs(); g++ {
			glyphs = append(glyphs, ot.GlyphIndex(g))
		}
	}
	for _, gid := range glyphs {
		m, err := otquery.GlyphMetrics(otf, gid)
		if err != nil {
			fmt.Printf("%5d  error: %v\n", gid, err)
			continue
		}
		cp := ""
		if r := otquery.CodePointForGlyph(otf, gid); r != 0 {
			cp = fmt.Sprintf("%#U", r)
		}
		fmt.Printf("%5d  advance=%-6d lsb=%-6d %s\n", gid, m.Advance, m.LSB, cp)
	}
	if !mustFlagBool(flags["compare"], "compare") {
		return
	}
	if err := compareRawTables(otf, sf.Binary); err != nil {
		fatalf("%v", err)
	}
	mismatches, err := compareAdvances(otf, sf.SFNT, glyphs)
	if err != nil {
		fatalf("%v", err)
	}
	for _, m := range mismatches {
		fmt.Printf("mismatch: %s\n", m)
	}
	fmt.Printf("Compared %d glyphs: %d mismatches\n", len(glyphs), len(mismatches))
}

type advanceMismatch struct {
	gid      ot.GlyphIndex
	hmtx     sfnt.Units
	expected sfnt.Units
}

func (m advanceMismatch) String() string {
	return fmt.Sprintf("glyph %d: hmtx advance=%d, sfnt advance=%d", m.gid, m.hmtx, m.expected)
}

// compareAdvances checks the hmtx lookups for glyphs against the advances
// reported by package sfnt. A scale of units-per-em pixels lets sfnt report
// advances in font units.
func compareAdvances(otf *ot.Font, sf *sfnt.Font, glyphs []ot.GlyphIndex) ([]advanceMismatch, error) {
	if otf == nil || sf == nil {
		return nil, errors.New("no font to compare")
	}
	ppem := fixed.I(int(sf.UnitsPerEm()))
	var buf sfnt.Buffer
	var mismatches []advanceMismatch
	for _, gid := range glyphs {
		m, err := otquery.GlyphMetrics(otf, gid)
		if err != nil {
			continue
		}
		adv, err := sf.GlyphAdvance(&buf, sfnt.GlyphIndex(gid), ppem, font.HintingNone)
		if err != nil {
			return mismatches, fmt.Errorf("sfnt advance for glyph %d: %w", gid, err)
		}
		expected := sfnt.Units(adv.Round())
		if expected != m.Advance {
			mismatches = append(mismatches, advanceMismatch{gid: gid, hmtx: m.Advance, expected: expected})
		}
	}
	return mismatches, nil
}

// compareRawTables checks that the table directory parsed by package ot
// locates the metrics tables at the same bytes as go-text's loader does.
func compareRawTables(otf *ot.Font, fbytes []byte) error {
	raw, err := fontload.RawTables(fbytes)
	if err != nil {
		return err
	}
	for _, t := range []struct {
		tag string
		raw []byte
	}{
		{"head", raw.Head}, {"hhea", raw.HHea}, {"maxp", raw.MaxP},
		{"hmtx", raw.HMtx}, {"cmap", raw.CMap},
	} {
		table := otf.Table(ot.T(t.tag))
		if table == nil {
			if t.raw != nil {
				return fmt.Errorf("table %s not located", t.tag)
			}
			continue
		}
		if !bytes.Equal(table.Binary(), t.raw) {
			return fmt.Errorf("table %s differs from go-text's view", t.tag)
		}
	}
	return nil
}

func runCMapCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	otf, _ := mustLoadFont(fontPath)
	if mustFlagBool(flags["groups"], "groups") {
		groups := otf.CMap.Groups()
		fmt.Printf("Groups (%d):\n", groups.Len())
		for i, g := range groups.All() {
			fmt.Printf("%5d  %#U..%#U -> %d\n", i, rune(g.StartCharCode), rune(g.EndCharCode), g.StartGlyphID)
		}
	}
	input, err := parseMappingInput(args["text"], flags["codepoints"])
	if err != nil {
		fatalf("%v", err)
	}
	for _, r := range input {
		fmt.Println(formatMapping(otf, r))
	}
}

func formatMapping(otf *ot.Font, r rune) string {
	gid, ok := otf.GlyphIndex(r).Unwrap()
	if !ok {
		return fmt.Sprintf("%#U -> (none)", r)
	}
	m, err := otquery.GlyphMetrics(otf, gid)
	if err != nil {
		return fmt.Sprintf("%#U -> %d", r, gid)
	}
	return fmt.Sprintf("%#U -> %d advance=%d", r, gid, m.Advance)
}
