// Package fonttest builds small synthetic SFNT fonts for tests.
//
// Only the tables needed for horizontal metrics and character mapping are
// supported. Table contents are produced byte by byte, so tests may truncate
// or corrupt them at will.
package fonttest

import (
	"encoding/binary"
	"slices"
)

// Font collects the tables of a synthetic font, keyed by 4-letter table tag.
type Font map[string][]byte

// Bytes produces the binary font: an offset table, table records sorted by tag
// and table data aligned to 4 bytes.
func (f Font) Bytes() []byte {
	tags := make([]string, 0, len(f))
	for tag := range f {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	var b []byte
	b = binary.BigEndian.AppendUint32(b, 0x00010000)
	b = binary.BigEndian.AppendUint16(b, uint16(len(tags)))
	b = append(b, 0, 0, 0, 0, 0, 0) // searchRange, entrySelector, rangeShift
	offset := 12 + 16*len(tags)
	var data []byte
	for _, tag := range tags {
		table := f[tag]
		b = append(b, []byte((tag + "    ")[:4])...)
		b = binary.BigEndian.AppendUint32(b, 0) // checksum
		b = binary.BigEndian.AppendUint32(b, uint32(offset+len(data)))
		b = binary.BigEndian.AppendUint32(b, uint32(len(table)))
		data = append(data, table...)
		for len(data)%4 != 0 {
			data = append(data, 0)
		}
	}
	return append(b, data...)
}

// Head produces a 'head' table.
func Head(unitsPerEm uint16) []byte {
	b := make([]byte, 54)
	binary.BigEndian.PutUint32(b, 0x00010000)
	binary.BigEndian.PutUint32(b[12:], 0x5f0f3cf5) // magic number
	binary.BigEndian.PutUint16(b[18:], unitsPerEm)
	return b
}

// HHea produces an 'hhea' table.
func HHea(ascender, descender, lineGap int16, numberOfHMetrics uint16) []byte {
	b := make([]byte, 36)
	binary.BigEndian.PutUint32(b, 0x00010000)
	binary.BigEndian.PutUint16(b[4:], uint16(ascender))
	binary.BigEndian.PutUint16(b[6:], uint16(descender))
	binary.BigEndian.PutUint16(b[8:], uint16(lineGap))
	binary.BigEndian.PutUint16(b[34:], numberOfHMetrics)
	return b
}

// MaxP produces a version 0.5 'maxp' table.
func MaxP(numGlyphs uint16) []byte {
	b := make([]byte, 6)
	binary.BigEndian.PutUint32(b, 0x00005000)
	binary.BigEndian.PutUint16(b[4:], numGlyphs)
	return b
}

// Metric is a long horizontal metric record.
type Metric struct {
	Advance uint16
	LSB     int16
}

// HMtx produces an 'hmtx' table from long metrics and trailing left side bearings.
func HMtx(metrics []Metric, lsbs []int16) []byte {
	var b []byte
	for _, m := range metrics {
		b = binary.BigEndian.AppendUint16(b, m.Advance)
		b = binary.BigEndian.AppendUint16(b, uint16(m.LSB))
	}
	for _, lsb := range lsbs {
		b = binary.BigEndian.AppendUint16(b, uint16(lsb))
	}
	return b
}

// Group is a sequential map group of a cmap format 12 subtable.
type Group struct {
	Start, End, GlyphID uint32
}

// Format12 produces a cmap format 12 subtable, omitting the leading format field.
func Format12(groups ...Group) []byte {
	var b []byte
	b = binary.BigEndian.AppendUint16(b, 0) // reserved
	b = binary.BigEndian.AppendUint32(b, uint32(16+12*len(groups)))
	b = binary.BigEndian.AppendUint32(b, 0) // language
	b = binary.BigEndian.AppendUint32(b, uint32(len(groups)))
	for _, g := range groups {
		b = binary.BigEndian.AppendUint32(b, g.Start)
		b = binary.BigEndian.AppendUint32(b, g.End)
		b = binary.BigEndian.AppendUint32(b, g.GlyphID)
	}
	return b
}

// CMap produces a 'cmap' table with a single encoding record, pointing to a
// format 12 subtable.
func CMap(platformID, encodingID uint16, groups ...Group) []byte {
	var b []byte
	b = binary.BigEndian.AppendUint16(b, 0) // version
	b = binary.BigEndian.AppendUint16(b, 1) // numTables
	b = binary.BigEndian.AppendUint16(b, platformID)
	b = binary.BigEndian.AppendUint16(b, encodingID)
	b = binary.BigEndian.AppendUint32(b, 12)
	b = binary.BigEndian.AppendUint16(b, 12) // format
	return append(b, Format12(groups...)...)
}

// Latin is a font with 5 glyphs, 3 of them with long metrics and
// two sharing the last advance. 'A'…'D' map to glyphs 1…4.
//
//	glyph   0    1    2    3    4
//	advance 600  650  700  700  700
//	lsb     10   20   30   40   50
func Latin() Font {
	return Font{
		"cmap": CMap(3, 10, Group{Start: 'A', End: 'D', GlyphID: 1}),
		"head": Head(1000),
		"hhea": HHea(800, -200, 90, 3),
		"hmtx": HMtx([]Metric{{600, 10}, {650, 20}, {700, 30}}, []int16{40, 50}),
		"maxp": MaxP(5),
	}
}
