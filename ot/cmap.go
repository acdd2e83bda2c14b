package ot

import "fmt"

// CMapTable represents an OpenType cmap table, i.e. the table to receive glyphs
// from code-points.
//
// See https://docs.microsoft.com/de-de/typography/opentype/spec/cmap
//
// Consulting the cmap table is a very frequent operation on fonts. A cmap table
// may contain more than one lookup table, but we will only use the most appropriate
// one. Its records are read from the font binary for every lookup; nothing is
// copied out in advance.
type CMapTable struct {
	tableBase
	GlyphIndexMap CMapGlyphIndex // nil if no supported subtable is present
}

func newCMapTable(tag Tag, b binarySegm, offset, size uint32) *CMapTable {
	t := &CMapTable{}
	base := tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.tableBase = base
	t.self = t
	return t
}

// platformEncodingWidth returns the number of bytes per character assumed by
// the given Platform ID and Platform Specific ID.
//
// Old fonts, from when Unicode meant the Basic Multilingual Plane (BMP),
// assume that 2 bytes per character is sufficient.
//
// Recent fonts naturally support the full range of Unicode code points, which
// can take up to 4 bytes per character.
func platformEncodingWidth(pid, psid uint16) int {
	switch pid {
	case 0: // Unicode platform
		switch psid {
		case 3: // Unicode BMB
			return 2
		case 4, 10: // Unicode full  (include 10 from FontForge bug)
			return 4
		}
	case 3: // Windows platform
		switch psid {
		case 1: // Unicode BMP
			return 2
		case 10: // Unicode full
			return 4
		}
	}
	return 0 // width 0 will never get selected
}

// We only interpret the following plaform/encoding/format combinations:
//
//	0 (Unicode)  4    12  Unicode full  (10 from FontForge, error)
//	3 (Win)      10   12  Unicode full
//
// Note that FontForge may generate a bogus Platform Specific ID (value 10)
// for the Unicode Platform ID (value 0). See
// https://github.com/fontforge/fontforge/issues/2728
func supportedCmapFormat(format, pid, psid uint16) bool {
	tracer().Debugf("checking supported cmap format (%d | %d | %d)", pid, psid, format)
	return (pid == 0 && (psid == 4 || psid == 10) && format == 12) ||
		(pid == 3 && psid == 10 && format == 12)
}

// CMapGlyphIndex represents a CMap table index to receive a glyph index from
// a code-point.
type CMapGlyphIndex interface {
	Lookup(rune) GlyphIndex        // central activiy of CMap
	ReverseLookup(GlyphIndex) rune // this is non-standard, but helps with tests
}

// --- Format 12 -------------------------------------------------------------

// SequentialMapGroup is a record of a format 12 cmap subtable.
// It specifies a character range and the starting glyph ID mapped from the first
// character. Glyph IDs for subsequent characters follow in sequence.
type SequentialMapGroup struct {
	StartCharCode uint32 // First character code in this group
	EndCharCode   uint32 // Last character code in this group
	StartGlyphID  uint32 // Glyph index corresponding to the starting character code
}

var mapGroupCodec = recordCodec[SequentialMapGroup]{
	size: 12,
	decode: func(b []byte) SequentialMapGroup {
		return SequentialMapGroup{
			StartCharCode: u32(b),
			EndCharCode:   u32(b[4:]),
			StartGlyphID:  u32(b[8:]),
		}
	},
}

// glyphFor returns the glyph for code-point c, which must be covered by group g.
// The result is None if the glyph ID does not fit into 16 bits.
func (g SequentialMapGroup) glyphFor(c uint32) Option[GlyphIndex] {
	delta, err := checkedSubUint32(c, g.StartCharCode)
	if err != nil {
		return None[GlyphIndex]()
	}
	id, err := checkedAddUint32(g.StartGlyphID, delta)
	if err != nil || id > 0xffff {
		return None[GlyphIndex]()
	}
	return Some(GlyphIndex(id))
}

func (g SequentialMapGroup) covers(c uint32) bool {
	return g.StartCharCode <= c && c <= g.EndCharCode
}

// LookupGlyphForCodePoint maps a code-point to a glyph, using a cmap subtable
// in format 12 (segmented coverage). subtable holds the subtable's bytes
// following its format field, i.e. starting with the reserved field:
//
//	uint16  reserved
//	uint32  length
//	uint32  language
//	uint32  numGroups
//	SequentialMapGroup groups[numGroups]
//
// Groups are consulted in stored order and the first group covering codePoint
// is used. The result is None if no group covers codePoint, if the resulting
// glyph ID is not representable with 16 bits, or if the subtable is truncated.
func LookupGlyphForCodePoint(subtable []byte, codePoint uint32) Option[GlyphIndex] {
	g, err := lookupFormat12(subtable, codePoint)
	if err != nil {
		tracer().Debugf("cmap format 12: %v", err)
		return None[GlyphIndex]()
	}
	return g
}

// lookupFormat12 is LookupGlyphForCodePoint, but reports truncated subtables.
func lookupFormat12(b []byte, codePoint uint32) (Option[GlyphIndex], error) {
	groups, err := format12Groups(b)
	if err != nil {
		return None[GlyphIndex](), err
	}
	for _, g := range groups.All() {
		if g.covers(codePoint) {
			return g.glyphFor(codePoint), nil
		}
	}
	return None[GlyphIndex](), nil
}

// format12Groups returns a view on the map groups of a format 12 subtable,
// starting after the format field.
func format12Groups(b []byte) (RecordArray[SequentialMapGroup], error) {
	c := makeCursor(b)
	if err := c.skip16(); err != nil { // reserved
		return RecordArray[SequentialMapGroup]{}, err
	}
	if err := c.skip32(); err != nil { // length
		return RecordArray[SequentialMapGroup]{}, err
	}
	if err := c.skip32(); err != nil { // language
		return RecordArray[SequentialMapGroup]{}, err
	}
	n, err := c.u32()
	if err != nil {
		return RecordArray[SequentialMapGroup]{}, err
	}
	groups, err := readArray32(&c, n, mapGroupCodec)
	if err != nil {
		return RecordArray[SequentialMapGroup]{}, fmt.Errorf("cmap format 12 groups: %w", err)
	}
	return groups, nil
}

// format12GlyphIndex is a CMapGlyphIndex on top of the bytes of a format 12 subtable.
// Lookups read the subtable's group records in place.
type format12GlyphIndex struct {
	subtable binarySegm // starts after the format field
	groups   RecordArray[SequentialMapGroup]
}

// makeGlyphIndexFormat12 checks the structure of a format 12 subtable once, such
// that subsequent lookups will not encounter truncated data.
func makeGlyphIndexFormat12(b binarySegm) (format12GlyphIndex, error) {
	groups, err := format12Groups(b)
	if err != nil {
		return format12GlyphIndex{}, err
	}
	return format12GlyphIndex{subtable: b, groups: groups}, nil
}

// Lookup returns the glyph for code-point r, or 0 (.notdef) if r is not mapped.
func (f12 format12GlyphIndex) Lookup(r rune) GlyphIndex {
	if r < 0 {
		return 0
	}
	c := uint32(r)
	for _, g := range f12.groups.All() {
		if g.covers(c) {
			return g.glyphFor(c).Or(0)
		}
	}
	return 0
}

// ReverseLookup retrieves a code-point for a given glyph. The Cmap tables do not
// support this operation, thus this operation is inefficient (linear in the
// number of groups). However, for testing and debugging purposes it is often useful.
func (f12 format12GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	id := uint32(gid)
	for _, g := range f12.groups.All() {
		if id < g.StartGlyphID || g.EndCharCode < g.StartCharCode {
			continue
		}
		delta := id - g.StartGlyphID
		if delta > g.EndCharCode-g.StartCharCode {
			continue
		}
		c := g.StartCharCode + delta
		if f12.groupFor(c) != g { // an earlier group shadows this one
			continue
		}
		return rune(c)
	}
	return 0
}

// groupFor returns the first group covering c.
func (f12 format12GlyphIndex) groupFor(c uint32) SequentialMapGroup {
	for _, g := range f12.groups.All() {
		if g.covers(c) {
			return g
		}
	}
	return SequentialMapGroup{}
}

// GroupCount returns the number of map groups of the cmap subtable in use,
// or 0 if the glyph index map is not of format 12.
func (t *CMapTable) GroupCount() int {
	if t == nil {
		return 0
	}
	if f12, ok := t.GlyphIndexMap.(format12GlyphIndex); ok {
		return f12.groups.Len()
	}
	return 0
}

// Groups returns a view on the map groups of the cmap subtable in use.
// Clients may use it to enumerate the character ranges covered by the font.
func (t *CMapTable) Groups() RecordArray[SequentialMapGroup] {
	if t == nil {
		return RecordArray[SequentialMapGroup]{}
	}
	if f12, ok := t.GlyphIndexMap.(format12GlyphIndex); ok {
		return f12.groups
	}
	return RecordArray[SequentialMapGroup]{}
}

// GlyphForCodePoint returns the glyph for a code-point, if it is mapped.
func (t *CMapTable) GlyphForCodePoint(codePoint uint32) Option[GlyphIndex] {
	if t == nil {
		return None[GlyphIndex]()
	}
	f12, ok := t.GlyphIndexMap.(format12GlyphIndex)
	if !ok {
		return None[GlyphIndex]()
	}
	return LookupGlyphForCodePoint(f12.subtable, codePoint)
}
