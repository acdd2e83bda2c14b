package ot

import (
	"errors"
	"fmt"
	"math"
)

// Code comment often will cite passage from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// ---------------------------------------------------------------------------

// Checked arithmetic operations to prevent integer overflow

// checkedMulInt checks for overflow in multiplication of two integers
func checkedMulInt(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > 0 && b > 0 && a > math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if a < 0 && b < 0 && a < math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if (a < 0 && b > 0 && a < math.MinInt/b) || (a > 0 && b < 0 && b < math.MinInt/a) {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	return a * b, nil
}

// checkedAddInt checks for overflow in addition of two integers
func checkedAddInt(a, b int) (int, error) {
	if b > 0 && a > math.MaxInt-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	if b < 0 && a < math.MinInt-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// checkedMulUint32 checks for overflow in multiplication of two uint32 values
func checkedMulUint32(a, b uint32) (uint32, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxUint32/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	return a * b, nil
}

// checkedAddUint32 checks for overflow in addition of two uint32 values
func checkedAddUint32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// checkedSubUint32 checks for underflow in subtraction of two uint32 values
func checkedSubUint32(a, b uint32) (uint32, error) {
	if b > a {
		return 0, fmt.Errorf("integer underflow: %d - %d", a, b)
	}
	return a - b, nil
}

// ---------------------------------------------------------------------------

// Parse parses an OpenType font from a byte slice.
// An ot.Font needs ongoing access to the fonts byte-data after the Parse function returns.
// Its elements are assumed immutable while the ot.Font remains in use.
//
// Parse fails if the table directory is broken or if one of the tables 'head', 'hhea'
// or 'maxp' is missing or malformed. Problems with tables 'hmtx' and 'cmap' do not
// prevent parsing; they are recorded and available from Font.Errors and Font.Warnings.
func Parse(font []byte) (*Font, error) {
	// Create error collector for accumulating errors during parsing
	ec := &errorCollector{}
	src := binarySegm(font)

	// https://www.microsoft.com/typography/otspec/otff.htm: Offset Table is 12 bytes.
	c := makeCursor(font)
	h := FontHeader{}
	var err error
	if h.FontType, err = c.u32(); err == nil {
		h.TableCount, err = c.u16()
	}
	if err != nil {
		ec.addCause(T(""), "Header", "font header truncated", SeverityCritical, 0, err)
		return nil, errFontFormat("font header truncated")
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())

	if !(h.FontType == 0x4f54544f || // OTTO
		h.FontType == 0x00010000 || // TrueType
		h.FontType == 0x74727565) { // true
		ec.addError(T(""), "Header", fmt.Sprintf("font type not supported: %x", h.FontType), SeverityCritical, 0)
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", h.FontType))
	}
	otf := &Font{Header: &h, tables: make(map[Tag]Table)}
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.

	// Check for arithmetic overflow in table record size calculation
	tableRecordsSize, err := checkedMulInt(16, int(h.TableCount))
	if err != nil {
		ec.addError(T(""), "TableRecords", fmt.Sprintf("table count too large: %v", err), SeverityCritical, 12)
		return nil, errFontFormat(fmt.Sprintf("table count too large: %v", err))
	}

	buf, err := src.view(12, tableRecordsSize)
	if err != nil {
		ec.addCause(T(""), "TableRecords", "table record entries", SeverityCritical, 12, err)
		return nil, errFontFormat("table record entries")
	}
	for b, prevTag := buf, Tag(0); len(b) > 0; b = b[16:] {
		tag := MakeTag(b)
		if tag < prevTag {
			ec.addError(T(""), "TableRecords", "table order", SeverityCritical, 12)
			return nil, errFontFormat("table order")
		}
		prevTag = tag
		off, size := u32(b[8:12]), u32(b[12:16])
		if off&3 != 0 { // ignore checksums, but "all tables must begin on four byte boundries".
			ec.addError(tag, "Offset", "invalid table offset", SeverityCritical, off)
			return nil, errFontFormat("invalid table offset")
		}

		// Validate table bounds before slicing to prevent panic
		tableEnd, err := checkedAddUint32(off, size)
		if err != nil {
			ec.addError(tag, "Size", fmt.Sprintf("size calculation overflow: %v", err), SeverityCritical, off)
			return nil, errFontFormat(fmt.Sprintf("table %s: size calculation overflow: %v", tag, err))
		}
		if off > uint32(len(src)) || tableEnd > uint32(len(src)) {
			ec.addError(tag, "Bounds", fmt.Sprintf("bounds [%d:%d] exceed font size %d", off, tableEnd, len(src)), SeverityCritical, off)
			return nil, errFontFormat(fmt.Sprintf("table %s: bounds [%d:%d] exceed font size %d",
				tag, off, tableEnd, len(src)))
		}

		table, err := parseTable(tag, src[off:tableEnd], off, size, ec)
		if err != nil {
			return nil, err
		}
		if table != nil {
			otf.tables[tag] = table
		}
	}
	if err := extractMetricsInfo(otf, ec); err != nil {
		return nil, err
	}

	// Transfer accumulated errors and warnings to the Font
	otf.parseErrors = ec.errors
	otf.parseWarnings = ec.warnings

	return otf, nil
}

// RequiredTables are the tables a font must contain to be usable with this package.
var RequiredTables = []string{
	"head", "hhea", "maxp",
}

// MetricsTables are the tables which are looked up. Fonts without them parse
// fine, but lookups will come up empty.
var MetricsTables = []string{
	"hmtx", "cmap",
}

// Consistency check and shortcuts to essential tables.
func extractMetricsInfo(otf *Font, ec *errorCollector) error {
	for _, tag := range RequiredTables {
		h := otf.tables[T(tag)]
		if h == nil {
			ec.addError(T(tag), "Missing", "missing required table", SeverityCritical, 0)
			return errFontFormat("missing required table " + tag)
		}
	}
	otf.Head = otf.tables[T("head")].Self().AsHead()
	otf.HHea = otf.tables[T("hhea")].Self().AsHHea()
	otf.MaxP = otf.tables[T("maxp")].Self().AsMaxP()
	for _, tag := range MetricsTables {
		if otf.tables[T(tag)] == nil {
			tracer().Infof("font has no %s table", tag)
			ec.addWarning(T(tag), "table missing, lookups will be empty", 0)
		}
	}
	if mx := otf.tables[T("hmtx")]; mx != nil {
		otf.HMtx = mx.Self().AsHMtx()
		otf.HMtx.NumberOfHMetrics = otf.HHea.NumberOfHMetrics
		otf.HMtx.numGlyphs = otf.MaxP.NumGlyphs
	}
	if cm := otf.tables[T("cmap")]; cm != nil {
		otf.CMap = cm.Self().AsCMap()
	}
	validateCrossTableConsistency(otf, ec)
	return nil
}

// validateCrossTableConsistency performs cross-table validation to ensure
// internal consistency between related tables. Inconsistencies are recorded,
// but do not invalidate the font: lookups check their parameters anyway.
func validateCrossTableConsistency(otf *Font, ec *errorCollector) {
	numGlyphs := int(otf.MaxP.NumGlyphs)
	nhm := int(otf.HHea.NumberOfHMetrics)
	tracer().Debugf("Cross-table validation: maxp.NumGlyphs = %d", numGlyphs)

	if nhm == 0 {
		ec.addError(T("hhea"), "NumberOfHMetrics", "value is 0, font has no horizontal metrics",
			SeverityMajor, 0)
	}
	// NumberOfHMetrics must not exceed numGlyphs
	if nhm > numGlyphs {
		ec.addError(T("hhea"), "NumberOfHMetrics",
			fmt.Sprintf("value %d exceeds maxp.NumGlyphs %d", nhm, numGlyphs),
			SeverityMajor, 0)
		return
	}
	if otf.HMtx == nil {
		return
	}
	// hmtx table size validation
	// hmtx contains NumberOfHMetrics longHorMetrics (4 bytes each) +
	// (numGlyphs - NumberOfHMetrics) leftSideBearings (2 bytes each)
	longMetricsSize, err := checkedMulInt(nhm, 4)
	if err != nil {
		ec.addCause(T("hmtx"), "Size", "longMetrics size overflow", SeverityCritical, 0, err)
		return
	}
	lsbSize, err := checkedMulInt(numGlyphs-nhm, 2)
	if err != nil {
		ec.addCause(T("hmtx"), "Size", "leftSideBearings size overflow", SeverityCritical, 0, err)
		return
	}
	requiredSize, err := checkedAddInt(longMetricsSize, lsbSize)
	if err != nil {
		ec.addCause(T("hmtx"), "Size", "total size overflow", SeverityCritical, 0, err)
		return
	}
	if int(otf.HMtx.length) < requiredSize {
		ec.addCause(T("hmtx"), "Size",
			fmt.Sprintf("table size %d insufficient for %d glyphs (need %d)", otf.HMtx.length, numGlyphs, requiredSize),
			SeverityMajor, otf.HMtx.offset, ErrUnexpectedEOF)
	}
}

func parseTable(t Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	switch t {
	case T("cmap"):
		return parseCMap(t, b, offset, size, ec)
	case T("head"):
		return parseHead(t, b, offset, size, ec)
	case T("hhea"):
		return parseHHea(t, b, offset, size, ec)
	case T("hmtx"):
		return parseHMtx(t, b, offset, size, ec)
	case T("maxp"):
		return parseMaxP(t, b, offset, size, ec)
	}
	tracer().Debugf("font contains table (%s), will not be interpreted", t)
	// Record as minor warning - not parsed but not a problem
	ec.addWarning(t, "table not interpreted", offset)
	return newTable(t, b, offset, size), nil
}

// --- Head table ------------------------------------------------------------

func parseHead(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < 54 {
		ec.addError(tag, "Size", fmt.Sprintf("head table too small: %d bytes (need 54)", size), SeverityCritical, offset)
		return nil, errFontFormat("size of head table")
	}
	t := newHeadTable(tag, b, offset, size)
	t.Flags, _ = b.u16(16)      // flags
	t.UnitsPerEm, _ = b.u16(18) // units per em
	if t.UnitsPerEm < 16 || t.UnitsPerEm > 16384 {
		ec.addError(tag, "UnitsPerEm", fmt.Sprintf("value %d out of range 16…16384", t.UnitsPerEm),
			SeverityMinor, offset+18)
	}
	return t, nil
}

// --- CMap table ------------------------------------------------------------

// This table defines mapping of character codes to a default glyph index. Different
// subtables may be defined that each contain mappings for different character encoding
// schemes. The table header indicates the character encodings for which subtables are
// present.
//
// From the OpenType documentation: “Apart from a format 14 subtable, all other subtables
// are exclusive: applications should select and use one and ignore the others. […]
// If a font includes Unicode subtables for both 16-bit encoding (typically, format 4)
// and also 32-bit encoding (formats 10 or 12), then the characters supported by the
// subtable for 32-bit encoding should be a superset of the characters supported by
// the subtable for 16-bit encoding, and the 32-bit encoding should be used by
// applications.”
//
// A cmap table without a supported subtable is kept, but its GlyphIndexMap is nil.
func parseCMap(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	t := newCMapTable(tag, b, offset, size)
	n, err := b.u16(2) // number of sub-tables
	if err != nil {
		ec.addCause(tag, "Header", "cmap header truncated", SeverityMajor, offset, err)
		return t, nil
	}
	tracer().Debugf("font cmap has %d sub-tables in %d|%d bytes", n, len(b), size)
	const headerSize, entrySize = 4, 8

	// Check for overflow in cmap size calculation
	entriesSize, err := checkedMulUint32(entrySize, uint32(n))
	if err != nil {
		ec.addCause(tag, "Header", "entries size overflow", SeverityMajor, offset, err)
		return t, nil
	}
	requiredSize, err := checkedAddUint32(headerSize, entriesSize)
	if err != nil {
		ec.addCause(tag, "Header", "table size overflow", SeverityMajor, offset, err)
		return t, nil
	}
	if size < requiredSize {
		ec.addError(tag, "Header", fmt.Sprintf("table size %d < required %d", size, requiredSize), SeverityMajor, offset)
		return t, nil
	}
	var enc encodingRecord
	for i := 0; i < int(n); i++ {
		rec, _ := b.view(headerSize+entrySize*i, entrySize)
		pid, psid := u16(rec), u16(rec[2:])
		width := platformEncodingWidth(pid, psid)
		if width <= enc.width {
			continue
		}
		suboffset := u32(rec[4:])
		format, err := b.u16(int(suboffset))
		if err != nil || suboffset > math.MaxInt32 {
			tracer().Infof("cmap sub-table cannot be parsed")
			ec.addWarning(tag, fmt.Sprintf("sub-table %d (platform=%d, encoding=%d) cannot be parsed", i, pid, psid), offset)
			continue
		}
		tracer().Debugf("cmap table contains subtable with format %d", format)
		if supportedCmapFormat(format, pid, psid) {
			enc = encodingRecord{
				platformId: pid,
				encodingId: psid,
				offset:     suboffset,
				format:     format,
				width:      width,
			}
		}
	}
	if enc.width == 0 {
		ec.addError(tag, "Format", "no supported cmap format found", SeverityMajor, offset)
		return t, nil
	}
	gim, err := makeGlyphIndex(b, enc)
	if err != nil {
		ec.addCause(tag, fmt.Sprintf("Format%d", enc.format), "cmap subtable corrupt",
			SeverityMajor, offset+enc.offset, err)
		return t, nil
	}
	t.GlyphIndexMap = gim
	return t, nil
}

type encodingRecord struct {
	platformId uint16
	encodingId uint16
	offset     uint32 // offset of the subtable from the start of the cmap table
	format     uint16
	width      int // encoding width in bytes
}

// Dispatcher to create the correct implementation of a CMapGlyphIndex from a given format.
func makeGlyphIndex(b binarySegm, which encodingRecord) (CMapGlyphIndex, error) {
	// skip the format field, sub-table data starts with 'reserved'
	subtable := b[which.offset+2:]
	switch which.format {
	case 12:
		return makeGlyphIndexFormat12(subtable)
	}
	return nil, errors.New("unsupported cmap subtable format")
}

// --- MaxP table ------------------------------------------------------------

// This table establishes the memory requirements for this font. Fonts with CFF data
// must use Version 0.5 of this table, specifying only the numGlyphs field. Fonts
// with TrueType outlines must use Version 1.0 of this table, where all data is required.
func parseMaxP(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < 6 {
		ec.addError(tag, "Size", fmt.Sprintf("maxp table too small: %d bytes (need 6)", size), SeverityCritical, offset)
		return nil, errFontFormat("maxp table incomplete")
	}
	t := newMaxPTable(tag, b, offset, size)
	t.NumGlyphs, _ = b.u16(4)
	return t, nil
}

// --- HHea table ------------------------------------------------------------

// This table contains information for horizontal layout. Most importantly, it
// tells us how many long horizontal metrics records table 'hmtx' contains.
func parseHHea(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	tracer().Debugf("HHea table has size %d", size)
	if size < 36 {
		ec.addError(tag, "Size", fmt.Sprintf("hhea table too small: %d bytes (need 36)", size), SeverityCritical, offset)
		return nil, errFontFormat("hhea table incomplete")
	}
	t := newHHeaTable(tag, b, offset, size)
	c := makeCursor(b)
	_ = c.skip32() // version 1.0
	t.Ascender, _ = c.i16()
	t.Descender, _ = c.i16()
	t.LineGap, _ = c.i16()
	t.AdvanceWidthMax, _ = c.u16()
	t.MinLeftSideBearing, _ = c.i16()
	t.MinRightSideBearing, _ = c.i16()
	t.XMaxExtent, _ = c.i16()
	t.NumberOfHMetrics, _ = b.u16(34)
	return t, nil
}

// --- HMtx table ------------------------------------------------------------

// Dependencies (taken from Apple Developer page about TrueType):
// The value of the numOfLongHorMetrics field is found in the 'hhea' (Horizontal Header)
// table. Fonts that lack an 'hhea' table must not have an 'hmtx' table.
// Other tables may have information duplicating data contained in the 'hmtx' table.
// For example, glyph metrics can also be found in the 'hdmx' (Horizontal Device Metrics)
// table and 'bloc' (Bitmap Location) table. There is naturally no requirement that
// the ideal metrics of the 'hmtx' table be perfectly consistent with the device metrics
// found in other tables, but care should be taken that they are not significantly
// inconsistent.
//
// NumberOfHMetrics and the glyph count are filled in after all tables are known.
func parseHMtx(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size == 0 {
		ec.addWarning(tag, "empty hmtx table", offset)
	}
	return newHMtxTable(tag, b, offset, size), nil
}
