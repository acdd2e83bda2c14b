package ot

import "fmt"

// --- HMtx table ------------------------------------------------------------

// HMetricRecord is one long horizontal metric record from table hmtx.
type HMetricRecord struct {
	AdvanceWidth    uint16
	LeftSideBearing int16
}

// longHorMetric records are 4 bytes: uint16 advanceWidth, int16 lsb.
var hMetricCodec = recordCodec[HMetricRecord]{
	size: 4,
	decode: func(b []byte) HMetricRecord {
		return HMetricRecord{
			AdvanceWidth:    u16(b),
			LeftSideBearing: i16(b[2:]),
		}
	},
}

// LookupHorizontalMetrics returns advance width and left side bearing for glyph gid
// from the binary data of an 'hmtx' table.
//
// numberOfHMetrics is taken from table 'hhea', numGlyphs from table 'maxp'.
// From the OpenType documentation: “If the numberOfHMetrics is less than the total number of glyphs,
// then the hMetrics array is followed by an array for the left side bearing values
// of the remaining glyphs. […] As an optimization, the number of records can be less
// than the number of glyphs, in which case the advance width value of the last record
// applies to all remaining glyph IDs.”
//
// LookupHorizontalMetrics decodes exactly the records it needs. Errors are
// ErrNoHorizontalMetrics if numberOfHMetrics is 0 or inconsistent with numGlyphs,
// ErrInvalidGlyphID if gid ≥ numGlyphs, and ErrUnexpectedEOF if hmtx is truncated.
func LookupHorizontalMetrics(hmtx []byte, numberOfHMetrics, numGlyphs uint16, gid GlyphIndex) (HMetricRecord, error) {
	if numberOfHMetrics == 0 {
		return HMetricRecord{}, ErrNoHorizontalMetrics
	}
	if uint16(gid) >= numGlyphs {
		return HMetricRecord{}, fmt.Errorf("%w: glyph %d, font has %d glyphs", ErrInvalidGlyphID, gid, numGlyphs)
	}
	c := makeCursor(hmtx)
	longMetrics, err := readArray(&c, int(numberOfHMetrics), hMetricCodec)
	if err != nil {
		return HMetricRecord{}, fmt.Errorf("hmtx long metrics: %w", err)
	}
	if m, ok := longMetrics.Get(int(gid)); ok {
		return m, nil
	}
	if numGlyphs < numberOfHMetrics {
		tracer().Debugf("hmtx: numberOfHMetrics %d exceeds glyph count %d", numberOfHMetrics, numGlyphs)
		return HMetricRecord{}, ErrNoHorizontalMetrics
	}
	lsbs, err := readArray(&c, int(numGlyphs-numberOfHMetrics), int16Codec)
	if err != nil {
		return HMetricRecord{}, fmt.Errorf("hmtx left side bearings: %w", err)
	}
	lsb, ok := lsbs.Get(int(gid - GlyphIndex(numberOfHMetrics)))
	if !ok {
		return HMetricRecord{}, ErrNoHorizontalMetrics
	}
	last, ok := longMetrics.Last()
	if !ok {
		return HMetricRecord{}, ErrNoHorizontalMetrics
	}
	return HMetricRecord{
		AdvanceWidth:    last.AdvanceWidth,
		LeftSideBearing: lsb,
	}, nil
}

// HMtxTable contains metric information for the horizontal layout each of the glyphs in
// the font. Each element in the contained hMetrics-array has two parts: the advance width
// and left side bearing. The value NumberOfHMetrics is taken from the `hhea` table. In
// a monospaced font, only one entry is required but that entry may not be omitted.
// Optionally, an array of left side bearings follows.
// The corresponding glyphs are assumed to have the same
// advance width as that found in the last entry in the hMetrics array. Since there
// must be a left side bearing and an advance width associated with each glyph in the font,
// the number of entries in this array is derived from the total number of glyphs in the
// font minus the value `HHea.NumberOfHMetrics`, which is copied into the
// HMtxTable for easier access.
//
// HMtxTable does not decode any records in advance. It is a view on the table's
// bytes, consulted for every call to HMetrics.
type HMtxTable struct {
	tableBase
	NumberOfHMetrics uint16
	numGlyphs        uint16
}

func newHMtxTable(tag Tag, b binarySegm, offset, size uint32) *HMtxTable {
	t := &HMtxTable{}
	t.tableBase = tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
	t.self = t
	return t
}

// HMetrics returns the advance width and left side bearing for a glyph.
// See LookupHorizontalMetrics.
func (t *HMtxTable) HMetrics(g GlyphIndex) (HMetricRecord, error) {
	if t == nil {
		return HMetricRecord{}, fmt.Errorf("%w: hmtx", ErrTableMissing)
	}
	return LookupHorizontalMetrics(t.data, t.NumberOfHMetrics, t.numGlyphs, g)
}

// GlyphCount returns the glyph count used when decoding this hmtx table.
func (t *HMtxTable) GlyphCount() int {
	if t == nil {
		return 0
	}
	return int(t.numGlyphs)
}

// LongMetrics returns a view on the long horizontal metrics records.
// If the table is too small to hold them, an empty array is returned.
func (t *HMtxTable) LongMetrics() RecordArray[HMetricRecord] {
	if t == nil {
		return RecordArray[HMetricRecord]{}
	}
	c := makeCursor(t.data)
	a, err := readArray(&c, int(t.NumberOfHMetrics), hMetricCodec)
	if err != nil {
		tracer().Debugf("hmtx long metrics: %v", err)
	}
	return a
}

// LeftSideBearings returns a view on the trailing left side bearing records,
// i.e. those for glyphs sharing the final advance width.
// If the table is too small to hold them, an empty array is returned.
func (t *HMtxTable) LeftSideBearings() RecordArray[int16] {
	if t == nil || t.numGlyphs <= t.NumberOfHMetrics {
		return RecordArray[int16]{}
	}
	c := makeCursor(t.data)
	if err := c.skip(4 * int(t.NumberOfHMetrics)); err != nil {
		tracer().Debugf("hmtx left side bearings: %v", err)
		return RecordArray[int16]{}
	}
	a, err := readArray(&c, int(t.numGlyphs-t.NumberOfHMetrics), int16Codec)
	if err != nil {
		tracer().Debugf("hmtx left side bearings: %v", err)
	}
	return a
}
