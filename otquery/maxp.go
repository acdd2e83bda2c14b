package otquery

import (
	"github.com/npillmayer/otmetrics/ot"
	"github.com/tdewolff/parse/v2"
)

// MaxPTableInfo is a typed query view over OpenType table 'maxp'.
// Only the part common to versions 0.5 and 1.0 is decoded.
type MaxPTableInfo struct {
	VersionFixed uint32 // 0x00005000 for CFF fonts, 0x00010000 for TrueType
	NumGlyphs    uint16
}

// TrueType reports whether the table has version 1.0, which is required for
// fonts with TrueType outlines.
func (m MaxPTableInfo) TrueType() bool {
	return m.VersionFixed == 0x00010000
}

// version and numGlyphs
const maxpTableSize = 6

// MaxPInfo decodes table 'maxp' from raw bytes.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func MaxPInfo(otf *ot.Font) (MaxPTableInfo, bool) {
	var info MaxPTableInfo
	if otf == nil {
		return info, false
	}
	table := otf.Table(ot.T("maxp"))
	if table == nil || len(table.Binary()) < maxpTableSize {
		return info, false
	}
	r := parse.NewBinaryReaderBytes(table.Binary())
	info.VersionFixed = r.ReadUint32()
	info.NumGlyphs = r.ReadUint16()
	return info, true
}
