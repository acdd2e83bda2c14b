package otquery

import (
	"time"

	"github.com/npillmayer/otmetrics/ot"
	"github.com/tdewolff/parse/v2"
)

// HeadTableInfo is a typed query view over OpenType table 'head'.
// Values are decoded directly from the raw table bytes.
type HeadTableInfo struct {
	MajorVersion uint16
	MinorVersion uint16
	FontRevision uint32 // fixed 16.16
	MagicNumber  uint32
	Flags        uint16
	UnitsPerEm   uint16
	Created      time.Time
	Modified     time.Time
	XMin, YMin   int16 // bounding box of all glyphs
	XMax, YMax   int16
	MacStyle     uint16
}

const headTableSize = 54

// LONGDATETIME values count seconds since 1904-01-01 00:00 UTC.
var longDateTimeEpoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

func longDateTime(secs int64) time.Time {
	return longDateTimeEpoch.Add(time.Duration(secs) * time.Second)
}

// HeadInfo decodes table 'head' from raw bytes.
// Returns (info, true) on success, or (zero, false) if table is missing/too short.
func HeadInfo(otf *ot.Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	if otf == nil {
		return info, false
	}
	table := otf.Table(ot.T("head"))
	if table == nil || len(table.Binary()) < headTableSize {
		return info, false
	}
	r := parse.NewBinaryReaderBytes(table.Binary())
	info.MajorVersion = r.ReadUint16()
	info.MinorVersion = r.ReadUint16()
	info.FontRevision = r.ReadUint32()
	_ = r.ReadUint32() // checksum adjustment
	info.MagicNumber = r.ReadUint32()
	info.Flags = r.ReadUint16()
	info.UnitsPerEm = r.ReadUint16()
	info.Created = longDateTime(r.ReadInt64())
	info.Modified = longDateTime(r.ReadInt64())
	info.XMin = r.ReadInt16()
	info.YMin = r.ReadInt16()
	info.XMax = r.ReadInt16()
	info.YMax = r.ReadInt16()
	info.MacStyle = r.ReadUint16()
	return info, true
}
