package otquery

import (
	"fmt"
	"iter"

	"github.com/npillmayer/otmetrics/ot"
	"github.com/tdewolff/parse/v2"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/unicode"
)

const (
	nameHeaderSize = 6
	nameRecordSize = 12
)

// nameKey identifies a NameRecord entry in OpenType table 'name'.
// The key follows the OpenType NameRecord fields directly.
type nameKey struct {
	Platform PlatformID
	Encoding EncodingID
	Language uint16      // not supported
	Name     sfnt.NameID // see https://pkg.go.dev/golang.org/x/image/font/sfnt#NameID
}

type PlatformID uint16

const (
	PlatformIDUnicode   PlatformID = 0
	PlatformIDMacintosh PlatformID = 1 // not supported
	PlatformIDWindows   PlatformID = 3
)

type EncodingID uint16

const (
	EncodingIDUnicodeBMP    EncodingID = 3
	EncodingIDWindowsSymbol EncodingID = 0 // for now we will not support symbol fonts
	EncodingIDWindowsBMP    EncodingID = 1
)

// NamesRange yields decoded `(nameID, value)` pairs from a font's OpenType
// `name` table.
//
// Only currently supported encodings are yielded (Unicode BMP and Windows BMP),
// and malformed or out-of-bounds records are skipped.
func NamesRange(otf *ot.Font) iter.Seq2[sfnt.NameID, string] {
	return func(yield func(sfnt.NameID, string) bool) {
		if otf == nil {
			return
		}
		table := otf.Table(ot.T("name"))
		if table == nil {
			tracer().Debugf("no name table found in font")
			return
		}
		b := table.Binary()
		if len(b) < 6 {
			tracer().Debugf("name table corrupt: header truncated")
			return
		}
		r := parse.NewBinaryReaderBytes(b)
		_ = r.ReadUint16() // version
		count := uint32(r.ReadUint16())
		storage := uint32(r.ReadUint16())
		if r.Len() < int64(count)*nameRecordSize || storage > uint32(len(b)) {
			tracer().Debugf("name table corrupt: %d records", count)
			return
		}
		for range count {
			key := nameKey{
				Platform: PlatformID(r.ReadUint16()),
				Encoding: EncodingID(r.ReadUint16()),
				Language: r.ReadUint16(),
				Name:     sfnt.NameID(r.ReadUint16()),
			}
			length, offset := uint32(r.ReadUint16()), uint32(r.ReadUint16())
			if !isSupportedNameEncoding(key) {
				continue
			}
			start := storage + offset
			if start+length > uint32(len(b)) {
				continue
			}
			value, err := decodeNameUTF16(b[start : start+length])
			if err != nil || value == "" {
				continue
			}
			if !yield(key.Name, value) {
				return
			}
		}
	}
}

// FamilyName extracts family and subfamily names from a font's `name` table.
//
// Returned values are empty if no matching records exist or if records cannot be
// decoded.
func FamilyName(otf *ot.Font) (family, subfamily string) {
	for nameID, value := range NamesRange(otf) {
		switch nameID {
		case sfnt.NameIDFamily:
			family = value
		case sfnt.NameIDSubfamily:
			subfamily = value
		}
	}
	return
}

func isSupportedNameEncoding(key nameKey) bool {
	return (key.Platform == PlatformIDUnicode && key.Encoding == EncodingIDUnicodeBMP) ||
		(key.Platform == PlatformIDWindows && key.Encoding == EncodingIDWindowsBMP)
}

func decodeNameUTF16(str []byte) (string, error) {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	s, err := enc.NewDecoder().Bytes(str)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-16 error: %v", err)
	}
	return string(s), nil
}
