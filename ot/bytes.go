package ot

import (
	"fmt"
	"iter"

	"github.com/tdewolff/parse/v2"
)

// Reading bytes from a font's binary representation

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func i16(b []byte) int16 {
	return int16(u16(b))
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// --- Locations, i.e. byte segments/slices -----------------------------------

// binarySegm is a segment of byte data.
// We use it throughout this module to address sub-slices of the font's binary data.
type binarySegm []byte

// Size returns the size of the segment in bytes.
func (b binarySegm) Size() int {
	return len(b)
}

// Bytes returns the segment as a byte slice.
func (b binarySegm) Bytes() []byte {
	return b
}

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n < 0 || offset > len(b) || n > len(b)-offset {
		return nil, fmt.Errorf("%w: view [%d:+%d] of %d bytes", ErrUnexpectedEOF, offset, n, len(b))
	}
	return b[offset : offset+n], nil
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	buf, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	buf, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// --- Cursor ----------------------------------------------------------------

// cursor reads big-endian values sequentially from a byte slice.
// Every read checks the remaining length first; the underlying reader is never
// asked for more bytes than it holds.
type cursor struct {
	r parse.BinaryReader
}

func makeCursor(b []byte) cursor {
	return cursor{r: *parse.NewBinaryReaderBytes(b)}
}

func (c *cursor) remaining() int {
	return int(c.r.Len())
}

func (c *cursor) need(n int) error {
	if n < 0 || c.remaining() < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrUnexpectedEOF, n, c.r.Pos(), c.remaining())
	}
	return nil
}

func (c *cursor) u16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	return c.r.ReadUint16(), nil
}

func (c *cursor) i16() (int16, error) {
	n, err := c.u16()
	return int16(n), err
}

func (c *cursor) u32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	return c.r.ReadUint32(), nil
}

// skip advances the cursor by n bytes without decoding them.
func (c *cursor) skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.r.ReadBytes(int64(n))
	return nil
}

func (c *cursor) skip16() error { return c.skip(2) }
func (c *cursor) skip32() error { return c.skip(4) }

// readArray consumes count fixed-size records and returns a view on them.
// No record is decoded here. If fewer than count*size bytes remain,
// ErrUnexpectedEOF is returned and the cursor does not move.
func readArray[T any](c *cursor, count int, codec recordCodec[T]) (RecordArray[T], error) {
	if count < 0 {
		return RecordArray[T]{}, fmt.Errorf("%w: negative record count %d", ErrUnexpectedEOF, count)
	}
	n, err := checkedMulInt(count, codec.size)
	if err != nil {
		return RecordArray[T]{}, fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
	}
	if err = c.need(n); err != nil {
		return RecordArray[T]{}, err
	}
	return RecordArray[T]{
		data:  c.r.ReadBytes(int64(n)),
		count: count,
		codec: codec,
	}, nil
}

// readArray32 is readArray for record counts stored as uint32 in the font.
func readArray32[T any](c *cursor, count uint32, codec recordCodec[T]) (RecordArray[T], error) {
	if uint64(count)*uint64(codec.size) > uint64(c.remaining()) {
		return RecordArray[T]{}, fmt.Errorf("%w: %d records of %d bytes at offset %d, have %d",
			ErrUnexpectedEOF, count, codec.size, c.r.Pos(), c.remaining())
	}
	return readArray(c, int(count), codec)
}

// --- Arrays ----------------------------------------------------------------

// recordCodec describes a fixed-size binary record: its byte size and how to
// decode it. decode is always handed exactly size bytes.
type recordCodec[T any] struct {
	size   int
	decode func(b []byte) T
}

// RecordArray is a view on a linear sequence of equal-sized records in a font's
// binary data. Records are decoded on access, never in advance.
//
// RecordArrays are created by reading them from a font table, which checks that
// all records are present. A RecordArray therefore may be indexed over its full
// length without further bounds considerations. The zero value is an empty array.
type RecordArray[T any] struct {
	data  binarySegm
	count int
	codec recordCodec[T]
}

// Len returns the number of records.
func (a RecordArray[T]) Len() int {
	return a.count
}

// Size of array a in bytes.
func (a RecordArray[T]) Size() int {
	return a.count * a.codec.size
}

// Get returns record #i. If i is out of range, the zero value and false
// are returned.
func (a RecordArray[T]) Get(i int) (T, bool) {
	if i < 0 || i >= a.count {
		var zero T
		return zero, false
	}
	from := i * a.codec.size
	return a.codec.decode(a.data[from : from+a.codec.size]), true
}

// Last returns the final record, or false for an empty array.
func (a RecordArray[T]) Last() (T, bool) {
	return a.Get(a.count - 1)
}

// All iterates over the records in stored order, decoding one at a time.
func (a RecordArray[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := range a.count {
			rec, _ := a.Get(i)
			if !yield(i, rec) {
				return
			}
		}
	}
}

// int16Codec decodes a single signed 16-bit value.
var int16Codec = recordCodec[int16]{
	size:   2,
	decode: i16,
}
