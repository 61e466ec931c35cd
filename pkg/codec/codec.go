// Package codec provides the fixed-width and varint encodings shared by the
// write batch, WAL, and memtable entry formats.
package codec

import (
	"encoding/binary"
	"errors"
)

// ErrBufferTooSmall is returned by the DecodeFixed* helpers when the source
// slice is shorter than the field being decoded.
var ErrBufferTooSmall = errors.New("codec: buffer too small")

// ErrVarintCorrupt is returned when a varint decode runs out of input, or
// consumes the maximum number of bytes for its width without terminating.
var ErrVarintCorrupt = errors.New("codec: corrupt varint")

// MaxVarint32Bytes is the most bytes EncodeVarint32 will ever emit.
const MaxVarint32Bytes = 5

// MaxVarint64Bytes is the most bytes EncodeVarint64 will ever emit.
const MaxVarint64Bytes = 10

// PutFixed32 writes v into buf[0:4] as little-endian. buf must have length >= 4.
func PutFixed32(buf []byte, v uint32) {
	binary.LittleEndian.PutUint32(buf, v)
}

// PutFixed64 writes v into buf[0:8] as little-endian. buf must have length >= 8.
func PutFixed64(buf []byte, v uint64) {
	binary.LittleEndian.PutUint64(buf, v)
}

// DecodeFixed32 reads a little-endian uint32 from the front of buf.
func DecodeFixed32(buf []byte) (uint32, error) {
	if len(buf) < 4 {
		return 0, ErrBufferTooSmall
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// DecodeFixed64 reads a little-endian uint64 from the front of buf.
func DecodeFixed64(buf []byte) (uint64, error) {
	if len(buf) < 8 {
		return 0, ErrBufferTooSmall
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// AppendFixed32 appends v to dst as a little-endian 4-byte field and returns
// the grown slice.
func AppendFixed32(dst []byte, v uint32) []byte {
	var buf [4]byte
	PutFixed32(buf[:], v)
	return append(dst, buf[:]...)
}

// AppendFixed64 appends v to dst as a little-endian 8-byte field and returns
// the grown slice.
func AppendFixed64(dst []byte, v uint64) []byte {
	var buf [8]byte
	PutFixed64(buf[:], v)
	return append(dst, buf[:]...)
}

// VarintLength32 returns the number of bytes EncodeVarint32 would emit for v.
func VarintLength32(v uint32) int {
	return varintLength(uint64(v))
}

// VarintLength64 returns the number of bytes EncodeVarint64 would emit for v.
func VarintLength64(v uint64) int {
	return varintLength(v)
}

func varintLength(v uint64) int {
	n := 1
	for v >= 128 {
		v >>= 7
		n++
	}
	return n
}

// AppendVarint32 appends the varint32 encoding of v to dst.
func AppendVarint32(dst []byte, v uint32) []byte {
	return AppendVarint64(dst, uint64(v))
}

// AppendVarint64 appends the varint encoding of v to dst, 7 bits per byte,
// least-significant group first, continuation bit set on every byte but the
// last.
func AppendVarint64(dst []byte, v uint64) []byte {
	for v >= 128 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// DecodeVarint32 reads a varint32 from the front of p, returning the decoded
// value and the remaining, unconsumed slice. It fails if p is exhausted
// before a terminating byte is seen, or if more than MaxVarint32Bytes bytes
// would be required.
func DecodeVarint32(p []byte) (value uint32, rest []byte, err error) {
	v, n, ok := decodeVarint(p, MaxVarint32Bytes)
	if !ok {
		return 0, nil, ErrVarintCorrupt
	}
	return uint32(v), p[n:], nil
}

// DecodeVarint64 reads a varint64 from the front of p, returning the decoded
// value and the remaining, unconsumed slice.
func DecodeVarint64(p []byte) (value uint64, rest []byte, err error) {
	v, n, ok := decodeVarint(p, MaxVarint64Bytes)
	if !ok {
		return 0, nil, ErrVarintCorrupt
	}
	return v, p[n:], nil
}

func decodeVarint(p []byte, maxBytes int) (value uint64, consumed int, ok bool) {
	var result uint64
	var shift uint
	for i := 0; i < maxBytes; i++ {
		if i >= len(p) {
			return 0, 0, false
		}
		b := p[i]
		if b&0x80 != 0 {
			result |= uint64(b&0x7f) << shift
		} else {
			result |= uint64(b) << shift
			return result, i + 1, true
		}
		shift += 7
	}
	// Consumed the maximum number of bytes without seeing a terminator.
	return 0, 0, false
}

// PutLengthPrefixedSlice appends a varint32 length prefix followed by s to dst.
func PutLengthPrefixedSlice(dst []byte, s []byte) []byte {
	dst = AppendVarint32(dst, uint32(len(s)))
	return append(dst, s...)
}

// GetLengthPrefixedSlice reads a varint32 length prefix followed by that many
// bytes from the front of p, returning the slice and the remaining input.
// The returned slice aliases p; callers that need to retain it past the next
// mutation of the underlying buffer must copy it.
func GetLengthPrefixedSlice(p []byte) (slice []byte, rest []byte, err error) {
	length, rest, err := DecodeVarint32(p)
	if err != nil {
		return nil, nil, err
	}
	if uint32(len(rest)) < length {
		return nil, nil, ErrVarintCorrupt
	}
	return rest[:length], rest[length:], nil
}
