// Package wal implements the write-ahead log's block-framed record writer:
// fragmenting an opaque payload across fixed 32 KiB blocks with per-fragment
// CRC32C-masked headers. Reading the resulting stream back is explicitly out
// of scope for this package (see SPEC_FULL.md §1) — only the writer lives
// here.
package wal

import (
	"hash/crc32"

	"github.com/hearthdb/hearthkv/pkg/codec"
	"github.com/hearthdb/hearthkv/pkg/common/log"
)

// RecordType identifies a fragment's position within its logical record.
type RecordType uint8

const (
	// RecordTypeZero is reserved for block-trailer padding; it never tags a
	// real fragment. A WAL reader (not built here) should treat both a
	// truncated header and a type-ZERO fragment as end-of-block padding,
	// not data — see SPEC_FULL.md §9's open question.
	RecordTypeZero RecordType = 0
	// RecordTypeFull tags a record that fits entirely in one fragment.
	RecordTypeFull RecordType = 1
	// RecordTypeFirst tags the first fragment of a multi-fragment record.
	RecordTypeFirst RecordType = 2
	// RecordTypeMiddle tags an interior fragment of a multi-fragment record.
	RecordTypeMiddle RecordType = 3
	// RecordTypeLast tags the final fragment of a multi-fragment record.
	RecordTypeLast RecordType = 4
)

const (
	// BlockSize is the fixed size of a WAL block.
	BlockSize = 32 * 1024
	// HeaderSize is the size of a fragment header: 4-byte masked CRC, 2-byte
	// length, 1-byte type.
	HeaderSize = 7
	// maxFragmentPayload is the largest payload a single fragment's 16-bit
	// length field can describe.
	maxFragmentPayload = 0xFFFF
)

var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// typeCRCSeed[t] is crc32c(byte(t)), precomputed once so emitPhysicalRecord
// only has to Extend it over the payload.
var typeCRCSeed = func() [5]uint32 {
	var seeds [5]uint32
	for t := 0; t <= 4; t++ {
		seeds[t] = crc32.Checksum([]byte{byte(t)}, castagnoliTable)
	}
	return seeds
}()

// maskCRC adjusts a raw CRC for storage so that a CRC of a representation
// with headers embedded doesn't collide with the CRC of the same bytes
// without headers, guarding against certain classes of data corruption that
// would otherwise look valid after a partial write.
func maskCRC(crc uint32) uint32 {
	return ((crc >> 15) | (crc << 17)) + 0xa282ead8
}

// unmaskCRC is maskCRC's inverse, provided for a future reader.
func unmaskCRC(masked uint32) uint32 {
	rot := masked - 0xa282ead8
	return (rot << 15) | (rot >> 17)
}

// Writer fragments records across fixed-size WAL blocks. A Writer is not
// safe for concurrent use; the engine above serializes writes (see
// SPEC_FULL.md §5).
type Writer struct {
	sink        WritableSink
	blockOffset int
	metrics     Metrics
	logger      log.Logger
}

// NewWriter returns a Writer that starts writing at the beginning of a fresh
// block.
func NewWriter(sink WritableSink) *Writer {
	return NewWriterWithMetrics(sink, NewNoopMetrics())
}

// NewWriterWithMetrics is like NewWriter but attaches a Metrics
// implementation for instrumentation.
func NewWriterWithMetrics(sink WritableSink, metrics Metrics) *Writer {
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	return &Writer{sink: sink, metrics: metrics, logger: log.GetDefaultLogger().WithField("component", "wal")}
}

// NewWriterWithLogger is like NewWriterWithMetrics but takes an explicit
// logger instead of deriving one from the package default.
func NewWriterWithLogger(sink WritableSink, metrics Metrics, logger log.Logger) *Writer {
	w := NewWriterWithMetrics(sink, metrics)
	if logger != nil {
		w.logger = logger
	}
	return w
}

// NewWriterFromOffset returns a Writer whose block_offset is derived from an
// existing sink's length, so that appends to a reused log file continue to
// align to the 32 KiB block grid.
func NewWriterFromOffset(sink WritableSink, existingLength int64) *Writer {
	w := NewWriter(sink)
	w.blockOffset = int(existingLength % BlockSize)
	return w
}

// BlockOffset reports the writer's current offset within its block, mostly
// useful for tests.
func (w *Writer) BlockOffset() int {
	return w.blockOffset
}

// AddRecord fragments payload across one or more physical records and
// writes them to the sink, flushing after each fragment. It iterates at
// least once even for an empty payload, emitting a single zero-length FULL
// fragment, so that an empty record still has a framed presence in the log.
func (w *Writer) AddRecord(payload []byte) error {
	left := payload
	begin := true

	for {
		leftover := BlockSize - w.blockOffset
		if leftover < HeaderSize {
			if leftover > 0 {
				if err := w.sink.Append(make([]byte, leftover)); err != nil {
					w.logger.Error("failed to write block-trailer padding: %v", err)
					return err
				}
				w.metrics.RecordBlockPadding(leftover)
			}
			w.blockOffset = 0
		}

		avail := BlockSize - w.blockOffset - HeaderSize
		fragmentLen := len(left)
		if fragmentLen > avail {
			fragmentLen = avail
		}
		end := fragmentLen == len(left)

		var recordType RecordType
		switch {
		case begin && end:
			recordType = RecordTypeFull
		case begin:
			recordType = RecordTypeFirst
		case end:
			recordType = RecordTypeLast
		default:
			recordType = RecordTypeMiddle
		}

		if err := w.emitPhysicalRecord(recordType, left[:fragmentLen]); err != nil {
			return err
		}

		left = left[fragmentLen:]
		begin = false

		if len(left) == 0 {
			return nil
		}
	}
}

// emitPhysicalRecord writes one fragment: a 7-byte header followed by its
// payload, then flushes the sink.
func (w *Writer) emitPhysicalRecord(t RecordType, payload []byte) error {
	if len(payload) > maxFragmentPayload {
		// Guaranteed unreachable given AddRecord's avail computation, but
		// guards the header's 16-bit length field if called directly.
		payload = payload[:maxFragmentPayload]
	}

	crc := crc32.Update(typeCRCSeed[t], castagnoliTable, payload)
	masked := maskCRC(crc)

	header := make([]byte, HeaderSize)
	codec.PutFixed32(header[0:4], masked)
	header[4] = byte(len(payload))
	header[5] = byte(len(payload) >> 8)
	header[6] = byte(t)

	if err := w.sink.Append(header); err != nil {
		w.logger.Error("failed to write fragment header: %v", err)
		return err
	}
	if err := w.sink.Append(payload); err != nil {
		w.logger.Error("failed to write fragment payload: %v", err)
		return err
	}
	if err := w.sink.Flush(); err != nil {
		w.logger.Error("failed to flush sink after fragment: %v", err)
		return err
	}

	w.blockOffset += HeaderSize + len(payload)
	w.metrics.RecordFragment(t.String(), len(payload))
	return nil
}

// String renders a RecordType for metrics/log attributes.
func (t RecordType) String() string {
	switch t {
	case RecordTypeZero:
		return "zero"
	case RecordTypeFull:
		return "full"
	case RecordTypeFirst:
		return "first"
	case RecordTypeMiddle:
		return "middle"
	case RecordTypeLast:
		return "last"
	default:
		return "unknown"
	}
}
