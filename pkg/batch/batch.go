// Package batch implements the write-batch wire format: a self-describing
// byte buffer packaging a sequence of Put/Delete mutations under one base
// sequence number, plus the handler interface used to replay it.
//
// Wire format (rep):
//
//	fixed64  sequence
//	fixed32  count
//	record*  (count records):
//	  u8 tag (TypeValue | TypeDeletion)
//	    TypeValue:    varstring key, varstring value
//	    TypeDeletion: varstring key
//	varstring := varint32 len, len bytes
package batch

import (
	"errors"
	"fmt"

	"github.com/hearthdb/hearthkv/pkg/codec"
	"github.com/hearthdb/hearthkv/pkg/common/log"
)

// ValueType tags a batch record (and, later, a memtable entry) as a value or
// a deletion marker.
type ValueType uint8

const (
	// TypeDeletion marks a record as a tombstone.
	TypeDeletion ValueType = 0x00
	// TypeValue marks a record as carrying a live value.
	TypeValue ValueType = 0x01
)

// headerSize is the fixed length of a batch's sequence+count header.
const headerSize = 12

var (
	// ErrCorruptBatch is the root error for any malformed batch body.
	ErrCorruptBatch = errors.New("batch: corrupt")
	// ErrWrongRecordCount is returned by Iterate when the number of records
	// actually dispatched doesn't match the header's count field.
	ErrWrongRecordCount = errors.New("batch: wrong record count")
)

// Handler is the sink a Batch dispatches Put/Delete records to during
// Iterate. The memtable inserter in pkg/memtable is the production
// implementation; tests typically supply a recording handler.
type Handler interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// Batch is a growable buffer of Put/Delete mutations sharing one base
// sequence number. The zero value is not ready to use; call New.
type Batch struct {
	rep     []byte
	metrics Metrics
	logger  log.Logger
}

// New returns an empty batch: a 12-byte zeroed header, count 0, sequence 0.
func New() *Batch {
	return NewWithMetrics(NewNoopMetrics())
}

// NewWithMetrics is like New but attaches a Metrics implementation for
// instrumentation.
func NewWithMetrics(metrics Metrics) *Batch {
	if metrics == nil {
		metrics = NewNoopMetrics()
	}
	b := &Batch{metrics: metrics, logger: log.GetDefaultLogger().WithField("component", "batch")}
	b.Clear()
	return b
}

// loggerOrDefault lets a Batch constructed without NewWithMetrics (or a
// zero Batch some caller forgot to run through New) still log safely.
func (b *Batch) loggerOrDefault() log.Logger {
	if b.logger == nil {
		return log.GetDefaultLogger()
	}
	return b.logger
}

// Clear resets the batch to its empty state.
func (b *Batch) Clear() {
	if cap(b.rep) < headerSize {
		b.rep = make([]byte, headerSize)
	} else {
		b.rep = b.rep[:headerSize]
		for i := range b.rep {
			b.rep[i] = 0
		}
	}
}

// Put appends a VALUE record for key/value and increments the header count.
func (b *Batch) Put(key, value []byte) {
	b.setCount(b.Count() + 1)
	b.rep = append(b.rep, byte(TypeValue))
	b.rep = codec.PutLengthPrefixedSlice(b.rep, key)
	b.rep = codec.PutLengthPrefixedSlice(b.rep, value)
	b.metricsOrNoop().RecordPut(len(key), len(value))
}

// Delete appends a DELETION record for key and increments the header count.
func (b *Batch) Delete(key []byte) {
	b.setCount(b.Count() + 1)
	b.rep = append(b.rep, byte(TypeDeletion))
	b.rep = codec.PutLengthPrefixedSlice(b.rep, key)
	b.metricsOrNoop().RecordDelete(len(key))
}

// metricsOrNoop lets a Batch constructed without NewWithMetrics (or a zero
// Batch some caller forgot to run through New) still call into Metrics
// safely.
func (b *Batch) metricsOrNoop() Metrics {
	if b.metrics == nil {
		return NewNoopMetrics()
	}
	return b.metrics
}

// Append concatenates other's records onto b. b's sequence number is kept;
// other's is discarded. The resulting count is the sum of both counts.
func (b *Batch) Append(other *Batch) {
	b.setCount(b.Count() + other.Count())
	b.rep = append(b.rep, other.rep[headerSize:]...)
}

// ApproximateSize returns the size in bytes of the batch's wire image.
func (b *Batch) ApproximateSize() int {
	return len(b.rep)
}

// Sequence returns the batch's base sequence number.
func (b *Batch) Sequence() uint64 {
	v, _ := codec.DecodeFixed64(b.rep[0:8])
	return v
}

// SetSequence sets the batch's base sequence number.
func (b *Batch) SetSequence(seq uint64) {
	codec.PutFixed64(b.rep[0:8], seq)
}

// Count returns the number of records recorded in the header.
func (b *Batch) Count() uint32 {
	v, _ := codec.DecodeFixed32(b.rep[8:12])
	return v
}

func (b *Batch) setCount(n uint32) {
	codec.PutFixed32(b.rep[8:12], n)
}

// Contents returns the batch's raw byte image, including its 12-byte header.
// The returned slice aliases the batch's internal buffer.
func (b *Batch) Contents() []byte {
	return b.rep
}

// SetContents replaces the batch's byte image wholesale (e.g. after reading
// a WAL record). contents must be at least 12 bytes.
func (b *Batch) SetContents(contents []byte) error {
	if len(contents) < headerSize {
		b.loggerOrDefault().Error("SetContents given %d bytes, shorter than the %d-byte header", len(contents), headerSize)
		return fmt.Errorf("%w: contents shorter than header (%d < %d)", ErrCorruptBatch, len(contents), headerSize)
	}
	b.rep = append(b.rep[:0], contents...)
	return nil
}

// Iterate walks the batch's records in order, dispatching each to handler.
// It returns the first error Iterate or handler encounters. If the number of
// records actually dispatched doesn't match the header's count, Iterate
// returns ErrWrongRecordCount after dispatching everything it could parse.
func (b *Batch) Iterate(handler Handler) error {
	if len(b.rep) < headerSize {
		b.loggerOrDefault().Error("batch too small to carry a header: %d bytes", len(b.rep))
		return fmt.Errorf("%w: malformed batch (too small)", ErrCorruptBatch)
	}

	input := b.rep[headerSize:]
	found := uint32(0)
	for len(input) > 0 {
		tag := ValueType(input[0])
		input = input[1:]
		found++

		switch tag {
		case TypeValue:
			key, rest, err := codec.GetLengthPrefixedSlice(input)
			if err != nil {
				b.loggerOrDefault().Error("corrupt Put key at record %d: %v", found, err)
				return fmt.Errorf("%w: bad Put key: %v", ErrCorruptBatch, err)
			}
			value, rest2, err := codec.GetLengthPrefixedSlice(rest)
			if err != nil {
				b.loggerOrDefault().Error("corrupt Put value at record %d: %v", found, err)
				return fmt.Errorf("%w: bad Put value: %v", ErrCorruptBatch, err)
			}
			input = rest2
			if err := handler.Put(key, value); err != nil {
				return err
			}
		case TypeDeletion:
			key, rest, err := codec.GetLengthPrefixedSlice(input)
			if err != nil {
				b.loggerOrDefault().Error("corrupt Delete key at record %d: %v", found, err)
				return fmt.Errorf("%w: bad Delete key: %v", ErrCorruptBatch, err)
			}
			input = rest
			if err := handler.Delete(key); err != nil {
				return err
			}
		default:
			b.loggerOrDefault().Error("unknown record tag %#x at record %d", tag, found)
			return fmt.Errorf("%w: unknown tag %#x", ErrCorruptBatch, tag)
		}
	}

	if found != b.Count() {
		b.loggerOrDefault().Warn("batch header says %d records, dispatched %d", b.Count(), found)
		return fmt.Errorf("%w: header says %d, dispatched %d", ErrWrongRecordCount, b.Count(), found)
	}
	return nil
}
