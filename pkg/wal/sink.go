package wal

import (
	"bufio"
	"bytes"
	"errors"
	"os"
)

// ErrSinkClosed is returned by a WritableSink once it has been closed.
var ErrSinkClosed = errors.New("wal: sink closed")

// WritableSink is the output collaborator a Writer fragments records into.
// It is the only filesystem-shaped contract this package assumes: Append
// buffers (or writes) bytes, Flush makes them durable to whatever degree the
// concrete sink promises.
type WritableSink interface {
	Append(p []byte) error
	Flush() error
}

// FileSink is a WritableSink backed by an *os.File, buffered the way the
// teacher's wal.WAL wraps its output file: a bufio.Writer in front of the
// descriptor, with Flush draining the buffer and fsync'ing the file.
type FileSink struct {
	file   *os.File
	writer *bufio.Writer
	closed bool
}

// OpenFileSink opens (creating if necessary) path for appending and wraps it
// in a buffered FileSink. It returns the file's current length, which
// callers use to compute the Writer's starting block_offset via NewWriterFromOffset.
func OpenFileSink(path string) (*FileSink, int64, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, 0, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return &FileSink{
		file:   f,
		writer: bufio.NewWriterSize(f, 64*1024),
	}, stat.Size(), nil
}

// Append buffers p for writing.
func (s *FileSink) Append(p []byte) error {
	if s.closed {
		return ErrSinkClosed
	}
	_, err := s.writer.Write(p)
	return err
}

// Flush drains the buffer to the OS and fsyncs the underlying file.
func (s *FileSink) Flush() error {
	if s.closed {
		return ErrSinkClosed
	}
	if err := s.writer.Flush(); err != nil {
		return err
	}
	return s.file.Sync()
}

// Close flushes and closes the underlying file. Further Append/Flush calls
// return ErrSinkClosed.
func (s *FileSink) Close() error {
	if s.closed {
		return nil
	}
	err := s.Flush()
	if cerr := s.file.Close(); err == nil {
		err = cerr
	}
	s.closed = true
	return err
}

// MemorySink is an in-memory WritableSink over a bytes.Buffer, used by tests
// and by callers that want to stage a record before handing it to a real
// sink.
type MemorySink struct {
	buf bytes.Buffer
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append writes p to the in-memory buffer.
func (s *MemorySink) Append(p []byte) error {
	_, err := s.buf.Write(p)
	return err
}

// Flush is a no-op; MemorySink has nothing to durably sync.
func (s *MemorySink) Flush() error {
	return nil
}

// Bytes returns the bytes written so far. The returned slice aliases the
// sink's internal buffer.
func (s *MemorySink) Bytes() []byte {
	return s.buf.Bytes()
}
