package internal

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	pool "github.com/libp2p/go-buffer-pool"
)

// DeltaWriter receives delta commands in emission order
type DeltaWriter interface {
	// WriteDataCommand emits length literal bytes read from source at position.
	// The position of source is left unchanged.
	WriteDataCommand(source io.ReadSeeker, position, length int64) error
	// WriteCopyCommand emits a reference to length bytes of the base file at position
	WriteCopyCommand(position, length int64) error
	// Flush pushes any buffered output to the underlying writer
	Flush() error
}

// BinaryDeltaWriter encodes commands in the little-endian delta stream layout:
//
//	data: 0x80 | length int64 | length raw bytes
//	copy: 0x60 | position int64 | length int64
type BinaryDeltaWriter struct {
	writer *bufio.Writer

	// WriteDelegate, when set, is called with the encoded size of every command
	WriteDelegate DelegateWriteStreamInfo
}

// NewDeltaWriter creates a writer over w. Flush must be called once all commands are written.
func NewDeltaWriter(w io.Writer) *BinaryDeltaWriter {
	return &BinaryDeltaWriter{writer: bufio.NewWriterSize(w, minIOBufferSize)}
}

func (dw *BinaryDeltaWriter) WriteDataCommand(source io.ReadSeeker, position, length int64) (err error) {
	if length <= 0 {
		return fmt.Errorf("data command length must be positive, got %d", length)
	}

	section, err := NewChunkStream(source, position, position+length)
	if err != nil {
		return fmt.Errorf("failed to open data range: %w", err)
	}
	defer func() {
		if closeErr := section.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	var header [dataCommandHeaderSize]byte
	header[0] = byte(DataCommand)
	binary.LittleEndian.PutUint64(header[1:], uint64(length))
	if _, err := dw.writer.Write(header[:]); err != nil {
		return fmt.Errorf("failed to write data command: %w", err)
	}

	buffer := pool.Get(int(min(length, 4096)))
	defer pool.Put(buffer)

	copied, err := section.CopyTo(dw.writer, buffer)
	if err != nil {
		return fmt.Errorf("failed to copy data command bytes: %w", err)
	}
	if copied != length {
		return fmt.Errorf("data command short read: %d of %d bytes", copied, length)
	}

	reportWrite(dw.WriteDelegate, dataCommandHeaderSize+length)
	return nil
}

func (dw *BinaryDeltaWriter) WriteCopyCommand(position, length int64) error {
	var record [copyCommandSize]byte
	record[0] = byte(CopyCommand)
	binary.LittleEndian.PutUint64(record[1:9], uint64(position))
	binary.LittleEndian.PutUint64(record[9:], uint64(length))

	if _, err := dw.writer.Write(record[:]); err != nil {
		return fmt.Errorf("failed to write copy command: %w", err)
	}
	reportWrite(dw.WriteDelegate, copyCommandSize)
	return nil
}

func (dw *BinaryDeltaWriter) Flush() error {
	return dw.writer.Flush()
}
