package internal

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// DeltaReader decodes a delta command stream. The stream has no terminator; Next returns io.EOF
// when the input ends cleanly between records.
type DeltaReader struct {
	reader *bufio.Reader
	data   *io.LimitedReader
}

// NewDeltaReader creates a reader over r
func NewDeltaReader(r io.Reader) *DeltaReader {
	return &DeltaReader{reader: bufio.NewReaderSize(r, minIOBufferSize)}
}

// Next advances to the next command. Literal bytes of a data command not consumed through Data
// are skipped.
func (dr *DeltaReader) Next() (DeltaCommand, error) {
	if dr.data != nil && dr.data.N > 0 {
		skipped, err := io.Copy(io.Discard, dr.data)
		if err != nil {
			return DeltaCommand{}, fmt.Errorf("failed to skip data command bytes: %w", err)
		}
		if dr.data.N > 0 {
			return DeltaCommand{}, fmt.Errorf("%w: truncated data command (%d bytes skipped)", ErrFormat, skipped)
		}
	}
	dr.data = nil

	tag, err := dr.reader.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return DeltaCommand{}, io.EOF
		}
		return DeltaCommand{}, fmt.Errorf("failed to read command tag: %w", err)
	}

	switch DeltaCommandKind(tag) {
	case DataCommand:
		var header [dataCommandHeaderSize - 1]byte
		if _, err := io.ReadFull(dr.reader, header[:]); err != nil {
			return DeltaCommand{}, wrapTruncated("data command", err)
		}
		length := int64(binary.LittleEndian.Uint64(header[:]))
		if length <= 0 {
			return DeltaCommand{}, fmt.Errorf("%w: data command length %d", ErrFormat, length)
		}
		dr.data = &io.LimitedReader{R: dr.reader, N: length}
		return DeltaCommand{Kind: DataCommand, Length: length}, nil

	case CopyCommand:
		var record [copyCommandSize - 1]byte
		if _, err := io.ReadFull(dr.reader, record[:]); err != nil {
			return DeltaCommand{}, wrapTruncated("copy command", err)
		}
		position := int64(binary.LittleEndian.Uint64(record[:8]))
		length := int64(binary.LittleEndian.Uint64(record[8:]))
		if position < 0 || length <= 0 {
			return DeltaCommand{}, fmt.Errorf("%w: copy command position %d length %d", ErrFormat, position, length)
		}
		return DeltaCommand{Kind: CopyCommand, BaseOffset: position, Length: length}, nil

	default:
		return DeltaCommand{}, fmt.Errorf("%w: unknown command tag 0x%02x", ErrFormat, tag)
	}
}

// Data returns the literal bytes of the current data command. It is only valid until the next call to Next.
func (dr *DeltaReader) Data() io.Reader {
	if dr.data == nil {
		return eofReader{}
	}
	return &truncationReader{reader: dr.data}
}

// ReadAll decodes every remaining command, materialising data command bytes in memory.
// Intended for inspection and tests of small deltas.
func (dr *DeltaReader) ReadAll() ([]DeltaCommand, [][]byte, error) {
	var commands []DeltaCommand
	var data [][]byte
	for {
		command, err := dr.Next()
		if errors.Is(err, io.EOF) {
			return commands, data, nil
		}
		if err != nil {
			return nil, nil, err
		}

		var literal []byte
		if command.Kind == DataCommand {
			literal = make([]byte, command.Length)
			if _, err := io.ReadFull(dr.Data(), literal); err != nil {
				return nil, nil, err
			}
		}
		commands = append(commands, command)
		data = append(data, literal)
	}
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) {
	return 0, io.EOF
}

// truncationReader turns an early end of the underlying stream into ErrFormat
type truncationReader struct {
	reader *io.LimitedReader
}

func (tr *truncationReader) Read(p []byte) (int, error) {
	n, err := tr.reader.Read(p)
	if errors.Is(err, io.EOF) && tr.reader.N > 0 {
		return n, fmt.Errorf("%w: truncated data command", ErrFormat)
	}
	return n, err
}
