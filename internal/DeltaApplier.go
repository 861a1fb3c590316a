package internal

import (
	"context"
	"errors"
	"fmt"
	"io"

	pool "github.com/libp2p/go-buffer-pool"
)

const applyBufferSize = 32 * 1024

// DeltaApplier rebuilds a new file from a base file and a delta command stream
type DeltaApplier struct {
	// WriteDelegate, when set, is called with the number of bytes written for every command
	WriteDelegate DelegateWriteStreamInfo
}

// NewDeltaApplier creates an applier without progress reporting
func NewDeltaApplier() *DeltaApplier {
	return &DeltaApplier{}
}

// ApplyDelta replays every command of delta in order, resolving copies against base, and writes
// the reconstructed file to out. It returns the number of bytes written. The position of base is
// restored before returning.
func (da *DeltaApplier) ApplyDelta(ctx context.Context, base io.ReadSeeker, delta io.Reader, out io.Writer) (written int64, err error) {
	originalPosition, err := base.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("failed to get base stream position: %w", err)
	}
	defer base.Seek(originalPosition, io.SeekStart)

	baseLength, err := base.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("failed to get base stream length: %w", err)
	}

	buffer := pool.Get(applyBufferSize)
	defer pool.Put(buffer)

	reader := NewDeltaReader(delta)
	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		command, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, fmt.Errorf("command %d: %w", index, err)
		}

		var n int64
		switch command.Kind {
		case CopyCommand:
			if command.BaseOffset+command.Length > baseLength {
				return written, fmt.Errorf("%w: command %d copies [%d, %d) past base length %d",
					ErrFormat, index, command.BaseOffset, command.BaseOffset+command.Length, baseLength)
			}
			n, err = copyBaseRange(base, command.BaseOffset, command.Length, out, buffer)
		case DataCommand:
			n, err = io.CopyBuffer(out, reader.Data(), buffer)
		}
		written += n
		if err != nil {
			return written, fmt.Errorf("command %d (%s): %w", index, command.Kind, err)
		}
		if n != command.Length {
			return written, fmt.Errorf("%w: command %d (%s) produced %d of %d bytes", ErrFormat, index, command.Kind, n, command.Length)
		}
		reportWrite(da.WriteDelegate, n)
	}
}

func copyBaseRange(base io.ReadSeeker, offset, length int64, out io.Writer, buffer []byte) (int64, error) {
	section, err := NewChunkStream(base, offset, offset+length)
	if err != nil {
		return 0, err
	}
	n, err := section.CopyTo(out, buffer)
	if closeErr := section.Close(); err == nil {
		err = closeErr
	}
	return n, err
}
