package internal

import (
	"fmt"
	"io"
)

// ChunkStream is a read-only view over [start, end) of an underlying seekable stream.
// Opening it remembers the underlying position and Close restores it, so a caller that is in the
// middle of a sequential scan can read a range out of the same stream and carry on.
type ChunkStream struct {
	stream           io.ReadSeeker
	start            int64
	end              int64
	curPos           int64
	originalPosition int64
}

// NewChunkStream opens a view of [start, end) over stream. Close must be called to restore the
// stream's position, including when reading fails.
func NewChunkStream(stream io.ReadSeeker, start, end int64) (*ChunkStream, error) {
	if start < 0 || end < start {
		return nil, fmt.Errorf("argument out of range: start=%d, end=%d", start, end)
	}

	originalPosition, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream position: %w", err)
	}

	streamLen, err := stream.Seek(0, io.SeekEnd)
	if err != nil {
		stream.Seek(originalPosition, io.SeekStart)
		return nil, fmt.Errorf("failed to get stream length: %w", err)
	}
	if end > streamLen {
		stream.Seek(originalPosition, io.SeekStart)
		return nil, fmt.Errorf("argument out of range: start=%d, end=%d, stream length=%d", start, end, streamLen)
	}

	if _, err := stream.Seek(start, io.SeekStart); err != nil {
		stream.Seek(originalPosition, io.SeekStart)
		return nil, fmt.Errorf("failed to seek to start position: %w", err)
	}

	return &ChunkStream{
		stream:           stream,
		start:            start,
		end:              end,
		originalPosition: originalPosition,
	}, nil
}

// size returns the size of the chunk
func (cs *ChunkStream) size() int64 {
	return cs.end - cs.start
}

// remain returns the remaining bytes in the chunk
func (cs *ChunkStream) remain() int64 {
	return cs.size() - cs.curPos
}

// Read reads up to len(p) bytes into p without crossing the end of the view
func (cs *ChunkStream) Read(p []byte) (int, error) {
	if cs.remain() == 0 {
		return 0, io.EOF
	}

	toRead := min(int64(len(p)), cs.remain())
	read, err := cs.stream.Read(p[:toRead])
	cs.curPos += int64(read)

	if err == io.EOF && cs.remain() > 0 {
		return read, io.ErrUnexpectedEOF
	}
	return read, err
}

// Length returns the length of the view
func (cs *ChunkStream) Length() int64 {
	return cs.size()
}

// Position returns the current position within the view
func (cs *ChunkStream) Position() int64 {
	return cs.curPos
}

// CopyTo copies the rest of the view to dst through buffer
func (cs *ChunkStream) CopyTo(dst io.Writer, buffer []byte) (int64, error) {
	var total int64
	for cs.remain() > 0 {
		read, err := cs.Read(buffer)
		if read > 0 {
			written, werr := dst.Write(buffer[:read])
			total += int64(written)
			if werr != nil {
				return total, werr
			}
			if written < read {
				return total, io.ErrShortWrite
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Close restores the underlying stream to the position it had when the view was opened
func (cs *ChunkStream) Close() error {
	if _, err := cs.stream.Seek(cs.originalPosition, io.SeekStart); err != nil {
		return fmt.Errorf("failed to restore stream position: %w", err)
	}
	return nil
}
