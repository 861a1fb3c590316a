package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	pool "github.com/libp2p/go-buffer-pool"
)

// DeltaBuilder scans a new file against a base file signature and emits copy/data commands
type DeltaBuilder struct {
	// MatchFinalChunk enables a check of the unmatched tail against the base file's final chunk
	// when that chunk is shorter than the chunk size. The rolling scan only looks up full windows,
	// so without it such a tail is always sent as data.
	MatchFinalChunk bool

	// MergeCopies joins consecutive copy commands whose base ranges are contiguous
	MergeCopies bool

	// ReadDelegate, when set, is called after every buffer fill with the number of bytes read
	ReadDelegate DelegateReadStreamInfo
}

// DeltaStats summarises one BuildDelta call
type DeltaStats struct {
	NewFileLength   int64
	CopiedBytes     int64
	LiteralBytes    int64
	CopyCommands    int
	DataCommands    int
	ChunkMatches    int
	ChecksumMisses  int
	FinalChunkMatch bool
}

// NewDeltaBuilder creates a builder with final chunk matching and copy merging enabled
func NewDeltaBuilder() *DeltaBuilder {
	return &DeltaBuilder{
		MatchFinalChunk: true,
		MergeCopies:     true,
	}
}

// BuildDelta reads newFileStream from its start once, sequentially, and writes the commands that
// rebuild it from the base file described by signature. Literal ranges are re-read from
// newFileStream. The stream position is restored before returning.
func (db *DeltaBuilder) BuildDelta(ctx context.Context, newFileStream io.ReadSeeker, signature *Signature, deltaWriter DeltaWriter) (DeltaStats, error) {
	if err := signature.Validate(); err != nil {
		return DeltaStats{}, err
	}

	originalPosition, err := newFileStream.Seek(0, io.SeekCurrent)
	if err != nil {
		return DeltaStats{}, fmt.Errorf("failed to get stream position: %w", err)
	}
	defer newFileStream.Seek(originalPosition, io.SeekStart)

	if _, err := newFileStream.Seek(0, io.SeekStart); err != nil {
		return DeltaStats{}, fmt.Errorf("failed to rewind stream: %w", err)
	}

	hasher, err := NewHashAlgorithm(signature.Metadata.HashAlgorithmOption)
	if err != nil {
		return DeltaStats{}, err
	}

	chunkSize := signature.ChunkSize()
	window, err := NewRingBuffer(chunkSize)
	if err != nil {
		return DeltaStats{}, err
	}

	windowBytes := pool.Get(chunkSize)
	defer pool.Put(windowBytes)
	readBuffer := pool.Get(max(minIOBufferSize, chunkSize))
	defer pool.Put(readBuffer)

	scan := &deltaScan{
		source:      newFileStream,
		writer:      deltaWriter,
		mergeCopies: db.MergeCopies,
		chunkMap:    buildChunkMap(signature.Chunks),
		roller:      signature.RollingChecksum(),
		hasher:      hasher,
		chunkSize:   chunkSize,
		window:      window,
		windowBytes: windowBytes,
		digest:      make([]byte, hasher.HashLengthInBytes()),
	}

	if err := db.scan(ctx, scan, readBuffer); err != nil {
		return DeltaStats{}, err
	}
	if db.MatchFinalChunk {
		if err := scan.matchFinalChunk(signature.Chunks[len(signature.Chunks)-1]); err != nil {
			return DeltaStats{}, err
		}
	}
	if scan.lastMatchEnd < scan.position {
		if err := scan.emitData(scan.lastMatchEnd, scan.position-scan.lastMatchEnd); err != nil {
			return DeltaStats{}, err
		}
	}
	if err := scan.flushCopy(); err != nil {
		return DeltaStats{}, err
	}
	if err := deltaWriter.Flush(); err != nil {
		return DeltaStats{}, fmt.Errorf("failed to flush delta: %w", err)
	}

	scan.stats.NewFileLength = scan.position
	PushLogDebugf(db, "Built delta: %d bytes copied in %d commands, %d literal bytes in %d commands, %d checksum collisions",
		scan.stats.CopiedBytes, scan.stats.CopyCommands, scan.stats.LiteralBytes, scan.stats.DataCommands, scan.stats.ChecksumMisses)
	return scan.stats, nil
}

// buildChunkMap groups chunks by rolling checksum, keeping base file order within each group.
// Chunks with equal checksums or equal digests are all kept.
func buildChunkMap(chunks []ChunkSignature) map[uint32][]ChunkSignature {
	chunkMap := make(map[uint32][]ChunkSignature, len(chunks))
	for _, chunk := range chunks {
		chunkMap[chunk.RollingChecksum] = append(chunkMap[chunk.RollingChecksum], chunk)
	}
	return chunkMap
}

// findMatch returns the first candidate of the given length whose digest equals digest
func findMatch(candidates []ChunkSignature, digest []byte, length int) (ChunkSignature, bool) {
	for _, candidate := range candidates {
		if int(candidate.Length) == length && bytes.Equal(candidate.Hash, digest) {
			return candidate, true
		}
	}
	return ChunkSignature{}, false
}

// scan runs the rolling window over the whole stream, emitting a copy for every confirmed full chunk
func (db *DeltaBuilder) scan(ctx context.Context, s *deltaScan, readBuffer []byte) error {
	chunkSize := s.chunkSize
	window := s.window

	checksum := uint32(1)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		read, err := io.ReadFull(s.source, readBuffer)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("failed to read new file stream: %w", err)
		}
		reportRead(db.ReadDelegate, read)

		for i := 0; i < read; {
			if window.Count() == 0 && read-i >= chunkSize {
				// Right after a match: take a whole window at once
				block := readBuffer[i : i+chunkSize]
				window.AddBulk(block)
				checksum = s.roller.CalculateBlock(block, 1)
				i += chunkSize
				s.position += int64(chunkSize)
			} else {
				b := readBuffer[i]
				if window.IsFull() {
					removed, _ := window.Peek()
					window.Add(b)
					checksum = s.roller.Rotate(checksum, removed, b, chunkSize)
				} else {
					window.Add(b)
					checksum = s.roller.CalculateBlock(readBuffer[i:i+1], checksum)
				}
				i++
				s.position++
			}

			if s.position-s.lastMatchEnd < int64(chunkSize) {
				continue
			}

			chunk, ok := s.lookup(checksum, chunkSize)
			if !ok {
				continue
			}

			matchStart := s.position - int64(chunkSize)
			if matchStart > s.lastMatchEnd {
				if err := s.emitData(s.lastMatchEnd, matchStart-s.lastMatchEnd); err != nil {
					return err
				}
			}
			if err := s.emitCopy(chunk.StartOffset, int64(chunk.Length)); err != nil {
				return err
			}
			s.stats.ChunkMatches++

			window.Clear()
			checksum = 1
			s.lastMatchEnd = s.position
		}

		if read < len(readBuffer) {
			return nil
		}
	}
}

// deltaScan is the state of one BuildDelta call
type deltaScan struct {
	source      io.ReadSeeker
	writer      DeltaWriter
	mergeCopies bool

	chunkMap  map[uint32][]ChunkSignature
	roller    RollingChecksum
	hasher    HashAlgorithm
	chunkSize int

	window      *RingBuffer
	windowBytes []byte
	digest      []byte

	position     int64
	lastMatchEnd int64

	pendingCopy   bool
	pendingOffset int64
	pendingLength int64

	stats DeltaStats
}

// lookup confirms a rolling checksum hit against the strong hash of the window's last length bytes
func (s *deltaScan) lookup(checksum uint32, length int) (ChunkSignature, bool) {
	candidates, ok := s.chunkMap[checksum]
	if !ok {
		return ChunkSignature{}, false
	}

	n, _ := s.window.CopyTo(s.windowBytes)
	s.hasher.Append(s.windowBytes[n-length : n])
	s.hasher.GetHashAndReset(s.digest)

	chunk, ok := findMatch(candidates, s.digest, length)
	if !ok {
		s.stats.ChecksumMisses++
	}
	return chunk, ok
}

// matchFinalChunk checks whether the unmatched tail ends with the base file's short final chunk
func (s *deltaScan) matchFinalChunk(finalChunk ChunkSignature) error {
	finalLength := int(finalChunk.Length)
	if finalLength >= s.chunkSize || s.position-s.lastMatchEnd < int64(finalLength) {
		return nil
	}

	n, _ := s.window.CopyTo(s.windowBytes)
	if s.roller.CalculateBlock(s.windowBytes[n-finalLength:n], 1) != finalChunk.RollingChecksum {
		return nil
	}

	chunk, ok := s.lookup(finalChunk.RollingChecksum, finalLength)
	if !ok {
		return nil
	}

	matchStart := s.position - int64(finalLength)
	if matchStart > s.lastMatchEnd {
		if err := s.emitData(s.lastMatchEnd, matchStart-s.lastMatchEnd); err != nil {
			return err
		}
	}
	if err := s.emitCopy(chunk.StartOffset, int64(chunk.Length)); err != nil {
		return err
	}

	s.stats.ChunkMatches++
	s.stats.FinalChunkMatch = true
	s.window.Clear()
	s.lastMatchEnd = s.position
	return nil
}

func (s *deltaScan) emitCopy(offset, length int64) error {
	s.stats.CopiedBytes += length
	if s.mergeCopies && s.pendingCopy && s.pendingOffset+s.pendingLength == offset {
		s.pendingLength += length
		return nil
	}
	if err := s.flushCopy(); err != nil {
		return err
	}
	s.pendingCopy = true
	s.pendingOffset = offset
	s.pendingLength = length
	return nil
}

func (s *deltaScan) flushCopy() error {
	if !s.pendingCopy {
		return nil
	}
	s.pendingCopy = false
	s.stats.CopyCommands++
	return s.writer.WriteCopyCommand(s.pendingOffset, s.pendingLength)
}

func (s *deltaScan) emitData(position, length int64) error {
	if err := s.flushCopy(); err != nil {
		return err
	}
	s.stats.DataCommands++
	s.stats.LiteralBytes += length
	return s.writer.WriteDataCommand(s.source, position, length)
}
