package internal

import (
	"context"
	"errors"
	"fmt"
	"io"

	pool "github.com/libp2p/go-buffer-pool"
)

// SignatureBuilder chunks a base file and computes per-chunk and whole-file digests
type SignatureBuilder struct {
	chunkSize             int16
	hashAlgorithmOption   HashAlgorithmOption
	rollingChecksumOption RollingChecksumOption

	rollingChecksum RollingChecksum

	// ReadDelegate, when set, is called after every buffer fill with the number of bytes read
	ReadDelegate DelegateReadStreamInfo
}

// NewSignatureBuilder validates chunkSize against [MinChunkSize, MaxChunkSize] and resolves both algorithms
func NewSignatureBuilder(hashOption HashAlgorithmOption, rollingOption RollingChecksumOption, chunkSize int) (*SignatureBuilder, error) {
	if chunkSize < MinChunkSize {
		return nil, fmt.Errorf("%w: chunk size cannot be less than %d, got %d", ErrConfiguration, MinChunkSize, chunkSize)
	}
	if chunkSize > MaxChunkSize {
		return nil, fmt.Errorf("%w: chunk size cannot exceed %d, got %d", ErrConfiguration, MaxChunkSize, chunkSize)
	}

	if _, err := NewHashAlgorithm(hashOption); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	rollingChecksum, err := NewRollingChecksum(rollingOption)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return &SignatureBuilder{
		chunkSize:             int16(chunkSize),
		hashAlgorithmOption:   hashOption,
		rollingChecksumOption: rollingOption,
		rollingChecksum:       rollingChecksum,
	}, nil
}

// ChunkSize returns the configured chunk size
func (sb *SignatureBuilder) ChunkSize() int {
	return int(sb.chunkSize)
}

// BuildSignature reads dataStream from its start and returns its signature. When sigWriter is not
// nil the finished signature is written through it; nothing is written if building fails.
// The stream position is restored before returning.
func (sb *SignatureBuilder) BuildSignature(ctx context.Context, dataStream io.ReadSeeker, sigWriter SignatureWriter) (*Signature, error) {
	originalPosition, err := dataStream.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream position: %w", err)
	}
	defer dataStream.Seek(originalPosition, io.SeekStart)

	if _, err := dataStream.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind stream: %w", err)
	}

	// Fresh hashers per call
	chunkHasher, _ := NewHashAlgorithm(sb.hashAlgorithmOption)
	fileHasher, _ := NewHashAlgorithm(sb.hashAlgorithmOption)

	chunks, err := sb.computeChunkSignatures(ctx, dataStream, chunkHasher, fileHasher)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyInput
	}

	fileHash := make([]byte, fileHasher.HashLengthInBytes())
	fileHasher.GetHashAndReset(fileHash)

	metadata := NewSignatureMetadata(fileHash, sb.chunkSize, sb.hashAlgorithmOption, sb.rollingChecksumOption)
	signature, err := NewSignature(metadata, chunks)
	if err != nil {
		return nil, err
	}

	PushLogDebugf(sb, "Built signature: %d chunks of %d bytes, %d bytes total", len(chunks), sb.chunkSize, signature.BaseFileLength())

	if sigWriter != nil {
		if err := sigWriter.WriteSignature(signature); err != nil {
			return nil, err
		}
	}
	return signature, nil
}

// computeChunkSignatures hashes every chunk with chunkHasher and feeds each chunk digest, not the
// raw bytes, into fileHasher
func (sb *SignatureBuilder) computeChunkSignatures(ctx context.Context, dataStream io.Reader, chunkHasher, fileHasher HashAlgorithm) ([]ChunkSignature, error) {
	chunkSize := int(sb.chunkSize)
	bufferLength := max(minIOBufferSize, chunkSize) / chunkSize * chunkSize
	buffer := pool.Get(bufferLength)
	defer pool.Put(buffer)

	hashLength := chunkHasher.HashLengthInBytes()

	var chunks []ChunkSignature
	var offset int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		read, err := io.ReadFull(dataStream, buffer)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("failed to read base stream: %w", err)
		}
		if read == 0 {
			break
		}
		reportRead(sb.ReadDelegate, read)

		for start := 0; start < read; start += chunkSize {
			end := min(start+chunkSize, read)
			chunkBytes := buffer[start:end]

			hash := make([]byte, hashLength)
			chunkHasher.Append(chunkBytes)
			chunkHasher.GetHashAndReset(hash)
			fileHasher.Append(hash)

			chunks = append(chunks, ChunkSignature{
				StartOffset:     offset,
				Length:          int16(len(chunkBytes)),
				Hash:            hash,
				RollingChecksum: sb.rollingChecksum.CalculateBlock(chunkBytes, 1),
			})
			offset += int64(len(chunkBytes))
		}

		if read < len(buffer) {
			break
		}
	}

	return chunks, nil
}
