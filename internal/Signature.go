package internal

import "fmt"

// Signature is the ordered chunk list of a base file plus the metadata describing how it was hashed.
// It is read-only once built or read.
type Signature struct {
	Metadata SignatureMetadata
	Chunks   []ChunkSignature

	hashAlgorithm   HashAlgorithm
	rollingChecksum RollingChecksum
}

// NewSignature resolves the metadata's algorithm ids through the registry
func NewSignature(metadata SignatureMetadata, chunks []ChunkSignature) (*Signature, error) {
	hashAlgorithm, err := NewHashAlgorithm(metadata.HashAlgorithmOption)
	if err != nil {
		return nil, err
	}
	rollingChecksum, err := NewRollingChecksum(metadata.RollingChecksumOption)
	if err != nil {
		return nil, err
	}

	return &Signature{
		Metadata:        metadata,
		Chunks:          chunks,
		hashAlgorithm:   hashAlgorithm,
		rollingChecksum: rollingChecksum,
	}, nil
}

// HashAlgorithm returns the strong hash instance bound to this signature. It is stateful and must
// not be shared between concurrent operations.
func (s *Signature) HashAlgorithm() HashAlgorithm {
	return s.hashAlgorithm
}

// RollingChecksum returns the rolling checksum bound to this signature
func (s *Signature) RollingChecksum() RollingChecksum {
	return s.rollingChecksum
}

// ChunkSize returns the declared chunk size
func (s *Signature) ChunkSize() int {
	return int(s.Metadata.ChunkSize)
}

// BaseFileLength returns the length of the file the signature was built from
func (s *Signature) BaseFileLength() int64 {
	if len(s.Chunks) == 0 {
		return 0
	}
	return s.Chunks[len(s.Chunks)-1].End()
}

// Validate checks the chunk layout invariants: every chunk except the last is ChunkSize long,
// the last is in [1, ChunkSize], offsets are contiguous and every hash has the digest length.
func (s *Signature) Validate() error {
	if len(s.Chunks) == 0 {
		return fmt.Errorf("%w: signature has no chunks", ErrFormat)
	}

	chunkSize := s.Metadata.ChunkSize
	hashLength := s.hashAlgorithm.HashLengthInBytes()
	var offset int64
	for i, chunk := range s.Chunks {
		isLast := i == len(s.Chunks)-1
		if !isLast && chunk.Length != chunkSize {
			return fmt.Errorf("%w: chunk %d has length %d, expected %d", ErrFormat, i, chunk.Length, chunkSize)
		}
		if isLast && (chunk.Length < 1 || chunk.Length > chunkSize) {
			return fmt.Errorf("%w: final chunk length %d outside [1, %d]", ErrFormat, chunk.Length, chunkSize)
		}
		if chunk.StartOffset != offset {
			return fmt.Errorf("%w: chunk %d starts at %d, expected %d", ErrFormat, i, chunk.StartOffset, offset)
		}
		if len(chunk.Hash) != hashLength {
			return fmt.Errorf("%w: chunk %d hash is %d bytes, expected %d", ErrFormat, i, len(chunk.Hash), hashLength)
		}
		offset += int64(chunk.Length)
	}
	return nil
}
