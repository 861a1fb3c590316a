package internal

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// SignatureReader reconstructs a signature written by BinarySignatureWriter
type SignatureReader struct {
	stream io.ReadSeeker
	reader *bufio.Reader
}

// NewSignatureReader creates a reader over a seekable signature stream
func NewSignatureReader(stream io.ReadSeeker) *SignatureReader {
	return &SignatureReader{stream: stream}
}

// ReadSignature reads the whole signature from the start of the stream
func (sr *SignatureReader) ReadSignature() (*Signature, error) {
	streamLength, err := sr.stream.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to get signature length: %w", err)
	}
	if _, err := sr.stream.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind signature: %w", err)
	}
	sr.reader = bufio.NewReaderSize(sr.stream, minIOBufferSize)

	metadata, err := sr.readMetadata()
	if err != nil {
		return nil, err
	}

	signature, err := NewSignature(metadata, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	hashLength := signature.HashAlgorithm().HashLengthInBytes()
	headerLength := int64(len(SignatureHeader) + signatureMetadataFixedSize + hashLength)
	chunks, err := sr.readChunks(metadata.ChunkSize, hashLength, streamLength-headerLength)
	if err != nil {
		return nil, err
	}
	signature.Chunks = chunks

	if err := signature.Validate(); err != nil {
		return nil, err
	}
	return signature, nil
}

// ReadSignatureMetadata reads only the metadata from the start of the stream
func (sr *SignatureReader) ReadSignatureMetadata() (SignatureMetadata, error) {
	if _, err := sr.stream.Seek(0, io.SeekStart); err != nil {
		return SignatureMetadata{}, fmt.Errorf("failed to rewind signature: %w", err)
	}
	sr.reader = bufio.NewReaderSize(sr.stream, minIOBufferSize)
	return sr.readMetadata()
}

func (sr *SignatureReader) readMetadata() (SignatureMetadata, error) {
	var header [len(SignatureHeader) + signatureMetadataFixedSize]byte
	if _, err := io.ReadFull(sr.reader, header[:]); err != nil {
		return SignatureMetadata{}, wrapTruncated("signature metadata", err)
	}

	if [4]byte(header[:4]) != SignatureHeader {
		return SignatureMetadata{}, fmt.Errorf("%w: the provided file is not a signature (magic %q)", ErrFormat, header[:4])
	}

	version := header[4]
	if version != SignatureMetadataVersion {
		return SignatureMetadata{}, fmt.Errorf("%w: the provided signature is of a different version. Got: %d, Expected: %d",
			ErrFormat, version, SignatureMetadataVersion)
	}

	hashOption := HashAlgorithmOption(header[5])
	rollingOption := RollingChecksumOption(header[6])
	chunkSize := int16(binary.LittleEndian.Uint16(header[7:9]))
	if chunkSize < MinChunkSize || chunkSize > MaxChunkSize {
		return SignatureMetadata{}, fmt.Errorf("%w: chunk size %d outside [%d, %d]", ErrFormat, chunkSize, MinChunkSize, MaxChunkSize)
	}

	hashAlgorithm, err := NewHashAlgorithm(hashOption)
	if err != nil {
		return SignatureMetadata{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if _, err := NewRollingChecksum(rollingOption); err != nil {
		return SignatureMetadata{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	wholeFileHash := make([]byte, hashAlgorithm.HashLengthInBytes())
	if _, err := io.ReadFull(sr.reader, wholeFileHash); err != nil {
		return SignatureMetadata{}, wrapTruncated("whole file hash", err)
	}

	return SignatureMetadata{
		Version:               version,
		WholeFileHash:         wholeFileHash,
		ChunkSize:             chunkSize,
		HashAlgorithmOption:   hashOption,
		RollingChecksumOption: rollingOption,
	}, nil
}

func (sr *SignatureReader) readChunks(chunkSize int16, hashLength int, remainingBytes int64) ([]ChunkSignature, error) {
	recordLength := int64(hashLength + chunkChecksumSize)
	chunkBytes := remainingBytes - finalChunkLengthSize
	if chunkBytes < recordLength || chunkBytes%recordLength != 0 {
		return nil, fmt.Errorf("%w: the provided signature has malformed chunks (%d trailing bytes)", ErrFormat, remainingBytes)
	}

	expectedChunks := chunkBytes / recordLength
	chunks := make([]ChunkSignature, expectedChunks)
	var scratch [chunkChecksumSize + finalChunkLengthSize]byte
	var start int64

	for i := int64(0); i < expectedChunks; i++ {
		isLast := i == expectedChunks-1

		hash := make([]byte, hashLength)
		if _, err := io.ReadFull(sr.reader, hash); err != nil {
			return nil, wrapTruncated("chunk hash", err)
		}

		record := scratch[:chunkChecksumSize]
		if isLast {
			record = scratch[:]
		}
		if _, err := io.ReadFull(sr.reader, record); err != nil {
			return nil, wrapTruncated("chunk record", err)
		}

		length := chunkSize
		if isLast {
			length = int16(binary.LittleEndian.Uint16(scratch[chunkChecksumSize:]))
		}

		chunks[i] = ChunkSignature{
			StartOffset:     start,
			Length:          length,
			Hash:            hash,
			RollingChecksum: binary.LittleEndian.Uint32(scratch[:chunkChecksumSize]),
		}
		start += int64(length)
	}

	return chunks, nil
}

func wrapTruncated(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: truncated %s", ErrFormat, what)
	}
	return fmt.Errorf("failed to read %s: %w", what, err)
}
