package internal

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// SignatureWriter persists a complete signature
type SignatureWriter interface {
	WriteSignature(signature *Signature) error
}

// BinarySignatureWriter writes the little-endian FSRS signature layout
type BinarySignatureWriter struct {
	writer io.Writer
}

// NewSignatureWriter creates a writer over w
func NewSignatureWriter(w io.Writer) *BinarySignatureWriter {
	return &BinarySignatureWriter{writer: w}
}

// WriteSignature writes metadata followed by every chunk record. Non-final chunks store only the
// hash and rolling checksum; the final chunk also stores its length.
func (sw *BinarySignatureWriter) WriteSignature(signature *Signature) error {
	if err := signature.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriterSize(sw.writer, minIOBufferSize)
	if err := writeSignatureMetadata(bw, signature.Metadata); err != nil {
		return fmt.Errorf("failed to write signature metadata: %w", err)
	}

	var scratch [chunkChecksumSize + finalChunkLengthSize]byte
	lastIndex := len(signature.Chunks) - 1
	for i, chunk := range signature.Chunks {
		if _, err := bw.Write(chunk.Hash); err != nil {
			return fmt.Errorf("failed to write chunk %d: %w", i, err)
		}

		binary.LittleEndian.PutUint32(scratch[:chunkChecksumSize], chunk.RollingChecksum)
		record := scratch[:chunkChecksumSize]
		if i == lastIndex {
			binary.LittleEndian.PutUint16(scratch[chunkChecksumSize:], uint16(chunk.Length))
			record = scratch[:]
		}
		if _, err := bw.Write(record); err != nil {
			return fmt.Errorf("failed to write chunk %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush signature: %w", err)
	}
	return nil
}

func writeSignatureMetadata(w io.Writer, metadata SignatureMetadata) error {
	header := make([]byte, 0, len(SignatureHeader)+signatureMetadataFixedSize)
	header = append(header, SignatureHeader[:]...)
	header = append(header, metadata.Version, byte(metadata.HashAlgorithmOption), byte(metadata.RollingChecksumOption))
	header = binary.LittleEndian.AppendUint16(header, uint16(metadata.ChunkSize))

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(metadata.WholeFileHash)
	return err
}
