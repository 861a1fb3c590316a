package internal

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestSignature(t *testing.T, hashOption HashAlgorithmOption, chunkSize int, data []byte) (*Signature, []byte) {
	t.Helper()
	var out bytes.Buffer
	signature, err := newTestSignatureBuilder(t, hashOption, chunkSize).
		BuildSignature(context.Background(), bytes.NewReader(data), NewSignatureWriter(&out))
	require.NoError(t, err)
	return signature, out.Bytes()
}

func TestSignatureCodec_RoundTrip(t *testing.T) {
	cases := []struct {
		name      string
		hash      HashAlgorithmOption
		chunkSize int
		length    int
	}{
		{"single short chunk", XXHash64Option, DefaultChunkSize, 17},
		{"exact multiple", XXHash64Option, MinChunkSize, MinChunkSize * 8},
		{"short final chunk", XXHash64Option, 1000, 12345},
		{"max chunk size", XXHash64Option, MaxChunkSize, MaxChunkSize*2 + 1},
		{"blake3", Blake3Option, DefaultChunkSize, 20000},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			signature, encoded := encodeTestSignature(t, tc.hash, tc.chunkSize, randomBytes(int64(100+i), tc.length))

			hashLength := signature.HashAlgorithm().HashLengthInBytes()
			expectedSize := len(SignatureHeader) + signatureMetadataFixedSize + hashLength +
				len(signature.Chunks)*(hashLength+chunkChecksumSize) + finalChunkLengthSize
			assert.Len(t, encoded, expectedSize)

			decoded, err := NewSignatureReader(bytes.NewReader(encoded)).ReadSignature()
			require.NoError(t, err)
			assert.Equal(t, signature.Metadata, decoded.Metadata)
			assert.Equal(t, signature.Chunks, decoded.Chunks)
			assert.Equal(t, int64(tc.length), decoded.BaseFileLength())
		})
	}
}

func TestSignatureCodec_HeaderLayout(t *testing.T) {
	signature, encoded := encodeTestSignature(t, XXHash64Option, 4096, randomBytes(120, 5000))

	assert.Equal(t, []byte("FSRS"), encoded[:4])
	assert.Equal(t, SignatureMetadataVersion, encoded[4])
	assert.Equal(t, byte(XXHash64Option), encoded[5])
	assert.Equal(t, byte(Adler32Option), encoded[6])
	assert.Equal(t, uint16(4096), binary.LittleEndian.Uint16(encoded[7:9]))
	assert.Equal(t, signature.Metadata.WholeFileHash, encoded[9:17])

	// Final record carries the short chunk length
	finalLength := binary.LittleEndian.Uint16(encoded[len(encoded)-2:])
	assert.Equal(t, uint16(5000-4096), finalLength)
	finalChecksum := binary.LittleEndian.Uint32(encoded[len(encoded)-6 : len(encoded)-2])
	assert.Equal(t, signature.Chunks[1].RollingChecksum, finalChecksum)
}

func TestSignatureCodec_ReadMetadataOnly(t *testing.T) {
	signature, encoded := encodeTestSignature(t, Blake3Option, DefaultChunkSize, randomBytes(121, 9000))

	metadata, err := NewSignatureReader(bytes.NewReader(encoded)).ReadSignatureMetadata()
	require.NoError(t, err)
	assert.Equal(t, signature.Metadata, metadata)
}

func TestSignatureCodec_RejectsMalformedInput(t *testing.T) {
	_, encoded := encodeTestSignature(t, XXHash64Option, MinChunkSize, randomBytes(122, 1000))

	mutate := func(f func(b []byte) []byte) []byte {
		return f(append([]byte(nil), encoded...))
	}

	cases := map[string][]byte{
		"empty":     {},
		"bad magic": mutate(func(b []byte) []byte { b[0] = 'X'; return b }),
		"bad version": mutate(func(b []byte) []byte {
			b[4] = SignatureMetadataVersion + 1
			return b
		}),
		"unknown hash": mutate(func(b []byte) []byte { b[5] = 0x7f; return b }),
		"unknown rolling checksum": mutate(func(b []byte) []byte {
			b[6] = 0x7f
			return b
		}),
		"chunk size too small": mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[7:9], MinChunkSize-1)
			return b
		}),
		"chunk size too large": mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[7:9], MaxChunkSize+1)
			return b
		}),
		"truncated metadata":   encoded[:6],
		"truncated file hash":  encoded[:12],
		"no chunks":            encoded[:17],
		"truncated last chunk": encoded[:len(encoded)-1],
		"trailing garbage":     append(append([]byte(nil), encoded...), 0xAA),
		"final length larger than chunk": mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[len(b)-2:], MinChunkSize+1)
			return b
		}),
		"final length zero": mutate(func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[len(b)-2:], 0)
			return b
		}),
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewSignatureReader(bytes.NewReader(input)).ReadSignature()
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestSignatureWriter_RejectsInvalidSignature(t *testing.T) {
	signature, _ := encodeTestSignature(t, XXHash64Option, MinChunkSize, randomBytes(123, 1000))
	signature.Chunks[2].Length = 5

	var out bytes.Buffer
	err := NewSignatureWriter(&out).WriteSignature(signature)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Zero(t, out.Len())
}
