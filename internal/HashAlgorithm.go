package internal

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
)

// HashAlgorithmOption identifies a strong hash implementation in signature metadata
type HashAlgorithmOption uint8

const (
	XXHash64Option HashAlgorithmOption = 0
	Blake3Option   HashAlgorithmOption = 1
)

// String returns the option's name as accepted by ParseHashAlgorithmOption
func (o HashAlgorithmOption) String() string {
	switch o {
	case XXHash64Option:
		return "xxhash64"
	case Blake3Option:
		return "blake3"
	default:
		return "unknown"
	}
}

// HashAlgorithm is an accumulating digest used to confirm rolling checksum hits
type HashAlgorithm interface {
	// Append feeds data into the running digest
	Append(data []byte)
	// GetHashAndReset writes the digest into destination, which must hold HashLengthInBytes
	// bytes, and resets the state for reuse
	GetHashAndReset(destination []byte)
	// HashLengthInBytes is the fixed digest size
	HashLengthInBytes() int
	// Option returns the id stored in signature metadata for this implementation
	Option() HashAlgorithmOption
}

// XXHash64 wraps xxhash.Digest. The digest is written big-endian.
type XXHash64 struct {
	digest *xxhash.Digest
}

// NewXXHash64 creates an XXH64 hash algorithm with seed 0
func NewXXHash64() HashAlgorithm {
	return &XXHash64{digest: xxhash.New()}
}

func (h *XXHash64) Append(data []byte) {
	_, _ = h.digest.Write(data)
}

func (h *XXHash64) GetHashAndReset(destination []byte) {
	binary.BigEndian.PutUint64(destination, h.digest.Sum64())
	h.digest.Reset()
}

func (h *XXHash64) HashLengthInBytes() int {
	return 8
}

func (h *XXHash64) Option() HashAlgorithmOption {
	return XXHash64Option
}

// Blake3 wraps blake3.Hasher with the default 32 byte output
type Blake3 struct {
	hasher *blake3.Hasher
}

// NewBlake3 creates a BLAKE3 hash algorithm
func NewBlake3() HashAlgorithm {
	return &Blake3{hasher: blake3.New()}
}

func (h *Blake3) Append(data []byte) {
	_, _ = h.hasher.Write(data)
}

func (h *Blake3) GetHashAndReset(destination []byte) {
	h.hasher.Sum(destination[:0])
	h.hasher.Reset()
}

func (h *Blake3) HashLengthInBytes() int {
	return 32
}

func (h *Blake3) Option() HashAlgorithmOption {
	return Blake3Option
}
