package internal

const (
	adlerBase = 65521
	// adlerNMax is the largest n such that 255*n*(n+1)/2 + (n+1)*(base-1) fits in a uint32
	adlerNMax = 5552
)

// Adler32 is the Adler-32 two-sum checksum with an O(1) rotate
type Adler32 struct{}

// NewAdler32 returns the Adler-32 rolling checksum
func NewAdler32() RollingChecksum {
	return Adler32{}
}

// Option returns Adler32Option
func (Adler32) Option() RollingChecksumOption {
	return Adler32Option
}

// CalculateBlock returns s1 | s2<<16 over block, seeded with start
func (Adler32) CalculateBlock(block []byte, start uint32) uint32 {
	s1 := start & 0xffff
	s2 := start >> 16

	for len(block) > 0 {
		n := len(block)
		if n > adlerNMax {
			n = adlerNMax
		}
		for _, b := range block[:n] {
			s1 += uint32(b)
			s2 += s1
		}
		s1 %= adlerBase
		s2 %= adlerBase
		block = block[n:]
	}

	return s1 | (s2 << 16)
}

// Rotate slides the window by one byte. The result equals CalculateBlock over the shifted window.
func (Adler32) Rotate(checksum uint32, remove, add byte, windowLength int) uint32 {
	s1 := int64(checksum & 0xffff)
	s2 := int64(checksum >> 16)

	s1 = floorMod(s1-int64(remove)+int64(add), adlerBase)
	s2 = floorMod(s2-int64(windowLength)*int64(remove)+s1-1, adlerBase)

	return uint32(s1) | (uint32(s2) << 16)
}

func floorMod(value, modulus int64) int64 {
	value %= modulus
	if value < 0 {
		value += modulus
	}
	return value
}
