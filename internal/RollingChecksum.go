package internal

// RollingChecksumOption identifies a rolling checksum implementation in signature metadata
type RollingChecksumOption uint8

const (
	Adler32Option RollingChecksumOption = 0
)

// String returns the option's name
func (o RollingChecksumOption) String() string {
	switch o {
	case Adler32Option:
		return "adler32"
	default:
		return "unknown"
	}
}

// RollingChecksum is a stateless checksum over a byte window that can be advanced one byte at a time.
// The caller owns the window; implementations only do the arithmetic.
type RollingChecksum interface {
	// Option returns the id stored in signature metadata for this implementation
	Option() RollingChecksumOption
	// CalculateBlock computes the checksum of block, continuing from start.
	// A start of 1 computes the checksum from scratch.
	CalculateBlock(block []byte, start uint32) uint32
	// Rotate removes the oldest byte of a windowLength-byte window and appends a new one
	Rotate(checksum uint32, remove, add byte, windowLength int) uint32
}
