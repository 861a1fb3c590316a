package internal

import "fmt"

// DeltaCommandKind is the tag byte of a delta command record
type DeltaCommandKind byte

const (
	DataCommand DeltaCommandKind = 0x80
	CopyCommand DeltaCommandKind = 0x60
)

func (k DeltaCommandKind) String() string {
	switch k {
	case DataCommand:
		return "data"
	case CopyCommand:
		return "copy"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(k))
	}
}

// DeltaCommand is one record of a delta stream.
// Copy commands reuse Length bytes of the base file at BaseOffset.
// Data commands carry Length literal bytes, read through DeltaReader.Data.
type DeltaCommand struct {
	Kind       DeltaCommandKind
	BaseOffset int64
	Length     int64
}
