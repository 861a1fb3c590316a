package internal

// SignatureMetadataVersion is the only signature layout version this package reads and writes
const SignatureMetadataVersion byte = 1

const (
	MinChunkSize     = 128
	DefaultChunkSize = 2048
	MaxChunkSize     = 31 * 1024
)

// SignatureMetadata selects the algorithms the rest of a signature must be interpreted with
type SignatureMetadata struct {
	Version               byte
	WholeFileHash         []byte
	ChunkSize             int16
	HashAlgorithmOption   HashAlgorithmOption
	RollingChecksumOption RollingChecksumOption
}

// NewSignatureMetadata creates metadata at the current version
func NewSignatureMetadata(wholeFileHash []byte, chunkSize int16, hashOption HashAlgorithmOption, rollingOption RollingChecksumOption) SignatureMetadata {
	return SignatureMetadata{
		Version:               SignatureMetadataVersion,
		WholeFileHash:         wholeFileHash,
		ChunkSize:             chunkSize,
		HashAlgorithmOption:   hashOption,
		RollingChecksumOption: rollingOption,
	}
}
