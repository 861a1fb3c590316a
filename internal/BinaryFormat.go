package internal

// SignatureHeader is the magic prefix of every signature file
var SignatureHeader = [4]byte{'F', 'S', 'R', 'S'}

const (
	// signature metadata bytes after the magic: version, hash id, rolling id, chunk size
	signatureMetadataFixedSize = 1 + 1 + 1 + 2

	// rolling checksum stored after every chunk hash
	chunkChecksumSize = 4
	// final chunk carries its own length
	finalChunkLengthSize = 2

	// tag + length, followed by the literal bytes
	dataCommandHeaderSize = 1 + 8
	// tag + base offset + length
	copyCommandSize = 1 + 8 + 8

	// minimum pooled I/O buffer size
	minIOBufferSize = 8192
)
