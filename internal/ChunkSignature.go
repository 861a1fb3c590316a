package internal

// ChunkSignature describes one region of the base file.
// StartOffset is derived while building or reading a signature and is never stored on disk.
type ChunkSignature struct {
	StartOffset     int64
	Length          int16
	Hash            []byte
	RollingChecksum uint32
}

// End returns the base file offset just past the chunk
func (c ChunkSignature) End() int64 {
	return c.StartOffset + int64(c.Length)
}
