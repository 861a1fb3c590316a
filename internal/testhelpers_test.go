package internal

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomBytes(seed int64, n int) []byte {
	data := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(data)
	return data
}

func newTestSignatureBuilder(t *testing.T, hashOption HashAlgorithmOption, chunkSize int) *SignatureBuilder {
	t.Helper()
	builder, err := NewSignatureBuilder(hashOption, Adler32Option, chunkSize)
	require.NoError(t, err)
	return builder
}
