package internal

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyBaseFile(t *testing.T) {
	ctx := context.Background()
	base := randomBytes(500, 9000)

	signature, err := newTestSignatureBuilder(t, XXHash64Option, MinChunkSize).BuildSignature(ctx, bytes.NewReader(base), nil)
	require.NoError(t, err)

	ok, err := VerifyBaseFile(ctx, bytes.NewReader(base), signature)
	require.NoError(t, err)
	assert.True(t, ok)

	modified := append([]byte(nil), base...)
	modified[4500] ^= 1
	ok, err = VerifyBaseFile(ctx, bytes.NewReader(modified), signature)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = VerifyBaseFile(ctx, bytes.NewReader(base[:8999]), signature)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = VerifyBaseFile(ctx, bytes.NewReader(nil), signature)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBytesToHex(t *testing.T) {
	assert.Equal(t, "00ff10", BytesToHex([]byte{0x00, 0xff, 0x10}))
}
