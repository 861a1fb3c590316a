package internal

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"io"
)

// BytesToHex converts a byte slice to a hexadecimal string
func BytesToHex(bytes []byte) string {
	return hex.EncodeToString(bytes)
}

// VerifyBaseFile recomputes the whole-file hash of base with the signature's algorithms and
// chunk size and reports whether it matches the signature. The position of base is restored.
func VerifyBaseFile(ctx context.Context, base io.ReadSeeker, signature *Signature) (bool, error) {
	metadata := signature.Metadata
	builder, err := NewSignatureBuilder(metadata.HashAlgorithmOption, metadata.RollingChecksumOption, int(metadata.ChunkSize))
	if err != nil {
		return false, err
	}

	actual, err := builder.BuildSignature(ctx, base, nil)
	if errors.Is(err, ErrEmptyInput) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if actual.BaseFileLength() != signature.BaseFileLength() {
		PushLogWarning(nil, "Base file length does not match the signature")
		return false, nil
	}
	if !bytes.Equal(actual.Metadata.WholeFileHash, metadata.WholeFileHash) {
		PushLogWarningf(nil, "Base file hash %s does not match signature hash %s",
			BytesToHex(actual.Metadata.WholeFileHash), BytesToHex(metadata.WholeFileHash))
		return false, nil
	}
	return true, nil
}
