package main

import (
	"context"
	"io"

	"github.com/riverfog7/FasterRsync/internal"
)

// SignatureCommand builds the signature of cmd.BasePath and writes it to cmd.SignaturePath
func SignatureCommand(ctx context.Context, cmd *SignatureCmd, showProgress bool) int {
	hashOption, err := internal.ParseHashAlgorithmOption(cmd.Hash)
	if err != nil {
		logger.Error().Err(err).Msg("Invalid hash algorithm")
		return 1
	}

	builder, err := internal.NewSignatureBuilder(hashOption, internal.Adler32Option, cmd.ChunkSize)
	if err != nil {
		logger.Error().Err(err).Msg("Invalid signature options")
		return 1
	}

	base, baseSize, err := openInput(cmd.BasePath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open base file")
		return 1
	}
	defer base.Close()

	progress := startProgress(showProgress, "Signature", baseSize)
	builder.ReadDelegate = progress.Add

	var signature *internal.Signature
	err = writeFileAtomic(cmd.SignaturePath, func(w io.Writer) error {
		var buildErr error
		signature, buildErr = builder.BuildSignature(ctx, base, internal.NewSignatureWriter(w))
		return buildErr
	})
	progress.Stop()
	if err != nil {
		logger.Error().Err(err).Str("base", cmd.BasePath).Msg("Failed to build signature")
		return 1
	}

	logger.Info().
		Str("base", cmd.BasePath).
		Str("signature", cmd.SignaturePath).
		Int("chunks", len(signature.Chunks)).
		Int("chunk_size", signature.ChunkSize()).
		Str("hash", signature.Metadata.HashAlgorithmOption.String()).
		Str("file_hash", internal.BytesToHex(signature.Metadata.WholeFileHash)).
		Msg("Signature written")
	return 0
}

// readSignatureFile reads and validates a signature file
func readSignatureFile(path string) (*internal.Signature, error) {
	file, _, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return internal.NewSignatureReader(file).ReadSignature()
}
