package main

import (
	"context"
	"io"

	"github.com/riverfog7/FasterRsync/internal"
)

// PatchCommand rebuilds cmd.OutputPath from cmd.BasePath and cmd.DeltaPath
func PatchCommand(ctx context.Context, cmd *PatchCmd, showProgress bool) int {
	base, _, err := openInput(cmd.BasePath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open base file")
		return 1
	}
	defer base.Close()

	if cmd.SignaturePath != "" {
		signature, err := readSignatureFile(cmd.SignaturePath)
		if err != nil {
			logger.Error().Err(err).Str("signature", cmd.SignaturePath).Msg("Failed to read signature")
			return 1
		}

		ok, err := internal.VerifyBaseFile(ctx, base, signature)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to verify base file")
			return 1
		}
		if !ok {
			logger.Error().Str("base", cmd.BasePath).Msg("Base file does not match the signature")
			return 2
		}
		logger.Debug().Str("base", cmd.BasePath).Msg("Base file verified")
	}

	delta, _, err := openInput(cmd.DeltaPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open delta file")
		return 1
	}
	defer delta.Close()

	applier := internal.NewDeltaApplier()
	progress := startProgress(showProgress, "Patch", 0)
	applier.WriteDelegate = progress.Add

	var written int64
	err = writeFileAtomic(cmd.OutputPath, func(w io.Writer) error {
		var applyErr error
		written, applyErr = applier.ApplyDelta(ctx, base, delta, w)
		return applyErr
	})
	progress.Stop()
	if err != nil {
		logger.Error().Err(err).Str("delta", cmd.DeltaPath).Msg("Failed to apply delta")
		return 1
	}

	logger.Info().
		Str("output", cmd.OutputPath).
		Str("size", summarizeSizeSimple(float64(written))).
		Msg("Patch applied")
	return 0
}
