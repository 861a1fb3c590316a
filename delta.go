package main

import (
	"context"
	"io"

	"github.com/riverfog7/FasterRsync/internal"
)

// DeltaCommand writes the delta that rebuilds cmd.NewPath from the base described by cmd.SignaturePath
func DeltaCommand(ctx context.Context, cmd *DeltaCmd, showProgress bool) int {
	signature, err := readSignatureFile(cmd.SignaturePath)
	if err != nil {
		logger.Error().Err(err).Str("signature", cmd.SignaturePath).Msg("Failed to read signature")
		return 1
	}

	newFile, newSize, err := openInput(cmd.NewPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open new file")
		return 1
	}
	defer newFile.Close()

	builder := internal.NewDeltaBuilder()
	builder.MatchFinalChunk = !cmd.NoTailMatch
	builder.MergeCopies = !cmd.NoMerge

	progress := startProgress(showProgress, "Delta", newSize)
	builder.ReadDelegate = progress.Add

	var stats internal.DeltaStats
	err = writeFileAtomic(cmd.DeltaPath, func(w io.Writer) error {
		var buildErr error
		stats, buildErr = builder.BuildDelta(ctx, newFile, signature, internal.NewDeltaWriter(w))
		return buildErr
	})
	progress.Stop()
	if err != nil {
		logger.Error().Err(err).Str("new", cmd.NewPath).Msg("Failed to build delta")
		return 1
	}

	logger.Info().
		Str("delta", cmd.DeltaPath).
		Int64("new_size", stats.NewFileLength).
		Str("copied", summarizeSizeSimple(float64(stats.CopiedBytes))).
		Str("literal", summarizeSizeSimple(float64(stats.LiteralBytes))).
		Int("copy_commands", stats.CopyCommands).
		Int("data_commands", stats.DataCommands).
		Int("checksum_collisions", stats.ChecksumMisses).
		Msg("Delta written")
	return 0
}
