package main

import (
	"encoding/json"
	"fmt"

	"github.com/riverfog7/FasterRsync/internal"
)

type chunkInfo struct {
	Offset          int64  `json:"offset"`
	Length          int16  `json:"length"`
	Hash            string `json:"hash"`
	RollingChecksum uint32 `json:"rolling_checksum"`
}

type signatureInfo struct {
	Version         byte        `json:"version"`
	HashAlgorithm   string      `json:"hash_algorithm"`
	RollingChecksum string      `json:"rolling_checksum"`
	ChunkSize       int16       `json:"chunk_size"`
	ChunkCount      int         `json:"chunk_count"`
	BaseFileLength  int64       `json:"base_file_length"`
	WholeFileHash   string      `json:"whole_file_hash"`
	Chunks          []chunkInfo `json:"chunks,omitempty"`
}

// InfoCommand prints the metadata of a signature file as JSON on stdout
func InfoCommand(cmd *InfoCmd) int {
	signature, err := readSignatureFile(cmd.SignaturePath)
	if err != nil {
		logger.Error().Err(err).Str("signature", cmd.SignaturePath).Msg("Failed to read signature")
		return 1
	}

	info := signatureInfo{
		Version:         signature.Metadata.Version,
		HashAlgorithm:   signature.Metadata.HashAlgorithmOption.String(),
		RollingChecksum: signature.Metadata.RollingChecksumOption.String(),
		ChunkSize:       signature.Metadata.ChunkSize,
		ChunkCount:      len(signature.Chunks),
		BaseFileLength:  signature.BaseFileLength(),
		WholeFileHash:   internal.BytesToHex(signature.Metadata.WholeFileHash),
	}
	if cmd.Chunks {
		info.Chunks = make([]chunkInfo, len(signature.Chunks))
		for i, chunk := range signature.Chunks {
			info.Chunks[i] = chunkInfo{
				Offset:          chunk.StartOffset,
				Length:          chunk.Length,
				Hash:            internal.BytesToHex(chunk.Hash),
				RollingChecksum: chunk.RollingChecksum,
			}
		}
	}

	jsonData, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to serialize signature info")
		return 1
	}
	fmt.Println(string(jsonData))
	return 0
}
