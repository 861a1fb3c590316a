package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
)

// Define command structs
type SignatureCmd struct {
	BasePath      string `arg:"positional,required" help:"Base file to build the signature from"`
	SignaturePath string `arg:"positional,required" help:"Path to output signature file"`
	ChunkSize     int    `arg:"--chunk-size,env:FSRS_CHUNK_SIZE" default:"2048" help:"Chunk size in bytes (128 to 31744)"`
	Hash          string `arg:"--hash,env:FSRS_HASH" default:"xxhash64" help:"Strong hash algorithm (xxhash64 or blake3)"`
}

type DeltaCmd struct {
	SignaturePath string `arg:"positional,required" help:"Signature of the base file"`
	NewPath       string `arg:"positional,required" help:"New file to describe"`
	DeltaPath     string `arg:"positional,required" help:"Path to output delta file"`
	NoTailMatch   bool   `arg:"--no-tail-match" help:"Always send an unmatched tail as literal data"`
	NoMerge       bool   `arg:"--no-merge" help:"Emit one copy command per matched chunk"`
}

type PatchCmd struct {
	BasePath      string `arg:"positional,required" help:"Base file the delta was built against"`
	DeltaPath     string `arg:"positional,required" help:"Delta file to apply"`
	OutputPath    string `arg:"positional,required" help:"Path to output reconstructed file"`
	SignaturePath string `arg:"--signature" help:"Verify the base file against this signature before patching"`
}

type InfoCmd struct {
	SignaturePath string `arg:"positional,required" help:"Signature file to describe"`
	Chunks        bool   `arg:"--chunks" help:"Include every chunk record"`
}

// Root command struct
type Args struct {
	Signature *SignatureCmd `arg:"subcommand:signature" help:"Build the signature of a base file"`
	Delta     *DeltaCmd     `arg:"subcommand:delta" help:"Build a delta from a signature and a new file"`
	Patch     *PatchCmd     `arg:"subcommand:patch" help:"Rebuild a new file from a base file and a delta"`
	Info      *InfoCmd      `arg:"subcommand:info" help:"Print signature metadata as JSON"`

	Verbose  bool `arg:"-v,--verbose,env:FSRS_VERBOSE" help:"Enable debug logging"`
	Progress bool `arg:"--progress" help:"Report progress on stderr"`
}

func (Args) Description() string {
	return "rsync-style signatures, deltas and patches for single files"
}

func main() {
	var args Args
	p := arg.MustParse(&args)

	setupLogger(args.Verbose)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var code int
	switch {
	case args.Signature != nil:
		code = SignatureCommand(ctx, args.Signature, args.Progress)
	case args.Delta != nil:
		code = DeltaCommand(ctx, args.Delta, args.Progress)
	case args.Patch != nil:
		code = PatchCommand(ctx, args.Patch, args.Progress)
	case args.Info != nil:
		code = InfoCommand(args.Info)
	default:
		p.WriteHelp(os.Stderr)
		fmt.Fprintln(os.Stderr, "No command specified")
		code = 1
	}

	cancel()
	os.Exit(code)
}
