package internal

import (
	"bytes"
	"context"
	"io"
	"testing"
)

func BenchmarkBuildSignature(b *testing.B) {
	buf := randomBytes(1, 8<<20)
	builder, _ := NewSignatureBuilder(XXHash64Option, Adler32Option, DefaultChunkSize)
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		builder.BuildSignature(context.Background(), bytes.NewReader(buf), nil)
	}
}

func BenchmarkBuildDelta(b *testing.B) {
	base := randomBytes(2, 8<<20)
	target := append([]byte(nil), base...)
	for i := 1000; i < len(target); i += 64 << 10 {
		target[i] ^= 0xff
	}

	builder, _ := NewSignatureBuilder(XXHash64Option, Adler32Option, DefaultChunkSize)
	signature, _ := builder.BuildSignature(context.Background(), bytes.NewReader(base), nil)
	deltaBuilder := NewDeltaBuilder()
	b.SetBytes(int64(len(target)))
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		deltaBuilder.BuildDelta(context.Background(), bytes.NewReader(target), signature, NewDeltaWriter(io.Discard))
	}
}

func BenchmarkAdler32Rotate(b *testing.B) {
	buf := randomBytes(3, 1<<20)
	roller := NewAdler32()
	b.SetBytes(int64(len(buf) - DefaultChunkSize))
	for n := 0; n < b.N; n++ {
		checksum := roller.CalculateBlock(buf[:DefaultChunkSize], 1)
		for i := DefaultChunkSize; i < len(buf); i++ {
			checksum = roller.Rotate(checksum, buf[i-DefaultChunkSize], buf[i], DefaultChunkSize)
		}
	}
}
