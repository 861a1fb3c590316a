package internal

import (
	"hash/adler32"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdler32_CalculateBlockMatchesStandardAdler32(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	roller := NewAdler32()

	for _, size := range []int{0, 1, 31, 128, 5551, 5552, 5553, 31744, 100000} {
		block := make([]byte, size)
		rng.Read(block)
		assert.Equal(t, adler32.Checksum(block), roller.CalculateBlock(block, 1), "size %d", size)
	}

	saturated := make([]byte, 20000)
	for i := range saturated {
		saturated[i] = 0xff
	}
	assert.Equal(t, adler32.Checksum(saturated), roller.CalculateBlock(saturated, 1))
}

func TestAdler32_CalculateBlockContinuesFromStart(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	roller := NewAdler32()

	data := make([]byte, 3000)
	rng.Read(data)

	whole := roller.CalculateBlock(data, 1)
	split := roller.CalculateBlock(data[1234:], roller.CalculateBlock(data[:1234], 1))
	assert.Equal(t, whole, split)

	byteWise := uint32(1)
	for i := range data {
		byteWise = roller.CalculateBlock(data[i:i+1], byteWise)
	}
	assert.Equal(t, whole, byteWise)
}

func TestAdler32_RotateEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	roller := NewAdler32()
	windowSizes := []int{1, 2, 16, MinChunkSize, 1000, DefaultChunkSize, MaxChunkSize}

	for i := 0; i < 10000; i++ {
		windowLength := windowSizes[i%len(windowSizes)]
		if i%2 == 1 {
			windowLength = 1 + rng.Intn(4096)
		}

		data := make([]byte, windowLength+1)
		rng.Read(data)
		// Bias some windows to extremes to exercise negative intermediates
		switch i % 5 {
		case 0:
			data[0] = 0xff
			data[windowLength] = 0
		case 1:
			data[0] = 0
			data[windowLength] = 0xff
		}

		window := data[:windowLength]
		shifted := data[1:]

		rotated := roller.Rotate(roller.CalculateBlock(window, 1), data[0], data[windowLength], windowLength)
		require.Equal(t, roller.CalculateBlock(shifted, 1), rotated, "iteration %d window %d", i, windowLength)
	}
}

func TestAdler32_RotateAlongStream(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	roller := NewAdler32()

	const windowLength = MinChunkSize
	stream := make([]byte, 20000)
	rng.Read(stream)

	checksum := roller.CalculateBlock(stream[:windowLength], 1)
	for i := windowLength; i < len(stream); i++ {
		checksum = roller.Rotate(checksum, stream[i-windowLength], stream[i], windowLength)
		require.Equal(t, roller.CalculateBlock(stream[i-windowLength+1:i+1], 1), checksum, "offset %d", i)
	}
}

func TestAdler32_Option(t *testing.T) {
	assert.Equal(t, Adler32Option, NewAdler32().Option())
	assert.Equal(t, "adler32", Adler32Option.String())
}
