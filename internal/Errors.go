package internal

import "errors"

var (
	// ErrFormat is returned when a signature or delta stream is malformed or has the wrong magic/version
	ErrFormat = errors.New("invalid binary format")

	// ErrConfiguration is returned when a builder is constructed with invalid parameters
	ErrConfiguration = errors.New("invalid configuration")

	// ErrEmptyInput is returned when a signature is requested for a zero-length base file
	ErrEmptyInput = errors.New("input stream is empty")

	// ErrEmptyBuffer is returned by RingBuffer when reading from an empty buffer
	ErrEmptyBuffer = errors.New("ring buffer is empty")

	// ErrUnknownAlgorithm is returned when an algorithm id has no registered implementation
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)
