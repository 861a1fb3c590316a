package internal

import (
	"fmt"
	"sort"
	"strings"
)

var hashAlgorithmFactories = map[HashAlgorithmOption]func() HashAlgorithm{
	XXHash64Option: NewXXHash64,
	Blake3Option:   NewBlake3,
}

var rollingChecksumFactories = map[RollingChecksumOption]func() RollingChecksum{
	Adler32Option: NewAdler32,
}

// NewHashAlgorithm creates a fresh instance of the strong hash registered under option
func NewHashAlgorithm(option HashAlgorithmOption) (HashAlgorithm, error) {
	factory, ok := hashAlgorithmFactories[option]
	if !ok {
		return nil, fmt.Errorf("%w: hash algorithm id %d", ErrUnknownAlgorithm, uint8(option))
	}
	return factory(), nil
}

// NewRollingChecksum returns the rolling checksum registered under option
func NewRollingChecksum(option RollingChecksumOption) (RollingChecksum, error) {
	factory, ok := rollingChecksumFactories[option]
	if !ok {
		return nil, fmt.Errorf("%w: rolling checksum id %d", ErrUnknownAlgorithm, uint8(option))
	}
	return factory(), nil
}

// ParseHashAlgorithmOption maps a case-insensitive algorithm name to its option
func ParseHashAlgorithmOption(name string) (HashAlgorithmOption, error) {
	for option := range hashAlgorithmFactories {
		if strings.EqualFold(option.String(), name) {
			return option, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownAlgorithm, name, strings.Join(HashAlgorithmNames(), ", "))
}

// HashAlgorithmNames lists the registered strong hash names in id order
func HashAlgorithmNames() []string {
	options := make([]int, 0, len(hashAlgorithmFactories))
	for option := range hashAlgorithmFactories {
		options = append(options, int(option))
	}
	sort.Ints(options)

	names := make([]string, len(options))
	for i, option := range options {
		names[i] = HashAlgorithmOption(option).String()
	}
	return names
}
