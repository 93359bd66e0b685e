package steg

import (
	"fmt"
	"strconv"
	"strings"
)

// Granularity is the number of low bits of each channel value that carry
// payload data. Distortion grows with it, channel usage shrinks.
type Granularity uint8

const (
	OneBit    Granularity = 1
	TwoBits   Granularity = 2
	ThreeBits Granularity = 3
	FourBits  Granularity = 4
)

// headerGranularity is fixed so the header can be read before the payload
// granularity is known.
const headerGranularity = OneBit

// Valid reports whether g is one of the supported granularities.
func (g Granularity) Valid() bool {
	return g >= OneBit && g <= FourBits
}

// mask returns the low-bit mask for g.
func (g Granularity) mask() uint8 {
	return uint8(1)<<g - 1
}

func (g Granularity) String() string {
	return strconv.Itoa(int(g))
}

// ParseGranularity accepts "1".."4".
func ParseGranularity(s string) (Granularity, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < int(OneBit) || n > int(FourBits) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidGranularity, s)
	}
	return Granularity(n), nil
}

// Compression selects the optional pass applied to the payload before
// framing. The value is stored in the header.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionGzip Compression = 1
	CompressionZstd Compression = 2
)

// Valid reports whether c is a known compression mode.
func (c Compression) Valid() bool {
	return c <= CompressionZstd
}

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

// ParseCompression accepts the names returned by Compression.String.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCompression, s)
}
