package steg

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// MaybeCompress returns data unchanged for CompressionNone and the compressed
// form otherwise.
func MaybeCompress(data []byte, mode Compression) ([]byte, error) {
	switch mode {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		return compressGzip(data)
	case CompressionZstd:
		return compressZstd(data), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidCompression, mode)
}

// MaybeDecompress reverses MaybeCompress. Malformed input fails with
// ErrDecompression.
func MaybeDecompress(data []byte, mode Compression) ([]byte, error) {
	switch mode {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		out, err := decompressGzip(data)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %v", ErrDecompression, err)
		}
		return out, nil
	case CompressionZstd:
		out, err := decompressZstd(data)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrDecompression, err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidCompression, mode)
}

func compressGzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressGzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	return io.ReadAll(zr)
}

// Zstd coders are expensive to build, so they are pooled. Each one is
// single-threaded; concurrent encodes take separate coders from the pool.
var (
	zstdEncoders = sync.Pool{New: func() any {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		)
		if err != nil {
			panic(err)
		}
		return enc
	}}
	zstdDecoders = sync.Pool{New: func() any {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(true),
		)
		if err != nil {
			panic(err)
		}
		return dec
	}}
)

// compressZstd returns one zstd frame holding data. An empty payload stays
// empty so that nothing but the header is embedded.
func compressZstd(data []byte) []byte {
	if len(data) == 0 {
		return data
	}
	enc := zstdEncoders.Get().(*zstd.Encoder)
	defer zstdEncoders.Put(enc)
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2))
}

func decompressZstd(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	dec := zstdDecoders.Get().(*zstd.Decoder)
	defer zstdDecoders.Put(dec)
	return dec.DecodeAll(data, nil)
}
