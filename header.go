package steg

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"
)

const (
	magic   = "LSB\x1a"
	version = 1

	// HeaderLen is the size of the encoded header:
	// magic(4) + version(1) + granularity(1) + compression(1) + length(uint32) + crc32(uint32).
	HeaderLen = len(magic) + 3 + 4 + 4
)

// Header describes the embedded payload. It is written ahead of the payload
// at one bit per channel.
type Header struct {
	Version     uint8
	Granularity Granularity
	Compression Compression
	Length      uint32 // embedded bytes, after compression
	Checksum    uint32 // CRC-32 (IEEE) of the embedded bytes
}

// Bytes encodes h in its big-endian wire layout.
func (h Header) Bytes() []byte {
	var b bytes.Buffer
	b.Grow(HeaderLen)
	b.WriteString(magic)
	b.WriteByte(h.Version)
	b.WriteByte(byte(h.Granularity))
	b.WriteByte(byte(h.Compression))
	writeU32BE(&b, h.Length)
	writeU32BE(&b, h.Checksum)
	return b.Bytes()
}

// Frame compresses payload according to mode and builds the header for it.
// Header and body come back separately because they are embedded at
// different granularities.
func Frame(payload []byte, g Granularity, mode Compression) (header, body []byte, err error) {
	if !g.Valid() {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidGranularity, g)
	}
	if !mode.Valid() {
		return nil, nil, fmt.Errorf("%w: %d", ErrInvalidCompression, mode)
	}

	body, err = MaybeCompress(payload, mode)
	if err != nil {
		return nil, nil, err
	}
	header, err = frameBody(body, g, mode)
	if err != nil {
		return nil, nil, err
	}
	return header, body, nil
}

// frameBody builds the header for an already compressed body.
func frameBody(body []byte, g Granularity, mode Compression) ([]byte, error) {
	if uint64(len(body)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(body))
	}

	h := Header{
		Version:     version,
		Granularity: g,
		Compression: mode,
		Length:      uint32(len(body)),
		Checksum:    crc32.ChecksumIEEE(body),
	}
	return h.Bytes(), nil
}

// ParseHeader decodes and validates an encoded header.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderLen {
		return Header{}, fmt.Errorf("%w: need %d bytes, have %d", ErrInvalidHeader, HeaderLen, len(b))
	}
	if string(b[:len(magic)]) != magic {
		return Header{}, fmt.Errorf("%w: magic mismatch", ErrInvalidHeader)
	}

	r := b[len(magic):]
	h := Header{
		Version:     r[0],
		Granularity: Granularity(r[1]),
		Compression: Compression(r[2]),
		Length:      binary.BigEndian.Uint32(r[3:7]),
		Checksum:    binary.BigEndian.Uint32(r[7:11]),
	}
	if h.Version != version {
		return Header{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidHeader, h.Version)
	}
	if !h.Granularity.Valid() {
		return Header{}, fmt.Errorf("%w: granularity %d", ErrInvalidHeader, h.Granularity)
	}
	if !h.Compression.Valid() {
		return Header{}, fmt.Errorf("%w: compression mode %d", ErrInvalidHeader, h.Compression)
	}
	return h, nil
}

func writeU32BE(b *bytes.Buffer, v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	b.Write(buf[:])
}
