package steg

import (
	"fmt"
	"hash/crc32"

	"github.com/rs/zerolog"
)

type decodeState uint8

const (
	decodeIdle decodeState = iota
	decodeExtractingHeader
	decodeValidatingHeader
	decodeExtractingPayload
	decodeDecompressing
	decodeDone
	decodeFailed
)

var decodeStateNames = [...]string{
	decodeIdle:              "idle",
	decodeExtractingHeader:  "extracting-header",
	decodeValidatingHeader:  "validating-header",
	decodeExtractingPayload: "extracting-payload",
	decodeDecompressing:     "decompressing",
	decodeDone:              "done",
	decodeFailed:            "failed",
}

func (s decodeState) String() string {
	if int(s) < len(decodeStateNames) {
		return decodeStateNames[s]
	}
	return fmt.Sprintf("decodeState(%d)", uint8(s))
}

// Decoder recovers payloads from stego grids. Granularity and compression
// come from the embedded header, so a Decoder needs no configuration.
type Decoder struct {
	Log zerolog.Logger
}

// NewDecoder returns a Decoder that does not log.
func NewDecoder() *Decoder {
	return &Decoder{Log: zerolog.Nop()}
}

// Decode extracts the payload from stego. The grid is only read.
func (d *Decoder) Decode(stego *Grid) ([]byte, error) {
	state := decodeIdle
	enter := func(next decodeState) {
		d.Log.Trace().Stringer("from", state).Stringer("to", next).Msg("decode state")
		state = next
	}
	fail := func(err error) ([]byte, error) {
		enter(decodeFailed)
		return nil, err
	}

	if err := stego.Validate(); err != nil {
		return fail(err)
	}

	enter(decodeExtractingHeader)
	ch := newBitChannel(stego)
	raw, err := readHeader(ch)
	if err != nil {
		return fail(err)
	}

	enter(decodeValidatingHeader)
	h, err := ParseHeader(raw)
	if err != nil {
		return fail(err)
	}
	d.Log.Debug().
		Stringer("granularity", h.Granularity).
		Stringer("compression", h.Compression).
		Uint32("length", h.Length).
		Msg("decoded header")

	enter(decodeExtractingPayload)
	need := UnitCount(int(h.Length), h.Granularity)
	if ch.remaining() < need {
		return fail(fmt.Errorf("%w: header declares %d bytes, image holds %d more units", ErrInvalidHeader, h.Length, ch.remaining()))
	}
	units, err := ch.readUnits(h.Granularity, need)
	if err != nil {
		return fail(err)
	}
	body, err := Join(units, h.Granularity, int(h.Length))
	if err != nil {
		return fail(err)
	}

	// A damaged compressed body is reported as a decompression failure; the
	// checksum only decides once the body has inflated cleanly.
	enter(decodeDecompressing)
	payload, err := MaybeDecompress(body, h.Compression)
	if err != nil {
		return fail(err)
	}
	if sum := crc32.ChecksumIEEE(body); sum != h.Checksum {
		return fail(fmt.Errorf("%w: got %08x, header has %08x", ErrChecksumMismatch, sum, h.Checksum))
	}

	enter(decodeDone)
	return payload, nil
}

// Inspect reads and validates the header of stego without extracting the
// payload.
func (d *Decoder) Inspect(stego *Grid) (Header, error) {
	if err := stego.Validate(); err != nil {
		return Header{}, err
	}
	raw, err := readHeader(newBitChannel(stego))
	if err != nil {
		return Header{}, err
	}
	return ParseHeader(raw)
}

// readHeader pulls HeaderLen bytes at header granularity from ch.
func readHeader(ch *bitChannel) ([]byte, error) {
	n := UnitCount(HeaderLen, headerGranularity)
	if ch.remaining() < n {
		return nil, fmt.Errorf("%w: image has %d channels, header needs %d", ErrInvalidHeader, ch.remaining(), n)
	}
	units, err := ch.readUnits(headerGranularity, n)
	if err != nil {
		return nil, err
	}
	return Join(units, headerGranularity, HeaderLen)
}

// Decode extracts the payload embedded in stego. See Decoder.Decode.
func Decode(stego *Grid) ([]byte, error) {
	return NewDecoder().Decode(stego)
}

// Inspect returns the header embedded in stego.
func Inspect(stego *Grid) (Header, error) {
	return NewDecoder().Inspect(stego)
}
