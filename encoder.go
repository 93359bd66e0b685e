// Package steg hides a byte payload in the low bits of an image's channel
// values and recovers it again.
//
// A payload is optionally compressed, framed with a fixed header and split
// into units of 1 to 4 bits. The header goes into the first channels of the
// grid at one bit per channel; the payload follows at the configured
// granularity. Everything a decoder needs is read back from the header.
package steg

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Config selects how a payload is embedded.
type Config struct {
	Granularity Granularity
	Compression Compression
}

// DefaultConfig embeds uncompressed at one bit per channel.
func DefaultConfig() Config {
	return Config{Granularity: OneBit, Compression: CompressionNone}
}

// Validate checks that both fields hold known values.
func (c Config) Validate() error {
	if !c.Granularity.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidGranularity, c.Granularity)
	}
	if !c.Compression.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidCompression, c.Compression)
	}
	return nil
}

type encodeState uint8

const (
	encodeIdle encodeState = iota
	encodeCompressing
	encodeFraming
	encodeCapacityCheck
	encodeEmbeddingHeader
	encodeEmbeddingPayload
	encodeDone
	encodeFailed
)

var encodeStateNames = [...]string{
	encodeIdle:             "idle",
	encodeCompressing:      "compressing",
	encodeFraming:          "framing",
	encodeCapacityCheck:    "capacity-check",
	encodeEmbeddingHeader:  "embedding-header",
	encodeEmbeddingPayload: "embedding-payload",
	encodeDone:             "done",
	encodeFailed:           "failed",
}

func (s encodeState) String() string {
	if int(s) < len(encodeStateNames) {
		return encodeStateNames[s]
	}
	return fmt.Sprintf("encodeState(%d)", uint8(s))
}

// Encoder embeds payloads into pixel grids. It holds no per-call state and
// may be used from several goroutines on different grids.
type Encoder struct {
	Config
	Log zerolog.Logger
}

// NewEncoder returns an Encoder for cfg that does not log.
func NewEncoder(cfg Config) *Encoder {
	return &Encoder{Config: cfg, Log: zerolog.Nop()}
}

// Encode embeds payload into cover and returns cover. The capacity check runs
// before the first channel is written, so on error cover is left untouched.
func (e *Encoder) Encode(cover *Grid, payload []byte) (*Grid, error) {
	state := encodeIdle
	enter := func(next encodeState) {
		e.Log.Trace().Stringer("from", state).Stringer("to", next).Msg("encode state")
		state = next
	}
	fail := func(err error) (*Grid, error) {
		enter(encodeFailed)
		return nil, err
	}

	if err := e.Config.Validate(); err != nil {
		return fail(err)
	}
	if err := cover.Validate(); err != nil {
		return fail(err)
	}
	g := e.Granularity

	enter(encodeCompressing)
	body, err := MaybeCompress(payload, e.Compression)
	if err != nil {
		return fail(err)
	}
	if e.Compression != CompressionNone && len(payload) > 0 {
		e.Log.Debug().
			Stringer("compression", e.Compression).
			Int("input_bytes", len(payload)).
			Int("compressed_bytes", len(body)).
			Float64("ratio_pct", float64(len(body))/float64(len(payload))*100).
			Msg("compressed payload")
	}

	enter(encodeFraming)
	header, err := frameBody(body, g, e.Compression)
	if err != nil {
		return fail(err)
	}

	enter(encodeCapacityCheck)
	required := RequiredBits(len(header), len(body), g)
	capacity := cover.Capacity(g)
	e.Log.Debug().
		Int("cover_channels", len(cover.Pix)).
		Int("required_bits", required).
		Int("capacity_bits", capacity).
		Float64("utilisation_pct", utilisation(required, capacity)).
		Stringer("granularity", g).
		Msg("capacity")
	if err := Validate(required, capacity); err != nil {
		if ce, ok := err.(*CapacityError); ok {
			ce.Granularity = g
		}
		return fail(err)
	}

	ch := newBitChannel(cover)

	enter(encodeEmbeddingHeader)
	if err := ch.writeUnits(headerGranularity, Split(header, headerGranularity)); err != nil {
		return fail(err)
	}

	enter(encodeEmbeddingPayload)
	if err := ch.writeUnits(g, Split(body, g)); err != nil {
		return fail(err)
	}

	enter(encodeDone)
	return cover, nil
}

// Encode embeds payload into cover using cfg. See Encoder.Encode.
func Encode(cover *Grid, payload []byte, cfg Config) (*Grid, error) {
	return NewEncoder(cfg).Encode(cover, payload)
}
