package steg

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestSplit_KnownVectors(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   []byte
		g    Granularity
		want []uint8
	}{
		{name: "four_bits", in: []byte{0xAF}, g: FourBits, want: []uint8{0x0A, 0x0F}},
		{name: "four_bits_low", in: []byte{0x0F}, g: FourBits, want: []uint8{0x00, 0x0F}},
		{name: "two_bits", in: []byte{0xEC}, g: TwoBits, want: []uint8{3, 2, 3, 0}},
		{name: "two_bits_0x11", in: []byte{0x11}, g: TwoBits, want: []uint8{0, 1, 0, 1}},
		{name: "one_bit", in: []byte{0x03}, g: OneBit, want: []uint8{0, 0, 0, 0, 0, 0, 1, 1}},
		{name: "one_bit_0xff", in: []byte{0xFF}, g: OneBit, want: []uint8{1, 1, 1, 1, 1, 1, 1, 1}},
		// 11111111 -> 111 111 11(0)
		{name: "three_bits_padded", in: []byte{0xFF}, g: ThreeBits, want: []uint8{7, 7, 6}},
		// 10100101 00001111 -> 101 001 010 000 111 1(00)
		{name: "three_bits_straddle", in: []byte{0xA5, 0x0F}, g: ThreeBits, want: []uint8{5, 1, 2, 0, 7, 4}},
		{name: "empty", in: nil, g: ThreeBits, want: []uint8{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Split(tc.in, tc.g)
			if !bytes.Equal(got, tc.want) {
				t.Fatalf("Split(%x, %d) = %v, want %v", tc.in, tc.g, got, tc.want)
			}
			back, err := Join(got, tc.g, len(tc.in))
			if err != nil {
				t.Fatalf("Join: %v", err)
			}
			if !bytes.Equal(back, tc.in) {
				t.Fatalf("Join = %x, want %x", back, tc.in)
			}
		})
	}
}

func TestSplitJoin_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for g := OneBit; g <= FourBits; g++ {
		for _, n := range []int{0, 1, 2, 3, 7, 64, 1000} {
			data := make([]byte, n)
			rng.Read(data)

			units := Split(data, g)
			if len(units) != UnitCount(n, g) {
				t.Fatalf("g=%d n=%d: %d units, want %d", g, n, len(units), UnitCount(n, g))
			}
			for i, u := range units {
				if u > g.mask() {
					t.Fatalf("g=%d n=%d: unit %d = %d out of range", g, n, i, u)
				}
			}

			got, err := Join(units, g, n)
			if err != nil {
				t.Fatalf("g=%d n=%d: Join: %v", g, n, err)
			}
			if !bytes.Equal(got, data) {
				t.Fatalf("g=%d n=%d: round trip mismatch", g, n)
			}
		}
	}
}

func TestJoin_IgnoresPaddingAndHighBits(t *testing.T) {
	// last unit carries a padding bit that must not leak into the output,
	// and the high bits of every unit are outside the granularity.
	units := []uint8{0xF7, 0xF7, 0xF7}
	got, err := Join(units, ThreeBits, 1)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !bytes.Equal(got, []byte{0xFF}) {
		t.Fatalf("Join = %x, want ff", got)
	}

	// extra units past the declared length are ignored
	got, err = Join([]uint8{0xA, 0xF, 0x1, 0x2}, FourBits, 1)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !bytes.Equal(got, []byte{0xAF}) {
		t.Fatalf("Join = %x, want af", got)
	}
}

func TestJoin_Truncated(t *testing.T) {
	_, err := Join([]uint8{1, 2}, FourBits, 2)
	if !errors.Is(err, ErrTruncatedUnitStream) {
		t.Fatalf("expected ErrTruncatedUnitStream, got %v", err)
	}
	_, err = Join(make([]uint8, 5), ThreeBits, 2)
	if !errors.Is(err, ErrTruncatedUnitStream) {
		t.Fatalf("expected ErrTruncatedUnitStream, got %v", err)
	}
}

func TestUnitCount(t *testing.T) {
	for _, tc := range []struct {
		n    int
		g    Granularity
		want int
	}{
		{0, OneBit, 0},
		{1, OneBit, 8},
		{1, TwoBits, 4},
		{1, ThreeBits, 3},
		{3, ThreeBits, 8},
		{1, FourBits, 2},
		{12, FourBits, 24},
	} {
		if got := UnitCount(tc.n, tc.g); got != tc.want {
			t.Errorf("UnitCount(%d, %d) = %d, want %d", tc.n, tc.g, got, tc.want)
		}
	}
}
