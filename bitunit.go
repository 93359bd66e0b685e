package steg

import "fmt"

// Bit units are read from the payload as one continuous bit string, msb-first
// within each byte. Unit i holds bits [i*g, i*g+g) of that string, so for
// granularity 3 units straddle byte boundaries. The last unit is padded with
// zero bits when 8*len(data) is not a multiple of g.

// UnitCount returns how many units of granularity g cover n bytes.
func UnitCount(n int, g Granularity) int {
	return (8*n + int(g) - 1) / int(g)
}

// Split cuts data into units of g bits each. g must be valid.
func Split(data []byte, g Granularity) []uint8 {
	if !g.Valid() {
		panic(fmt.Sprintf("steg: Split with invalid granularity %d", g))
	}

	units := make([]uint8, UnitCount(len(data), g))
	r := unitReader{data: data}
	for i := range units {
		if rem := r.remaining(); rem < int(g) {
			// final short unit: zero-extend on the right
			units[i] = r.next(rem) << (int(g) - rem)
			break
		}
		units[i] = r.next(int(g))
	}
	return units
}

// Join packs units back into n bytes. Bits past the n-th byte are padding and
// are dropped. It fails with ErrTruncatedUnitStream if units cannot cover n
// bytes. Extra units beyond what n needs are ignored.
func Join(units []uint8, g Granularity, n int) ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGranularity, g)
	}
	need := UnitCount(n, g)
	if len(units) < need {
		return nil, fmt.Errorf("%w: have %d units, need %d for %d bytes", ErrTruncatedUnitStream, len(units), need, n)
	}

	p := unitPacker{out: make([]byte, 0, n+1)}
	m := g.mask()
	for _, u := range units[:need] {
		p.push(u&m, int(g))
	}
	return p.finish()[:n], nil
}

// unitPacker appends units of up to 8 bits to a byte slice, msb-first.
type unitPacker struct {
	out  []byte
	acc  uint16 // pending bits, right-aligned
	nacc int
}

func (p *unitPacker) push(u uint8, width int) {
	p.acc = p.acc<<uint(width) | uint16(u)
	p.nacc += width
	if p.nacc >= 8 {
		p.nacc -= 8
		p.out = append(p.out, byte(p.acc>>uint(p.nacc)))
		p.acc &= 1<<uint(p.nacc) - 1
	}
}

// finish emits the pending bits left-aligned in a zero-padded byte.
func (p *unitPacker) finish() []byte {
	if p.nacc > 0 {
		p.out = append(p.out, byte(p.acc<<uint(8-p.nacc)))
		p.acc, p.nacc = 0, 0
	}
	return p.out
}

// unitReader walks a byte slice as a bit string, msb-first.
type unitReader struct {
	data []byte
	pos  int // bit offset
}

func (r *unitReader) remaining() int {
	return len(r.data)*8 - r.pos
}

// next returns the following width bits (at most 8) right-aligned. The caller
// checks remaining first.
func (r *unitReader) next(width int) uint8 {
	i, off := r.pos/8, r.pos%8
	window := uint16(r.data[i]) << 8
	if off+width > 8 {
		window |= uint16(r.data[i+1])
	}
	r.pos += width
	return uint8(window>>uint(16-off-width)) & (1<<uint(width) - 1)
}
