package steg

import "fmt"

// Grid is a pixel grid of 8-bit channel values. Pixels are stored row-major
// with their channels interleaved, so channel c of pixel (x, y) is
// Pix[(y*Width+x)*Channels+c]. This is also the order in which channels carry
// payload bits.
type Grid struct {
	Width    int
	Height   int
	Channels int // channels per pixel, 1..4 (e.g. R, G, B, then A)
	Pix      []uint8
}

// NewGrid allocates a zeroed w x h grid.
func NewGrid(w, h, channels int) *Grid {
	return &Grid{
		Width:    w,
		Height:   h,
		Channels: channels,
		Pix:      make([]uint8, w*h*channels),
	}
}

// Validate checks that the dimensions agree with the backing slice.
func (g *Grid) Validate() error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", ErrInvalidGrid)
	}
	if g.Width < 0 || g.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidGrid, g.Width, g.Height)
	}
	if g.Channels < 1 || g.Channels > 4 {
		return fmt.Errorf("%w: %d channels per pixel", ErrInvalidGrid, g.Channels)
	}
	if want := g.Width * g.Height * g.Channels; len(g.Pix) != want {
		return fmt.Errorf("%w: %dx%dx%d needs %d values, have %d", ErrInvalidGrid, g.Width, g.Height, g.Channels, want, len(g.Pix))
	}
	return nil
}

// PixelCount returns Width*Height.
func (g *Grid) PixelCount() int {
	return g.Width * g.Height
}

// Capacity returns the payload bits g can hold at granularity gr, before the
// header is taken out.
func (g *Grid) Capacity(gr Granularity) int {
	return CapacityBits(g.PixelCount(), g.Channels, gr)
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	out := *g
	out.Pix = append([]uint8(nil), g.Pix...)
	return &out
}

// bitChannel walks the channel values of a grid in storage order and reads or
// writes their low bits. Each call consumes exactly one channel.
type bitChannel struct {
	pix []uint8
	pos int
}

func newBitChannel(g *Grid) *bitChannel {
	return &bitChannel{pix: g.Pix}
}

// remaining returns the number of unvisited channels.
func (c *bitChannel) remaining() int {
	return len(c.pix) - c.pos
}

// writeNext replaces the low n bits of the next channel with v, keeping the
// high bits.
func (c *bitChannel) writeNext(n Granularity, v uint8) error {
	if c.pos >= len(c.pix) {
		return fmt.Errorf("%w: write at channel %d of %d", ErrCapacityExceeded, c.pos, len(c.pix))
	}
	m := n.mask()
	c.pix[c.pos] = c.pix[c.pos]&^m | v&m
	c.pos++
	return nil
}

// readNext returns the low n bits of the next channel.
func (c *bitChannel) readNext(n Granularity) (uint8, error) {
	if c.pos >= len(c.pix) {
		return 0, fmt.Errorf("%w: read at channel %d of %d", ErrCapacityExceeded, c.pos, len(c.pix))
	}
	v := c.pix[c.pos] & n.mask()
	c.pos++
	return v, nil
}

// writeUnits writes units in order at granularity n.
func (c *bitChannel) writeUnits(n Granularity, units []uint8) error {
	for _, u := range units {
		if err := c.writeNext(n, u); err != nil {
			return err
		}
	}
	return nil
}

// readUnits reads count units at granularity n.
func (c *bitChannel) readUnits(n Granularity, count int) ([]uint8, error) {
	units := make([]uint8, count)
	for i := range units {
		v, err := c.readNext(n)
		if err != nil {
			return nil, err
		}
		units[i] = v
	}
	return units, nil
}
