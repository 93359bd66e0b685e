// Package analysis measures how far a stego image drifted from its cover and
// renders the low bit planes that carry the payload.
package analysis

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/gift"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	ErrBoundsMismatch = errors.New("analysis: images differ in size")
	ErrInvalidBits    = errors.New("analysis: bits must be between 1 and 4")
)

// Report summarises the per-channel difference between two images. Only the
// R, G and B channels are compared.
type Report struct {
	Pixels          int
	ChangedChannels int
	MaxDelta        uint8
	MeanDelta       float64
	PSNR            float64 // dB, +Inf for identical images
	MeanDeltaE      float64 // mean CIE-Lab distance per pixel
}

// Distortion compares cover and stego pixel by pixel.
func Distortion(cover, stego image.Image) (Report, error) {
	cb, sb := cover.Bounds(), stego.Bounds()
	if cb.Dx() != sb.Dx() || cb.Dy() != sb.Dy() {
		return Report{}, fmt.Errorf("%w: %dx%d vs %dx%d", ErrBoundsMismatch, cb.Dx(), cb.Dy(), sb.Dx(), sb.Dy())
	}
	a, b := toNRGBA(cover), toNRGBA(stego)
	w, h := cb.Dx(), cb.Dy()

	var r Report
	r.Pixels = w * h
	var sumAbs, sumSq, sumLab float64
	for y := 0; y < h; y++ {
		ra := a.Pix[y*a.Stride : y*a.Stride+w*4]
		rb := b.Pix[y*b.Stride : y*b.Stride+w*4]
		for x := 0; x < w; x++ {
			pa, pb := ra[x*4:x*4+3], rb[x*4:x*4+3]
			same := true
			for c := 0; c < 3; c++ {
				d := absDiff(pa[c], pb[c])
				if d == 0 {
					continue
				}
				same = false
				r.ChangedChannels++
				if d > r.MaxDelta {
					r.MaxDelta = d
				}
				sumAbs += float64(d)
				sumSq += float64(d) * float64(d)
			}
			if !same {
				sumLab += labColor(pa).DistanceLab(labColor(pb))
			}
		}
	}

	if n := float64(r.Pixels * 3); n > 0 {
		r.MeanDelta = sumAbs / n
		if mse := sumSq / n; mse > 0 {
			r.PSNR = 10 * math.Log10(255*255/mse)
		} else {
			r.PSNR = math.Inf(1)
		}
	}
	if r.Pixels > 0 {
		r.MeanDeltaE = sumLab / float64(r.Pixels)
	}
	return r, nil
}

// LSBPlane stretches the low bits of every colour channel to the full 0..255
// range, so embedded data shows up as noise. Alpha is forced opaque.
func LSBPlane(img image.Image, bits int) (*image.NRGBA, error) {
	if bits < 1 || bits > 4 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBits, bits)
	}
	mask := uint8(1)<<uint(bits) - 1
	low := func(v float32) float32 {
		return float32(uint8(v*255+0.5)&mask) / float32(mask)
	}
	g := gift.New(gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
		return low(r0), low(g0), low(b0), 1
	}))
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst, nil
}

func labColor(p []uint8) colorful.Color {
	return colorful.Color{R: float64(p[0]) / 255, G: float64(p[1]) / 255, B: float64(p[2]) / 255}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func toNRGBA(src image.Image) *image.NRGBA {
	// Pix[0] of an NRGBA is always its Rect.Min pixel.
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
