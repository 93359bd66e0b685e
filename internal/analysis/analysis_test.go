package analysis

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/svanichkin/steg"
)

func makeTestImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x ^ y) & 0xFF),
				A: 255,
			})
		}
	}
	return img
}

// embed writes payload into a copy of img at granularity g.
func embed(t *testing.T, img *image.NRGBA, payload []byte, g steg.Granularity) *image.NRGBA {
	t.Helper()
	b := img.Bounds()
	grid := steg.NewGrid(b.Dx(), b.Dy(), 3)
	for i := 0; i < b.Dx()*b.Dy(); i++ {
		copy(grid.Pix[i*3:i*3+3], img.Pix[i*4:i*4+3])
	}
	if _, err := steg.Encode(grid, payload, steg.Config{Granularity: g}); err != nil {
		t.Fatalf("steg.Encode: %v", err)
	}
	out := image.NewNRGBA(b)
	copy(out.Pix, img.Pix)
	for i := 0; i < b.Dx()*b.Dy(); i++ {
		copy(out.Pix[i*4:i*4+3], grid.Pix[i*3:i*3+3])
	}
	return out
}

func TestDistortion_Identical(t *testing.T) {
	img := makeTestImage(20, 10)
	r, err := Distortion(img, img)
	if err != nil {
		t.Fatalf("Distortion: %v", err)
	}
	if r.Pixels != 200 || r.ChangedChannels != 0 || r.MaxDelta != 0 || r.MeanDelta != 0 || r.MeanDeltaE != 0 {
		t.Fatalf("unexpected report %+v", r)
	}
	if !math.IsInf(r.PSNR, 1) {
		t.Fatalf("PSNR = %v, want +Inf", r.PSNR)
	}
}

func TestDistortion_BoundedByGranularity(t *testing.T) {
	cover := makeTestImage(64, 64)
	payload := []byte("distortion is bounded by the number of low bits rewritten")
	for g := steg.OneBit; g <= steg.FourBits; g++ {
		stego := embed(t, cover, payload, g)
		r, err := Distortion(cover, stego)
		if err != nil {
			t.Fatalf("g=%d: Distortion: %v", g, err)
		}
		if limit := uint8(1)<<uint8(g) - 1; r.MaxDelta > limit {
			t.Fatalf("g=%d: max delta %d > %d", g, r.MaxDelta, limit)
		}
		if r.ChangedChannels == 0 {
			t.Fatalf("g=%d: no channel changed", g)
		}
		if r.PSNR < 30 || math.IsInf(r.PSNR, 0) {
			t.Fatalf("g=%d: PSNR %.2f out of range", g, r.PSNR)
		}
		if r.MeanDeltaE <= 0 {
			t.Fatalf("g=%d: mean deltaE %v", g, r.MeanDeltaE)
		}
	}
}

func TestDistortion_BoundsMismatch(t *testing.T) {
	_, err := Distortion(makeTestImage(4, 4), makeTestImage(4, 5))
	if !errors.Is(err, ErrBoundsMismatch) {
		t.Fatalf("expected ErrBoundsMismatch, got %v", err)
	}
}

func TestDistortion_OffsetBounds(t *testing.T) {
	img := makeTestImage(8, 8)
	sub := img.SubImage(image.Rect(2, 2, 6, 6))
	r, err := Distortion(sub, makeTestImage(8, 8).SubImage(image.Rect(2, 2, 6, 6)))
	if err != nil {
		t.Fatalf("Distortion: %v", err)
	}
	if r.Pixels != 16 || r.ChangedChannels != 0 {
		t.Fatalf("unexpected report %+v", r)
	}
}

func TestLSBPlane(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xB5, G: 0xB4, B: 0x01, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0x03, G: 0x0D, B: 0xFE, A: 255})

	for _, tc := range []struct {
		bits int
		want [2]color.NRGBA
	}{
		{1, [2]color.NRGBA{{255, 0, 255, 255}, {255, 255, 0, 255}}},
		// 2 low bits: 1, 0, 1 / 3, 1, 2 scaled by 255/3
		{2, [2]color.NRGBA{{85, 0, 85, 255}, {255, 85, 170, 255}}},
		// 4 low bits: 5, 4, 1 / 3, 13, 14 scaled by 255/15
		{4, [2]color.NRGBA{{85, 68, 17, 255}, {51, 221, 238, 255}}},
	} {
		plane, err := LSBPlane(img, tc.bits)
		if err != nil {
			t.Fatalf("bits=%d: LSBPlane: %v", tc.bits, err)
		}
		for x := 0; x < 2; x++ {
			if got := plane.NRGBAAt(x, 0); got != tc.want[x] {
				t.Errorf("bits=%d x=%d: got %+v, want %+v", tc.bits, x, got, tc.want[x])
			}
		}
	}
}

func TestLSBPlane_InvalidBits(t *testing.T) {
	for _, bits := range []int{0, 5, -1} {
		if _, err := LSBPlane(makeTestImage(2, 2), bits); !errors.Is(err, ErrInvalidBits) {
			t.Errorf("bits=%d: expected ErrInvalidBits, got %v", bits, err)
		}
	}
}
