// Package carrier moves cover images between files and steg pixel grids.
// Only the R, G and B channels carry data; alpha is kept as loaded and written
// back unchanged.
package carrier

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/svanichkin/steg"
)

// Format names an image file format, as reported by image.Decode.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	QOI  Format = "qoi"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
)

// Lossless reports whether f keeps every channel byte when written.
func (f Format) Lossless() bool {
	switch f {
	case PNG, BMP, TIFF, QOI:
		return true
	}
	return false
}

var (
	ErrUnknownFormat = errors.New("carrier: unknown image format")
	ErrLossyFormat   = errors.New("carrier: lossy format cannot carry a payload")
	ErrSizeMismatch  = errors.New("carrier: grid does not match image")
	ErrTransparent   = errors.New("carrier: format cannot store transparency")
)

// FormatFromPath maps a file extension to a Format.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	case ".qoi":
		return QOI, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".gif":
		return GIF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Cover is a decoded image held as non-premultiplied RGBA, so that the
// colour channels of translucent pixels are stored exactly.
type Cover struct {
	Format Format
	img    *image.NRGBA
}

// Load decodes any registered image format.
func Load(r io.Reader) (*Cover, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromImage(img, Format(name)), nil
}

// FromImage wraps an in-memory image.
func FromImage(img image.Image, f Format) *Cover {
	return &Cover{Format: f, img: toNRGBA(img)}
}

// Bounds returns the image bounds, which always start at (0,0).
func (c *Cover) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Image returns the current pixels. The result shares memory with c.
func (c *Cover) Image() *image.NRGBA {
	return c.img
}

// Grid copies the R, G and B channels into a new grid.
func (c *Cover) Grid() *steg.Grid {
	b := c.img.Bounds()
	w, h := b.Dx(), b.Dy()
	g := steg.NewGrid(w, h, 3)
	for y := 0; y < h; y++ {
		row := c.img.Pix[y*c.img.Stride : y*c.img.Stride+w*4]
		dst := g.Pix[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			dst[x*3+0] = row[x*4+0]
			dst[x*3+1] = row[x*4+1]
			dst[x*3+2] = row[x*4+2]
		}
	}
	return g
}

// Apply copies the channels of g back into the image. Alpha is untouched.
func (c *Cover) Apply(g *steg.Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	b := c.img.Bounds()
	w, h := b.Dx(), b.Dy()
	if g.Width != w || g.Height != h || g.Channels != 3 {
		return fmt.Errorf("%w: grid %dx%dx%d, image %dx%d RGB", ErrSizeMismatch, g.Width, g.Height, g.Channels, w, h)
	}
	for y := 0; y < h; y++ {
		row := c.img.Pix[y*c.img.Stride : y*c.img.Stride+w*4]
		src := g.Pix[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			row[x*4+0] = src[x*3+0]
			row[x*4+1] = src[x*3+1]
			row[x*4+2] = src[x*3+2]
		}
	}
	return nil
}

// Encode writes the image in format f. Lossy formats are refused because
// they would scramble the low bits.
func (c *Cover) Encode(w io.Writer, f Format) error {
	switch f {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, c.img)
	case BMP:
		// BMP is written as 24-bit RGB.
		if !c.img.Opaque() {
			return fmt.Errorf("%w: %s", ErrTransparent, f)
		}
		return bmp.Encode(w, c.opaqueRGBA())
	case TIFF:
		return tiff.Encode(w, c.img, &tiff.Options{Compression: tiff.Deflate})
	case QOI:
		// the qoi encoder reads colours premultiplied, which rescales the
		// channels of translucent pixels.
		if !c.img.Opaque() {
			return fmt.Errorf("%w: %s", ErrTransparent, f)
		}
		return qoi.Encode(w, c.img)
	case JPEG, GIF:
		return fmt.Errorf("%w: %s", ErrLossyFormat, f)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// opaqueRGBA views an opaque NRGBA image as RGBA; both share the same bytes
// when every alpha is 0xff.
func (c *Cover) opaqueRGBA() *image.RGBA {
	return &image.RGBA{Pix: c.img.Pix, Stride: c.img.Stride, Rect: c.img.Rect}
}

// toNRGBA copies any image.Image into an *image.NRGBA with bounds starting at (0,0).
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		dst := *n
		dst.Pix = append([]uint8(nil), n.Pix...)
		return &dst
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
