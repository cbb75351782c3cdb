package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image type constants.
const (
	tgaTypeUncompressed = 2  // Uncompressed true-color
	tgaTypeRLE          = 10 // RLE compressed true-color
	tgaHeaderSize       = 18
)

// ErrTGATruncated is returned when pixel data ends early.
var ErrTGATruncated = errors.New("TGA data truncated")

// DecodeTGA decodes an uncompressed or RLE true-color TGA image.
// Neither variant has a magic number, so callers select it by file extension.
func DecodeTGA(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < tgaHeaderSize {
		return nil, ErrTGATruncated
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("color-mapped TGA not supported")
	}
	if imageType != tgaTypeUncompressed && imageType != tgaTypeRLE {
		return nil, fmt.Errorf("unsupported TGA type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("unsupported TGA bit depth %d", bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, ErrTGATruncated
	}

	w := &tgaWriter{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		width:       width,
		height:      height,
		bpp:         bpp / 8,
		topToBottom: descriptor&0x20 != 0,
	}

	pixels := data[offset:]
	if imageType == tgaTypeUncompressed {
		if len(pixels) < width*height*w.bpp {
			return nil, ErrTGATruncated
		}
		for i := 0; i < width*height; i++ {
			w.set(i, w.pixel(pixels[i*w.bpp:]))
		}
		return w.img, nil
	}

	if err := w.decodeRLE(pixels); err != nil {
		return nil, err
	}
	return w.img, nil
}

// tgaWriter places BGR(A) pixels into an RGBA image honouring the origin flag.
type tgaWriter struct {
	img         *image.RGBA
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func (w *tgaWriter) pixel(p []byte) color.RGBA {
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if w.bpp == 4 {
		c.A = p[3]
	}
	return c
}

func (w *tgaWriter) set(idx int, c color.RGBA) {
	x := idx % w.width
	y := idx / w.width
	if !w.topToBottom {
		y = w.height - 1 - y
	}
	w.img.SetRGBA(x, y, c)
}

func (w *tgaWriter) decodeRLE(data []byte) error {
	total := w.width * w.height
	idx, pos := 0, 0

	for idx < total {
		if pos >= len(data) {
			return ErrTGATruncated
		}
		packet := data[pos]
		pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run-length packet: one pixel repeated.
			if pos+w.bpp > len(data) {
				return ErrTGATruncated
			}
			c := w.pixel(data[pos:])
			pos += w.bpp
			for i := 0; i < count && idx < total; i++ {
				w.set(idx, c)
				idx++
			}
			continue
		}

		for i := 0; i < count && idx < total; i++ {
			if pos+w.bpp > len(data) {
				return ErrTGATruncated
			}
			w.set(idx, w.pixel(data[pos:]))
			pos += w.bpp
			idx++
		}
	}
	return nil
}
