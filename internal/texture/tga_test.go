package texture

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tgaHeader(imageType byte, width, height int, bpp byte, descriptor byte) []byte {
	h := make([]byte, tgaHeaderSize)
	h[2] = imageType
	h[12], h[13] = byte(width), byte(width>>8)
	h[14], h[15] = byte(height), byte(height>>8)
	h[16] = bpp
	h[17] = descriptor
	return h
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// 2x1, bottom-left origin, BGR.
	data := tgaHeader(tgaTypeUncompressed, 2, 1, 24, 0)
	data = append(data, 0, 0, 255, 0, 255, 0)

	img, err := DecodeTGA(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 1), img.Bounds())

	rgba := img.(*image.RGBA)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, rgba.RGBAAt(1, 0))
}

func TestDecodeTGAOrigin(t *testing.T) {
	pixels := []byte{
		255, 0, 0, 10, // first row in file, blue
		0, 0, 255, 20, // second row in file, red
	}

	bottomUp := append(tgaHeader(tgaTypeUncompressed, 1, 2, 32, 0), pixels...)
	img, err := DecodeTGA(bytes.NewReader(bottomUp))
	require.NoError(t, err)
	rgba := img.(*image.RGBA)
	assert.Equal(t, color.RGBA{B: 255, A: 10}, rgba.RGBAAt(0, 1))
	assert.Equal(t, color.RGBA{R: 255, A: 20}, rgba.RGBAAt(0, 0))

	topDown := append(tgaHeader(tgaTypeUncompressed, 1, 2, 32, 0x20), pixels...)
	img, err = DecodeTGA(bytes.NewReader(topDown))
	require.NoError(t, err)
	rgba = img.(*image.RGBA)
	assert.Equal(t, color.RGBA{B: 255, A: 10}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{R: 255, A: 20}, rgba.RGBAAt(0, 1))
}

func TestDecodeTGARLE(t *testing.T) {
	data := tgaHeader(tgaTypeRLE, 4, 1, 24, 0x20)
	data = append(data,
		0x82, 0, 255, 0, // run of 3 green
		0x00, 255, 0, 0, // 1 raw blue
	)

	img, err := DecodeTGA(bytes.NewReader(data))
	require.NoError(t, err)
	rgba := img.(*image.RGBA)
	for x := 0; x < 3; x++ {
		assert.Equal(t, color.RGBA{G: 255, A: 255}, rgba.RGBAAt(x, 0), "pixel %d", x)
	}
	assert.Equal(t, color.RGBA{B: 255, A: 255}, rgba.RGBAAt(3, 0))
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0, 0, 2}},
		{"truncated pixels", append(tgaHeader(tgaTypeUncompressed, 2, 2, 24, 0), 1, 2, 3)},
		{"truncated rle", append(tgaHeader(tgaTypeRLE, 2, 2, 24, 0), 0x83)},
		{"colour mapped", func() []byte {
			h := tgaHeader(tgaTypeUncompressed, 1, 1, 24, 0)
			h[1] = 1
			return h
		}()},
		{"grayscale", tgaHeader(3, 1, 1, 8, 0)},
		{"16 bit", tgaHeader(tgaTypeUncompressed, 1, 1, 16, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeTGA(bytes.NewReader(tt.data))
			assert.Error(t, err)
		})
	}
}
