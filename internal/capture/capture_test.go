package capture

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBGRA(t *testing.T) {
	// 2x2 image, stride padded to 12 bytes per row.
	data := []byte{
		0x01, 0x02, 0x03, 0x00, 0x04, 0x05, 0x06, 0x00, 0xee, 0xee, 0xee, 0xee,
		0x07, 0x08, 0x09, 0x00, 0x0a, 0x0b, 0x0c, 0x00,
	}
	img, err := fromBGRA(data, 2, 2, 12)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())

	assert.Equal(t, []uint8{0x03, 0x02, 0x01, 0xff}, img.Pix[0:4])
	assert.Equal(t, []uint8{0x06, 0x05, 0x04, 0xff}, img.Pix[4:8])
	assert.Equal(t, []uint8{0x09, 0x08, 0x07, 0xff}, img.Pix[img.Stride:img.Stride+4])
	assert.Equal(t, []uint8{0x0c, 0x0b, 0x0a, 0xff}, img.Pix[img.Stride+4:img.Stride+8])
}

func TestFromBGRARejectsBadInput(t *testing.T) {
	_, err := fromBGRA(nil, 0, 10, 0)
	assert.ErrorIs(t, err, ErrEmptyWindow)

	_, err = fromBGRA(make([]byte, 7), 1, 2, 4)
	assert.Error(t, err)

	_, err = fromBGRA(make([]byte, 16), 2, 2, 4)
	assert.Error(t, err, "stride shorter than a row")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatPNG},
		{in: "PNG", want: FormatPNG},
		{in: "jpg", want: FormatJPEG},
		{in: " jpeg ", want: FormatJPEG},
		{in: "gif", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "image/jpeg", FormatJPEG.ContentType())
	assert.Equal(t, "image/png", FormatPNG.ContentType())
}

func TestEncode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, FormatPNG, 0))
	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Width)

	buf.Reset()
	require.NoError(t, Encode(&buf, img, FormatJPEG, 500))
	cfg, err = jpeg.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Height)

	assert.Error(t, Encode(&buf, img, Format("bmp"), 0))
}
