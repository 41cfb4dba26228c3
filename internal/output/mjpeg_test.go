package output

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 16, 9))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestNewMJPEGDefaults(t *testing.T) {
	m := NewMJPEG(nil, Config{Quality: 400})
	assert.Equal(t, DefaultConfig(), m.config)
}

func TestStreamsFrames(t *testing.T) {
	var captures atomic.Int32
	m := NewMJPEG(func() (*image.RGBA, error) {
		if captures.Add(1) == 1 {
			return nil, errors.New("not yet")
		}
		return solid(color.RGBA{R: 200, A: 255}), nil
	}, Config{FPS: 20, Quality: 80})
	defer m.Stop()

	ts := httptest.NewServer(m)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "multipart/x-mixed-replace; boundary=frame", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	boundary, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "--frame\r\n", boundary)

	header, err := textproto.NewReader(reader).ReadMIMEHeader()
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", header.Get("Content-Type"))
	length, err := strconv.Atoi(header.Get("Content-Length"))
	require.NoError(t, err)

	frame := make([]byte, length)
	_, err = io.ReadFull(reader, frame)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(frame))
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())

	assert.Equal(t, 1, m.Clients())
	assert.GreaterOrEqual(t, m.FrameCount(), uint64(1))
}

func TestCaptureStopsWithoutClients(t *testing.T) {
	var captures atomic.Int32
	m := NewMJPEG(func() (*image.RGBA, error) {
		captures.Add(1)
		return solid(color.RGBA{A: 255}), nil
	}, Config{FPS: 50})

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, captures.Load(), "nothing captured before a client connects")

	ch := m.register()
	require.Eventually(t, func() bool { return len(ch) > 0 }, 2*time.Second, 10*time.Millisecond)
	m.unregister(ch)

	settled := captures.Load()
	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, captures.Load(), settled+1)
	assert.Zero(t, m.Clients())
}

func TestStopClosesClients(t *testing.T) {
	m := NewMJPEG(func() (*image.RGBA, error) { return nil, errors.New("blank") }, Config{})
	ch := m.register()
	m.Stop()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, m.Clients())
	// Unregistering after Stop is harmless.
	m.unregister(ch)
}
