package imagepkg

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/certgate/internal/certificate"
)

func whiteTemplate(w, h int) TemplateLoader {
	return func(context.Context) (image.Image, error) {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		return img, nil
	}
}

func failingTemplate(context.Context) (image.Image, error) {
	return nil, errors.New("missing")
}

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func janeDoe(photo []byte) *certificate.Request {
	return &certificate.Request{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@doe.com",
		Phone:     "9876543210",
		Photo:     photo,
		ID:        "MD-1753773632653-42",
		IssuedAt:  time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC),
	}
}

func lineTexts(lines []TextLine) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Text)
	}
	return out
}

func isRed(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r>>8 > 240 && g>>8 < 15 && b>>8 < 15
}

func TestComposeWithoutPhoto(t *testing.T) {
	c := NewComposer(whiteTemplate(800, 600), nil)
	res, err := c.Compose(context.Background(), janeDoe(nil))
	require.NoError(t, err)

	assert.False(t, res.Fallback)
	assert.False(t, res.PhotoPlaced)
	assert.Nil(t, res.Placement)
	assert.Equal(t, image.Rect(0, 0, 800, 600), res.Image.Bounds())
	assert.Equal(t, []string{
		"Name - Jane Doe",
		"Phone No - 9876543210",
		"Date - 18/10/2026",
		"Valid Until - 18/04/2027",
		"Certificate ID: MD-1753773632653-42",
	}, lineTexts(res.Lines))

	first := res.Lines[0]
	assert.InDelta(t, 400, first.X, 1e-9)
	assert.InDelta(t, 600*0.43, first.Y, 1e-9)
	assert.InDelta(t, 600*0.43+90, res.Lines[3].Y, 1e-9)
	assert.InDelta(t, 600*0.95, res.Lines[4].Y, 1e-9)
	assert.Equal(t, float64(14), res.Lines[4].Size)
}

func TestComposePlacesPhotoAndCoversArea(t *testing.T) {
	c := NewComposer(whiteTemplate(800, 600), nil)
	res, err := c.Compose(context.Background(), janeDoe(solidPNG(t, 300, 100, color.RGBA{R: 255, A: 255})))
	require.NoError(t, err)

	require.True(t, res.PhotoPlaced)
	require.NotNil(t, res.Placement)
	area := *res.Placement
	assert.Equal(t, PhotoPlacement(800, 600), area)

	x0, y0 := int(math.Ceil(area.X)), int(math.Ceil(area.Y))
	x1, y1 := int(math.Floor(area.Right())), int(math.Floor(area.Bottom()))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if !isRed(res.Image.At(x, y)) {
				t.Fatalf("pixel (%d,%d) = %v, want photo colour", x, y, res.Image.At(x, y))
			}
		}
	}

	// clipped: nothing of the wide photo leaks left or right of the frame
	assert.False(t, isRed(res.Image.At(x0-5, (y0+y1)/2)))
	assert.False(t, isRed(res.Image.At(x1+5, (y0+y1)/2)))

	assert.InDelta(t, area.CenterX(), res.Lines[0].X, 1e-9)
	assert.InDelta(t, area.Bottom()+25, res.Lines[0].Y, 1e-9)
}

func TestComposeSkipsUndecodablePhoto(t *testing.T) {
	c := NewComposer(whiteTemplate(800, 600), nil)
	res, err := c.Compose(context.Background(), janeDoe([]byte("definitely not an image")))
	require.NoError(t, err)

	assert.False(t, res.PhotoPlaced)
	assert.Len(t, res.Warnings, 1)
	assert.InDelta(t, 600*0.43, res.Lines[0].Y, 1e-9)
}

func TestComposeFallsBackWhenTemplateMissing(t *testing.T) {
	c := NewComposer(failingTemplate, nil)
	res, err := c.Compose(context.Background(), janeDoe(solidPNG(t, 10, 10, color.Black)))
	require.NoError(t, err)

	assert.True(t, res.Fallback)
	assert.False(t, res.PhotoPlaced)
	assert.Equal(t, image.Rect(0, 0, 1024, 768), res.Image.Bounds())
	assert.Contains(t, lineTexts(res.Lines), "Jane Doe")
	assert.Contains(t, lineTexts(res.Lines), DefaultSubtitle)
	assert.Contains(t, lineTexts(res.Lines), "Valid Until: 18/04/2027")

	r, g, b, _ := res.Image.At(5, 5).RGBA()
	assert.Equal(t, [3]uint32{0x97, 0xDD, 0xE8}, [3]uint32{r >> 8, g >> 8, b >> 8})
	r, g, b, _ = res.Image.At(20, 400).RGBA()
	assert.Equal(t, [3]uint32{0x13, 0x4D, 0x80}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestComposeDefaultTemplateFallsBack(t *testing.T) {
	res, err := NewComposer(nil, nil).Compose(context.Background(), janeDoe(nil))
	require.NoError(t, err)
	assert.True(t, res.Fallback)
}

func TestComposeIsDeterministic(t *testing.T) {
	c := NewComposer(whiteTemplate(640, 480), nil)
	c.StampQR = true
	req := janeDoe(solidPNG(t, 40, 90, color.RGBA{G: 200, A: 255}))

	a, err := c.Compose(context.Background(), req)
	require.NoError(t, err)
	b, err := c.Compose(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a.Image.(*image.RGBA).Pix, b.Image.(*image.RGBA).Pix)
}

func TestComposeHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewComposer(whiteTemplate(100, 100), nil).Compose(ctx, janeDoe(nil))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComposeRejectsNilRequest(t *testing.T) {
	_, err := NewComposer(whiteTemplate(100, 100), nil).Compose(context.Background(), nil)
	assert.Error(t, err)
}

func TestComposeStampsQR(t *testing.T) {
	c := NewComposer(whiteTemplate(1000, 800), nil)
	c.StampQR = true
	res, err := c.Compose(context.Background(), janeDoe(nil))
	require.NoError(t, err)

	x, y, size := qrPlacement(1000, 800)
	dark := 0
	for yy := y; yy < y+size; yy++ {
		for xx := x; xx < x+size; xx++ {
			if r, _, _, _ := res.Image.At(xx, yy).RGBA(); r>>8 < 64 {
				dark++
			}
		}
	}
	assert.Greater(t, dark, 0)
}
