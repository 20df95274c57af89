package presenter

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/certgate/internal/certificate"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "mother-dairy-certificate-Jane-Doe.png", FileName("mother-dairy", "Jane", "Doe"))
	assert.Equal(t, "mother-dairy-certificate-Jane-Doe.png", FileName("", " Jane ", "Doe"))
	assert.Equal(t, "acme-certificate-A_B-C.png", FileName("acme", "A/B", "C"))
}

func TestEncodeIsLossless(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	data, err := Encode(img)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	r, g, b, a := decoded.At(1, 1).RGBA()
	assert.Equal(t, []uint32{10, 20, 30, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}

func TestEncodeNil(t *testing.T) {
	_, err := Encode(nil)
	assert.Error(t, err)
}

func TestPresentAndSave(t *testing.T) {
	req := &certificate.Request{FirstName: "Jane", LastName: "Doe", ID: "MD-1-2"}
	e, err := New("").Present(req, image.NewRGBA(image.Rect(0, 0, 4, 4)), []string{"w"})
	require.NoError(t, err)

	assert.Equal(t, "mother-dairy-certificate-Jane-Doe.png", e.FileName)
	assert.Equal(t, "MD-1-2", e.Confirmation.CertificateID)
	assert.Equal(t, []string{"w"}, e.Confirmation.Warnings)

	dir := filepath.Join(t.TempDir(), "out")
	path, err := Save(dir, e)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, e.FileName), path)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, e.Data, onDisk)
}
