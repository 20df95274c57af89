package imagepkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRStampSize(t *testing.T) {
	img, err := qrStamp("MD-1760779800000-1", 92)
	require.NoError(t, err)
	assert.Equal(t, 92, img.Bounds().Dx())
	assert.Equal(t, 92, img.Bounds().Dy())
}

func TestQRPlacementInsideCanvas(t *testing.T) {
	x, y, size := qrPlacement(1024, 768)

	assert.Equal(t, 92, size)
	assert.Equal(t, 1024-30-92, x)
	assert.Equal(t, 768-30-92, y)
}
