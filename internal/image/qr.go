package imagepkg

import (
	"fmt"
	"image"

	qrcode "github.com/skip2/go-qrcode"
)

// qrStamp renders text as a size x size QR code with its quiet zone kept, so
// the code stays scannable on a busy template.
func qrStamp(text string, size int) (image.Image, error) {
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", text, err)
	}
	return q.Image(size), nil
}

// qrPlacement puts a square QR stamp in the bottom-right corner of a w x h canvas.
func qrPlacement(w, h int) (x, y, size int) {
	short := w
	if h < short {
		short = h
	}
	size = short * 12 / 100
	margin := short * 4 / 100
	return w - margin - size, h - margin - size, size
}
