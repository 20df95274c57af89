package imagepkg

import "math"

// Photo area as fractions of the canvas size.
const (
	photoXFrac = 0.41
	photoYFrac = 0.14
	photoWFrac = 0.18
	photoHFrac = 0.23
)

// Rect is a float rectangle in canvas pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) CenterX() float64 { return r.X + r.Width/2 }
func (r Rect) Bottom() float64  { return r.Y + r.Height }
func (r Rect) Right() float64   { return r.X + r.Width }

// PhotoPlacement returns the area the user's photo is drawn into on a w x h canvas.
func PhotoPlacement(w, h int) Rect {
	fw, fh := float64(w), float64(h)
	return Rect{
		X:      fw * photoXFrac,
		Y:      fh * photoYFrac,
		Width:  fw * photoWFrac,
		Height: fh * photoHFrac,
	}
}

// CoverRect scales a srcW x srcH image so it fills area completely while
// keeping its aspect ratio. A photo wider than the area is matched on height,
// otherwise on width; the overflow is split evenly on both sides.
func CoverRect(srcW, srcH int, area Rect) Rect {
	if srcW <= 0 || srcH <= 0 || area.Width <= 0 || area.Height <= 0 {
		return area
	}
	imgAspect := float64(srcW) / float64(srcH)
	areaAspect := area.Width / area.Height

	if imgAspect > areaAspect {
		w := area.Height * imgAspect
		return Rect{X: area.X - (w-area.Width)/2, Y: area.Y, Width: w, Height: area.Height}
	}
	h := area.Width / imgAspect
	return Rect{X: area.X, Y: area.Y - (h-area.Height)/2, Width: area.Width, Height: h}
}

// pixelBounds snaps r outward to whole pixels so the drawn image never leaves
// a gap along the clip edge.
func pixelBounds(r Rect) (x, y, w, h int) {
	x = int(math.Floor(r.X))
	y = int(math.Floor(r.Y))
	w = int(math.Ceil(r.Right())) - x
	h = int(math.Ceil(r.Bottom())) - y
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return x, y, w, h
}
