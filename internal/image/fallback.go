package imagepkg

import "github.com/fogleman/gg"

const (
	fallbackWidth  = 1024
	fallbackHeight = 768
	fallbackPaper  = "#97DDE8"
	fallbackInk    = "#134D80"
	fallbackInset  = 20
	fallbackBorder = 8
)

// newFallbackCanvas draws the plain bordered background used when the
// template is unavailable.
func newFallbackCanvas() *gg.Context {
	dc := gg.NewContext(fallbackWidth, fallbackHeight)
	dc.SetHexColor(fallbackPaper)
	dc.DrawRectangle(0, 0, fallbackWidth, fallbackHeight)
	dc.Fill()

	dc.SetHexColor(fallbackInk)
	dc.SetLineWidth(fallbackBorder)
	dc.DrawRectangle(fallbackInset, fallbackInset, fallbackWidth-2*fallbackInset, fallbackHeight-2*fallbackInset)
	dc.Stroke()
	return dc
}
