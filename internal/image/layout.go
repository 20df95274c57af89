package imagepkg

import (
	"github.com/youruser/certgate/internal/certificate"
)

// DefaultSubtitle is the course line on the fallback certificate.
const DefaultSubtitle = "Mother Dairy Safety Training"

const (
	textColor   = "#1a1a1a"
	idColor     = "#555555"
	textSize    = 26
	idSize      = 14
	lineHeight  = 30
	photoGap    = 25
	textYFrac   = 0.43
	idLineYFrac = 0.95
)

// TextLine is one string drawn onto the certificate. AnchorY follows gg:
// 0 puts the baseline on Y, 0.5 centres the text vertically on Y.
type TextLine struct {
	Text    string  `json:"text"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size"`
	Bold    bool    `json:"bold"`
	Color   string  `json:"color"`
	AnchorY float64 `json:"anchor_y"`
	Shadow  bool    `json:"shadow"`
}

// TextLayout positions the holder block on a template canvas of w x h. When a
// photo was placed the block sits under it; otherwise it falls back to a fixed
// height on the centre line.
func TextLayout(req *certificate.Request, w, h int, placement *Rect) []TextLine {
	centerX := float64(w) * 0.5
	startY := float64(h) * textYFrac
	if placement != nil {
		centerX = placement.CenterX()
		startY = placement.Bottom() + photoGap
	}

	block := []string{
		"Name - " + req.FullName(),
		"Phone No - " + req.Phone,
		"Date - " + certificate.FormatDate(req.IssuedAt),
		"Valid Until - " + certificate.FormatDate(req.ValidUntil()),
	}
	lines := make([]TextLine, 0, len(block)+1)
	for i, text := range block {
		lines = append(lines, TextLine{
			Text:    text,
			X:       centerX,
			Y:       startY + float64(i*lineHeight),
			Size:    textSize,
			Bold:    true,
			Color:   textColor,
			AnchorY: 0.5,
			Shadow:  true,
		})
	}
	lines = append(lines, TextLine{
		Text:    "Certificate ID: " + req.ID,
		X:       centerX,
		Y:       float64(h) * idLineYFrac,
		Size:    idSize,
		Color:   idColor,
		AnchorY: 0.5,
		Shadow:  true,
	})
	return lines
}

// FallbackLayout is the text of the plain certificate drawn when no template
// could be loaded.
func FallbackLayout(req *certificate.Request, subtitle string) []TextLine {
	if subtitle == "" {
		subtitle = DefaultSubtitle
	}
	cx := float64(fallbackWidth) / 2
	line := func(text string, y, size float64, bold bool, color string) TextLine {
		return TextLine{Text: text, X: cx, Y: y, Size: size, Bold: bold, Color: color}
	}
	return []TextLine{
		line("CERTIFICATE", 100, 48, true, fallbackInk),
		line(subtitle, 150, 32, true, fallbackInk),
		line("This certifies that", 250, 28, true, "#000000"),
		line(req.FullName(), 300, 28, true, "#000000"),
		line("has successfully completed the safety training", 350, 28, true, "#000000"),
		line("Phone: "+req.Phone, 500, 20, false, "#000000"),
		line("Date: "+certificate.FormatDate(req.IssuedAt), 530, 20, false, "#000000"),
		line("Valid Until: "+certificate.FormatDate(req.ValidUntil()), 560, 20, false, "#000000"),
		line("Certificate ID: "+req.ID, 590, 20, false, "#000000"),
	}
}
