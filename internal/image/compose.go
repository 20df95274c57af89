package imagepkg

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"go.uber.org/zap"

	"github.com/youruser/certgate/internal/certificate"
)

// Result is a finished certificate canvas plus what was drawn on it.
type Result struct {
	Image       image.Image
	Lines       []TextLine
	Placement   *Rect
	Fallback    bool
	PhotoPlaced bool
	Warnings    []string
}

// Composer draws certificates. It holds no per-request state and may be
// shared between sessions.
type Composer struct {
	Template TemplateLoader
	Subtitle string
	StampQR  bool
	logger   *zap.Logger
}

func NewComposer(template TemplateLoader, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if template == nil {
		template = func(context.Context) (image.Image, error) { return nil, ErrNoTemplate }
	}
	return &Composer{Template: template, Subtitle: DefaultSubtitle, logger: logger}
}

// Compose renders req. Stages run in order (template, photo, text) and the
// context is checked between them so a superseded request stops early.
// A template that cannot be loaded is replaced by the plain fallback design;
// a photo that cannot be decoded is skipped with a warning.
func (c *Composer) Compose(ctx context.Context, req *certificate.Request) (*Result, error) {
	if req == nil {
		return nil, errors.New("imagepkg: nil request")
	}
	faces, err := newFaceSet()
	if err != nil {
		return nil, err
	}
	defer faces.Close()

	tmpl, err := c.Template(ctx)
	if cerr := ctx.Err(); cerr != nil {
		return nil, cerr
	}
	if err != nil {
		c.logger.Warn("template unavailable, drawing fallback certificate",
			zap.String("certificate_id", req.ID), zap.Error(err))
		return c.composeFallback(req, faces)
	}

	b := tmpl.Bounds()
	w, h := b.Dx(), b.Dy()
	dc := gg.NewContext(w, h)
	dc.DrawImage(tmpl, 0, 0)

	res := &Result{}
	if req.HasPhoto() {
		photo, err := DecodeImage(req.Photo)
		if err != nil {
			c.logger.Warn("photo could not be decoded, rendering without it",
				zap.String("certificate_id", req.ID), zap.Error(err))
			res.Warnings = append(res.Warnings, "photo could not be decoded and was left out")
		} else {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			area := PhotoPlacement(w, h)
			drawPhoto(dc, photo, area)
			res.Placement = &area
			res.PhotoPlaced = true
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Lines = TextLayout(req, w, h, res.Placement)
	if err := drawLines(dc, faces, res.Lines); err != nil {
		return nil, err
	}
	if c.StampQR {
		if err := stampQR(dc, req.ID); err != nil {
			return nil, err
		}
	}
	res.Image = dc.Image()
	c.logger.Debug("certificate composed",
		zap.String("certificate_id", req.ID),
		zap.Int("width", w), zap.Int("height", h),
		zap.Bool("photo", res.PhotoPlaced))
	return res, nil
}

func (c *Composer) composeFallback(req *certificate.Request, faces *faceSet) (*Result, error) {
	dc := newFallbackCanvas()
	lines := FallbackLayout(req, c.Subtitle)
	if err := drawLines(dc, faces, lines); err != nil {
		return nil, err
	}
	if c.StampQR {
		if err := stampQR(dc, req.ID); err != nil {
			return nil, err
		}
	}
	res := &Result{Image: dc.Image(), Lines: lines, Fallback: true}
	if req.HasPhoto() {
		res.Warnings = append(res.Warnings, "photo is not shown on the fallback certificate")
	}
	return res, nil
}

// drawPhoto strokes the frame, clips to it and draws photo cover-scaled
// into area.
func drawPhoto(dc *gg.Context, photo image.Image, area Rect) {
	dc.Push()
	defer dc.Pop()

	dc.SetHexColor("#ddd")
	dc.SetLineWidth(2)
	dc.DrawRectangle(area.X, area.Y, area.Width, area.Height)
	dc.Stroke()

	dc.DrawRectangle(area.X, area.Y, area.Width, area.Height)
	dc.Clip()

	b := photo.Bounds()
	x, y, pw, ph := pixelBounds(CoverRect(b.Dx(), b.Dy(), area))
	scaled := imaging.Resize(photo, pw, ph, imaging.Lanczos)
	dc.DrawImage(scaled, x, y)
}

func drawLines(dc *gg.Context, faces *faceSet, lines []TextLine) error {
	for _, l := range lines {
		face, err := faces.get(l.Size, l.Bold)
		if err != nil {
			return err
		}
		dc.SetFontFace(face)
		if l.Shadow {
			dc.SetRGBA(1, 1, 1, 0.8)
			dc.DrawStringAnchored(l.Text, l.X+1, l.Y+1, 0.5, l.AnchorY)
		}
		dc.SetHexColor(l.Color)
		dc.DrawStringAnchored(l.Text, l.X, l.Y, 0.5, l.AnchorY)
	}
	return nil
}

func stampQR(dc *gg.Context, text string) error {
	x, y, size := qrPlacement(dc.Width(), dc.Height())
	if size <= 0 {
		return nil
	}
	qr, err := qrStamp(text, size)
	if err != nil {
		return fmt.Errorf("generate qr stamp: %w", err)
	}
	dc.DrawImage(qr, x, y)
	return nil
}
