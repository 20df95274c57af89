package imagepkg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/youruser/certgate/internal/util"
)

// ErrNoTemplate is returned when no template source is configured.
var ErrNoTemplate = errors.New("imagepkg: no template configured")

// TemplateLoader produces the certificate background for one composition.
type TemplateLoader func(ctx context.Context) (image.Image, error)

// TemplateFrom loads the template from a file path or an http(s) URL.
func TemplateFrom(source string) TemplateLoader {
	return func(ctx context.Context) (image.Image, error) {
		return LoadTemplate(ctx, source)
	}
}

// LoadTemplate decodes the image at source, which is either a local path or
// an http(s) URL.
func LoadTemplate(ctx context.Context, source string) (image.Image, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrNoTemplate
	}
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, err := util.GetBytes(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("fetch template: %w", err)
		}
		img, err := DecodeImage(body)
		if err != nil {
			return nil, fmt.Errorf("decode template: %w", err)
		}
		return img, nil
	}
	img, err := imaging.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open template %q: %w", source, err)
	}
	return img, nil
}

// DecodeImage decodes raw image bytes, applying any EXIF orientation.
func DecodeImage(b []byte) (image.Image, error) {
	if len(b) == 0 {
		return nil, errors.New("empty image data")
	}
	return imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
}
