package imagepkg

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	fontOnce    sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
	fontErr     error
)

// loadFonts parses the embedded Go fonts once.
func loadFonts() error {
	fontOnce.Do(func() {
		regularFont, fontErr = opentype.Parse(goregular.TTF)
		if fontErr != nil {
			fontErr = fmt.Errorf("parse regular font: %w", fontErr)
			return
		}
		boldFont, fontErr = opentype.Parse(gobold.TTF)
		if fontErr != nil {
			fontErr = fmt.Errorf("parse bold font: %w", fontErr)
		}
	})
	return fontErr
}

type faceKey struct {
	size float64
	bold bool
}

// faceSet hands out font faces for one drawing pass. Faces keep glyph caches
// and must not be shared between goroutines.
type faceSet struct {
	faces map[faceKey]font.Face
}

func newFaceSet() (*faceSet, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	return &faceSet{faces: map[faceKey]font.Face{}}, nil
}

func (s *faceSet) get(size float64, bold bool) (font.Face, error) {
	key := faceKey{size: size, bold: bold}
	if f, ok := s.faces[key]; ok {
		return f, nil
	}
	src := regularFont
	if bold {
		src = boldFont
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	s.faces[key] = face
	return face, nil
}

func (s *faceSet) Close() {
	for _, f := range s.faces {
		_ = f.Close()
	}
}
