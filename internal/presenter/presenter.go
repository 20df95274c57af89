package presenter

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/youruser/certgate/internal/certificate"
	"github.com/youruser/certgate/internal/util"
)

// DefaultFilePrefix starts every downloaded certificate's file name.
const DefaultFilePrefix = "mother-dairy"

const successMessage = "Certificate generated successfully"

// Confirmation is what the user sees once the download has been handed over.
type Confirmation struct {
	CertificateID string   `json:"certificate_id"`
	FileName      string   `json:"file_name"`
	Message       string   `json:"message"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Export is an encoded certificate ready to be saved or streamed.
type Export struct {
	FileName     string
	Data         []byte
	Confirmation Confirmation
}

// Encode serializes img as PNG with the strongest compression. PNG is
// lossless, so the pixels are kept exactly.
func Encode(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("presenter: nil image")
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("presenter: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName builds <prefix>-certificate-<first>-<last>.png.
func FileName(prefix, first, last string) string {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultFilePrefix
	}
	return fmt.Sprintf("%s-certificate-%s-%s.png", prefix, sanitize(first), sanitize(last))
}

// sanitize keeps names usable as a single path element.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, s)
}

// Presenter turns composed certificates into downloads.
type Presenter struct {
	Prefix string
}

func New(prefix string) *Presenter {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultFilePrefix
	}
	return &Presenter{Prefix: prefix}
}

// Present encodes img and prepares the confirmation for req.
func (p *Presenter) Present(req *certificate.Request, img image.Image, warnings []string) (*Export, error) {
	data, err := Encode(img)
	if err != nil {
		return nil, err
	}
	name := FileName(p.Prefix, req.FirstName, req.LastName)
	return &Export{
		FileName: name,
		Data:     data,
		Confirmation: Confirmation{
			CertificateID: req.ID,
			FileName:      name,
			Message:       successMessage,
			Warnings:      warnings,
		},
	}, nil
}

// Save writes the export into dir and returns the full path.
func Save(dir string, e *Export) (string, error) {
	if err := util.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("presenter: create %q: %w", dir, err)
	}
	path := filepath.Join(dir, e.FileName)
	if err := os.WriteFile(path, e.Data, 0o644); err != nil {
		return "", fmt.Errorf("presenter: write %q: %w", path, err)
	}
	return path, nil
}
