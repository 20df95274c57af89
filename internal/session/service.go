package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/youruser/certgate/internal/certificate"
	"github.com/youruser/certgate/internal/form"
	imagepkg "github.com/youruser/certgate/internal/image"
	"github.com/youruser/certgate/internal/presenter"
)

var (
	ErrLocked        = errors.New("form is locked until the video has been watched")
	ErrInvalid       = errors.New("form has invalid fields")
	ErrNoCertificate = errors.New("no certificate has been generated")
	ErrSuperseded    = errors.New("certificate generation was superseded")
)

// Composer renders a certificate request onto a canvas.
type Composer interface {
	Compose(ctx context.Context, req *certificate.Request) (*imagepkg.Result, error)
}

// Service runs the submit / export / reset cycle against a Session.
type Service struct {
	validator *form.Validator
	ids       *certificate.IDGenerator
	composer  Composer
	presenter *presenter.Presenter
	logger    *zap.Logger
}

func NewService(v *form.Validator, ids *certificate.IDGenerator, c Composer, p *presenter.Presenter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{validator: v, ids: ids, composer: c, presenter: p, logger: logger}
}

func (svc *Service) Validator() *form.Validator {
	return svc.validator
}

// Submit validates values, stores a new request on s and renders it. When
// validation fails the returned form.Result carries the per-field messages
// and the error is ErrInvalid.
func (svc *Service) Submit(ctx context.Context, s *Session, values map[string]string, photo []byte) (*presenter.Export, form.Result, error) {
	if !s.Unlocked() {
		return nil, form.Result{}, ErrLocked
	}
	res := svc.validator.Validate(values)
	if !res.Valid() {
		return nil, res, ErrInvalid
	}
	req := svc.NewRequest(values, photo)

	runCtx, seq := s.begin(ctx, req)
	export, err := svc.Render(runCtx, req)
	if !s.finish(seq, export) {
		svc.logger.Info("certificate superseded", zap.String("session_id", s.ID), zap.String("certificate_id", req.ID))
		return nil, res, ErrSuperseded
	}
	if err != nil {
		return nil, res, err
	}
	svc.logger.Info("certificate issued",
		zap.String("session_id", s.ID),
		zap.String("certificate_id", req.ID),
		zap.String("file", export.FileName))
	return export, res, nil
}

// Export re-renders the session's current request. Id and issue time are
// reused, so the bytes match the original download.
func (svc *Service) Export(ctx context.Context, s *Session) (*presenter.Export, error) {
	req := s.Current()
	if req == nil {
		return nil, ErrNoCertificate
	}
	runCtx, seq := s.begin(ctx, req)
	export, err := svc.Render(runCtx, req)
	if !s.finish(seq, export) {
		return nil, ErrSuperseded
	}
	return export, err
}

// NewRequest builds a certificate request from trimmed form values.
func (svc *Service) NewRequest(values map[string]string, photo []byte) *certificate.Request {
	get := func(k string) string { return strings.TrimSpace(values[k]) }
	return svc.ids.NewRequest(get(form.FirstName), get(form.LastName), get(form.Email), get(form.Phone), photo)
}

// Render composes and encodes req without touching any session.
func (svc *Service) Render(ctx context.Context, req *certificate.Request) (*presenter.Export, error) {
	result, err := svc.composer.Compose(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("compose certificate %s: %w", req.ID, err)
	}
	if result.Fallback {
		svc.logger.Warn("certificate drawn on fallback background", zap.String("certificate_id", req.ID))
	}
	return svc.presenter.Present(req, result.Image, result.Warnings)
}
