package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/certgate/internal/form"
	"github.com/youruser/certgate/internal/presenter"
	"github.com/youruser/certgate/internal/session"
)

const sessionKey = "session"

// formOverhead is what a certificate submission may carry beyond the photo:
// the text fields and multipart framing.
const formOverhead = 1 << 20

type Handler struct {
	store         *session.Store
	service       *session.Service
	maxPhotoBytes int64
	logger        *zap.Logger
}

func NewHandler(store *session.Store, service *session.Service, maxPhotoBytes int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, service: service, maxPhotoBytes: maxPhotoBytes, logger: logger}
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) createSession(c *gin.Context) {
	s := h.store.Create()
	h.logger.Info("session created", zap.String("session_id", s.ID))
	c.JSON(http.StatusCreated, gin.H{"session_id": s.ID, "status": s.Status(), "unlocked": s.Unlocked()})
}

func (h *Handler) loadSession(c *gin.Context) {
	s, ok := h.store.Get(c.Param("id"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Set(sessionKey, s)
	c.Next()
}

func current(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func (h *Handler) getSession(c *gin.Context) {
	s := current(c)
	body := gin.H{"session_id": s.ID, "status": s.Status(), "unlocked": s.Unlocked()}
	if req := s.Current(); req != nil {
		body["certificate_id"] = req.ID
	}
	if at := s.UnlockedAt(); !at.IsZero() {
		body["unlocked_at"] = at
	}
	c.JSON(http.StatusOK, body)
}

type timing struct {
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
}

// playback receives media timing updates
func (h *Handler) playback(c *gin.Context) {
	var t timing
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := current(c)
	p := s.Playback(t.Position, t.Duration)
	if p.JustUnlocked {
		h.logger.Info("form unlocked", zap.String("session_id", s.ID))
	}
	c.JSON(http.StatusOK, p)
}

// metadata reports the initial time display once the media duration is known
func (h *Handler) metadata(c *gin.Context) {
	var t timing
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s := current(c)
	c.JSON(http.StatusOK, gin.H{"display": s.Metadata(t.Duration), "status": s.Status(), "unlocked": s.Unlocked()})
}

func (h *Handler) seek(c *gin.Context) {
	var t timing
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"position": current(c).Seek(t.Position, t.Duration)})
}

// validateField checks a single input, as on blur
func (h *Handler) validateField(c *gin.Context) {
	var req struct {
		Field string `json:"field" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.service.Validator().ValidateField(req.Field, req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"field": req.Field, "valid": msg == "", "error": msg})
}

func (h *Handler) submitCertificate(c *gin.Context) {
	s := current(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxPhotoBytes+formOverhead)
	if err := c.Request.ParseMultipartForm(h.maxPhotoBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("submission too large (max %d bytes)", tooLarge.Limit)})
			return
		}
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	values := map[string]string{}
	for _, f := range h.service.Validator().Fields() {
		values[f] = c.PostForm(f)
	}
	photo, err := h.readPhoto(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	export, res, err := h.service.Submit(c.Request.Context(), s, values, photo)
	switch {
	case errors.Is(err, session.ErrInvalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "errors": res.Errors})
		return
	case errors.Is(err, session.ErrLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, session.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logger.Error("certificate generation failed", zap.String("session_id", s.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	writePNG(c, export)
}

// readPhoto returns the optional uploaded photo, rejecting oversized and
// non-image files.
func (h *Handler) readPhoto(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile(form.Photo)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if fh.Size == 0 {
		return nil, nil
	}
	if fh.Size > h.maxPhotoBytes {
		return nil, fmt.Errorf("photo too large (max %d bytes)", h.maxPhotoBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read photo: %w", err)
	}
	if int64(len(data)) > h.maxPhotoBytes {
		return nil, fmt.Errorf("photo too large (max %d bytes)", h.maxPhotoBytes)
	}
	if mt := mimetype.Detect(data); !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("photo must be an image, got %s", mt.String())
	}
	return data, nil
}

// downloadAgain re-exports the last certificate without new form data
func (h *Handler) downloadAgain(c *gin.Context) {
	export, err := h.service.Export(c.Request.Context(), current(c))
	switch {
	case errors.Is(err, session.ErrNoCertificate):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, session.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	writePNG(c, export)
}

func (h *Handler) resetCertificate(c *gin.Context) {
	s := current(c)
	s.Reset()
	c.JSON(http.StatusOK, gin.H{"session_id": s.ID, "status": s.Status(), "unlocked": s.Unlocked()})
}

func (h *Handler) result(c *gin.Context) {
	last := current(c).Last()
	if last == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": session.ErrNoCertificate.Error()})
		return
	}
	c.JSON(http.StatusOK, last.Confirmation)
}

func writePNG(c *gin.Context, e *presenter.Export) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", e.FileName))
	c.Header("X-Certificate-Id", e.Confirmation.CertificateID)
	c.Data(http.StatusOK, "image/png", e.Data)
}
