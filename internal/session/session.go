package session

import (
	"context"
	"sync"
	"time"

	"github.com/youruser/certgate/internal/certificate"
	"github.com/youruser/certgate/internal/playback"
	"github.com/youruser/certgate/internal/presenter"
)

// Session is everything one visitor's certificate cycle needs: the playback
// gate, the request being (or last) rendered, the finished export and the
// cancel func of the composition in flight.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	mu         sync.Mutex
	now        func() time.Time
	gate       *playback.Gate
	current    *certificate.Request
	last       *presenter.Export
	cancel     context.CancelFunc
	seq        uint64
	lastSeen   time.Time
	unlockedAt time.Time
}

func newSession(id string, now func() time.Time) *Session {
	t := now()
	s := &Session{ID: id, CreatedAt: t, now: now, gate: playback.NewGate(), lastSeen: t}
	// runs inside Update, with s.mu held
	s.gate.OnUnlock(func() { s.unlockedAt = s.now() })
	return s
}

// touch marks the session active. Callers hold s.mu.
func (s *Session) touch() {
	s.lastSeen = s.now()
}

// Playback feeds a media timing update into the gate.
func (s *Session) Playback(position, duration float64) playback.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.gate.Update(position, duration)
}

// Metadata returns the time display for media whose duration just became known.
func (s *Session) Metadata(duration float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.gate.Metadata(duration)
}

// UnlockedAt is when the gate opened, zero while it is locked.
func (s *Session) UnlockedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlockedAt
}

// LastSeen is the time of the most recent request against the session.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// Seek returns the clamped seek target.
func (s *Session) Seek(target, duration float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate.Seek(target, duration)
}

func (s *Session) Unlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate.Unlocked()
}

func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate.Status()
}

// Current is the request of the latest submission, nil after a reset.
func (s *Session) Current() *certificate.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Last is the most recent finished export.
func (s *Session) Last() *presenter.Export {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// begin makes req the current request and cancels any composition still
// running for an older one. The returned sequence number identifies this run.
func (s *Session) begin(parent context.Context, req *certificate.Request) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.touch()
	s.seq++
	s.current = req
	return ctx, s.seq
}

// finish stores e unless a newer run or a reset superseded run seq.
func (s *Session) finish(seq uint64, e *presenter.Export) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	if e != nil {
		s.last = e
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

// Reset drops the current request and export. The gate keeps its state, so a
// visitor who already watched the video can fill the form again directly.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
	s.current = nil
	s.last = nil
}
