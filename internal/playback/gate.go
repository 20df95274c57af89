package playback

import (
	"fmt"
	"math"
)

// CompletionRatio is the fraction of the media that must be watched before
// the form unlocks. Seeks beyond it are clamped back to it.
const CompletionRatio = 0.95

const (
	StatusLocked   = "Watch the video to unlock the form"
	StatusUnlocked = "Video completed - Form unlocked"
)

// Progress is the view of one timing update.
type Progress struct {
	Percent      float64 `json:"percent"`
	Display      string  `json:"display"`
	Status       string  `json:"status"`
	Unlocked     bool    `json:"unlocked"`
	JustUnlocked bool    `json:"just_unlocked"`
}

// Gate tracks how much of the training video has been played. Once the
// completion ratio is reached it stays unlocked for the rest of the session.
// A Gate is not safe for concurrent use; callers serialise access.
type Gate struct {
	unlocked bool
	onUnlock func()
}

func NewGate() *Gate {
	return &Gate{}
}

// OnUnlock registers fn to run on the single locked-to-unlocked transition.
func (g *Gate) OnUnlock(fn func()) {
	g.onUnlock = fn
}

func (g *Gate) Unlocked() bool {
	return g.unlocked
}

func (g *Gate) Status() string {
	if g.unlocked {
		return StatusUnlocked
	}
	return StatusLocked
}

// Update records a playback position. Updates without a usable duration are
// ignored apart from reporting the current status.
func (g *Gate) Update(position, duration float64) Progress {
	if !validDuration(duration) {
		return Progress{Status: g.Status(), Unlocked: g.unlocked}
	}
	percent := position / duration * 100
	p := Progress{
		Percent: percent,
		Display: fmt.Sprintf("%s / %s", FormatTime(position), FormatTime(duration)),
	}
	if percent >= CompletionRatio*100 && !g.unlocked {
		g.unlocked = true
		p.JustUnlocked = true
		if g.onUnlock != nil {
			g.onUnlock()
		}
	}
	p.Status = g.Status()
	p.Unlocked = g.unlocked
	return p
}

// Metadata returns the display shown before playback starts.
func (g *Gate) Metadata(duration float64) string {
	if !validDuration(duration) {
		return ""
	}
	return "0:00 / " + FormatTime(duration)
}

// Seek returns the position playback is allowed to jump to.
func (g *Gate) Seek(target, duration float64) float64 {
	if !validDuration(duration) {
		return target
	}
	limit := duration * CompletionRatio
	if target > limit {
		return limit
	}
	return target
}

// FormatTime renders seconds as m:ss.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	mins := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%d:%02d", mins, secs)
}

func validDuration(d float64) bool {
	return d > 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}
