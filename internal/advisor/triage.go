package advisor

import (
	"github.com/talgya/statecraft/internal/world"
)

// CrisisLevel grades the health of the player's position.
type CrisisLevel string

const (
	Critical CrisisLevel = "CRITICAL"
	Warning  CrisisLevel = "WARNING"
	Watch    CrisisLevel = "WATCH"
	Healthy  CrisisLevel = "HEALTHY"
)

// Health holds derived diagnostic signals computed from a Snapshot.
// Runs before the LLM: deterministic and free.
type Health struct {
	Stability           int
	Corruption          int
	Treasury            int
	Happiness           float64
	PlayerSupport       float64
	MilitaryFrustration int
	StabilityTrend      int     // newest minus oldest history row
	SupportTrend        float64 // newest minus oldest history row
	Conflict            bool
	CrisisLevel         CrisisLevel
	Reasons             []string
}

// Triage computes a Health from the snapshot's data.
func Triage(snap *Snapshot) *Health {
	s := snap.State
	h := &Health{
		Stability:           s.Country.Stability,
		Corruption:          s.Country.Corruption,
		Treasury:            s.Country.Treasury,
		Happiness:           s.Country.OverallHappiness(),
		MilitaryFrustration: s.MilitaryFrustration,
		CrisisLevel:         Healthy,
	}
	if p := s.Player(); p != nil {
		h.PlayerSupport = p.Support
	}
	_, h.Conflict = world.ConflictOf(s.Phase)

	// History is sorted newest first.
	if n := len(snap.History); n >= 2 {
		newest, oldest := snap.History[0], snap.History[n-1]
		h.StabilityTrend = newest.Stability - oldest.Stability
		h.SupportTrend = newest.PlayerSupport - oldest.PlayerSupport
	}

	critical := h.flag(h.Conflict, "the country is at war") ||
		h.flag(h.Stability < 25, "stability below 25") ||
		h.flag(h.Happiness <= 20, "happiness at rebellion level") ||
		h.flag(h.Treasury < 0, "treasury in deficit") ||
		h.flag(h.MilitaryFrustration >= 15, "the military is close to a coup")
	if critical {
		h.CrisisLevel = Critical
		return h
	}
	warning := h.flag(h.Stability < 40, "stability below 40") ||
		h.flag(h.Corruption >= 30, "corruption at 30 or more") ||
		h.flag(h.Treasury < 2000, "treasury below 2,000") ||
		h.flag(h.PlayerSupport < 20, "party support below 20") ||
		h.flag(h.MilitaryFrustration >= 10, "military frustration rising")
	if warning {
		h.CrisisLevel = Warning
		return h
	}
	watch := h.flag(h.Stability < 50, "stability below 50") ||
		h.flag(h.Corruption >= 15, "corruption at 15 or more") ||
		h.flag(h.StabilityTrend <= -10, "stability falling") ||
		h.flag(h.SupportTrend <= -5, "support falling")
	if watch {
		h.CrisisLevel = Watch
	}
	return h
}

// flag records reason when cond holds and reports cond.
func (h *Health) flag(cond bool, reason string) bool {
	if cond {
		h.Reasons = append(h.Reasons, reason)
	}
	return cond
}
