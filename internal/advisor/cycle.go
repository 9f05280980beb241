package advisor

import (
	"context"
	"log/slog"

	"github.com/talgya/statecraft/internal/llm"
)

// Advisor ties one observation, decision and action into a cycle.
type Advisor struct {
	Observer *Observer
	Actor    *Actor
	LLM      *llm.Client // nil selects the rule book
	Memory   *CycleMemory
}

// RunCycle performs one cycle and records it in memory. It returns
// ErrNoGame when there is nothing to play.
func (a *Advisor) RunCycle(ctx context.Context) (*Decision, error) {
	snap, err := a.Observer.Observe(ctx)
	if err != nil {
		return nil, err
	}
	health := Triage(snap)
	slog.Info("advisor triage",
		"turn", snap.State.Turn,
		"status", snap.State.Status(),
		"crisis", health.CrisisLevel,
		"reasons", health.Reasons,
	)

	d := Decide(ctx, a.LLM, snap, health, a.Memory)
	rec := CycleRecord{
		Turn:        snap.State.Turn,
		Status:      string(snap.State.Status()),
		Action:      d.Action,
		Source:      d.Source,
		Stability:   health.Stability,
		Treasury:    health.Treasury,
		Support:     health.PlayerSupport,
		CrisisLevel: health.CrisisLevel,
		Rationale:   d.Rationale,
	}

	_, actErr := a.Actor.Act(ctx, d)
	if actErr != nil {
		rec.Error = actErr.Error()
		slog.Warn("advisor action failed", "action", d.Action, "error", actErr)
	} else {
		slog.Info("advisor acted", "action", d.Action, "source", d.Source, "rationale", d.Rationale)
	}

	if a.Memory != nil {
		a.Memory.Record(rec)
		if err := a.Memory.Save(); err != nil {
			slog.Error("advisor memory not saved", "error", err)
		}
	}
	return d, actErr
}
