// Package activity decides whether a sampling tick should run at all.
package activity

import (
	"context"
	"fmt"
	"time"

	"worklog/internal/probe"
	"worklog/internal/trace"
)

// Reason says why a tick was skipped.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonLocked
	ReasonIdle
)

func (r Reason) String() string {
	switch r {
	case ReasonLocked:
		return "locked"
	case ReasonIdle:
		return "idle"
	default:
		return "none"
	}
}

// Skip carries the skip decision plus the measured idle duration for
// diagnostics.
type Skip struct {
	Reason Reason
	Idle   time.Duration
}

func (s Skip) String() string {
	if s.Reason == ReasonIdle {
		return fmt.Sprintf("idle %s", s.Idle)
	}
	return s.Reason.String()
}

// Gate is purely advisory and has no side effects; the caller decides
// whether to proceed.
type Gate struct {
	probe         probe.ActivityProbe
	idleThreshold time.Duration
}

// NewGate creates a gate with the given idle threshold.
func NewGate(p probe.ActivityProbe, idleThreshold time.Duration) *Gate {
	return &Gate{probe: p, idleThreshold: idleThreshold}
}

// ShouldSkip reports whether this tick should be skipped. The lock check
// takes precedence over the idle check. Probe failures fail open toward
// capturing: a false negative only wastes a sample, it never loses data.
func (g *Gate) ShouldSkip(ctx context.Context) (bool, Skip) {
	log := trace.Logger(ctx)

	locked, err := g.probe.ScreenLocked(ctx)
	if err != nil {
		log.Debug("lock-state query failed, assuming unlocked", "error", err)
	} else if locked {
		return true, Skip{Reason: ReasonLocked}
	}

	idle, err := g.probe.IdleSeconds(ctx)
	if err != nil {
		log.Debug("idle query failed, assuming active", "error", err)
		return false, Skip{}
	}
	idleDur := time.Duration(idle * float64(time.Second))
	if idleDur > g.idleThreshold {
		return true, Skip{Reason: ReasonIdle, Idle: idleDur}
	}

	return false, Skip{}
}
