package activity

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

type fakeProbe struct {
	locked    bool
	lockedErr error
	idle      float64
	idleErr   error
}

func (f *fakeProbe) ScreenLocked(context.Context) (bool, error) { return f.locked, f.lockedErr }
func (f *fakeProbe) IdleSeconds(context.Context) (float64, error) {
	return f.idle, f.idleErr
}

func TestShouldSkip(t *testing.T) {
	tests := []struct {
		name       string
		probe      fakeProbe
		wantSkip   bool
		wantReason Reason
	}{
		{"active", fakeProbe{idle: 10}, false, ReasonNone},
		{"locked", fakeProbe{locked: true}, true, ReasonLocked},
		{"idle over threshold", fakeProbe{idle: 400}, true, ReasonIdle},
		{"idle at threshold", fakeProbe{idle: 300}, false, ReasonNone},
		// Lock takes precedence even when the idle threshold is exceeded.
		{"locked and idle", fakeProbe{locked: true, idle: 400}, true, ReasonLocked},
		// Probe failures fail open toward capturing.
		{"lock query failure", fakeProbe{lockedErr: fmt.Errorf("denied"), idle: 10}, false, ReasonNone},
		{"idle query failure", fakeProbe{idleErr: fmt.Errorf("no tool")}, false, ReasonNone},
		{"both queries fail", fakeProbe{lockedErr: fmt.Errorf("x"), idleErr: fmt.Errorf("y")}, false, ReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(&tt.probe, 300*time.Second)
			skip, why := gate.ShouldSkip(context.Background())
			if skip != tt.wantSkip {
				t.Errorf("skip = %v, want %v", skip, tt.wantSkip)
			}
			if why.Reason != tt.wantReason {
				t.Errorf("reason = %v, want %v", why.Reason, tt.wantReason)
			}
		})
	}
}

func TestSkipCarriesIdleDuration(t *testing.T) {
	gate := NewGate(&fakeProbe{idle: 400}, 300*time.Second)
	_, why := gate.ShouldSkip(context.Background())

	if why.Idle != 400*time.Second {
		t.Errorf("Idle = %v, want 400s", why.Idle)
	}
	if !strings.Contains(why.String(), "idle") {
		t.Errorf("String() = %q, want idle duration for diagnostics", why.String())
	}
}
