package spin

import (
	"math"
	"testing"
	"time"
)

func TestNormalizeAngle(t *testing.T) {
	for _, a := range []float64{0, 1, fullTurn, fullTurn + 0.5, -0.1, -fullTurn * 3, 100.25, math.Nextafter(fullTurn, 0)} {
		got := normalizeAngle(a)
		if got < 0 || got >= fullTurn {
			t.Fatalf("normalizeAngle(%v) = %v, outside [0, 2π)", a, got)
		}
	}
	if got := normalizeAngle(fullTurn + 0.5); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("normalizeAngle(2π+0.5) = %v", got)
	}
}

func TestPointerIndex(t *testing.T) {
	tests := []struct {
		angle    float64
		segments int
		want     int
	}{
		{angle: 0, segments: 4, want: 2},
		{angle: 1.7392, segments: 4, want: 1},
		{angle: 3.8214, segments: 4, want: 0},
		{angle: 5.3825, segments: 4, want: 3},
		{angle: 0, segments: 1, want: 0},
		{angle: 6.2, segments: 1, want: 0},
		{angle: 0, segments: 3, want: 2},
	}
	for _, tt := range tests {
		if got := pointerIndex(tt.angle, tt.segments); got != tt.want {
			t.Fatalf("pointerIndex(%v, %d) = %d, want %d", tt.angle, tt.segments, got, tt.want)
		}
	}

	for n := 1; n <= 12; n++ {
		for a := 0.0; a < fullTurn; a += 0.01 {
			i := pointerIndex(a, n)
			if i < 0 || i >= n {
				t.Fatalf("pointerIndex(%v, %d) = %d out of range", a, n, i)
			}
		}
	}
}

func TestVelocityCurves(t *testing.T) {
	peak := maxSpeed(4)
	if got := velocity(PhaseAccelerating, 0, peak); got != 0 {
		t.Fatalf("accelerating at p=0: %v", got)
	}
	if got := velocity(PhaseAccelerating, 1, peak); math.Abs(got-peak) > 1e-12 {
		t.Fatalf("accelerating at p=1: %v, want %v", got, peak)
	}
	if got := velocity(PhaseDecelerating, 0, peak); math.Abs(got-peak) > 1e-12 {
		t.Fatalf("decelerating at p=0: %v, want %v", got, peak)
	}
	if got := velocity(PhaseDecelerating, 1, peak); got != 0 {
		t.Fatalf("decelerating at p=1: %v", got)
	}
	if got := velocity(PhaseLocking, progress(PhaseLocking, 0, 0, 0), peak); got != 0 {
		t.Fatalf("locking velocity: %v", got)
	}

	prev := peak
	for p := 0.0; p <= 1; p += 0.05 {
		v := velocity(PhaseDecelerating, p, peak)
		if v > prev+1e-12 || v < 0 {
			t.Fatalf("deceleration not monotone at p=%v: %v after %v", p, v, prev)
		}
		prev = v
	}
}

func TestProgressIsPhaseRelative(t *testing.T) {
	up, down := 40*time.Millisecond, 200*time.Millisecond
	if got := progress(PhaseDecelerating, 40*time.Millisecond, up, down); got != 0 {
		t.Fatalf("deceleration progress at its start = %v", got)
	}
	if got := progress(PhaseDecelerating, 140*time.Millisecond, up, down); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("deceleration progress halfway = %v", got)
	}
	if got := progress(PhaseDecelerating, time.Second, up, down); got != 1 {
		t.Fatalf("deceleration progress clamps to 1, got %v", got)
	}
	if got := progress(PhaseAccelerating, 20*time.Millisecond, up, down); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("acceleration progress = %v", got)
	}
}

func TestNextPhase(t *testing.T) {
	base := transition{upTime: 40 * time.Millisecond, segments: 4, target: 2}

	tests := []struct {
		name string
		from Phase
		mod  func(*transition)
		want Phase
	}{
		{name: "starts accelerating", from: PhaseIdle, mod: func(in *transition) { in.elapsed = 4 * time.Millisecond; in.frames = 1 }, want: PhaseAccelerating},
		{name: "target under pointer too early", from: PhaseAccelerating, mod: func(in *transition) { in.elapsed = 10 * time.Millisecond; in.frames = 3; in.current = 2 }, want: PhaseAccelerating},
		{name: "after up time without target", from: PhaseAccelerating, mod: func(in *transition) { in.elapsed = 40 * time.Millisecond; in.frames = 10; in.target = -1; in.current = 2 }, want: PhaseDecelerating},
		{name: "locks on target", from: PhaseDecelerating, mod: func(in *transition) { in.elapsed = 50 * time.Millisecond; in.frames = 12; in.current = 2 }, want: PhaseLocking},
		{name: "needs more frames than segments", from: PhaseDecelerating, mod: func(in *transition) { in.elapsed = 50 * time.Millisecond; in.frames = 4; in.current = 2 }, want: PhaseDecelerating},
		{name: "other segment keeps decelerating", from: PhaseDecelerating, mod: func(in *transition) { in.elapsed = 50 * time.Millisecond; in.frames = 12; in.current = 1 }, want: PhaseDecelerating},
		{name: "settled is terminal", from: PhaseSettled, mod: func(in *transition) { in.elapsed = time.Millisecond }, want: PhaseSettled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mod(&in)
			if got := nextPhase(tt.from, in); got != tt.want {
				t.Fatalf("nextPhase(%s) = %s, want %s", tt.from, got, tt.want)
			}
		})
	}
}

func TestTruncateLabel(t *testing.T) {
	if got := truncateLabel("Алексей Константинопольский", 21); len([]rune(got)) != 21 {
		t.Fatalf("truncated to %d runes: %q", len([]rune(got)), got)
	}
	if got := truncateLabel("short", 21); got != "short" {
		t.Fatalf("short label changed: %q", got)
	}
}
