package exercise

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	thresholds := DefaultThresholds()

	t.Run("fully extended arm is clean", func(t *testing.T) {
		tracker := NewCurlTracker(thresholds)
		result := tracker.Update(rightArmFrame(170))
		faults := Validate(result, thresholds)

		// Extended arm at the start position, no drift, left arm unposed
		// and skipped: nothing to correct.
		if len(faults) != 0 {
			t.Errorf("faults = %v, want none for an extended arm", faults)
		}
	})

	t.Run("stuck mid-curl", func(t *testing.T) {
		tracker := NewCurlTracker(thresholds)
		tracker.Update(rightArmFrame(160))
		result := tracker.Update(rightArmFrame(100))
		faults := Validate(result, thresholds)

		if !containsFault(faults, "Right arm not fully curled") {
			t.Errorf("faults = %v, want not-fully-curled mid-curl", faults)
		}
		if containsFault(faults, "Right arm not returning") {
			t.Errorf("faults = %v, mid-curl arm is not expected at rest", faults)
		}
	})

	t.Run("arm stuck low", func(t *testing.T) {
		tracker := NewCurlTracker(thresholds)
		result := tracker.Update(rightArmFrame(40))
		faults := Validate(result, thresholds)

		if !containsFault(faults, "Right arm not returning to start position") {
			t.Errorf("faults = %v, want not-returning for right arm", faults)
		}
		if containsFault(faults, "Right arm not fully curled") {
			t.Errorf("faults = %v, no curl attempt in flight", faults)
		}
	})

	t.Run("elbow drift", func(t *testing.T) {
		tracker := NewCurlTracker(thresholds)
		result := tracker.Update(rightArmFrameWithDrift(170, 55))
		faults := Validate(result, thresholds)

		if !containsFault(faults, "Right elbow drifting") {
			t.Errorf("faults = %v, want drift fault at 55 degrees", faults)
		}
	})
}

func containsFault(faults Faults, substr string) bool {
	for _, f := range faults {
		if strings.Contains(f, substr) {
			return true
		}
	}
	return false
}

func TestFaultsEqual(t *testing.T) {
	a := Faults{"x", "y"}
	if !a.Equal(Faults{"x", "y"}) {
		t.Error("identical lists should be equal")
	}
	if a.Equal(Faults{"y", "x"}) {
		t.Error("order matters")
	}
	if a.Equal(Faults{"x"}) {
		t.Error("length matters")
	}
	var empty Faults
	if !empty.Equal(nil) {
		t.Error("nil and empty are equal")
	}
}

func TestReadinessStreak(t *testing.T) {
	rt := NewReadinessTracker()

	for i := 0; i < readyStreak-1; i++ {
		rt.Observe(nil)
		if rt.Ready() {
			t.Fatalf("ready after %d clean frames, want %d", i+1, readyStreak)
		}
	}
	rt.Observe(nil)
	if !rt.Ready() {
		t.Errorf("not ready after %d clean frames", readyStreak)
	}

	// One faulted frame drops readiness entirely.
	rt.Observe(Faults{"Right arm not fully curled"})
	if rt.Ready() {
		t.Error("still ready after a faulted frame")
	}
	if rt.Streak() != 0 {
		t.Errorf("streak = %d, want 0", rt.Streak())
	}
}

func TestReadinessEmitThrottle(t *testing.T) {
	now := time.Unix(1000, 0)
	rt := NewReadinessTracker()
	rt.now = func() time.Time { return now }

	faults := Faults{"Right arm not fully curled"}

	if !rt.Observe(faults) {
		t.Fatal("first fault observation must emit")
	}

	// Same faults inside the interval stay quiet.
	now = now.Add(2 * time.Second)
	if rt.Observe(faults) {
		t.Error("identical faults within the interval must not emit")
	}

	// A changed fault list emits immediately.
	changed := Faults{"Left arm not fully curled"}
	if !rt.Observe(changed) {
		t.Error("changed fault list must emit")
	}

	// The same list emits again once the interval elapses.
	now = now.Add(emitInterval + time.Second)
	if !rt.Observe(changed) {
		t.Error("identical faults past the interval must emit")
	}
}
