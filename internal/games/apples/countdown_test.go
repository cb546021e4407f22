package apples

import "testing"

func TestCountdownFiresEverySecond(t *testing.T) {
	c := NewCountdown(4)
	c.Arm()

	fired := 0
	for range 12 {
		if c.Advance() {
			fired++
		}
	}
	if fired != 3 {
		t.Errorf("fired %d times in 12 frames at 4 fps, expected 3", fired)
	}
}

func TestCountdownDisarmDropsPartialSecond(t *testing.T) {
	c := NewCountdown(4)
	c.Arm()
	c.Advance()
	c.Advance()
	c.Advance()

	c.Disarm()
	if c.Advance() {
		t.Error("disarmed countdown should not fire")
	}

	c.Arm()
	for i := range 3 {
		if c.Advance() {
			t.Fatalf("fired after %d frames, partial second should have been dropped", i+1)
		}
	}
	if !c.Advance() {
		t.Error("expected a tick on the fourth frame after re-arming")
	}
}

func TestCountdownDefaultRate(t *testing.T) {
	c := NewCountdown(0)
	c.Arm()

	for range 59 {
		if c.Advance() {
			t.Fatal("fired early with default rate")
		}
	}
	if !c.Advance() {
		t.Error("expected a tick after 60 frames")
	}
}

func TestUrgencyFor(t *testing.T) {
	tests := []struct {
		remaining int
		want      Urgency
	}{
		{120, UrgencyNone},
		{31, UrgencyNone},
		{30, UrgencyWarning},
		{11, UrgencyWarning},
		{10, UrgencyDanger},
		{0, UrgencyDanger},
	}

	for _, tc := range tests {
		if got := UrgencyFor(tc.remaining, 30, 10); got != tc.want {
			t.Errorf("UrgencyFor(%d) = %s, expected %s", tc.remaining, got, tc.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := map[int]string{
		120: "02:00",
		65:  "01:05",
		9:   "00:09",
		0:   "00:00",
		-3:  "00:00",
	}

	for secs, want := range tests {
		if got := FormatClock(secs); got != want {
			t.Errorf("FormatClock(%d) = %q, expected %q", secs, got, want)
		}
	}
}
