package debounce_test

import (
	"testing"
	"time"

	"todo/internal/debounce"
	"todo/internal/testutil"
)

func TestDebouncer_CoalescesRapidSchedules(t *testing.T) {
	clock := testutil.NewManualClock()
	d := debounce.New(300*time.Millisecond, clock)

	var runs []int
	for i := 1; i <= 5; i++ {
		i := i
		d.Schedule(func() { runs = append(runs, i) })
		clock.Advance(100 * time.Millisecond)
	}

	if len(runs) != 0 {
		t.Fatalf("expected no runs inside the window, got %v", runs)
	}
	if !d.Pending() {
		t.Error("expected pending action")
	}

	clock.Advance(200 * time.Millisecond)

	if len(runs) != 1 || runs[0] != 5 {
		t.Errorf("expected exactly the last action to run, got %v", runs)
	}
	if d.Pending() {
		t.Error("expected no pending action after run")
	}
	if clock.Pending() != 0 {
		t.Errorf("expected all timers released, got %d", clock.Pending())
	}
}

func TestDebouncer_RunsAfterWindow(t *testing.T) {
	clock := testutil.NewManualClock()
	d := debounce.New(300*time.Millisecond, clock)

	ran := 0
	d.Schedule(func() { ran++ })

	clock.Advance(299 * time.Millisecond)
	if ran != 0 {
		t.Fatalf("ran before window elapsed")
	}
	clock.Advance(time.Millisecond)
	if ran != 1 {
		t.Errorf("expected one run, got %d", ran)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	clock := testutil.NewManualClock()
	d := debounce.New(300*time.Millisecond, clock)

	ran := false
	d.Schedule(func() { ran = true })

	if !d.Cancel() {
		t.Error("expected Cancel to report a pending action")
	}
	if d.Cancel() {
		t.Error("expected second Cancel to report nothing pending")
	}

	clock.Advance(time.Second)
	if ran {
		t.Error("cancelled action ran")
	}
}

func TestDebouncer_StopRefusesFurtherSchedules(t *testing.T) {
	clock := testutil.NewManualClock()
	d := debounce.New(300*time.Millisecond, clock)

	runs := 0
	d.Schedule(func() { runs++ })
	d.Stop()
	d.Schedule(func() { runs++ })

	clock.Advance(time.Second)
	if runs != 0 {
		t.Errorf("expected no runs after Stop, got %d", runs)
	}
	if d.Pending() {
		t.Error("expected nothing pending after Stop")
	}
}

func TestDebouncer_ScheduleFromAction(t *testing.T) {
	clock := testutil.NewManualClock()
	d := debounce.New(10*time.Millisecond, clock)

	runs := 0
	d.Schedule(func() {
		runs++
		d.Schedule(func() { runs++ })
	})

	clock.Advance(10 * time.Millisecond)
	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}
	clock.Advance(10 * time.Millisecond)
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
}

func TestDebouncer_SystemClock(t *testing.T) {
	d := debounce.New(time.Millisecond, nil)

	done := make(chan struct{})
	d.Schedule(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("action did not run")
	}
}
