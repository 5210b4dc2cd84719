package scheduler

import (
	"testing"

	"github.com/thelolagemann/chipcore/internal/types"
)

func TestScheduler_Order(t *testing.T) {
	s := NewScheduler()
	var order []EventType
	for i := EventType(0); i < eventTypes; i++ {
		i := i
		s.RegisterEvent(i, func() { order = append(order, i) })
	}

	s.ScheduleEvent(FrameIRQ, 30)
	s.ScheduleEvent(VBlank, 10)
	s.ScheduleEvent(SerialTransfer, 20)
	s.ScheduleEvent(FrameIRQRelease, 20)

	s.Tick(15)
	if len(order) != 1 || order[0] != VBlank {
		t.Fatalf("expected only VBlank, got %v", order)
	}
	s.Tick(15)
	want := []EventType{VBlank, SerialTransfer, FrameIRQRelease, FrameIRQ}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], order[i])
		}
	}
	if s.Cycle() != 30 {
		t.Errorf("expected cycle 30, got %d", s.Cycle())
	}
}

func TestScheduler_Reschedule(t *testing.T) {
	s := NewScheduler()
	count := 0
	s.RegisterEvent(VBlank, func() {
		count++
		s.ScheduleEvent(VBlank, 100)
	})
	s.ScheduleEvent(VBlank, 100)

	s.Tick(350)
	if count != 3 {
		t.Errorf("expected 3 frames, got %d", count)
	}
	if until, ok := s.Until(); !ok || until != 50 {
		t.Errorf("expected next frame in 50 cycles, got %d %v", until, ok)
	}
}

func TestScheduler_Replace(t *testing.T) {
	s := NewScheduler()
	fired := false
	s.RegisterEvent(SerialTransfer, func() { fired = true })

	s.ScheduleEvent(SerialTransfer, 10)
	s.ScheduleEvent(SerialTransfer, 50)
	s.Tick(20)
	if fired {
		t.Fatal("expected the rescheduled event not to fire early")
	}
	s.Tick(30)
	if !fired {
		t.Fatal("expected the event to fire at cycle 50")
	}
}

func TestScheduler_Deschedule(t *testing.T) {
	s := NewScheduler()
	fired := false
	s.RegisterEvent(FrameIRQ, func() { fired = true })
	s.ScheduleEvent(FrameIRQ, 10)
	s.ScheduleEvent(VBlank, 20)

	s.DescheduleEvent(FrameIRQ)
	if s.Scheduled(FrameIRQ) {
		t.Error("expected FrameIRQ to be descheduled")
	}
	s.Tick(100)
	if fired {
		t.Error("expected a descheduled event not to fire")
	}
	if s.String() != "" {
		t.Errorf("expected an empty schedule, got %s", s)
	}
}

func TestScheduler_Skip(t *testing.T) {
	s := NewScheduler()
	if skipped := s.Skip(); skipped != 0 {
		t.Errorf("expected nothing to skip, got %d", skipped)
	}

	fired := false
	s.RegisterEvent(VBlank, func() { fired = true })
	s.ScheduleEvent(VBlank, 70224)
	s.Tick(24)
	if skipped := s.Skip(); skipped != 70200 || !fired {
		t.Errorf("expected to skip 70200 cycles to the event, got %d fired=%v", skipped, fired)
	}

	s.ScheduleEvent(VBlank, 10)
	s.Reset()
	if s.Cycle() != 0 || s.Scheduled(VBlank) {
		t.Errorf("expected reset scheduler, got %s at %d", s, s.Cycle())
	}
}

func TestScheduler_State(t *testing.T) {
	s := NewScheduler()
	s.Tick(1000)
	s.ScheduleEvent(SerialTransfer, 4096)
	s.ScheduleEvent(VBlank, 500)

	st := types.NewState("test", 1)
	s.Save(st)

	other := NewScheduler()
	fired := 0
	other.RegisterEvent(VBlank, func() { fired++ })
	other.ScheduleEvent(FrameIRQ, 1)
	if err := other.Load(st); err != nil {
		t.Fatal(err)
	}
	if other.String() != s.String() || other.Cycle() != 1000 {
		t.Errorf("expected %s at 1000, got %s at %d", s, other, other.Cycle())
	}
	other.Tick(500)
	if fired != 1 {
		t.Errorf("expected the restored VBlank to fire, got %d", fired)
	}
}
