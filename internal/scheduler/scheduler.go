// Package scheduler provides the cycle based event scheduler that
// drives the machines around a CPU core.
package scheduler

import (
	"fmt"
	"strings"

	"github.com/thelolagemann/chipcore/internal/types"
)

// Scheduler is a simple event scheduler that can be used to schedule events
// to be executed at a specific cycle.
//
// The scheduler is a linked list of events, sorted by the cycle at which
// they should be executed. When an event is scheduled, it is inserted into
// the list in the correct position, and when the scheduler is ticked, every
// event that has become due is executed and removed from the list.
type Scheduler struct {
	cycles uint64
	root   *Event

	eventHandlers [eventTypes]func()
	events        [eventTypes]Event // only one event of each type can be scheduled at a time
}

// NewScheduler returns an empty scheduler at cycle 0.
func NewScheduler() *Scheduler {
	s := &Scheduler{}
	for i := range s.events {
		s.events[i].eventType = EventType(i)
	}
	return s
}

// Cycle returns the number of cycles the scheduler was ticked by.
func (s *Scheduler) Cycle() uint64 {
	return s.cycles
}

// RegisterEvent registers a function of the EventType to be called when
// the event is due. This is to avoid the cost of having to allocate a
// function for each event, as the functions always perform the same task.
func (s *Scheduler) RegisterEvent(eventType EventType, fn func()) {
	s.eventHandlers[eventType] = fn
}

// Tick advances the scheduler by the given number of cycles, executing
// every event due up to the new cycle in order. While a handler runs
// Cycle reports the cycle its event was due at, so that events it
// schedules are relative to that cycle.
func (s *Scheduler) Tick(c uint64) {
	target := s.cycles + c

	for s.root != nil && s.root.cycle <= target {
		s.cycles = s.root.cycle
		s.doEvent()
	}
	s.cycles = target
}

// ScheduleEvent schedules an event to be executed the given number of
// cycles from now. An event of the same type that was already scheduled
// is replaced.
func (s *Scheduler) ScheduleEvent(eventType EventType, cycles uint64) {
	s.DescheduleEvent(eventType)

	this := &s.events[eventType]
	this.cycle = s.cycles + cycles
	this.scheduled = true

	// events due at the same cycle keep the order they were scheduled in
	if s.root == nil || this.cycle < s.root.cycle {
		this.next = s.root
		s.root = this
		return
	}
	event := s.root
	for event.next != nil && event.next.cycle <= this.cycle {
		event = event.next
	}
	this.next = event.next
	event.next = this
}

// DescheduleEvent removes the event of the given type, if scheduled.
func (s *Scheduler) DescheduleEvent(eventType EventType) {
	if !s.events[eventType].scheduled {
		return
	}

	var prev *Event
	for event := s.root; event != nil; prev, event = event, event.next {
		if event.eventType != eventType {
			continue
		}
		if prev == nil {
			s.root = event.next
		} else {
			prev.next = event.next
		}
		event.next = nil
		event.scheduled = false
		return
	}
}

// Scheduled reports whether an event of the given type is pending.
func (s *Scheduler) Scheduled(eventType EventType) bool {
	return s.events[eventType].scheduled
}

// Until returns the number of cycles until the next event, and false
// when nothing is scheduled.
func (s *Scheduler) Until() (uint64, bool) {
	if s.root == nil {
		return 0, false
	}
	if s.root.cycle <= s.cycles {
		return 0, true
	}
	return s.root.cycle - s.cycles, true
}

func (s *Scheduler) doEvent() {
	event := s.root
	s.root = event.next
	event.next = nil
	event.scheduled = false

	if fn := s.eventHandlers[event.eventType]; fn != nil {
		fn()
	}
}

// Skip invokes the scheduler to execute the next event, by setting the
// current cycle to the cycle at which the next event is scheduled to be
// executed. This is useful when the CPU is halted, and the scheduler
// should be invoked to execute until the CPU is un-halted by an interrupt.
// It returns the number of cycles skipped.
func (s *Scheduler) Skip() uint64 {
	until, ok := s.Until()
	if !ok {
		return 0
	}
	s.Tick(until)
	return until
}

// Reset removes every scheduled event and rewinds to cycle 0.
func (s *Scheduler) Reset() {
	for s.root != nil {
		s.DescheduleEvent(s.root.eventType)
	}
	s.cycles = 0
}

func (s *Scheduler) String() string {
	var b strings.Builder
	for event := s.root; event != nil; event = event.next {
		fmt.Fprintf(&b, "%s:%d->", event.eventType, event.cycle)
	}
	return b.String()
}

var _ types.Stater = (*Scheduler)(nil)

// Save implements the types.Stater interface. For every event type
// it records whether it is scheduled, and the cycle it is due at.
func (s *Scheduler) Save(st *types.State) {
	st.Write64("Cycle", s.cycles)
	for i := range s.events {
		e := &s.events[i]
		st.WriteBool(e.eventType.String(), e.scheduled)
		st.Write64(e.eventType.String()+"At", e.cycle)
	}
}

// Load implements the types.Stater interface. Registered handlers
// are kept.
func (s *Scheduler) Load(st *types.State) error {
	s.Reset()
	s.cycles = st.Read64("Cycle")
	for i := range s.events {
		eventType := EventType(i)
		scheduled := st.ReadBool(eventType.String())
		at := st.Read64(eventType.String() + "At")
		if scheduled && at >= s.cycles {
			s.ScheduleEvent(eventType, at-s.cycles)
		}
	}
	return st.Err()
}
