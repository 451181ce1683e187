package scheduler

import (
	"github.com/thelolagemann/go-invaders/internal/types"
)

// Scheduler is a simple event scheduler that can be used to schedule events
// to be executed at a specific cycle.
//
// The scheduler is a linked list of events, sorted by the cycle at which
// they should be executed. When the scheduler is ticked, every event due
// within the elapsed cycles is executed in order. While a handler runs the
// scheduler's clock reads the event's own cycle, so a handler that
// reschedules itself does not drift by the overshoot of the instruction
// that crossed the boundary.
type Scheduler struct {
	cycles uint64
	root   *Event

	eventHandlers [eventTypes]func()
	events        [eventTypes]*Event // only one event of each type can be scheduled at a time
}

func NewScheduler() *Scheduler {
	s := &Scheduler{}

	// preallocate one event per type, rescheduling reuses it
	for i := range s.events {
		s.events[i] = &Event{eventType: EventType(i)}
	}

	return s
}

// Cycle returns the number of cycles the scheduler has been ticked.
func (s *Scheduler) Cycle() uint64 {
	return s.cycles
}

// RegisterEvent registers the function called when an event of the
// given type is due.
func (s *Scheduler) RegisterEvent(eventType EventType, fn func()) {
	s.eventHandlers[eventType] = fn
}

// Tick advances the scheduler by the given number of cycles, executing
// all events that become due.
func (s *Scheduler) Tick(c uint64) {
	target := s.cycles + c

	for s.root != nil && s.root.cycle <= target {
		event := s.root
		s.root = event.next
		event.next = nil
		event.scheduled = false

		s.cycles = event.cycle
		if fn := s.eventHandlers[event.eventType]; fn != nil {
			fn()
		}
	}

	s.cycles = target
}

// ScheduleEvent schedules an event to be executed the given number of
// cycles from now. Scheduling a type that is already pending moves it.
func (s *Scheduler) ScheduleEvent(eventType EventType, cycle uint64) {
	this := s.events[eventType]
	if this.scheduled {
		s.DescheduleEvent(eventType)
	}
	this.cycle = s.cycles + cycle
	this.scheduled = true

	// events due at the same cycle run in the order they were scheduled
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

// DescheduleEvent removes a pending event.
func (s *Scheduler) DescheduleEvent(eventType EventType) {
	var prev *Event
	for event := s.root; event != nil; event = event.next {
		if event.eventType == eventType {
			if prev == nil {
				s.root = event.next
			} else {
				prev.next = event.next
			}
			event.Reset()
			return
		}
		prev = event
	}
}

// Until returns the number of cycles until the given event fires, and
// false if it is not scheduled.
func (s *Scheduler) Until(eventType EventType) (uint64, bool) {
	event := s.events[eventType]
	if !event.scheduled {
		return 0, false
	}
	return event.cycle - s.cycles, true
}

// Reset clears all pending events and the cycle counter. Handlers stay
// registered.
func (s *Scheduler) Reset() {
	for event := s.root; event != nil; {
		next := event.next
		event.Reset()
		event = next
	}
	s.root = nil
	s.cycles = 0
}

var _ types.Stater = (*Scheduler)(nil)

// Load implements the types.Stater interface. Pending events are
// restored relative to the saved cycle.
func (s *Scheduler) Load(st *types.State) {
	s.Reset()
	s.cycles = st.Read64()
	n := int(st.Read8())
	for i := 0; i < n; i++ {
		eventType := EventType(st.Read8())
		in := st.Read64()
		if eventType >= 0 && eventType < eventTypes {
			s.ScheduleEvent(eventType, in)
		}
	}
}

// Save implements the types.Stater interface.
func (s *Scheduler) Save(st *types.State) {
	st.Write64(s.cycles)
	var pending []*Event
	for event := s.root; event != nil; event = event.next {
		pending = append(pending, event)
	}
	st.Write8(uint8(len(pending)))
	for _, event := range pending {
		st.Write8(uint8(event.eventType))
		st.Write64(event.cycle - s.cycles)
	}
}
