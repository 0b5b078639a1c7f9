package scoring

import (
	"iter"
	"slices"
	"sync"
)

// InningsStatus is the lifecycle of a single innings' ball log.
type InningsStatus string

const (
	InningsNotStarted InningsStatus = "not_started"
	InningsInProgress InningsStatus = "in_progress"
	InningsCompleted  InningsStatus = "completed"
)

type inningsLog struct {
	status   InningsStatus
	declared bool
	events   []BallEvent
}

// Store is the append-only ball log, one ordered sequence per innings.
// Append is the only way events get in; nothing is ever edited or removed.
type Store struct {
	mu      sync.RWMutex
	seq     int64
	innings map[uint]*inningsLog
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{innings: make(map[uint]*inningsLog)}
}

// Open registers an innings as not started. Opening an existing innings is a no-op.
func (s *Store) Open(inningsID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.innings[inningsID]; !ok {
		s.innings[inningsID] = &inningsLog{status: InningsNotStarted}
	}
}

// NextSequence is the sequence number the next appended event will receive.
func (s *Store) NextSequence() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq + 1
}

// CanAppend reports whether an event for inningsID would be accepted.
func (s *Store) CanAppend(inningsID uint) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := s.writable(inningsID)
	return err
}

func (s *Store) writable(inningsID uint) (*inningsLog, error) {
	log, ok := s.innings[inningsID]
	if !ok {
		return nil, invalidState("innings %d is not open", inningsID)
	}
	if log.status == InningsCompleted {
		return nil, invalidState("innings %d is already completed", inningsID)
	}
	return log, nil
}

// Append validates and stores the event, assigning its sequence number. The first ball
// moves a not-started innings to in progress.
func (s *Store) Append(event BallEvent) (BallEvent, error) {
	event = event.Normalize()
	if err := event.Validate(); err != nil {
		return BallEvent{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.writable(event.InningsID)
	if err != nil {
		return BallEvent{}, err
	}

	s.seq++
	event.Sequence = s.seq

	// Sequence breaks ties, so an event always lands after every event with the same position.
	idx, _ := slices.BinarySearchFunc(log.events, event, compareEvents)
	if idx < len(log.events) {
		// Readers may hold a snapshot of the backing array; never shift it in place.
		log.events = slices.Clone(log.events)
	}
	log.events = slices.Insert(log.events, idx, event)

	if log.status == InningsNotStarted {
		log.status = InningsInProgress
	}
	return event, nil
}

func compareEvents(a, b BallEvent) int {
	switch {
	case a.Over != b.Over:
		return a.Over - b.Over
	case a.BallInOver != b.BallInOver:
		return a.BallInOver - b.BallInOver
	case a.Sequence < b.Sequence:
		return -1
	case a.Sequence > b.Sequence:
		return 1
	}
	return 0
}

// Complete closes the innings. Further appends fail with InvalidState.
func (s *Store) Complete(inningsID uint, declared bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	log, err := s.writable(inningsID)
	if err != nil {
		return err
	}
	log.status = InningsCompleted
	log.declared = declared
	return nil
}

// Status returns the innings status and whether it was declared.
func (s *Store) Status(inningsID uint) (InningsStatus, bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log, ok := s.innings[inningsID]
	if !ok {
		return "", false, false
	}
	return log.status, log.declared, true
}

// Len is the number of events recorded for the innings.
func (s *Store) Len(inningsID uint) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if log, ok := s.innings[inningsID]; ok {
		return len(log.events)
	}
	return 0
}

// Events returns the ordered events of an innings. The sequence is a snapshot taken at call
// time; ranging over it again replays the same events.
func (s *Store) Events(inningsID uint) iter.Seq[BallEvent] {
	s.mu.RLock()
	var snapshot []BallEvent
	if log, ok := s.innings[inningsID]; ok {
		snapshot = log.events[:len(log.events):len(log.events)]
	}
	s.mu.RUnlock()

	return func(yield func(BallEvent) bool) {
		for _, e := range snapshot {
			if !yield(e) {
				return
			}
		}
	}
}

// Last returns up to n most recent events, oldest first.
func (s *Store) Last(inningsID uint, n int) []BallEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log, ok := s.innings[inningsID]
	if !ok || n <= 0 {
		return []BallEvent{}
	}
	start := max(len(log.events)-n, 0)
	return slices.Clone(log.events[start:])
}

// withEvent returns the events followed by one more, so a delivery can be evaluated
// against the log before it is stored.
func withEvent(events iter.Seq[BallEvent], next BallEvent) iter.Seq[BallEvent] {
	return func(yield func(BallEvent) bool) {
		for e := range events {
			if !yield(e) {
				return
			}
		}
		yield(next)
	}
}
