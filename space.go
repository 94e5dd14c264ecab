package qmag

import (
	"log"
	"sync"
	"time"
)

// Outcome wraps the result of a job with its metadata.
type Outcome struct {
	Value     any
	Error     error
	CreatedAt time.Time
}

/*
Space stores job outcomes by job id. Await may be called before or after
the outcome is stored; either way the returned channel delivers it exactly
once and is then closed.
*/
type Space struct {
	mu      sync.Mutex
	values  map[string]Outcome
	waiting map[string][]chan Outcome
}

func NewSpace() *Space {
	return &Space{
		values:  make(map[string]Outcome),
		waiting: make(map[string][]chan Outcome),
	}
}

// Store records the outcome of a job and wakes everyone awaiting it.
func (s *Space) Store(id string, value any, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Outcome{
		Value:     value,
		Error:     err,
		CreatedAt: time.Now(),
	}
	s.values[id] = out

	channels := s.waiting[id]
	for _, ch := range channels {
		// Buffered with capacity one and written once, so this never blocks.
		ch <- out
		close(ch)
	}
	delete(s.waiting, id)

	if err != nil {
		log.Printf("Stored failed outcome for job %s (%d waiting): %v", id, len(channels), err)
	}
}

// Await returns a channel that receives the outcome of job id once it is stored.
func (s *Space) Await(id string) <-chan Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Outcome, 1)

	if out, ok := s.values[id]; ok {
		ch <- out
		close(ch)
		return ch
	}

	s.waiting[id] = append(s.waiting[id], ch)
	return ch
}

// Exists reports whether an outcome for id has been stored.
func (s *Space) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.values[id]
	return ok
}

// Forget drops a stored outcome. Pending awaiters are unaffected.
func (s *Space) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, id)
}
