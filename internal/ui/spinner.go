package ui

import (
	"fmt"
	"os"
	"sync"
	"time"
)

var frames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// Spinner displays an animated progress indicator on stderr. Results
// go to stdout, so a search stays pipeable while the spinner runs.
type Spinner struct {
	mu   sync.Mutex
	msg  string
	done chan struct{}
}

func NewSpinner() *Spinner {
	return &Spinner{}
}

// Start begins the spinner animation with the given message.
func (s *Spinner) Start(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go s.run(done)
}

// Update changes the spinner message while it's running.
func (s *Spinner) Update(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Stop halts the spinner and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	s.mu.Unlock()

	fmt.Fprintf(os.Stderr, "\r\033[K")
}

func (s *Spinner) run(done chan struct{}) {
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()

	i := 0
	for {
		select {
		case <-done:
			return
		case <-tick.C:
			s.mu.Lock()
			msg := s.msg
			s.mu.Unlock()
			fmt.Fprintf(os.Stderr, "\r\033[K%c %s", frames[i%len(frames)], msg)
			i++
		}
	}
}
