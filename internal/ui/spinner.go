package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Spinner animates a message on a terminal while a slow step runs. On other
// writers it prints the message once.
type Spinner struct {
	out     io.Writer
	message string
	tty     bool
	done    chan struct{}
	wg      sync.WaitGroup
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a spinner writing to out.
func NewSpinner(out io.Writer, message string) *Spinner {
	s := &Spinner{out: out, message: message, done: make(chan struct{})}
	if f, ok := out.(interface{ Fd() uintptr }); ok {
		s.tty = isatty.IsTerminal(f.Fd())
	}
	return s
}

// Start begins the animation.
func (s *Spinner) Start() {
	if !s.tty {
		fmt.Fprintf(s.out, "%s...\n", s.message)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.done:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				fmt.Fprintf(s.out, "\r%s %s", Bold.Render(spinnerFrames[i%len(spinnerFrames)]), s.message)
			}
		}
	}()
}

// Stop ends the animation and clears its line.
func (s *Spinner) Stop() {
	if !s.tty {
		return
	}
	close(s.done)
	s.wg.Wait()
}
