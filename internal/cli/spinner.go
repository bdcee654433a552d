package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// spinnerFrames cycle through a braille dot animation.
var spinnerFrames = [...]string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates msg on one terminal line until Stop, Fail or the end of
// its context. Drawing is serialized with mu.
type spinner struct {
	msg  string
	w    io.Writer
	ctx  context.Context
	quit chan struct{}

	mu       sync.Mutex
	once     sync.Once
	finished sync.WaitGroup
}

// startSpinner animates msg on stderr.
func startSpinner(ctx context.Context, msg string) *spinner {
	return startSpinnerOn(ctx, os.Stderr, msg)
}

func startSpinnerOn(ctx context.Context, w io.Writer, msg string) *spinner {
	s := &spinner{msg: msg, w: w, ctx: ctx, quit: make(chan struct{})}
	s.finished.Add(1)
	go s.run()
	return s
}

func (s *spinner) run() {
	defer s.finished.Done()
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.quit:
			return
		case <-s.ctx.Done():
			s.erase()
			return
		case <-tick.C:
			s.draw(spinnerFrames[frame%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%s %s", statusSpinner.Render(frame), StyleDim.Render(s.msg))
}

func (s *spinner) erase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r%*s\r", len(s.msg)+4, "")
}

// Stop ends the animation and clears its line. Later calls do nothing.
func (s *spinner) Stop() {
	s.once.Do(func() {
		close(s.quit)
		s.finished.Wait()
		s.erase()
	})
}

// Fail stops the spinner and prints msg as an error line.
func (s *spinner) Fail(msg string) {
	s.Stop()
	printError("%s", msg)
}

// Canceled reports whether the context ended the animation rather than a
// call to Stop.
func (s *spinner) Canceled() bool {
	if s.ctx.Err() == nil {
		return false
	}
	select {
	case <-s.quit:
		return false
	default:
		return true
	}
}
