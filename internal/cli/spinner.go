package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates a status line on w while a blocking call runs, such as
// dialing a network store.
type spinner struct {
	w       io.Writer
	message string
	every   time.Duration

	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
	width   int
}

// startSpinner draws message on w until stop is called or ctx ends.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	return startSpinnerEvery(ctx, w, message, 80*time.Millisecond)
}

func startSpinnerEvery(ctx context.Context, w io.Writer, message string, every time.Duration) *spinner {
	if ctx == nil {
		ctx = context.Background()
	}
	sctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:       w,
		message: message,
		every:   every,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	start := time.Now()
	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			line := fmt.Sprintf("%s %s %s",
				styleIconSpinner.Render(spinnerFrames[i%len(spinnerFrames)]),
				StyleDim.Render(s.message),
				StyleDim.Render(time.Since(start).Round(time.Second).String()))
			if n := len(line); n > s.width {
				s.width = n
			}
			fmt.Fprint(s.w, "\r"+line)
		}
	}
}

func (s *spinner) clear() {
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// stop ends the animation and waits for the line to be cleared. It is safe
// to call more than once.
func (s *spinner) stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

// fail stops the spinner and prints message as an error.
func (s *spinner) fail(message string) {
	s.stop()
	printError("%s", message)
}

// interrupted reports whether the parent context ended the spinner.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}
