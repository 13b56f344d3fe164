package launcher

import (
	"context"
	"errors"
)

// ErrRefused is returned by [Fake] for commands listed in Refuse.
var ErrRefused = errors.New("launcher: refused")

// Fake records launches without starting processes.
type Fake struct {
	Launched []string
	States   []*SavedState
	// Refuse lists commands that fail to start.
	Refuse map[string]bool

	next Handle
}

func (f *Fake) Launch(_ context.Context, command string, state *SavedState) (Handle, error) {
	if f.Refuse[command] {
		return 0, ErrRefused
	}
	f.Launched = append(f.Launched, command)
	f.States = append(f.States, state)
	f.next++
	return f.next, nil
}

var _ Launcher = (*Fake)(nil)
