package state

import (
	"fmt"

	"github.com/matzehuels/dockworks/pkg/dock"
)

// Skip describes one record that could not be restored.
type Skip struct {
	Dock dock.DockID
	Kind dock.Kind
	// Index is the record's position in the Applications array, -1 for a
	// whole drawer.
	Index int
	Err   error
}

func (s Skip) String() string {
	if s.Index < 0 {
		return fmt.Sprintf("%s: %v", s.Kind, s.Err)
	}
	return fmt.Sprintf("%s record %d: %v", s.Kind, s.Index, s.Err)
}

// Report summarizes a restore.
type Report struct {
	Restored int
	Skipped  []Skip
}

func (r *Report) merge(o *Report) {
	if o == nil {
		return
	}
	r.Restored += o.Restored
	r.Skipped = append(r.Skipped, o.Skipped...)
}
