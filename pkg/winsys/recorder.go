package winsys

import (
	"fmt"

	"github.com/matzehuels/dockworks/pkg/geometry"
)

// OpKind names a recorded operation.
type OpKind string

const (
	OpMove    OpKind = "move"
	OpMap     OpKind = "map"
	OpUnmap   OpKind = "unmap"
	OpRaise   OpKind = "raise"
	OpLower   OpKind = "lower"
	OpRestack OpKind = "restack"
	OpDestroy OpKind = "destroy"
)

// Op is one recorded call.
type Op struct {
	Kind OpKind
	ID   string
	Pos  geometry.Point
}

func (o Op) String() string {
	if o.Kind == OpMove {
		return fmt.Sprintf("%s %s (%d,%d)", o.Kind, o.ID, o.Pos.X, o.Pos.Y)
	}
	return fmt.Sprintf("%s %s", o.Kind, o.ID)
}

// Surface is the last known state of one icon surface.
type Surface struct {
	Pos    geometry.Point
	Mapped bool
	Raised bool
}

// Recorder implements [Ops] in memory. It keeps both the call log and the
// resulting surface state. It is not safe for concurrent use; like the
// engine it belongs to the dispatch goroutine.
type Recorder struct {
	Log      []Op
	Surfaces map[string]*Surface
	// Stack holds surface ids from the last Restack call, top first.
	Stack []string
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{Surfaces: make(map[string]*Surface)}
}

func (r *Recorder) surface(id string) *Surface {
	s, ok := r.Surfaces[id]
	if !ok {
		s = &Surface{Mapped: true}
		r.Surfaces[id] = s
	}
	return s
}

func (r *Recorder) MoveIcon(id string, pos geometry.Point) {
	r.Log = append(r.Log, Op{Kind: OpMove, ID: id, Pos: pos})
	r.surface(id).Pos = pos
}

func (r *Recorder) Map(id string) {
	r.Log = append(r.Log, Op{Kind: OpMap, ID: id})
	r.surface(id).Mapped = true
}

func (r *Recorder) Unmap(id string) {
	r.Log = append(r.Log, Op{Kind: OpUnmap, ID: id})
	r.surface(id).Mapped = false
}

func (r *Recorder) Raise(ids ...string) {
	for _, id := range ids {
		r.Log = append(r.Log, Op{Kind: OpRaise, ID: id})
		r.surface(id).Raised = true
	}
}

func (r *Recorder) Lower(ids ...string) {
	for _, id := range ids {
		r.Log = append(r.Log, Op{Kind: OpLower, ID: id})
		r.surface(id).Raised = false
	}
}

func (r *Recorder) Restack(ids []string) {
	for _, id := range ids {
		r.Log = append(r.Log, Op{Kind: OpRestack, ID: id})
	}
	r.Stack = append(r.Stack[:0], ids...)
}

func (r *Recorder) Destroy(id string) {
	r.Log = append(r.Log, Op{Kind: OpDestroy, ID: id})
	delete(r.Surfaces, id)
}

// Count returns how many logged operations of kind touched id.
func (r *Recorder) Count(kind OpKind, id string) int {
	n := 0
	for _, op := range r.Log {
		if op.Kind == kind && op.ID == id {
			n++
		}
	}
	return n
}

// Reset clears the log but keeps surface state.
func (r *Recorder) Reset() {
	r.Log = r.Log[:0]
}

var _ Ops = (*Recorder)(nil)
