package dock

import (
	"testing"

	"github.com/matzehuels/dockworks/pkg/errors"
)

func TestChangeWorkspaceCarriesOmnipresent(t *testing.T) {
	f := newFixture(t, Options{Workspaces: 2})
	c0, c1 := f.d.Clip(0), f.d.Clip(1)
	omni := f.attach(t, c0, "xterm", Slot{X: -1})
	local := f.attach(t, c0, "gimp", Slot{X: -2})
	if err := f.d.SetOmnipresent(omni, true); err != nil {
		t.Fatalf("SetOmnipresent: %v", err)
	}

	if err := f.d.ChangeWorkspace(1); err != nil {
		t.Fatalf("ChangeWorkspace: %v", err)
	}
	if f.d.CurrentWorkspace() != 1 || f.d.CurrentClip() != c1 {
		t.Fatalf("current = %d, want 1", f.d.CurrentWorkspace())
	}

	ic, _ := f.d.Icon(omni)
	if ic.Dock != c1 || ic.Slot != (Slot{X: -1}) {
		t.Errorf("omnipresent icon in %s at %v, want clip 1 at (-1,0)", ic.Dock, ic.Slot)
	}
	if !f.rec.Surfaces[string(omni)].Mapped {
		t.Error("omnipresent icon unmapped after the switch")
	}
	if f.rec.Surfaces[string(local)].Mapped {
		t.Error("icon of the old clip still mapped")
	}
	if f.rec.Surfaces[string(f.dock(t, c0).Anchor())].Mapped {
		t.Error("old clip anchor still mapped")
	}
	if !f.rec.Surfaces[string(f.dock(t, c1).Anchor())].Mapped {
		t.Error("new clip anchor not mapped")
	}
	if n := f.dock(t, c0).Count(); n != 2 {
		t.Errorf("old clip count = %d, want 2", n)
	}

	if err := f.d.ChangeWorkspace(0); err != nil {
		t.Fatalf("ChangeWorkspace(0): %v", err)
	}
	if ic, _ := f.d.Icon(omni); ic.Dock != c0 {
		t.Errorf("omnipresent icon did not come back to clip 0")
	}
}

func TestChangeWorkspaceOutOfRange(t *testing.T) {
	f := newFixture(t, Options{Workspaces: 2})
	for _, n := range []int{-1, 2, 7} {
		if err := f.d.ChangeWorkspace(n); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ChangeWorkspace(%d) error = %v, want %s", n, err, errors.ErrCodeInvalidInput)
		}
	}
	if err := f.d.ChangeWorkspace(0); err != nil {
		t.Errorf("ChangeWorkspace(current) error = %v", err)
	}
}

func TestChangeWorkspaceCollapsesOldClip(t *testing.T) {
	f := newFixture(t, Options{Workspaces: 2})
	c0 := f.d.Clip(0)
	if err := f.d.SetAutoCollapse(c0, true); err != nil {
		t.Fatalf("SetAutoCollapse: %v", err)
	}
	if err := f.d.SetCollapsed(c0, false); err != nil {
		t.Fatalf("SetCollapsed: %v", err)
	}
	if err := f.d.Leave(c0, ""); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if _, _, _, collapse := f.d.PendingAuto(c0); !collapse {
		t.Fatal("leaving the clip scheduled no collapse")
	}

	if err := f.d.ChangeWorkspace(1); err != nil {
		t.Fatalf("ChangeWorkspace: %v", err)
	}
	raise, _, expand, collapse := f.d.PendingAuto(c0)
	if raise || expand || collapse {
		t.Errorf("PendingAuto(old clip) = %v %v %v, want none", raise, expand, collapse)
	}
	if !f.dock(t, c0).Collapsed {
		t.Error("old clip not collapsed")
	}
}

func TestAddWorkspace(t *testing.T) {
	f := newFixture(t, Options{Workspaces: 2})
	c0 := f.dock(t, f.d.Clip(0))
	if err := f.d.SetAttractIcons(c0.ID, true); err != nil {
		t.Fatalf("SetAttractIcons: %v", err)
	}

	ws, err := f.d.AddWorkspace()
	if err != nil {
		t.Fatalf("AddWorkspace: %v", err)
	}
	if ws != 2 || f.d.Workspaces() != 3 {
		t.Fatalf("AddWorkspace() = %d with %d workspaces, want 2 of 3", ws, f.d.Workspaces())
	}
	c2 := f.dock(t, f.d.Clip(2))
	if c2.Origin != c0.Origin {
		t.Errorf("new clip origin = %v, want %v", c2.Origin, c0.Origin)
	}
	if !c2.AttractIcons {
		t.Error("new clip did not copy the clip flags")
	}
	if !c2.Hidden() || f.rec.Surfaces[string(c2.Anchor())].Mapped {
		t.Error("new clip of an inactive workspace is visible")
	}
	if err := f.d.ChangeWorkspace(2); err != nil {
		t.Errorf("ChangeWorkspace(2): %v", err)
	}
}

func TestWorkspaceNames(t *testing.T) {
	f := newFixture(t, Options{Workspaces: 3, WorkspaceNames: []string{"Main"}})

	if got := f.d.WorkspaceName(0); got != "Main" {
		t.Errorf("WorkspaceName(0) = %q, want Main", got)
	}
	if got := f.d.WorkspaceName(2); got != "Workspace 3" {
		t.Errorf("WorkspaceName(2) = %q, want Workspace 3", got)
	}
	if err := f.d.SetWorkspaceName(1, "Mail"); err != nil {
		t.Fatalf("SetWorkspaceName: %v", err)
	}
	if got := f.d.WorkspaceName(1); got != "Mail" {
		t.Errorf("WorkspaceName(1) = %q, want Mail", got)
	}
	if err := f.d.SetWorkspaceName(5, "x"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SetWorkspaceName(5) error = %v", err)
	}
}
