package dock

import (
	"strings"

	"github.com/matzehuels/dockworks/pkg/geometry"
	"github.com/matzehuels/dockworks/pkg/launcher"
)

// AppIcon is an application launcher icon. Icons live in the [Desktop]
// arena and are owned by at most one dock.
type AppIcon struct {
	ID       IconID
	Instance string
	Class    string

	Command      string
	PasteCommand string
	DropCommand  string

	Docked      bool
	Running     bool
	Launching   bool
	Relaunching bool
	Omnipresent bool
	Attracted   bool
	AutoLaunch  bool
	Lock        bool
	Forced      bool
	Buggy       bool

	Slot Slot
	Dock DockID
	// Window is the main window of the running application, 0 when none.
	Window uint32
	// Pos is the top-left pixel position of the icon surface.
	Pos geometry.Point

	handle launcher.Handle
}

// Name returns the "instance.class" identity with literal dots escaped.
func (a *AppIcon) Name() string {
	return EscapeName(a.Instance, a.Class)
}

// HasCommand reports whether the icon can be launched.
func (a *AppIcon) HasCommand() bool {
	return a.Command != "" && a.Command != "-"
}

// fillDefaultCommands derives paste and drop templates from the launch
// command when they were never set.
func (a *AppIcon) fillDefaultCommands() {
	if !a.HasCommand() {
		return
	}
	if a.PasteCommand == "" {
		a.PasteCommand = a.Command + " %s"
	}
	if a.DropCommand == "" {
		a.DropCommand = a.Command + " %d"
	}
}

// EscapeName joins instance and class into one persisted name.
func EscapeName(instance, class string) string {
	esc := func(s string) string { return strings.ReplaceAll(s, ".", `\.`) }
	switch {
	case instance != "" && class != "":
		return esc(instance) + "." + esc(class)
	case instance != "":
		return esc(instance)
	case class != "":
		return "." + esc(class)
	}
	return ""
}

// ParseName splits a name written by [EscapeName]. The first unescaped
// dot separates instance from class.
func ParseName(name string) (instance, class string) {
	var cur strings.Builder
	split := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '\\' && i+1 < len(name) && name[i+1] == '.' {
			cur.WriteByte('.')
			i++
			continue
		}
		if c == '.' && !split {
			instance = cur.String()
			cur.Reset()
			split = true
			continue
		}
		cur.WriteByte(c)
	}
	if split {
		class = cur.String()
	} else {
		instance = cur.String()
	}
	return instance, class
}
