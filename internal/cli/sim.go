package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dockworks/pkg/config"
	"github.com/matzehuels/dockworks/pkg/dock"
	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/geometry"
	dio "github.com/matzehuels/dockworks/pkg/io"
	"github.com/matzehuels/dockworks/pkg/launcher"
	"github.com/matzehuels/dockworks/pkg/state"
	"github.com/matzehuels/dockworks/pkg/timer"
)

// simTick is how far the simulated clock advances per frame.
const simTick = 100 * time.Millisecond

var (
	simSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	simErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	simHelpStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

const simHelp = `tab dock  ↑/↓ icon  n new  x remove  m drag  o omnipresent  L launch  K exit
d drawer  D remove drawer  c compact  z collapse  a autocollapse  r autoraise
t attract  e/l enter/leave  w workspace  W add workspace  s save  q quit`

// simCommand starts the interactive terminal simulator.
func (c *CLI) simCommand() *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   "sim [state.json]",
		Short: "Explore the dock engine interactively in the terminal",
		Long: `Run a desktop in the terminal. Launches are recorded, not executed, and
auto-behavior timers run on a simulated clock. With a state file the
simulator starts from the saved session; s writes the session back.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fake := &launcher.Fake{}
			var (
				o   *offline
				err error
			)
			if len(args) == 1 {
				o, err = c.restoreFile(args[0], fake)
				if save == "" {
					save = args[0]
				}
			} else {
				o, err = newOffline(c.cfgOrDefault(), fake, c.Logger)
			}
			if err != nil {
				return err
			}
			defer o.desk.Close()
			if save == "" {
				save = "dockworks-sim.json"
			}

			// Engine logs would tear the alt screen.
			level := c.Logger.GetLevel()
			c.Logger.SetLevel(log.FatalLevel)
			defer c.Logger.SetLevel(level)

			m := newSimModel(o.desk, o.clock, fake, save)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&save, "save", "o", "", "file written by s (default the input file)")
	return cmd
}

// cfgOrDefault loads the config, falling back to the defaults on error.
func (c *CLI) cfgOrDefault() *config.Config {
	cfg, err := c.loadConfig()
	if err != nil {
		c.Logger.Warn("using default config", "err", err)
		return config.Default()
	}
	return cfg
}

type simTickMsg time.Time

func simTickCmd() tea.Cmd {
	return tea.Tick(simTick, func(t time.Time) tea.Msg { return simTickMsg(t) })
}

type simDrag struct {
	icon dock.IconID
	from geometry.Point
	pos  geometry.Point
}

// simModel is the bubbletea model of the simulator. Update is the dispatch
// goroutine: every desktop call and every timer callback runs inside it.
type simModel struct {
	desk     *dock.Desktop
	clock    *timer.Manual
	fake     *launcher.Fake
	savePath string

	handles map[dock.IconID]launcher.Handle
	dockIdx int
	cursor  int
	drag    *simDrag
	seq     int
	status  string
	failed  bool
}

func newSimModel(d *dock.Desktop, clock *timer.Manual, fake *launcher.Fake, savePath string) *simModel {
	return &simModel{
		desk:     d,
		clock:    clock,
		fake:     fake,
		savePath: savePath,
		handles:  make(map[dock.IconID]launcher.Handle),
	}
}

func (m *simModel) Init() tea.Cmd {
	return simTickCmd()
}

// visible lists the docks shown: Main, the current Clip and the drawers.
func (m *simModel) visible() []dock.DockID {
	var ids []dock.DockID
	if id := m.desk.MainDock(); id != "" {
		ids = append(ids, id)
	}
	if id := m.desk.CurrentClip(); id != "" {
		ids = append(ids, id)
	}
	return append(ids, m.desk.Drawers()...)
}

func (m *simModel) selectedDock() (dock.DockView, bool) {
	ids := m.visible()
	if len(ids) == 0 {
		return dock.DockView{}, false
	}
	if m.dockIdx >= len(ids) {
		m.dockIdx = len(ids) - 1
	}
	dv, err := m.desk.DockView(ids[m.dockIdx])
	return dv, err == nil
}

func (m *simModel) selectedIcon() (dock.IconView, bool) {
	dv, ok := m.selectedDock()
	if !ok || len(dv.Icons) == 0 {
		return dock.IconView{}, false
	}
	if m.cursor >= len(dv.Icons) {
		m.cursor = len(dv.Icons) - 1
	}
	return dv.Icons[m.cursor], true
}

// focus moves the selection to icon id in dock dockID.
func (m *simModel) focus(dockID dock.DockID, id dock.IconID) {
	for i, did := range m.visible() {
		if did != dockID {
			continue
		}
		m.dockIdx = i
		dv, err := m.desk.DockView(did)
		if err != nil {
			return
		}
		for j, ic := range dv.Icons {
			if ic.ID == id {
				m.cursor = j
			}
		}
	}
}

func (m *simModel) report(err error, format string, args ...any) {
	if err != nil {
		m.status = errors.UserMessage(err)
		m.failed = true
		return
	}
	m.status = fmt.Sprintf(format, args...)
	m.failed = false
}

func (m *simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case simTickMsg:
		m.clock.Advance(simTick)
		return m, simTickCmd()
	case tea.KeyMsg:
		if m.drag != nil {
			return m, m.updateDrag(msg.String())
		}
		return m, m.updateKey(msg.String())
	}
	return m, nil
}

func (m *simModel) updateKey(key string) tea.Cmd {
	dv, haveDock := m.selectedDock()
	ic, haveIcon := m.selectedIcon()

	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "tab", "shift+tab":
		n := len(m.visible())
		if n == 0 {
			return nil
		}
		if key == "tab" {
			m.dockIdx = (m.dockIdx + 1) % n
		} else {
			m.dockIdx = (m.dockIdx + n - 1) % n
		}
		m.cursor = 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if haveDock && m.cursor < len(dv.Icons)-1 {
			m.cursor++
		}
	case "n":
		if !haveDock {
			return nil
		}
		m.seq++
		name := fmt.Sprintf("app%d", m.seq)
		id := m.desk.NewIcon(name, "Sim", "xterm -T "+name, 0)
		slot, err := m.desk.DockIcon(dv.ID, id)
		if err != nil {
			_ = m.desk.DiscardIcon(id)
			m.report(err, "")
			return nil
		}
		m.focus(dv.ID, id)
		m.report(nil, "docked %s at %s", name, slot)
	case "x":
		if haveIcon {
			m.report(m.desk.RemoveIcon(ic.ID), "removed %s", ic.Name)
		}
	case "m":
		if !haveIcon {
			return nil
		}
		if err := m.desk.BeginDrag(ic.ID); err != nil {
			m.report(err, "")
			return nil
		}
		m.drag = &simDrag{icon: ic.ID, from: ic.Pos, pos: ic.Pos}
		m.report(nil, "dragging %s from %s, arrows move, enter drops, esc cancels", ic.Name, fmtPoint(ic.Pos))
	case "o":
		if haveIcon {
			m.report(m.desk.SetOmnipresent(ic.ID, !ic.Omnipresent), "%s omnipresent: %v", ic.Name, !ic.Omnipresent)
		}
	case "L", "enter":
		if !haveIcon {
			return nil
		}
		before := len(m.fake.Launched)
		err := m.desk.Launch(context.Background(), ic.ID)
		if err == nil && len(m.fake.Launched) > before {
			m.handles[ic.ID] = launcher.Handle(len(m.fake.Launched))
		}
		m.report(err, "launched %s", ic.Name)
	case "K":
		h, ok := m.handles[ic.ID]
		if !haveIcon || !ok {
			return nil
		}
		delete(m.handles, ic.ID)
		m.report(m.desk.ProcessExited(h, 0), "%s exited", ic.Name)
	case "d":
		id, err := m.desk.AddDrawer()
		if err == nil {
			m.focus(id, "")
			m.cursor = 0
		}
		m.report(err, "added drawer")
	case "D":
		if haveDock {
			m.report(m.desk.RemoveDrawer(dv.ID), "removed %s", dv.Name)
		}
	case "c":
		if haveDock {
			shifts, err := m.desk.Consolidate(dv.ID)
			m.report(err, "moved %d icons", len(shifts))
		}
	case "z":
		if haveDock {
			m.report(m.desk.SetCollapsed(dv.ID, !dv.Flags.Collapsed), "collapsed: %v", !dv.Flags.Collapsed)
		}
	case "a":
		if haveDock {
			m.report(m.desk.SetAutoCollapse(dv.ID, !dv.Flags.AutoCollapse), "autocollapse: %v", !dv.Flags.AutoCollapse)
		}
	case "r":
		if haveDock {
			m.report(m.desk.SetAutoRaiseLower(dv.ID, !dv.Flags.AutoRaiseLower), "autoraise: %v", !dv.Flags.AutoRaiseLower)
		}
	case "t":
		if haveDock {
			m.report(m.desk.SetAttractIcons(dv.ID, !dv.Flags.AttractIcons), "attract: %v", !dv.Flags.AttractIcons)
		}
	case "e":
		if haveDock {
			m.report(m.desk.Enter(dv.ID), "entered %s", dv.Kind)
		}
	case "l":
		if haveDock {
			m.report(m.desk.Leave(dv.ID, ""), "left %s", dv.Kind)
		}
	case "w":
		next := (m.desk.CurrentWorkspace() + 1) % m.desk.Workspaces()
		m.report(m.desk.ChangeWorkspace(next), "workspace %s", m.desk.WorkspaceName(next))
	case "W":
		ws, err := m.desk.AddWorkspace()
		m.report(err, "added workspace %s", m.desk.WorkspaceName(ws))
	case "s":
		doc, err := state.SaveSession(m.desk)
		if err == nil {
			err = dio.ExportDocument(doc, m.savePath)
		}
		m.report(err, "saved %s", m.savePath)
	}
	return nil
}

func (m *simModel) updateDrag(key string) tea.Cmd {
	step := m.desk.Geometry().IconSize()
	switch key {
	case "left", "h":
		m.drag.pos.X -= step
	case "right", "l":
		m.drag.pos.X += step
	case "up", "k":
		m.drag.pos.Y -= step
	case "down", "j":
		m.drag.pos.Y += step
	case "enter", "esc":
		pos := m.drag.pos
		if key == "esc" {
			pos = m.drag.from
		}
		id := m.drag.icon
		m.drag = nil
		out, err := m.desk.EndDrag(pos)
		if err == nil && out.Dock != "" {
			m.focus(out.Dock, id)
		}
		m.report(err, "%s", out.Result)
		return nil
	case "ctrl+c":
		return tea.Quit
	default:
		return nil
	}

	res, ok, err := m.desk.DragMotion(m.drag.pos)
	switch {
	case err != nil:
		m.report(err, "")
	case !ok:
		m.report(nil, "%s: no slot, release detaches", fmtPoint(m.drag.pos))
	default:
		m.report(nil, "%s: slot %s", fmtPoint(m.drag.pos), res.Slot)
	}
	return nil
}

func (m *simModel) View() string {
	var b strings.Builder

	ws := m.desk.CurrentWorkspace()
	b.WriteString(StyleTitle.Render("dockworks sim"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  workspace %s (%d/%d)  t=%s",
		m.desk.WorkspaceName(ws), ws+1, m.desk.Workspaces(), m.clock.Now())))
	b.WriteString("\n\n")

	for i, id := range m.visible() {
		dv, err := m.desk.DockView(id)
		if err != nil {
			continue
		}
		cursor := -1
		mark := "  "
		if i == m.dockIdx {
			cursor = m.cursor
			mark = simSelectedStyle.Render("▸ ")
		}
		b.WriteString(mark + dockTitle(dv, m.desk.WorkspaceName))
		if p := m.pending(id); p != "" {
			b.WriteString(StyleWarning.Render("  ⏱ " + p))
		}
		b.WriteString("\n")
		b.WriteString(dockTable(dv, cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.failed {
		b.WriteString(simErrorStyle.Render(iconError + " " + m.status))
	} else if m.status != "" {
		b.WriteString(StyleSuccess.Render(iconInfo + " " + m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(simHelpStyle.Render(simHelp))
	return b.String()
}

// pending names the auto actions scheduled for dock id.
func (m *simModel) pending(id dock.DockID) string {
	raise, lower, expand, collapse := m.desk.PendingAuto(id)
	var out []string
	for _, p := range []struct {
		on   bool
		name string
	}{{raise, "raise"}, {lower, "lower"}, {expand, "expand"}, {collapse, "collapse"}} {
		if p.on {
			out = append(out, p.name)
		}
	}
	return strings.Join(out, " ")
}
