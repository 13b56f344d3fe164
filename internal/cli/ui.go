package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/dockworks/pkg/dock"
	"github.com/matzehuels/dockworks/pkg/geometry"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleAnchor  = lipgloss.NewStyle().Foreground(colorDim)
	styleOmni    = lipgloss.NewStyle().Foreground(colorBlue)
	styleRunning = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Utilities
// =============================================================================

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

// =============================================================================
// Dock Tables
// =============================================================================

// dockTitle is the heading line of one dock.
func dockTitle(dv dock.DockView, names func(int) string) string {
	title := dv.Kind
	switch {
	case dv.Name != "":
		title += " " + dv.Name
	case dv.Kind == dock.Clip.String() && names != nil:
		title += " " + names(dv.Workspace)
	}
	meta := fmt.Sprintf("%d/%d  %s  %s", dv.Count, dv.Capacity, dv.Side, fmtPoint(dv.Origin))
	if f := fmtFlags(dv.Flags, dv.Hidden); f != "" {
		meta += "  " + f
	}
	return StyleTitle.Render(title) + "  " + StyleDim.Render(meta)
}

func fmtPoint(p geometry.Point) string {
	return fmt.Sprintf("@%d,%d", p.X, p.Y)
}

func fmtFlags(f dock.Flags, hidden bool) string {
	var out []string
	for _, fl := range []struct {
		on   bool
		name string
	}{
		{hidden, "hidden"},
		{f.Lowered, "lowered"},
		{f.AutoRaiseLower, "autoraise"},
		{f.Collapsed, "collapsed"},
		{f.AutoCollapse, "autocollapse"},
		{f.AttractIcons, "attract"},
	} {
		if fl.on {
			out = append(out, fl.name)
		}
	}
	return strings.Join(out, " ")
}

func iconFlags(ic dock.IconView) string {
	var out []string
	for _, fl := range []struct {
		on   bool
		name string
	}{
		{ic.Running, "running"},
		{ic.Launching, "launching"},
		{ic.Omnipresent, "omni"},
		{ic.Attracted, "attracted"},
		{ic.AutoLaunch, "autolaunch"},
		{ic.Lock, "lock"},
	} {
		if fl.on {
			out = append(out, fl.name)
		}
	}
	return strings.Join(out, " ")
}

// dockTable renders the icons of a dock in slot-table order. cursor marks
// one row; -1 marks none.
func dockTable(dv dock.DockView, cursor int) string {
	rows := make([][]string, 0, len(dv.Icons))
	for i, ic := range dv.Icons {
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		cmd := ic.Command
		if cmd == "" {
			cmd = "—"
		}
		rows = append(rows, []string{mark, ic.Slot.String(), ic.Name, cmd, iconFlags(ic)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Slot", "Icon", "Command", "Flags").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row < 0 || row >= len(dv.Icons) {
				return lipgloss.NewStyle()
			}
			ic := dv.Icons[row]
			base := lipgloss.NewStyle()
			if row == cursor {
				base = base.Bold(true)
			}
			switch {
			case ic.Anchor:
				return base.Inherit(styleAnchor)
			case col == 3:
				return base.Inherit(styleCommand)
			case ic.Omnipresent:
				return base.Inherit(styleOmni)
			case ic.Running:
				return base.Inherit(styleRunning)
			}
			return base
		})
	return t.Render()
}
