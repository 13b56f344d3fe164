package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dockworks/pkg/dock"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds slot, command and flags to icon labels.
	// When false, only the icon name is shown.
	Detailed bool
}

// ToDOT converts a desktop snapshot to Graphviz DOT source.
func ToDOT(v dock.View, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")

	var main *dock.DockView
	for i, dv := range v.Docks {
		if dv.Kind == dock.Main.String() {
			main = &v.Docks[i]
		}
		buf.WriteString("\n")
		writeCluster(&buf, dv, v.Workspace, opts)
	}

	if main != nil && len(main.Icons) > 0 {
		buf.WriteString("\n")
		for _, dv := range v.Docks {
			if dv.Kind != dock.Drawer.String() || len(dv.Icons) == 0 {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q [lhead=%q, style=dashed, arrowhead=none];\n",
				main.Icons[0].ID, dv.Icons[0].ID, clusterName(dv))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func clusterName(dv dock.DockView) string {
	return "cluster_" + string(dv.ID)
}

func writeCluster(buf *bytes.Buffer, dv dock.DockView, current int, opts Options) {
	fmt.Fprintf(buf, "  subgraph %q {\n", clusterName(dv))
	fmt.Fprintf(buf, "    label=%q;\n", dockLabel(dv, current))
	if dv.Hidden || dv.Flags.Collapsed {
		buf.WriteString("    style=dashed;\n")
	} else {
		buf.WriteString("    style=rounded;\n")
	}
	for _, ic := range dv.Icons {
		fmt.Fprintf(buf, "    %q [%s];\n", ic.ID, strings.Join(iconAttrs(ic, opts.Detailed), ", "))
	}
	buf.WriteString("  }\n")
}

func dockLabel(dv dock.DockView, current int) string {
	label := dv.Kind
	switch {
	case dv.Name != "":
		label += ": " + dv.Name
	case dv.Kind == dock.Clip.String():
		label = fmt.Sprintf("clip %d", dv.Workspace+1)
		if dv.Workspace == current {
			label += " (current)"
		}
	}
	return fmt.Sprintf("%s [%d/%d]", label, dv.Count, dv.Capacity)
}

func iconLabel(ic dock.IconView, detailed bool) string {
	if !detailed {
		return ic.Name
	}
	parts := []string{ic.Name, "slot: " + ic.Slot.String()}
	if ic.Command != "" {
		parts = append(parts, "cmd: "+ic.Command)
	}
	var flags []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{ic.Running, "running"},
		{ic.AutoLaunch, "autolaunch"},
		{ic.Lock, "lock"},
		{ic.Attracted, "attracted"},
	} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	if len(flags) > 0 {
		parts = append(parts, strings.Join(flags, " "))
	}
	return strings.Join(parts, "\n")
}

func iconAttrs(ic dock.IconView, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", iconLabel(ic, detailed))}
	switch {
	case ic.Anchor:
		attrs = append(attrs, "style=\"rounded,filled,bold\"", "fillcolor=lightgrey")
	case ic.Omnipresent:
		attrs = append(attrs, "fillcolor=lightblue")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales from
// the origin regardless of Graphviz's page offsets.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
