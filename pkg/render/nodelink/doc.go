// Package nodelink renders desktop topology as a node-link diagram.
//
// # Usage
//
//	dot := nodelink.ToDOT(view, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Layout
//
// Every dock becomes a cluster labelled with its kind and name. Icons are
// rounded boxes in slot-table order; the anchor is drawn bold. Omnipresent
// icons are filled light blue, hidden docks (clips of other workspaces,
// collapsed drawers) are dashed. Drawers are linked from the Main dock.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
