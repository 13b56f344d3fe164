// Package render draws desktop snapshots for humans.
//
// The [nodelink] subpackage converts a [dock.View] into a Graphviz diagram:
// one cluster per dock, one node per icon, and an edge from the Main dock to
// every drawer hanging off it.
//
//	dot := nodelink.ToDOT(desktop.Snapshot(), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/dockworks/pkg/render/nodelink
// [dock.View]: github.com/matzehuels/dockworks/pkg/dock.View
package render
