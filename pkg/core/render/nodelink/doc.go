// Package nodelink draws the family relationship network with Graphviz.
//
// Unlike the social map, which computes positions itself, nodelink hands
// layout to Graphviz:
//
//	Social:   families → layout.Build() → Layout → sink.RenderSVG() → SVG
//	Nodelink: families → ToDOT() → DOT → RenderSVG() → SVG
//
// The graph is undirected. Nodes are the families alive in the chosen year,
// filled by visual group; edges are their relationships dated on or before
// that year (undated ones always count), styled by type. A marriage and a
// blood tie between the same pair collapse into one edge; feuds are always
// drawn.
//
// # Layout Engines
//
// Set [Options.Engine] to pick the Graphviz layout:
//
//   - neato: Spring model (default), suited to undirected networks
//   - fdp: Force-directed with clusters
//   - circo: Circular
//   - dot: Hierarchical
//
// # Usage
//
//	dot := nodelink.ToDOT(families, 1300, nodelink.Options{})
//	svg, _ := nodelink.RenderSVG(ctx, dot)
package nodelink
