// Package sink renders a social-map [layout.Layout] to output formats.
//
// # SVG Output
//
// [RenderSVG] draws the map in data coordinates (viewBox 270×100): lane
// dividers, the Ghibelline/Guelf split at x = 110, the dashed White/Black
// split from 1300, faction headers, class labels and one group per family
// box. Magnates get a burgundy outline, exiles a terracotta outline, reduced
// opacity and an EXILE caption. Guelf boxes carry a White or Black strip from
// 1300.
//
//	svg := sink.RenderSVG(l, sink.WithSelected("1003"))
//
// # JSON Output
//
// [RenderJSON] serialises the layout with per-node resolved state, for
// clients that draw the map themselves.
package sink
