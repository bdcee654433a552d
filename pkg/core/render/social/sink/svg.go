package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/core/render/social/layout"
)

// Viewport in data units. The canvas is 260×90; the extra margin holds the
// rightmost exiles and the EXILE captions of the bottom lane.
const (
	ViewWidth  = 270.0
	ViewHeight = 100.0
)

// Colours.
const (
	colorInk         = "#332D28"
	colorPaper       = "#F3EDE2"
	colorMagnate     = "#800020"
	colorExile       = "#C17C59"
	colorStripWhite  = "#E5E5E5"
	colorStripBlack  = "#171717"
	colorBackground  = "#FBF8F1"
	exileOpacity     = 0.6
	magnateStroke    = 0.6
	defaultStroke    = 0.25
	selectionInflate = 1.2
)

// Divider and label positions, in data units.
const (
	dividerGrassiY = 40.0
	dividerPopoloY = 72.0
	headerY        = 5.0
	subHeaderY     = 9.0
	labelX         = 2.0
)

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	selected   string
	headers    bool
	images     bool
	background string
}

// WithSelected outlines the family with the given id, drawn above all others.
func WithSelected(id string) SVGOption { return func(r *svgRenderer) { r.selected = id } }

// WithoutHeaders omits faction headers and class labels.
func WithoutHeaders() SVGOption { return func(r *svgRenderer) { r.headers = false } }

// WithoutImages omits coat-of-arms images. Box sizes are unchanged.
func WithoutImages() SVGOption { return func(r *svgRenderer) { r.images = false } }

// WithBackground sets the page fill. An empty string leaves it transparent.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// RenderSVG draws l as a standalone SVG document.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{headers: true, images: true, background: colorBackground}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.0f %.0f" data-year="%d">`+"\n",
		ViewWidth, ViewHeight, l.Year)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.0f" height="%.0f" fill="%s"/>`+"\n", ViewWidth, ViewHeight, r.background)
	}

	renderDividers(&buf, l.Year)

	var selected *layout.Node
	for i := range l.Nodes {
		n := &l.Nodes[i]
		if n.ID == r.selected {
			selected = n
		}
		r.renderNode(&buf, *n)
	}
	if selected != nil {
		renderSelection(&buf, *selected)
	}

	if r.headers {
		renderHeaders(&buf, l.Year)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDividers(buf *bytes.Buffer, year int) {
	fmt.Fprintf(buf, `  <g class="dividers" stroke="%s" stroke-width="0.2">`+"\n", colorInk)
	fmt.Fprintf(buf, `    <line x1="%.1f" y1="0" x2="%.1f" y2="%.0f" opacity="0.4"/>`+"\n", layout.SideSplitX, layout.SideSplitX, ViewHeight)
	for _, y := range []float64{dividerGrassiY, dividerPopoloY} {
		fmt.Fprintf(buf, `    <line x1="0" y1="%.1f" x2="%.0f" y2="%.1f" opacity="0.3"/>`+"\n", y, ViewWidth, y)
	}
	if year >= family.YearSchism {
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="0" x2="%.1f" y2="%.0f" stroke-dasharray="4 4" opacity="0.2"/>`+"\n",
			family.AnchorGuelf, family.AnchorGuelf, ViewHeight)
	}
	buf.WriteString("  </g>\n")
}

func renderHeaders(buf *bytes.Buffer, year int) {
	buf.WriteString(`  <g class="headers" font-family="serif" font-weight="bold" fill="` + colorInk + `">` + "\n")
	heading := func(x, y, size float64, anchor, text string) {
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="%s" letter-spacing="0.3">%s</text>`+"\n",
			x, y, size, anchor, text)
	}
	heading(family.AnchorGhibelline, headerY, 3, "middle", "GHIBELLINI")
	heading(family.AnchorGuelf, headerY, 3, "middle", "GUELFI")
	if year >= family.YearSchism {
		heading(147.5, subHeaderY, 2, "middle", "WHITE")
		heading(222.5, subHeaderY, 2, "middle", "BLACK")
	}
	heading(labelX, 26.5, 2.2, "start", "GRANDI")
	heading(labelX, 57, 2.2, "start", "GRASSI")
	heading(labelX, 85, 2.2, "start", "POPOLO")
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n layout.Node) {
	s := n.State
	w, h := n.Width, n.Height

	stroke, strokeWidth := colorInk, defaultStroke
	switch {
	case s.Magnate:
		stroke, strokeWidth = colorMagnate, magnateStroke
	case s.Exiled:
		stroke = colorExile
	}
	opacity := 1.0
	if s.Exiled {
		opacity = exileOpacity
	}

	fmt.Fprintf(buf, `  <g id="family-%s" class="family group-%s" transform="translate(%.2f, %.2f)" opacity="%.1f">`+"\n",
		escapeAttr(n.ID), s.Group, n.Position.X, n.Position.Y, opacity)
	fmt.Fprintf(buf, `    <title>%s (%s, %s)</title>`+"\n", escapeText(n.Name), escapeText(s.Faction), escapeText(s.Status))
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.2f"/>`+"\n",
		-w/2, -h/2, w, h, colorPaper, stroke, strokeWidth)

	if n.StripWidth > 0 {
		if c, ok := stripColor(s.Group); ok {
			fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
				-w/2, -h/2, n.StripWidth, h, c)
		}
	}

	textX, anchor := n.StripWidth/2, "middle"
	if n.CoatOfArmsURL != "" {
		imageX := -w/2 + n.StripWidth + 1
		if r.images {
			fmt.Fprintf(buf, `    <image href="%s" x="%.2f" y="-1.5" width="3" height="3" preserveAspectRatio="xMidYMid meet"/>`+"\n",
				escapeAttr(n.CoatOfArmsURL), imageX)
		}
		textX, anchor = imageX+4, "start"
	}
	weight := "600"
	if n.ID == r.selected {
		weight = "bold"
	}
	fmt.Fprintf(buf, `    <text x="%.2f" y="0.5" font-size="1.6" font-family="serif" font-weight="%s" text-anchor="%s" fill="%s">%s</text>`+"\n",
		textX, weight, anchor, colorInk, escapeText(n.Name))

	if s.Exiled {
		fmt.Fprintf(buf, `    <text x="0" y="%.2f" font-size="1.2" font-weight="bold" text-anchor="middle" fill="%s">EXILE</text>`+"\n",
			h/2+2, colorExile)
	}
	buf.WriteString("  </g>\n")
}

func renderSelection(buf *bytes.Buffer, n layout.Node) {
	fmt.Fprintf(buf, `  <rect class="selected" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="0.8" rx="1" opacity="0.8"/>`+"\n",
		n.Position.X-n.Width/2-selectionInflate, n.Position.Y-n.Height/2-selectionInflate,
		n.Width+2*selectionInflate, n.Height+2*selectionInflate, colorExile)
}

func stripColor(g family.VisualGroup) (string, bool) {
	switch g {
	case family.GroupWhite:
		return colorStripWhite, true
	case family.GroupBlack:
		return colorStripBlack, true
	}
	return "", false
}

func escapeText(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func escapeAttr(s string) string { return escapeText(s) }
