package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/factionmap/pkg/core/family"
)

// Options configures relationship graph rendering.
type Options struct {
	// Engine is the Graphviz layout program. Defaults to "neato".
	Engine string

	// Types limits edges to these relationship types (case-insensitive).
	// Empty means all types.
	Types []string

	// Detailed adds the resolved faction and status to node labels.
	Detailed bool

	// Selected highlights one family and its edges.
	Selected string

	// Isolated keeps families without any drawn edge.
	Isolated bool
}

// EdgeStyle is the look of one relationship type.
type EdgeStyle struct {
	Color  string
	Weight float64
	Dash   string
}

// Styles maps normalized relationship types to their look.
var Styles = map[string]EdgeStyle{
	"marriage": {Color: "#2E8B57", Weight: 2},
	"blood":    {Color: "#800000", Weight: 2},
	"feud":     {Color: "#8B0000", Weight: 2, Dash: "4, 16"},
	"alliance": {Color: "#1E90FF", Weight: 2, Dash: "4, 16"},
	"vassal":   {Color: "#808080", Weight: 1, Dash: "2, 10"},
}

// DefaultStyle applies to types missing from [Styles].
var DefaultStyle = EdgeStyle{Color: "#333", Weight: 1}

// StyleFor returns the style of a relationship type.
func StyleFor(relType string) EdgeStyle {
	if s, ok := Styles[strings.ToLower(strings.TrimSpace(relType))]; ok {
		return s
	}
	return DefaultStyle
}

var groupFill = map[family.VisualGroup]string{
	family.GroupGhibelline: "#F2E8C9",
	family.GroupGuelf:      "#478989",
	family.GroupWhite:      "#E5E5E5",
	family.GroupBlack:      "#171717",
	family.GroupExile:      "#C17C59",
}

var groupFont = map[family.VisualGroup]string{
	family.GroupGuelf: "white",
	family.GroupBlack: "white",
}

// Edge is one drawn relationship.
type Edge struct {
	From, To string
	Type     string
	Label    string
}

// Edges returns the relationships among families alive in year, in
// deterministic order.
func Edges(families []family.Family, year int, opts Options) []Edge {
	alive := aliveIn(families, year)
	idx := family.NewIndex(alive)

	types := map[string]bool{}
	for _, t := range opts.Types {
		types[strings.ToLower(strings.TrimSpace(t))] = true
	}

	seen := map[string]bool{}
	var edges []Edge
	for _, src := range alive {
		for _, rel := range src.Relationships {
			if !rel.ActiveIn(year) {
				continue
			}
			typ := rel.NormalizedType()
			if len(types) > 0 && !types[typ] {
				continue
			}
			for _, dst := range idx.Targets(rel) {
				if dst.ID == src.ID {
					continue
				}
				a, b := src.ID, dst.ID
				if b < a {
					a, b = b, a
				}
				key := a + "-" + b
				if typ != "feud" && seen[key] {
					continue
				}
				seen[key] = true
				edges = append(edges, Edge{From: src.ID, To: dst.ID, Type: typ, Label: rel.Type})
			}
		}
	}
	return edges
}

// ToDOT converts the relationship network in year to Graphviz DOT format.
func ToDOT(families []family.Family, year int, opts Options) string {
	engine := opts.Engine
	if engine == "" {
		engine = "neato"
	}

	alive := aliveIn(families, year)
	edges := Edges(families, year, opts)

	linked := map[string]bool{}
	for _, e := range edges {
		linked[e.From], linked[e.To] = true, true
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", engine)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=true;\n")
	fmt.Fprintf(&buf, "  label=%q;\n", strconv.Itoa(year))
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=\"serif\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	sort.Slice(alive, func(i, j int) bool { return alive[i].ID < alive[j].ID })
	for _, f := range alive {
		if !opts.Isolated && !linked[f.ID] && f.ID != opts.Selected {
			continue
		}
		s := family.Resolve(f, year)
		fmt.Fprintf(&buf, "  %q [%s];\n", f.ID, strings.Join(fmtAttrs(f, s, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.From, e.To, strings.Join(edgeAttrs(e, opts.Selected), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(f family.Family, s family.State, detailed bool) string {
	if !detailed {
		return f.Name
	}
	parts := []string{f.Name, s.Faction, s.Status}
	if s.Exiled {
		parts = append(parts, "exiled")
	}
	if s.Magnate {
		parts = append(parts, "magnate")
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(f family.Family, s family.State, opts Options) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(f, s, opts.Detailed)),
		fmt.Sprintf("fillcolor=%q", groupFill[s.Group]),
	}
	if c, ok := groupFont[s.Group]; ok {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%q", c))
	}
	if s.Magnate {
		attrs = append(attrs, `color="#800020"`, "penwidth=2")
	}
	if f.ID == opts.Selected {
		attrs = append(attrs, `color="#C17C59"`, "penwidth=4")
	}
	return attrs
}

func edgeAttrs(e Edge, selected string) []string {
	st := StyleFor(e.Type)
	weight := st.Weight
	highlighted := selected != "" && (e.From == selected || e.To == selected)
	if highlighted {
		weight = 4
	}
	attrs := []string{
		fmt.Sprintf("color=%q", st.Color),
		fmt.Sprintf("penwidth=%g", weight),
		fmt.Sprintf("tooltip=%q", e.Label),
	}
	if st.Dash != "" && !highlighted {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

func aliveIn(families []family.Family, year int) []family.Family {
	out := make([]family.Family, 0, len(families))
	for _, f := range families {
		if family.Alive(f, year) {
			out = append(out, f)
		}
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
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

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
