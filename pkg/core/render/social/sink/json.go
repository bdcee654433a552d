package sink

import (
	"encoding/json"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/core/render/social/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	selected string
	indent   bool
	passes   int
}

// WithJSONSelected records the selected family id.
func WithJSONSelected(id string) JSONOption { return func(r *jsonRenderer) { r.selected = id } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// WithJSONRelaxPasses records the relaxation passes used to build the layout.
func WithJSONRelaxPasses(n int) JSONOption { return func(r *jsonRenderer) { r.passes = n } }

type jsonOutput struct {
	Year         int                        `json:"year"`
	Width        float64                    `json:"width"`
	Height       float64                    `json:"height"`
	RelaxPasses  int                        `json:"relax_passes,omitempty"`
	Selected     string                     `json:"selected,omitempty"`
	OverlapRatio float64                    `json:"overlap_ratio"`
	Groups       map[family.VisualGroup]int `json:"groups"`
	Lanes        []layout.Lane              `json:"lanes"`
	Nodes        []jsonNode                 `json:"nodes"`
}

type jsonNode struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Lane         layout.LaneID      `json:"lane"`
	X            float64            `json:"x"`
	Y            float64            `json:"y"`
	Width        float64            `json:"width"`
	Height       float64            `json:"height"`
	LayoutHeight float64            `json:"layout_height"`
	StripWidth   float64            `json:"strip_width,omitempty"`
	CoatOfArms   string             `json:"coat_of_arms,omitempty"`
	Faction      string             `json:"faction"`
	Status       string             `json:"status"`
	Group        family.VisualGroup `json:"group"`
	Exiled       bool               `json:"exiled,omitempty"`
	Magnate      bool               `json:"magnate,omitempty"`
	AnchorX      float64            `json:"anchor_x"`
	AnchorY      float64            `json:"anchor_y"`
}

// RenderJSON serialises l for external renderers.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Year:         l.Year,
		Width:        l.Width,
		Height:       l.Height,
		RelaxPasses:  r.passes,
		Selected:     r.selected,
		OverlapRatio: layout.OverlapRatio(l),
		Groups:       l.GroupCounts(),
		Lanes:        l.Lanes,
		Nodes:        make([]jsonNode, 0, len(l.Nodes)),
	}
	for _, n := range l.Nodes {
		out.Nodes = append(out.Nodes, jsonNode{
			ID:           n.ID,
			Name:         n.Name,
			Lane:         n.Lane,
			X:            n.Position.X,
			Y:            n.Position.Y,
			Width:        n.Width,
			Height:       n.Height,
			LayoutHeight: n.LayoutHeight,
			StripWidth:   n.StripWidth,
			CoatOfArms:   n.CoatOfArmsURL,
			Faction:      n.State.Faction,
			Status:       n.State.Status,
			Group:        n.State.Group,
			Exiled:       n.State.Exiled,
			Magnate:      n.State.Magnate,
			AnchorX:      n.State.Position.X,
			AnchorY:      n.State.Position.Y,
		})
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
