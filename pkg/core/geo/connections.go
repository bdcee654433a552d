package geo

import (
	"sort"
	"strings"

	"github.com/matzehuels/factionmap/pkg/core/family"
)

// LineStyle is the look of a relationship line.
type LineStyle struct {
	Color  string  `json:"color"`
	Weight float64 `json:"weight"`
	Dash   string  `json:"dashArray,omitempty"`
}

// LineStyles maps normalized relationship types to their look.
var LineStyles = map[string]LineStyle{
	"marriage": {Color: "#2E8B57", Weight: 2},
	"blood":    {Color: "#800000", Weight: 2},
	"feud":     {Color: "#8B0000", Weight: 2, Dash: "4, 16"},
	"alliance": {Color: "#1E90FF", Weight: 2, Dash: "4, 16"},
	"vassal":   {Color: "#808080", Weight: 1, Dash: "2, 10"},
}

// DefaultLineStyle applies to types missing from [LineStyles].
var DefaultLineStyle = LineStyle{Color: "#333", Weight: 1}

// RelationshipTypes lists the types with a dedicated style, sorted.
func RelationshipTypes() []string {
	out := make([]string, 0, len(LineStyles))
	for t := range LineStyles {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Line connects two located families.
type Line struct {
	Key         string        `json:"key"`
	SourceID    string        `json:"sourceId"`
	TargetID    string        `json:"targetId"`
	Type        string        `json:"type"`
	From        family.LatLng `json:"from"`
	To          family.LatLng `json:"to"`
	Style       LineStyle     `json:"style"`
	Opacity     float64       `json:"opacity"`
	Highlighted bool          `json:"highlighted,omitempty"`
	Label       string        `json:"label"`
}

// Connections returns the relationship lines among families alive in year.
//
// A line is drawn when its type is in active (case-insensitive) or when it
// touches selectedID. With no active types and no selection nothing is drawn.
// Each unordered pair is drawn once, except feuds, which are always drawn.
func Connections(families []family.Family, year int, active []string, selectedID string) []Line {
	if len(active) == 0 && selectedID == "" {
		return nil
	}
	activeSet := make(map[string]bool, len(active))
	for _, t := range active {
		activeSet[strings.ToLower(strings.TrimSpace(t))] = true
	}

	var alive []family.Family
	for _, f := range families {
		if family.Alive(f, year) {
			alive = append(alive, f)
		}
	}
	idx := family.NewIndex(alive)

	seen := map[string]bool{}
	var lines []Line
	for _, src := range alive {
		if src.Coordinates == nil {
			continue
		}
		for _, rel := range src.Relationships {
			typ := rel.NormalizedType()
			for _, dst := range idx.Targets(rel) {
				if dst.Coordinates == nil {
					continue
				}
				touches := selectedID != "" && (src.ID == selectedID || dst.ID == selectedID)
				if !activeSet[typ] && !touches {
					continue
				}

				pair := []string{src.ID, dst.ID}
				sort.Strings(pair)
				key := strings.Join(pair, "-")
				if seen[key] && typ != "feud" {
					continue
				}
				seen[key] = true

				style, ok := LineStyles[typ]
				if !ok {
					style = DefaultLineStyle
				}
				opacity := 0.9
				if touches {
					style.Weight = 4
					style.Dash = ""
					opacity = 1
				}
				label := strings.TrimSpace(rel.Type)
				if label == "" {
					label = "Unknown"
				}

				lines = append(lines, Line{
					Key:         src.ID + "-" + dst.ID + "-" + typ + "-" + key,
					SourceID:    src.ID,
					TargetID:    dst.ID,
					Type:        typ,
					From:        *src.Coordinates,
					To:          *dst.Coordinates,
					Style:       style,
					Opacity:     opacity,
					Highlighted: touches,
					Label:       src.Name + " ↔ " + dst.Name + " (" + label + ")",
				})
			}
		}
	}
	return lines
}
