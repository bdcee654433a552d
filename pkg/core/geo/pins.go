package geo

import (
	"strings"

	"github.com/matzehuels/factionmap/pkg/core/family"
)

// ColorMode selects how pins are coloured.
type ColorMode string

const (
	ColorFaction ColorMode = "faction"
	ColorGuild   ColorMode = "guild"
)

// Pin colours.
const (
	ColorDefault    = "#8B4513"
	ColorGhibelline = "#F2E8C9"
	ColorGuelf      = "#478989"
	ColorSelected   = "#D2691E"
	ColorGuildOther = "#3388ff"
)

var guildColors = []struct {
	keys  []string
	color string
}{
	{[]string{"banker", "cambio"}, "#FFD700"},
	{[]string{"wool", "lana"}, "#F5F5DC"},
	{[]string{"silk", "seta"}, "#D8BFD8"},
	{[]string{"judge"}, "#CD5C5C"},
	{[]string{"medici", "speziali"}, "#2E8B57"},
}

// GuildColor maps a guild description to a pin colour by keyword.
func GuildColor(guild string) string {
	g := strings.ToLower(guild)
	for _, gc := range guildColors {
		for _, k := range gc.keys {
			if strings.Contains(g, k) {
				return gc.color
			}
		}
	}
	return ColorGuildOther
}

// Pin is one located family marker.
type Pin struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Position    family.LatLng `json:"position"`
	Color       string        `json:"color"`
	Highlighted bool          `json:"highlighted,omitempty"`
}

// Pins returns a marker for every visible family with coordinates. Every
// branch sharing the selected family's name is highlighted.
func Pins(families []family.Family, flt Filter, mode ColorMode, selectedID string) []Pin {
	selectedName := ""
	for _, f := range families {
		if f.ID == selectedID {
			selectedName = f.Name
			break
		}
	}

	var out []Pin
	for _, f := range Visible(families, flt) {
		if f.Coordinates == nil {
			continue
		}
		p := Pin{ID: f.ID, Name: f.Name, Position: *f.Coordinates, Color: pinColor(f, mode)}
		if selectedName != "" && f.Name == selectedName {
			p.Color = ColorSelected
			p.Highlighted = true
		}
		out = append(out, p)
	}
	return out
}

func pinColor(f family.Family, mode ColorMode) string {
	if mode == ColorGuild {
		return GuildColor(f.Guild)
	}
	switch f.OriginalFaction {
	case family.Ghibelline:
		return ColorGhibelline
	case family.Guelf:
		return ColorGuelf
	}
	return ColorDefault
}
