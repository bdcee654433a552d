package geo

import (
	"sort"
	"strings"

	"github.com/matzehuels/factionmap/pkg/core/family"
)

// Default lifetime bounds for pins.
const (
	PinYearStart = 1200
	PinYearEnd   = 1900
)

// UnknownLocation groups families without a sesto.
const UnknownLocation = "Unknown Location"

// Filter selects the families shown on the map.
type Filter struct {
	Search string // case-insensitive name substring
	Sesto  string // exact sesto; empty matches all
	Year   int
}

// Match reports whether f passes the filter.
func (flt Filter) Match(f family.Family) bool {
	if flt.Search != "" && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(flt.Search)) {
		return false
	}
	if flt.Sesto != "" && f.Sesto != flt.Sesto {
		return false
	}
	return family.AliveWithin(f, flt.Year, PinYearStart, PinYearEnd)
}

// Visible returns the families that pass flt, in input order.
func Visible(families []family.Family, flt Filter) []family.Family {
	var out []family.Family
	for _, f := range families {
		if flt.Match(f) {
			out = append(out, f)
		}
	}
	return out
}

// SestoGroup is one sidebar section.
type SestoGroup struct {
	Sesto    string          `json:"sesto"`
	Names    []string        `json:"names"`
	Families []family.Family `json:"families"`
}

// GroupBySesto groups families by sesto. Groups are sorted by name, and each
// group lists its distinct family names sorted.
func GroupBySesto(families []family.Family) []SestoGroup {
	index := map[string]int{}
	var groups []SestoGroup
	for _, f := range families {
		key := f.Sesto
		if key == "" {
			key = UnknownLocation
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, SestoGroup{Sesto: key})
		}
		groups[i].Families = append(groups[i].Families, f)
	}

	for i := range groups {
		seen := map[string]bool{}
		for _, f := range groups[i].Families {
			if !seen[f.Name] {
				seen[f.Name] = true
				groups[i].Names = append(groups[i].Names, f.Name)
			}
		}
		sort.Strings(groups[i].Names)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Sesto < groups[j].Sesto })
	return groups
}

// NextSibling cycles through the located branches sharing name, ordered by
// id. It returns the branch after lastID, or the first one when lastID is not
// one of them.
func NextSibling(families []family.Family, name, lastID string) (family.Family, bool) {
	var siblings []family.Family
	for _, f := range families {
		if f.Name == name && f.Coordinates != nil {
			siblings = append(siblings, f)
		}
	}
	if len(siblings) == 0 {
		return family.Family{}, false
	}
	sort.Slice(siblings, func(i, j int) bool { return siblings[i].ID < siblings[j].ID })
	for i, f := range siblings {
		if f.ID == lastID {
			return siblings[(i+1)%len(siblings)], true
		}
	}
	return siblings[0], true
}
