package family

// State is the resolved view of one family in one year.
type State struct {
	FamilyID string      `json:"familyId"`
	Faction  string      `json:"currentFactionLabel"`
	Status   string      `json:"currentStatusLabel"`
	Exiled   bool        `json:"isExiled"`
	Magnate  bool        `json:"isMagnate"`
	Group    VisualGroup `json:"visualGroup"`
	Position Point       `json:"position"` // raw anchor, before packing
}

// Resolve computes the state of f in year. Any year is accepted; fields that
// are missing or unknown fall back to neutral defaults.
func Resolve(f Family, year int) State {
	status := override(f.Status1Class, f.Status2Year, f.Status2Class, year)
	faction := override(f.Faction1Type, f.Faction2Year, f.Faction2Type, year)

	exiled := false
	if year >= YearMontaperti && year < YearBenevento {
		exiled = faction == Guelf
	} else if year >= YearBenevento {
		exiled = faction == Ghibelline
	}
	if year >= YearWhiteExile && f.SubFaction == White {
		exiled = true
	}

	group := visualGroup(faction, f.SubFaction, exiled, year)

	return State{
		FamilyID: f.ID,
		Faction:  faction,
		Status:   status,
		Exiled:   exiled,
		Magnate:  f.IsMagnate && year >= YearOrdinances,
		Group:    group,
		Position: Point{X: anchorX(f, group), Y: LaneY(status)},
	}
}

// ResolveAll resolves every family in input order.
func ResolveAll(fs []Family, year int) []State {
	out := make([]State, len(fs))
	for i, f := range fs {
		out[i] = Resolve(f, year)
	}
	return out
}

// LaneY returns the anchor y of the lane for a status label.
func LaneY(status string) float64 {
	switch status {
	case StatusNoble:
		return LaneNobleY
	case StatusPopoloGrasso, StatusGrassi:
		return LaneGrassiY
	default:
		return LanePopoloY
	}
}

// Alive reports whether year falls within the family's recorded lifetime.
// Missing bounds default to 0 and 9999.
func Alive(f Family, year int) bool {
	return AliveWithin(f, year, 0, 9999)
}

// AliveWithin is Alive with explicit defaults for missing bounds.
func AliveWithin(f Family, year, defaultStart, defaultEnd int) bool {
	start, ok := recorded(f.YearStart)
	if !ok {
		start = defaultStart
	}
	end, ok := recorded(f.YearEnd)
	if !ok {
		end = defaultEnd
	}
	return year >= start && year <= end
}

func override(first string, secondYear *int, second string, year int) string {
	y, ok := recorded(secondYear)
	if ok && year >= y && second != "" && second != NotInSource {
		return second
	}
	return first
}

func visualGroup(faction, sub string, exiled bool, year int) VisualGroup {
	switch {
	case exiled:
		return GroupExile
	case faction == Ghibelline:
		return GroupGhibelline
	case faction == Guelf && year >= YearSchism && sub == White:
		return GroupWhite
	case faction == Guelf && year >= YearSchism && sub == Black:
		return GroupBlack
	default:
		return GroupGuelf
	}
}

func anchorX(f Family, g VisualGroup) float64 {
	switch g {
	case GroupExile:
		if f.Faction1Type == Ghibelline || f.Faction2Type == Ghibelline {
			return AnchorExileGhibelline
		}
		return AnchorExileGuelf
	case GroupGhibelline:
		return AnchorGhibelline
	case GroupWhite:
		return AnchorWhite
	case GroupBlack:
		return AnchorBlack
	default:
		return AnchorGuelf
	}
}
