package family

import "strings"

// Faction labels.
const (
	Guelf      = "Guelf"
	Ghibelline = "Ghibelline"
)

// NotInSource marks a field the chronicles leave blank. It never overrides an
// earlier value.
const NotInSource = "Not in source"

// Status labels.
const (
	StatusNoble        = "Noble"
	StatusPopolo       = "Popolo"
	StatusPopoloGrasso = "Popolo Grasso"
	StatusGrassi       = "Grassi"
)

// Sub-faction labels, used from the 1300 schism onward.
const (
	White = "White"
	Black = "Black"
)

// Key years.
const (
	YearMontaperti = 1260 // Guelfs exiled
	YearBenevento  = 1266 // Ghibellines exiled
	YearOrdinances = 1293 // magnate flag becomes effective
	YearSchism     = 1300 // Guelfs split into White and Black
	YearWhiteExile = 1302 // White Guelfs exiled
	YearQuartieri  = 1343 // sesti replaced by quartieri
)

// Canvas geometry, in abstract data units.
const (
	CanvasWidth  = 260.0
	CanvasHeight = 90.0

	LaneNobleY  = 24.0
	LaneGrassiY = 56.0
	LanePopoloY = 80.0

	AnchorGhibelline      = 75.0
	AnchorGuelf           = 185.0
	AnchorWhite           = 145.0
	AnchorBlack           = 225.0
	AnchorExileGhibelline = 45.0
	AnchorExileGuelf      = 255.0
)

// VisualGroup is the display category of a family in a given year.
type VisualGroup string

const (
	GroupGhibelline VisualGroup = "Ghibelline"
	GroupGuelf      VisualGroup = "Guelf"
	GroupWhite      VisualGroup = "White"
	GroupBlack      VisualGroup = "Black"
	GroupExile      VisualGroup = "Exile"
)

// Groups lists every visual group in canvas order, left to right.
var Groups = []VisualGroup{GroupExile, GroupGhibelline, GroupWhite, GroupGuelf, GroupBlack}

// Valid reports whether g is one of the five visual groups.
func (g VisualGroup) Valid() bool {
	switch g {
	case GroupGhibelline, GroupGuelf, GroupWhite, GroupBlack, GroupExile:
		return true
	}
	return false
}

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x" yaml:"x" bson:"x"`
	Y float64 `json:"y" yaml:"y" bson:"y"`
}

// LatLng is a geographic coordinate.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat" bson:"lat"`
	Lng float64 `json:"lng" yaml:"lng" bson:"lng"`
}

// Links points to external resources about a family's properties.
type Links struct {
	OpenHeritage3D string `json:"openHeritage3D,omitempty" yaml:"openHeritage3D,omitempty" bson:"openHeritage3D,omitempty"`
	Florence4D     string `json:"florence4D,omitempty" yaml:"florence4D,omitempty" bson:"florence4D,omitempty"`
	Other          string `json:"other,omitempty" yaml:"other,omitempty" bson:"other,omitempty"`
}

// Relationship links a family to another one. TargetID may hold several ids
// separated by commas or semicolons; TargetName is used when no id is known.
type Relationship struct {
	TargetID    string `json:"targetId,omitempty" yaml:"targetId,omitempty" bson:"targetId,omitempty"`
	TargetName  string `json:"targetName,omitempty" yaml:"targetName,omitempty" bson:"targetName,omitempty"`
	Type        string `json:"type" yaml:"type" bson:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Year        *int   `json:"year,omitempty" yaml:"year,omitempty" bson:"year,omitempty"`
}

// Family is one family record. Name is not unique: branches and towers of the
// same house share it and differ by ID.
//
// Optional years are pointers; nil and zero both mean "not recorded".
type Family struct {
	ID       string `json:"id" yaml:"id" bson:"_id"`
	Name     string `json:"name" yaml:"name" bson:"name"`
	BranchID string `json:"branchId,omitempty" yaml:"branchId,omitempty" bson:"branchId,omitempty"`

	Status1Year  *int   `json:"status1Year,omitempty" yaml:"status1Year,omitempty" bson:"status1Year,omitempty"`
	Status1Class string `json:"status1Class,omitempty" yaml:"status1Class,omitempty" bson:"status1Class,omitempty"`
	Status2Year  *int   `json:"status2Year,omitempty" yaml:"status2Year,omitempty" bson:"status2Year,omitempty"`
	Status2Class string `json:"status2Class,omitempty" yaml:"status2Class,omitempty" bson:"status2Class,omitempty"`

	IsMagnate bool `json:"isMagnate,omitempty" yaml:"isMagnate,omitempty" bson:"isMagnate,omitempty"`

	Faction1Year *int   `json:"faction1Year,omitempty" yaml:"faction1Year,omitempty" bson:"faction1Year,omitempty"`
	Faction1Type string `json:"faction1Type,omitempty" yaml:"faction1Type,omitempty" bson:"faction1Type,omitempty"`
	Faction2Year *int   `json:"faction2Year,omitempty" yaml:"faction2Year,omitempty" bson:"faction2Year,omitempty"`
	Faction2Type string `json:"faction2Type,omitempty" yaml:"faction2Type,omitempty" bson:"faction2Type,omitempty"`

	SubFaction string `json:"subFaction,omitempty" yaml:"subFaction,omitempty" bson:"subFaction,omitempty"`

	YearStart *int   `json:"yearStart,omitempty" yaml:"yearStart,omitempty" bson:"yearStart,omitempty"`
	YearEnd   *int   `json:"yearEnd,omitempty" yaml:"yearEnd,omitempty" bson:"yearEnd,omitempty"`
	Guild     string `json:"guild,omitempty" yaml:"guild,omitempty" bson:"guild,omitempty"`

	OriginalSourceTerm string `json:"originalSourceTerm,omitempty" yaml:"originalSourceTerm,omitempty" bson:"originalSourceTerm,omitempty"`
	SourceCitation     string `json:"sourceCitation,omitempty" yaml:"sourceCitation,omitempty" bson:"sourceCitation,omitempty"`
	NoticeablePeople   string `json:"noticeablePeople,omitempty" yaml:"noticeablePeople,omitempty" bson:"noticeablePeople,omitempty"`
	Occupation         string `json:"occupation,omitempty" yaml:"occupation,omitempty" bson:"occupation,omitempty"`
	PropertyType       string `json:"propertyType,omitempty" yaml:"propertyType,omitempty" bson:"propertyType,omitempty"`
	CoatOfArmsURL      string `json:"coatOfArmsUrl,omitempty" yaml:"coatOfArmsUrl,omitempty" bson:"coatOfArmsUrl,omitempty"`
	Description        string `json:"description,omitempty" yaml:"description,omitempty" bson:"description,omitempty"`
	Links              *Links `json:"links,omitempty" yaml:"links,omitempty" bson:"links,omitempty"`

	MapID           *int     `json:"mapId,omitempty" yaml:"mapId,omitempty" bson:"mapId,omitempty"`
	MapRef          *int     `json:"mapRef,omitempty" yaml:"mapRef,omitempty" bson:"mapRef,omitempty"`
	Sesto           string   `json:"sesto,omitempty" yaml:"sesto,omitempty" bson:"sesto,omitempty"`
	ManualQuartiere string   `json:"manualQuartiere,omitempty" yaml:"manualQuartiere,omitempty" bson:"manualQuartiere,omitempty"`
	GridLocations   []string `json:"gridLocations,omitempty" yaml:"gridLocations,omitempty" bson:"gridLocations,omitempty"`
	Coordinates     *LatLng  `json:"coordinates,omitempty" yaml:"coordinates,omitempty" bson:"coordinates,omitempty"`

	Relationships []Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty" bson:"relationships,omitempty"`

	OriginalFaction string `json:"originalFaction,omitempty" yaml:"originalFaction,omitempty" bson:"originalFaction,omitempty"`
	OriginalStatus  string `json:"originalStatus,omitempty" yaml:"originalStatus,omitempty" bson:"originalStatus,omitempty"`
}

// HasCoatOfArms reports whether the family has a coat-of-arms image.
func (f Family) HasCoatOfArms() bool { return strings.TrimSpace(f.CoatOfArmsURL) != "" }

// ParentID returns the id of the main branch: "1039_2" becomes "1039".
func (f Family) ParentID() string {
	id, _, _ := strings.Cut(f.ID, "_")
	return id
}

// Source is a chronicle reference for an event.
type Source struct {
	Title string `json:"title" yaml:"title" bson:"title"`
	Quote string `json:"quote,omitempty" yaml:"quote,omitempty" bson:"quote,omitempty"`
}

// HistoricalEvent annotates a year on the timeline.
type HistoricalEvent struct {
	Year             int      `json:"year" yaml:"year" bson:"year"`
	Title            string   `json:"title" yaml:"title" bson:"title"`
	ShortDescription string   `json:"shortDescription" yaml:"shortDescription" bson:"shortDescription"`
	FullDescription  string   `json:"fullDescription" yaml:"fullDescription" bson:"fullDescription"`
	Sources          []Source `json:"sources,omitempty" yaml:"sources,omitempty" bson:"sources,omitempty"`
}

// Year returns a pointer to y, for filling optional year fields.
func Year(y int) *int { return &y }

// recorded returns the value of an optional year; nil and zero are unset.
func recorded(y *int) (int, bool) {
	if y == nil || *y == 0 {
		return 0, false
	}
	return *y, true
}
