package layout

import "github.com/matzehuels/factionmap/pkg/core/family"

// Box sizing, in canvas units.
const (
	CharWidth       = 0.85
	Padding         = 3.0
	CoatOfArmsWidth = 4.0
	StripWidth      = 2.0
	MinWidth        = 13.0
	NodeHeight      = 4.5
	ExileExtra      = 2.0 // room for the EXILE caption
)

// Packing parameters.
const (
	LaneTolerance = 15.0
	AvgNodeHeight = 5.5
	RowGap        = 2.0
	ColumnGap     = 2.0
	ZoneGap       = 3.0
	SideSplitX    = 110.0

	DefaultRelaxPasses = 3
)

// Side bounds for the relaxation step.
var (
	LeftBounds  = Bounds{Min: 40, Max: 108}
	RightBounds = Bounds{Min: 112, Max: 258}
)

// Bounds is a closed horizontal interval.
type Bounds struct {
	Min, Max float64
}

// LaneID names a lane.
type LaneID string

const (
	LaneNoble  LaneID = "Noble"
	LaneGrassi LaneID = "Grassi"
	LanePopolo LaneID = "Popolo"
)

// Lane is a horizontal band of the canvas.
type Lane struct {
	ID     LaneID  `json:"id"`
	Y      float64 `json:"y"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Height returns the usable vertical span of the lane.
func (l Lane) Height() float64 { return l.Bottom - l.Top }

// Lanes lists the three lanes top to bottom.
var Lanes = []Lane{
	{ID: LaneNoble, Y: 24, Top: 14, Bottom: 39},
	{ID: LaneGrassi, Y: 56, Top: 43, Bottom: 71},
	{ID: LanePopolo, Y: 81, Top: 75, Bottom: 95},
}

// Block is an axis-aligned rectangle. Y grows downward.
type Block struct {
	Left, Right float64
	Top, Bottom float64
}

// Width returns the horizontal span of the block.
func (b Block) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the block.
func (b Block) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal center point of the block.
func (b Block) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center point of the block.
func (b Block) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// Node is a packed family box. Position is the centre of the drawn box;
// State.Position keeps the raw anchor.
type Node struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	State         family.State `json:"state"`
	Lane          LaneID       `json:"lane"`
	Position      family.Point `json:"position"`
	Width         float64      `json:"width"`
	Height        float64      `json:"height"`
	LayoutHeight  float64      `json:"layoutHeight"`
	StripWidth    float64      `json:"stripWidth,omitempty"`
	CoatOfArmsURL string       `json:"coatOfArmsUrl,omitempty"`
}

// Box returns the space the node reserves, caption included.
func (n Node) Box() Block {
	top := n.Position.Y - n.Height/2
	return Block{
		Left:   n.Position.X - n.Width/2,
		Right:  n.Position.X + n.Width/2,
		Top:    top,
		Bottom: top + n.LayoutHeight,
	}
}

// Layout is the result of one packing pass.
type Layout struct {
	Year   int     `json:"year"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Lanes  []Lane  `json:"lanes"`
	Nodes  []Node  `json:"nodes"`
}

// Node returns the node for a family id.
func (l Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// GroupCounts returns how many nodes fall in each visual group.
func (l Layout) GroupCounts() map[family.VisualGroup]int {
	counts := make(map[family.VisualGroup]int, len(family.Groups))
	for _, n := range l.Nodes {
		counts[n.State.Group]++
	}
	return counts
}
