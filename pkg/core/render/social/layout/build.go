package layout

import (
	"io"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/matzehuels/factionmap/pkg/core/family"
)

// Option configures [Build].
type Option func(*builder)

// WithRelaxPasses sets the number of relaxation passes. Zero disables
// relaxation; negative values are treated as zero.
func WithRelaxPasses(n int) Option {
	return func(b *builder) {
		if n < 0 {
			n = 0
		}
		b.passes = n
	}
}

// WithLogger reports residual overlaps at debug level.
func WithLogger(l *log.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.logger = l
		}
	}
}

type builder struct {
	year    int
	passes  int
	logger  *log.Logger
	collate *collate.Collator
}

type zoneKey struct {
	group   family.VisualGroup
	anchorX float64
}

func (k zoneKey) less(o zoneKey) bool {
	if k.anchorX != o.anchorX {
		return k.anchorX < o.anchorX
	}
	return k.group < o.group
}

type zone struct {
	key   zoneKey
	nodes []*Node
}

// Build packs every family into the social map for year. Families are not
// filtered by lifetime; callers pick the population.
func Build(families []family.Family, year int, opts ...Option) Layout {
	b := &builder{
		year:    year,
		passes:  DefaultRelaxPasses,
		logger:  log.New(io.Discard),
		collate: collate.New(language.Italian),
	}
	for _, opt := range opts {
		opt(b)
	}

	nodes := make([]*Node, 0, len(families))
	for _, f := range families {
		nodes = append(nodes, b.node(f))
	}

	byLane := make(map[LaneID][]*Node, len(Lanes))
	for _, n := range nodes {
		n.Lane = laneFor(n.State.Position.Y)
		byLane[n.Lane] = append(byLane[n.Lane], n)
	}

	for _, lane := range Lanes {
		zones := b.zones(byLane[lane.ID])
		for _, z := range zones {
			packZone(z, lane)
		}
		left, right := splitSides(zones)
		relax(left, LeftBounds, b.passes)
		relax(right, RightBounds, b.passes)
	}

	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = *n
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	l := Layout{
		Year:   year,
		Width:  family.CanvasWidth,
		Height: family.CanvasHeight,
		Lanes:  append([]Lane(nil), Lanes...),
		Nodes:  out,
	}
	if pairs := OverlappingPairs(l); len(pairs) > 0 {
		b.logger.Debug("residual overlap", "year", year, "pairs", len(pairs))
	}
	return l
}

func (b *builder) node(f family.Family) *Node {
	s := family.Resolve(f, b.year)

	strip := 0.0
	if !s.Exiled && b.year >= family.YearSchism && f.Faction1Type == family.Guelf {
		strip = StripWidth
	}
	coa := 0.0
	if f.HasCoatOfArms() {
		coa = CoatOfArmsWidth
	}
	w := float64(utf8.RuneCountInString(f.Name))*CharWidth + Padding + coa + strip

	lh := NodeHeight
	if s.Exiled {
		lh += ExileExtra
	}
	n := &Node{
		ID:           f.ID,
		Name:         f.Name,
		State:        s,
		Position:     s.Position,
		Width:        math.Max(MinWidth, w),
		Height:       NodeHeight,
		LayoutHeight: lh,
		StripWidth:   strip,
	}
	if f.HasCoatOfArms() {
		n.CoatOfArmsURL = f.CoatOfArmsURL
	}
	return n
}

func laneFor(y float64) LaneID {
	switch {
	case math.Abs(y-family.LaneNobleY) < LaneTolerance:
		return LaneNoble
	case math.Abs(y-family.LaneGrassiY) < LaneTolerance:
		return LaneGrassi
	default:
		return LanePopolo
	}
}

func (b *builder) zones(nodes []*Node) []*zone {
	index := map[zoneKey]*zone{}
	var zones []*zone
	for _, n := range nodes {
		k := zoneKey{group: n.State.Group, anchorX: n.State.Position.X}
		z, ok := index[k]
		if !ok {
			z = &zone{key: k}
			index[k] = z
			zones = append(zones, z)
		}
		z.nodes = append(z.nodes, n)
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].key.less(zones[j].key) })
	for _, z := range zones {
		sort.SliceStable(z.nodes, func(i, j int) bool {
			a, c := z.nodes[i], z.nodes[j]
			if cmp := b.collate.CompareString(a.Name, c.Name); cmp != 0 {
				return cmp < 0
			}
			return a.ID < c.ID
		})
	}
	return zones
}

// packZone lays the zone out in columns centred on its anchor.
func packZone(z *zone, lane Lane) {
	maxRows := int(math.Floor(lane.Height() / AvgNodeHeight))
	if maxRows < 1 {
		maxRows = 1
	}

	var columns [][]*Node
	for i := 0; i < len(z.nodes); i += maxRows {
		columns = append(columns, z.nodes[i:min(i+maxRows, len(z.nodes))])
	}

	widths := make([]float64, len(columns))
	total := 0.0
	for i, col := range columns {
		for _, n := range col {
			widths[i] = math.Max(widths[i], n.Width)
		}
		total += widths[i]
	}
	total += float64(max(0, len(columns)-1)) * ColumnGap

	x := z.key.anchorX - total/2
	for i, col := range columns {
		cx := x + widths[i]/2

		h := float64(len(col)-1) * RowGap
		for _, n := range col {
			h += n.LayoutHeight
		}
		y := lane.Y - h/2
		if y < lane.Top {
			y = lane.Top
		}
		if y+h > lane.Bottom {
			y = lane.Bottom - h
		}
		for _, n := range col {
			n.Position = family.Point{X: cx, Y: y + n.Height/2}
			y += n.LayoutHeight + RowGap
		}
		x += widths[i] + ColumnGap
	}
}

func (z *zone) left() float64 {
	v := math.Inf(1)
	for _, n := range z.nodes {
		v = math.Min(v, n.Position.X-n.Width/2)
	}
	return v
}

func (z *zone) right() float64 {
	v := math.Inf(-1)
	for _, n := range z.nodes {
		v = math.Max(v, n.Position.X+n.Width/2)
	}
	return v
}

func (z *zone) center() float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, n := range z.nodes {
		lo = math.Min(lo, n.Position.X)
		hi = math.Max(hi, n.Position.X)
	}
	return (lo + hi) / 2
}

func (z *zone) shift(dx float64) {
	for _, n := range z.nodes {
		n.Position.X += dx
	}
}

// splitSides assigns zones to the left or right half. A centre exactly on
// the split goes right.
func splitSides(zones []*zone) (left, right []*zone) {
	for _, z := range zones {
		if z.center() < SideSplitX {
			left = append(left, z)
		} else {
			right = append(right, z)
		}
	}
	return left, right
}

func relax(zones []*zone, bounds Bounds, passes int) {
	if len(zones) == 0 {
		return
	}
	sort.SliceStable(zones, func(i, j int) bool {
		li, lj := zones[i].left(), zones[j].left()
		if li != lj {
			return li < lj
		}
		return zones[i].key.less(zones[j].key)
	})

	for p := 0; p < passes; p++ {
		for i := 0; i < len(zones)-1; i++ {
			need := zones[i].right() + ZoneGap - zones[i+1].left()
			if need > 0 {
				zones[i+1].shift(need)
			}
		}
		last := zones[len(zones)-1]
		if over := last.right() - bounds.Max; over > 0 {
			last.shift(-over)
		}
		for i := len(zones) - 1; i > 0; i-- {
			need := zones[i-1].right() + ZoneGap - zones[i].left()
			if need > 0 {
				zones[i-1].shift(-need)
			}
		}
		first := zones[0]
		if under := bounds.Min - first.left(); under > 0 {
			first.shift(under)
		}
	}
}
