package layout

import (
	"math"
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/factionmap/pkg/core/family"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

// florence returns fifty families with ids 1000..1049.
func florence() []family.Family {
	rows := []struct {
		name, status, faction, sub string
		magnate, arms              bool
	}{
		{"Abati", "Noble", "Ghibelline", "", true, false},
		{"Acciaiuoli", "Popolo Grasso", "Guelf", "Black", false, true},
		{"Adimari", "Noble", "Guelf", "White", true, true},
		{"Agli", "Popolo", "Guelf", "", false, false},
		{"Alberti", "Popolo Grasso", "Guelf", "", false, false},
		{"Albizzi", "Popolo Grasso", "Guelf", "", false, true},
		{"Amidei", "Noble", "Ghibelline", "", true, false},
		{"Bardi", "Noble", "Guelf", "Black", true, true},
		{"Buondelmonti", "Noble", "Guelf", "Black", true, true},
		{"Cavalcanti", "Noble", "Guelf", "White", true, false},
		{"Cerchi", "Popolo Grasso", "Guelf", "White", false, true},
		{"Donati", "Noble", "Guelf", "Black", true, true},
		{"Frescobaldi", "Noble", "Guelf", "Black", true, false},
		{"Gherardini", "Noble", "Guelf", "White", true, false},
		{"Lamberti", "Noble", "Ghibelline", "", true, false},
		{"Medici", "Popolo", "Guelf", "Black", false, true},
		{"Mozzi", "Popolo Grasso", "Guelf", "Black", false, false},
		{"Peruzzi", "Popolo Grasso", "Guelf", "", false, true},
		{"Pulci", "Noble", "Ghibelline", "", false, false},
		{"Rossi", "Noble", "Guelf", "Black", true, false},
		{"Scali", "Popolo Grasso", "Guelf", "White", false, false},
		{"Spini", "Popolo Grasso", "Guelf", "Black", false, false},
		{"Strozzi", "Popolo", "Guelf", "", false, true},
		{"Tornaquinci", "Noble", "Guelf", "Black", true, false},
		{"Uberti", "Noble", "Ghibelline", "", true, true},
		{"Ubriachi", "Noble", "Ghibelline", "", false, false},
		{"Visdomini", "Noble", "Guelf", "Black", true, false},
		{"Tosinghi", "Noble", "Guelf", "Black", true, false},
		{"Pazzi", "Noble", "Guelf", "Black", true, false},
		{"Portinari", "Popolo", "Guelf", "White", false, false},
		{"Mannelli", "Noble", "Ghibelline", "", false, false},
		{"Fifanti", "Noble", "Ghibelline", "", false, false},
		{"Soldanieri", "Noble", "Ghibelline", "", false, false},
		{"Caponsacchi", "Noble", "Ghibelline", "", false, false},
		{"Rucellai", "Popolo", "Guelf", "", false, false},
		{"Capponi", "Popolo", "Guelf", "", false, false},
		{"Ricci", "Popolo", "Guelf", "", false, false},
		{"Altoviti", "Popolo Grasso", "Guelf", "Black", false, false},
		{"Gianfigliazzi", "Noble", "Guelf", "Black", true, false},
		{"Foraboschi", "Noble", "Ghibelline", "", false, false},
		{"Arrighi", "Popolo", "Ghibelline", "", false, false},
		{"Malespini", "Noble", "Guelf", "", false, false},
		{"Nerli", "Noble", "Guelf", "", true, false},
		{"Sacchetti", "Popolo", "Guelf", "", false, false},
		{"Villani", "Popolo", "Guelf", "Black", false, false},
		{"Compagni", "Popolo", "Guelf", "White", false, false},
		{"Magalotti", "Popolo", "Guelf", "", false, false},
		{"Davanzati", "Popolo Grasso", "Guelf", "", false, false},
		{"Guidalotti", "Popolo", "Ghibelline", "", false, false},
		{"Infangati", "Noble", "Ghibelline", "", false, false},
	}
	out := make([]family.Family, len(rows))
	for i, r := range rows {
		f := family.Family{
			ID:           strconv.Itoa(1000 + i),
			Name:         r.name,
			Status1Class: r.status,
			Faction1Type: r.faction,
			SubFaction:   r.sub,
			IsMagnate:    r.magnate,
		}
		if r.arms {
			f.CoatOfArmsURL = "https://example.org/" + strings.ToLower(r.name) + ".png"
		}
		out[i] = f
	}
	return out
}

var years = []int{1216, 1250, 1263, 1270, 1293, 1300, 1301, 1302, 1305, 1343, 1400}

func TestBuild_SingleNode(t *testing.T) {
	donati := family.Family{
		ID: "1003", Name: "Donati",
		Status1Class: family.StatusNoble, Faction1Type: family.Guelf, SubFaction: family.Black,
	}
	l := Build([]family.Family{donati}, 1305)

	if len(l.Nodes) != 1 {
		t.Fatalf("len(Nodes) = %d, want 1", len(l.Nodes))
	}
	n := l.Nodes[0]
	if n.Width != MinWidth {
		t.Errorf("Width = %v, want %v", n.Width, MinWidth)
	}
	if n.StripWidth != StripWidth {
		t.Errorf("StripWidth = %v, want %v", n.StripWidth, StripWidth)
	}
	if !near(n.Position.X, 225) || !near(n.Position.Y, 24) {
		t.Errorf("Position = %+v, want (225, 24)", n.Position)
	}
	if n.Lane != LaneNoble {
		t.Errorf("Lane = %v, want %v", n.Lane, LaneNoble)
	}
	if l.Year != 1305 || l.Width != family.CanvasWidth || len(l.Lanes) != 3 {
		t.Errorf("unexpected layout header: %+v", l)
	}
}

func TestBuild_Empty(t *testing.T) {
	l := Build(nil, 1300)
	if len(l.Nodes) != 0 {
		t.Errorf("len(Nodes) = %d, want 0", len(l.Nodes))
	}
	if OverlapRatio(l) != 0 {
		t.Errorf("OverlapRatio = %v, want 0", OverlapRatio(l))
	}
}

func TestBuild_NodeSize(t *testing.T) {
	tests := []struct {
		name       string
		f          family.Family
		year       int
		wantWidth  float64
		wantLayout float64
	}{
		{
			name:       "short name hits minimum",
			f:          family.Family{ID: "a", Name: "Agli", Faction1Type: family.Guelf},
			year:       1250,
			wantWidth:  MinWidth,
			wantLayout: NodeHeight,
		},
		{
			name:       "long name with arms and strip",
			f:          family.Family{ID: "b", Name: "Buondelmonti", Faction1Type: family.Guelf, CoatOfArmsURL: "x.png"},
			year:       1300,
			wantWidth:  12*CharWidth + Padding + CoatOfArmsWidth + StripWidth,
			wantLayout: NodeHeight,
		},
		{
			name:       "exiled guelf has no strip",
			f:          family.Family{ID: "c", Name: "Gianfigliazzi", Faction1Type: family.Guelf, SubFaction: family.White},
			year:       1305,
			wantWidth:  13*CharWidth + Padding,
			wantLayout: NodeHeight + ExileExtra,
		},
		{
			name:       "width counts runes",
			f:          family.Family{ID: "d", Name: "Niccolò de' Nerli", Faction1Type: family.Ghibelline},
			year:       1250,
			wantWidth:  17*CharWidth + Padding,
			wantLayout: NodeHeight,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Build([]family.Family{tt.f}, tt.year).Nodes[0]
			if !near(n.Width, tt.wantWidth) {
				t.Errorf("Width = %v, want %v", n.Width, tt.wantWidth)
			}
			if n.LayoutHeight != tt.wantLayout {
				t.Errorf("LayoutHeight = %v, want %v", n.LayoutHeight, tt.wantLayout)
			}
			if n.Height != NodeHeight {
				t.Errorf("Height = %v, want %v", n.Height, NodeHeight)
			}
		})
	}
}

func TestBuild_ExilesClampedToLeftBound(t *testing.T) {
	fs := []family.Family{
		{ID: "v", Name: "Ubriachi", Status1Class: family.StatusNoble, Faction1Type: family.Ghibelline},
		{ID: "u", Name: "Uberti", Status1Class: family.StatusNoble, Faction1Type: family.Ghibelline},
	}
	l := Build(fs, 1270)

	u, _ := l.Node("u")
	v, _ := l.Node("v")
	if !near(u.Position.X, 46.5) || !near(v.Position.X, 46.5) {
		t.Errorf("x = %v, %v, want 46.5", u.Position.X, v.Position.X)
	}
	if !near(u.Position.Y, 18.75) || !near(v.Position.Y, 27.25) {
		t.Errorf("y = %v, %v, want 18.75, 27.25", u.Position.Y, v.Position.Y)
	}
	if u.LayoutHeight != NodeHeight+ExileExtra {
		t.Errorf("LayoutHeight = %v", u.LayoutHeight)
	}
	if !near(u.Box().Left, LeftBounds.Min) {
		t.Errorf("left edge = %v, want %v", u.Box().Left, LeftBounds.Min)
	}
}

func TestBuild_ColumnPacking(t *testing.T) {
	var fs []family.Family
	for i := 0; i < 7; i++ {
		fs = append(fs, family.Family{
			ID:           strconv.Itoa(i),
			Name:         "Name0" + strconv.Itoa(i),
			Status1Class: family.StatusPopolo,
			Faction1Type: family.Guelf,
		})
	}
	l := Build(fs, 1250)

	want := map[string]family.Point{
		"0": {X: 170, Y: 77.25},
		"1": {X: 170, Y: 83.75},
		"2": {X: 170, Y: 90.25},
		"3": {X: 185, Y: 77.25},
		"4": {X: 185, Y: 83.75},
		"5": {X: 185, Y: 90.25},
		"6": {X: 200, Y: 81},
	}
	for _, n := range l.Nodes {
		w := want[n.ID]
		if !near(n.Position.X, w.X) || !near(n.Position.Y, w.Y) {
			t.Errorf("node %s at %+v, want %+v", n.ID, n.Position, w)
		}
	}
}

func TestBuild_Relaxation(t *testing.T) {
	fs := []family.Family{
		{ID: "a", Name: strings.Repeat("A", 40), Status1Class: family.StatusNoble, Faction1Type: family.Guelf},
		{ID: "b", Name: strings.Repeat("B", 40), Status1Class: family.StatusNoble, Faction1Type: family.Guelf, SubFaction: family.Black},
		{ID: "c", Name: strings.Repeat("C", 40), Status1Class: family.StatusNoble, Faction1Type: family.Guelf, SubFaction: family.White},
	}
	tests := []struct {
		passes  int
		a, b, c float64
	}{
		{0, 185, 225, 145},
		{1, 187, 229, 145},
		{3, 187, 229, 145},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.passes), func(t *testing.T) {
			l := Build(fs, 1300, WithRelaxPasses(tt.passes))
			for id, want := range map[string]float64{"a": tt.a, "b": tt.b, "c": tt.c} {
				n, ok := l.Node(id)
				if !ok {
					t.Fatalf("node %s missing", id)
				}
				if !near(n.Width, 39) {
					t.Errorf("node %s width = %v, want 39", id, n.Width)
				}
				if !near(n.Position.X, want) {
					t.Errorf("node %s x = %v, want %v", id, n.Position.X, want)
				}
			}
		})
	}
	if r := OverlapRatio(Build(fs, 1300)); r != 0 {
		t.Errorf("OverlapRatio with relaxation = %v, want 0", r)
	}
}

func TestBuild_Florence(t *testing.T) {
	fs := florence()
	for _, year := range years {
		t.Run(strconv.Itoa(year), func(t *testing.T) {
			l := Build(fs, year)
			if len(l.Nodes) != len(fs) {
				t.Fatalf("len(Nodes) = %d, want %d", len(l.Nodes), len(fs))
			}
			if r := OverlapRatio(l); r >= 0.02 {
				t.Errorf("OverlapRatio = %v, want < 0.02 (%v)", r, OverlappingPairs(l))
			}
			for _, n := range l.Nodes {
				b := n.Box()
				if b.Left < LeftBounds.Min-eps || b.Right > RightBounds.Max+eps {
					t.Errorf("node %s (%s) outside horizontal bounds: %+v", n.ID, n.Name, b)
				}
				if !n.State.Group.Valid() {
					t.Errorf("node %s has invalid group %q", n.ID, n.State.Group)
				}
			}
		})
	}
}

func TestBuild_SortedByID(t *testing.T) {
	l := Build(florence(), 1305)
	for i := 1; i < len(l.Nodes); i++ {
		if l.Nodes[i-1].ID >= l.Nodes[i].ID {
			t.Fatalf("nodes not sorted at %d: %s >= %s", i, l.Nodes[i-1].ID, l.Nodes[i].ID)
		}
	}
}

func TestBuild_ShuffleInvariant(t *testing.T) {
	fs := florence()
	rng := rand.New(rand.NewSource(7))
	for _, year := range []int{1263, 1300, 1305} {
		want := Build(fs, year)
		for i := 0; i < 5; i++ {
			shuffled := append([]family.Family(nil), fs...)
			rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
			if got := Build(shuffled, year); !reflect.DeepEqual(got, want) {
				t.Fatalf("year %d: layout depends on input order", year)
			}
		}
	}
}

func TestBuild_Idempotent(t *testing.T) {
	fs := florence()
	if !reflect.DeepEqual(Build(fs, 1302), Build(fs, 1302)) {
		t.Error("Build not idempotent")
	}
}

func TestBuild_NameOrderWithinColumn(t *testing.T) {
	fs := []family.Family{
		{ID: "1", Name: "Zati", Status1Class: family.StatusNoble, Faction1Type: family.Ghibelline},
		{ID: "2", Name: "Àlberti", Status1Class: family.StatusNoble, Faction1Type: family.Ghibelline},
		{ID: "3", Name: "Bardi", Status1Class: family.StatusNoble, Faction1Type: family.Ghibelline},
	}
	l := Build(fs, 1250)
	first, _ := l.Node("2")
	second, _ := l.Node("3")
	third, _ := l.Node("1")
	if !(first.Position.Y < second.Position.Y && second.Position.Y < third.Position.Y) {
		t.Errorf("unexpected order: %v %v %v", first.Position.Y, second.Position.Y, third.Position.Y)
	}
}

func TestLaneFor(t *testing.T) {
	tests := []struct {
		y    float64
		want LaneID
	}{
		{24, LaneNoble},
		{38.9, LaneNoble},
		{42, LaneGrassi},
		{56, LaneGrassi},
		{71, LanePopolo},
		{80, LanePopolo},
	}
	for _, tt := range tests {
		if got := laneFor(tt.y); got != tt.want {
			t.Errorf("laneFor(%v) = %v, want %v", tt.y, got, tt.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	mk := func(id string, x, y float64, lane LaneID) Node {
		return Node{ID: id, Lane: lane, Position: family.Point{X: x, Y: y}, Width: 10, Height: 4, LayoutHeight: 4}
	}
	l := Layout{Nodes: []Node{
		mk("b", 0, 0, LaneNoble),
		mk("a", 5, 0, LaneNoble),
		mk("c", 15, 0, LaneNoble), // touches a
		mk("d", 0, 0, LanePopolo), // other lane
	}}
	got := OverlappingPairs(l)
	want := []Pair{{A: "a", B: "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Overlaps = %v, want %v", got, want)
	}
	if r := OverlapRatio(l); !near(r, 1.0/3) {
		t.Errorf("OverlapRatio = %v, want 1/3", r)
	}
}

func TestBlock(t *testing.T) {
	b := Block{Left: 10, Right: 30, Top: 5, Bottom: 15}
	if b.Width() != 20 || b.Height() != 10 || b.CenterX() != 20 || b.CenterY() != 10 {
		t.Errorf("unexpected block metrics: %+v", b)
	}
}

func TestLayout_GroupCounts(t *testing.T) {
	counts := Build(florence(), 1305).GroupCounts()
	total := 0
	for _, g := range family.Groups {
		total += counts[g]
	}
	if total != 50 {
		t.Errorf("group total = %d, want 50", total)
	}
	if counts[family.GroupExile] == 0 || counts[family.GroupBlack] == 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

// zoneAt builds a zone with one node per centre x, each 10 wide.
func zoneAt(group family.VisualGroup, xs ...float64) *zone {
	z := &zone{key: zoneKey{group: group, anchorX: xs[0]}}
	for i, x := range xs {
		z.nodes = append(z.nodes, &Node{
			ID:       string(group) + strconv.Itoa(i),
			Position: family.Point{X: x},
			Width:    10,
		})
	}
	return z
}

func TestSplitSides(t *testing.T) {
	onSplit := zoneAt(family.GroupGuelf, 100, 120)    // centre 110
	leftOfIt := zoneAt(family.GroupWhite, 99, 120.5)  // centre 109.75
	farRight := zoneAt(family.GroupBlack, 200, 210)   // centre 205
	farLeft := zoneAt(family.GroupGhibelline, 50, 60) // centre 55

	left, right := splitSides([]*zone{onSplit, leftOfIt, farRight, farLeft})

	if !reflect.DeepEqual(left, []*zone{leftOfIt, farLeft}) {
		t.Errorf("left = %v", zoneKeys(left))
	}
	if !reflect.DeepEqual(right, []*zone{onSplit, farRight}) {
		t.Errorf("right = %v, want the zone centred on %v first", zoneKeys(right), SideSplitX)
	}
}

func zoneKeys(zs []*zone) []zoneKey {
	keys := make([]zoneKey, len(zs))
	for i, z := range zs {
		keys[i] = z.key
	}
	return keys
}

func TestRelax(t *testing.T) {
	tests := []struct {
		name      string
		zones     []*zone
		wantLeft  []float64
		wantRight []float64
	}{
		{
			name:      "clamped to the left edge",
			zones:     []*zone{zoneAt(family.GroupGhibelline, 30)},
			wantLeft:  []float64{LeftBounds.Min},
			wantRight: []float64{LeftBounds.Min + 10},
		},
		{
			name:      "first zone clamped, second untouched",
			zones:     []*zone{zoneAt(family.GroupGhibelline, 35), zoneAt(family.GroupGuelf, 60)},
			wantLeft:  []float64{40, 55},
			wantRight: []float64{50, 65},
		},
		{
			name:      "overlap pushed apart by the gap",
			zones:     []*zone{zoneAt(family.GroupGhibelline, 60), zoneAt(family.GroupGuelf, 62)},
			wantLeft:  []float64{55, 55 + 10 + ZoneGap},
			wantRight: []float64{65, 65 + 10 + ZoneGap},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			relax(tt.zones, LeftBounds, 1)
			for i, z := range tt.zones {
				if !near(z.left(), tt.wantLeft[i]) || !near(z.right(), tt.wantRight[i]) {
					t.Errorf("zone %d spans [%v, %v], want [%v, %v]",
						i, z.left(), z.right(), tt.wantLeft[i], tt.wantRight[i])
				}
			}
		})
	}
}
