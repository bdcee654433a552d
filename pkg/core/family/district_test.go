package family

import (
	"math"
	"testing"
)

func TestDistrict(t *testing.T) {
	tests := []struct {
		name string
		f    Family
		year int
		want string
	}{
		{"sesto before 1343", Family{Sesto: "Sesto di Borgo"}, 1342, "Sesto di Borgo"},
		{"unknown before 1343", Family{}, 1300, UnknownDistrict},
		{"mapped from 1343", Family{Sesto: "Sesto di Borgo"}, 1343, "Santa Croce"},
		{"oltrarno", Family{Sesto: "Sesto d'Oltrarno"}, 1400, "Santo Spirito"},
		{"manual override", Family{Sesto: "Sesto di Borgo", ManualQuartiere: "San Giovanni"}, 1343, "San Giovanni"},
		{"blank manual ignored", Family{Sesto: "Sesto di San Pancrazio", ManualQuartiere: "  "}, 1350, "Santa Maria Novella"},
		{"unmapped sesto kept", Family{Sesto: "Sesto di San Piero Scheraggio"}, 1350, "Sesto di San Piero Scheraggio"},
		{"unknown after 1343", Family{}, 1350, UnknownDistrict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := District(tt.f, tt.year); got != tt.want {
				t.Errorf("District() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGridCoordinates(t *testing.T) {
	cell := 100.0 / 7
	tests := []struct {
		code   string
		wantOK bool
		wantX  float64
		wantY  float64
	}{
		{"2C", true, 2*cell + cell/2, 1*cell + cell/2},
		{"5-6F", true, 5*cell + cell/2, 4*cell + cell/2},
		{"A1", true, cell / 2, cell / 2},
		{"7G", true, 6*cell + cell/2, 6*cell + cell/2},
		{"", false, 0, 0},
		{"9H", false, 0, 0},
		{"C", false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			p, ok := GridCoordinates(tt.code)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if math.Abs(p.X-tt.wantX) > 1e-9 || math.Abs(p.Y-tt.wantY) > 1e-9 {
				t.Errorf("GridCoordinates(%q) = %+v, want (%v, %v)", tt.code, p, tt.wantX, tt.wantY)
			}
		})
	}
}
