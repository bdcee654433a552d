package family

import (
	"regexp"
	"strings"
)

// UnknownDistrict is returned when a family has no recorded sesto.
const UnknownDistrict = "Unknown"

// sestoQuartiere maps the six sesti to the four quartieri that replaced them.
var sestoQuartiere = map[string]string{
	"Sesto d'Oltrarno":             "Santo Spirito",
	"Sesto di San Pier Scheraggio": "Santa Croce",
	"Sesto di Borgo":               "Santa Croce",
	"Sesto di San Pancrazio":       "Santa Maria Novella",
	"Sesto di Porta del Duomo":     "San Giovanni",
	"Sesto di Porta San Piero":     "San Giovanni",
}

// District returns the administrative district of f in year. Before 1343 it
// is the sesto; from 1343 a manual quartiere wins, then the sesto mapping.
func District(f Family, year int) string {
	if year < YearQuartieri {
		return sestoOrUnknown(f)
	}
	if q := strings.TrimSpace(f.ManualQuartiere); q != "" {
		return f.ManualQuartiere
	}
	if q, ok := sestoQuartiere[f.Sesto]; ok {
		return q
	}
	return sestoOrUnknown(f)
}

func sestoOrUnknown(f Family) string {
	if f.Sesto == "" {
		return UnknownDistrict
	}
	return f.Sesto
}

var (
	gridNoise  = regexp.MustCompile(`[^0-9A-G]`)
	gridColumn = regexp.MustCompile(`[A-G]`)
	gridRow    = regexp.MustCompile(`[1-7]`)
)

// GridCoordinates converts a map grid code such as "2C" or "5-6F" into the
// centre of its cell on a 7×7 grid, in percent. Only the first column letter
// (A-G) and the first row digit (1-7) are used.
func GridCoordinates(code string) (Point, bool) {
	clean := gridNoise.ReplaceAllString(code, "")
	col := gridColumn.FindString(clean)
	row := gridRow.FindString(clean)
	if col == "" || row == "" {
		return Point{}, false
	}
	const cell = 100.0 / 7
	ci := float64(col[0] - 'A')
	ri := float64(row[0] - '1')
	return Point{X: ci*cell + cell/2, Y: ri*cell + cell/2}, true
}
