package family

import (
	"regexp"
	"strings"
)

// NotAvailable is the spreadsheet placeholder for a missing target.
const NotAvailable = "#N/A"

var targetSep = regexp.MustCompile(`[,;]+`)

// Index looks families up by id and by case-insensitive name. The first
// family with a given name wins.
type Index struct {
	byID   map[string]int
	byName map[string]int
	fs     []Family
}

// NewIndex indexes fs. The slice is retained, not copied.
func NewIndex(fs []Family) *Index {
	idx := &Index{
		byID:   make(map[string]int, len(fs)),
		byName: make(map[string]int, len(fs)),
		fs:     fs,
	}
	for i, f := range fs {
		if _, ok := idx.byID[f.ID]; !ok {
			idx.byID[f.ID] = i
		}
		key := strings.ToLower(f.Name)
		if _, ok := idx.byName[key]; !ok {
			idx.byName[key] = i
		}
	}
	return idx
}

// Len returns the number of indexed families.
func (idx *Index) Len() int { return len(idx.fs) }

// Get returns the family with the given id.
func (idx *Index) Get(id string) (Family, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return Family{}, false
	}
	return idx.fs[i], true
}

// Lookup resolves a token by id first, then by case-insensitive name.
func (idx *Index) Lookup(token string) (Family, bool) {
	if f, ok := idx.Get(token); ok {
		return f, true
	}
	i, ok := idx.byName[strings.ToLower(token)]
	if !ok {
		return Family{}, false
	}
	return idx.fs[i], true
}

// Targets resolves every target of r. Unknown tokens are dropped.
func (idx *Index) Targets(r Relationship) []Family {
	var out []Family
	for _, tok := range r.Tokens() {
		if f, ok := idx.Lookup(tok); ok {
			out = append(out, f)
		}
	}
	return out
}

// Tokens splits the relationship target into lookup tokens. TargetID is used
// unless it is empty or [NotAvailable]; TargetName is the fallback.
func (r Relationship) Tokens() []string {
	raw := strings.TrimSpace(r.TargetID)
	if raw == "" || raw == NotAvailable {
		raw = strings.TrimSpace(r.TargetName)
		if raw == NotAvailable {
			raw = ""
		}
	}
	if raw == "" {
		return nil
	}
	var out []string
	for _, tok := range targetSep.Split(raw, -1) {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// NormalizedType returns the lower-cased relationship type, or "unknown".
func (r Relationship) NormalizedType() string {
	t := strings.ToLower(strings.TrimSpace(r.Type))
	if t == "" {
		return "unknown"
	}
	return t
}

// ActiveIn reports whether the relationship holds in year. Undated
// relationships always do.
func (r Relationship) ActiveIn(year int) bool {
	y, ok := recorded(r.Year)
	return !ok || y <= year
}
