// Package sheet loads families from the published spreadsheet.
//
// The spreadsheet is published as three CSV exports: one row per family
// (or branch), one row per relationship, and one row per house with its
// timeline columns. Headers are matched loosely: accents, case and
// punctuation are ignored, so "Family ID", "family_id" and "FamilyID" are
// the same column.
//
// The three exports are fetched concurrently. Branch rows ("1039_2") take
// their timeline from the parent house ("1039"); relationships are keyed by
// the exact branch id.
package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/httputil"
	"github.com/matzehuels/factionmap/pkg/source"
)

// Default published export URLs.
const (
	DefaultFamiliesURL      = "https://docs.google.com/spreadsheets/d/e/2PACX-1vQkeOA_WfDgVys6FiH5AEw3z_auuZ_Mgrbbx781FkZo-1Iix_c6-Y-I-ls_IRyutjD4BCLPhqqk_Ihg/pub?gid=1270711877&single=true&output=csv"
	DefaultRelationshipsURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vQkeOA_WfDgVys6FiH5AEw3z_auuZ_Mgrbbx781FkZo-1Iix_c6-Y-I-ls_IRyutjD4BCLPhqqk_Ihg/pub?gid=48875300&single=true&output=csv"
	DefaultTimelineURL      = "https://docs.google.com/spreadsheets/d/e/2PACX-1vQkeOA_WfDgVys6FiH5AEw3z_auuZ_Mgrbbx781FkZo-1Iix_c6-Y-I-ls_IRyutjD4BCLPhqqk_Ihg/pub?gid=1875859082&single=true&output=csv"
)

// Provider fetches families from the three CSV exports. It has no events;
// Events always returns source.ErrNoData.
type Provider struct {
	FamiliesURL      string
	RelationshipsURL string
	TimelineURL      string

	// Refresh bypasses the response cache.
	Refresh bool

	client *httputil.Client
}

// New returns a provider using client. Empty URLs fall back to the
// published defaults.
func New(client *httputil.Client, familiesURL, relationshipsURL, timelineURL string) *Provider {
	if client == nil {
		client = httputil.NewClient(nil, nil, 0, nil)
	}
	return &Provider{
		FamiliesURL:      or(familiesURL, DefaultFamiliesURL),
		RelationshipsURL: or(relationshipsURL, DefaultRelationshipsURL),
		TimelineURL:      or(timelineURL, DefaultTimelineURL),
		client:           client,
	}
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func (p *Provider) Name() string { return "sheet" }

// Families fetches and merges the three exports.
func (p *Provider) Families(ctx context.Context) ([]family.Family, error) {
	var famRows, relRows, tlRows []Row

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(url string, dst *[]Row) func() error {
		return func() error {
			body, err := p.client.Cached(gctx, "sheet", url, p.Refresh)
			if err != nil {
				return err
			}
			rows, err := ParseCSV(bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("parse %s: %w", url, err)
			}
			*dst = rows
			return nil
		}
	}
	g.Go(fetch(p.FamiliesURL, &famRows))
	g.Go(fetch(p.RelationshipsURL, &relRows))
	g.Go(fetch(p.TimelineURL, &tlRows))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fs := Merge(famRows, relRows, tlRows)
	if len(fs) == 0 {
		return nil, source.ErrNoData
	}
	return fs, nil
}

// Events is not backed by the spreadsheet.
func (p *Provider) Events(context.Context) ([]family.HistoricalEvent, error) {
	return nil, source.ErrNoData
}

// Row is one CSV record keyed by normalized header.
type Row map[string]string

// Get returns the first non-blank value among keys.
func (r Row) Get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r[k]); v != "" {
			return v
		}
	}
	return ""
}

// NormalizeKey lowercases s, strips accents and drops everything that is
// not an ASCII letter or digit.
func NormalizeKey(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	s, _, _ = transform.String(t, s)
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, s)
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }

// ParseCSV reads a CSV with a header row. Rows whose cells are all blank are
// skipped. Short rows leave the missing columns empty.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = NormalizeKey(h)
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		if blank(rec) {
			continue
		}
		row := make(Row, len(keys))
		for i, k := range keys {
			if k == "" || i >= len(rec) {
				continue
			}
			if _, dup := row[k]; !dup {
				row[k] = rec[i]
			}
		}
		rows = append(rows, row)
	}
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Merge joins the three exports into family records, in families order.
// Rows without an id are dropped. originalFaction comes from the house's
// 1216 faction column and defaults to Guelf.
func Merge(families, relationships, timeline []Row) []family.Family {
	tl := make(map[string]Row, len(timeline))
	for _, row := range timeline {
		if id := row.Get("id", "familyid"); id != "" {
			tl[id] = row
		}
	}

	rels := map[string][]family.Relationship{}
	for _, row := range relationships {
		src := row.Get("sourceid", "familyid")
		if src == "" {
			continue
		}
		rels[src] = append(rels[src], family.Relationship{
			TargetID:    row.Get("targetid"),
			TargetName:  row.Get("targetname", "targetfamilyname"),
			Type:        row.Get("type", "relationshiptype"),
			Description: row.Get("description"),
			Year:        intPtr(row.Get("year", "yearstart")),
		})
	}

	var out []family.Family
	for _, row := range families {
		id := row.Get("id")
		if id == "" {
			continue
		}
		f := family.Family{
			ID:              id,
			Name:            row.Get("name", "familyname"),
			Sesto:           row.Get("sesto"),
			ManualQuartiere: row.Get("quartiere"),
			MapRef:          intPtr(row.Get("mapref")),
			YearStart:       intPtr(row.Get("yearstart")),
			YearEnd:         intPtr(row.Get("yearend")),
			Guild:           row.Get("guild"),
			CoatOfArmsURL:   row.Get("coatofarmsurl", "coatofarms"),
			Description:     row.Get("description"),
			Relationships:   rels[id],
		}
		lat, latOK := float(row.Get("lat"))
		lng, lngOK := float(row.Get("lng"))
		if latOK && lngOK {
			f.Coordinates = &family.LatLng{Lat: lat, Lng: lng}
		}

		house := tl[f.ParentID()]
		f.OriginalFaction = or(house.Get("1216faction"), family.Guelf)
		applyTimeline(&f, row, house)
		out = append(out, f)
	}
	return out
}

// applyTimeline copies status and faction columns, preferring the branch
// row over the house's timeline row.
func applyTimeline(f *family.Family, branch, house Row) {
	get := func(keys ...string) string {
		if v := branch.Get(keys...); v != "" {
			return v
		}
		return house.Get(keys...)
	}
	f.Status1Year = intPtr(get("status1year"))
	f.Status1Class = get("status1class", "status1")
	f.Status2Year = intPtr(get("status2year"))
	f.Status2Class = get("status2class", "status2")
	f.Faction1Year = intPtr(get("faction1year"))
	f.Faction1Type = get("faction1type", "faction1")
	f.Faction2Year = intPtr(get("faction2year"))
	f.Faction2Type = get("faction2type", "faction2")
	f.SubFaction = get("subfaction")
	f.IsMagnate = truthy(get("ismagnate", "magnate"))
}

func intPtr(s string) *int {
	n, err := strconv.Atoi(leadingInt(s))
	if err != nil {
		return nil
	}
	return &n
}

// leadingInt returns the leading signed digits of s, so "1293 (approx.)"
// reads as 1293.
func leadingInt(s string) string {
	s = strings.TrimSpace(s)
	end := 0
	for i, r := range s {
		if (r >= '0' && r <= '9') || (i == 0 && r == '-') {
			end = i + 1
			continue
		}
		break
	}
	return s[:end]
}

func float(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v, err == nil
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "x", "magnate":
		return true
	}
	return false
}

var _ source.Provider = (*Provider)(nil)
