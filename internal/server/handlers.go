package server

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/factionmap/pkg/buildinfo"
	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/core/geo"
	"github.com/matzehuels/factionmap/pkg/core/timeline"
	"github.com/matzehuels/factionmap/pkg/errors"
	"github.com/matzehuels/factionmap/pkg/pipeline"
)

type healthResponse struct {
	Status   string         `json:"status"`
	Build    buildinfo.Info `json:"build"`
	Source   string         `json:"source"`
	Families int            `json:"families"`
	Events   int            `json:"events"`
	Dataset  string         `json:"dataset"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ds := s.Dataset()
	status := "ok"
	if len(ds.Families) == 0 {
		status = "empty"
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   status,
		Build:    buildinfo.Get(),
		Source:   ds.Source,
		Families: len(ds.Families),
		Events:   len(ds.Events),
		Dataset:  ds.Hash,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, errors.New(errors.ErrCodeUnsupported, "method %s not allowed", r.Method))
}

// year reads the year query parameter, defaulting to the server's year.
func (s *Server) year(r *http.Request) (int, error) {
	y, err := queryInt(r, "year", s.opts.DefaultYear)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidYear, err, "invalid year")
	}
	if err := errors.ValidateYear(y); err != nil {
		return 0, err
	}
	return y, nil
}

func (s *Server) lookup(r *http.Request) (family.Family, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateFamilyID(id); err != nil {
		return family.Family{}, err
	}
	f, ok := family.NewIndex(s.Dataset().Families).Get(id)
	if !ok {
		return family.Family{}, errors.New(errors.ErrCodeFamilyNotFound, "family %s not found", id)
	}
	return f, nil
}

// handleFamilies lists family records. With a year, search or sesto
// parameter the list is filtered the way the map filters its pins.
func (s *Server) handleFamilies(w http.ResponseWriter, r *http.Request) {
	fs := s.Dataset().Families
	q := r.URL.Query()
	if q.Has("year") || q.Has("search") || q.Has("sesto") {
		year, err := s.year(r)
		if err != nil {
			writeError(w, err)
			return
		}
		fs = geo.Visible(fs, geo.Filter{Search: q.Get("search"), Sesto: q.Get("sesto"), Year: year})
	}
	if fs == nil {
		fs = []family.Family{}
	}
	writeJSON(w, http.StatusOK, fs)
}

func (s *Server) handleFamily(w http.ResponseWriter, r *http.Request) {
	f, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

type stateResponse struct {
	family.State
	Name     string `json:"name"`
	Year     int    `json:"year"`
	District string `json:"district"`
	Alive    bool   `json:"alive"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	f, err := s.lookup(r)
	if err != nil {
		writeError(w, err)
		return
	}
	year, err := s.year(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{
		State:    family.Resolve(f, year),
		Name:     f.Name,
		Year:     year,
		District: family.District(f, year),
		Alive:    family.Alive(f, year),
	})
}

// render runs the layout and render stages for one format.
func (s *Server) render(r *http.Request, format string) ([]byte, error) {
	year, err := s.year(r)
	if err != nil {
		return nil, err
	}
	passes, err := queryInt(r, "passes", s.opts.RelaxPasses)
	if err != nil {
		return nil, err
	}
	opts := pipeline.Options{
		Year:        year,
		RelaxPasses: &passes,
		Formats:     []string{format},
		SelectedID:  r.URL.Query().Get("selected"),
		NoHeaders:   queryBool(r, "noheaders"),
		NoImages:    queryBool(r, "noimages"),
		Detailed:    queryBool(r, "detailed"),
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	ctx := r.Context()
	ds := s.Dataset()
	l, err := s.runner.Layout(ctx, ds, opts)
	if err != nil {
		return nil, err
	}
	artifacts, err := s.runner.RenderArtifacts(ctx, l, ds, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	return artifacts[format], nil
}

func (s *Server) serveArtifact(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := s.render(r, format)
		if err != nil {
			writeError(w, err)
			return
		}
		writeBytes(w, contentType, data)
	}
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(pipeline.FormatJSON, "application/json; charset=utf-8")(w, r)
}

func (s *Server) handleSocialSVG(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(pipeline.FormatSVG, "image/svg+xml")(w, r)
}

func (s *Server) handleRelationsDOT(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(pipeline.FormatDOT, "text/vnd.graphviz; charset=utf-8")(w, r)
}

func (s *Server) handleRelationsSVG(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(pipeline.FormatGraph, "image/svg+xml")(w, r)
}

func (s *Server) handleConnections(w http.ResponseWriter, r *http.Request) {
	year, err := s.year(r)
	if err != nil {
		writeError(w, err)
		return
	}
	lines := geo.Connections(s.Dataset().Families, year, queryList(r, "types"), r.URL.Query().Get("selected"))
	if lines == nil {
		lines = []geo.Line{}
	}
	writeJSON(w, http.StatusOK, lines)
}

func (s *Server) handlePins(w http.ResponseWriter, r *http.Request) {
	year, err := s.year(r)
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	mode := geo.ColorFaction
	switch m := geo.ColorMode(q.Get("color")); m {
	case "", geo.ColorFaction:
	case geo.ColorGuild:
		mode = m
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "color must be faction or guild, got %q", m))
		return
	}
	flt := geo.Filter{Search: q.Get("search"), Sesto: q.Get("sesto"), Year: year}
	pins := geo.Pins(s.Dataset().Families, flt, mode, q.Get("selected"))
	if pins == nil {
		pins = []geo.Pin{}
	}
	writeJSON(w, http.StatusOK, pins)
}

// District is one entry of the districts listing.
type District struct {
	Name     string   `json:"name"`
	Families []string `json:"families"`
}

func (s *Server) handleDistricts(w http.ResponseWriter, r *http.Request) {
	year, err := s.year(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Districts(s.Dataset().Families, year))
}

// Districts groups the families alive in year by district. Districts are
// sorted by name and list family ids in input order.
func Districts(fs []family.Family, year int) []District {
	index := map[string]int{}
	out := []District{}
	for _, f := range fs {
		if !family.Alive(f, year) {
			continue
		}
		name := family.District(f, year)
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, District{Name: name})
		}
		out[i].Families = append(out[i].Families, f.ID)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	evs := s.Dataset().Events
	if r.URL.Query().Has("year") {
		year, err := s.year(r)
		if err != nil {
			writeError(w, err)
			return
		}
		evs = timeline.EventsUpTo(evs, year)
	} else {
		evs = timeline.Sorted(evs)
	}
	if evs == nil {
		evs = []family.HistoricalEvent{}
	}
	writeJSON(w, http.StatusOK, evs)
}

type jumpResponse struct {
	Year  int                     `json:"year"`
	Moved bool                    `json:"moved"`
	Event *family.HistoricalEvent `json:"event,omitempty"`
}

func (s *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	year, err := s.year(r)
	if err != nil {
		writeError(w, err)
		return
	}
	dir, ok := timeline.ParseDirection(r.URL.Query().Get("dir"))
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "dir must be next or prev"))
		return
	}
	evs := s.Dataset().Events
	resp := jumpResponse{Year: year}
	if y, found := timeline.Neighbor(evs, year, dir); found {
		resp.Year, resp.Moved = y, true
		if e, ok := timeline.EventAt(evs, y); ok {
			resp.Event = &e
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
