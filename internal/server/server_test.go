package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/factionmap/pkg/core/family"
	"github.com/matzehuels/factionmap/pkg/core/geo"
	"github.com/matzehuels/factionmap/pkg/errors"
	"github.com/matzehuels/factionmap/pkg/pipeline"
	"github.com/matzehuels/factionmap/pkg/source"
)

func at(lat, lng float64) *family.LatLng { return &family.LatLng{Lat: lat, Lng: lng} }

func fixture() source.Static {
	return source.Static{
		Label: "test",
		FamilySet: []family.Family{
			{
				ID: "1003", Name: "Donati", Sesto: "Sesto di Porta San Piero",
				Status1Class: family.StatusNoble, IsMagnate: true,
				Faction1Type: family.Guelf, SubFaction: family.Black,
				Coordinates: at(43.772, 11.258),
				Relationships: []family.Relationship{{TargetID: "1010", Type: "Feud"}},
			},
			{
				ID: "1010", Name: "Cerchi", Sesto: "Sesto di Porta San Piero",
				Status1Class: family.StatusPopoloGrasso, Faction1Type: family.Guelf, SubFaction: family.White,
				Coordinates: at(43.771, 11.259),
			},
			{ID: "1024", Name: "Uberti", Sesto: "Sesto di Borgo", Status1Class: family.StatusNoble, Faction1Type: family.Ghibelline},
			{ID: "1016", Name: "Rucellai", YearStart: family.Year(1280), Faction1Type: family.Guelf},
		},
		EventSet: []family.HistoricalEvent{
			{Year: 1266, Title: "Benevento"},
			{Year: 1216, Title: "Buondelmonte"},
			{Year: 1300, Title: "Schism"},
		},
	}
}

func quiet() *log.Logger { return log.New(io.Discard) }

func newTestServer(t *testing.T, src source.Provider, opts Options) *Server {
	t.Helper()
	opts.Logger = quiet()
	s := New(pipeline.NewRunner(src, nil, nil, quiet()), opts)
	require.NoError(t, s.Reload(context.Background()))
	return s
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, fixture(), Options{})
	rec := get(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	decode(t, rec, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "test", body.Source)
	assert.Equal(t, 4, body.Families)
	assert.Equal(t, 3, body.Events)
	assert.NotEmpty(t, body.Dataset)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestFamilies(t *testing.T) {
	s := newTestServer(t, fixture(), Options{})

	var all []family.Family
	decode(t, get(t, s, "/api/v1/families"), &all)
	assert.Len(t, all, 4)

	var found []family.Family
	decode(t, get(t, s, "/api/v1/families?search=don&year=1300"), &found)
	require.Len(t, found, 1)
	assert.Equal(t, "Donati", found[0].Name)

	rec := get(t, s, "/api/v1/families?year=1250")
	var early []family.Family
	decode(t, rec, &early)
	assert.Len(t, early, 3, "Rucellai starts in 1280")

	var one family.Family
	decode(t, get(t, s, "/api/v1/families/1024"), &one)
	assert.Equal(t, "Uberti", one.Name)
}

func TestFamilyState(t *testing.T) {
	s := newTestServer(t, fixture(), Options{})

	var st stateResponse
	decode(t, get(t, s, "/api/v1/families/1024/state?year=1270"), &st)
	assert.Equal(t, family.GroupExile, st.Group)
	assert.True(t, st.Exiled)
	assert.Equal(t, 1270, st.Year)
	assert.Equal(t, "Sesto di Borgo", st.District)

	decode(t, get(t, s, "/api/v1/families/1024/state?year=1350"), &st)
	assert.Equal(t, "Santa Croce", st.District)

	decode(t, get(t, s, "/api/v1/families/1003/state"), &st)
	assert.Equal(t, pipeline.DefaultYear, st.Year, "missing year uses the default")
	assert.Equal(t, family.GroupBlack, st.Group)
	assert.True(t, st.Magnate)
}

func TestErrors(t *testing.T) {
	s := newTestServer(t, fixture(), Options{})
	tests := []struct {
		path   string
		status int
		code   errors.Code
	}{
		{"/api/v1/families/9999", http.StatusNotFound, errors.ErrCodeFamilyNotFound},
		{"/api/v1/families/1003/state?year=1100", http.StatusBadRequest, errors.ErrCodeInvalidYear},
		{"/api/v1/families/1003/state?year=abc", http.StatusBadRequest, errors.ErrCodeInvalidYear},
		{"/api/v1/social.svg?year=1500", http.StatusBadRequest, errors.ErrCodeInvalidYear},
		{"/api/v1/layout?passes=-1", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/api/v1/timeline/jump?dir=up", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/api/v1/pins?color=rainbow", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"/api/v1/nope", http.StatusNotFound, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, s, tt.path)
			assert.Equal(t, tt.status, rec.Code)
			var body errorBody
			decode(t, rec, &body)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestArtifacts(t *testing.T) {
	s := newTestServer(t, fixture(), Options{})

	rec := get(t, s, "/api/v1/social.svg?year=1301&selected=1003")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))
	assert.Contains(t, rec.Body.String(), "Donati")

	rec = get(t, s, "/api/v1/layout?year=1301")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc struct {
		Year  int               `json:"year"`
		Nodes []json.RawMessage `json:"nodes"`
	}
	decode(t, rec, &doc)
	assert.Equal(t, 1301, doc.Year)
	assert.Len(t, doc.Nodes, 4)

	rec = get(t, s, "/api/v1/layout?year=1250")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &doc)
	assert.Len(t, doc.Nodes, 4, "Rucellai is placed before its first year")

	rec = get(t, s, "/api/v1/relations.dot?year=1301")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "graph G {")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/vnd.graphviz")
}

func TestConnectionsAndPins(t *testing.T) {
	s := newTestServer(t, fixture(), Options{})

	var lines []geo.Line
	decode(t, get(t, s, "/api/v1/connections?year=1300&types=feud"), &lines)
	require.Len(t, lines, 1)
	assert.Equal(t, "1003", lines[0].SourceID)
	assert.Equal(t, "1010", lines[0].TargetID)

	rec := get(t, s, "/api/v1/connections?year=1300")
	assert.JSONEq(t, "[]", rec.Body.String())

	var pins []geo.Pin
	decode(t, get(t, s, "/api/v1/pins?year=1300&color=guild"), &pins)
	assert.Len(t, pins, 2, "only located families get pins")
}

func TestDistricts(t *testing.T) {
	s := newTestServer(t, fixture(), Options{})

	var ds []District
	decode(t, get(t, s, "/api/v1/districts?year=1300"), &ds)
	assert.Equal(t, []District{
		{Name: "Sesto di Borgo", Families: []string{"1024"}},
		{Name: "Sesto di Porta San Piero", Families: []string{"1003", "1010"}},
		{Name: family.UnknownDistrict, Families: []string{"1016"}},
	}, ds)

	got := Districts(fixture().FamilySet, 1343)
	require.Len(t, got, 3)
	assert.Equal(t, "San Giovanni", got[0].Name)
	assert.Equal(t, "Santa Croce", got[1].Name)
}

func TestEventsAndJump(t *testing.T) {
	s := newTestServer(t, fixture(), Options{})

	var evs []family.HistoricalEvent
	decode(t, get(t, s, "/api/v1/events"), &evs)
	require.Len(t, evs, 3)
	assert.Equal(t, 1216, evs[0].Year)

	decode(t, get(t, s, "/api/v1/events?year=1266"), &evs)
	assert.Len(t, evs, 2)

	var jump jumpResponse
	decode(t, get(t, s, "/api/v1/timeline/jump?year=1250&dir=next"), &jump)
	assert.True(t, jump.Moved)
	assert.Equal(t, 1266, jump.Year)
	require.NotNil(t, jump.Event)
	assert.Equal(t, "Benevento", jump.Event.Title)

	jump = jumpResponse{}
	decode(t, get(t, s, "/api/v1/timeline/jump?year=1216&dir=prev"), &jump)
	assert.False(t, jump.Moved)
	assert.Equal(t, 1216, jump.Year)
	assert.Nil(t, jump.Event)
}

func TestReloadKeepsDataset(t *testing.T) {
	src := &switchable{Provider: fixture()}
	s := newTestServer(t, src, Options{})
	before := s.Dataset()

	src.Provider = source.Static{Label: "empty"}
	assert.Error(t, s.Reload(context.Background()))
	assert.Equal(t, before.Hash, s.Dataset().Hash)

	next := fixture()
	next.FamilySet = next.FamilySet[:1]
	src.Provider = next
	require.NoError(t, s.Reload(context.Background()))
	assert.Len(t, s.Dataset().Families, 1)
	assert.NotEqual(t, before.Hash, s.Dataset().Hash)
}

type switchable struct{ source.Provider }

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, fixture(), Options{RateLimitRPS: 0.001, RateLimitBurst: 2})
	assert.Equal(t, http.StatusOK, get(t, s, "/health").Code)
	assert.Equal(t, http.StatusOK, get(t, s, "/health").Code)

	rec := get(t, s, "/health")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	var body errorBody
	decode(t, rec, &body)
	assert.Equal(t, errors.ErrCodeRateLimited, body.Code)
}
