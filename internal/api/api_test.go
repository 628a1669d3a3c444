package api_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/classreg/internal/api"
	"github.com/mcoot/classreg/internal/api/apierr"
	"github.com/mcoot/classreg/internal/api/response"
	"github.com/mcoot/classreg/internal/factory"
	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/storage"
)

// testServer wraps the API router and the test app behind it
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app := factory.NewTestApp()
	require.NoError(t, app.SeedTestClasses(t.Context()))

	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		Catalog:      app.Catalog,
		AdminService: app.Admin,
		Clock:        app.MockClock,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func selection(entries map[string][]map[string]string) map[string]any {
	var sels []map[string]any
	// Fixed order keeps conflict reports deterministic
	for _, id := range []string{"pottery", "choir", "chemistry", "missing"} {
		if children, ok := entries[id]; ok {
			sels = append(sels, map[string]any{"classId": id, "children": children})
		}
	}
	return map[string]any{"selections": sels}
}

func child(first, last string) map[string]string {
	return map[string]string{"firstName": first, "lastName": last}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
}

func TestListClassesSorted(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/classes", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[response.ClassList](t, rr)
	require.Len(t, list.Classes, 3)
	assert.Equal(t, "age_range", list.Sort)
	assert.Equal(t, "asc", list.Direction)
	assert.Equal(t, []string{"pottery", "choir", "chemistry"}, classIDs(list.Classes))

	rr = ts.request(http.MethodGet, "/api/v1/classes?sort=period&dir=desc", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list = decode[response.ClassList](t, rr)
	assert.Equal(t, "chemistry", list.Classes[0].ID)
	assert.Equal(t, "desc", list.Direction)
}

func classIDs(classes []response.Class) []string {
	out := make([]string, len(classes))
	for i, c := range classes {
		out[i] = c.ID
	}
	return out
}

func TestGetClass(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/classes/pottery", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	class := decode[response.Class](t, rr)
	assert.Equal(t, "Pottery", class.Name)
	assert.Equal(t, "PaintBrushIcon", class.Icon)
	assert.Equal(t, "Ms. Clay", class.Instructor)

	rr = ts.request(http.MethodGet, "/api/v1/classes/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	errResp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, apierr.CodeClassNotFound, errResp.Error.Code)
}

func TestCheckRegistration(t *testing.T) {
	ts := newTestServer(t)

	body := selection(map[string][]map[string]string{
		"pottery":   {child("Alice", "Smith")},
		"chemistry": {child("alice", "smith")},
	})
	rr := ts.request(http.MethodPost, "/api/v1/registrations/check", body, "")
	require.Equal(t, http.StatusOK, rr.Code)
	check := decode[response.CheckResponse](t, rr)
	assert.True(t, check.OK)
	assert.True(t, check.CanSubmit)
	assert.Empty(t, check.Conflict)
}

func TestCheckRegistrationConflict(t *testing.T) {
	ts := newTestServer(t)

	body := selection(map[string][]map[string]string{
		"pottery": {child("Alice", "Smith")},
		"choir":   {child("  alice ", "SMITH")},
	})
	rr := ts.request(http.MethodPost, "/api/v1/registrations/check", body, "")
	require.Equal(t, http.StatusOK, rr.Code)
	check := decode[response.CheckResponse](t, rr)
	assert.False(t, check.OK)
	assert.False(t, check.CanSubmit)
	assert.Contains(t, check.Conflict, "Alice Smith")
	assert.Contains(t, check.Conflict, "1st period")
}

func TestCheckIncompleteRowsCannotSubmit(t *testing.T) {
	ts := newTestServer(t)

	body := selection(map[string][]map[string]string{
		"pottery": {child("Alice", "")},
	})
	rr := ts.request(http.MethodPost, "/api/v1/registrations/check", body, "")
	require.Equal(t, http.StatusOK, rr.Code)
	check := decode[response.CheckResponse](t, rr)
	assert.True(t, check.OK)
	assert.False(t, check.CanSubmit)
}

func TestCheckRejectsInvalidBody(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/registrations/check", map[string]any{"selections": []any{}}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	errResp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, apierr.CodeInvalidRequest, errResp.Error.Code)

	rr = ts.request(http.MethodPost, "/api/v1/registrations/check", map[string]any{
		"selections": []any{map[string]any{"classId": "  ", "children": []any{}}},
	}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSubmitRegistration(t *testing.T) {
	ts := newTestServer(t)

	body := selection(map[string][]map[string]string{
		"pottery":   {child("bob", "lee"), child("carl", "YOUNG"), child("", "Ghost")},
		"chemistry": {child("Bob", "Lee")},
	})
	rr := ts.request(http.MethodPost, "/api/v1/registrations", body, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	resp := decode[response.SubmitResponse](t, rr)
	require.Len(t, resp.Summary, 2)
	assert.Equal(t, "pottery", resp.Summary[0].Class.ID)
	require.Len(t, resp.Summary[0].Children, 2)
	assert.Equal(t, "Carl", resp.Summary[0].Children[1].FirstName)
	assert.Equal(t, "Young", resp.Summary[0].Children[1].LastName)

	roster, err := ts.app.Catalog.Roster("pottery")
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "Bob", roster[0].FirstName)
	assert.Equal(t, "Lee", roster[0].LastName)

	doc, err := ts.app.Storage.GetDocument(t.Context(), storage.CollectionRegistrations, "chemistry")
	require.NoError(t, err)
	assert.Contains(t, doc, "children")
}

func TestSubmitIsIdempotent(t *testing.T) {
	ts := newTestServer(t)

	body := selection(map[string][]map[string]string{
		"pottery": {child("Bob", "Lee")},
	})
	rr := ts.request(http.MethodPost, "/api/v1/registrations", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/registrations", body, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	resp := decode[response.SubmitResponse](t, rr)
	assert.Empty(t, resp.Added)

	roster, err := ts.app.Catalog.Roster("pottery")
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestSubmitConflictRejected(t *testing.T) {
	ts := newTestServer(t)

	body := selection(map[string][]map[string]string{
		"pottery": {child("Alice", "Smith")},
		"choir":   {child("Alice", "Smith")},
	})
	rr := ts.request(http.MethodPost, "/api/v1/registrations", body, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	errResp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, apierr.CodeRegistrationConflict, errResp.Error.Code)
	assert.Contains(t, errResp.Error.Message, "Alice Smith")

	roster, err := ts.app.Catalog.Roster("pottery")
	require.NoError(t, err)
	assert.Empty(t, roster)
}

func TestSubmitNothing(t *testing.T) {
	ts := newTestServer(t)

	body := selection(map[string][]map[string]string{
		"pottery": {child("Alice", " ")},
	})
	rr := ts.request(http.MethodPost, "/api/v1/registrations", body, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	errResp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, apierr.CodeNothingToSubmit, errResp.Error.Code)
}

func TestSubmitStoreFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.app.Store.FailWrites(true)

	body := selection(map[string][]map[string]string{
		"pottery": {child("Alice", "Smith")},
	})
	rr := ts.request(http.MethodPost, "/api/v1/registrations", body, "")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	errResp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, apierr.CodeStoreWriteFailed, errResp.Error.Code)
}

func TestAdminLogin(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/admin/login", map[string]string{"password": factory.TestAdminPassword}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	login := decode[response.LoginResponse](t, rr)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, ts.app.MockClock.Now().Add(12*time.Hour), login.ExpiresAt.UTC())

	rr = ts.request(http.MethodPost, "/api/v1/admin/login", map[string]string{"password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	errResp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, apierr.IncorrectPasswordMessage, errResp.Error.Message)

	rr = ts.request(http.MethodPost, "/api/v1/admin/login", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/classes"},
		{http.MethodPatch, "/api/v1/classes/pottery"},
		{http.MethodDelete, "/api/v1/classes/pottery"},
		{http.MethodGet, "/api/v1/classes/pottery/roster"},
		{http.MethodPut, "/api/v1/classes/pottery/roster"},
		{http.MethodGet, "/api/v1/rosters"},
		{http.MethodGet, "/api/v1/rosters/export"},
	}
	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rr := ts.request(route.method, route.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)

			rr = ts.request(route.method, route.path, nil, "garbage")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestCreateUpdateDeleteClass(t *testing.T) {
	ts := newTestServer(t)
	token := ts.app.AdminToken()

	rr := ts.request(http.MethodPost, "/api/v1/classes", nil, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[response.Class](t, rr)
	assert.False(t, model.ClassID(created.ID).IsTemp())
	assert.Equal(t, model.DefaultNewClassName, created.Name)
	assert.Equal(t, "K-2", created.AgeRange)

	path := "/api/v1/classes/" + created.ID
	rr = ts.request(http.MethodPatch, path, map[string]string{"field": "instructor", "value": "mr. jones"}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[response.Class](t, rr)
	assert.Equal(t, "Mr. Jones", updated.Instructor)

	rr = ts.request(http.MethodPatch, path, map[string]string{"field": "period", "value": "4th"}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	errResp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, apierr.CodeInvalidField, errResp.Error.Code)

	rr = ts.request(http.MethodPatch, path, map[string]string{"field": "colour", "value": "red"}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdatePeriodClearsConflict(t *testing.T) {
	ts := newTestServer(t)
	token := ts.app.AdminToken()

	body := selection(map[string][]map[string]string{
		"pottery": {child("Alice", "Smith")},
		"choir":   {child("Alice", "Smith")},
	})
	rr := ts.request(http.MethodPost, "/api/v1/registrations/check", body, "")
	require.False(t, decode[response.CheckResponse](t, rr).OK)

	rr = ts.request(http.MethodPatch, "/api/v1/classes/choir", map[string]string{"field": "period", "value": "2nd"}, token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/registrations/check", body, "")
	assert.True(t, decode[response.CheckResponse](t, rr).OK)
}

func TestUpdateStoreFailureRollsBack(t *testing.T) {
	ts := newTestServer(t)
	token := ts.app.AdminToken()
	ts.app.Store.FailWrites(true)

	rr := ts.request(http.MethodPatch, "/api/v1/classes/pottery", map[string]string{"field": "name", "value": "Clay"}, token)
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	class, err := ts.app.Catalog.Class("pottery")
	require.NoError(t, err)
	assert.Equal(t, "Pottery", class.Name)
}

func TestRosterEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := ts.app.AdminToken()

	rr := ts.request(http.MethodPut, "/api/v1/classes/pottery/roster", map[string]any{
		"children": []map[string]string{child("dana", "scully"), child("Fox", "")},
	}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	roster := decode[response.Roster](t, rr)
	require.Len(t, roster.Children, 2)
	assert.Equal(t, "Dana", roster.Children[0].FirstName)
	assert.NotEmpty(t, roster.Children[0].ID)

	rr = ts.request(http.MethodGet, "/api/v1/classes/pottery/roster", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.Roster](t, rr).Children, 2)

	rr = ts.request(http.MethodGet, "/api/v1/rosters", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[response.RosterList](t, rr)
	assert.Len(t, list.Rosters, 3)

	rr = ts.request(http.MethodGet, "/api/v1/classes/nope/roster", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRosterExport(t *testing.T) {
	ts := newTestServer(t)
	token := ts.app.AdminToken()

	body := selection(map[string][]map[string]string{
		"pottery": {child("Bob", "Lee")},
	})
	require.Equal(t, http.StatusCreated, ts.request(http.MethodPost, "/api/v1/registrations", body, "").Code)

	rr := ts.request(http.MethodGet, "/api/v1/rosters/export", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "attachment; filename=rosters-2024-01-01.csv", rr.Header().Get("Content-Disposition"))
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/csv")

	r := csv.NewReader(bytes.NewReader(rr.Body.Bytes()))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Contains(t, rr.Body.String(), "Bob")
	assert.Equal(t, "Commission Cooperative Rosters - 2024-01-01", records[len(records)-1][0])
}

func TestListRoutesReloadCatalog(t *testing.T) {
	ts := newTestServer(t)
	token := ts.app.AdminToken()
	ts.app.Store.FailReads(true)

	for _, path := range []string{"/api/v1/classes", "/api/v1/rosters", "/api/v1/rosters/export"} {
		rr := ts.request(http.MethodGet, path, nil, token)
		require.Equal(t, http.StatusBadGateway, rr.Code, path)
		assert.Equal(t, apierr.CodeStoreReadFailed, decode[apierr.ErrorResponse](t, rr).Error.Code, path)
	}

	// The last loaded classes are still served by id
	assert.Equal(t, http.StatusOK, ts.request(http.MethodGet, "/api/v1/classes/pottery", nil, "").Code)

	ts.app.Store.FailReads(false)
	require.NoError(t, ts.app.StoreClass(t.Context(), model.ClassInfo{
		ID: "woodwork", Name: "Woodwork", AgeRange: model.AgeRangeGrades68, Period: model.Period3rd, Icon: model.IconBookOpen,
	}))

	rr := ts.request(http.MethodGet, "/api/v1/classes", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[response.ClassList](t, rr)
	assert.Equal(t, []string{"pottery", "choir", "woodwork", "chemistry"}, classIDs(list.Classes))
}
