package web_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/classreg/internal/factory"
	"github.com/mcoot/classreg/internal/web"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	cookies *cookieJar
}

// newWebTestServer creates a new test server seeded with the test classes
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()
	return newWebTestServerWithCSRF(t, nil)
}

func newWebTestServerWithCSRF(t *testing.T, csrfKey []byte) *webTestServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := factory.NewTestApp()
	require.NoError(t, app.SeedTestClasses(t.Context()))

	router := web.NewRouter(web.RouterConfig{
		Logger:       logger,
		Catalog:      app.Catalog,
		Sessions:     app.Sessions,
		AdminService: app.Admin,
		Clock:        app.MockClock,
		CSRFKey:      csrfKey,
		BaseURL:      "https://classes.example.org",
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

// post makes a POST request with form data
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return ts.request(http.MethodPost, path, form)
}

// page fetches a page, requires a 200 and parses it
func (ts *webTestServer) page(path string) *goquery.Document {
	ts.t.Helper()
	rr := ts.get(path)
	require.Equal(ts.t, http.StatusOK, rr.Code, rr.Body.String())
	return parseHTML(rr.Body)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// Helper functions for common test operations

// addChild adds a row to a class and fills in the names, returning the row id
func (ts *webTestServer) addChild(classID, firstName, lastName string) string {
	ts.t.Helper()

	rr := ts.post("/classes/"+classID+"/children", nil)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after adding child")
	location := rr.Header().Get("Location")
	_, childID, ok := strings.Cut(location, "#child-")
	require.True(ts.t, ok, "Expected redirect to the new row, got %q", location)

	rr = ts.post("/classes/"+classID+"/children/"+childID, url.Values{
		"firstName": {firstName},
		"lastName":  {lastName},
	})
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after saving child")
	return childID
}

// loginAdmin logs the jar in to the admin pages
func (ts *webTestServer) loginAdmin() {
	ts.t.Helper()
	rr := ts.post("/admin/login", url.Values{"password": {factory.TestAdminPassword}})
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after admin login")
	require.Equal(ts.t, "/admin", rr.Header().Get("Location"))
}

// cardIDs lists the class card ids on a page, in order
func cardIDs(doc *goquery.Document) []string {
	var ids []string
	doc.Find(".class-card").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		ids = append(ids, strings.TrimPrefix(id, "class-"))
	})
	return ids
}

// flash returns the flash message text on a page
func flash(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find(".flash").Text())
}
