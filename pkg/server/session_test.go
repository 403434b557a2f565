package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matst80/preset-finder/pkg/browser"
	"github.com/matst80/preset-finder/pkg/library"
)

// sessionClient replays the session cookie across requests the way a browser
// would.
type sessionClient struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newSessionClient(t *testing.T, lib *library.Library) *sessionClient {
	ws := &WebServer{
		Library:  lib,
		Sessions: NewSessionStore(lib, nil, browser.DefaultPageSize),
	}
	return &sessionClient{t: t, handler: ws.Handler()}
}

func (c *sessionClient) do(method, url string) *httptest.ResponseRecorder {
	c.t.Helper()
	r := httptest.NewRequest(method, url, nil)
	for _, cookie := range c.cookies {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, r)
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}
	return w
}

func (c *sessionClient) get(url string, out any) {
	c.t.Helper()
	w := c.do("GET", url)
	if w.Code != http.StatusOK {
		c.t.Fatalf("GET %s: status %d, body %s", url, w.Code, w.Body.String())
	}
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		c.t.Fatalf("GET %s: decode: %v", url, err)
	}
}

func TestSessionNotReadyWhileLoading(t *testing.T) {
	c := newSessionClient(t, library.New())
	w := c.do("GET", "/api/session/results")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 while the library loads, got %d", w.Code)
	}
}

func TestSessionFilterFlow(t *testing.T) {
	c := newSessionClient(t, testLibrary())

	var results resultsResponse
	c.get("/api/session/results", &results)
	if results.Total != 3 {
		t.Fatalf("expected all 3 presets initially, got %d", results.Total)
	}

	var pending pendingResponse
	c.get("/api/session/open?facet=vendor", &pending)
	if !pending.Open || pending.Facet != "vendor" {
		t.Errorf("expected an open vendor editor, got %+v", pending)
	}
	c.get("/api/session/toggle?facet=vendor&vendor=Acme", &pending)
	if len(pending.Vendors) != 1 || pending.Vendors[0] != "Acme" {
		t.Errorf("expected Acme pending, got %v", pending.Vendors)
	}
	c.get("/api/session/confirm?facet=vendor", &results)
	if results.Total != 2 {
		t.Errorf("expected 2 Acme presets after confirm, got %d", results.Total)
	}

	// catalogs exclude the facet's own selection
	var catalogs browser.Catalogs
	c.get("/api/session/catalogs", &catalogs)
	if len(catalogs.Vendors) != 2 {
		t.Errorf("expected the full vendor catalog, got %v", catalogs.Vendors)
	}
	if len(catalogs.Categories) != 2 {
		t.Errorf("expected Acme-reachable categories, got %d", len(catalogs.Categories))
	}
}

func TestSessionCancelKeepsResults(t *testing.T) {
	c := newSessionClient(t, testLibrary())

	var results resultsResponse
	c.get("/api/session/results", &results)

	var pending pendingResponse
	c.get("/api/session/open?facet=vendor", &pending)
	c.get("/api/session/toggle?facet=vendor&vendor=Umbra", &pending)
	c.do("GET", "/api/session/cancel?facet=vendor")

	c.get("/api/session/results", &results)
	if results.Total != 3 {
		t.Errorf("expected cancel to leave results untouched, got %d", results.Total)
	}
	c.get("/api/session/pending?facet=vendor", &pending)
	if pending.Open {
		t.Errorf("expected the editor to be closed after cancel")
	}
}

func TestSessionQueryNarrowsResults(t *testing.T) {
	c := newSessionClient(t, testLibrary())

	var results resultsResponse
	c.get("/api/session/query?q=pad", &results)
	if results.Total != 2 {
		t.Errorf("expected 2 pads, got %d", results.Total)
	}
	c.get("/api/session/query?q=", &results)
	if results.Total != 3 {
		t.Errorf("expected clearing the query to restore all presets, got %d", results.Total)
	}
}

func TestSessionSelect(t *testing.T) {
	c := newSessionClient(t, testLibrary())

	var results resultsResponse
	c.get("/api/session/results", &results)

	var view browser.DetailView
	c.get("/api/session/select?id=1", &view)
	if view.Name != "Deep Bass" || view.Vendor != "Acme" {
		t.Errorf("unexpected detail view: %+v", view)
	}
	if view.Bank != "Factory" {
		t.Errorf("expected the bank name, got %q", view.Bank)
	}
	if view.Categories != "Bass" || view.Modes != "Arp" {
		t.Errorf("unexpected projections: %q / %q", view.Categories, view.Modes)
	}

	w := c.do("GET", "/api/session/select?id=999")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a preset outside the results, got %d", w.Code)
	}
}

func TestSessionSelectNoBank(t *testing.T) {
	c := newSessionClient(t, testLibrary())

	var results resultsResponse
	c.get("/api/session/results", &results)

	var view browser.DetailView
	c.get("/api/session/select?id=2", &view)
	if view.Bank != browser.NoBankLabel {
		t.Errorf("expected %q, got %q", browser.NoBankLabel, view.Bank)
	}
}

func TestSessionUnknownFacet(t *testing.T) {
	c := newSessionClient(t, testLibrary())
	// establish the session first
	var results resultsResponse
	c.get("/api/session/results", &results)

	w := c.do("GET", "/api/session/open?facet=flavor")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown facet, got %d", w.Code)
	}
}
