package server

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/matst80/preset-finder/pkg/browser"
	"github.com/matst80/preset-finder/pkg/common"
	"github.com/matst80/preset-finder/pkg/common/jsoncompat"
	"github.com/matst80/preset-finder/pkg/types"
)

const sessionCookie = "pfsid"

var errNotReady = errors.New("library is still loading")

// SessionStore keeps one browse engine per client session, identified by a
// cookie. Each engine owns its committed/pending selections, text query and
// accumulated results.
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*browser.Browser
	provider  browser.Provider
	activator browser.Activator
	pageSize  int
}

func NewSessionStore(provider browser.Provider, activator browser.Activator, pageSize int) *SessionStore {
	return &SessionStore{
		sessions:  make(map[string]*browser.Browser),
		provider:  provider,
		activator: activator,
		pageSize:  pageSize,
	}
}

func (s *SessionStore) browserFor(w http.ResponseWriter, r *http.Request) (*browser.Browser, error) {
	id := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}
	if id == "" {
		id = uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	s.mu.Lock()
	b, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		return b, nil
	}

	if loading, err := s.provider.Loading(r.Context()); err != nil || loading {
		return nil, errNotReady
	}
	b = browser.New(s.provider, browser.Config{
		PageSize:  s.pageSize,
		Activator: s.activator,
	})
	if err := b.Refresh(r.Context()); err != nil {
		return nil, err
	}
	s.mu.Lock()
	if existing, ok := s.sessions[id]; ok {
		b = existing
	} else {
		s.sessions[id] = b
	}
	s.mu.Unlock()
	return b, nil
}

func (s *SessionStore) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/session/catalogs", s.Catalogs)
	mux.HandleFunc("/api/session/results", s.Results)
	mux.HandleFunc("/api/session/more", s.More)
	mux.HandleFunc("/api/session/query", s.Query)
	mux.HandleFunc("/api/session/open", s.Open)
	mux.HandleFunc("/api/session/toggle", s.Toggle)
	mux.HandleFunc("/api/session/clear", s.Clear)
	mux.HandleFunc("/api/session/confirm", s.Confirm)
	mux.HandleFunc("/api/session/cancel", s.Cancel)
	mux.HandleFunc("/api/session/pending", s.Pending)
	mux.HandleFunc("/api/session/select", s.Select)
}

// sessionHandler resolves the session browser and deals with the not-ready
// and failure paths shared by every session endpoint.
func (s *SessionStore) sessionHandler(fn func(b *browser.Browser, w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error) http.HandlerFunc {
	return common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		b, err := s.browserFor(w, r)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, errNotReady) {
				status = http.StatusServiceUnavailable
			}
			common.WriteError(w, status, err)
			return nil
		}
		return fn(b, w, r, enc)
	})
}

func facetFrom(r *http.Request) (types.Facet, error) {
	f, ok := types.FacetFromName(r.URL.Query().Get("facet"))
	if !ok {
		return 0, errors.New("unknown facet")
	}
	return f, nil
}

type resultsResponse struct {
	Results []types.Preset `json:"results"`
	Total   int            `json:"total"`
	HasMore bool           `json:"hasMore"`
}

func (s *SessionStore) Catalogs(w http.ResponseWriter, r *http.Request) {
	s.sessionHandler(func(b *browser.Browser, w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		catalogs := b.Catalogs()
		w.WriteHeader(http.StatusOK)
		return enc.Encode(catalogs)
	})(w, r)
}

func (s *SessionStore) Results(w http.ResponseWriter, r *http.Request) {
	s.sessionHandler(func(b *browser.Browser, w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		results, total, hasMore := b.Results()
		w.WriteHeader(http.StatusOK)
		return enc.Encode(resultsResponse{Results: results, Total: total, HasMore: hasMore})
	})(w, r)
}

// More pages the next chunk into the accumulated results.
func (s *SessionStore) More(w http.ResponseWriter, r *http.Request) {
	s.sessionHandler(func(b *browser.Browser, w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		if err := b.LoadMore(r.Context()); err != nil {
			common.WriteError(w, http.StatusBadGateway, err)
			return nil
		}
		results, total, hasMore := b.Results()
		w.WriteHeader(http.StatusOK)
		return enc.Encode(resultsResponse{Results: results, Total: total, HasMore: hasMore})
	})(w, r)
}

func (s *SessionStore) Query(w http.ResponseWriter, r *http.Request) {
	s.sessionHandler(func(b *browser.Browser, w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		if err := b.SetQuery(r.Context(), r.URL.Query().Get("q")); err != nil {
			common.WriteError(w, http.StatusBadGateway, err)
			return nil
		}
		results, total, hasMore := b.Results()
		w.WriteHeader(http.StatusOK)
		return enc.Encode(resultsResponse{Results: results, Total: total, HasMore: hasMore})
	})(w, r)
}

func (s *SessionStore) Open(w http.ResponseWriter, r *http.Request) {
	s.sessionHandler(func(b *browser.Browser, w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		facet, err := facetFrom(r)
		if err != nil {
			common.WriteError(w, http.StatusBadRequest, err)
			return nil
		}
		b.OpenEditor(facet)
		w.WriteHeader(http.StatusOK)
		return encodePending(b, facet, enc)
	})(w, r)
}

func (s *SessionStore) Toggle(w http.ResponseWriter, r *http.Request) {
	s.sessionHandler(func(b *browser.Browser, w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		facet, err := facetFrom(r)
		if err != nil {
			common.WriteError(w, http.StatusBadRequest, err)
			return nil
		}
		if facet == types.FacetVendor {
			b.ToggleVendor(r.URL.Query().Get("vendor"))
		} else {
			id, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 64)
			if err != nil {
				common.WriteError(w, http.StatusBadRequest, err)
				return nil
			}
			b.Toggle(facet, uint(id))
		}
		w.WriteHeader(http.StatusOK)
		return encodePending(b, facet, enc)
	})(w, r)
}

func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) {
	s.sessionHandler(func(b *browser.Browser, w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		facet, err := facetFrom(r)
		if err != nil {
			common.WriteError(w, http.StatusBadRequest, err)
			return nil
		}
		b.ClearPending(facet)
		w.WriteHeader(http.StatusOK)
		return encodePending(b, facet, enc)
	})(w, r)
}

// Confirm applies the pending edit; the engine refetches catalogs and the
// first result page when the committed state changed.
func (s *SessionStore) Confirm(w http.ResponseWriter, r *http.Request) {
	s.sessionHandler(func(b *browser.Browser, w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		facet, err := facetFrom(r)
		if err != nil {
			common.WriteError(w, http.StatusBadRequest, err)
			return nil
		}
		if err := b.Confirm(r.Context(), facet); err != nil {
			common.WriteError(w, http.StatusBadGateway, err)
			return nil
		}
		results, total, hasMore := b.Results()
		w.WriteHeader(http.StatusOK)
		return enc.Encode(resultsResponse{Results: results, Total: total, HasMore: hasMore})
	})(w, r)
}

func (s *SessionStore) Cancel(w http.ResponseWriter, r *http.Request) {
	s.sessionHandler(func(b *browser.Browser, w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		facet, err := facetFrom(r)
		if err != nil {
			common.WriteError(w, http.StatusBadRequest, err)
			return nil
		}
		b.Cancel(facet)
		w.WriteHeader(http.StatusOK)
		return enc.Encode(map[string]bool{"ok": true})
	})(w, r)
}

func (s *SessionStore) Pending(w http.ResponseWriter, r *http.Request) {
	s.sessionHandler(func(b *browser.Browser, w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		facet, err := facetFrom(r)
		if err != nil {
			common.WriteError(w, http.StatusBadRequest, err)
			return nil
		}
		w.WriteHeader(http.StatusOK)
		return encodePending(b, facet, enc)
	})(w, r)
}

// Select activates a preset from the accumulated results and returns its
// projected detail view.
func (s *SessionStore) Select(w http.ResponseWriter, r *http.Request) {
	s.sessionHandler(func(b *browser.Browser, w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		id, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 64)
		if err != nil {
			common.WriteError(w, http.StatusBadRequest, err)
			return nil
		}
		view, err := b.Select(uint(id))
		if err != nil {
			common.WriteError(w, http.StatusNotFound, err)
			return nil
		}
		noActivations.Inc()
		w.WriteHeader(http.StatusOK)
		return enc.Encode(view)
	})(w, r)
}

type pendingResponse struct {
	Facet   string   `json:"facet"`
	Open    bool     `json:"open"`
	Vendors []string `json:"vendors,omitempty"`
	Ids     []uint   `json:"ids,omitempty"`
}

func encodePending(b *browser.Browser, facet types.Facet, enc jsoncompat.Encoder) error {
	pending := b.Pending(facet)
	return enc.Encode(pendingResponse{
		Facet:   facet.String(),
		Open:    b.EditorOpen(facet),
		Vendors: pending.Names.Sorted(),
		Ids:     pending.Ids.Sorted(),
	})
}
