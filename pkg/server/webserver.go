package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matst80/preset-finder/pkg/common"
	"github.com/matst80/preset-finder/pkg/common/jsoncompat"
	"github.com/matst80/preset-finder/pkg/komplete"
	"github.com/matst80/preset-finder/pkg/library"
	"github.com/matst80/preset-finder/pkg/playback"
	"github.com/matst80/preset-finder/pkg/types"
)

var (
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presetfinder_searches_total",
		Help: "The total number of processed preset searches",
	})
	noCatalogQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presetfinder_catalog_queries_total",
		Help: "The total number of processed facet catalog queries",
	})
	noActivations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presetfinder_activations_total",
		Help: "The total number of preset activations",
	})
)

// WebServer exposes the preset library and per-session browse state over HTTP.
type WebServer struct {
	Library  *library.Library
	Cache    *Cache
	Queue    *playback.Queue
	Sessions *SessionStore
	DbFound  bool
}

func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/vendors", catalogEndpoint(ws, types.FacetVendor, ws.Library.Vendors))
	mux.HandleFunc("/api/products", catalogEndpoint(ws, types.FacetProduct, ws.Library.Products))
	mux.HandleFunc("/api/categories", catalogEndpoint(ws, types.FacetCategory, ws.Library.Categories))
	mux.HandleFunc("/api/modes", catalogEndpoint(ws, types.FacetMode, ws.Library.Modes))
	mux.HandleFunc("/api/banks", catalogEndpoint(ws, types.FacetBank, ws.Library.Banks))
	mux.HandleFunc("/api/presets", ws.Search)
	mux.HandleFunc("/api/loading", ws.Loading)
	mux.HandleFunc("/api/db-found", ws.DbStatus)
	mux.HandleFunc("/api/db-path", ws.DbPath)
	mux.HandleFunc("/api/preview", ws.Preview)
	mux.HandleFunc("/api/play", ws.Play)
	if ws.Sessions != nil {
		ws.Sessions.Register(mux)
	}
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// catalogEndpoint serves one facet's reachable values. The queried facet's
// own selection is stripped before asking the library: a facet never filters
// itself.
func catalogEndpoint[T any](ws *WebServer, facet types.Facet, fetch func(ctx context.Context, f *types.Filters) ([]T, error)) http.HandlerFunc {
	return common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		f, err := FiltersFrom(r)
		if err != nil {
			common.WriteError(w, http.StatusBadRequest, err)
			return nil
		}
		f = f.WithoutFacet(facet)
		noCatalogQueries.Inc()

		key := "catalog:" + facet.String() + ":" + f.Key()
		if ws.Cache != nil {
			var cached json.RawMessage
			if ws.Cache.Get(r.Context(), key, &cached) {
				w.WriteHeader(http.StatusOK)
				_, err := w.Write(cached)
				return err
			}
		}

		values, err := fetch(r.Context(), f)
		if err != nil {
			common.WriteError(w, http.StatusInternalServerError, err)
			return nil
		}
		if ws.Cache != nil {
			ws.Cache.Set(r.Context(), key, values)
		}
		w.WriteHeader(http.StatusOK)
		return enc.Encode(values)
	})
}

// Search answers one page of presets for the composed filter + text query.
func (ws *WebServer) Search(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		sr, err := SearchRequestFrom(r)
		if err != nil {
			common.WriteError(w, http.StatusBadRequest, err)
			return nil
		}
		noSearches.Inc()
		page, err := ws.Library.Search(r.Context(), &sr.Filters, sr.Query, sr.Offset, sr.PageSize)
		if err != nil {
			common.WriteError(w, http.StatusInternalServerError, err)
			return nil
		}
		w.WriteHeader(http.StatusOK)
		return enc.Encode(page)
	})(w, r)
}

// Loading is the readiness probe the UI polls until the index is built.
func (ws *WebServer) Loading(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		w.WriteHeader(http.StatusOK)
		return enc.Encode(map[string]bool{"loading": ws.Library.IsLoading()})
	})(w, r)
}

func (ws *WebServer) DbStatus(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		w.WriteHeader(http.StatusOK)
		return enc.Encode(map[string]bool{"found": ws.DbFound})
	})(w, r)
}

func (ws *WebServer) DbPath(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(func(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
		w.WriteHeader(http.StatusOK)
		return enc.Encode(map[string]string{"path": komplete.DefaultDatabasePath()})
	})(w, r)
}

func (ws *WebServer) presetFromRequest(r *http.Request) (*types.Preset, error) {
	id, err := strconv.ParseUint(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	p, ok := ws.Library.Preset(uint(id))
	if !ok {
		return nil, errUnknownPreset
	}
	return p, nil
}

var errUnknownPreset = errors.New("unknown preset")

// Preview streams the preset's preview audio file when one can be resolved.
func (ws *WebServer) Preview(w http.ResponseWriter, r *http.Request) {
	p, err := ws.presetFromRequest(r)
	if err != nil {
		common.WriteError(w, http.StatusNotFound, err)
		return
	}
	product, _ := ws.Library.Product(p.ProductId)
	path, ok := komplete.PreviewPath(p, product)
	if !ok {
		common.WriteError(w, http.StatusNotFound, errNoPreview)
		return
	}
	http.ServeFile(w, r, path)
}

var errNoPreview = errors.New("no preview available")

// Play fires the activation side effect for a preset.
func (ws *WebServer) Play(w http.ResponseWriter, r *http.Request) {
	p, err := ws.presetFromRequest(r)
	if err != nil {
		common.WriteError(w, http.StatusNotFound, err)
		return
	}
	noActivations.Inc()
	if ws.Queue != nil {
		ws.Queue.Activate(p)
	}
	w.WriteHeader(http.StatusAccepted)
}
