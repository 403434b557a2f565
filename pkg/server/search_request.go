package server

import (
	"io"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/matst80/preset-finder/pkg/common/jsoncompat"
	"github.com/matst80/preset-finder/pkg/types"
)

// SearchRequest is the wire form of one preset query: repeated facet params
// (vendor=, product=, category=, mode=, bank=), free text and a page cursor.
type SearchRequest struct {
	types.Filters
	Query    string `json:"query" schema:"q"`
	Offset   int    `json:"offset" schema:"offset"`
	PageSize int    `json:"pageSize" schema:"size"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func (s *SearchRequest) Sanitize() {
	s.Offset = clamp(s.Offset, 0, 1<<30)
	if s.PageSize == 0 {
		s.PageSize = 50
	}
	s.PageSize = clamp(s.PageSize, 1, 1000)
	s.Filters.Normalize()
}

// SearchRequestFrom decodes a request from query parameters on GET and from
// a JSON body otherwise.
func SearchRequestFrom(r *http.Request) (*SearchRequest, error) {
	sr := &SearchRequest{}
	var err error
	if r.Method == http.MethodGet {
		err = decoder.Decode(sr, r.URL.Query())
	} else {
		var body []byte
		body, err = readBody(r)
		if err == nil {
			err = jsoncompat.Unmarshal(body, sr)
		}
	}
	if err != nil {
		return nil, err
	}
	sr.Sanitize()
	return sr, nil
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

// FiltersFrom decodes just the facet filters, used by the catalog endpoints.
func FiltersFrom(r *http.Request) (*types.Filters, error) {
	f := &types.Filters{}
	if err := decoder.Decode(f, r.URL.Query()); err != nil {
		return nil, err
	}
	f.Normalize()
	return f, nil
}
