//go:build !sonic

package jsoncompat

import (
	"encoding/json"
	"io"
)

// Marshal proxies to the standard library json.Marshal when the sonic build tag is absent.
func Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal proxies to the standard library json.Unmarshal when the sonic build tag is absent.
func Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// NewEncoder proxies to the standard library encoder when the sonic build tag is absent.
func NewEncoder(w io.Writer) Encoder { return json.NewEncoder(w) }
