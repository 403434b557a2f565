// Package jsoncompat lets the JSON implementation be swapped at build time:
// the standard library by default, bytedance/sonic with the sonic build tag.
package jsoncompat

// Encoder is the stream-encoding surface shared by both implementations.
type Encoder interface {
	Encode(v any) error
}
