//go:build !jsonv2

package jsoncompat

import (
	"io"

	"github.com/bytedance/sonic"
)

// Name identifies the active json implementation.
const Name = "sonic"

var api = sonic.ConfigStd

// Marshal proxies to sonic when the jsonv2 build tag is absent.
func Marshal(v any) ([]byte, error) { return api.Marshal(v) }

// Unmarshal proxies to sonic when the jsonv2 build tag is absent.
func Unmarshal(data []byte, v any) error { return api.Unmarshal(data, v) }

// NewEncoder returns a streaming encoder writing to w.
func NewEncoder(w io.Writer) Encoder { return api.NewEncoder(w) }

// NewDecoder returns a streaming decoder reading from r.
func NewDecoder(r io.Reader) Decoder { return api.NewDecoder(r) }
