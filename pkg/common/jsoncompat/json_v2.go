//go:build jsonv2

package jsoncompat

import (
	"io"

	json "encoding/json/v2"
	"encoding/json/jsontext"
)

// Name identifies the active json implementation.
const Name = "encoding/json/v2"

// Marshal proxies to encoding/json/v2 Marshal when jsonv2 build tag is present.
func Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal proxies to encoding/json/v2 Unmarshal when jsonv2 build tag is present.
func Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type v2Encoder struct{ enc *jsontext.Encoder }

func (e v2Encoder) Encode(v any) error { return json.MarshalEncode(e.enc, v) }

type v2Decoder struct{ dec *jsontext.Decoder }

func (d v2Decoder) Decode(v any) error { return json.UnmarshalDecode(d.dec, v) }

func NewEncoder(w io.Writer) Encoder { return v2Encoder{enc: jsontext.NewEncoder(w)} }

func NewDecoder(r io.Reader) Decoder { return v2Decoder{dec: jsontext.NewDecoder(r)} }
