package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Use it when output must be byte-for-byte what encoding/json produces
// (e.g. for golden files); otherwise Default is faster.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used for run summaries.
var Default Codec = GoJSON{}
