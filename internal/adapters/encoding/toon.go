// Package encoding provides output serialization adapters: JSON for
// machine-readable records and TOON (token-optimized object notation)
// for compact LLM-facing summaries of graph, change-set, and compliance
// data.
package encoding

import (
	"encoding/json"

	"github.com/toon-format/toon-go"

	"github.com/pmp-io/pmp/internal/core/usecases"
)

// Ensure Encoder implements usecases.OutputEncoder.
var _ usecases.OutputEncoder = (*Encoder)(nil)

// Encoder provides JSON and TOON encoding/decoding for CLI output.
type Encoder struct{}

// NewEncoder creates a new Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

func (e *Encoder) EncodeJSON(value any) ([]byte, error) {
	return json.Marshal(value)
}

func (e *Encoder) DecodeJSON(data []byte, value any) error {
	return json.Unmarshal(data, value)
}

// EncodeTOON serializes value using the TOON format.
func (e *Encoder) EncodeTOON(value any) ([]byte, error) {
	return toon.Marshal(value)
}

// DecodeTOON deserializes TOON-encoded data into value.
func (e *Encoder) DecodeTOON(data []byte, value any) error {
	return toon.Unmarshal(data, value)
}
