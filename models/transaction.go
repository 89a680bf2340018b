package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	// DefaultNetworkLatencyMs is used when a transaction omits network_latency_ms
	// or carries a value that cannot be read as a number.
	DefaultNetworkLatencyMs = 100.0

	// TransactionIDPrefix prefixes identifiers generated by the router
	TransactionIDPrefix = "txn-"
)

// Transaction is a payment transaction as received by the router or a PSP.
//
// Only the fields the routing pipeline reads are typed. Every other inbound
// field (app, src_bank, hour, recent_fail_rate_src_dest_5m, ...) is kept in
// Features and written back out unchanged, so downstream scorers and PSPs see
// the record as it was submitted. Transaction is passed by value and must not
// be mutated once it enters the pipeline; Features is shared between copies.
type Transaction struct {
	ID               string  `json:"txn_id,omitempty" validate:"max=128"`
	Amount           float64 `json:"amount" validate:"gte=0"`
	NetworkLatencyMs float64 `json:"network_latency_ms" validate:"gte=0"`
	PSPCandidate     string  `json:"psp_candidate,omitempty" validate:"max=64"`

	Features map[string]json.RawMessage `json:"-" validate:"-"`
}

// NewTransactionID generates a transaction identifier
func NewTransactionID() string {
	return TransactionIDPrefix + uuid.NewString()
}

// WithID returns a copy carrying an identifier. An existing identifier is
// never replaced.
func (t Transaction) WithID(generate func() string) Transaction {
	if t.ID == "" {
		t.ID = generate()
	}
	return t
}

// WithDefaultProvider returns a copy whose PSPCandidate falls back to the given
// provider when the transaction did not name one.
func (t Transaction) WithDefaultProvider(provider string) Transaction {
	if t.PSPCandidate == "" {
		t.PSPCandidate = provider
	}
	return t
}

// UnmarshalJSON reads a transaction leniently: numeric fields that are missing,
// null, or not parseable are coerced to their defaults instead of failing.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Transaction{NetworkLatencyMs: DefaultNetworkLatencyMs}
	for key, value := range raw {
		switch key {
		case "txn_id":
			out.ID = coerceString(value)
		case "amount":
			out.Amount = coerceNumber(value, 0)
		case "network_latency_ms":
			out.NetworkLatencyMs = coerceNumber(value, DefaultNetworkLatencyMs)
		case "psp_candidate":
			out.PSPCandidate = coerceString(value)
		default:
			if out.Features == nil {
				out.Features = make(map[string]json.RawMessage)
			}
			out.Features[key] = append(json.RawMessage(nil), value...)
		}
	}

	*t = out
	return nil
}

// MarshalJSON writes the typed fields together with the pass-through features
func (t Transaction) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(t.Features)+4)
	for key, value := range t.Features {
		out[key] = value
	}
	if t.ID != "" {
		out["txn_id"] = t.ID
	}
	out["amount"] = t.Amount
	out["network_latency_ms"] = t.NetworkLatencyMs
	if t.PSPCandidate != "" {
		out["psp_candidate"] = t.PSPCandidate
	}
	return json.Marshal(out)
}

// Feature decodes a pass-through feature into dst. It reports false when the
// feature is absent or does not decode.
func (t Transaction) Feature(name string, dst interface{}) bool {
	raw, ok := t.Features[name]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func coerceNumber(raw json.RawMessage, def float64) float64 {
	if isNull(raw) {
		return def
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
			return n
		}
	}

	return def
}

func coerceString(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return ""
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || strings.TrimSpace(string(raw)) == "null"
}
