package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Transaction
		wantErr bool
	}{
		{
			name: "all typed fields",
			body: `{"txn_id":"t-1","amount":100,"network_latency_ms":50,"psp_candidate":"HDFC_PSP"}`,
			want: Transaction{ID: "t-1", Amount: 100, NetworkLatencyMs: 50, PSPCandidate: "HDFC_PSP"},
		},
		{
			name: "latency defaults when absent",
			body: `{"amount":10}`,
			want: Transaction{Amount: 10, NetworkLatencyMs: DefaultNetworkLatencyMs},
		},
		{
			name: "null latency defaults",
			body: `{"amount":10,"network_latency_ms":null}`,
			want: Transaction{Amount: 10, NetworkLatencyMs: DefaultNetworkLatencyMs},
		},
		{
			name: "numeric strings are coerced",
			body: `{"amount":"250.5","network_latency_ms":" 80 "}`,
			want: Transaction{Amount: 250.5, NetworkLatencyMs: 80},
		},
		{
			name: "malformed numbers fall back to defaults",
			body: `{"amount":"lots","network_latency_ms":true}`,
			want: Transaction{Amount: 0, NetworkLatencyMs: DefaultNetworkLatencyMs},
		},
		{
			name: "explicit zero latency is kept",
			body: `{"network_latency_ms":0}`,
			want: Transaction{NetworkLatencyMs: 0},
		},
		{
			name: "numeric id is kept as text",
			body: `{"txn_id":42}`,
			want: Transaction{ID: "42", NetworkLatencyMs: DefaultNetworkLatencyMs},
		},
		{
			name: "null body is an empty transaction",
			body: `null`,
			want: Transaction{NetworkLatencyMs: DefaultNetworkLatencyMs},
		},
		{
			name:    "array body is rejected",
			body:    `[1,2]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var txn Transaction
			err := json.Unmarshal([]byte(tt.body), &txn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, txn)
		})
	}
}

func TestTransaction_FeaturesPassThrough(t *testing.T) {
	body := `{"amount":1200,"app":"PhonePe","hour":19,"recent_fail_rate_src_dest_5m":0.07}`

	var txn Transaction
	require.NoError(t, json.Unmarshal([]byte(body), &txn))
	require.Len(t, txn.Features, 3)

	var hour int
	assert.True(t, txn.Feature("hour", &hour))
	assert.Equal(t, 19, hour)
	assert.False(t, txn.Feature("device_type", &hour))

	out, err := json.Marshal(txn.WithID(func() string { return "txn-x" }))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "PhonePe", decoded["app"])
	assert.Equal(t, float64(19), decoded["hour"])
	assert.Equal(t, 0.07, decoded["recent_fail_rate_src_dest_5m"])
	assert.Equal(t, "txn-x", decoded["txn_id"])
	assert.Equal(t, float64(1200), decoded["amount"])
	assert.Equal(t, float64(100), decoded["network_latency_ms"])
	assert.NotContains(t, decoded, "psp_candidate")
}

func TestTransaction_WithID(t *testing.T) {
	calls := 0
	gen := func() string {
		calls++
		return "generated"
	}

	assigned := Transaction{}.WithID(gen)
	assert.Equal(t, "generated", assigned.ID)

	kept := Transaction{ID: "given"}.WithID(gen)
	assert.Equal(t, "given", kept.ID)
	assert.Equal(t, 1, calls)

	again := assigned.WithID(gen)
	assert.Equal(t, "generated", again.ID)
	assert.Equal(t, 1, calls)
}

func TestTransaction_WithDefaultProvider(t *testing.T) {
	assert.Equal(t, "Axis_PSP", Transaction{}.WithDefaultProvider("Axis_PSP").PSPCandidate)
	assert.Equal(t, "SBI_PSP", Transaction{PSPCandidate: "SBI_PSP"}.WithDefaultProvider("Axis_PSP").PSPCandidate)
}

func TestNewTransactionID(t *testing.T) {
	a := NewTransactionID()
	b := NewTransactionID()
	assert.True(t, strings.HasPrefix(a, TransactionIDPrefix))
	assert.NotEqual(t, a, b)
}

func TestProviderResponse_JSON(t *testing.T) {
	t.Run("error response carries only the error", func(t *testing.T) {
		resp := NewProviderErrorResponse(errors.New("psp_unreachable"))
		assert.True(t, resp.Failed())

		out, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{"error":"psp_unreachable"}`, string(out))
	})

	t.Run("zero probability is still reported", func(t *testing.T) {
		p := 0.0
		resp := ProviderResponse{TxnID: "t", Status: PaymentStatusSuccess, FailureProbability: &p}
		assert.False(t, resp.Failed())

		out, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{"txn_id":"t","status":"success","psp_fail_prob":0}`, string(out))
	})
}

func TestPaymentStatus_IsValid(t *testing.T) {
	assert.True(t, PaymentStatusSuccess.IsValid())
	assert.True(t, PaymentStatusFailure.IsValid())
	assert.False(t, PaymentStatus("pending").IsValid())
	assert.False(t, PaymentStatus("").IsValid())
}
