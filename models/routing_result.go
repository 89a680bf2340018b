package models

// PaymentStatus is the settlement outcome reported by a PSP
type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailure PaymentStatus = "failure"
)

// IsValid reports whether the status is one a PSP may return
func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailure
}

// ProviderResponse is what a PSP returned for a dispatched transaction, or the
// reason it could not be reached. Exactly one of Status and Error is set.
type ProviderResponse struct {
	TxnID              string        `json:"txn_id,omitempty"`
	Status             PaymentStatus `json:"status,omitempty"`
	FailureProbability *float64      `json:"psp_fail_prob,omitempty"`
	Error              string        `json:"error,omitempty"`
}

// NewProviderErrorResponse records a dispatch failure
func NewProviderErrorResponse(err error) ProviderResponse {
	return ProviderResponse{Error: err.Error()}
}

// Failed reports whether the dispatch itself failed (as opposed to the PSP
// declining the payment)
func (r ProviderResponse) Failed() bool {
	return r.Error != ""
}

// RoutingResult is the record returned for every routed transaction
type RoutingResult struct {
	TxnID                       string           `json:"txn_id"`
	PredictedFailureProbability float64          `json:"predicted_fail_prob"`
	ScoreFallback               bool             `json:"score_fallback"`
	InitialProvider             string           `json:"initial_psp"`
	ChosenProvider              string           `json:"routed_to"`
	ProviderResponse            ProviderResponse `json:"psp_response"`
}
