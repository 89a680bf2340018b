// Package datagen produces synthetic UPI transactions labelled with an
// outcome, for training and evaluating risk scorers.
//
// Each row picks a PSP, draws transaction features, computes the PSP's
// failure probability from the failure model plus a congestion term driven by
// the recent failure rate, and draws the outcome from that probability.
package datagen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"
	"github.com/upb/psp-router/models"
	"github.com/upb/psp-router/services/failuremodel"
)

const (
	// congestionWeight scales the recent failure rate into the failure probability
	congestionWeight = 0.2

	// maxFailureProbability caps the labelled failure probability
	maxFailureProbability = 0.95
)

// Columns is the CSV header, in output order
var Columns = []string{
	"txn_id", "app", "psp_candidate", "src_bank", "dest_bank", "amount",
	"channel", "device_type", "network_latency_ms", "hour", "weekday",
	"recent_fail_rate_src_dest_5m", "psp_success_rate_5m", "status",
}

// PSP is a provider with its baseline failure rate
type PSP struct {
	Name     string
	BaseFail float64
}

// DefaultPSPs are the providers rows are spread across
var DefaultPSPs = []PSP{
	{Name: "Axis_PSP", BaseFail: 0.045},
	{Name: "HDFC_PSP", BaseFail: 0.02},
	{Name: "SBI_PSP", BaseFail: 0.03},
}

var (
	apps    = []string{"GooglePay", "PhonePe", "Paytm"}
	banks   = []string{"SBI", "HDFC", "ICICI", "Axis", "YesBank"}
	devices = []string{"Android", "iOS"}
)

// Row is one labelled synthetic transaction
type Row struct {
	TxnID            string
	App              string
	PSPCandidate     string
	SrcBank          string
	DestBank         string
	Amount           int
	Channel          string
	DeviceType       string
	NetworkLatencyMs int
	Hour             int
	Weekday          int
	RecentFailRate   float64
	PSPSuccessRate   float64
	Status           models.PaymentStatus
}

// Record renders the row in Columns order
func (r Row) Record() []string {
	return []string{
		r.TxnID,
		r.App,
		r.PSPCandidate,
		r.SrcBank,
		r.DestBank,
		strconv.Itoa(r.Amount),
		r.Channel,
		r.DeviceType,
		strconv.Itoa(r.NetworkLatencyMs),
		strconv.Itoa(r.Hour),
		strconv.Itoa(r.Weekday),
		strconv.FormatFloat(r.RecentFailRate, 'f', -1, 64),
		strconv.FormatFloat(r.PSPSuccessRate, 'f', -1, 64),
		string(r.Status),
	}
}

// Generator draws rows. It is not safe for concurrent use.
type Generator struct {
	rng    *rand.Rand
	psps   []PSP
	models []*failuremodel.Model
	newID  func() string
}

// NewGenerator creates a generator over psps. A non-zero seed makes the
// output reproducible, transaction ids included.
func NewGenerator(psps []PSP, seed uint64) (*Generator, error) {
	if len(psps) == 0 {
		return nil, fmt.Errorf("at least one PSP is required")
	}

	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x6a09e667f3bcc909))

	g := &Generator{rng: rng, psps: psps}
	for _, p := range psps {
		params := failuremodel.DefaultParameters()
		params.Baseline = p.BaseFail
		if err := params.Validate(); err != nil {
			return nil, fmt.Errorf("PSP %q: %w", p.Name, err)
		}
		// The generator's own stream drives outcome draws so one seed fixes every column
		g.models = append(g.models, failuremodel.New(params, rng))
	}

	g.newID = func() string {
		id, err := uuid.NewRandomFromReader(rngReader{rng})
		if err != nil {
			return uuid.NewString()
		}
		return id.String()
	}

	return g, nil
}

// Next draws one row
func (g *Generator) Next() Row {
	i := g.rng.IntN(len(g.psps))
	psp, model := g.psps[i], g.models[i]

	row := Row{
		TxnID:        g.newID(),
		PSPCandidate: psp.Name,
		SrcBank:      pick(g.rng, banks),
		DestBank:     pick(g.rng, banks),
		Channel:      "UPI",
	}
	row.Amount = max(10, int(math.Abs(g.normal(1200, 800))))
	row.Hour = g.rng.IntN(24)
	row.Weekday = g.rng.IntN(7)
	row.DeviceType = pick(g.rng, devices)
	row.NetworkLatencyMs = max(20, int(math.Abs(g.normal(150, 80))))

	recent := g.rng.Float64() * 0.1
	if row.Hour >= 18 && row.Hour <= 20 {
		recent += 0.05
	}
	recent = math.Min(0.5, recent)

	success := 1 - psp.BaseFail + g.normal(0, 0.005)

	p := model.Probability(float64(row.Amount), float64(row.NetworkLatencyMs)) + congestionWeight*recent
	p = math.Min(maxFailureProbability, math.Max(0, p))
	row.Status = model.SampleOutcome(p)

	row.App = pick(g.rng, apps)
	row.RecentFailRate = round(recent, 3)
	row.PSPSuccessRate = round(success, 3)
	return row
}

func (g *Generator) normal(mean, stddev float64) float64 {
	return g.rng.NormFloat64()*stddev + mean
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

func round(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(v*scale) / scale
}

// rngReader feeds uuid generation from the generator's stream
type rngReader struct {
	rng *rand.Rand
}

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}
