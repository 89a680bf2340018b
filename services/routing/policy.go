package routing

// DefaultRiskThreshold is the score above which a backup PSP is chosen
const DefaultRiskThreshold = 0.6

// PolicyConfig holds the tunables of the routing policy
type PolicyConfig struct {
	// RiskThreshold: scores strictly above it trigger backup selection
	RiskThreshold float64

	// PreferenceOrder lists PSP names in the order backups are tried
	PreferenceOrder []string
}

// Decision is the routing outcome for one transaction
type Decision struct {
	InitialProvider string
	ChosenProvider  string

	// HighRisk is set when the score exceeded the threshold. The chosen
	// provider can still equal the initial one if no alternative exists.
	HighRisk bool
}

// Policy maps a risk score and a preferred PSP to the PSP to use.
// It is deterministic and has no side effects.
type Policy struct {
	threshold  float64
	preference []string
}

// NewPolicy creates a routing policy
func NewPolicy(cfg PolicyConfig) *Policy {
	preference := make([]string, len(cfg.PreferenceOrder))
	copy(preference, cfg.PreferenceOrder)

	return &Policy{
		threshold:  cfg.RiskThreshold,
		preference: preference,
	}
}

// Decide keeps the initial PSP unless score exceeds the threshold
func (p *Policy) Decide(score float64, initial string) Decision {
	decision := Decision{
		InitialProvider: initial,
		ChosenProvider:  initial,
	}
	if score > p.threshold {
		decision.HighRisk = true
		decision.ChosenProvider = p.ChooseBackup(initial)
	}
	return decision
}

// ChooseBackup returns the first PSP in preference order other than initial,
// or initial itself when there is none.
func (p *Policy) ChooseBackup(initial string) string {
	for _, name := range p.preference {
		if name != initial {
			return name
		}
	}
	return initial
}

// Threshold returns the configured risk threshold
func (p *Policy) Threshold() float64 {
	return p.threshold
}

// PreferenceOrder returns a copy of the backup preference order
func (p *Policy) PreferenceOrder() []string {
	out := make([]string, len(p.preference))
	copy(out, p.preference)
	return out
}
