package strategy

import (
	"math"

	"github.com/olaitanojo/spxbot/models"
)

// EnsembleName labels combined signals.
const EnsembleName = "ensemble"

// Member pairs a strategy with its voting weight.
type Member struct {
	Strategy Strategy
	Weight   float64
}

// Ensemble combines member signals with a weighted vote. Given identical
// inputs and weights it always produces the identical combined signal:
// members vote in registration order and ties resolve to HOLD.
type Ensemble struct {
	members []Member
}

// NewEnsemble validates that member weights sum to 1 and fixes the voting
// order.
func NewEnsemble(members ...Member) (*Ensemble, error) {
	if len(members) == 0 {
		return nil, &models.InvalidConfigurationError{Field: "strategy_weights", Reason: "must name at least one strategy"}
	}
	sum := 0.0
	for _, m := range members {
		if m.Weight < 0 {
			return nil, &models.InvalidConfigurationError{Field: "strategy_weights." + m.Strategy.Name(), Reason: "must be >= 0"}
		}
		sum += m.Weight
	}
	if math.Abs(sum-1) > 1e-9 {
		return nil, &models.InvalidConfigurationError{Field: "strategy_weights", Reason: "must sum to 1"}
	}
	return &Ensemble{members: members}, nil
}

// Members exposes the voting roster for reporting.
func (e *Ensemble) Members() []Member { return e.members }

// Combine evaluates every member on the same vector and returns the combined
// signal plus the per-strategy breakdown. The class with the highest
// accumulated weight wins; any tie at the top falls back to HOLD and the
// combined confidence is the winning class's accumulated weight.
func (e *Ensemble) Combine(fv models.FeatureVector) (models.Signal, []models.Signal, error) {
	breakdown := make([]models.Signal, 0, len(e.members))
	votes := map[models.SignalType]float64{models.Buy: 0, models.Sell: 0, models.Hold: 0}
	for _, m := range e.members {
		sig, err := m.Strategy.Evaluate(fv)
		if err != nil {
			return models.Signal{}, nil, err
		}
		votes[sig.Type] += m.Weight
		breakdown = append(breakdown, sig)
	}

	winner := models.Hold
	weight := votes[models.Hold]
	if votes[models.Buy] > weight && votes[models.Buy] > votes[models.Sell] {
		winner = models.Buy
		weight = votes[models.Buy]
	} else if votes[models.Sell] > weight && votes[models.Sell] > votes[models.Buy] {
		winner = models.Sell
		weight = votes[models.Sell]
	}

	combined := models.Signal{
		Timestamp:  fv.Timestamp,
		Type:       winner,
		Confidence: weight,
		Strategy:   EnsembleName,
	}
	return combined, breakdown, nil
}
