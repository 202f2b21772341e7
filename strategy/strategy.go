// Package strategy maps feature vectors to trading signals. Every strategy
// degrades to HOLD when a feature it needs is unavailable; only the learned
// strategy can fail, and only when asked to predict before training.
package strategy

import "github.com/olaitanojo/spxbot/models"

// Strategy is the single capability the ensemble needs from a signal source.
type Strategy interface {
	Name() string
	Evaluate(fv models.FeatureVector) (models.Signal, error)
}

// confidence grades a firing signal: a floor for meeting the entry
// conditions plus a bonus per stricter margin also met. Keeps confidence in
// (0, 1] and monotone in setup strength.
func confidence(extras ...bool) float64 {
	met := 0
	for _, e := range extras {
		if e {
			met++
		}
	}
	return 0.6 + 0.4*float64(met)/float64(len(extras))
}
