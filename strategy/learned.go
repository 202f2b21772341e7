package strategy

import (
	"github.com/olaitanojo/spxbot/ml"
	"github.com/olaitanojo/spxbot/models"
)

// Learned adapts the trained classifier to the Strategy interface. Unlike
// the rule strategies it can fail: evaluating before training surfaces
// ModelNotTrainedError to the caller.
type Learned struct {
	model *ml.Classifier
}

func NewLearned(model *ml.Classifier) *Learned {
	return &Learned{model: model}
}

func (s *Learned) Name() string { return models.StrategyMLEnhanced }

func (s *Learned) Evaluate(fv models.FeatureVector) (models.Signal, error) {
	return s.model.Predict(fv)
}
