package strategy

import "github.com/olaitanojo/spxbot/models"

// VolatilityBreakout trades closes outside the Bollinger bands after a
// period of range contraction, with volume confirming and RSI kept out of
// blow-off territory.
type VolatilityBreakout struct{}

func NewVolatilityBreakout() *VolatilityBreakout { return &VolatilityBreakout{} }

func (s *VolatilityBreakout) Name() string { return models.StrategyVolatilityBreakout }

func (s *VolatilityBreakout) Evaluate(fv models.FeatureVector) (models.Signal, error) {
	hold := models.HoldSignal(s.Name(), fv.Timestamp)
	if !fv.Has(models.FeatClose, models.FeatBBUpper, models.FeatBBLower,
		models.FeatRSI14, models.FeatVolumeRatio, models.FeatATR, models.FeatATRMA) {
		return hold, nil
	}

	close, _ := fv.Get(models.FeatClose)
	upper, _ := fv.Get(models.FeatBBUpper)
	lower, _ := fv.Get(models.FeatBBLower)
	rsi, _ := fv.Get(models.FeatRSI14)
	volRatio, _ := fv.Get(models.FeatVolumeRatio)
	atr, _ := fv.Get(models.FeatATR)
	atrMA, _ := fv.Get(models.FeatATRMA)

	contraction := atr < atrMA
	volumeBreakout := volRatio > 1.5

	switch {
	case close > upper && contraction && volumeBreakout && rsi < 80:
		return models.Signal{
			Timestamp:  fv.Timestamp,
			Type:       models.Buy,
			Confidence: confidence(volRatio > 2.5, rsi < 70),
			Strategy:   s.Name(),
		}, nil
	case close < lower && contraction && volumeBreakout && rsi > 20:
		return models.Signal{
			Timestamp:  fv.Timestamp,
			Type:       models.Sell,
			Confidence: confidence(volRatio > 2.5, rsi > 30),
			Strategy:   s.Name(),
		}, nil
	}
	return hold, nil
}
