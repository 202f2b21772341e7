package strategy

import "github.com/olaitanojo/spxbot/models"

// MeanReversion buys washed-out oversold bars and sells exhausted overbought
// ones, but only on a volume spike and only while realized volatility sits
// below its rolling average. Fading a move in an expanding-volatility regime
// is how mean reversion blows up.
type MeanReversion struct{}

func NewMeanReversion() *MeanReversion { return &MeanReversion{} }

func (s *MeanReversion) Name() string { return models.StrategyMeanReversion }

func (s *MeanReversion) Evaluate(fv models.FeatureVector) (models.Signal, error) {
	hold := models.HoldSignal(s.Name(), fv.Timestamp)
	if !fv.Has(models.FeatRSI14, models.FeatBBPosition, models.FeatWillR,
		models.FeatVolumeRatio, models.FeatATR, models.FeatATRMA) {
		return hold, nil
	}

	rsi, _ := fv.Get(models.FeatRSI14)
	bbPos, _ := fv.Get(models.FeatBBPosition)
	willR, _ := fv.Get(models.FeatWillR)
	volRatio, _ := fv.Get(models.FeatVolumeRatio)
	atr, _ := fv.Get(models.FeatATR)
	atrMA, _ := fv.Get(models.FeatATRMA)

	lowVol := atr < atrMA
	volumeSpike := volRatio > 1.5

	oversold := rsi < 30 && bbPos < 0.05 && willR < -80
	overbought := rsi > 70 && bbPos > 0.95 && willR > -20

	switch {
	case oversold && volumeSpike && lowVol:
		return models.Signal{
			Timestamp:  fv.Timestamp,
			Type:       models.Buy,
			Confidence: confidence(rsi < 25, bbPos < 0.02, willR < -90, volRatio > 2),
			Strategy:   s.Name(),
		}, nil
	case overbought && volumeSpike && lowVol:
		return models.Signal{
			Timestamp:  fv.Timestamp,
			Type:       models.Sell,
			Confidence: confidence(rsi > 75, bbPos > 0.98, willR > -10, volRatio > 2),
			Strategy:   s.Name(),
		}, nil
	}
	return hold, nil
}
