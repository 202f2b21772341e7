package strategy

import "github.com/olaitanojo/spxbot/models"

// MomentumBreakout trades with an established trend: price above the 20-bar
// average, the 20 above the 50, directional movement confirming, MACD above
// its signal line, and volume behind the move.
type MomentumBreakout struct{}

func NewMomentumBreakout() *MomentumBreakout { return &MomentumBreakout{} }

func (s *MomentumBreakout) Name() string { return models.StrategyMomentumBreakout }

func (s *MomentumBreakout) Evaluate(fv models.FeatureVector) (models.Signal, error) {
	hold := models.HoldSignal(s.Name(), fv.Timestamp)
	if !fv.Has(models.FeatClose, models.FeatSMA20, models.FeatSMA50, models.FeatADX,
		models.FeatPlusDI, models.FeatMinusDI, models.FeatMACD, models.FeatMACDSignal,
		models.FeatVolumeRatio) {
		return hold, nil
	}

	close, _ := fv.Get(models.FeatClose)
	sma20, _ := fv.Get(models.FeatSMA20)
	sma50, _ := fv.Get(models.FeatSMA50)
	adx, _ := fv.Get(models.FeatADX)
	plusDI, _ := fv.Get(models.FeatPlusDI)
	minusDI, _ := fv.Get(models.FeatMinusDI)
	macd, _ := fv.Get(models.FeatMACD)
	macdSig, _ := fv.Get(models.FeatMACDSignal)
	volRatio, _ := fv.Get(models.FeatVolumeRatio)

	strongTrend := adx > 25
	volumeConfirm := volRatio > 1.2

	uptrend := close > sma20 && sma20 > sma50 && plusDI > minusDI && macd > macdSig
	downtrend := close < sma20 && sma20 < sma50 && plusDI < minusDI && macd < macdSig

	switch {
	case uptrend && strongTrend && volumeConfirm:
		return models.Signal{
			Timestamp:  fv.Timestamp,
			Type:       models.Buy,
			Confidence: confidence(adx > 35, volRatio > 1.8, close > sma50),
			Strategy:   s.Name(),
		}, nil
	case downtrend && strongTrend && volumeConfirm:
		return models.Signal{
			Timestamp:  fv.Timestamp,
			Type:       models.Sell,
			Confidence: confidence(adx > 35, volRatio > 1.8, close < sma50),
			Strategy:   s.Name(),
		}, nil
	}
	return hold, nil
}
