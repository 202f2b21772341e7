package strategy

import (
	"testing"

	"github.com/olaitanojo/spxbot/models"
)

func vec(values map[string]float64) models.FeatureVector {
	return models.NewFeatureVector(1700000000000, values)
}

func oversold() map[string]float64 {
	return map[string]float64{
		models.FeatRSI14:       22,
		models.FeatBBPosition:  0.01,
		models.FeatWillR:       -95,
		models.FeatVolumeRatio: 2.5,
		models.FeatATR:         1.8,
		models.FeatATRMA:       2.2,
	}
}

func TestMeanReversionBuysOversold(t *testing.T) {
	sig, err := NewMeanReversion().Evaluate(vec(oversold()))
	if err != nil {
		t.Fatal(err)
	}
	if sig.Type != models.Buy {
		t.Fatalf("signal = %s, want buy", sig.Type)
	}
	// All four stricter margins are met, so confidence is at the ceiling.
	if sig.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", sig.Confidence)
	}
	if sig.Strategy != models.StrategyMeanReversion {
		t.Errorf("strategy label = %q", sig.Strategy)
	}
}

func TestMeanReversionConfidenceScalesWithMargins(t *testing.T) {
	weak := oversold()
	weak[models.FeatRSI14] = 28
	weak[models.FeatBBPosition] = 0.04
	weak[models.FeatWillR] = -85
	weak[models.FeatVolumeRatio] = 1.6

	weakSig, err := NewMeanReversion().Evaluate(vec(weak))
	if err != nil {
		t.Fatal(err)
	}
	strongSig, err := NewMeanReversion().Evaluate(vec(oversold()))
	if err != nil {
		t.Fatal(err)
	}
	if weakSig.Type != models.Buy {
		t.Fatalf("weak setup signal = %s, want buy", weakSig.Type)
	}
	if weakSig.Confidence != 0.6 {
		t.Errorf("weak confidence = %v, want the 0.6 floor", weakSig.Confidence)
	}
	if weakSig.Confidence >= strongSig.Confidence {
		t.Errorf("confidence not monotone: weak %v >= strong %v", weakSig.Confidence, strongSig.Confidence)
	}
}

func TestMeanReversionSellsOverbought(t *testing.T) {
	sig, err := NewMeanReversion().Evaluate(vec(map[string]float64{
		models.FeatRSI14:       78,
		models.FeatBBPosition:  0.99,
		models.FeatWillR:       -5,
		models.FeatVolumeRatio: 2.2,
		models.FeatATR:         1.8,
		models.FeatATRMA:       2.2,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if sig.Type != models.Sell {
		t.Errorf("signal = %s, want sell", sig.Type)
	}
}

func TestMeanReversionHoldsInExpandingVolatility(t *testing.T) {
	values := oversold()
	values[models.FeatATR] = 2.5 // above its rolling average
	sig, err := NewMeanReversion().Evaluate(vec(values))
	if err != nil {
		t.Fatal(err)
	}
	if sig.Type != models.Hold {
		t.Errorf("signal = %s, want hold when volatility is expanding", sig.Type)
	}
}

func TestMeanReversionHoldsOnMissingFeatures(t *testing.T) {
	values := oversold()
	delete(values, models.FeatBBPosition)
	sig, err := NewMeanReversion().Evaluate(vec(values))
	if err != nil {
		t.Fatal(err)
	}
	if sig.Type != models.Hold || sig.Confidence != 0 {
		t.Errorf("signal = %s (%v), want zero-confidence hold on missing features", sig.Type, sig.Confidence)
	}
}

func TestMomentumBreakoutBuysUptrend(t *testing.T) {
	sig, err := NewMomentumBreakout().Evaluate(vec(map[string]float64{
		models.FeatClose:       105,
		models.FeatSMA20:       100,
		models.FeatSMA50:       95,
		models.FeatADX:         30,
		models.FeatPlusDI:      25,
		models.FeatMinusDI:     15,
		models.FeatMACD:        1.2,
		models.FeatMACDSignal:  0.8,
		models.FeatVolumeRatio: 1.5,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if sig.Type != models.Buy {
		t.Fatalf("signal = %s, want buy", sig.Type)
	}
	// One of three margins met (close above the 50-bar average).
	want := 0.6 + 0.4/3
	if diff := sig.Confidence - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("confidence = %v, want %v", sig.Confidence, want)
	}
}

func TestMomentumBreakoutSellsDowntrend(t *testing.T) {
	sig, err := NewMomentumBreakout().Evaluate(vec(map[string]float64{
		models.FeatClose:       90,
		models.FeatSMA20:       95,
		models.FeatSMA50:       100,
		models.FeatADX:         40,
		models.FeatPlusDI:      12,
		models.FeatMinusDI:     28,
		models.FeatMACD:        -1.5,
		models.FeatMACDSignal:  -0.9,
		models.FeatVolumeRatio: 2.0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if sig.Type != models.Sell {
		t.Errorf("signal = %s, want sell", sig.Type)
	}
}

func TestMomentumBreakoutHoldsWeakTrend(t *testing.T) {
	sig, err := NewMomentumBreakout().Evaluate(vec(map[string]float64{
		models.FeatClose:       105,
		models.FeatSMA20:       100,
		models.FeatSMA50:       95,
		models.FeatADX:         18, // below the trend-strength gate
		models.FeatPlusDI:      25,
		models.FeatMinusDI:     15,
		models.FeatMACD:        1.2,
		models.FeatMACDSignal:  0.8,
		models.FeatVolumeRatio: 1.5,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if sig.Type != models.Hold {
		t.Errorf("signal = %s, want hold on weak adx", sig.Type)
	}
}

func TestVolatilityBreakoutBuysUpperBandBreak(t *testing.T) {
	sig, err := NewVolatilityBreakout().Evaluate(vec(map[string]float64{
		models.FeatClose:       110,
		models.FeatBBUpper:     108,
		models.FeatBBLower:     95,
		models.FeatRSI14:       65,
		models.FeatVolumeRatio: 2.0,
		models.FeatATR:         1.5,
		models.FeatATRMA:       2.0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if sig.Type != models.Buy {
		t.Fatalf("signal = %s, want buy", sig.Type)
	}
	if sig.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", sig.Confidence)
	}
}

func TestVolatilityBreakoutHoldsBlowOff(t *testing.T) {
	sig, err := NewVolatilityBreakout().Evaluate(vec(map[string]float64{
		models.FeatClose:       110,
		models.FeatBBUpper:     108,
		models.FeatBBLower:     95,
		models.FeatRSI14:       85, // blow-off territory
		models.FeatVolumeRatio: 2.0,
		models.FeatATR:         1.5,
		models.FeatATRMA:       2.0,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if sig.Type != models.Hold {
		t.Errorf("signal = %s, want hold when rsi is blown off", sig.Type)
	}
}
