// Package ta computes the per-bar feature vectors used by every strategy,
// wrapping github.com/markcheno/go-talib. Indicator series are computed once
// per loaded history; vectors are materialized per index on demand so a
// backtest can restart from the beginning of the input at no cost.
package ta

import (
	"math"

	talib "github.com/markcheno/go-talib"

	"github.com/olaitanojo/spxbot/models"
)

// Indicator periods. These match the production parameter set and are not
// per-run tunables.
const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9

	rsiFast = 14
	rsiSlow = 21

	bbPeriod = 20
	bbDev    = 2.0

	atrPeriod   = 14
	atrMAPeriod = 20
	adxPeriod   = 14

	stochFastK = 5
	stochSlowK = 3
	stochSlowD = 3

	willRPeriod = 14
	cciPeriod   = 14
	mfiPeriod   = 14
	momPeriod   = 10
	rocPeriod   = 10

	volSMAPeriod = 20
	volPeriod    = 20

	sarAccel = 0.02
	sarMax   = 0.2
)

type series struct {
	values []float64
	// firstValid is the earliest index with enough history behind it. talib
	// fills the warmup region with zeros, which must never leak out as real
	// values.
	firstValid int
}

// FeatureEngine owns the indicator series for one loaded bar history plus an
// aligned volatility-index series. It never sees bars beyond the history it
// was built from, so a vector at index i depends only on bars 0..i.
type FeatureEngine struct {
	data    models.OHLCV
	columns map[string]series
	lagged  map[string]int // lagged feature name -> lag, over the base column
}

// NewFeatureEngine computes every indicator over the given history. vix is
// aligned by index with the bars; use math.NaN for bars with no reading.
func NewFeatureEngine(data models.OHLCV, vix []float64) *FeatureEngine {
	fe := &FeatureEngine{
		data:    data,
		columns: make(map[string]series),
		lagged:  make(map[string]int),
	}
	fe.compute(vix)
	return fe
}

func (fe *FeatureEngine) add(name string, firstValid int, values []float64) {
	fe.columns[name] = series{values: values, firstValid: firstValid}
}

func (fe *FeatureEngine) compute(vix []float64) {
	n := fe.data.Len()
	high, low, close, volume := fe.data.High, fe.data.Low, fe.data.Close, fe.data.Volume
	if n == 0 {
		return
	}

	fe.add(models.FeatClose, 0, close)

	// Moving averages.
	for _, p := range []struct {
		name   string
		period int
	}{
		{models.FeatSMA10, 10},
		{models.FeatSMA20, 20},
		{models.FeatSMA50, 50},
		{models.FeatSMA200, 200},
	} {
		if n >= p.period {
			fe.add(p.name, p.period-1, talib.Sma(close, p.period))
		}
	}
	for _, p := range []struct {
		name   string
		period int
	}{
		{models.FeatEMA12, 12},
		{models.FeatEMA26, 26},
		{models.FeatEMA50, 50},
	} {
		if n >= p.period {
			fe.add(p.name, p.period-1, talib.Ema(close, p.period))
		}
	}

	// MACD 12/26 with a 9-period signal line.
	if n > macdSlow+macdSignal {
		macd, signal, hist := talib.Macd(close, macdFast, macdSlow, macdSignal)
		first := macdSlow + macdSignal - 2
		fe.add(models.FeatMACD, first, macd)
		fe.add(models.FeatMACDSignal, first, signal)
		fe.add(models.FeatMACDHist, first, hist)
	}

	// Oscillators. Wilder RSI saturates at 100 when the average loss is zero
	// (talib computes 100*gain/(gain+loss)). A fully flat window is 0/0,
	// which talib guards to 0; that would read as maximally oversold, so
	// those indices are masked to NaN and drop out as unavailable.
	if n > rsiFast {
		fe.add(models.FeatRSI14, rsiFast, maskFlatWindows(talib.Rsi(close, rsiFast), close, rsiFast))
	}
	if n > rsiSlow {
		fe.add(models.FeatRSI21, rsiSlow, maskFlatWindows(talib.Rsi(close, rsiSlow), close, rsiSlow))
	}
	if n > stochFastK+stochSlowK+stochSlowD {
		k, d := talib.Stoch(high, low, close, stochFastK, stochSlowK, talib.SMA, stochSlowD, talib.SMA)
		first := stochFastK + stochSlowK + stochSlowD - 3
		fe.add(models.FeatStochK, first, k)
		fe.add(models.FeatStochD, first, d)
	}
	if n >= willRPeriod {
		fe.add(models.FeatWillR, willRPeriod-1, talib.WillR(high, low, close, willRPeriod))
	}
	if n >= cciPeriod {
		fe.add(models.FeatCCI, cciPeriod-1, talib.Cci(high, low, close, cciPeriod))
	}
	if n > mfiPeriod {
		fe.add(models.FeatMFI, mfiPeriod, talib.Mfi(high, low, close, volume, mfiPeriod))
	}
	fe.add(models.FeatOBV, 0, talib.Obv(close, volume))

	// Bollinger bands and derived width/position.
	if n >= bbPeriod {
		upper, middle, lower := talib.BBands(close, bbPeriod, bbDev, bbDev, talib.SMA)
		fe.add(models.FeatBBUpper, bbPeriod-1, upper)
		fe.add(models.FeatBBMiddle, bbPeriod-1, middle)
		fe.add(models.FeatBBLower, bbPeriod-1, lower)

		width := make([]float64, n)
		position := make([]float64, n)
		for i := 0; i < n; i++ {
			span := upper[i] - lower[i]
			if middle[i] != 0 {
				width[i] = span / middle[i]
			} else {
				width[i] = math.NaN()
			}
			if span != 0 {
				position[i] = (close[i] - lower[i]) / span
			} else {
				// Zero band width means the window was flat; position is
				// undefined, not neutral.
				position[i] = math.NaN()
			}
		}
		fe.add(models.FeatBBWidth, bbPeriod-1, width)
		fe.add(models.FeatBBPosition, bbPeriod-1, position)
	}

	// Trend strength and volatility.
	if n > atrPeriod {
		atr := talib.Atr(high, low, close, atrPeriod)
		fe.add(models.FeatATR, atrPeriod, atr)
		if n > atrPeriod+atrMAPeriod {
			fe.add(models.FeatATRMA, atrPeriod+atrMAPeriod-1, talib.Sma(atr, atrMAPeriod))
		}
	}
	if n > 2*adxPeriod {
		fe.add(models.FeatADX, 2*adxPeriod-1, talib.Adx(high, low, close, adxPeriod))
	}
	if n > adxPeriod {
		fe.add(models.FeatPlusDI, adxPeriod, talib.PlusDI(high, low, close, adxPeriod))
		fe.add(models.FeatMinusDI, adxPeriod, talib.MinusDI(high, low, close, adxPeriod))
	}
	if n > 1 {
		fe.add(models.FeatSAR, 1, talib.Sar(high, low, sarAccel, sarMax))
	}

	// Momentum.
	if n > momPeriod {
		fe.add(models.FeatMomentum, momPeriod, talib.Mom(close, momPeriod))
	}
	if n > rocPeriod {
		fe.add(models.FeatROC, rocPeriod, talib.Roc(close, rocPeriod))
	}

	// Annualized close-to-close volatility over a 20-bar window.
	if n > volPeriod {
		pct := make([]float64, n)
		for i := 1; i < n; i++ {
			if close[i-1] != 0 {
				pct[i] = close[i]/close[i-1] - 1
			}
		}
		std := talib.StdDev(pct, volPeriod, 1.0)
		vol := make([]float64, n)
		for i := range std {
			vol[i] = std[i] * math.Sqrt(252)
		}
		fe.add(models.FeatVolatility, volPeriod, vol)
	}

	// Volume SMA and the spike ratio strategies key off.
	if n >= volSMAPeriod {
		volSMA := talib.Sma(volume, volSMAPeriod)
		ratio := make([]float64, n)
		for i := range volume {
			if volSMA[i] != 0 {
				ratio[i] = volume[i] / volSMA[i]
			} else {
				ratio[i] = math.NaN()
			}
		}
		fe.add(models.FeatVolumeSMA, volSMAPeriod-1, volSMA)
		fe.add(models.FeatVolumeRatio, volSMAPeriod-1, ratio)
	}

	// Price/MA ratios used by the classifier.
	fe.addRatio(models.FeatPriceSMA20Ratio, models.FeatClose, models.FeatSMA20)
	fe.addRatio(models.FeatPriceSMA50Ratio, models.FeatClose, models.FeatSMA50)
	fe.addRatio(models.FeatSMA20SMA50Ratio, models.FeatSMA20, models.FeatSMA50)

	// Volatility index level, aligned by the caller. NaN marks missing bars.
	if len(vix) == n {
		fe.add(models.FeatVIX, 0, vix)
	}

	// Lag-1/lag-2 copies of the classifier's key indicators.
	for _, base := range []string{models.FeatRSI14, models.FeatMACD, models.FeatVolumeRatio} {
		if _, ok := fe.columns[base]; !ok {
			continue
		}
		fe.lagged[models.LagName(base, 1)] = 1
		fe.lagged[models.LagName(base, 2)] = 2
	}
}

func (fe *FeatureEngine) addRatio(name, numName, denName string) {
	num, okNum := fe.columns[numName]
	den, okDen := fe.columns[denName]
	if !okNum || !okDen {
		return
	}
	n := fe.data.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if den.values[i] != 0 {
			out[i] = num.values[i] / den.values[i]
		} else {
			out[i] = math.NaN()
		}
	}
	first := num.firstValid
	if den.firstValid > first {
		first = den.firstValid
	}
	fe.add(name, first, out)
}

// Len returns the number of bars the engine was built from.
func (fe *FeatureEngine) Len() int {
	return fe.data.Len()
}

// At materializes the feature vector for bar i. Features without enough
// history at i, and non-finite outputs, are absent from the vector.
func (fe *FeatureEngine) At(i int) models.FeatureVector {
	values := make(map[string]float64)
	for name, col := range fe.columns {
		if i >= col.firstValid && isFinite(col.values[i]) {
			values[name] = col.values[i]
		}
	}
	for name, lag := range fe.lagged {
		base := fe.columns[baseName(name, lag)]
		j := i - lag
		if j >= base.firstValid && isFinite(base.values[j]) {
			values[name] = base.values[j]
		}
	}
	return models.NewFeatureVector(fe.data.Timestamp[i], values)
}

// Latest returns the vector for the most recent bar.
func (fe *FeatureEngine) Latest() (models.FeatureVector, error) {
	if fe.data.Len() == 0 {
		return models.FeatureVector{}, &models.InsufficientHistoryError{}
	}
	return fe.At(fe.data.Len() - 1), nil
}

// Vectors runs a full ordered pass over the history. The slice is rebuilt on
// every call, so a replay always starts from the beginning of the input.
func (fe *FeatureEngine) Vectors() []models.FeatureVector {
	out := make([]models.FeatureVector, fe.data.Len())
	for i := range out {
		out[i] = fe.At(i)
	}
	return out
}

func baseName(lagName string, lag int) string {
	suffix := "_Lag1"
	if lag == 2 {
		suffix = "_Lag2"
	}
	return lagName[:len(lagName)-len(suffix)]
}

// maskFlatWindows sets indices whose entire lookback window saw no price
// change to NaN. Wilder smoothing keeps zero gain and zero loss forever once
// established, so a run of period unchanged closes means the value is a
// division-guard artifact, not a reading.
func maskFlatWindows(values, close []float64, period int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	run := 0
	for i := 1; i < len(close); i++ {
		if close[i] == close[i-1] {
			run++
		} else {
			run = 0
		}
		if run >= period {
			out[i] = math.NaN()
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
