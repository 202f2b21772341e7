package models

// Feature names shared between the feature engine, the rule strategies and
// the classifier. A name absent from a FeatureVector means the indicator did
// not have enough history at that bar, never that its value was zero.
const (
	FeatSMA10  = "SMA_10"
	FeatSMA20  = "SMA_20"
	FeatSMA50  = "SMA_50"
	FeatSMA200 = "SMA_200"

	FeatEMA12 = "EMA_12"
	FeatEMA26 = "EMA_26"
	FeatEMA50 = "EMA_50"

	FeatMACD       = "MACD"
	FeatMACDSignal = "MACD_Signal"
	FeatMACDHist   = "MACD_Hist"

	FeatRSI14 = "RSI_14"
	FeatRSI21 = "RSI_21"

	FeatStochK = "STOCH_K"
	FeatStochD = "STOCH_D"
	FeatWillR  = "WILLR"
	FeatCCI    = "CCI"
	FeatMFI    = "MFI"
	FeatOBV    = "OBV"

	FeatBBUpper    = "BB_Upper"
	FeatBBMiddle   = "BB_Middle"
	FeatBBLower    = "BB_Lower"
	FeatBBWidth    = "BB_Width"
	FeatBBPosition = "BB_Position"

	FeatATR   = "ATR"
	FeatATRMA = "ATR_MA"
	FeatSAR   = "SAR"

	FeatADX     = "ADX"
	FeatPlusDI  = "PLUS_DI"
	FeatMinusDI = "MINUS_DI"

	FeatMomentum   = "Momentum"
	FeatROC        = "Rate_of_Change"
	FeatVolatility = "Volatility"

	FeatVolumeSMA   = "Volume_SMA"
	FeatVolumeRatio = "Volume_Ratio"

	FeatClose = "Close"
	FeatVIX   = "VIX"

	FeatPriceSMA20Ratio = "Price_SMA20_Ratio"
	FeatPriceSMA50Ratio = "Price_SMA50_Ratio"
	FeatSMA20SMA50Ratio = "SMA20_SMA50_Ratio"
)

// LagName derives the name of a lagged copy of a feature, e.g. RSI_14_Lag1.
func LagName(name string, lag int) string {
	switch lag {
	case 1:
		return name + "_Lag1"
	case 2:
		return name + "_Lag2"
	default:
		return name
	}
}

// FeatureVector holds the indicator values computed for one bar. It is
// immutable once built; consumers read through Get/Has and must treat a
// missing name as unavailable, not as zero.
type FeatureVector struct {
	Timestamp int64
	values    map[string]float64
}

// NewFeatureVector wraps a value map. The map is owned by the vector after
// the call.
func NewFeatureVector(timestamp int64, values map[string]float64) FeatureVector {
	return FeatureVector{Timestamp: timestamp, values: values}
}

// Get returns a feature value and whether it is available at this bar.
func (fv FeatureVector) Get(name string) (float64, bool) {
	v, ok := fv.values[name]
	return v, ok
}

// Has reports whether every named feature is available.
func (fv FeatureVector) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := fv.values[name]; !ok {
			return false
		}
	}
	return true
}

// Len returns the number of available features.
func (fv FeatureVector) Len() int {
	return len(fv.values)
}

// Values returns a copy of the underlying map, preserving immutability of
// the vector itself.
func (fv FeatureVector) Values() map[string]float64 {
	out := make(map[string]float64, len(fv.values))
	for k, v := range fv.values {
		out[k] = v
	}
	return out
}
