// Package data defines the time-series provider boundary and the input
// validation the engine applies before trusting a series.
package data

import (
	"math"
	"time"

	"github.com/olaitanojo/spxbot/models"
)

// Provider supplies ordered bars for a symbol and date range, plus the
// aligned volatility-index series. Gap and duplicate handling is the
// provider's responsibility; the engine still rejects non-monotonic output
// rather than silently accepting it.
type Provider interface {
	GetBars(symbol string, start, end time.Time) ([]*models.Bar, error)
	GetVolIndex(symbol string, start, end time.Time) ([]*models.Bar, error)
}

// ValidateSeries rejects any series whose timestamps are not strictly
// increasing. Malformed input fails the whole run up front; there is no
// partial processing.
func ValidateSeries(bars []*models.Bar) error {
	for i := 1; i < len(bars); i++ {
		if bars[i].Timestamp <= bars[i-1].Timestamp {
			return &models.NonMonotonicTimeSeriesError{
				Index: i,
				Prev:  bars[i-1].Timestamp,
				Curr:  bars[i].Timestamp,
			}
		}
	}
	return nil
}

// AlignVolIndex maps the volatility-index closes onto the bar timestamps.
// Bars with no matching reading get NaN, which the feature engine treats as
// unavailable rather than a fabricated level.
func AlignVolIndex(bars []*models.Bar, vol []*models.Bar) []float64 {
	byTime := make(map[int64]float64, len(vol))
	for _, v := range vol {
		byTime[v.Timestamp] = v.Close
	}
	out := make([]float64, len(bars))
	for i, bar := range bars {
		if level, ok := byTime[bar.Timestamp]; ok {
			out[i] = level
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
