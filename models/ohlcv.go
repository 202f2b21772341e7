package models

// Represents concise Open, High, Low, Close, and Volume data in a single struct.
type OHLCV struct {
	Timestamp []int64
	Open      []float64
	High      []float64
	Low       []float64
	Close     []float64
	Volume    []float64
}

// NewOHLCV converts a bar slice into column arrays for indicator math.
func NewOHLCV(bars []*Bar) OHLCV {
	n := len(bars)
	data := OHLCV{
		Timestamp: make([]int64, n),
		Open:      make([]float64, n),
		High:      make([]float64, n),
		Low:       make([]float64, n),
		Close:     make([]float64, n),
		Volume:    make([]float64, n),
	}
	for i, bar := range bars {
		data.Timestamp[i] = bar.Timestamp
		data.Open[i] = bar.Open
		data.High[i] = bar.High
		data.Low[i] = bar.Low
		data.Close[i] = bar.Close
		data.Volume[i] = bar.Volume
	}
	return data
}

func (o OHLCV) Len() int {
	return len(o.Timestamp)
}
