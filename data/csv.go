package data

import (
	"os"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/olaitanojo/spxbot/models"
)

// CSVProvider serves bars from local csv files, one for the underlying and
// one for the volatility index. Column layout follows the Bar csv tags
// (timestamp, open, high, low, close, volume).
type CSVProvider struct {
	BarsPath string
	VolPath  string
}

func NewCSVProvider(barsPath, volPath string) *CSVProvider {
	return &CSVProvider{BarsPath: barsPath, VolPath: volPath}
}

func (p *CSVProvider) GetBars(symbol string, start, end time.Time) ([]*models.Bar, error) {
	return readBars(p.BarsPath, start, end)
}

func (p *CSVProvider) GetVolIndex(symbol string, start, end time.Time) ([]*models.Bar, error) {
	if p.VolPath == "" {
		return nil, nil
	}
	return readBars(p.VolPath, start, end)
}

func readBars(path string, start, end time.Time) ([]*models.Bar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var all []*models.Bar
	if err := gocsv.UnmarshalFile(file, &all); err != nil {
		return nil, err
	}

	startMs := start.UnixNano() / int64(time.Millisecond)
	endMs := end.UnixNano() / int64(time.Millisecond)
	bars := make([]*models.Bar, 0, len(all))
	for _, bar := range all {
		if bar.Timestamp >= startMs && bar.Timestamp <= endMs {
			bars = append(bars, bar)
		}
	}
	return bars, nil
}
