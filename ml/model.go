// Package ml implements the trainable signal classifier: a standard scaler
// plus a Gaussian naive Bayes model over the indicator feature set, labeled
// by forward returns. The model object owns its whole lifecycle (construct,
// train, predict, discard) so independent configurations can be evaluated
// side by side without shared state.
package ml

import (
	"fmt"
	"math"

	gaussian "github.com/chobie/go-gaussian"
	"gonum.org/v1/gonum/stat"

	"github.com/olaitanojo/spxbot/models"
	"github.com/olaitanojo/spxbot/utils"
)

// Forward-return bands for labeling: above +0.5% is a buy, below -0.5% a
// sell, anything between is a hold.
const (
	buyThreshold  = 0.005
	sellThreshold = -0.005
)

// minTrainSamples guards against fitting on a handful of bars.
const minTrainSamples = 50

// varianceFloor keeps a constant feature from collapsing a class likelihood.
const varianceFloor = 1e-9

// FeatureNames is the classifier's fixed input set: oscillators, trend and
// volume readings, price ratios, and lag-1/lag-2 copies of the key
// indicators.
func FeatureNames() []string {
	names := []string{
		models.FeatRSI14, models.FeatRSI21,
		models.FeatMACD, models.FeatMACDSignal, models.FeatMACDHist,
		models.FeatStochK, models.FeatStochD,
		models.FeatWillR, models.FeatCCI,
		models.FeatBBPosition, models.FeatBBWidth,
		models.FeatATR, models.FeatADX, models.FeatPlusDI, models.FeatMinusDI,
		models.FeatMFI, models.FeatVolumeRatio,
		models.FeatMomentum, models.FeatROC, models.FeatVolatility,
		models.FeatPriceSMA20Ratio, models.FeatPriceSMA50Ratio, models.FeatSMA20SMA50Ratio,
	}
	for _, base := range []string{models.FeatRSI14, models.FeatMACD, models.FeatVolumeRatio} {
		names = append(names, models.LagName(base, 1), models.LagName(base, 2))
	}
	return names
}

// Scaler standardizes features to zero mean and unit variance using
// statistics from the window it was fit on. Fitting on the training window
// and nothing else is what keeps test-window statistics from leaking into
// the model.
type Scaler struct {
	mean []float64
	std  []float64
}

// Fit computes per-column statistics over the training rows.
func (s *Scaler) Fit(rows [][]float64, cols int) {
	s.mean = make([]float64, cols)
	s.std = make([]float64, cols)
	column := make([]float64, len(rows))
	for j := 0; j < cols; j++ {
		for i, row := range rows {
			column[i] = row[j]
		}
		mean, std := stat.MeanStdDev(column, nil)
		if math.IsNaN(std) || std == 0 {
			std = 1
		}
		s.mean[j] = mean
		s.std[j] = std
	}
}

// Transform standardizes one row in place into a new slice.
func (s *Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j := range row {
		out[j] = (row[j] - s.mean[j]) / s.std[j]
	}
	return out
}

// TrainReport summarizes a completed fit.
type TrainReport struct {
	Samples     int
	ClassCounts map[models.SignalType]int
	Accuracy    float64 // in-sample accuracy on the training window
}

// Classifier is a Gaussian naive Bayes signal model.
type Classifier struct {
	features []string
	scaler   Scaler

	classes []models.SignalType
	priors  []float64
	means   [][]float64
	vars    [][]float64

	trained bool
}

func NewClassifier() *Classifier {
	return &Classifier{features: FeatureNames()}
}

// Trained reports whether Fit has completed.
func (c *Classifier) Trained() bool { return c.trained }

// Features returns the model's input feature names in order.
func (c *Classifier) Features() []string { return c.features }

// Labels converts a close series into forward-return class labels. The last
// lookahead entries have no forward window and get no label (Hold with
// ok=false semantics is avoided; callers skip them).
func Labels(close []float64, lookahead int) []models.SignalType {
	labels := make([]models.SignalType, len(close))
	for i := range close {
		labels[i] = models.Hold
		if i+lookahead >= len(close) || close[i] == 0 {
			continue
		}
		fwd := close[i+lookahead]/close[i] - 1
		if fwd > buyThreshold {
			labels[i] = models.Buy
		} else if fwd < sellThreshold {
			labels[i] = models.Sell
		}
	}
	return labels
}

// row extracts the model features from a vector; ok is false if any feature
// is unavailable at that bar.
func (c *Classifier) row(fv models.FeatureVector) ([]float64, bool) {
	if !fv.Has(c.features...) {
		return nil, false
	}
	out := make([]float64, len(c.features))
	for j, name := range c.features {
		out[j], _ = fv.Get(name)
	}
	return out, true
}

// Train fits the model on a historical window: vectors aligned with closes,
// labeled by lookahead-bar forward returns. Bars with incomplete features or
// no forward window are skipped.
func (c *Classifier) Train(vectors []models.FeatureVector, close []float64, lookahead int) (TrainReport, error) {
	report := TrainReport{ClassCounts: make(map[models.SignalType]int)}
	if len(vectors) != len(close) {
		return report, fmt.Errorf("ml: %d vectors for %d closes", len(vectors), len(close))
	}
	if lookahead <= 0 {
		return report, fmt.Errorf("ml: lookahead must be > 0, got %d", lookahead)
	}

	labels := Labels(close, lookahead)
	var rows [][]float64
	var rowLabels []models.SignalType
	for i, fv := range vectors {
		if i+lookahead >= len(close) {
			break
		}
		row, ok := c.row(fv)
		if !ok {
			continue
		}
		rows = append(rows, row)
		rowLabels = append(rowLabels, labels[i])
	}
	if len(rows) < minTrainSamples {
		return report, fmt.Errorf("ml: insufficient training data: %d usable samples, need %d", len(rows), minTrainSamples)
	}

	c.scaler.Fit(rows, len(c.features))
	scaled := make([][]float64, len(rows))
	for i, row := range rows {
		scaled[i] = c.scaler.Transform(row)
	}

	// Group by class in a fixed order so refits are reproducible.
	order := []models.SignalType{models.Buy, models.Sell, models.Hold}
	byClass := make(map[models.SignalType][][]float64)
	for i, row := range scaled {
		byClass[rowLabels[i]] = append(byClass[rowLabels[i]], row)
		report.ClassCounts[rowLabels[i]]++
	}

	c.classes = nil
	c.priors = nil
	c.means = nil
	c.vars = nil
	for _, class := range order {
		classRows := byClass[class]
		if len(classRows) == 0 {
			continue
		}
		means := make([]float64, len(c.features))
		vars := make([]float64, len(c.features))
		column := make([]float64, len(classRows))
		for j := range c.features {
			for i, row := range classRows {
				column[i] = row[j]
			}
			mean, std := stat.MeanStdDev(column, nil)
			v := std * std
			if math.IsNaN(v) || v < varianceFloor {
				v = varianceFloor
			}
			means[j] = mean
			vars[j] = v
		}
		c.classes = append(c.classes, class)
		c.priors = append(c.priors, float64(len(classRows))/float64(len(rows)))
		c.means = append(c.means, means)
		c.vars = append(c.vars, vars)
	}
	c.trained = true

	correct := 0
	for i, row := range scaled {
		class, _ := c.classify(row)
		if class == rowLabels[i] {
			correct++
		}
	}
	report.Samples = len(rows)
	report.Accuracy = float64(correct) / float64(len(rows))
	return report, nil
}

// classify scores an already-scaled row and returns the winning class and
// its posterior probability.
func (c *Classifier) classify(scaled []float64) (models.SignalType, float64) {
	logPost := make([]float64, len(c.classes))
	for k := range c.classes {
		lp := math.Log(c.priors[k])
		for j := range scaled {
			pdf := gaussian.NewGaussian(c.means[k][j], c.vars[k][j]).Pdf(scaled[j])
			if pdf <= 0 {
				pdf = math.SmallestNonzeroFloat64
			}
			lp += math.Log(pdf)
		}
		logPost[k] = lp
	}

	// Log-sum-exp normalization so the winning weight is a probability.
	maxLP := logPost[0]
	for _, lp := range logPost[1:] {
		if lp > maxLP {
			maxLP = lp
		}
	}
	sum := 0.0
	for k := range logPost {
		logPost[k] = math.Exp(logPost[k] - maxLP)
		sum += logPost[k]
	}
	best := 0
	for k := range logPost {
		if logPost[k] > logPost[best] {
			best = k
		}
	}
	return c.classes[best], logPost[best] / sum
}

// Predict maps a feature vector to a signal whose confidence is the model's
// posterior probability for the predicted class. Requesting a prediction
// before training is a caller error and surfaces as ModelNotTrainedError.
func (c *Classifier) Predict(fv models.FeatureVector) (models.Signal, error) {
	if !c.trained {
		return models.Signal{}, &models.ModelNotTrainedError{Strategy: models.StrategyMLEnhanced}
	}
	row, ok := c.row(fv)
	if !ok {
		// Early-series bars without full features are an expected condition,
		// not an error.
		return models.HoldSignal(models.StrategyMLEnhanced, fv.Timestamp), nil
	}
	class, prob := c.classify(c.scaler.Transform(row))
	return models.Signal{
		Timestamp:  fv.Timestamp,
		Type:       class,
		Confidence: prob,
		Strategy:   models.StrategyMLEnhanced,
	}, nil
}

// FeatureImportances ranks features by how far apart the class-conditional
// means sit relative to the pooled spread, normalized to sum to 1. This is
// for interpretability only and plays no part in the trading decision path.
func (c *Classifier) FeatureImportances() (map[string]float64, error) {
	if !c.trained {
		return nil, &models.ModelNotTrainedError{Strategy: models.StrategyMLEnhanced}
	}
	raw := make([]float64, len(c.features))
	for j := range c.features {
		spread := 0.0
		pooled := 0.0
		for k := range c.classes {
			for l := k + 1; l < len(c.classes); l++ {
				spread += math.Abs(c.means[k][j] - c.means[l][j])
			}
			pooled += math.Sqrt(c.vars[k][j])
		}
		if pooled > 0 {
			raw[j] = spread / pooled
		}
	}
	total := utils.SumArr(raw)
	out := make(map[string]float64, len(c.features))
	for j, name := range c.features {
		if total > 0 {
			out[name] = raw[j] / total
		} else {
			out[name] = 0
		}
	}
	return out, nil
}
