package ml

import (
	"errors"
	"math"
	"testing"

	"github.com/olaitanojo/spxbot/models"
)

// fullVector builds a vector carrying every model feature, all zero except
// the rate-of-change reading.
func fullVector(ts int64, roc float64) models.FeatureVector {
	values := make(map[string]float64)
	for _, name := range FeatureNames() {
		values[name] = 0
	}
	values[models.FeatROC] = roc
	return models.NewFeatureVector(ts, values)
}

// trainingSet builds 120 bars: sixty rising 1% per bar, sixty falling 1%
// per bar, with the rate-of-change feature set to match each bar's own
// forward-return label so the classes are perfectly separable.
func trainingSet(lookahead int) ([]models.FeatureVector, []float64) {
	const n = 120
	close := make([]float64, n)
	price := 100.0
	for i := 0; i < n; i++ {
		close[i] = price
		if i < 60 {
			price *= 1.01
		} else {
			price *= 0.99
		}
	}
	labels := Labels(close, lookahead)
	vectors := make([]models.FeatureVector, n)
	for i := 0; i < n; i++ {
		roc := 0.0
		switch labels[i] {
		case models.Buy:
			roc = 1
		case models.Sell:
			roc = -1
		}
		vectors[i] = fullVector(int64(i+1), roc)
	}
	return vectors, close
}

func TestPredictBeforeTrain(t *testing.T) {
	c := NewClassifier()
	_, err := c.Predict(fullVector(1, 0))
	var notTrained *models.ModelNotTrainedError
	if !errors.As(err, &notTrained) {
		t.Fatalf("expected ModelNotTrainedError, got %v", err)
	}
	if _, err := c.FeatureImportances(); err == nil {
		t.Error("importances before training should fail")
	}
}

func TestLabels(t *testing.T) {
	close := []float64{100, 100.6, 99.4, 100.1, 100}
	labels := Labels(close, 1)
	want := []models.SignalType{models.Buy, models.Sell, models.Buy, models.Hold, models.Hold}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("label[%d] = %s, want %s", i, labels[i], want[i])
		}
	}
}

func TestTrainAndPredict(t *testing.T) {
	vectors, close := trainingSet(5)
	c := NewClassifier()
	report, err := c.Train(vectors, close, 5)
	if err != nil {
		t.Fatal(err)
	}
	if !c.Trained() {
		t.Fatal("classifier should report trained")
	}
	if report.Samples != 115 {
		t.Errorf("samples = %d, want 115 (five bars lose their forward window)", report.Samples)
	}
	if report.ClassCounts[models.Buy] == 0 || report.ClassCounts[models.Sell] == 0 {
		t.Fatalf("expected both buy and sell rows, got %v", report.ClassCounts)
	}
	if report.Accuracy < 0.95 {
		t.Errorf("in-sample accuracy on separable data = %v, want >= 0.95", report.Accuracy)
	}

	up, err := c.Predict(fullVector(200, 1))
	if err != nil {
		t.Fatal(err)
	}
	if up.Type != models.Buy {
		t.Errorf("prediction for rising setup = %s, want buy", up.Type)
	}
	if up.Confidence <= 0.5 || up.Confidence > 1 {
		t.Errorf("posterior confidence = %v, want in (0.5, 1]", up.Confidence)
	}

	down, err := c.Predict(fullVector(201, -1))
	if err != nil {
		t.Fatal(err)
	}
	if down.Type != models.Sell {
		t.Errorf("prediction for falling setup = %s, want sell", down.Type)
	}
}

func TestPredictIncompleteFeaturesHolds(t *testing.T) {
	vectors, close := trainingSet(5)
	c := NewClassifier()
	if _, err := c.Train(vectors, close, 5); err != nil {
		t.Fatal(err)
	}
	sig, err := c.Predict(models.NewFeatureVector(300, map[string]float64{models.FeatRSI14: 50}))
	if err != nil {
		t.Fatal(err)
	}
	if sig.Type != models.Hold || sig.Confidence != 0 {
		t.Errorf("incomplete vector prediction = %s (%v), want zero-confidence hold", sig.Type, sig.Confidence)
	}
}

func TestTrainRejectsShortWindow(t *testing.T) {
	vectors, close := trainingSet(5)
	c := NewClassifier()
	if _, err := c.Train(vectors[:20], close[:20], 5); err == nil {
		t.Fatal("training on 20 bars should fail")
	}
}

func TestTrainRejectsMisalignedInput(t *testing.T) {
	vectors, close := trainingSet(5)
	c := NewClassifier()
	if _, err := c.Train(vectors, close[:100], 5); err == nil {
		t.Error("vector/close length mismatch should fail")
	}
	if _, err := c.Train(vectors, close, 0); err == nil {
		t.Error("zero lookahead should fail")
	}
}

func TestFeatureImportances(t *testing.T) {
	vectors, close := trainingSet(5)
	c := NewClassifier()
	if _, err := c.Train(vectors, close, 5); err != nil {
		t.Fatal(err)
	}
	importances, err := c.FeatureImportances()
	if err != nil {
		t.Fatal(err)
	}
	sum := 0.0
	top := ""
	for name, v := range importances {
		if v < 0 {
			t.Errorf("importance %s = %v, want >= 0", name, v)
		}
		sum += v
		if top == "" || v > importances[top] {
			top = name
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("importances sum = %v, want 1", sum)
	}
	if top != models.FeatROC {
		t.Errorf("top feature = %s, want %s (the only informative one)", top, models.FeatROC)
	}
}
