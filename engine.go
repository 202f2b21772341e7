// Package spxbot is a multi-strategy signal generation and backtesting
// engine for an index and its volatility proxy. Bars flow strictly forward:
// feature engine, strategies, ensemble, position engine, reporter. Replaying
// the same bars with the same config reproduces the same trades.
package spxbot

import (
	"fmt"
	"sync"
	"time"

	"github.com/olaitanojo/spxbot/data"
	"github.com/olaitanojo/spxbot/logger"
	"github.com/olaitanojo/spxbot/ml"
	"github.com/olaitanojo/spxbot/models"
	"github.com/olaitanojo/spxbot/strategy"
	"github.com/olaitanojo/spxbot/ta"
	"github.com/olaitanojo/spxbot/utils"
)

// strategyOrder fixes the ensemble voting order so identical configs always
// build identical ensembles regardless of map iteration.
var strategyOrder = []string{
	models.StrategyMeanReversion,
	models.StrategyMomentumBreakout,
	models.StrategyVolatilityBreakout,
	models.StrategyMLEnhanced,
}

// TradingEngine wires the provider, feature engine, strategies and
// backtester together for one symbol and one config.
type TradingEngine struct {
	cfg      models.StrategyConfig
	provider data.Provider

	classifier *ml.Classifier
	ensemble   *strategy.Ensemble

	bars     []*models.Bar
	ohlcv    models.OHLCV
	features *ta.FeatureEngine
}

// NewTradingEngine validates the config and assembles the strategy set named
// by its weights.
func NewTradingEngine(cfg models.StrategyConfig, provider data.Provider) (*TradingEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine := &TradingEngine{cfg: cfg, provider: provider}
	var members []strategy.Member
	for _, name := range strategyOrder {
		weight, ok := cfg.StrategyWeights[name]
		if !ok || weight == 0 {
			continue
		}
		var strat strategy.Strategy
		switch name {
		case models.StrategyMeanReversion:
			strat = strategy.NewMeanReversion()
		case models.StrategyMomentumBreakout:
			strat = strategy.NewMomentumBreakout()
		case models.StrategyVolatilityBreakout:
			strat = strategy.NewVolatilityBreakout()
		case models.StrategyMLEnhanced:
			engine.classifier = ml.NewClassifier()
			strat = strategy.NewLearned(engine.classifier)
		}
		members = append(members, strategy.Member{Strategy: strat, Weight: weight})
	}
	ensemble, err := strategy.NewEnsemble(members...)
	if err != nil {
		return nil, err
	}
	engine.ensemble = ensemble
	for _, m := range ensemble.Members() {
		logger.Debugf("ensemble member %s weight %.2f", m.Strategy.Name(), m.Weight)
	}
	return engine, nil
}

// LoadData pulls bars and the volatility index through the provider and
// builds the feature engine. A non-monotonic series fails the call before
// any processing happens.
func (e *TradingEngine) LoadData(start, end time.Time) error {
	bars, err := e.provider.GetBars(e.cfg.Symbol, start, end)
	if err != nil {
		return fmt.Errorf("loading bars for %s: %w", e.cfg.Symbol, err)
	}
	if len(bars) == 0 {
		return fmt.Errorf("no bars for %s in range", e.cfg.Symbol)
	}
	if err := data.ValidateSeries(bars); err != nil {
		return err
	}

	vol, err := e.provider.GetVolIndex(e.cfg.Symbol, start, end)
	if err != nil {
		return fmt.Errorf("loading volatility index for %s: %w", e.cfg.Symbol, err)
	}
	if err := data.ValidateSeries(vol); err != nil {
		return err
	}

	e.bars = bars
	e.ohlcv = models.NewOHLCV(bars)
	e.features = ta.NewFeatureEngine(e.ohlcv, data.AlignVolIndex(bars, vol))
	logger.Infof("loaded %d bars for %s (%d volatility readings)", len(bars), e.cfg.Symbol, len(vol))
	return nil
}

// Classifier exposes the learned model for training reports and feature
// importances. Nil when the ml strategy carries no weight.
func (e *TradingEngine) Classifier() *ml.Classifier { return e.classifier }

// Train fits the classifier on the loaded window using the configured
// forward-return lookahead.
func (e *TradingEngine) Train() (ml.TrainReport, error) {
	if e.classifier == nil {
		return ml.TrainReport{}, fmt.Errorf("%s carries no weight in this config", models.StrategyMLEnhanced)
	}
	if e.features == nil {
		return ml.TrainReport{}, fmt.Errorf("no data loaded")
	}
	report, err := e.classifier.Train(e.features.Vectors(), e.ohlcv.Close, e.cfg.Lookahead)
	if err != nil {
		return report, err
	}
	logger.Infof("trained classifier on %d samples, in-sample accuracy %.3f", report.Samples, report.Accuracy)
	return report, nil
}

// RunBacktest replays the loaded bars in order through the ensemble and the
// position engine. All simulation state lives in a fresh backtester, so
// calling it twice yields identical results.
func (e *TradingEngine) RunBacktest() (*models.Result, error) {
	if e.features == nil {
		return nil, fmt.Errorf("no data loaded")
	}
	if e.classifier != nil && !e.classifier.Trained() {
		return nil, &models.ModelNotTrainedError{Strategy: models.StrategyMLEnhanced}
	}

	start := time.Now()
	b := newBacktester(e.cfg)
	for i, bar := range e.bars {
		combined, _, err := e.ensemble.Combine(e.features.At(i))
		if err != nil {
			return nil, fmt.Errorf("combining signals at %d: %w", bar.Timestamp, err)
		}
		b.step(bar, combined)
	}
	b.finish(e.bars[len(e.bars)-1])

	result := &models.Result{
		Symbol:         e.cfg.Symbol,
		StartTime:      e.bars[0].Timestamp,
		EndTime:        e.bars[len(e.bars)-1].Timestamp,
		InitialCapital: e.cfg.InitialCapital,
		FinalCapital:   b.capital,
		Trades:         b.trades,
		Capital:        b.capSer,
		Summary:        Summarize(b.trades, b.capSer, e.cfg),
	}
	logger.Infof("backtest finished in %v: %d trades", time.Since(start), len(result.Trades))
	return result, nil
}

// CurrentRecommendation answers the live query: the combined signal for the
// most recent bar with its strategy breakdown and market context. Read-only;
// engine state is untouched.
func (e *TradingEngine) CurrentRecommendation() (*models.Recommendation, error) {
	if e.features == nil {
		return nil, fmt.Errorf("no data loaded")
	}
	fv, err := e.features.Latest()
	if err != nil {
		return nil, err
	}
	combined, breakdown, err := e.ensemble.Combine(fv)
	if err != nil {
		return nil, err
	}

	price, _ := fv.Get(models.FeatClose)
	rsi, _ := fv.Get(models.FeatRSI14)
	macd, _ := fv.Get(models.FeatMACD)
	vix, _ := fv.Get(models.FeatVIX)

	rec := &models.Recommendation{
		Timestamp: fv.Timestamp,
		Price:     price,
		Signal:    combined,
		Breakdown: breakdown,
		RSI:       rsi,
		MACD:      macd,
		VIXLevel:  vix,
	}
	if sma20, ok := fv.Get(models.FeatSMA20); ok && sma20 != 0 {
		rec.PriceVsSMA20 = utils.ToFixed((price-sma20)/sma20*100, 2)
	}
	rec.Commentary = commentary(combined, rsi, vix)
	return rec, nil
}

func commentary(sig models.Signal, rsi, vix float64) []string {
	var notes []string
	switch sig.Type {
	case models.Buy:
		notes = append(notes, "Consider buying call options")
		if rsi < 40 {
			notes = append(notes, "RSI indicates oversold conditions - good for calls")
		}
	case models.Sell:
		notes = append(notes, "Consider buying put options")
		if rsi > 60 {
			notes = append(notes, "RSI indicates overbought conditions - good for puts")
		}
	default:
		notes = append(notes, "No clear signal - consider staying in cash")
	}
	if vix > 25 {
		notes = append(notes, "High VIX suggests elevated volatility - consider shorter-term trades")
	} else if vix > 0 && vix < 15 {
		notes = append(notes, "Low VIX suggests low volatility - consider longer-term trades")
	}
	return notes
}

// RunVariants backtests several configs over the same date range on
// separate goroutines. Each variant owns a full engine, so runs share no
// mutable state and results merge only after every run completes.
func RunVariants(provider data.Provider, cfgs []models.StrategyConfig, start, end time.Time) ([]*models.Result, error) {
	results := make([]*models.Result, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	for i := range cfgs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg := cfgs[i].Clone()
			engine, err := NewTradingEngine(cfg, provider)
			if err != nil {
				errs[i] = err
				return
			}
			if err := engine.LoadData(start, end); err != nil {
				errs[i] = err
				return
			}
			if engine.classifier != nil {
				if _, err := engine.Train(); err != nil {
					errs[i] = err
					return
				}
			}
			results[i], errs[i] = engine.RunBacktest()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("variant %d: %w", i, err)
		}
	}
	return results, nil
}
