package models

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

// Canonical strategy names, used as keys in StrategyWeights.
const (
	StrategyMeanReversion      = "mean_reversion"
	StrategyMomentumBreakout   = "momentum_breakout"
	StrategyVolatilityBreakout = "volatility_breakout"
	StrategyMLEnhanced         = "ml_enhanced"
)

// StrategyConfig holds every tunable for a single backtest run. It is
// immutable for the duration of the run; Clone before mutating for a
// variant run.
type StrategyConfig struct {
	Symbol         string  `json:"symbol" yaml:"symbol"`
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`

	// Risk limits.
	MaxRiskPerTrade  float64 `json:"max_risk_per_trade" yaml:"max_risk_per_trade"`
	MaxPortfolioRisk float64 `json:"max_portfolio_risk" yaml:"max_portfolio_risk"`
	StopLossPct      float64 `json:"stop_loss_pct" yaml:"stop_loss_pct"`
	ProfitTargetPct  float64 `json:"profit_target_pct" yaml:"profit_target_pct"`
	MaxPositionSize  float64 `json:"max_position_size" yaml:"max_position_size"`
	MaxHoldingBars   int     `json:"max_holding_bars" yaml:"max_holding_bars"`

	// Option proxy parameters.
	StrikeOffsetPct float64 `json:"strike_offset_pct" yaml:"strike_offset_pct"`
	PremiumRatio    float64 `json:"premium_ratio" yaml:"premium_ratio"`
	PremiumLeverage float64 `json:"premium_leverage" yaml:"premium_leverage"`

	// Ensemble weights by strategy name. Must sum to 1.
	StrategyWeights map[string]float64 `json:"strategy_weights" yaml:"strategy_weights"`

	// Classifier training horizon in bars.
	Lookahead int `json:"lookahead" yaml:"lookahead"`

	// Reporting.
	RiskFreeRate  float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
	Annualization float64 `json:"annualization" yaml:"annualization"`
}

// DefaultStrategyConfig mirrors the production defaults: 2% risk per trade,
// 10% portfolio risk, 50% stop, 25% target, 30-bar expiry.
func DefaultStrategyConfig(symbol string) StrategyConfig {
	return StrategyConfig{
		Symbol:           symbol,
		InitialCapital:   100000,
		MaxRiskPerTrade:  0.02,
		MaxPortfolioRisk: 0.10,
		StopLossPct:      0.50,
		ProfitTargetPct:  0.25,
		MaxPositionSize:  100,
		MaxHoldingBars:   30,
		StrikeOffsetPct:  0.02,
		PremiumRatio:     0.03,
		PremiumLeverage:  10,
		Lookahead:        5,
		RiskFreeRate:     0.0,
		Annualization:    252,
		StrategyWeights: map[string]float64{
			StrategyMeanReversion:      0.25,
			StrategyMomentumBreakout:   0.25,
			StrategyVolatilityBreakout: 0.25,
			StrategyMLEnhanced:         0.25,
		},
	}
}

const weightTolerance = 1e-9

// Validate checks every recognized option against its allowed range. It is
// the only place configuration errors may originate; a validated config
// never fails mid-run.
func (c *StrategyConfig) Validate() error {
	if c.InitialCapital <= 0 {
		return &InvalidConfigurationError{Field: "initial_capital", Reason: "must be > 0"}
	}
	if c.MaxRiskPerTrade <= 0 || c.MaxRiskPerTrade > 1 {
		return &InvalidConfigurationError{Field: "max_risk_per_trade", Reason: "must be in (0, 1]"}
	}
	if c.MaxPortfolioRisk <= 0 || c.MaxPortfolioRisk > 1 {
		return &InvalidConfigurationError{Field: "max_portfolio_risk", Reason: "must be in (0, 1]"}
	}
	if c.StopLossPct <= 0 || c.StopLossPct > 1 {
		return &InvalidConfigurationError{Field: "stop_loss_pct", Reason: "must be in (0, 1]"}
	}
	if c.ProfitTargetPct <= 0 {
		return &InvalidConfigurationError{Field: "profit_target_pct", Reason: "must be > 0"}
	}
	if c.MaxPositionSize <= 0 {
		return &InvalidConfigurationError{Field: "max_position_size", Reason: "must be > 0"}
	}
	if c.MaxHoldingBars <= 0 {
		return &InvalidConfigurationError{Field: "max_holding_bars", Reason: "must be > 0"}
	}
	if c.PremiumRatio <= 0 {
		return &InvalidConfigurationError{Field: "premium_ratio", Reason: "must be > 0"}
	}
	if c.PremiumLeverage <= 0 {
		return &InvalidConfigurationError{Field: "premium_leverage", Reason: "must be > 0"}
	}
	if c.Annualization <= 0 {
		return &InvalidConfigurationError{Field: "annualization", Reason: "must be > 0"}
	}
	if len(c.StrategyWeights) == 0 {
		return &InvalidConfigurationError{Field: "strategy_weights", Reason: "must name at least one strategy"}
	}
	sum := 0.0
	for name, w := range c.StrategyWeights {
		if w < 0 {
			return &InvalidConfigurationError{Field: "strategy_weights." + name, Reason: "must be >= 0"}
		}
		switch name {
		case StrategyMeanReversion, StrategyMomentumBreakout, StrategyVolatilityBreakout, StrategyMLEnhanced:
		default:
			return &InvalidConfigurationError{Field: "strategy_weights." + name, Reason: "unknown strategy"}
		}
		sum += w
	}
	if math.Abs(sum-1) > weightTolerance {
		return &InvalidConfigurationError{Field: "strategy_weights", Reason: "must sum to 1"}
	}
	return nil
}

// Clone deep-copies the config so variant runs cannot share the weights map.
// The copy cannot fail for a plain struct; anything else is a programming
// error worth stopping on rather than handing a zero config to a run.
func (c StrategyConfig) Clone() StrategyConfig {
	var out StrategyConfig
	if err := copier.CopyWithOption(&out, &c, copier.Option{DeepCopy: true}); err != nil {
		panic(err)
	}
	return out
}

// LoadStrategyConfig reads a config from a YAML or JSON file, picking the
// codec by extension, and validates it.
func LoadStrategyConfig(fileName string) (StrategyConfig, error) {
	var config StrategyConfig
	raw, err := os.ReadFile(fileName)
	if err != nil {
		return config, err
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &config)
	default:
		err = json.Unmarshal(raw, &config)
	}
	if err != nil {
		return config, err
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}
