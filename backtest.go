package spxbot

import (
	"fmt"
	"math"

	"github.com/olaitanojo/spxbot/logger"
	"github.com/olaitanojo/spxbot/models"
)

// backtester owns all mutable simulation state for one run: the open
// position, realized capital, the trade ledger and the capital series.
// Nothing else may touch these; variant runs each get their own instance.
type backtester struct {
	cfg     models.StrategyConfig
	symbol  string
	capital float64

	position *models.Position
	trades   []models.TradeRecord
	capSer   []models.CapitalPoint
}

func newBacktester(cfg models.StrategyConfig) *backtester {
	return &backtester{
		cfg:     cfg,
		symbol:  cfg.Symbol,
		capital: cfg.InitialCapital,
	}
}

// step advances the simulation by one bar. The signal must have been derived
// from features at this bar or earlier; the backtester itself never looks
// ahead. Close triggers are checked in priority order: stop-loss, then
// profit target, then signal reversal, then expiry. Exactly one fires.
func (b *backtester) step(bar *models.Bar, sig models.Signal) {
	if b.position != nil {
		p := b.position
		p.BarsHeld++
		mark := p.MarkPrice(bar.Close, b.cfg.PremiumLeverage)
		stop := p.EntryPrice * (1 - b.cfg.StopLossPct)
		target := p.EntryPrice * (1 + b.cfg.ProfitTargetPct)

		switch {
		case mark <= stop:
			// Fill at the stop itself, capping the recorded loss at the
			// configured percentage even when the mark gapped through it.
			b.close(stop, bar.Timestamp, models.ExitStopLoss)
		case mark >= target:
			b.close(target, bar.Timestamp, models.ExitProfitTarget)
		case sig.Type.Opposes(signalFor(p.Side)):
			b.close(mark, bar.Timestamp, models.ExitReversal)
		case p.BarsHeld >= b.cfg.MaxHoldingBars:
			b.close(mark, bar.Timestamp, models.ExitExpiry)
		}
	}

	// Closed is terminal for the old position; a reversal signal re-enters
	// from Flat on the same bar.
	if b.position == nil && sig.Type != models.Hold {
		b.open(bar, sig)
	}

	equity := b.capital
	if b.position != nil {
		mark := b.position.MarkPrice(bar.Close, b.cfg.PremiumLeverage)
		equity += b.position.UnrealizedPnL(mark)
	}
	b.capSer = append(b.capSer, models.CapitalPoint{
		Timestamp: bar.Timestamp,
		Capital:   b.capital,
		Equity:    equity,
	})
}

func (b *backtester) open(bar *models.Bar, sig models.Signal) {
	side := models.Call
	strike := bar.Close * (1 + b.cfg.StrikeOffsetPct)
	if sig.Type == models.Sell {
		side = models.Put
		strike = bar.Close * (1 - b.cfg.StrikeOffsetPct)
	}
	premium := bar.Close * b.cfg.PremiumRatio
	if premium <= 0 {
		return
	}

	// Size so a stopped-out trade loses at most MaxRiskPerTrade of current
	// capital, bounded by the position cap and the portfolio risk budget.
	riskPerContract := premium * b.cfg.StopLossPct * models.ContractMultiplier
	quantity := math.Floor(b.cfg.MaxRiskPerTrade * b.capital / riskPerContract)
	quantity = math.Min(quantity, b.cfg.MaxPositionSize)
	quantity = math.Min(quantity, math.Floor(b.cfg.MaxPortfolioRisk*b.capital/riskPerContract))
	if quantity < 1 {
		logger.Debugf("skipping %s at %d: risk budget too small for one contract", sig.Type, bar.Timestamp)
		return
	}

	// At most one entry per bar, so symbol plus entry timestamp is unique
	// within a run and stable across replays.
	b.position = &models.Position{
		ID:         fmt.Sprintf("%s-%d", b.symbol, bar.Timestamp),
		Symbol:     b.symbol,
		Side:       side,
		Strike:     strike,
		RefPrice:   bar.Close,
		Quantity:   quantity,
		EntryPrice: premium,
		EntryTime:  bar.Timestamp,
		Open:       true,
	}
	logger.Debugf("open %s %s x%.0f premium %.2f strike %.2f risk %.2f",
		side, b.symbol, quantity, premium, strike, b.position.OpenRisk(b.cfg.StopLossPct))
}

func (b *backtester) close(price float64, timestamp int64, reason models.ExitReason) {
	p := b.position
	p.Close(price, timestamp, reason)
	b.capital += p.RealizedPnL()
	b.trades = append(b.trades, p.Record())
	logger.Debugf("close %s via %s pnl %.2f capital %.2f", p.Symbol, reason, p.RealizedPnL(), b.capital)
	b.position = nil
}

// finish liquidates any position still open at the end of the series so the
// trade ledger and realized capital account for the whole run.
func (b *backtester) finish(bar *models.Bar) {
	if b.position == nil {
		return
	}
	mark := b.position.MarkPrice(bar.Close, b.cfg.PremiumLeverage)
	b.close(mark, bar.Timestamp, models.ExitEndOfData)
	if n := len(b.capSer); n > 0 {
		b.capSer[n-1].Capital = b.capital
		b.capSer[n-1].Equity = b.capital
	}
}

func signalFor(side models.OptionSide) models.SignalType {
	if side == models.Put {
		return models.Sell
	}
	return models.Buy
}
