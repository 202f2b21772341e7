package spxbot

import (
	"math"
	"testing"

	"github.com/olaitanojo/spxbot/models"
)

func TestSummarizeZeroTrades(t *testing.T) {
	summary := Summarize(nil, nil, models.DefaultStrategyConfig("^SPX"))
	if summary.TotalTrades != 0 || summary.WinRate != 0 || summary.TotalPnL != 0 ||
		summary.MaxDrawdown != 0 || summary.Sharpe != 0 || summary.Sortino != 0 ||
		summary.ProfitFactor != 0 || summary.AverageWin != 0 || summary.AverageLoss != 0 {
		t.Errorf("zero-trade summary should be all zeros, got %+v", summary)
	}
}

func TestSummarizeTradeMetrics(t *testing.T) {
	trades := []models.TradeRecord{
		{PnL: 100},
		{PnL: -50},
		{PnL: 200},
	}
	capital := []models.CapitalPoint{
		{Timestamp: 1, Capital: 100000, Equity: 100000},
		{Timestamp: 2, Capital: 100250, Equity: 100250},
	}
	summary := Summarize(trades, capital, models.DefaultStrategyConfig("^SPX"))

	if summary.TotalTrades != 3 || summary.WinningTrades != 2 || summary.LosingTrades != 1 {
		t.Errorf("counts wrong: %+v", summary)
	}
	if math.Abs(summary.WinRate-2.0/3.0) > 1e-12 {
		t.Errorf("win rate = %v, want 2/3", summary.WinRate)
	}
	if summary.TotalPnL != 250 {
		t.Errorf("total pnl = %v, want 250", summary.TotalPnL)
	}
	if summary.AverageWin != 150 || summary.AverageLoss != -50 {
		t.Errorf("averages = %v / %v, want 150 / -50", summary.AverageWin, summary.AverageLoss)
	}
	if summary.ProfitFactor != 6 {
		t.Errorf("profit factor = %v, want 6", summary.ProfitFactor)
	}
	if math.Abs(summary.TotalReturn-0.0025) > 1e-12 {
		t.Errorf("total return = %v, want 0.0025", summary.TotalReturn)
	}
}

func TestMaxDrawdown(t *testing.T) {
	capital := []models.CapitalPoint{
		{Capital: 100}, {Capital: 120}, {Capital: 90}, {Capital: 110}, {Capital: 80},
	}
	if got := maxDrawdown(capital); math.Abs(got-1.0/3.0) > 1e-12 {
		t.Errorf("max drawdown = %v, want 1/3 (peak 120, trough 80)", got)
	}
	if got := maxDrawdown(nil); got != 0 {
		t.Errorf("empty series drawdown = %v, want 0", got)
	}
}

func TestRiskAdjustedDegenerateSeries(t *testing.T) {
	flat := []models.CapitalPoint{{Capital: 100}, {Capital: 100}, {Capital: 100}}
	sharpe, sortino := riskAdjusted(flat, 0, 252)
	if sharpe != 0 || sortino != 0 {
		t.Errorf("flat series sharpe/sortino = %v/%v, want 0/0", sharpe, sortino)
	}
	sharpe, sortino = riskAdjusted(flat[:1], 0, 252)
	if sharpe != 0 || sortino != 0 {
		t.Errorf("single-point series sharpe/sortino = %v/%v, want 0/0", sharpe, sortino)
	}
}

func TestRiskAdjustedSigns(t *testing.T) {
	capital := []models.CapitalPoint{
		{Capital: 100}, {Capital: 102}, {Capital: 101},
		{Capital: 104}, {Capital: 103}, {Capital: 107},
	}
	sharpe, sortino := riskAdjusted(capital, 0, 252)
	if sharpe <= 0 {
		t.Errorf("sharpe on a net-up series = %v, want > 0", sharpe)
	}
	if sortino <= 0 {
		t.Errorf("sortino with two down periods = %v, want > 0", sortino)
	}
}
