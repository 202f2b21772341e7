package models

// CapitalPoint is one sample of the capital time series. Capital only moves
// on realized closes; Equity adds the open position's unrealized P&L.
type CapitalPoint struct {
	Timestamp int64   `csv:"timestamp" json:"timestamp"`
	Capital   float64 `csv:"capital" json:"capital"`
	Equity    float64 `csv:"equity" json:"equity"`
}

// Summary aggregates a finished backtest. Every field is defined for a run
// with zero trades.
type Summary struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	TotalReturn   float64 `json:"total_return"`
	TotalPnL      float64 `json:"total_pnl"`
	MaxDrawdown   float64 `json:"max_drawdown"`
	Sharpe        float64 `json:"sharpe"`
	Sortino       float64 `json:"sortino"`
	ProfitFactor  float64 `json:"profit_factor"`
	AverageWin    float64 `json:"average_win"`
	AverageLoss   float64 `json:"average_loss"`
}

// Result is the full output of one backtest run: everything an external
// persistence or dashboard collaborator needs without re-deriving engine
// state.
type Result struct {
	Symbol         string         `json:"symbol"`
	StartTime      int64          `json:"start_time"`
	EndTime        int64          `json:"end_time"`
	InitialCapital float64        `json:"initial_capital"`
	FinalCapital   float64        `json:"final_capital"`
	Trades         []TradeRecord  `json:"trades"`
	Capital        []CapitalPoint `json:"capital"`
	Summary        Summary        `json:"summary"`
}

// Recommendation is the read-only live boundary: the latest combined signal
// with its contributing strategy breakdown and market context.
type Recommendation struct {
	Timestamp    int64    `json:"timestamp"`
	Price        float64  `json:"price"`
	Signal       Signal   `json:"signal"`
	Breakdown    []Signal `json:"breakdown"`
	RSI          float64  `json:"rsi"`
	MACD         float64  `json:"macd"`
	VIXLevel     float64  `json:"vix_level"`
	PriceVsSMA20 float64  `json:"price_vs_sma20"`
	Commentary   []string `json:"commentary"`
}
