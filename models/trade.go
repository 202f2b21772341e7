package models

// TradeRecord is the finalized snapshot of a closed position. Only the
// performance reporter consumes these.
type TradeRecord struct {
	ID         string     `csv:"id" json:"id"`
	Symbol     string     `csv:"symbol" json:"symbol"`
	Side       OptionSide `csv:"side" json:"side"`
	Strike     float64    `csv:"strike" json:"strike"`
	Quantity   float64    `csv:"quantity" json:"quantity"`
	EntryPrice float64    `csv:"entry_price" json:"entry_price"`
	EntryTime  int64      `csv:"entry_time" json:"entry_time"`
	ExitPrice  float64    `csv:"exit_price" json:"exit_price"`
	ExitTime   int64      `csv:"exit_time" json:"exit_time"`
	ExitReason ExitReason `csv:"exit_reason" json:"exit_reason"`
	BarsHeld   int        `csv:"bars_held" json:"bars_held"`
	PnL        float64    `csv:"pnl" json:"pnl"`
}
