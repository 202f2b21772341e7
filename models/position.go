package models

// OptionSide is the option-proxy direction of a position. A BUY signal opens
// a call proxy, a SELL signal opens a put proxy.
type OptionSide string

const (
	Call OptionSide = "call"
	Put  OptionSide = "put"
)

// Direction maps the side onto the sign of its exposure to the underlying.
func (s OptionSide) Direction() float64 {
	if s == Put {
		return -1
	}
	return 1
}

// ExitReason records which trigger closed a position.
type ExitReason string

const (
	ExitStopLoss     ExitReason = "stop_loss"
	ExitProfitTarget ExitReason = "profit_target"
	ExitReversal     ExitReason = "signal_reversal"
	ExitExpiry       ExitReason = "expiry"
	ExitEndOfData    ExitReason = "end_of_data"
)

// ContractMultiplier is the option contract size: one contract controls 100
// shares of the underlying.
const ContractMultiplier = 100.0

// Position is a simulated option-proxy position. EntryPrice and ExitPrice
// are per-contract premiums; RefPrice is the underlying level at entry, used
// to mark the premium to subsequent bars.
type Position struct {
	ID         string
	Symbol     string
	Side       OptionSide
	Strike     float64
	RefPrice   float64
	Quantity   float64
	EntryPrice float64
	EntryTime  int64
	ExitPrice  float64
	ExitTime   int64
	ExitReason ExitReason
	BarsHeld   int
	Open       bool
}

// MarkPrice projects the premium onto a new underlying level: the entry
// premium scaled by the underlying percent move times the configured
// leverage, floored at zero. A crude delta proxy, not a pricing model.
func (p *Position) MarkPrice(underlying, leverage float64) float64 {
	if p.RefPrice == 0 {
		return p.EntryPrice
	}
	pct := (underlying - p.RefPrice) / p.RefPrice
	mark := p.EntryPrice * (1 + p.Side.Direction()*pct*leverage)
	if mark < 0 {
		mark = 0
	}
	return mark
}

// UnrealizedPnL values the open position against a mark premium.
func (p *Position) UnrealizedPnL(mark float64) float64 {
	if !p.Open {
		return 0
	}
	return (mark - p.EntryPrice) * p.Quantity * ContractMultiplier
}

// RealizedPnL is recomputed from entry and exit prices so the figure is
// idempotent no matter how many times it is read.
func (p *Position) RealizedPnL() float64 {
	if p.Open {
		return 0
	}
	return (p.ExitPrice - p.EntryPrice) * p.Quantity * ContractMultiplier
}

// Close transitions the position to its terminal state.
func (p *Position) Close(price float64, timestamp int64, reason ExitReason) {
	p.ExitPrice = price
	p.ExitTime = timestamp
	p.ExitReason = reason
	p.Open = false
}

// OpenRisk is the capital at risk if the stop is hit.
func (p *Position) OpenRisk(stopLossPct float64) float64 {
	return p.EntryPrice * stopLossPct * p.Quantity * ContractMultiplier
}

// Record snapshots a closed position into an immutable trade record.
func (p *Position) Record() TradeRecord {
	return TradeRecord{
		ID:         p.ID,
		Symbol:     p.Symbol,
		Side:       p.Side,
		Strike:     p.Strike,
		Quantity:   p.Quantity,
		EntryPrice: p.EntryPrice,
		EntryTime:  p.EntryTime,
		ExitPrice:  p.ExitPrice,
		ExitTime:   p.ExitTime,
		ExitReason: p.ExitReason,
		BarsHeld:   p.BarsHeld,
		PnL:        p.RealizedPnL(),
	}
}
