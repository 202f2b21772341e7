package models

// SignalType is the discrete trading decision a strategy emits.
type SignalType string

const (
	Buy  SignalType = "buy"
	Sell SignalType = "sell"
	Hold SignalType = "hold"
)

// Opposes reports whether two signal types are on opposite sides of the market.
func (s SignalType) Opposes(other SignalType) bool {
	return (s == Buy && other == Sell) || (s == Sell && other == Buy)
}

// Signal is one strategy's decision for one bar. Confidence is in [0, 1].
type Signal struct {
	Timestamp  int64      `json:"timestamp"`
	Type       SignalType `json:"type"`
	Confidence float64    `json:"confidence"`
	Strategy   string     `json:"strategy"`
}

// HoldSignal builds the neutral signal a strategy falls back to when its
// required features are unavailable.
func HoldSignal(strategy string, timestamp int64) Signal {
	return Signal{Timestamp: timestamp, Type: Hold, Confidence: 0, Strategy: strategy}
}
