package models

import (
	"math"
	"testing"
)

func newTestPosition() *Position {
	return &Position{
		ID:         "p1",
		Symbol:     "^SPX",
		Side:       Call,
		Strike:     1020,
		RefPrice:   1000,
		Quantity:   4,
		EntryPrice: 100,
		EntryTime:  1,
		Open:       true,
	}
}

func TestMarkPriceCall(t *testing.T) {
	p := newTestPosition()
	// Underlying -5.5% at 10x leverage knocks 55% off the premium.
	mark := p.MarkPrice(945, 10)
	if math.Abs(mark-45) > 1e-9 {
		t.Errorf("mark = %v, want 45", mark)
	}
	// Premium never goes negative.
	if mark := p.MarkPrice(800, 10); mark != 0 {
		t.Errorf("mark = %v, want 0 floor", mark)
	}
}

func TestMarkPricePut(t *testing.T) {
	p := newTestPosition()
	p.Side = Put
	mark := p.MarkPrice(950, 10)
	if math.Abs(mark-150) > 1e-9 {
		t.Errorf("put mark = %v, want 150", mark)
	}
}

func TestOpenRisk(t *testing.T) {
	p := newTestPosition()
	// 100 premium x 50% stop x 4 contracts x 100 multiplier.
	if got := p.OpenRisk(0.5); got != 20000 {
		t.Errorf("open risk = %v, want 20000", got)
	}
}

func TestPnLIdempotent(t *testing.T) {
	p := newTestPosition()
	if got := p.RealizedPnL(); got != 0 {
		t.Errorf("open position realized pnl = %v, want 0", got)
	}
	if got := p.UnrealizedPnL(50); got != -20000 {
		t.Errorf("unrealized = %v, want -20000", got)
	}

	p.Close(50, 2, ExitStopLoss)
	for i := 0; i < 3; i++ {
		if got := p.RealizedPnL(); got != -20000 {
			t.Errorf("realized pnl read %d = %v, want -20000", i, got)
		}
	}
	if got := p.UnrealizedPnL(10); got != 0 {
		t.Errorf("closed position unrealized = %v, want 0", got)
	}
}

func TestRecordSnapshot(t *testing.T) {
	p := newTestPosition()
	p.BarsHeld = 3
	p.Close(125, 9, ExitProfitTarget)
	rec := p.Record()
	if rec.PnL != 10000 {
		t.Errorf("record pnl = %v, want 10000", rec.PnL)
	}
	if rec.ExitReason != ExitProfitTarget || rec.BarsHeld != 3 || rec.ExitTime != 9 {
		t.Errorf("record fields wrong: %+v", rec)
	}
}

func TestSignalOpposes(t *testing.T) {
	if !Buy.Opposes(Sell) || !Sell.Opposes(Buy) {
		t.Error("buy and sell should oppose")
	}
	if Buy.Opposes(Hold) || Hold.Opposes(Sell) || Buy.Opposes(Buy) {
		t.Error("hold opposes nothing; a side does not oppose itself")
	}
}
