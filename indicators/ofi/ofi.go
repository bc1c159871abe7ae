// Package ofi implements Order-Flow Imbalance at top-of-book: a per-side
// contribution rule applied to successive (price, size) snapshots of the
// best bid and ask.
package ofi

import "fmt"

// Level is a single (price, size) observation at the top of one side of
// the book.
type Level struct {
	Price float64
	Size  float64
}

// Engine is not safe for concurrent use.
type Engine struct {
	prevBid *Level
	prevAsk *Level
}

// New returns an Engine with no prior observation.
func New() *Engine {
	return &Engine{}
}

// Reset clears prior state.
func (e *Engine) Reset() {
	e.prevBid = nil
	e.prevAsk = nil
}

// Update computes OFI from top-of-book snapshots, where index 0 of each
// slice is the best level. If either side's book is empty, the (possibly
// empty) state is recorded and Update returns (0, true, nil). On the
// first full observation (no prior state), the snapshot is stored and
// Update returns (0, false, nil) — "no result". Otherwise it returns the
// bid-minus-ask contribution and updates state.
func (e *Engine) Update(bidPrices, bidSizes, askPrices, askSizes []float64) (float64, bool, error) {
	bestBid, err := bestLevel(bidPrices, bidSizes)
	if err != nil {
		return 0, false, fmt.Errorf("ofi: bid levels: %w", err)
	}
	bestAsk, err := bestLevel(askPrices, askSizes)
	if err != nil {
		return 0, false, fmt.Errorf("ofi: ask levels: %w", err)
	}

	if bestBid == nil || bestAsk == nil {
		e.prevBid = bestBid
		e.prevAsk = bestAsk
		return 0, true, nil
	}

	if e.prevBid == nil || e.prevAsk == nil {
		e.prevBid = bestBid
		e.prevAsk = bestAsk
		return 0, false, nil
	}

	bidContrib := bidContribution(*bestBid, *e.prevBid)
	askContrib := askContribution(*bestAsk, *e.prevAsk)

	e.prevBid = bestBid
	e.prevAsk = bestAsk

	return bidContrib - askContrib, true, nil
}

func bidContribution(bid, prevBid Level) float64 {
	switch {
	case bid.Price > prevBid.Price:
		return bid.Size
	case bid.Price < prevBid.Price:
		return -prevBid.Size
	default:
		return bid.Size - prevBid.Size
	}
}

func askContribution(ask, prevAsk Level) float64 {
	switch {
	case ask.Price < prevAsk.Price:
		return ask.Size
	case ask.Price > prevAsk.Price:
		return -prevAsk.Size
	default:
		return ask.Size - prevAsk.Size
	}
}

func bestLevel(prices, sizes []float64) (*Level, error) {
	if len(prices) == 0 || len(sizes) == 0 {
		return nil, nil
	}
	if len(prices) != len(sizes) {
		return nil, fmt.Errorf("price/size arrays must have matching length, got %d and %d", len(prices), len(sizes))
	}
	return &Level{Price: prices[0], Size: sizes[0]}, nil
}
