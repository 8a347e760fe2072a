package domain

import "github.com/shopspring/decimal"

// PriceChangeEvent is emitted once per (changed product, subscriber) pair at
// the end of a reconciliation pass. PercentChange is nil when the previous
// price was zero, since the percentage is undefined in that case.
type PriceChangeEvent struct {
	EventID       string
	ProductID     uint
	ProductName   string
	ProductURL    string
	PreviousPrice decimal.Decimal
	CurrentPrice  decimal.Decimal
	PercentChange *decimal.Decimal
}

// PercentChangeBetween computes (current - previous) / previous * 100, or nil
// when previous is zero.
func PercentChangeBetween(previous, current decimal.Decimal) *decimal.Decimal {
	if previous.IsZero() {
		return nil
	}
	change := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
	return &change
}
