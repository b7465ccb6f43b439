package entities

import "github.com/shopspring/decimal"

// DefaultCurrency is the only currency the league settles in.
const DefaultCurrency = "GBP"

// PromoterShare is the fraction of a line total transferred to the
// promoter's connected account on the payment-intent flow.
var PromoterShare = decimal.RequireFromString("0.85")

type Money struct {
	Amount   decimal.Decimal `json:"amount" db:"amount"`
	Currency string          `json:"currency" db:"currency"`
}

func NewMoney(amount decimal.Decimal) Money {
	return Money{Amount: amount, Currency: DefaultCurrency}
}

// MoneyFromMinorUnits converts an integer amount of pence into Money.
func MoneyFromMinorUnits(minor int64) Money {
	return Money{Amount: decimal.New(minor, -2), Currency: DefaultCurrency}
}

// MinorUnits returns the amount in pence, rounded to the nearest unit.
func (m Money) MinorUnits() int64 {
	return m.Amount.Shift(2).Round(0).IntPart()
}
