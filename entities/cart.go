package entities

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CartVersion tags the cart payload carried in processor charge metadata.
// Unknown versions are rejected instead of guessed at.
const CartVersion = 1

type CartLine struct {
	TicketTypeSlug string  `json:"ticket_type"`
	Quantity       int     `json:"quantity"`
	Vote           *string `json:"vote,omitempty"`
}

type Cart struct {
	Version int        `json:"v"`
	Lines   []CartLine `json:"lines"`
}

func NewCart(lines []CartLine) Cart {
	return Cart{Version: CartVersion, Lines: lines}
}

// ParseCart decodes the metadata payload and validates its shape. Quantities
// must be positive; an empty cart is invalid.
func ParseCart(raw string) (Cart, error) {
	var c Cart
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Cart{}, fmt.Errorf("could not decode cart payload: %w", err)
	}
	if c.Version != CartVersion {
		return Cart{}, fmt.Errorf("unsupported cart version %d", c.Version)
	}
	if len(c.Lines) == 0 {
		return Cart{}, fmt.Errorf("cart has no lines")
	}
	for i, line := range c.Lines {
		if line.TicketTypeSlug == "" {
			return Cart{}, fmt.Errorf("cart line %d has no ticket type", i)
		}
		if line.Quantity <= 0 {
			return Cart{}, fmt.Errorf("cart line %d has non-positive quantity %d", i, line.Quantity)
		}
	}
	return c, nil
}

func (c Cart) Encode() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("could not encode cart: %w", err)
	}
	return string(b), nil
}

// Total recomputes the cart's price from current ticket type prices, keyed by
// slug. A slug missing from prices is a mismatch, not a zero line.
func (c Cart) Total(prices map[string]decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range c.Lines {
		price, ok := prices[line.TicketTypeSlug]
		if !ok {
			return decimal.Zero, fmt.Errorf("unknown ticket type %q: %w", line.TicketTypeSlug, ErrCartMismatch)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}

// ValidateReportedTotal compares the recomputed total against the amount the
// processor reported, in minor units. Anything off by a penny or more fails.
func (c Cart) ValidateReportedTotal(computed decimal.Decimal, reportedMinor int64) error {
	reported := decimal.New(reportedMinor, -2)
	if computed.Sub(reported).Abs().GreaterThanOrEqual(decimal.New(1, -2)) {
		return fmt.Errorf("computed %s vs reported %s: %w", computed, reported, ErrCartMismatch)
	}
	return nil
}
