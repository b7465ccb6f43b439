package entities_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"league/entities"
)

func TestMoneyMinorUnitsRoundTrip(t *testing.T) {
	m := entities.MoneyFromMinorUnits(4599)

	assert.Equal(t, "GBP", m.Currency)
	assert.True(t, m.Amount.Equal(decimal.RequireFromString("45.99")))
	assert.Equal(t, int64(4599), m.MinorUnits())
}

func TestPromoterShare(t *testing.T) {
	line := decimal.RequireFromString("20.00")
	share := entities.NewMoney(line.Mul(entities.PromoterShare))

	assert.Equal(t, int64(1700), share.MinorUnits())
}
