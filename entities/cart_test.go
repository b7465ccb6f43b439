package entities_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"league/entities"
)

func TestParseCart(t *testing.T) {
	raw := `{"v":1,"lines":[{"ticket_type":"early-bird","quantity":2,"vote":"the-midnight"},{"ticket_type":"door","quantity":1}]}`

	cart, err := entities.ParseCart(raw)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 2)
	assert.Equal(t, "early-bird", cart.Lines[0].TicketTypeSlug)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	require.NotNil(t, cart.Lines[0].Vote)
	assert.Equal(t, "the-midnight", *cart.Lines[0].Vote)
	assert.Nil(t, cart.Lines[1].Vote)
}

func TestParseCart_Rejects(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `early-bird:2`},
		{name: "unknown version", raw: `{"v":2,"lines":[{"ticket_type":"door","quantity":1}]}`},
		{name: "no lines", raw: `{"v":1,"lines":[]}`},
		{name: "zero quantity", raw: `{"v":1,"lines":[{"ticket_type":"door","quantity":0}]}`},
		{name: "negative quantity", raw: `{"v":1,"lines":[{"ticket_type":"door","quantity":-3}]}`},
		{name: "missing slug", raw: `{"v":1,"lines":[{"quantity":1}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := entities.ParseCart(tc.raw)
			assert.Error(t, err)
		})
	}
}

func TestCartEncodeRoundTrip(t *testing.T) {
	vote := "the-midnight"
	cart := entities.NewCart([]entities.CartLine{
		{TicketTypeSlug: "early-bird", Quantity: 2, Vote: &vote},
	})

	raw, err := cart.Encode()
	require.NoError(t, err)

	parsed, err := entities.ParseCart(raw)
	require.NoError(t, err)
	assert.Equal(t, cart, parsed)
}

func TestCartTotal(t *testing.T) {
	cart := entities.NewCart([]entities.CartLine{
		{TicketTypeSlug: "early-bird", Quantity: 2},
		{TicketTypeSlug: "door", Quantity: 1},
	})
	prices := map[string]decimal.Decimal{
		"early-bird": decimal.RequireFromString("12.50"),
		"door":       decimal.RequireFromString("20.00"),
	}

	total, err := cart.Total(prices)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("45.00")), "got %s", total)
}

func TestCartTotal_UnknownSlugIsMismatch(t *testing.T) {
	cart := entities.NewCart([]entities.CartLine{
		{TicketTypeSlug: "vip", Quantity: 1},
	})

	_, err := cart.Total(map[string]decimal.Decimal{})
	assert.ErrorIs(t, err, entities.ErrCartMismatch)
}

func TestValidateReportedTotal(t *testing.T) {
	cart := entities.NewCart([]entities.CartLine{{TicketTypeSlug: "door", Quantity: 1}})
	computed := decimal.RequireFromString("45.00")

	assert.NoError(t, cart.ValidateReportedTotal(computed, 4500))
	assert.ErrorIs(t, cart.ValidateReportedTotal(computed, 4499), entities.ErrCartMismatch)
	assert.ErrorIs(t, cart.ValidateReportedTotal(computed, 4600), entities.ErrCartMismatch)
}
