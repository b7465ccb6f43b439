package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"league/entities"
)

func TestParseWebhookEvent_PaymentIntent(t *testing.T) {
	body := []byte(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {
			"id": "pi_1",
			"amount": 4500,
			"currency": "gbp",
			"customer": "cus_1",
			"metadata": {"cart": "{\"v\":1,\"lines\":[{\"ticket_type\":\"door\",\"quantity\":1}]}"},
			"charges": {"data": [{"id": "ch_1", "amount": 4500, "currency": "gbp"}]}
		}}
	}`)

	s, err := entities.ParseWebhookEvent(body)
	require.NoError(t, err)

	assert.Equal(t, "evt_1", s.ProcessorEventID)
	assert.Equal(t, entities.FlowPaymentIntent, s.Flow)
	assert.Equal(t, "ch_1", s.ChargeID)
	assert.Equal(t, "cus_1", s.CustomerID)
	assert.Equal(t, int64(4500), s.AmountMinor)
	assert.NotEmpty(t, s.CartPayload)
}

func TestParseWebhookEvent_PaymentIntentNeedsExactlyOneCharge(t *testing.T) {
	body := []byte(`{
		"id": "evt_2",
		"type": "payment_intent.succeeded",
		"data": {"object": {
			"id": "pi_2",
			"amount": 4500,
			"customer": "cus_1",
			"charges": {"data": [
				{"id": "ch_1", "amount": 2000},
				{"id": "ch_2", "amount": 2500}
			]}
		}}
	}`)

	_, err := entities.ParseWebhookEvent(body)
	assert.ErrorIs(t, err, entities.ErrCartMismatch)
}

func TestParseWebhookEvent_DirectCharge(t *testing.T) {
	body := []byte(`{
		"id": "evt_3",
		"type": "charge.succeeded",
		"data": {"object": {
			"id": "ch_3",
			"amount": 2000,
			"currency": "gbp",
			"customer": "cus_2",
			"destination": "acct_9",
			"metadata": {"cart": "{}"}
		}}
	}`)

	s, err := entities.ParseWebhookEvent(body)
	require.NoError(t, err)

	assert.Equal(t, entities.FlowDirectCharge, s.Flow)
	assert.Equal(t, "acct_9", s.DestinationID)
	assert.Equal(t, "cus_2", s.CustomerID)
}

func TestParseWebhookEvent_DirectChargeNeedsDestination(t *testing.T) {
	body := []byte(`{
		"id": "evt_4",
		"type": "charge.succeeded",
		"data": {"object": {"id": "ch_4", "amount": 2000, "customer": "cus_2"}}
	}`)

	_, err := entities.ParseWebhookEvent(body)
	assert.Error(t, err)
}

func TestParseWebhookEvent_UnknownType(t *testing.T) {
	_, err := entities.ParseWebhookEvent([]byte(`{"id": "evt_5", "type": "invoice.created", "data": {"object": {}}}`))
	assert.Error(t, err)
}

func TestParseWebhookEvent_MissingID(t *testing.T) {
	_, err := entities.ParseWebhookEvent([]byte(`{"type": "charge.succeeded", "data": {"object": {}}}`))
	assert.Error(t, err)
}
