package entities

import (
	"encoding/json"
	"fmt"
)

// Settlement flows. PaymentIntent charges land on the platform account and
// owe the promoter a transfer; direct charges already went to the promoter's
// connected account.
const (
	FlowPaymentIntent = "payment_intent"
	FlowDirectCharge  = "direct_charge"
)

// WebhookEvent is the envelope the payment processor posts. Only the fields
// settlement depends on are decoded; the rest is kept raw for the archive.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type Charge struct {
	ID          string            `json:"id"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	CustomerID  string            `json:"customer"`
	OnBehalfOf  string            `json:"on_behalf_of"`
	Destination string            `json:"destination"`
	Metadata    map[string]string `json:"metadata"`
}

type PaymentIntent struct {
	ID         string            `json:"id"`
	Amount     int64             `json:"amount"`
	Currency   string            `json:"currency"`
	CustomerID string            `json:"customer"`
	Metadata   map[string]string `json:"metadata"`
	Charges    struct {
		Data []Charge `json:"data"`
	} `json:"charges"`
}

// Settlement is the normalized view of a successful payment, regardless of
// which webhook type delivered it.
type Settlement struct {
	ProcessorEventID string
	Flow             string
	ChargeID         string
	CustomerID       string
	DestinationID    string
	AmountMinor      int64
	Currency         string
	CartPayload      string
}

// ParseWebhookEvent extracts a Settlement from the raw webhook body.
// payment_intent.succeeded must carry exactly one charge; charge.succeeded
// with a destination is a direct charge.
func ParseWebhookEvent(body []byte) (Settlement, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return Settlement{}, fmt.Errorf("could not decode webhook event: %w", err)
	}
	if ev.ID == "" {
		return Settlement{}, fmt.Errorf("webhook event has no id")
	}

	switch ev.Type {
	case "payment_intent.succeeded":
		var pi PaymentIntent
		if err := json.Unmarshal(ev.Data.Object, &pi); err != nil {
			return Settlement{}, fmt.Errorf("could not decode payment intent: %w", err)
		}
		if len(pi.Charges.Data) != 1 {
			return Settlement{}, fmt.Errorf("payment intent %s carries %d charges: %w", pi.ID, len(pi.Charges.Data), ErrCartMismatch)
		}
		charge := pi.Charges.Data[0]
		customer := pi.CustomerID
		if customer == "" {
			customer = charge.CustomerID
		}
		return Settlement{
			ProcessorEventID: ev.ID,
			Flow:             FlowPaymentIntent,
			ChargeID:         charge.ID,
			CustomerID:       customer,
			AmountMinor:      pi.Amount,
			Currency:         pi.Currency,
			CartPayload:      pi.Metadata["cart"],
		}, nil

	case "charge.succeeded":
		var charge Charge
		if err := json.Unmarshal(ev.Data.Object, &charge); err != nil {
			return Settlement{}, fmt.Errorf("could not decode charge: %w", err)
		}
		dest := charge.Destination
		if dest == "" {
			dest = charge.OnBehalfOf
		}
		if dest == "" {
			return Settlement{}, fmt.Errorf("charge %s has no destination account", charge.ID)
		}
		return Settlement{
			ProcessorEventID: ev.ID,
			Flow:             FlowDirectCharge,
			ChargeID:         charge.ID,
			CustomerID:       charge.CustomerID,
			DestinationID:    dest,
			AmountMinor:      charge.Amount,
			Currency:         charge.Currency,
			CartPayload:      charge.Metadata["cart"],
		}, nil

	default:
		return Settlement{}, fmt.Errorf("unhandled webhook event type %q", ev.Type)
	}
}
