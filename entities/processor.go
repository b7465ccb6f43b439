package entities

// TransferRequest is what we send to the payment processor's transfer API.
type TransferRequest struct {
	IdempotencyKey     string `json:"idempotency_key"`
	ChargeID           string `json:"charge_id"`
	DestinationAccount string `json:"destination_account"`
	AmountMinor        int64  `json:"amount"`
	Currency           string `json:"currency"`
}
