package entities

// TransferFunds asks for the promoter's share of a charge to be moved to
// their connected processor account. Published through the outbox so it
// survives the settlement transaction.
type TransferFunds struct {
	Header EventHeader `json:"header"`

	ChargeID           string `json:"charge_id"`
	PromoterAccountID  int64  `json:"promoter_account_id"`
	ProcessorAccountID string `json:"processor_account_id"`
	Amount             Money  `json:"amount"`
}
