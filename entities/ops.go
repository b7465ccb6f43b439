package entities

import "time"

// Transfer statuses tracked by the ops settlement read model.
const (
	TransferStatusNone      = "none"
	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
	TransferStatusFailed    = "failed"
)

// OpsSettlement is the operations view of one settled charge, assembled from
// the events it produced. Used for reconciliation against processor exports.
type OpsSettlement struct {
	ChargeID       string `json:"charge_id"`
	Flow           string `json:"flow"`
	BuyerAccountID int64  `json:"buyer_account_id"`
	Amount         Money  `json:"amount"`

	TicketCodes []string `json:"ticket_codes"`

	TransferStatus string `json:"transfer_status"`
	TransferID     string `json:"transfer_id,omitempty"`
	TransferReason string `json:"transfer_reason,omitempty"`

	RecordedAt string    `json:"recorded_at"`
	LastUpdate time.Time `json:"last_update"`
}
