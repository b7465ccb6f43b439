package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketType is a priced admission category for one event. TicketsRemaining
// is the scarce counter; nil means unlimited. Only the purchase transaction
// decrements it.
type TicketType struct {
	ID               int64           `json:"id" db:"id"`
	EventID          int64           `json:"event_id" db:"event_id"`
	Slug             string          `json:"slug" db:"slug"`
	Name             string          `json:"name" db:"name"`
	Price            decimal.Decimal `json:"price" db:"price"`
	TicketsRemaining *int            `json:"tickets_remaining" db:"tickets_remaining"`
}

type Ticket struct {
	ID           int64     `json:"id" db:"id"`
	TicketTypeID int64     `json:"ticket_type_id" db:"ticket_type_id"`
	OwnerID      *int64    `json:"owner_id" db:"owner_id"`
	VoteID       *int64    `json:"vote_id" db:"vote_id"`
	Code         string    `json:"code" db:"code"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// TicketSummary is the read shape served for a ticket code: the ticket plus
// the names a holder cares about.
type TicketSummary struct {
	Code           string  `json:"code" db:"code"`
	TicketTypeSlug string  `json:"ticket_type" db:"ticket_type"`
	EventName      string  `json:"event" db:"event"`
	OwnerID        *int64  `json:"owner_id" db:"owner_id"`
	VoteSlug       *string `json:"vote" db:"vote"`
}
