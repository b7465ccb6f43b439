package entities

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID             string `json:"id"`
	PublishedAt    string `json:"published_at"`
	IdempotencyKey string `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC().Format(time.RFC3339),
		IdempotencyKey: uuid.NewString(),
	}
}

func NewEventHeaderWithIdempotencyKey(idempotencyKey string) EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC().Format(time.RFC3339),
		IdempotencyKey: idempotencyKey,
	}
}

type IEvent interface {
	IsInternal() bool
}

type TicketIssued struct {
	Header EventHeader `json:"header"`

	// ChargeID is set when the ticket was settled from a processor charge.
	// Credit purchases leave it empty.
	ChargeID string `json:"charge_id,omitempty"`

	TicketID       int64   `json:"ticket_id"`
	TicketCode     string  `json:"ticket_code"`
	TicketTypeSlug string  `json:"ticket_type"`
	EventSlug      string  `json:"event"`
	OwnerID        *int64  `json:"owner_id"`
	OwnerEmail     string  `json:"owner_email"`
	Price          Money   `json:"price"`
	VoteSlug       *string `json:"vote,omitempty"`
}

func (TicketIssued) IsInternal() bool { return false }

type VoteCast struct {
	Header EventHeader `json:"header"`

	TicketCode string `json:"ticket_code"`
	TallySlug  string `json:"tally"`
	ArtistID   int64  `json:"artist_id"`
	// OwnerID is the account holding the ticket after the vote. Voting
	// claims an unclaimed ticket, so this is always the voter.
	OwnerID   int64  `json:"owner_id"`
	EventSlug string `json:"event"`
}

func (VoteCast) IsInternal() bool { return false }

type TallyRemoved struct {
	Header EventHeader `json:"header"`

	TallySlug string `json:"tally"`
	EventSlug string `json:"event"`
	ArtistID  int64  `json:"artist_id"`
}

func (TallyRemoved) IsInternal() bool { return false }

type PaymentRecorded struct {
	Header EventHeader `json:"header"`

	ProcessorEventID string `json:"processor_event_id"`
	ChargeID         string `json:"charge_id"`
	Flow             string `json:"flow"`
	BuyerAccountID   int64  `json:"buyer_account_id"`
	Amount           Money  `json:"amount"`
	TicketCount      int    `json:"ticket_count"`
}

func (PaymentRecorded) IsInternal() bool { return false }

type TransferCompleted struct {
	Header EventHeader `json:"header"`

	ChargeID          string `json:"charge_id"`
	PromoterAccountID int64  `json:"promoter_account_id"`
	Amount            Money  `json:"amount"`
	TransferID        string `json:"transfer_id"`
}

func (TransferCompleted) IsInternal() bool { return false }

type TransferFailed struct {
	Header EventHeader `json:"header"`

	ChargeID          string `json:"charge_id"`
	PromoterAccountID int64  `json:"promoter_account_id"`
	Amount            Money  `json:"amount"`
	Reason            string `json:"reason"`
}

func (TransferFailed) IsInternal() bool { return false }

type AccountRegistered struct {
	Header EventHeader `json:"header"`

	AccountID  int64  `json:"account_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	IsArtist   bool   `json:"is_artist"`
	IsPromoter bool   `json:"is_promoter"`
}

func (AccountRegistered) IsInternal() bool { return false }

type PromoterVerified struct {
	Header EventHeader `json:"header"`

	AccountID int64  `json:"account_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

func (PromoterVerified) IsInternal() bool { return false }

type AccountInvited struct {
	Header EventHeader `json:"header"`

	AccountID int64  `json:"account_id"`
	Email     string `json:"email"`
	OTP       string `json:"otp"`
	EventSlug string `json:"event"`
}

func (AccountInvited) IsInternal() bool { return false }
