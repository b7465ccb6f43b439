package entities

import "errors"

var (
	// ErrOutOfStock is returned when a ticket type's remaining pool is exhausted.
	ErrOutOfStock = errors.New("ticket type is out of stock")

	// ErrInsufficientCredit is returned when the issuer's balance cannot cover the price.
	ErrInsufficientCredit = errors.New("insufficient credit")

	// ErrCartMismatch is returned when a webhook's reported total disagrees with
	// the total recomputed from the cart, or the charge structure is invalid.
	// The whole webhook becomes a no-op and needs manual review.
	ErrCartMismatch = errors.New("cart does not match reported charge")

	// ErrDuplicateWebhookEvent is returned on redelivery of an already
	// processed processor event id. Not an error to the processor.
	ErrDuplicateWebhookEvent = errors.New("webhook event already processed")

	ErrAlreadyVoted    = errors.New("ticket has already voted")
	ErrNotOwner        = errors.New("ticket belongs to another account")
	ErrTallyNotInEvent = errors.New("tally does not belong to the ticket's event")

	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTallyNotFound      = errors.New("tally not found")
	ErrSettlementNotFound = errors.New("settlement not found")

	ErrAccountExists   = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransferRejected is returned when the processor rejects a transfer
	// outright. Retrying won't help; the failure is recorded instead.
	ErrTransferRejected = errors.New("transfer rejected by processor")
)
