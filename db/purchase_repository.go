package db

import (
	"context"
	"database/sql"
	"fmt"

	"league/codes"
	"league/entities"
	"league/message/event"
	"league/message/outbox"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// PurchaseRepository issues tickets paid for with internal credit. The whole
// purchase is one transaction: stock, ledger moves, ticket rows and outgoing
// events commit together or not at all.
type PurchaseRepository struct {
	conn     *DB
	codes    *codes.Generator
	accounts AccountRepository
}

func NewPurchaseRepository(db *DB, codesGen *codes.Generator, accounts AccountRepository) PurchaseRepository {
	return PurchaseRepository{
		conn:     db,
		codes:    codesGen,
		accounts: accounts,
	}
}

type PurchaseRequest struct {
	CallerID       int64
	TicketTypeSlug string
	Quantity       int
	VoteSlug       *string

	// Unclaimed issues tickets with no owner. The caller must be the
	// event's promoter and pays without a counter-credit; the codes are
	// claimed later by whoever votes with them.
	Unclaimed bool
}

func (r PurchaseRepository) Purchase(ctx context.Context, req PurchaseRequest) ([]entities.Ticket, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", req.Quantity)
	}

	var tickets []entities.Ticket

	err := updateInTx(ctx, r.conn.Conn, sql.LevelReadCommitted, func(ctx context.Context, tx *sqlx.Tx) error {
		tt, err := lockTicketTypeTx(ctx, tx, req.TicketTypeSlug)
		if err == sql.ErrNoRows {
			return entities.ErrTicketNotFound
		}
		if err != nil {
			return fmt.Errorf("could not lock ticket type: %w", err)
		}

		ev, err := eventByIDTx(ctx, tx, tt.EventID)
		if err != nil {
			return err
		}

		caller, err := r.accounts.GetByID(ctx, req.CallerID)
		if err != nil {
			return err
		}
		if req.Unclaimed && caller.ID != ev.PromoterID {
			return entities.ErrNotOwner
		}

		var voteID *int64
		if req.VoteSlug != nil {
			tally, err := tallyBySlugTx(ctx, tx, *req.VoteSlug)
			if err != nil {
				return err
			}
			if tally.EventID != ev.ID {
				return entities.ErrTallyNotInEvent
			}
			voteID = &tally.ID
		}

		if err := decrementStockTx(ctx, tx, tt, req.Quantity); err != nil {
			return err
		}

		if err := r.accounts.LockTx(ctx, tx, []int64{caller.ID, ev.PromoterID}); err != nil {
			return err
		}

		// The caller is always the issuer of funds; only buyer-owned
		// tickets pay the promoter, a self-issue is a plain expense.
		total := tt.Price.Mul(decimal.NewFromInt(int64(req.Quantity)))
		if err := r.accounts.DebitTx(ctx, tx, caller.ID, total); err != nil {
			return err
		}
		if !req.Unclaimed {
			if err := r.accounts.CreditTx(ctx, tx, ev.PromoterID, total); err != nil {
				return err
			}
		}

		params := issueParams{
			ownerID:    &caller.ID,
			ownerEmail: caller.Email,
			voteID:     voteID,
			voteSlug:   req.VoteSlug,
		}
		if req.Unclaimed {
			params.ownerID = nil
			params.ownerEmail = ""
		}

		pub, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return err
		}
		eventBus := event.NewBus(pub)

		for i := 0; i < req.Quantity; i++ {
			ticket, issued, err := issueTicketTx(ctx, tx, r.codes, tt, ev, params)
			if err != nil {
				return err
			}

			if err := eventBus.Publish(ctx, issued); err != nil {
				return err
			}

			tickets = append(tickets, ticket)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return tickets, nil
}

type issueParams struct {
	ownerID    *int64
	ownerEmail string
	voteID     *int64
	voteSlug   *string
	chargeID   string
}

// issueTicketTx inserts a ticket row and assigns its code derived from the
// generated id. Two writes; the codes package has no side table to consult.
func issueTicketTx(
	ctx context.Context,
	tx *sqlx.Tx,
	codesGen *codes.Generator,
	tt entities.TicketType,
	ev entities.Event,
	params issueParams,
) (entities.Ticket, entities.TicketIssued, error) {
	ticket := entities.Ticket{
		TicketTypeID: tt.ID,
		OwnerID:      params.ownerID,
		VoteID:       params.voteID,
	}

	row := tx.QueryRowxContext(ctx, `
		INSERT INTO tickets (ticket_type_id, owner_id, vote_id, code)
		VALUES ($1, $2, $3, substr(gen_random_uuid()::text, 1, 16))
		RETURNING id, created_at`,
		ticket.TicketTypeID, ticket.OwnerID, ticket.VoteID,
	)
	if err := row.Scan(&ticket.ID, &ticket.CreatedAt); err != nil {
		return entities.Ticket{}, entities.TicketIssued{}, fmt.Errorf("could not insert ticket: %w", err)
	}

	code, err := codesGen.TicketCode(ticket.ID)
	if err != nil {
		return entities.Ticket{}, entities.TicketIssued{}, err
	}

	_, err = tx.ExecContext(ctx, "UPDATE tickets SET code = $1 WHERE id = $2", code, ticket.ID)
	if err != nil {
		return entities.Ticket{}, entities.TicketIssued{}, fmt.Errorf("could not assign ticket code: %w", err)
	}
	ticket.Code = code

	issued := entities.TicketIssued{
		Header:         entities.NewEventHeader(),
		ChargeID:       params.chargeID,
		TicketID:       ticket.ID,
		TicketCode:     code,
		TicketTypeSlug: tt.Slug,
		EventSlug:      ev.Slug,
		OwnerID:        params.ownerID,
		OwnerEmail:     params.ownerEmail,
		Price:          entities.NewMoney(tt.Price),
		VoteSlug:       params.voteSlug,
	}

	return ticket, issued, nil
}
