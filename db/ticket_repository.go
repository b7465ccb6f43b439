package db

import (
	"context"
	"database/sql"
	"fmt"

	"league/entities"
	"league/message/event"
	"league/message/outbox"

	"github.com/jmoiron/sqlx"
)

type TicketRepository struct {
	conn *DB
}

func NewTicketRepository(db *DB) TicketRepository {
	return TicketRepository{conn: db}
}

const ticketSummaryQuery = `
	SELECT
		t.code AS code,
		tt.slug AS ticket_type,
		e.name AS event,
		t.owner_id AS owner_id,
		tal.slug AS vote
	FROM tickets t
	JOIN ticket_types tt ON tt.id = t.ticket_type_id
	JOIN events e ON e.id = tt.event_id
	LEFT JOIN tallies tal ON tal.id = t.vote_id`

func (r TicketRepository) GetByCode(ctx context.Context, code string) (entities.TicketSummary, error) {
	var summary entities.TicketSummary
	err := r.conn.Conn.GetContext(ctx, &summary, ticketSummaryQuery+" WHERE t.code = $1", code)
	if err == sql.ErrNoRows {
		return entities.TicketSummary{}, entities.ErrTicketNotFound
	}
	if err != nil {
		return entities.TicketSummary{}, fmt.Errorf("could not get ticket %q: %w", code, err)
	}

	return summary, nil
}

func (r TicketRepository) ListByOwner(ctx context.Context, ownerID int64) ([]entities.TicketSummary, error) {
	var summaries []entities.TicketSummary
	err := r.conn.Conn.SelectContext(ctx, &summaries, ticketSummaryQuery+" WHERE t.owner_id = $1 ORDER BY t.id", ownerID)
	if err != nil {
		return nil, fmt.Errorf("could not list tickets: %w", err)
	}

	return summaries, nil
}

// CastVote binds a ticket to a tally, once. The vote is monotonic: the
// ticket row is locked, an existing vote refuses the change, and the tally
// must belong to the same event the ticket admits to. An unclaimed ticket is
// claimed by whoever presents its code first.
func (r TicketRepository) CastVote(ctx context.Context, code string, tallySlug string, callerAccountID int64) (entities.VoteCast, error) {
	var cast entities.VoteCast

	err := updateInTx(ctx, r.conn.Conn, sql.LevelReadCommitted, func(ctx context.Context, tx *sqlx.Tx) error {
		var ticket struct {
			ID        int64  `db:"id"`
			OwnerID   *int64 `db:"owner_id"`
			VoteID    *int64 `db:"vote_id"`
			EventID   int64  `db:"event_id"`
			EventSlug string `db:"event_slug"`
		}
		err := tx.GetContext(ctx, &ticket, `
			SELECT t.id, t.owner_id, t.vote_id, tt.event_id, e.slug AS event_slug
			FROM tickets t
			JOIN ticket_types tt ON tt.id = t.ticket_type_id
			JOIN events e ON e.id = tt.event_id
			WHERE t.code = $1
			FOR UPDATE OF t`,
			code,
		)
		if err == sql.ErrNoRows {
			return entities.ErrTicketNotFound
		}
		if err != nil {
			return fmt.Errorf("could not lock ticket: %w", err)
		}

		if ticket.OwnerID != nil && *ticket.OwnerID != callerAccountID {
			return entities.ErrNotOwner
		}
		if ticket.VoteID != nil {
			return entities.ErrAlreadyVoted
		}

		tally, err := tallyBySlugTx(ctx, tx, tallySlug)
		if err != nil {
			return err
		}
		if tally.EventID != ticket.EventID {
			return entities.ErrTallyNotInEvent
		}

		_, err = tx.ExecContext(ctx, "UPDATE tickets SET vote_id = $1, owner_id = $2 WHERE id = $3", tally.ID, callerAccountID, ticket.ID)
		if err != nil {
			return fmt.Errorf("could not store vote: %w", err)
		}

		cast = entities.VoteCast{
			Header:     entities.NewEventHeader(),
			TicketCode: code,
			TallySlug:  tallySlug,
			ArtistID:   tally.ArtistID,
			OwnerID:    callerAccountID,
			EventSlug:  ticket.EventSlug,
		}

		pub, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return err
		}

		return event.NewBus(pub).Publish(ctx, cast)
	})
	if err != nil {
		return entities.VoteCast{}, err
	}

	return cast, nil
}
