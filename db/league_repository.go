package db

import (
	"context"
	"database/sql"
	"fmt"

	"league/entities"
	"league/message/event"
	"league/message/outbox"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// LeagueRepository manages the catalog: venues, events, lineup tallies and
// ticket types.
type LeagueRepository struct {
	conn *DB
}

func NewLeagueRepository(db *DB) LeagueRepository {
	return LeagueRepository{conn: db}
}

func (r LeagueRepository) CreateVenue(ctx context.Context, venue entities.Venue) (entities.Venue, error) {
	row := r.conn.Conn.QueryRowxContext(ctx, `
		INSERT INTO venues (slug, name, address, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		venue.Slug, venue.Name, venue.Address, venue.Description,
	)
	if err := row.Scan(&venue.ID); err != nil {
		return entities.Venue{}, fmt.Errorf("could not insert venue: %w", err)
	}

	return venue, nil
}

func (r LeagueRepository) CreateEvent(ctx context.Context, event entities.Event) (entities.Event, error) {
	row := r.conn.Conn.QueryRowxContext(ctx, `
		INSERT INTO events (slug, name, promoter_id, venue_id, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		event.Slug, event.Name, event.PromoterID, event.VenueID, event.StartTime, event.EndTime,
	)
	if err := row.Scan(&event.ID); err != nil {
		return entities.Event{}, fmt.Errorf("could not insert event: %w", err)
	}

	return event, nil
}

func (r LeagueRepository) CreateTally(ctx context.Context, tally entities.Tally) (entities.Tally, error) {
	row := r.conn.Conn.QueryRowxContext(ctx, `
		INSERT INTO tallies (slug, artist_id, event_id)
		VALUES ($1, $2, $3)
		RETURNING id`,
		tally.Slug, tally.ArtistID, tally.EventID,
	)
	if err := row.Scan(&tally.ID); err != nil {
		return entities.Tally{}, fmt.Errorf("could not insert tally: %w", err)
	}

	return tally, nil
}

// RemoveTally drops an artist from an event's lineup and tells them so.
func (r LeagueRepository) RemoveTally(ctx context.Context, slug string) error {
	return updateInTx(ctx, r.conn.Conn, sql.LevelReadCommitted, func(ctx context.Context, tx *sqlx.Tx) error {
		var removed struct {
			ArtistID int64 `db:"artist_id"`
			EventID  int64 `db:"event_id"`
		}
		err := tx.GetContext(ctx, &removed, "DELETE FROM tallies WHERE slug = $1 RETURNING artist_id, event_id", slug)
		if err == sql.ErrNoRows {
			return entities.ErrTallyNotFound
		}
		if err != nil {
			return fmt.Errorf("could not remove tally: %w", err)
		}

		ev, err := eventByIDTx(ctx, tx, removed.EventID)
		if err != nil {
			return err
		}

		pub, err := outbox.NewPublisherForDb(ctx, tx)
		if err != nil {
			return err
		}

		return event.NewBus(pub).Publish(ctx, entities.TallyRemoved{
			Header:    entities.NewEventHeader(),
			TallySlug: slug,
			EventSlug: ev.Slug,
			ArtistID:  removed.ArtistID,
		})
	})
}

func (r LeagueRepository) CreateTicketType(ctx context.Context, tt entities.TicketType) (entities.TicketType, error) {
	row := r.conn.Conn.QueryRowxContext(ctx, `
		INSERT INTO ticket_types (event_id, slug, name, price, tickets_remaining)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		tt.EventID, tt.Slug, tt.Name, tt.Price, tt.TicketsRemaining,
	)
	if err := row.Scan(&tt.ID); err != nil {
		return entities.TicketType{}, fmt.Errorf("could not insert ticket type: %w", err)
	}

	return tt, nil
}

func (r LeagueRepository) GetEventBySlug(ctx context.Context, slug string) (entities.Event, error) {
	var event entities.Event
	err := r.conn.Conn.GetContext(ctx, &event, "SELECT * FROM events WHERE slug = $1", slug)
	if err != nil {
		return entities.Event{}, fmt.Errorf("could not get event %q: %w", slug, err)
	}

	return event, nil
}

func (r LeagueRepository) ListEvents(ctx context.Context) ([]entities.Event, error) {
	var events []entities.Event
	err := r.conn.Conn.SelectContext(ctx, &events, "SELECT * FROM events ORDER BY start_time")
	if err != nil {
		return nil, fmt.Errorf("could not list events: %w", err)
	}

	return events, nil
}

func (r LeagueRepository) TicketTypesForEvent(ctx context.Context, eventID int64) ([]entities.TicketType, error) {
	var types []entities.TicketType
	err := r.conn.Conn.SelectContext(ctx, &types, "SELECT * FROM ticket_types WHERE event_id = $1 ORDER BY price", eventID)
	if err != nil {
		return nil, fmt.Errorf("could not list ticket types: %w", err)
	}

	return types, nil
}

func (r LeagueRepository) TalliesForEvent(ctx context.Context, eventID int64) ([]entities.Tally, error) {
	var tallies []entities.Tally
	err := r.conn.Conn.SelectContext(ctx, &tallies, "SELECT * FROM tallies WHERE event_id = $1 ORDER BY id", eventID)
	if err != nil {
		return nil, fmt.Errorf("could not list tallies: %w", err)
	}

	return tallies, nil
}

// Standings ranks artists by points. An artist earns the face value of every
// ticket voting for one of their tallies, counted once the event has started.
func (r LeagueRepository) Standings(ctx context.Context) ([]entities.StandingsRow, error) {
	var rows []entities.StandingsRow
	err := r.conn.Conn.SelectContext(ctx, &rows, `
		SELECT
			a.id AS artist_id,
			a.name AS name,
			COUNT(DISTINCT t.event_id) AS event_count,
			COALESCE(SUM(tt.price), 0) AS points
		FROM accounts a
		JOIN tallies t ON t.artist_id = a.id
		JOIN events e ON e.id = t.event_id AND e.start_time <= now()
		LEFT JOIN tickets tk ON tk.vote_id = t.id
		LEFT JOIN ticket_types tt ON tt.id = tk.ticket_type_id
		WHERE a.is_artist
		GROUP BY a.id, a.name
		ORDER BY points DESC, a.id`)
	if err != nil {
		return nil, fmt.Errorf("could not query standings: %w", err)
	}

	return rows, nil
}

func (r LeagueRepository) ArtistPoints(ctx context.Context, artistID int64) (decimal.Decimal, error) {
	var points decimal.Decimal
	err := r.conn.Conn.GetContext(ctx, &points, `
		SELECT COALESCE(SUM(tt.price), 0)
		FROM tallies t
		JOIN events e ON e.id = t.event_id AND e.start_time <= now()
		JOIN tickets tk ON tk.vote_id = t.id
		JOIN ticket_types tt ON tt.id = tk.ticket_type_id
		WHERE t.artist_id = $1`,
		artistID,
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not query artist points: %w", err)
	}

	return points, nil
}

// lockTicketTypeTx loads a ticket type row under FOR UPDATE so stock checks
// and decrements are serialized per type.
func lockTicketTypeTx(ctx context.Context, tx *sqlx.Tx, slug string) (entities.TicketType, error) {
	var tt entities.TicketType
	err := tx.GetContext(ctx, &tt, "SELECT * FROM ticket_types WHERE slug = $1 FOR UPDATE", slug)
	if err != nil {
		return entities.TicketType{}, err
	}

	return tt, nil
}

// decrementStockTx takes quantity tickets off the remaining pool. The row
// must already be locked. A nil pool means unlimited stock.
func decrementStockTx(ctx context.Context, tx *sqlx.Tx, tt entities.TicketType, quantity int) error {
	if tt.TicketsRemaining == nil {
		return nil
	}
	res, err := tx.ExecContext(ctx,
		"UPDATE ticket_types SET tickets_remaining = tickets_remaining - $1 WHERE id = $2 AND tickets_remaining >= $1",
		quantity, tt.ID,
	)
	if err != nil {
		return fmt.Errorf("could not decrement stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entities.ErrOutOfStock
	}

	return nil
}

func tallyBySlugTx(ctx context.Context, tx *sqlx.Tx, slug string) (entities.Tally, error) {
	var tally entities.Tally
	err := tx.GetContext(ctx, &tally, "SELECT * FROM tallies WHERE slug = $1", slug)
	if err == sql.ErrNoRows {
		return entities.Tally{}, entities.ErrTallyNotFound
	}
	if err != nil {
		return entities.Tally{}, fmt.Errorf("could not get tally %q: %w", slug, err)
	}

	return tally, nil
}

func eventByIDTx(ctx context.Context, tx *sqlx.Tx, id int64) (entities.Event, error) {
	var event entities.Event
	err := tx.GetContext(ctx, &event, "SELECT * FROM events WHERE id = $1", id)
	if err != nil {
		return entities.Event{}, fmt.Errorf("could not get event %d: %w", id, err)
	}

	return event, nil
}
