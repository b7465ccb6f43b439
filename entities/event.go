package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type Venue struct {
	ID          int64  `json:"id" db:"id"`
	Slug        string `json:"slug" db:"slug"`
	Name        string `json:"name" db:"name"`
	Address     string `json:"address" db:"address"`
	Description string `json:"description" db:"description"`
}

// Event is a promoted night at a venue, the scope within which tallies and
// ticket types live.
type Event struct {
	ID         int64     `json:"id" db:"id"`
	Slug       string    `json:"slug" db:"slug"`
	Name       string    `json:"name" db:"name"`
	PromoterID int64     `json:"promoter_id" db:"promoter_id"`
	VenueID    int64     `json:"venue_id" db:"venue_id"`
	StartTime  time.Time `json:"start_time" db:"start_time"`
	EndTime    time.Time `json:"end_time" db:"end_time"`
}

// Tally is an artist's lineup slot within one event; tickets vote for it.
type Tally struct {
	ID       int64  `json:"id" db:"id"`
	Slug     string `json:"slug" db:"slug"`
	ArtistID int64  `json:"artist_id" db:"artist_id"`
	EventID  int64  `json:"event_id" db:"event_id"`
}

type StandingsRow struct {
	ArtistID   int64           `json:"artist_id" db:"artist_id"`
	Name       string          `json:"name" db:"name"`
	EventCount int             `json:"event_count" db:"event_count"`
	Points     decimal.Decimal `json:"points" db:"points"`
}
