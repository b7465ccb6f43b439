package entities

import "time"

// EventEnvelope is a row in the append-only event archive. The payload is
// stored verbatim so read models can be rebuilt from it.
type EventEnvelope struct {
	ID          string    `json:"event_id" db:"event_id"`
	PublishedAt time.Time `json:"published_at" db:"published_at"`
	Name        string    `json:"event_name" db:"event_name"`
	Payload     []byte    `json:"event_payload" db:"event_payload"`
}
