package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"league/entities"
)

// EventLogRepository is the append-only archive of everything published on
// the events topic. Read models can be rebuilt by replaying it.
type EventLogRepository struct {
	conn *DB
}

func NewEventLogRepository(db *DB) EventLogRepository {
	return EventLogRepository{conn: db}
}

func (r EventLogRepository) Store(ctx context.Context, envelope entities.EventEnvelope) error {
	_, err := r.conn.Conn.ExecContext(ctx, `
		INSERT INTO event_log (event_id, published_at, event_name, event_payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id) DO NOTHING`,
		envelope.ID, envelope.PublishedAt, envelope.Name, envelope.Payload,
	)
	if err != nil {
		return fmt.Errorf("could not store event in log: %w", err)
	}

	return nil
}

func (r EventLogRepository) All(ctx context.Context) ([]entities.EventEnvelope, error) {
	var envelopes []entities.EventEnvelope
	err := r.conn.Conn.SelectContext(ctx, &envelopes, "SELECT * FROM event_log ORDER BY published_at, event_id")
	if err != nil {
		return nil, fmt.Errorf("could not read event log: %w", err)
	}

	return envelopes, nil
}

// RebuildOpsSettlements replays the archived events into the settlement read
// model. The truncate plus replay is not atomic; run it while the service is
// stopped.
func RebuildOpsSettlements(ctx context.Context, eventLog EventLogRepository, rm OpsSettlementReadModel) error {
	_, err := eventLog.conn.Conn.ExecContext(ctx, "TRUNCATE read_model_ops_settlements")
	if err != nil {
		return fmt.Errorf("could not truncate read model: %w", err)
	}

	envelopes, err := eventLog.All(ctx)
	if err != nil {
		return err
	}

	// PaymentRecorded creates the per-charge row, but within one settlement
	// it is published after the ticket events. Seed all rows first.
	for _, envelope := range envelopes {
		if !strings.HasSuffix(envelope.Name, "PaymentRecorded") {
			continue
		}

		var event entities.PaymentRecorded
		if err := json.Unmarshal(envelope.Payload, &event); err != nil {
			return err
		}
		if err := rm.OnPaymentRecorded(ctx, &event); err != nil {
			return fmt.Errorf("could not replay %s: %w", envelope.Name, err)
		}
	}

	for _, envelope := range envelopes {
		switch {
		case strings.HasSuffix(envelope.Name, "TicketIssued"):
			var event entities.TicketIssued
			if err := json.Unmarshal(envelope.Payload, &event); err != nil {
				return err
			}
			err = rm.OnTicketIssued(ctx, &event)

		case strings.HasSuffix(envelope.Name, "TransferCompleted"):
			var event entities.TransferCompleted
			if err := json.Unmarshal(envelope.Payload, &event); err != nil {
				return err
			}
			err = rm.OnTransferCompleted(ctx, &event)

		case strings.HasSuffix(envelope.Name, "TransferFailed"):
			var event entities.TransferFailed
			if err := json.Unmarshal(envelope.Payload, &event); err != nil {
				return err
			}
			err = rm.OnTransferFailed(ctx, &event)

		default:
			continue
		}

		if err != nil {
			return fmt.Errorf("could not replay %s: %w", envelope.Name, err)
		}
	}

	return nil
}
