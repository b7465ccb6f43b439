package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"league/entities"

	"github.com/jmoiron/sqlx"
)

// OpsSettlementReadModel maintains the per-charge reconciliation view. It is
// fed by events, so it can be rebuilt from the event log at any time.
type OpsSettlementReadModel struct {
	conn *DB
}

func NewOpsSettlementReadModel(db *DB) OpsSettlementReadModel {
	return OpsSettlementReadModel{conn: db}
}

func (r OpsSettlementReadModel) OnPaymentRecorded(ctx context.Context, event *entities.PaymentRecorded) error {
	transferStatus := entities.TransferStatusNone
	if event.Flow == entities.FlowPaymentIntent {
		transferStatus = entities.TransferStatusPending
	}

	err := r.createReadModel(ctx, entities.OpsSettlement{
		ChargeID:       event.ChargeID,
		Flow:           event.Flow,
		BuyerAccountID: event.BuyerAccountID,
		Amount:         event.Amount,
		TransferStatus: transferStatus,
		RecordedAt:     event.Header.PublishedAt,
		LastUpdate:     time.Now(),
	})
	if err != nil {
		return fmt.Errorf("could not create settlement read model: %w", err)
	}

	return nil
}

func (r OpsSettlementReadModel) OnTicketIssued(ctx context.Context, event *entities.TicketIssued) error {
	if event.ChargeID == "" {
		// credit purchase, no charge to reconcile
		return nil
	}

	return r.updateReadModel(ctx, event.ChargeID, func(rm entities.OpsSettlement) (entities.OpsSettlement, error) {
		for _, code := range rm.TicketCodes {
			if code == event.TicketCode {
				return rm, nil
			}
		}
		rm.TicketCodes = append(rm.TicketCodes, event.TicketCode)

		return rm, nil
	})
}

func (r OpsSettlementReadModel) OnTransferCompleted(ctx context.Context, event *entities.TransferCompleted) error {
	return r.updateReadModel(ctx, event.ChargeID, func(rm entities.OpsSettlement) (entities.OpsSettlement, error) {
		rm.TransferStatus = entities.TransferStatusCompleted
		rm.TransferID = event.TransferID

		return rm, nil
	})
}

func (r OpsSettlementReadModel) OnTransferFailed(ctx context.Context, event *entities.TransferFailed) error {
	return r.updateReadModel(ctx, event.ChargeID, func(rm entities.OpsSettlement) (entities.OpsSettlement, error) {
		rm.TransferStatus = entities.TransferStatusFailed
		rm.TransferReason = event.Reason

		return rm, nil
	})
}

func (r OpsSettlementReadModel) GetAll(ctx context.Context) ([]entities.OpsSettlement, error) {
	var payloads [][]byte
	err := r.conn.Conn.SelectContext(ctx, &payloads, "SELECT payload FROM read_model_ops_settlements")
	if err != nil {
		return nil, fmt.Errorf("could not list settlement read models: %w", err)
	}

	settlements := make([]entities.OpsSettlement, 0, len(payloads))
	for _, payload := range payloads {
		var rm entities.OpsSettlement
		if err := json.Unmarshal(payload, &rm); err != nil {
			return nil, err
		}
		settlements = append(settlements, rm)
	}

	return settlements, nil
}

func (r OpsSettlementReadModel) GetByChargeID(ctx context.Context, chargeID string) (entities.OpsSettlement, error) {
	var payload []byte
	err := r.conn.Conn.QueryRowContext(ctx,
		"SELECT payload FROM read_model_ops_settlements WHERE charge_id = $1",
		chargeID,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return entities.OpsSettlement{}, entities.ErrSettlementNotFound
	}
	if err != nil {
		return entities.OpsSettlement{}, fmt.Errorf("could not get settlement read model: %w", err)
	}

	var rm entities.OpsSettlement
	if err := json.Unmarshal(payload, &rm); err != nil {
		return entities.OpsSettlement{}, err
	}

	return rm, nil
}

func (r OpsSettlementReadModel) createReadModel(ctx context.Context, rm entities.OpsSettlement) error {
	payload, err := json.Marshal(rm)
	if err != nil {
		return err
	}

	_, err = r.conn.Conn.ExecContext(ctx, `
		INSERT INTO read_model_ops_settlements (charge_id, payload)
		VALUES ($1, $2)
		ON CONFLICT (charge_id) DO NOTHING`,
		rm.ChargeID, payload,
	)

	return err
}

func (r OpsSettlementReadModel) updateReadModel(
	ctx context.Context,
	chargeID string,
	updateFunc func(rm entities.OpsSettlement) (entities.OpsSettlement, error),
) error {
	return updateInTx(ctx, r.conn.Conn, sql.LevelRepeatableRead, func(ctx context.Context, tx *sqlx.Tx) error {
		var payload []byte
		err := tx.QueryRowContext(ctx,
			"SELECT payload FROM read_model_ops_settlements WHERE charge_id = $1 FOR UPDATE",
			chargeID,
		).Scan(&payload)
		if err == sql.ErrNoRows {
			// events arrived out of order - retry until PaymentRecorded lands
			return fmt.Errorf("read model for charge %s does not exist yet", chargeID)
		}
		if err != nil {
			return fmt.Errorf("could not find settlement read model: %w", err)
		}

		var rm entities.OpsSettlement
		if err := json.Unmarshal(payload, &rm); err != nil {
			return err
		}

		updated, err := updateFunc(rm)
		if err != nil {
			return err
		}
		updated.LastUpdate = time.Now()

		updatedPayload, err := json.Marshal(updated)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO read_model_ops_settlements (charge_id, payload)
			VALUES ($1, $2)
			ON CONFLICT (charge_id) DO UPDATE SET payload = excluded.payload`,
			chargeID, updatedPayload,
		)
		if err != nil {
			return fmt.Errorf("could not update settlement read model: %w", err)
		}

		return nil
	})
}
