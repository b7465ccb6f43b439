package command

import (
	"context"
	"errors"
	"fmt"

	"league/entities"
)

// TransferFunds pays the promoter's share of a settled charge out to their
// connected processor account. Transient processor errors bubble up and are
// retried by the router; a rejection is final and recorded as TransferFailed.
func (h Handler) TransferFunds(ctx context.Context, command *entities.TransferFunds) error {
	transferID, err := h.processorService.CreateTransfer(ctx, entities.TransferRequest{
		IdempotencyKey:     command.Header.IdempotencyKey,
		ChargeID:           command.ChargeID,
		DestinationAccount: command.ProcessorAccountID,
		AmountMinor:        command.Amount.MinorUnits(),
		Currency:           command.Amount.Currency,
	})
	if errors.Is(err, entities.ErrTransferRejected) {
		pubErr := h.eventBus.Publish(ctx, entities.TransferFailed{
			Header:            entities.NewEventHeader(),
			ChargeID:          command.ChargeID,
			PromoterAccountID: command.PromoterAccountID,
			Amount:            command.Amount,
			Reason:            err.Error(),
		})
		if pubErr != nil {
			return fmt.Errorf("failed to publish TransferFailed event: %w", pubErr)
		}

		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}

	err = h.eventBus.Publish(ctx, entities.TransferCompleted{
		Header:            entities.NewEventHeader(),
		ChargeID:          command.ChargeID,
		PromoterAccountID: command.PromoterAccountID,
		Amount:            command.Amount,
		TransferID:        transferID,
	})
	if err != nil {
		return fmt.Errorf("failed to publish TransferCompleted event: %w", err)
	}

	return nil
}
