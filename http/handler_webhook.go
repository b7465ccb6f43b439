package http

import (
	"errors"
	"io"
	"net/http"

	"league/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
)

// PostPaymentsWebhook receives payment notifications from the processor.
// The response code is a contract with the processor's retry loop: 2xx stops
// redelivery, anything else triggers it. Mismatches are acknowledged because
// redelivering them can't fix the cart; they are logged for manual review.
func (h *Handler) PostPaymentsWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}

	settlement, err := entities.ParseWebhookEvent(body)
	if err != nil && !errors.Is(err, entities.ErrCartMismatch) {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed webhook event")
	}
	if err == nil {
		err = h.settlementRepo.Settle(c.Request().Context(), settlement)
	}

	switch {
	case err == nil:
		return c.NoContent(http.StatusOK)

	case errors.Is(err, entities.ErrDuplicateWebhookEvent):
		log.FromContext(c.Request().Context()).
			WithField("processor_event_id", settlement.ProcessorEventID).
			Info("Ignoring redelivered webhook event")
		return c.NoContent(http.StatusOK)

	case errors.Is(err, entities.ErrCartMismatch),
		errors.Is(err, entities.ErrOutOfStock):
		// Money moved at the processor but we can't settle it. Retrying
		// won't change the outcome; a human has to look at it.
		log.FromContext(c.Request().Context()).
			WithField("processor_event_id", settlement.ProcessorEventID).
			WithField("charge_id", settlement.ChargeID).
			WithError(err).
			Error("Webhook settlement needs manual review")
		return c.NoContent(http.StatusOK)

	default:
		return err
	}
}
