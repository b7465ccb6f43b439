package http

import (
	"errors"
	"net/http"

	"league/db"
	"league/entities"

	"github.com/labstack/echo/v4"
)

type purchaseRequest struct {
	CallerAccount  int64   `json:"caller_account"`
	TicketTypeSlug string  `json:"ticket_type"`
	Quantity       int     `json:"quantity"`
	Vote           *string `json:"vote"`

	// Unclaimed lets a promoter issue ownerless tickets for their own
	// event; the codes are handed out offline.
	Unclaimed bool `json:"unclaimed"`
}

// PostPurchases issues tickets paid with internal credit.
func (h *Handler) PostPurchases(c echo.Context) error {
	var request purchaseRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.CallerAccount == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "caller_account is required")
	}
	if request.Quantity < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be greater than 0")
	}

	tickets, err := h.purchaseRepo.Purchase(c.Request().Context(), db.PurchaseRequest{
		CallerID:       request.CallerAccount,
		TicketTypeSlug: request.TicketTypeSlug,
		Quantity:       request.Quantity,
		VoteSlug:       request.Vote,
		Unclaimed:      request.Unclaimed,
	})
	switch {
	case errors.Is(err, entities.ErrTicketNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "ticket type not found")
	case errors.Is(err, entities.ErrAccountNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "account not found")
	case errors.Is(err, entities.ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, "only the event's promoter can issue unclaimed tickets")
	case errors.Is(err, entities.ErrTallyNotFound), errors.Is(err, entities.ErrTallyNotInEvent):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "vote is not valid for this event")
	case errors.Is(err, entities.ErrOutOfStock):
		return echo.NewHTTPError(http.StatusConflict, "ticket type is out of stock")
	case errors.Is(err, entities.ErrInsufficientCredit):
		return echo.NewHTTPError(http.StatusPaymentRequired, "insufficient credit")
	case err != nil:
		return err
	}

	return c.JSON(http.StatusCreated, tickets)
}
