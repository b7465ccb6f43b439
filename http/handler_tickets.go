package http

import (
	"errors"
	"net/http"

	"league/entities"

	"github.com/labstack/echo/v4"
)

func (h *Handler) GetTicket(c echo.Context) error {
	summary, err := h.ticketRepo.GetByCode(c.Request().Context(), c.Param("code"))
	if errors.Is(err, entities.ErrTicketNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "ticket not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

type voteRequest struct {
	CallerAccount int64  `json:"caller_account"`
	Tally         string `json:"tally"`
}

func (h *Handler) PostTicketVote(c echo.Context) error {
	var request voteRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.CallerAccount == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "caller_account is required")
	}
	if request.Tally == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "tally is required")
	}

	cast, err := h.ticketRepo.CastVote(c.Request().Context(), c.Param("code"), request.Tally, request.CallerAccount)
	switch {
	case errors.Is(err, entities.ErrTicketNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "ticket not found")
	case errors.Is(err, entities.ErrTallyNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "tally not found")
	case errors.Is(err, entities.ErrNotOwner):
		return echo.NewHTTPError(http.StatusForbidden, "ticket belongs to another account")
	case errors.Is(err, entities.ErrAlreadyVoted):
		return echo.NewHTTPError(http.StatusConflict, "ticket has already voted")
	case errors.Is(err, entities.ErrTallyNotInEvent):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "tally does not belong to the ticket's event")
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, cast)
}
