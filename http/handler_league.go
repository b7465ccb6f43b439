package http

import (
	"net/http"
	"time"

	"league/entities"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

func (h *Handler) PostVenues(c echo.Context) error {
	var venue entities.Venue
	if err := c.Bind(&venue); err != nil {
		return err
	}
	if venue.Slug == "" || venue.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "slug and name are required")
	}

	created, err := h.leagueRepo.CreateVenue(c.Request().Context(), venue)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

type eventRequest struct {
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
	PromoterID int64     `json:"promoter_id"`
	VenueID    int64     `json:"venue_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

func (h *Handler) PostEvents(c echo.Context) error {
	var request eventRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if request.Slug == "" || request.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "slug and name are required")
	}
	if !request.EndTime.After(request.StartTime) {
		return echo.NewHTTPError(http.StatusBadRequest, "end_time must be after start_time")
	}

	created, err := h.leagueRepo.CreateEvent(c.Request().Context(), entities.Event{
		Slug:       request.Slug,
		Name:       request.Name,
		PromoterID: request.PromoterID,
		VenueID:    request.VenueID,
		StartTime:  request.StartTime,
		EndTime:    request.EndTime,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetEvents(c echo.Context) error {
	events, err := h.leagueRepo.ListEvents(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, events)
}

type eventResponse struct {
	entities.Event
	TicketTypes []entities.TicketType `json:"ticket_types"`
	Tallies     []entities.Tally      `json:"tallies"`
}

func (h *Handler) GetEvent(c echo.Context) error {
	event, err := h.leagueRepo.GetEventBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	types, err := h.leagueRepo.TicketTypesForEvent(c.Request().Context(), event.ID)
	if err != nil {
		return err
	}
	tallies, err := h.leagueRepo.TalliesForEvent(c.Request().Context(), event.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, eventResponse{
		Event:       event,
		TicketTypes: types,
		Tallies:     tallies,
	})
}

type tallyRequest struct {
	Slug     string `json:"slug"`
	ArtistID int64  `json:"artist_id"`
}

func (h *Handler) PostTallies(c echo.Context) error {
	event, err := h.leagueRepo.GetEventBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	var request tallyRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if request.Slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "slug is required")
	}

	tally, err := h.leagueRepo.CreateTally(c.Request().Context(), entities.Tally{
		Slug:     request.Slug,
		ArtistID: request.ArtistID,
		EventID:  event.ID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, tally)
}

func (h *Handler) DeleteTally(c echo.Context) error {
	err := h.leagueRepo.RemoveTally(c.Request().Context(), c.Param("slug"))
	if err == entities.ErrTallyNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "tally not found")
	}
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

type ticketTypeRequest struct {
	Slug             string          `json:"slug"`
	Name             string          `json:"name"`
	Price            decimal.Decimal `json:"price"`
	TicketsRemaining *int            `json:"tickets_remaining"`
}

func (h *Handler) PostTicketTypes(c echo.Context) error {
	event, err := h.leagueRepo.GetEventBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}

	var request ticketTypeRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if request.Slug == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "slug is required")
	}
	if request.Price.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, "price cannot be negative")
	}

	tt, err := h.leagueRepo.CreateTicketType(c.Request().Context(), entities.TicketType{
		EventID:          event.ID,
		Slug:             request.Slug,
		Name:             request.Name,
		Price:            request.Price,
		TicketsRemaining: request.TicketsRemaining,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, tt)
}

func (h *Handler) GetStandings(c echo.Context) error {
	standings, err := h.leagueRepo.Standings(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, standings)
}
