package http

import (
	"errors"
	"net/http"
	"strconv"

	"league/db"
	"league/entities"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type registerRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Password    string `json:"password"`
	Description string `json:"description"`
	IsArtist    bool   `json:"is_artist"`
	IsPromoter  bool   `json:"is_promoter"`

	ProcessorCustomerID *string `json:"processor_customer_id"`
	ProcessorAccountID  *string `json:"processor_account_id"`
}

func (h *Handler) PostAccounts(c echo.Context) error {
	var request registerRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.Email == "" || request.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	if request.IsArtist && request.IsPromoter {
		return echo.NewHTTPError(http.StatusBadRequest, "account cannot be both artist and promoter")
	}

	account, err := h.accountRepo.Create(c.Request().Context(), db.CreateAccount{
		Email:               request.Email,
		Name:                request.Name,
		Password:            request.Password,
		Description:         request.Description,
		IsArtist:            request.IsArtist,
		IsPromoter:          request.IsPromoter,
		ProcessorCustomerID: request.ProcessorCustomerID,
		ProcessorAccountID:  request.ProcessorAccountID,
	})
	if errors.Is(err, entities.ErrAccountExists) {
		return echo.NewHTTPError(http.StatusConflict, "account already exists")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, account)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) PostLogin(c echo.Context) error {
	var request loginRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	account, err := h.accountRepo.Authenticate(c.Request().Context(), request.Email, request.Password)
	if errors.Is(err, entities.ErrAccountNotFound) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, account)
}

type inviteRequest struct {
	Email     string `json:"email"`
	EventSlug string `json:"event"`
}

// PostInvite registers a placeholder artist account and mails it a one-time
// password, so promoters can book artists who aren't on the platform yet.
func (h *Handler) PostInvite(c echo.Context) error {
	var request inviteRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email is required")
	}

	account, err := h.accountRepo.CreateInvited(c.Request().Context(), request.Email, request.EventSlug)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, account)
}

func (h *Handler) GetAccount(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid account id")
	}

	account, err := h.accountRepo.GetByID(c.Request().Context(), id)
	if errors.Is(err, entities.ErrAccountNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "account not found")
	}
	if err != nil {
		return err
	}

	points := decimal.Zero
	if account.IsArtist {
		points, err = h.leagueRepo.ArtistPoints(c.Request().Context(), account.ID)
		if err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, entities.BuildProfile(account, points))
}

func (h *Handler) GetAccountTickets(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid account id")
	}

	tickets, err := h.ticketRepo.ListByOwner(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tickets)
}

type creditRequest struct {
	Credit decimal.Decimal `json:"credit"`
}

func (h *Handler) PutAccountCredit(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid account id")
	}

	var request creditRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if request.Credit.IsNegative() {
		return echo.NewHTTPError(http.StatusBadRequest, "credit cannot be negative")
	}

	err = h.accountRepo.SetCredit(c.Request().Context(), id, request.Credit)
	if errors.Is(err, entities.ErrAccountNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "account not found")
	}
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) PutAccountVerify(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid account id")
	}

	err = h.accountRepo.VerifyPromoter(c.Request().Context(), id)
	if errors.Is(err, entities.ErrAccountNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "promoter not found")
	}
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
