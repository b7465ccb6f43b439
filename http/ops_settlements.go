package http

import (
	"errors"
	"fmt"
	"net/http"

	"league/entities"

	"github.com/labstack/echo/v4"
)

func (h *Handler) GetSettlements(c echo.Context) error {
	settlements, err := h.opsRepo.GetAll(c.Request().Context())
	if err != nil {
		return fmt.Errorf("failed getting ops settlements: %w", err)
	}

	return c.JSON(http.StatusOK, settlements)
}

func (h *Handler) GetSettlementByChargeID(c echo.Context) error {
	settlement, err := h.opsRepo.GetByChargeID(c.Request().Context(), c.Param("charge_id"))
	if errors.Is(err, entities.ErrSettlementNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "settlement not found")
	}
	if err != nil {
		return fmt.Errorf("failed getting ops settlement: %w", err)
	}

	return c.JSON(http.StatusOK, settlement)
}
