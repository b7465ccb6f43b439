package http

import (
	"net/http"

	libHttp "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func NewHttpRouter(
	accountRepo AccountRepository,
	leagueRepo LeagueRepository,
	purchaseRepo PurchaseRepository,
	settlementRepo SettlementRepository,
	ticketRepo TicketRepository,
	opsRepo OpsSettlementRepository,
) *echo.Echo {
	e := libHttp.NewEcho()
	e.Use(otelecho.Middleware("league"))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	handler := Handler{
		accountRepo:    accountRepo,
		leagueRepo:     leagueRepo,
		purchaseRepo:   purchaseRepo,
		settlementRepo: settlementRepo,
		ticketRepo:     ticketRepo,
		opsRepo:        opsRepo,
	}

	e.POST("/accounts", handler.PostAccounts)
	e.POST("/accounts/login", handler.PostLogin)
	e.POST("/accounts/invite", handler.PostInvite)
	e.GET("/accounts/:id", handler.GetAccount)
	e.GET("/accounts/:id/tickets", handler.GetAccountTickets)
	e.PUT("/accounts/:id/credit", handler.PutAccountCredit)
	e.PUT("/accounts/:id/verify", handler.PutAccountVerify)

	e.POST("/venues", handler.PostVenues)
	e.POST("/events", handler.PostEvents)
	e.GET("/events", handler.GetEvents)
	e.GET("/events/:slug", handler.GetEvent)
	e.POST("/events/:slug/tallies", handler.PostTallies)
	e.DELETE("/tallies/:slug", handler.DeleteTally)
	e.POST("/events/:slug/ticket-types", handler.PostTicketTypes)
	e.GET("/standings", handler.GetStandings)

	e.POST("/purchases", handler.PostPurchases)
	e.POST("/payments/webhook", handler.PostPaymentsWebhook)

	e.GET("/tickets/:code", handler.GetTicket)
	e.POST("/tickets/:code/vote", handler.PostTicketVote)

	e.GET("/ops/settlements", handler.GetSettlements)
	e.GET("/ops/settlements/:charge_id", handler.GetSettlementByChargeID)

	return e
}
