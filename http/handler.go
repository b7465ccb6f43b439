package http

import (
	"context"

	"league/db"
	"league/entities"

	"github.com/shopspring/decimal"
)

type Handler struct {
	accountRepo    AccountRepository
	leagueRepo     LeagueRepository
	purchaseRepo   PurchaseRepository
	settlementRepo SettlementRepository
	ticketRepo     TicketRepository
	opsRepo        OpsSettlementRepository
}

type AccountRepository interface {
	Create(ctx context.Context, in db.CreateAccount) (entities.Account, error)
	CreateInvited(ctx context.Context, email string, eventSlug string) (entities.Account, error)
	GetByID(ctx context.Context, id int64) (entities.Account, error)
	Authenticate(ctx context.Context, email, password string) (entities.Account, error)
	SetCredit(ctx context.Context, accountID int64, credit decimal.Decimal) error
	VerifyPromoter(ctx context.Context, accountID int64) error
}

type LeagueRepository interface {
	CreateVenue(ctx context.Context, venue entities.Venue) (entities.Venue, error)
	CreateEvent(ctx context.Context, event entities.Event) (entities.Event, error)
	CreateTally(ctx context.Context, tally entities.Tally) (entities.Tally, error)
	RemoveTally(ctx context.Context, slug string) error
	CreateTicketType(ctx context.Context, tt entities.TicketType) (entities.TicketType, error)
	GetEventBySlug(ctx context.Context, slug string) (entities.Event, error)
	ListEvents(ctx context.Context) ([]entities.Event, error)
	TicketTypesForEvent(ctx context.Context, eventID int64) ([]entities.TicketType, error)
	TalliesForEvent(ctx context.Context, eventID int64) ([]entities.Tally, error)
	Standings(ctx context.Context) ([]entities.StandingsRow, error)
	ArtistPoints(ctx context.Context, artistID int64) (decimal.Decimal, error)
}

type PurchaseRepository interface {
	Purchase(ctx context.Context, req db.PurchaseRequest) ([]entities.Ticket, error)
}

type SettlementRepository interface {
	Settle(ctx context.Context, s entities.Settlement) error
}

type TicketRepository interface {
	GetByCode(ctx context.Context, code string) (entities.TicketSummary, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]entities.TicketSummary, error)
	CastVote(ctx context.Context, code string, tallySlug string, callerAccountID int64) (entities.VoteCast, error)
}

type OpsSettlementRepository interface {
	GetAll(ctx context.Context) ([]entities.OpsSettlement, error)
	GetByChargeID(ctx context.Context, chargeID string) (entities.OpsSettlement, error)
}
