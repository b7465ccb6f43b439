package db

import (
	"context"
	"testing"

	"league/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueTestTicket(t *testing.T, f fixture) entities.Ticket {
	t.Helper()

	conn := getDB(t)
	repo := NewPurchaseRepository(&conn, getCodes(t), f.accounts)

	tickets, err := repo.Purchase(context.Background(), PurchaseRequest{
		CallerID:       f.buyer.ID,
		TicketTypeSlug: f.tt.Slug,
		Quantity:       1,
	})
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	return tickets[0]
}

func TestCastVote(t *testing.T) {
	f := newFixture(t)
	conn := getDB(t)
	ctx := context.Background()

	ticket := issueTestTicket(t, f)
	repo := NewTicketRepository(&conn)

	cast, err := repo.CastVote(ctx, ticket.Code, f.tally.Slug, f.buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.Code, cast.TicketCode)
	assert.Equal(t, f.tally.Slug, cast.TallySlug)
	assert.Equal(t, f.tally.ArtistID, cast.ArtistID)
	assert.Equal(t, f.buyer.ID, cast.OwnerID)

	summary, err := repo.GetByCode(ctx, ticket.Code)
	require.NoError(t, err)
	require.NotNil(t, summary.VoteSlug)
	assert.Equal(t, f.tally.Slug, *summary.VoteSlug)

	// votes are monotonic
	_, err = repo.CastVote(ctx, ticket.Code, f.tally.Slug, f.buyer.ID)
	assert.ErrorIs(t, err, entities.ErrAlreadyVoted)
}

func TestCastVote_ClaimsUnownedTicket(t *testing.T) {
	f := newFixture(t)
	conn := getDB(t)
	ctx := context.Background()

	require.NoError(t, f.accounts.SetCredit(ctx, f.promoter.ID, decimal.RequireFromString("20.00")))

	purchases := NewPurchaseRepository(&conn, getCodes(t), f.accounts)
	tickets, err := purchases.Purchase(ctx, PurchaseRequest{
		CallerID:       f.promoter.ID,
		TicketTypeSlug: f.tt.Slug,
		Quantity:       1,
		Unclaimed:      true,
	})
	require.NoError(t, err)
	require.Nil(t, tickets[0].OwnerID)

	repo := NewTicketRepository(&conn)
	_, err = repo.CastVote(ctx, tickets[0].Code, f.tally.Slug, f.buyer.ID)
	require.NoError(t, err)

	// the first voter claims the ticket
	summary, err := repo.GetByCode(ctx, tickets[0].Code)
	require.NoError(t, err)
	require.NotNil(t, summary.OwnerID)
	assert.Equal(t, f.buyer.ID, *summary.OwnerID)
}

func TestCastVote_OnlyOwner(t *testing.T) {
	f := newFixture(t)
	conn := getDB(t)

	ticket := issueTestTicket(t, f)
	repo := NewTicketRepository(&conn)

	_, err := repo.CastVote(context.Background(), ticket.Code, f.tally.Slug, f.promoter.ID)
	assert.ErrorIs(t, err, entities.ErrNotOwner)
}

func TestCastVote_TallyMustBelongToEvent(t *testing.T) {
	f := newFixture(t)
	other := newFixture(t)
	conn := getDB(t)

	ticket := issueTestTicket(t, f)
	repo := NewTicketRepository(&conn)

	_, err := repo.CastVote(context.Background(), ticket.Code, other.tally.Slug, f.buyer.ID)
	assert.ErrorIs(t, err, entities.ErrTallyNotInEvent)
}

func TestCastVote_UnknownTicket(t *testing.T) {
	f := newFixture(t)
	conn := getDB(t)

	repo := NewTicketRepository(&conn)

	_, err := repo.CastVote(context.Background(), "nosuch1", f.tally.Slug, f.buyer.ID)
	assert.ErrorIs(t, err, entities.ErrTicketNotFound)
}

func TestStandings(t *testing.T) {
	f := newFixture(t)
	conn := getDB(t)
	ctx := context.Background()

	ticket := issueTestTicket(t, f)
	tickets := NewTicketRepository(&conn)

	_, err := tickets.CastVote(ctx, ticket.Code, f.tally.Slug, f.buyer.ID)
	require.NoError(t, err)

	standings, err := f.league.Standings(ctx)
	require.NoError(t, err)

	var found bool
	for _, row := range standings {
		if row.ArtistID != f.tally.ArtistID {
			continue
		}
		found = true
		assert.Equal(t, 1, row.EventCount)
		assert.True(t, row.Points.Equal(f.tt.Price), "got %s", row.Points)
	}
	require.True(t, found, "artist missing from standings")

	points, err := f.league.ArtistPoints(ctx, f.tally.ArtistID)
	require.NoError(t, err)
	assert.True(t, points.Equal(f.tt.Price), "got %s", points)
}
