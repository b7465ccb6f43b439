package db

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"league/codes"
	"league/entities"
	"league/message/outbox"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	testDB    DB
	getDBOnce sync.Once
	testCodes *codes.Generator
	codesOnce sync.Once
)

func getDB(t *testing.T) DB {
	t.Helper()

	if os.Getenv("POSTGRES_URL") == "" {
		t.Skip("POSTGRES_URL not set")
	}

	getDBOnce.Do(func() {
		var err error
		testDB, err = NewDBConn(os.Getenv("POSTGRES_URL"))
		if err != nil {
			panic(err)
		}
		testDB.MigrateSchema()

		// creates the outbox tables the publishers write into
		outbox.SubscribeForPGMessages(testDB.Conn, watermill.NopLogger{})
	})

	return testDB
}

func getCodes(t *testing.T) *codes.Generator {
	t.Helper()

	codesOnce.Do(func() {
		var err error
		testCodes, err = codes.NewGenerator("test-salt")
		if err != nil {
			panic(err)
		}
	})

	return testCodes
}

func uniqueSlug(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func uniqueEmail() string {
	return uuid.NewString()[:8] + "@example.com"
}

type fixture struct {
	accounts AccountRepository
	league   LeagueRepository

	buyer    entities.Account
	promoter entities.Account
	event    entities.Event
	tt       entities.TicketType
	tally    entities.Tally
}

// newFixture seeds a promoter with an event, one ticket type priced 20.00
// with 10 tickets, a tally, and a buyer with 100.00 credit.
func newFixture(t *testing.T) fixture {
	t.Helper()

	conn := getDB(t)
	ctx := context.Background()

	accounts := NewAccountRepository(&conn, getCodes(t))
	league := NewLeagueRepository(&conn)

	buyerCustomerID := "cus_" + uuid.NewString()[:8]
	buyer, err := accounts.Create(ctx, CreateAccount{
		Email:               uniqueEmail(),
		Name:                "Buyer",
		Password:            "secret",
		ProcessorCustomerID: &buyerCustomerID,
	})
	require.NoError(t, err)
	require.NoError(t, accounts.SetCredit(ctx, buyer.ID, decimal.RequireFromString("100.00")))
	buyer.Credit = decimal.RequireFromString("100.00")

	promoterAccountID := "acct_" + uuid.NewString()[:8]
	promoter, err := accounts.Create(ctx, CreateAccount{
		Email:              uniqueEmail(),
		Name:               "Promoter",
		Password:           "secret",
		IsPromoter:         true,
		ProcessorAccountID: &promoterAccountID,
	})
	require.NoError(t, err)

	artist, err := accounts.Create(ctx, CreateAccount{
		Email:    uniqueEmail(),
		Name:     "Artist",
		Password: "secret",
		IsArtist: true,
	})
	require.NoError(t, err)

	venue, err := league.CreateVenue(ctx, entities.Venue{
		Slug: uniqueSlug("venue"),
		Name: "The Basement",
	})
	require.NoError(t, err)

	event, err := league.CreateEvent(ctx, entities.Event{
		Slug:       uniqueSlug("event"),
		Name:       "Friday Night",
		PromoterID: promoter.ID,
		VenueID:    venue.ID,
		StartTime:  time.Now().Add(-time.Hour),
		EndTime:    time.Now().Add(3 * time.Hour),
	})
	require.NoError(t, err)

	remaining := 10
	tt, err := league.CreateTicketType(ctx, entities.TicketType{
		EventID:          event.ID,
		Slug:             uniqueSlug("door"),
		Name:             "Door",
		Price:            decimal.RequireFromString("20.00"),
		TicketsRemaining: &remaining,
	})
	require.NoError(t, err)

	tally, err := league.CreateTally(ctx, entities.Tally{
		Slug:     uniqueSlug("tally"),
		ArtistID: artist.ID,
		EventID:  event.ID,
	})
	require.NoError(t, err)

	return fixture{
		accounts: accounts,
		league:   league,
		buyer:    buyer,
		promoter: promoter,
		event:    event,
		tt:       tt,
		tally:    tally,
	}
}

func webhookBody(eventID, chargeID, customerID, cartPayload string, amountMinor int64) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"type": "payment_intent.succeeded",
		"data": {"object": {
			"id": "pi_1",
			"amount": %d,
			"currency": "gbp",
			"customer": %q,
			"metadata": {"cart": %q},
			"charges": {"data": [{"id": %q, "amount": %d, "currency": "gbp"}]}
		}}
	}`, eventID, amountMinor, customerID, cartPayload, chargeID, amountMinor))
}

func webhookBodyDirect(eventID, chargeID, destinationID, cartPayload string, amountMinor int64) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"type": "charge.succeeded",
		"data": {"object": {
			"id": %q,
			"amount": %d,
			"currency": "gbp",
			"destination": %q,
			"metadata": {"cart": %q}
		}}
	}`, eventID, chargeID, amountMinor, destinationID, cartPayload))
}
