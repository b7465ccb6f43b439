package tests

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"league/api"
	"league/codes"
	"league/db"
	"league/entities"
	"league/message"
	"league/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent(t *testing.T) {
	if os.Getenv("REDIS_ADDR") == "" || os.Getenv("POSTGRES_URL") == "" {
		t.Skip("REDIS_ADDR and POSTGRES_URL are required")
	}

	rdb := message.NewRedisClient(os.Getenv("REDIS_ADDR"))
	defer rdb.Close()

	conn, err := db.NewDBConn(os.Getenv("POSTGRES_URL"))
	require.NoError(t, err)
	defer conn.Close()
	conn.MigrateSchema()

	codesGen, err := codes.NewGenerator("component-test")
	require.NoError(t, err)

	notifier := &api.NotifierMock{}
	processor := &api.ProcessorMock{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		svc := service.New(rdb, conn, codesGen, notifier, processor)
		assert.NoError(t, svc.Run(ctx))
	}()
	waitForHttpServer(t)

	// seed: promoter with a connected account, buyer with a processor
	// customer id, an event with one ticket type and a tally
	promoterAccount := "acct_" + uuid.NewString()[:8]
	var promoter entities.Account
	postJSON(t, "/accounts", map[string]any{
		"email":                uuid.NewString()[:8] + "@example.com",
		"name":                 "Promoter",
		"password":             "secret",
		"is_promoter":          true,
		"processor_account_id": promoterAccount,
	}, http.StatusCreated, &promoter)

	customerID := "cus_" + uuid.NewString()[:8]
	var buyer entities.Account
	postJSON(t, "/accounts", map[string]any{
		"email":                 uuid.NewString()[:8] + "@example.com",
		"name":                  "Buyer",
		"password":              "secret",
		"processor_customer_id": customerID,
	}, http.StatusCreated, &buyer)

	var artist entities.Account
	postJSON(t, "/accounts", map[string]any{
		"email":     uuid.NewString()[:8] + "@example.com",
		"name":      "Artist",
		"password":  "secret",
		"is_artist": true,
	}, http.StatusCreated, &artist)

	var venue entities.Venue
	postJSON(t, "/venues", map[string]any{
		"slug": "venue-" + uuid.NewString()[:8],
		"name": "The Basement",
	}, http.StatusCreated, &venue)

	eventSlug := "event-" + uuid.NewString()[:8]
	var leagueEvent entities.Event
	postJSON(t, "/events", map[string]any{
		"slug":        eventSlug,
		"name":        "Friday Night",
		"promoter_id": promoter.ID,
		"venue_id":    venue.ID,
		"start_time":  time.Now().Add(-time.Hour),
		"end_time":    time.Now().Add(3 * time.Hour),
	}, http.StatusCreated, &leagueEvent)

	ticketTypeSlug := "door-" + uuid.NewString()[:8]
	postJSON(t, fmt.Sprintf("/events/%s/ticket-types", eventSlug), map[string]any{
		"slug":              ticketTypeSlug,
		"name":              "Door",
		"price":             "20.00",
		"tickets_remaining": 10,
	}, http.StatusCreated, nil)

	tallySlug := "tally-" + uuid.NewString()[:8]
	postJSON(t, fmt.Sprintf("/events/%s/tallies", eventSlug), map[string]any{
		"slug":      tallySlug,
		"artist_id": artist.ID,
	}, http.StatusCreated, nil)

	// a processor webhook settles two tickets
	chargeID := "ch_" + uuid.NewString()[:8]
	cart := fmt.Sprintf(`{\"v\":1,\"lines\":[{\"ticket_type\":\"%s\",\"quantity\":2}]}`, ticketTypeSlug)
	webhook := fmt.Sprintf(`{
		"id": "evt_%s",
		"type": "payment_intent.succeeded",
		"data": {"object": {
			"id": "pi_1",
			"amount": 4000,
			"currency": "gbp",
			"customer": "%s",
			"metadata": {"cart": "%s"},
			"charges": {"data": [{"id": "%s", "amount": 4000, "currency": "gbp"}]}
		}}
	}`, uuid.NewString()[:8], customerID, cart, chargeID)

	resp, err := http.Post(baseURL+"/payments/webhook", "application/json", bytes.NewBufferString(webhook))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tickets []entities.TicketSummary
	status := getJSON(t, fmt.Sprintf("/accounts/%d/tickets", buyer.ID), &tickets)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, tickets, 2)

	// the outbox delivers the side effects asynchronously
	assert.EventuallyWithT(t, func(t *assert.CollectT) {
		var found int
		for _, notification := range notifier.SentNotifications() {
			if notification.Kind == entities.NotificationTicket {
				found++
			}
		}
		assert.GreaterOrEqual(t, found, 2, "ticket notifications not sent yet")
	}, 10*time.Second, 100*time.Millisecond)

	assert.EventuallyWithT(t, func(t *assert.CollectT) {
		var transferred bool
		for _, transfer := range processor.CreatedTransfers() {
			if transfer.ChargeID == chargeID {
				transferred = true
				assert.Equal(t, promoterAccount, transfer.DestinationAccount)
				assert.Equal(t, int64(3400), transfer.AmountMinor)
			}
		}
		assert.True(t, transferred, "transfer not created yet")
	}, 10*time.Second, 100*time.Millisecond)

	assert.EventuallyWithT(t, func(t *assert.CollectT) {
		var settlement entities.OpsSettlement
		status := getJSON(t, "/ops/settlements/"+chargeID, &settlement)
		if !assert.Equal(t, http.StatusOK, status) {
			return
		}
		assert.Len(t, settlement.TicketCodes, 2)
		assert.Equal(t, entities.TransferStatusCompleted, settlement.TransferStatus)
	}, 10*time.Second, 100*time.Millisecond)

	// a ticket votes for the tally and the artist climbs the standings
	postJSON(t, fmt.Sprintf("/tickets/%s/vote", tickets[0].Code), map[string]any{
		"caller_account": buyer.ID,
		"tally":          tallySlug,
	}, http.StatusOK, nil)

	var standings []entities.StandingsRow
	status = getJSON(t, "/standings", &standings)
	require.Equal(t, http.StatusOK, status)

	var found bool
	for _, row := range standings {
		if row.ArtistID == artist.ID {
			found = true
		}
	}
	assert.True(t, found, "artist missing from standings")
}

func waitForHttpServer(t *testing.T) {
	t.Helper()

	require.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			resp, err := http.Get(baseURL + "/health")
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()

			assert.Less(t, resp.StatusCode, 300, "API not ready, http status: %d", resp.StatusCode)
		},
		time.Second*10,
		time.Millisecond*50,
	)
}
