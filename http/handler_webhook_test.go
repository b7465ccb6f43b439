package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"league/entities"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settlementStub struct {
	err      error
	received []entities.Settlement
}

func (s *settlementStub) Settle(ctx context.Context, settlement entities.Settlement) error {
	s.received = append(s.received, settlement)
	return s.err
}

func postWebhook(t *testing.T, handler *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	err := handler.PostPaymentsWebhook(e.NewContext(req, rec))
	if err != nil {
		e.HTTPErrorHandler(err, e.NewContext(req, rec))
	}

	return rec
}

const validWebhook = `{
	"id": "evt_1",
	"type": "charge.succeeded",
	"data": {"object": {
		"id": "ch_1",
		"amount": 2000,
		"currency": "gbp",
		"customer": "cus_1",
		"destination": "acct_1",
		"metadata": {"cart": "{\"v\":1,\"lines\":[{\"ticket_type\":\"door\",\"quantity\":1}]}"}
	}}
}`

func TestPostPaymentsWebhook(t *testing.T) {
	stub := &settlementStub{}
	handler := &Handler{settlementRepo: stub}

	rec := postWebhook(t, handler, validWebhook)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, stub.received, 1)
	assert.Equal(t, "evt_1", stub.received[0].ProcessorEventID)
	assert.Equal(t, "ch_1", stub.received[0].ChargeID)
}

func TestPostPaymentsWebhook_Malformed(t *testing.T) {
	stub := &settlementStub{}
	handler := &Handler{settlementRepo: stub}

	rec := postWebhook(t, handler, `{"type": "charge.succeeded"`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, stub.received)
}

func TestPostPaymentsWebhook_DuplicateIsAcknowledged(t *testing.T) {
	stub := &settlementStub{err: entities.ErrDuplicateWebhookEvent}
	handler := &Handler{settlementRepo: stub}

	rec := postWebhook(t, handler, validWebhook)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPostPaymentsWebhook_MismatchIsAcknowledged(t *testing.T) {
	stub := &settlementStub{err: entities.ErrCartMismatch}
	handler := &Handler{settlementRepo: stub}

	rec := postWebhook(t, handler, validWebhook)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPostPaymentsWebhook_TransientErrorAsksForRetry(t *testing.T) {
	stub := &settlementStub{err: assert.AnError}
	handler := &Handler{settlementRepo: stub}

	rec := postWebhook(t, handler, validWebhook)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
