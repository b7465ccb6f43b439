package command_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"league/api"
	"league/entities"
	"league/message/command"
	"league/message/event"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu       sync.Mutex
	messages map[string][]*message.Message
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{messages: map[string][]*message.Message{}}
}

func (p *capturePublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.messages[topic] = append(p.messages[topic], messages...)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) published(topic string) []*message.Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]*message.Message{}, p.messages[topic]...)
}

func transferFundsCommand() *entities.TransferFunds {
	return &entities.TransferFunds{
		Header:             entities.NewEventHeaderWithIdempotencyKey("ch_1-2"),
		ChargeID:           "ch_1",
		PromoterAccountID:  2,
		ProcessorAccountID: "acct_1",
		Amount:             entities.NewMoney(decimal.RequireFromString("17.00")),
	}
}

func TestTransferFunds(t *testing.T) {
	publisher := newCapturePublisher()
	processor := &api.ProcessorMock{}
	handler := command.NewHandler(event.NewBus(publisher), processor)

	err := handler.TransferFunds(context.Background(), transferFundsCommand())
	require.NoError(t, err)

	transfers := processor.CreatedTransfers()
	require.Len(t, transfers, 1)
	assert.Equal(t, "acct_1", transfers[0].DestinationAccount)
	assert.Equal(t, int64(1700), transfers[0].AmountMinor)
	assert.Equal(t, "ch_1-2", transfers[0].IdempotencyKey)

	published := publisher.published("events")
	require.Len(t, published, 1)

	var completed entities.TransferCompleted
	require.NoError(t, json.Unmarshal(published[0].Payload, &completed))
	assert.Equal(t, "ch_1", completed.ChargeID)
	assert.NotEmpty(t, completed.TransferID)
}

func TestTransferFunds_RejectionIsFinal(t *testing.T) {
	publisher := newCapturePublisher()
	processor := &api.ProcessorMock{Err: entities.ErrTransferRejected}
	handler := command.NewHandler(event.NewBus(publisher), processor)

	err := handler.TransferFunds(context.Background(), transferFundsCommand())
	require.NoError(t, err, "rejections must not be retried")

	published := publisher.published("events")
	require.Len(t, published, 1)

	var failed entities.TransferFailed
	require.NoError(t, json.Unmarshal(published[0].Payload, &failed))
	assert.Equal(t, "ch_1", failed.ChargeID)
	assert.NotEmpty(t, failed.Reason)
}

func TestTransferFunds_TransientErrorIsRetried(t *testing.T) {
	publisher := newCapturePublisher()
	processor := &api.ProcessorMock{Err: assert.AnError}
	handler := command.NewHandler(event.NewBus(publisher), processor)

	err := handler.TransferFunds(context.Background(), transferFundsCommand())
	assert.Error(t, err)
	assert.Empty(t, publisher.published("events"))
}
