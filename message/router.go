package message

import (
	"encoding/json"
	"time"

	"league/db"
	"league/entities"
	"league/message/command"
	"league/message/event"
	"league/message/outbox"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func NewWatermillRouter(
	pgSubscriber message.Subscriber,
	redisPublisher message.Publisher,
	redisClient *redis.Client,
	eventProcessorConfig cqrs.EventProcessorConfig,
	commandProcessorConfig cqrs.CommandProcessorConfig,
	eventHandler event.Handler,
	commandHandler command.Handler,
	opsReadModel db.OpsSettlementReadModel,
	eventLog db.EventLogRepository,
	watermillLogger watermill.LoggerAdapter,
) *message.Router {
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		panic(err)
	}

	useMiddlewares(router, watermillLogger)

	_, err = outbox.NewForwarder(pgSubscriber, redisPublisher, watermillLogger, router)
	if err != nil {
		panic(err)
	}

	eventProcessor, err := cqrs.NewEventProcessorWithConfig(router, eventProcessorConfig)
	if err != nil {
		panic(err)
	}

	commandProcessor, err := cqrs.NewCommandProcessorWithConfig(router, commandProcessorConfig)
	if err != nil {
		panic(err)
	}

	err = commandProcessor.AddHandlers(
		cqrs.NewCommandHandler(
			"TransferFunds",
			commandHandler.TransferFunds,
		),
	)
	if err != nil {
		panic(err)
	}

	err = eventProcessor.AddHandlers(
		cqrs.NewEventHandler(
			"NotifyTicketIssued",
			eventHandler.NotifyTicketIssued,
		),
		cqrs.NewEventHandler(
			"NotifyVoteCast",
			eventHandler.NotifyVoteCast,
		),
		cqrs.NewEventHandler(
			"NotifyAccountRegistered",
			eventHandler.NotifyAccountRegistered,
		),
		cqrs.NewEventHandler(
			"NotifyPromoterVerified",
			eventHandler.NotifyPromoterVerified,
		),
		cqrs.NewEventHandler(
			"NotifyAccountInvited",
			eventHandler.NotifyAccountInvited,
		),
		cqrs.NewEventHandler(
			"NotifyTallyRemoved",
			eventHandler.NotifyTallyRemoved,
		),
		cqrs.NewEventHandler(
			"OpsReadModelPaymentRecorded",
			opsReadModel.OnPaymentRecorded,
		),
		cqrs.NewEventHandler(
			"OpsReadModelTicketIssued",
			opsReadModel.OnTicketIssued,
		),
		cqrs.NewEventHandler(
			"OpsReadModelTransferCompleted",
			opsReadModel.OnTransferCompleted,
		),
		cqrs.NewEventHandler(
			"OpsReadModelTransferFailed",
			opsReadModel.OnTransferFailed,
		),
	)
	if err != nil {
		panic(err)
	}

	archiveSubscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        redisClient,
		ConsumerGroup: "svc-league.events.archive",
	}, watermillLogger)
	if err != nil {
		panic(err)
	}

	router.AddNoPublisherHandler(
		"events_archive",
		"events",
		archiveSubscriber,
		func(msg *message.Message) error {
			return eventLog.Store(msg.Context(), envelopeFromMessage(msg))
		},
	)

	return router
}

// envelopeFromMessage archives any event from the shared topic without
// knowing its type. The header inside the payload is the source of truth;
// message metadata fills the gaps.
func envelopeFromMessage(msg *message.Message) entities.EventEnvelope {
	var payload struct {
		Header entities.EventHeader `json:"header"`
	}
	_ = json.Unmarshal(msg.Payload, &payload)

	id := payload.Header.ID
	if id == "" {
		id = msg.UUID
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	publishedAt, err := time.Parse(time.RFC3339, payload.Header.PublishedAt)
	if err != nil {
		publishedAt = time.Now().UTC()
	}

	name := msg.Metadata.Get("name")
	if name == "" {
		name = "unknown"
	}

	return entities.EventEnvelope{
		ID:          id,
		PublishedAt: publishedAt,
		Name:        name,
		Payload:     msg.Payload,
	}
}
