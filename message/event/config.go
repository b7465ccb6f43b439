package event

import (
	"league/entities"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

var marshaler = cqrs.JSONMarshaler{
	GenerateName: cqrs.StructName,
}

// NewProcessorConfig subscribes every handler to the shared events topic with
// its own consumer group. Handlers ack events they don't know; new event
// types don't break old consumers.
func NewProcessorConfig(redisClient *redis.Client, watermillLogger watermill.LoggerAdapter) cqrs.EventProcessorConfig {
	return cqrs.EventProcessorConfig{
		GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
			handlerEvent := params.EventHandler.NewEvent()
			if event, ok := handlerEvent.(entities.IEvent); ok && event.IsInternal() {
				return "internal-events.svc-league." + params.EventName, nil
			}
			return "events", nil
		},
		SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
			return redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        redisClient,
				ConsumerGroup: "svc-league.events." + params.HandlerName,
			}, watermillLogger)
		},
		AckOnUnknownEvent: true,
		Marshaler:         marshaler,
		Logger:            watermillLogger,
	}
}
