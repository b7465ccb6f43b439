package command

import (
	"context"

	"league/entities"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
)

type ProcessorService interface {
	CreateTransfer(ctx context.Context, request entities.TransferRequest) (string, error)
}

type Handler struct {
	processorService ProcessorService

	eventBus *cqrs.EventBus
}

func NewHandler(eventBus *cqrs.EventBus, processorService ProcessorService) Handler {
	if eventBus == nil {
		panic("eventBus is required")
	}
	if processorService == nil {
		panic("processorService is required")
	}

	return Handler{
		processorService: processorService,
		eventBus:         eventBus,
	}
}
