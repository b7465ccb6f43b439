package event

import (
	"context"

	"league/entities"
)

type NotificationsService interface {
	Notify(ctx context.Context, notification entities.Notification) error
}

type AccountsRepository interface {
	GetByID(ctx context.Context, id int64) (entities.Account, error)
}

type Handler struct {
	notificationsService NotificationsService
	accountsRepo         AccountsRepository
}

func NewHandler(notificationsService NotificationsService, accountsRepo AccountsRepository) Handler {
	if notificationsService == nil {
		panic("missing notificationsService")
	}
	if accountsRepo == nil {
		panic("missing accountsRepo")
	}

	return Handler{
		notificationsService: notificationsService,
		accountsRepo:         accountsRepo,
	}
}
