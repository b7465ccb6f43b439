package api

import (
	"context"
	"sync"

	"league/entities"
)

type NotifierMock struct {
	mock          sync.Mutex
	Notifications []entities.Notification
}

func (c *NotifierMock) Notify(ctx context.Context, notification entities.Notification) error {
	c.mock.Lock()
	defer c.mock.Unlock()

	c.Notifications = append(c.Notifications, notification)
	return nil
}

func (c *NotifierMock) SentNotifications() []entities.Notification {
	c.mock.Lock()
	defer c.mock.Unlock()

	return append([]entities.Notification{}, c.Notifications...)
}
