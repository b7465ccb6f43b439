package event

import (
	"context"
	"fmt"

	"league/entities"
)

func (h Handler) NotifyAccountRegistered(ctx context.Context, event *entities.AccountRegistered) error {
	kind := entities.NotificationWelcomeUser
	switch {
	case event.IsArtist:
		kind = entities.NotificationWelcomeArtist
	case event.IsPromoter:
		kind = entities.NotificationWelcomePromoter
	}

	err := h.notificationsService.Notify(ctx, entities.Notification{
		Kind:      kind,
		Recipient: event.Email,
		Data: map[string]string{
			"name": event.Name,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send welcome notification: %w", err)
	}

	return nil
}

func (h Handler) NotifyPromoterVerified(ctx context.Context, event *entities.PromoterVerified) error {
	err := h.notificationsService.Notify(ctx, entities.Notification{
		Kind:      entities.NotificationVerifiedPromoter,
		Recipient: event.Email,
		Data: map[string]string{
			"name": event.Name,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send verification notification: %w", err)
	}

	return nil
}

// NotifyAccountInvited mails the one-time password to an artist invited to an
// event before they had an account.
func (h Handler) NotifyAccountInvited(ctx context.Context, event *entities.AccountInvited) error {
	err := h.notificationsService.Notify(ctx, entities.Notification{
		Kind:      entities.NotificationArtistAdded,
		Recipient: event.Email,
		Data: map[string]string{
			"otp":   event.OTP,
			"event": event.EventSlug,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send invite notification: %w", err)
	}

	return nil
}
