package event

import (
	"context"
	"fmt"

	"league/entities"
)

// NotifyTallyRemoved tells the artist they were taken off a lineup.
func (h Handler) NotifyTallyRemoved(ctx context.Context, event *entities.TallyRemoved) error {
	artist, err := h.accountsRepo.GetByID(ctx, event.ArtistID)
	if err != nil {
		return fmt.Errorf("failed to resolve artist %d: %w", event.ArtistID, err)
	}

	err = h.notificationsService.Notify(ctx, entities.Notification{
		Kind:      entities.NotificationArtistRemoved,
		Recipient: artist.Email,
		Data: map[string]string{
			"tally": event.TallySlug,
			"event": event.EventSlug,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send artist removed notification: %w", err)
	}

	return nil
}
