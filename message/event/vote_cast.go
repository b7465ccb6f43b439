package event

import (
	"context"
	"fmt"

	"league/entities"
)

// NotifyVoteCast mails the vote receipt to the ticket's owner, which after
// the vote is always the voter. Promoters voting codes from their own stock
// get no mail.
func (h Handler) NotifyVoteCast(ctx context.Context, event *entities.VoteCast) error {
	owner, err := h.accountsRepo.GetByID(ctx, event.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to resolve voter %d: %w", event.OwnerID, err)
	}
	if owner.IsPromoter {
		return nil
	}

	err = h.notificationsService.Notify(ctx, entities.Notification{
		Kind:      entities.NotificationVote,
		Recipient: owner.Email,
		Data: map[string]string{
			"ticket_code": event.TicketCode,
			"tally":       event.TallySlug,
			"event":       event.EventSlug,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send vote notification: %w", err)
	}

	return nil
}
