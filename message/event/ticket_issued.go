package event

import (
	"context"
	"fmt"

	"league/entities"
)

// NotifyTicketIssued mails the ticket code to the owner. Unclaimed tickets
// have no address to mail to, and promoters hold the codes of their own
// purchases already, so both are skipped.
func (h Handler) NotifyTicketIssued(ctx context.Context, event *entities.TicketIssued) error {
	if event.OwnerEmail == "" {
		return nil
	}
	if event.OwnerID != nil {
		owner, err := h.accountsRepo.GetByID(ctx, *event.OwnerID)
		if err != nil {
			return fmt.Errorf("failed to resolve owner %d: %w", *event.OwnerID, err)
		}
		if owner.IsPromoter {
			return nil
		}
	}

	err := h.notificationsService.Notify(ctx, entities.Notification{
		Kind:      entities.NotificationTicket,
		Recipient: event.OwnerEmail,
		Data: map[string]string{
			"ticket_code": event.TicketCode,
			"ticket_type": event.TicketTypeSlug,
			"event":       event.EventSlug,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send ticket notification: %w", err)
	}

	return nil
}
