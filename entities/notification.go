package entities

// Notification template kinds, mapped to provider template ids by the mailer.
const (
	NotificationWelcomeUser      = "welcome_user"
	NotificationWelcomeArtist    = "welcome_artist"
	NotificationWelcomePromoter  = "welcome_promoter"
	NotificationVerifiedPromoter = "verified_promoter"
	NotificationTicket           = "ticket"
	NotificationArtistAdded      = "artist_added"
	NotificationArtistRemoved    = "artist_removed"
	NotificationVote             = "vote"
)

type Notification struct {
	Kind      string            `json:"kind"`
	Recipient string            `json:"recipient"`
	Data      map[string]string `json:"data"`
}
