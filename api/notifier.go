package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"league/entities"
)

// templateIDs maps notification kinds to provider template ids.
var templateIDs = map[string]string{
	entities.NotificationWelcomeUser:      "d-welcome-user",
	entities.NotificationWelcomeArtist:    "d-welcome-artist",
	entities.NotificationWelcomePromoter:  "d-welcome-promoter",
	entities.NotificationVerifiedPromoter: "d-verified-promoter",
	entities.NotificationTicket:           "d-ticket",
	entities.NotificationArtistAdded:      "d-artist-added",
	entities.NotificationVote:             "d-vote",
}

// NotifierClient sends templated transactional mail. The API key comes from
// configuration, never from code.
type NotifierClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	sender     string
}

func NewNotifierClient(httpClient *http.Client, baseURL, apiKey, sender string) *NotifierClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &NotifierClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		sender:     sender,
	}
}

func (c *NotifierClient) Notify(ctx context.Context, notification entities.Notification) error {
	templateID, ok := templateIDs[notification.Kind]
	if !ok {
		return fmt.Errorf("unknown notification kind %q", notification.Kind)
	}

	payload := map[string]any{
		"from":        map[string]string{"email": c.sender},
		"template_id": templateID,
		"personalizations": []map[string]any{
			{
				"to":                    []map[string]string{{"email": notification.Recipient}},
				"dynamic_template_data": notification.Data,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call mail API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status code for POST /v3/mail/send: %d", resp.StatusCode)
	}

	return nil
}
