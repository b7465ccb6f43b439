package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"league/entities"
)

// ProcessorClient talks to the payment processor's REST API. Only transfers
// are initiated from our side; charges arrive via webhooks.
type ProcessorClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewProcessorClient(httpClient *http.Client, baseURL, apiKey string) *ProcessorClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &ProcessorClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// CreateTransfer moves the promoter's share to their connected account. The
// idempotency key makes redeliveries of the command safe. A 4xx from the
// processor is final and reported as ErrTransferRejected.
func (c *ProcessorClient) CreateTransfer(ctx context.Context, request entities.TransferRequest) (string, error) {
	body, err := json.Marshal(map[string]any{
		"amount":             request.AmountMinor,
		"currency":           request.Currency,
		"destination":        request.DestinationAccount,
		"source_transaction": request.ChargeID,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transfers", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Idempotency-Key", request.IdempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call transfers API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var transfer struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&transfer); err != nil {
			return "", fmt.Errorf("could not decode transfer response: %w", err)
		}
		return transfer.ID, nil

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: status %d: %s", entities.ErrTransferRejected, resp.StatusCode, msg)

	default:
		return "", fmt.Errorf("unexpected status code for POST /v1/transfers: %d", resp.StatusCode)
	}
}
