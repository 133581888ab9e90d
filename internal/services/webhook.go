package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// WebhookClient posts billing-relevant notifications (plan upgrades, quota
// hits) to a Slack-compatible incoming webhook.
type WebhookClient struct {
	webhookURL string
	client     *http.Client
}

type webhookMessage struct {
	Text string `json:"text"`
}

func NewWebhookClient() *WebhookClient {
	webhookURL := os.Getenv("UPGRADE_WEBHOOK_URL")
	return &WebhookClient{
		webhookURL: webhookURL,
		client:     &http.Client{},
	}
}

func (c *WebhookClient) NotifyUpgrade(tenantSlug, actorEmail string) error {
	text := fmt.Sprintf(":rocket: Tenant *%s* upgraded to Pro by %s", tenantSlug, actorEmail)
	return c.send(webhookMessage{Text: text})
}

func (c *WebhookClient) NotifyQuotaHit(tenantSlug string) error {
	text := fmt.Sprintf(":warning: Tenant *%s* hit the free-plan note limit", tenantSlug)
	return c.send(webhookMessage{Text: text})
}

func (c *WebhookClient) send(message webhookMessage) error {
	if c.webhookURL == "" {
		return nil
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	resp, err := c.client.Post(c.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
