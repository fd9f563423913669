// Package notify posts best-effort chat notifications about new requests.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"git.sr.ht/~jakintosh/requestline/internal/domain"
	"github.com/google/uuid"
)

// Webhook delivers a short message to a chat-style webhook URL whenever a
// request is created. Delivery is best effort: failures are logged and
// dropped, never surfaced to the submitting client.
type Webhook struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

func NewWebhook(url string, logger *slog.Logger) *Webhook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger.With("component", "notify"),
	}
}

type payload struct {
	// DeliveryID lets the receiving side deduplicate if we ever retry.
	DeliveryID string `json:"deliveryId"`
	Content    string `json:"content"`
}

func (n *Webhook) RequestCreated(req *domain.Request) {
	body, err := json.Marshal(payload{
		DeliveryID: uuid.NewString(),
		Content:    fmt.Sprintf("New request from %s: %s", req.SubmittedBy, req.Text),
	})
	if err != nil {
		n.logger.Error("failed to encode webhook payload", "error", err)
		return
	}

	resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(body))
	if err != nil {
		n.logger.Warn("webhook delivery failed", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.logger.Warn("webhook delivery rejected", "status", resp.StatusCode)
	}
}
