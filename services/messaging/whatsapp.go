package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const graphAPIBase = "https://graph.facebook.com/v18.0"

// WhatsAppChannel delivers customer notifications through the Cloud API.
type WhatsAppChannel struct {
	apiKey  string
	phoneID string
	client  *http.Client
}

func NewWhatsAppChannel(apiKey, phoneID string) *WhatsAppChannel {
	return &WhatsAppChannel{
		apiKey:  apiKey,
		phoneID: phoneID,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *WhatsAppChannel) Name() string { return "whatsapp" }

func (c *WhatsAppChannel) Send(ctx context.Context, msg Message) (string, error) {
	if msg.ToPhone == "" {
		return "", fmt.Errorf("no phone number on message")
	}

	body := map[string]any{
		"messaging_product": "whatsapp",
		"to":                normalizePhone(msg.ToPhone),
		"type":              "text",
		"text": map[string]any{
			"body": msg.Subject + "\n\n" + msg.Body,
		},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/messages", graphAPIBase, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("whatsapp API returned %d: %s", resp.StatusCode, string(detail))
	}

	var out struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err == nil && len(out.Messages) > 0 {
		return out.Messages[0].ID, nil
	}
	return "sent", nil
}

// normalizePhone strips formatting and prefixes the default country code for
// bare 10-digit numbers.
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 {
		return "91" + digits
	}
	return digits
}
