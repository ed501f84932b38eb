package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"comercio-backend/config"
	"comercio-backend/internal/database/models"
)

// Client posts messages through the Meta Graph API for WhatsApp Business.
type Client struct {
	cfg  config.WhatsAppConfig
	http *http.Client
}

func NewClient(cfg config.WhatsAppConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("https://graph.facebook.com/%s/%s/messages", c.cfg.APIVersion, c.cfg.PhoneNumberID)
}

type textMessage struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

func (c *Client) SendText(ctx context.Context, to, body string) error {
	msg := textMessage{MessagingProduct: "whatsapp", To: to, Type: "text"}
	msg.Text.Body = body
	return c.post(ctx, msg)
}

// NotifyOrderStatus sends the short status line buyers get when an order
// moves through the pipeline.
func (c *Client) NotifyOrderStatus(ctx context.Context, to string, order *models.PurchaseOrder) error {
	body := fmt.Sprintf("Your order %s is now %s. Total: %s",
		order.OrderNumber, order.Status, order.TotalAmount.StringFixed(2))
	return c.SendText(ctx, to, body)
}

func (c *Client) post(ctx context.Context, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("whatsapp send failed: status %d: %s", resp.StatusCode, body)
	}
	return nil
}
