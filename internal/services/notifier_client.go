package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotifierClient talks to the internal notification service that delivers
// beneficiary confirmation pins to the account holder (e-mail / sms).
type NotifierClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewNotifierClient(baseURL string, log *zap.Logger) *NotifierClient {
	return &NotifierClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

type PinDelivery struct {
	UserID        uuid.UUID `json:"user_id"`
	Email         string    `json:"email"`
	BeneficiaryID int64     `json:"beneficiary_id"`
	Currency      string    `json:"currency"`
	Name          string    `json:"name"`
	Pin           string    `json:"pin"`
	ExpiresAt     time.Time `json:"expires_at"`
}

func (c *NotifierClient) SendPin(ctx context.Context, d PinDelivery) error {
	body, err := json.Marshal(d)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/internal/beneficiaries/pin", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notifier unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("notifier returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
