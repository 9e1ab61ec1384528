package client

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
)

var (
	ErrNotificationTokenMissing = errors.New("notification has no token")
	ErrNotificationTokenInvalid = errors.New("notification token mismatch")
)

// Notification is the payment event the bank posts to the merchant callback
// URL. The payload is signed with the same token algorithm as requests.
type Notification struct {
	TerminalKey string           `json:"TerminalKey"`
	OrderID     string           `json:"OrderId"`
	Success     bool             `json:"Success"`
	Status      acquiring.Status `json:"Status"`
	PaymentID   int64            `json:"PaymentId"`
	ErrorCode   string           `json:"ErrorCode"`
	Amount      int64            `json:"Amount"`
	CardID      json.Number      `json:"CardId,omitempty"`
	Pan         string           `json:"Pan,omitempty"`
	RebillID    json.Number      `json:"RebillId,omitempty"`
	Token       string           `json:"Token"`
}

// ParseNotification verifies the token of a raw callback payload and decodes
// it. The signature covers the root-level scalar fields, exactly like
// request signing.
func ParseNotification(raw []byte, signer TokenSigner) (*Notification, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return nil, fmt.Errorf("failed to decode notification: %w", err)
	}

	token, _ := fields["Token"].(string)
	if token == "" {
		return nil, ErrNotificationTokenMissing
	}

	expected := signer.Sign(scalarParams(fields))
	if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		return nil, ErrNotificationTokenInvalid
	}

	var notification Notification
	if err := json.Unmarshal(raw, &notification); err != nil {
		return nil, fmt.Errorf("failed to parse notification: %w", err)
	}
	return &notification, nil
}
