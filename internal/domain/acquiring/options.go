package acquiring

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CheckType controls how a card is verified when it is attached to a customer.
type CheckType string

const (
	CheckTypeNo      CheckType = "NO"
	CheckTypeHold    CheckType = "HOLD"
	CheckType3DS     CheckType = "3DS"
	CheckType3DSHold CheckType = "3DSHOLD"
)

// OrderOptions describes the order being paid.
type OrderOptions struct {
	OrderID     string `validate:"required"`
	Amount      Money
	Description string
	Recurrent   bool
	Receipt     *Receipt
	SuccessURL  string `validate:"omitempty,url"`
	FailURL     string `validate:"omitempty,url"`
	// AdditionalData is merged into the DATA block of Init.
	AdditionalData map[string]string
}

// CustomerOptions identifies the paying customer.
type CustomerOptions struct {
	CustomerKey string
	Email       string    `validate:"omitempty,email"`
	CheckType   CheckType `validate:"omitempty,oneof=NO HOLD 3DS 3DSHOLD"`
}

// FeatureOptions carries behavior switches that do not affect the order.
type FeatureOptions struct {
	// DuplicateEmailToReceipt copies the customer email into the receipt
	// when the receipt itself carries none.
	DuplicateEmailToReceipt bool
	// AppBased3DSVersions lists server 3DS versions handled by the
	// app-based challenge flow. Empty means the default set.
	AppBased3DSVersions []string
}

// Receipt is fiscalization data forwarded verbatim inside Init.
type Receipt struct {
	Email    string        `json:"Email,omitempty"`
	Phone    string        `json:"Phone,omitempty"`
	Taxation string        `json:"Taxation"`
	Items    []ReceiptItem `json:"Items"`
}

type ReceiptItem struct {
	Name     string `json:"Name"`
	Price    int64  `json:"Price"`
	Quantity string `json:"Quantity"`
	Amount   int64  `json:"Amount"`
	Tax      string `json:"Tax"`
}

// PaymentOptions is the immutable input of a payment process. The engine
// clones it per attempt and never mutates the caller's copy.
type PaymentOptions struct {
	TerminalKey string `validate:"required"`
	Order       OrderOptions
	Customer    CustomerOptions
	Features    FeatureOptions
}

// Validate fails fast on missing required options. Invariant violations here
// are programmer errors and are never funneled into a failed payment state.
func (o *PaymentOptions) Validate() error {
	if o == nil {
		return errors.New("payment options are required")
	}
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid payment options: %w", err)
	}
	if !o.Order.Amount.IsPositive() {
		return errors.New("order amount must be positive")
	}
	return nil
}

// Clone returns a deep copy safe to hand to a payment attempt.
func (o *PaymentOptions) Clone() *PaymentOptions {
	if o == nil {
		return nil
	}
	cp := *o
	if o.Order.Receipt != nil {
		receipt := *o.Order.Receipt
		receipt.Items = append([]ReceiptItem(nil), o.Order.Receipt.Items...)
		cp.Order.Receipt = &receipt
	}
	if o.Order.AdditionalData != nil {
		data := make(map[string]string, len(o.Order.AdditionalData))
		for k, v := range o.Order.AdditionalData {
			data[k] = v
		}
		cp.Order.AdditionalData = data
	}
	cp.Features.AppBased3DSVersions = append([]string(nil), o.Features.AppBased3DSVersions...)
	return &cp
}
