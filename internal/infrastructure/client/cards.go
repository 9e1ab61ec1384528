package client

import (
	"context"

	"go.uber.org/zap"
)

// GetCardList returns the customer's saved cards. The API answers with a bare
// JSON array rather than the usual envelope.
func (c *Client) GetCardList(ctx context.Context, req *GetCardListRequest) ([]Card, error) {
	req.TerminalKey = c.terminalKey

	var cards []Card
	if err := c.callList(ctx, "GetCardList", req, &cards); err != nil {
		return nil, err
	}

	c.logger.Debug("card list fetched",
		zap.String("customer_key", req.CustomerKey),
		zap.Int("cards", len(cards)))

	return cards, nil
}

// AddCard opens a card attachment session for a customer.
func (c *Client) AddCard(ctx context.Context, req *AddCardRequest) (*AddCardResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp AddCardResponse
	if err := c.call(ctx, "AddCard", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AttachCard submits encrypted card data into an attachment session.
func (c *Client) AttachCard(ctx context.Context, req *AttachCardRequest) (*AttachCardResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp AttachCardResponse
	if err := c.call(ctx, "AttachCard", req, &resp); err != nil {
		return nil, err
	}

	c.logger.Info("card attach submitted",
		zap.String("request_key", resp.RequestKey),
		zap.String("status", resp.Status.String()))

	return &resp, nil
}

// GetAddCardState fetches the progress of an attachment session.
func (c *Client) GetAddCardState(ctx context.Context, req *GetAddCardStateRequest) (*GetAddCardStateResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp GetAddCardStateResponse
	if err := c.call(ctx, "GetAddCardState", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveCard detaches a saved card from a customer.
func (c *Client) RemoveCard(ctx context.Context, req *RemoveCardRequest) (*RemoveCardResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp RemoveCardResponse
	if err := c.call(ctx, "RemoveCard", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitRandomAmount confirms a LOOP_CHECKING attachment by submitting the
// hold amount the customer observed.
func (c *Client) SubmitRandomAmount(ctx context.Context, req *SubmitRandomAmountRequest) (*SubmitRandomAmountResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp SubmitRandomAmountResponse
	if err := c.call(ctx, "SubmitRandomAmount", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
