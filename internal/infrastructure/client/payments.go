package client

import (
	"context"

	"go.uber.org/zap"
)

// Init opens a payment session and returns the server-assigned payment id.
func (c *Client) Init(ctx context.Context, req *InitRequest) (*InitResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp InitResponse
	if err := c.call(ctx, "Init", req, &resp); err != nil {
		return nil, err
	}

	c.logger.Info("payment session created",
		zap.Int64("payment_id", resp.PaymentID),
		zap.String("order_id", resp.OrderID))

	return &resp, nil
}

// Check3DSVersion asks which 3-D Secure version applies to the card.
func (c *Client) Check3DSVersion(ctx context.Context, req *Check3DSVersionRequest) (*Check3DSVersionResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp Check3DSVersionResponse
	if err := c.call(ctx, "Check3dsVersion", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FinishAuthorize executes the authorization of a session.
func (c *Client) FinishAuthorize(ctx context.Context, req *FinishAuthorizeRequest) (*FinishAuthorizeResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp FinishAuthorizeResponse
	if err := c.call(ctx, "FinishAuthorize", req, &resp); err != nil {
		return nil, err
	}

	c.logger.Info("authorization finished",
		zap.Int64("payment_id", resp.PaymentID),
		zap.String("status", resp.Status.String()))

	return &resp, nil
}

// Charge executes a recurring payment against a stored rebill id.
func (c *Client) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp ChargeResponse
	if err := c.call(ctx, "Charge", req, &resp); err != nil {
		return nil, err
	}

	c.logger.Info("recurring charge executed",
		zap.Int64("payment_id", resp.PaymentID),
		zap.String("status", resp.Status.String()))

	return &resp, nil
}

// Confirm retries a declined recurring charge with an encrypted CVC.
func (c *Client) Confirm(ctx context.Context, req *ConfirmRequest) (*ConfirmResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp ConfirmResponse
	if err := c.call(ctx, "Confirm", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetState fetches the current payment status.
func (c *Client) GetState(ctx context.Context, req *GetStateRequest) (*GetStateResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp GetStateResponse
	if err := c.call(ctx, "GetState", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetQr fetches the SBP payload (deeplink) for a session.
func (c *Client) GetQr(ctx context.Context, req *GetQrRequest) (*GetQrResponse, error) {
	req.TerminalKey = c.terminalKey
	if req.DataType == "" {
		req.DataType = "PAYLOAD"
	}

	var resp GetQrResponse
	if err := c.call(ctx, "GetQr", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetStaticQr fetches the terminal-wide reusable SBP payload.
func (c *Client) GetStaticQr(ctx context.Context, req *GetStaticQrRequest) (*GetStaticQrResponse, error) {
	req.TerminalKey = c.terminalKey
	if req.DataType == "" {
		req.DataType = "PAYLOAD"
	}

	var resp GetStaticQrResponse
	if err := c.call(ctx, "GetStaticQr", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetBankAppLink fetches the redirect deeplink for the bank-app flow.
func (c *Client) GetBankAppLink(ctx context.Context, req *AppLinkRequest) (*AppLinkResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp AppLinkResponse
	if err := c.call(ctx, "GetTinkoffPayLink", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMirPayLink fetches the redirect deeplink for the Mir Pay flow.
func (c *Client) GetMirPayLink(ctx context.Context, req *AppLinkRequest) (*AppLinkResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp AppLinkResponse
	if err := c.call(ctx, "GetMirPayLink", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Submit3DSAuthorization posts the browser challenge outcome (v1).
func (c *Client) Submit3DSAuthorization(ctx context.Context, req *Submit3DSAuthorizationRequest) (*Submit3DSAuthorizationResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp Submit3DSAuthorizationResponse
	if err := c.call(ctx, "Submit3DSAuthorization", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Submit3DSAuthorizationV2 posts the app-based challenge outcome (v2).
func (c *Client) Submit3DSAuthorizationV2(ctx context.Context, req *Submit3DSAuthorizationV2Request) (*Submit3DSAuthorizationResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp Submit3DSAuthorizationResponse
	if err := c.call(ctx, "Submit3DSAuthorizationV2", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetTerminalPayMethods lists the payment methods enabled on the terminal.
func (c *Client) GetTerminalPayMethods(ctx context.Context, req *GetTerminalPayMethodsRequest) (*GetTerminalPayMethodsResponse, error) {
	req.TerminalKey = c.terminalKey

	var resp GetTerminalPayMethodsResponse
	if err := c.call(ctx, "GetTerminalPayMethods", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
