package process

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
	pstate "github.com/moneyport/acquiring-go/internal/domain/process"
	"github.com/moneyport/acquiring-go/internal/infrastructure/client"
)

// RecurrentProcess executes a recurring charge against a stored rebill id.
// A decline with the CVC confirmation code does not fail the process: it
// parks in CvcRequired until StartWithCvc resumes it.
type RecurrentProcess struct {
	base
	encryptor acquiring.CardEncryptor
}

func NewRecurrentProcess(api AcquiringAPI, encryptor acquiring.CardEncryptor, logger *zap.Logger, opts ...ProcessOption) *RecurrentProcess {
	return &RecurrentProcess{
		base:      newBase("recurrent", api, logger, opts...),
		encryptor: encryptor,
	}
}

// Start inits a session and charges the rebill id.
func (p *RecurrentProcess) Start(ctx context.Context, opts *acquiring.PaymentOptions, source acquiring.RebillSource) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := source.Validate(); err != nil {
		return err
	}

	runCtx, err := p.begin(ctx)
	if err != nil {
		return err
	}
	defer p.release()

	p.metrics.PaymentStarted(p.method)
	attempt := opts.Clone()

	initResp, err := p.api.Init(runCtx, initRequest(attempt))
	if err != nil {
		p.fail(nil, err)
		return nil
	}
	paymentID := initResp.PaymentID
	p.markStarted(paymentID)

	chargeReq := &client.ChargeRequest{
		PaymentID: paymentID,
		RebillID:  source.RebillID,
	}
	if attempt.Customer.Email != "" {
		chargeReq.SendEmail = true
		chargeReq.InfoEmail = attempt.Customer.Email
	}

	charge, err := p.api.Charge(runCtx, chargeReq)
	if err != nil {
		var apiErr *acquiring.APIError
		if errors.As(err, &apiErr) && apiErr.RequiresCvcConfirmation() {
			p.logger.Info("recurring charge requires cvc confirmation",
				zap.Int64("payment_id", paymentID))
			p.setState(pstate.CvcRequired{RejectedPaymentID: paymentID, Options: attempt})
			return nil
		}
		p.fail(&paymentID, err)
		return nil
	}

	p.mu.Lock()
	p.cardID = charge.CardID
	p.rebillID = charge.RebillID
	p.mu.Unlock()

	if charge.Status.IsSuccessful() {
		p.succeed(paymentID)
		return nil
	}

	p.pollToTerminal(runCtx, paymentID)
	return nil
}

// StartWithCvc resumes a CVC-confirmed charge after a 104 decline. A fresh
// session is opened and the charge is confirmed through the dedicated
// confirmation endpoint with the encrypted CVC.
func (p *RecurrentProcess) StartWithCvc(ctx context.Context, cvc string, source acquiring.RebillSource, rejectedPaymentID int64, opts *acquiring.PaymentOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := source.Validate(); err != nil {
		return err
	}
	if len(cvc) < 3 || len(cvc) > 4 {
		return acquiring.ErrInvalidCvc
	}

	runCtx, err := p.begin(ctx)
	if err != nil {
		return err
	}
	defer p.release()

	p.metrics.PaymentStarted(p.method)
	attempt := opts.Clone()

	p.logger.Info("resuming recurring charge with cvc confirmation",
		zap.Int64("rejected_payment_id", rejectedPaymentID))

	initResp, err := p.api.Init(runCtx, initRequest(attempt))
	if err != nil {
		p.fail(nil, err)
		return nil
	}
	paymentID := initResp.PaymentID
	p.markStarted(paymentID)

	encoded, err := p.encryptor.Encrypt(fmt.Sprintf("CVV=%s", cvc))
	if err != nil {
		p.fail(&paymentID, err)
		return nil
	}

	confirm, err := p.api.Confirm(runCtx, &client.ConfirmRequest{
		PaymentID: paymentID,
		RebillID:  source.RebillID,
		CardData:  encoded,
	})
	if err != nil {
		p.fail(&paymentID, err)
		return nil
	}

	p.mu.Lock()
	p.cardID = confirm.CardID
	p.rebillID = confirm.RebillID
	p.mu.Unlock()

	if confirm.Status.IsSuccessful() {
		p.succeed(paymentID)
		return nil
	}

	p.pollToTerminal(runCtx, paymentID)
	return nil
}
