package process

import (
	"context"

	"go.uber.org/zap"

	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
	pstate "github.com/moneyport/acquiring-go/internal/domain/process"
	"github.com/moneyport/acquiring-go/internal/domain/threeds"
	"github.com/moneyport/acquiring-go/internal/infrastructure/client"
	threedsflow "github.com/moneyport/acquiring-go/internal/usecase/threeds"
)

// CardProcess drives a one-off card payment: init, 3-D Secure routing,
// authorization and status polling.
type CardProcess struct {
	base
	encryptor    acquiring.CardEncryptor
	orchestrator *threedsflow.Orchestrator
}

func NewCardProcess(api AcquiringAPI, encryptor acquiring.CardEncryptor, orchestrator *threedsflow.Orchestrator, logger *zap.Logger, opts ...ProcessOption) *CardProcess {
	return &CardProcess{
		base:         newBase("card", api, logger, opts...),
		encryptor:    encryptor,
		orchestrator: orchestrator,
	}
}

// Start runs the payment up to either a terminal state or a pending 3DS
// challenge. Option and card validation fails fast; everything downstream is
// reported through the state, never as a returned error.
func (p *CardProcess) Start(ctx context.Context, opts *acquiring.PaymentOptions, source acquiring.CardSource) error {
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

	encoded, err := source.Encode(p.encryptor)
	if err != nil {
		p.fail(&paymentID, err)
		return nil
	}

	check, err := p.api.Check3DSVersion(runCtx, &client.Check3DSVersionRequest{
		PaymentID: paymentID,
		CardData:  encoded,
	})
	if err != nil {
		p.fail(&paymentID, err)
		return nil
	}

	finishReq := &client.FinishAuthorizeRequest{
		PaymentID: paymentID,
		CardData:  encoded,
	}
	if attempt.Customer.Email != "" {
		finishReq.SendEmail = true
		finishReq.InfoEmail = attempt.Customer.Email
	}
	if p.orchestrator.IsAppBased(check.Version, attempt.Features.AppBased3DSVersions) {
		device := p.orchestrator.CollectDeviceData(runCtx)
		finishReq.Data = device.Params()
	}

	fin, err := p.api.FinishAuthorize(runCtx, finishReq)
	if err != nil {
		p.fail(&paymentID, err)
		return nil
	}

	p.mu.Lock()
	p.cardID = fin.CardID
	p.rebillID = fin.RebillID
	p.mu.Unlock()

	if challenge, required := p.orchestrator.ChallengeFrom(paymentID, check, fin); required {
		p.logger.Info("waiting for 3ds challenge",
			zap.Int64("payment_id", paymentID))
		p.setState(pstate.AwaitingChallenge{PaymentID: paymentID, Challenge: challenge})
		return nil
	}

	if fin.Status.IsSuccessful() {
		p.succeed(paymentID)
		return nil
	}

	p.pollToTerminal(runCtx, paymentID)
	return nil
}

// CompleteChallenge resumes the process with the challenge outcome posted by
// the challenge surface: success continues to status polling, cancellation
// and errors terminate the process through the state.
func (p *CardProcess) CompleteChallenge(ctx context.Context, result threeds.Result) error {
	p.mu.Lock()
	pending, ok := p.state.(pstate.AwaitingChallenge)
	p.mu.Unlock()
	if !ok {
		return acquiring.ErrInvalidTransition
	}

	runCtx, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	defer p.release()

	paymentID := pending.PaymentID

	switch {
	case result.Canceled:
		p.fail(&paymentID, acquiring.ErrChallengeCanceled)
		return nil
	case result.Err != nil:
		p.fail(&paymentID, result.Err)
		return nil
	}

	if err := p.submitChallenge(runCtx, paymentID, result); err != nil {
		p.fail(&paymentID, err)
		return nil
	}

	p.pollToTerminal(runCtx, paymentID)
	return nil
}

func (p *CardProcess) submitChallenge(ctx context.Context, paymentID int64, result threeds.Result) error {
	if result.Challenge.IsAppBased() {
		_, err := p.api.Submit3DSAuthorizationV2(ctx, &client.Submit3DSAuthorizationV2Request{
			PaymentID: paymentID,
			CRes:      result.TransStatus,
		})
		return err
	}
	_, err := p.api.Submit3DSAuthorization(ctx, &client.Submit3DSAuthorizationRequest{
		PaymentID: paymentID,
		MD:        result.Challenge.MD,
		PaRes:     result.TransStatus,
	})
	return err
}
