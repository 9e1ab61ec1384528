package process

import (
	"context"

	"go.uber.org/zap"

	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
	pstate "github.com/moneyport/acquiring-go/internal/domain/process"
	"github.com/moneyport/acquiring-go/internal/infrastructure/client"
)

// redirectProcess is the shared machine for methods that hand the user off to
// an external application through a deeplink: init a session, fetch the
// method-specific link, wait for the user to leave and come back, then poll.
type redirectProcess struct {
	base
	fetchLink func(ctx context.Context, paymentID int64) (string, error)
}

// Start creates a payment session and fetches the redirect deeplink. On
// success the process lands in AwaitingAppChoice; operational failures land
// in Failed. Start is allowed again from any non-running, non-stopped state,
// so a failed attempt can be retried on the same instance.
func (p *redirectProcess) Start(ctx context.Context, opts *acquiring.PaymentOptions) error {
	if err := opts.Validate(); err != nil {
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
	p.markStarted(initResp.PaymentID)

	link, err := p.fetchLink(runCtx, initResp.PaymentID)
	if err != nil {
		p.fail(&initResp.PaymentID, err)
		return nil
	}

	p.logger.Info("redirect link ready",
		zap.Int64("payment_id", initResp.PaymentID))
	p.setState(pstate.AwaitingAppChoice{PaymentID: initResp.PaymentID, Deeplink: link})
	return nil
}

// GoingToBankApp records that the user switched to the external app. It is a
// no-op unless a deeplink choice is pending.
func (p *redirectProcess) GoingToBankApp() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if st, ok := p.state.(pstate.AwaitingAppChoice); ok {
		p.setStateLocked(pstate.LeftForBankApp{PaymentID: st.PaymentID})
	}
}

// StartCheckingStatus polls the payment status until a terminal state. It is
// only valid after the deeplink was produced; a poll already in flight is
// rejected with ErrProcessRunning so polling is never doubled.
func (p *redirectProcess) StartCheckingStatus(ctx context.Context) error {
	p.mu.Lock()
	var paymentID int64
	switch st := p.state.(type) {
	case pstate.LeftForBankApp:
		paymentID = st.PaymentID
	case pstate.AwaitingAppChoice:
		paymentID = st.PaymentID
	case pstate.CheckingStatus:
		p.mu.Unlock()
		return acquiring.ErrProcessRunning
	default:
		p.mu.Unlock()
		return acquiring.ErrInvalidTransition
	}
	p.mu.Unlock()

	runCtx, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	defer p.release()

	p.pollToTerminal(runCtx, paymentID)
	return nil
}

// SBPProcess pays through the faster payments system: the deeplink is the
// QR payload handed to a participant bank app.
type SBPProcess struct {
	redirectProcess
}

func NewSBPProcess(api AcquiringAPI, logger *zap.Logger, opts ...ProcessOption) *SBPProcess {
	p := &SBPProcess{redirectProcess{base: newBase("sbp", api, logger, opts...)}}
	p.fetchLink = func(ctx context.Context, paymentID int64) (string, error) {
		resp, err := api.GetQr(ctx, &client.GetQrRequest{PaymentID: paymentID})
		if err != nil {
			return "", err
		}
		return resp.Data, nil
	}
	return p
}

// BankAppProcess pays through the acquirer's own bank application.
type BankAppProcess struct {
	redirectProcess
}

func NewBankAppProcess(api AcquiringAPI, version string, logger *zap.Logger, opts ...ProcessOption) *BankAppProcess {
	p := &BankAppProcess{redirectProcess{base: newBase("bank_app", api, logger, opts...)}}
	p.fetchLink = func(ctx context.Context, paymentID int64) (string, error) {
		resp, err := api.GetBankAppLink(ctx, &client.AppLinkRequest{PaymentID: paymentID, Version: version})
		if err != nil {
			return "", err
		}
		return resp.Params.RedirectURL, nil
	}
	return p
}

// MirPayProcess pays through the Mir Pay wallet application.
type MirPayProcess struct {
	redirectProcess
}

func NewMirPayProcess(api AcquiringAPI, logger *zap.Logger, opts ...ProcessOption) *MirPayProcess {
	p := &MirPayProcess{redirectProcess{base: newBase("mir_pay", api, logger, opts...)}}
	p.fetchLink = func(ctx context.Context, paymentID int64) (string, error) {
		resp, err := api.GetMirPayLink(ctx, &client.AppLinkRequest{PaymentID: paymentID})
		if err != nil {
			return "", err
		}
		return resp.Params.RedirectURL, nil
	}
	return p
}

// initRequest builds the Init call from cloned payment options. The terminal
// key is stamped by the client itself.
func initRequest(opts *acquiring.PaymentOptions) *client.InitRequest {
	req := &client.InitRequest{
		Amount:      opts.Order.Amount.Kopecks(),
		OrderID:     opts.Order.OrderID,
		CustomerKey: opts.Customer.CustomerKey,
		Description: opts.Order.Description,
		SuccessURL:  opts.Order.SuccessURL,
		FailURL:     opts.Order.FailURL,
		Receipt:     opts.Order.Receipt,
	}
	if opts.Order.Recurrent {
		req.Recurrent = "Y"
	}
	if len(opts.Order.AdditionalData) > 0 {
		req.Data = make(map[string]string, len(opts.Order.AdditionalData))
		for k, v := range opts.Order.AdditionalData {
			req.Data[k] = v
		}
	}
	if opts.Features.DuplicateEmailToReceipt && opts.Customer.Email != "" &&
		req.Receipt != nil && req.Receipt.Email == "" {
		req.Receipt.Email = opts.Customer.Email
	}
	return req
}
