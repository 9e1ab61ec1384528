package process

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
	pstate "github.com/moneyport/acquiring-go/internal/domain/process"
	"github.com/moneyport/acquiring-go/internal/infrastructure/client"
	"github.com/moneyport/acquiring-go/internal/infrastructure/metrics"
)

// AcquiringAPI is the slice of the acquiring client the engine depends on.
// *client.Client satisfies it; tests substitute mocks.
type AcquiringAPI interface {
	Init(ctx context.Context, req *client.InitRequest) (*client.InitResponse, error)
	Check3DSVersion(ctx context.Context, req *client.Check3DSVersionRequest) (*client.Check3DSVersionResponse, error)
	FinishAuthorize(ctx context.Context, req *client.FinishAuthorizeRequest) (*client.FinishAuthorizeResponse, error)
	Charge(ctx context.Context, req *client.ChargeRequest) (*client.ChargeResponse, error)
	Confirm(ctx context.Context, req *client.ConfirmRequest) (*client.ConfirmResponse, error)
	GetState(ctx context.Context, req *client.GetStateRequest) (*client.GetStateResponse, error)
	GetQr(ctx context.Context, req *client.GetQrRequest) (*client.GetQrResponse, error)
	GetBankAppLink(ctx context.Context, req *client.AppLinkRequest) (*client.AppLinkResponse, error)
	GetMirPayLink(ctx context.Context, req *client.AppLinkRequest) (*client.AppLinkResponse, error)
	Submit3DSAuthorization(ctx context.Context, req *client.Submit3DSAuthorizationRequest) (*client.Submit3DSAuthorizationResponse, error)
	Submit3DSAuthorizationV2(ctx context.Context, req *client.Submit3DSAuthorizationV2Request) (*client.Submit3DSAuthorizationResponse, error)
}

// base carries the state machinery shared by every payment method process.
// Transitions are serialized by the mutex; observers read the latest state
// through State or a last-value-wins Updates channel.
type base struct {
	method  string
	api     AcquiringAPI
	poller  *Poller
	metrics *metrics.Recorder
	logger  *zap.Logger

	mu            sync.Mutex
	state         pstate.State
	cancel        context.CancelFunc
	running       bool
	lastPaymentID *int64
	cardID        string
	rebillID      string
	subs          []chan pstate.State
}

// ProcessOption configures a payment process.
type ProcessOption func(*base)

// WithProcessPoller replaces the default status poller.
func WithProcessPoller(p *Poller) ProcessOption {
	return func(b *base) { b.poller = p }
}

// WithProcessMetrics attaches a metrics recorder.
func WithProcessMetrics(rec *metrics.Recorder) ProcessOption {
	return func(b *base) { b.metrics = rec }
}

// StateFetcher adapts the GetState operation into the poller's fetch shape.
func StateFetcher(api AcquiringAPI) StatusFetcher {
	return func(ctx context.Context, paymentID int64) (acquiring.Status, error) {
		resp, err := api.GetState(ctx, &client.GetStateRequest{PaymentID: paymentID})
		if err != nil {
			return "", err
		}
		return resp.Status, nil
	}
}

func newBase(method string, api AcquiringAPI, logger *zap.Logger, opts ...ProcessOption) base {
	b := base{
		method: method,
		api:    api,
		state:  pstate.Created{},
		logger: logger.With(zap.String("payment_method", method)),
	}
	for _, opt := range opts {
		opt(&b)
	}
	if b.poller == nil {
		b.poller = NewPoller(StateFetcher(api), b.logger, WithMetrics(b.metrics))
	}
	return b
}

// State returns the current state snapshot.
func (b *base) State() pstate.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Updates returns a channel receiving state changes with last-value-wins
// semantics: a slow reader only ever misses intermediate states, never the
// latest one. The channel is primed with the current state.
func (b *base) Updates() <-chan pstate.State {
	ch := make(chan pstate.State, 1)
	b.mu.Lock()
	ch <- b.state
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

func (b *base) setState(s pstate.State) {
	b.mu.Lock()
	b.setStateLocked(s)
	b.mu.Unlock()
}

func (b *base) setStateLocked(s pstate.State) {
	b.state = s
	for _, ch := range b.subs {
		select {
		case ch <- s:
		default:
			// Replace the stale value so the reader always sees the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

// begin guards a fresh start: rejected while stopped or while another start
// or status check is in flight, otherwise the process transitions through
// Created again. Restarting after a failure is explicitly supported.
func (b *base) begin(parent context.Context) (context.Context, error) {
	ctx, err := b.acquire(parent)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.cardID = ""
	b.rebillID = ""
	b.setStateLocked(pstate.Created{})
	b.mu.Unlock()
	return ctx, nil
}

// acquire takes the single running slot without touching the state.
func (b *base) acquire(parent context.Context) (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, stopped := b.state.(pstate.Stopped); stopped {
		return nil, acquiring.ErrProcessStopped
	}
	if b.running {
		return nil, acquiring.ErrProcessRunning
	}

	ctx, cancel := context.WithCancel(parent)
	b.running = true
	b.cancel = cancel
	return ctx, nil
}

func (b *base) release() {
	b.mu.Lock()
	b.running = false
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.mu.Unlock()
}

// Stop cancels any in-flight work and makes the process terminally unusable.
// Safe to call from any state, including concurrently with polling.
func (b *base) Stop() {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	if _, stopped := b.state.(pstate.Stopped); !stopped {
		b.setStateLocked(pstate.Stopped{})
	}
	b.mu.Unlock()
}

func (b *base) markStarted(paymentID int64) {
	b.mu.Lock()
	pid := paymentID
	b.lastPaymentID = &pid
	b.setStateLocked(pstate.Started{PaymentID: paymentID})
	b.mu.Unlock()
}

// fail funnels an operational error into the Failed state. Cancellation from
// Stop is not a failure: the Stopped state set by Stop is preserved.
func (b *base) fail(paymentID *int64, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if _, stopped := b.state.(pstate.Stopped); !stopped {
			b.setStateLocked(pstate.Stopped{})
		}
		return
	}

	if paymentID == nil {
		paymentID = b.lastPaymentID
	}

	b.logger.Warn("payment process failed", zap.Error(err))
	b.metrics.PaymentFailed(b.method)
	b.setStateLocked(pstate.Failed{PaymentID: paymentID, Err: err})
}

func (b *base) succeed(paymentID int64) {
	b.mu.Lock()
	b.metrics.PaymentSucceeded(b.method)
	b.setStateLocked(pstate.Succeeded{
		PaymentID: paymentID,
		CardID:    b.cardID,
		RebillID:  b.rebillID,
	})
	b.mu.Unlock()
}

// pollToTerminal drives the shared poller and maps its outcome onto the
// process state. Every observed status is published through CheckingStatus.
func (b *base) pollToTerminal(ctx context.Context, paymentID int64) {
	b.setState(pstate.CheckingStatus{PaymentID: paymentID})

	_, err := b.poller.Run(ctx, paymentID, func(s acquiring.Status) {
		b.setState(pstate.CheckingStatus{PaymentID: paymentID, Status: s})
	})
	if err != nil {
		b.fail(&paymentID, err)
		return
	}
	b.succeed(paymentID)
}
