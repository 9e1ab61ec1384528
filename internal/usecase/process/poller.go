// Package process implements the payment process engine: a generic status
// poller plus one finite state machine per payment method.
package process

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
	"github.com/moneyport/acquiring-go/internal/infrastructure/metrics"
)

const (
	// DefaultPollRetries is the default polling budget.
	DefaultPollRetries = 10
	// DefaultPollDelay is the default pause between polling attempts.
	DefaultPollDelay = 3 * time.Second
)

// StatusFetcher retrieves the current payment status. Returning an empty
// status with a nil error means "no status yet".
type StatusFetcher func(ctx context.Context, paymentID int64) (acquiring.Status, error)

// Poller repeatedly fetches the payment status until a terminal status is
// observed or the retry budget runs out. It carries no payment-method
// knowledge and is shared by every process type.
type Poller struct {
	fetch      StatusFetcher
	retries    int
	newBackOff func() backoff.BackOff
	metrics    *metrics.Recorder
	logger     *zap.Logger
}

type PollerOption func(*Poller)

// WithRetries overrides the polling budget.
func WithRetries(n int) PollerOption {
	return func(p *Poller) {
		if n > 0 {
			p.retries = n
		}
	}
}

// WithDelay replaces the backoff strategy with a constant delay.
func WithDelay(d time.Duration) PollerOption {
	return WithBackOff(func() backoff.BackOff {
		return backoff.NewConstantBackOff(d)
	})
}

// WithBackOff installs a custom delay strategy, constructed fresh per run so
// stateful strategies never leak between payments.
func WithBackOff(factory func() backoff.BackOff) PollerOption {
	return func(p *Poller) { p.newBackOff = factory }
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(rec *metrics.Recorder) PollerOption {
	return func(p *Poller) { p.metrics = rec }
}

func NewPoller(fetch StatusFetcher, logger *zap.Logger, opts ...PollerOption) *Poller {
	p := &Poller{
		fetch:   fetch,
		retries: DefaultPollRetries,
		newBackOff: func() backoff.BackOff {
			return backoff.NewConstantBackOff(DefaultPollDelay)
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until a terminal status, a terminal failure or budget exhaustion.
// Every observed status is passed to observe before termination is decided.
// Fetch errors are swallowed and count as "no status this tick". The final
// successful status is returned; REJECTED yields *acquiring.RejectedError,
// DEADLINE_EXPIRED and an exhausted budget yield *acquiring.TimeoutError.
func (p *Poller) Run(ctx context.Context, paymentID int64, observe func(acquiring.Status)) (acquiring.Status, error) {
	bo := p.newBackOff()
	bo.Reset()

	for attempt := 0; attempt < p.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		p.metrics.PollAttempt()

		status, err := p.fetch(ctx, paymentID)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			p.logger.Debug("status fetch failed, retrying",
				zap.Int64("payment_id", paymentID),
				zap.Int("attempt", attempt+1),
				zap.Error(err))
		} else if status != "" {
			if observe != nil {
				observe(status)
			}

			switch {
			case status.IsSuccessful():
				return status, nil
			case status == acquiring.StatusRejected:
				return status, &acquiring.RejectedError{PaymentID: paymentID, Status: status}
			case status == acquiring.StatusDeadlineExpired:
				s := status
				return status, &acquiring.TimeoutError{PaymentID: paymentID, Status: &s}
			}
		}

		if attempt == p.retries-1 {
			break
		}

		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			break
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	return "", &acquiring.TimeoutError{PaymentID: paymentID}
}
