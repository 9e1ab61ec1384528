package process_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
	pstate "github.com/moneyport/acquiring-go/internal/domain/process"
	"github.com/moneyport/acquiring-go/internal/infrastructure/client"
	"github.com/moneyport/acquiring-go/internal/usecase/process"
)

func testOptions() *acquiring.PaymentOptions {
	return &acquiring.PaymentOptions{
		TerminalKey: "TestTerminal",
		Order: acquiring.OrderOptions{
			OrderID: "order-1",
			Amount:  acquiring.NewMoney(100000),
		},
	}
}

func fastPoller(t *testing.T, fetch process.StatusFetcher, opts ...process.PollerOption) *process.Poller {
	t.Helper()
	opts = append([]process.PollerOption{process.WithDelay(time.Millisecond)}, opts...)
	return process.NewPoller(fetch, zap.NewNop(), opts...)
}

func TestBankAppProcess_HappyPath(t *testing.T) {
	api := &mockAPI{}
	api.On("Init", mock.Anything, mock.MatchedBy(func(req *client.InitRequest) bool {
		return req.OrderID == "order-1" && req.Amount == 100000
	})).Return(&client.InitResponse{
		BaseResponse: client.BaseResponse{Success: true, ErrorCode: "0"},
		PaymentID:    1,
		Status:       acquiring.StatusNew,
	}, nil)
	api.On("GetBankAppLink", mock.Anything, mock.MatchedBy(func(req *client.AppLinkRequest) bool {
		return req.PaymentID == 1 && req.Version == "2.0"
	})).Return(&client.AppLinkResponse{
		Params: client.AppLinkParams{RedirectURL: "bank100000000004://tpay/pay?sessionId=abc"},
	}, nil)

	proc := process.NewBankAppProcess(api, "2.0", zap.NewNop(),
		process.WithProcessPoller(fastPoller(t, func(ctx context.Context, paymentID int64) (acquiring.Status, error) {
			return acquiring.StatusConfirmed, nil
		})))

	require.NoError(t, proc.Start(context.Background(), testOptions()))

	choice, ok := proc.State().(pstate.AwaitingAppChoice)
	require.True(t, ok, "expected AwaitingAppChoice, got %T", proc.State())
	assert.Equal(t, int64(1), choice.PaymentID)
	assert.Equal(t, "bank100000000004://tpay/pay?sessionId=abc", choice.Deeplink)

	proc.GoingToBankApp()
	left, ok := proc.State().(pstate.LeftForBankApp)
	require.True(t, ok)
	assert.Equal(t, int64(1), left.PaymentID)

	require.NoError(t, proc.StartCheckingStatus(context.Background()))

	succeeded, ok := proc.State().(pstate.Succeeded)
	require.True(t, ok, "expected Succeeded, got %T", proc.State())
	assert.Equal(t, int64(1), succeeded.PaymentID)

	api.AssertExpectations(t)
}

func TestSBPProcess_Start(t *testing.T) {
	t.Run("deeplink comes from the qr payload", func(t *testing.T) {
		api := &mockAPI{}
		api.On("Init", mock.Anything, mock.Anything).Return(&client.InitResponse{PaymentID: 5}, nil)
		api.On("GetQr", mock.Anything, mock.MatchedBy(func(req *client.GetQrRequest) bool {
			return req.PaymentID == 5
		})).Return(&client.GetQrResponse{Data: "https://qr.nspk.ru/AD100004"}, nil)

		proc := process.NewSBPProcess(api, zap.NewNop())
		require.NoError(t, proc.Start(context.Background(), testOptions()))

		choice, ok := proc.State().(pstate.AwaitingAppChoice)
		require.True(t, ok)
		assert.Equal(t, "https://qr.nspk.ru/AD100004", choice.Deeplink)
	})

	t.Run("invalid options fail fast without touching the api", func(t *testing.T) {
		api := &mockAPI{}
		proc := process.NewSBPProcess(api, zap.NewNop())

		err := proc.Start(context.Background(), &acquiring.PaymentOptions{})
		require.Error(t, err)
		assert.IsType(t, pstate.Created{}, proc.State())
		api.AssertNotCalled(t, "Init")
	})

	t.Run("init failure lands in Failed without a payment id", func(t *testing.T) {
		api := &mockAPI{}
		api.On("Init", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		proc := process.NewSBPProcess(api, zap.NewNop())
		require.NoError(t, proc.Start(context.Background(), testOptions()))

		failed, ok := proc.State().(pstate.Failed)
		require.True(t, ok)
		assert.Nil(t, failed.PaymentID)
	})
}

// A failed attempt must be retryable on the same instance: a retry whose
// Init fails still reports the payment id of the previous attempt, and a
// retry against a recovered backend runs through to the deeplink.
func TestRedirectProcess_RestartAfterFailure(t *testing.T) {
	api := &mockAPI{}
	api.On("Init", mock.Anything, mock.Anything).Return(&client.InitResponse{PaymentID: 1}, nil).Once()
	api.On("GetQr", mock.Anything, mock.Anything).Return(nil, errors.New("link service down")).Once()
	api.On("Init", mock.Anything, mock.Anything).Return(nil, errors.New("init down")).Once()
	api.On("Init", mock.Anything, mock.Anything).Return(&client.InitResponse{PaymentID: 2}, nil).Once()
	api.On("GetQr", mock.Anything, mock.Anything).Return(&client.GetQrResponse{Data: "https://qr.nspk.ru/AD100005"}, nil).Once()

	proc := process.NewSBPProcess(api, zap.NewNop())

	require.NoError(t, proc.Start(context.Background(), testOptions()))
	failed, ok := proc.State().(pstate.Failed)
	require.True(t, ok)
	require.NotNil(t, failed.PaymentID)
	assert.Equal(t, int64(1), *failed.PaymentID)

	require.NoError(t, proc.Start(context.Background(), testOptions()))
	failed, ok = proc.State().(pstate.Failed)
	require.True(t, ok)
	require.NotNil(t, failed.PaymentID, "retry failure keeps the last known payment id")
	assert.Equal(t, int64(1), *failed.PaymentID)

	require.NoError(t, proc.Start(context.Background(), testOptions()))
	choice, ok := proc.State().(pstate.AwaitingAppChoice)
	require.True(t, ok, "recovered backend must bring the process back to AwaitingAppChoice, got %T", proc.State())
	assert.Equal(t, int64(2), choice.PaymentID)
	assert.Equal(t, "https://qr.nspk.ru/AD100005", choice.Deeplink)

	api.AssertExpectations(t)
}

func TestRedirectProcess_StartCheckingStatus(t *testing.T) {
	t.Run("rejected before a deeplink exists", func(t *testing.T) {
		api := &mockAPI{}
		proc := process.NewSBPProcess(api, zap.NewNop())

		err := proc.StartCheckingStatus(context.Background())
		assert.ErrorIs(t, err, acquiring.ErrInvalidTransition)
	})

	t.Run("double polling is rejected", func(t *testing.T) {
		api := &mockAPI{}
		api.On("Init", mock.Anything, mock.Anything).Return(&client.InitResponse{PaymentID: 1}, nil)
		api.On("GetQr", mock.Anything, mock.Anything).Return(&client.GetQrResponse{Data: "link"}, nil)

		release := make(chan struct{})
		proc := process.NewSBPProcess(api, zap.NewNop(),
			process.WithProcessPoller(fastPoller(t, func(ctx context.Context, paymentID int64) (acquiring.Status, error) {
				select {
				case <-release:
					return acquiring.StatusConfirmed, nil
				case <-ctx.Done():
					return "", ctx.Err()
				}
			})))

		require.NoError(t, proc.Start(context.Background(), testOptions()))

		done := make(chan error, 1)
		go func() { done <- proc.StartCheckingStatus(context.Background()) }()

		require.Eventually(t, func() bool {
			_, polling := proc.State().(pstate.CheckingStatus)
			return polling
		}, time.Second, time.Millisecond)

		assert.ErrorIs(t, proc.StartCheckingStatus(context.Background()), acquiring.ErrProcessRunning)

		close(release)
		require.NoError(t, <-done)
		assert.IsType(t, pstate.Succeeded{}, proc.State())
	})

	t.Run("rejection during polling lands in Failed", func(t *testing.T) {
		api := &mockAPI{}
		api.On("Init", mock.Anything, mock.Anything).Return(&client.InitResponse{PaymentID: 9}, nil)
		api.On("GetQr", mock.Anything, mock.Anything).Return(&client.GetQrResponse{Data: "link"}, nil)

		proc := process.NewSBPProcess(api, zap.NewNop(),
			process.WithProcessPoller(fastPoller(t, func(ctx context.Context, paymentID int64) (acquiring.Status, error) {
				return acquiring.StatusRejected, nil
			})))

		require.NoError(t, proc.Start(context.Background(), testOptions()))
		require.NoError(t, proc.StartCheckingStatus(context.Background()))

		failed, ok := proc.State().(pstate.Failed)
		require.True(t, ok)
		require.NotNil(t, failed.PaymentID)
		assert.Equal(t, int64(9), *failed.PaymentID)

		var rejected *acquiring.RejectedError
		assert.True(t, errors.As(failed.Err, &rejected))
	})
}

func TestProcess_Stop(t *testing.T) {
	t.Run("stop before start makes the process unusable", func(t *testing.T) {
		api := &mockAPI{}
		proc := process.NewSBPProcess(api, zap.NewNop())

		proc.Stop()
		assert.IsType(t, pstate.Stopped{}, proc.State())

		err := proc.Start(context.Background(), testOptions())
		assert.ErrorIs(t, err, acquiring.ErrProcessStopped)
		api.AssertNotCalled(t, "Init")
	})

	t.Run("stop during polling cancels the poll and stays Stopped", func(t *testing.T) {
		api := &mockAPI{}
		api.On("Init", mock.Anything, mock.Anything).Return(&client.InitResponse{PaymentID: 1}, nil)
		api.On("GetQr", mock.Anything, mock.Anything).Return(&client.GetQrResponse{Data: "link"}, nil)

		proc := process.NewSBPProcess(api, zap.NewNop(),
			process.WithProcessPoller(fastPoller(t, func(ctx context.Context, paymentID int64) (acquiring.Status, error) {
				<-ctx.Done()
				return "", ctx.Err()
			})))

		require.NoError(t, proc.Start(context.Background(), testOptions()))

		done := make(chan error, 1)
		go func() { done <- proc.StartCheckingStatus(context.Background()) }()

		require.Eventually(t, func() bool {
			_, polling := proc.State().(pstate.CheckingStatus)
			return polling
		}, time.Second, time.Millisecond)

		proc.Stop()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("polling did not stop")
		}

		assert.IsType(t, pstate.Stopped{}, proc.State())
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		proc := process.NewSBPProcess(&mockAPI{}, zap.NewNop())
		proc.Stop()
		proc.Stop()
		assert.IsType(t, pstate.Stopped{}, proc.State())
	})
}

func TestProcess_Updates(t *testing.T) {
	api := &mockAPI{}
	api.On("Init", mock.Anything, mock.Anything).Return(&client.InitResponse{PaymentID: 1}, nil)
	api.On("GetQr", mock.Anything, mock.Anything).Return(&client.GetQrResponse{Data: "link"}, nil)

	proc := process.NewSBPProcess(api, zap.NewNop())

	updates := proc.Updates()
	// Primed with the current state.
	assert.IsType(t, pstate.Created{}, <-updates)

	require.NoError(t, proc.Start(context.Background(), testOptions()))

	// A reader that slept through the intermediate transitions still gets
	// the latest state.
	var last pstate.State
	for {
		select {
		case s := <-updates:
			last = s
			continue
		default:
		}
		break
	}
	assert.IsType(t, pstate.AwaitingAppChoice{}, last)
}

func TestGoingToBankApp_RequiresPendingChoice(t *testing.T) {
	proc := process.NewSBPProcess(&mockAPI{}, zap.NewNop())
	proc.GoingToBankApp()
	assert.IsType(t, pstate.Created{}, proc.State(), "no-op outside AwaitingAppChoice")
}
