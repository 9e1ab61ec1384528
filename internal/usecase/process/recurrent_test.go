package process_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
	pstate "github.com/moneyport/acquiring-go/internal/domain/process"
	"github.com/moneyport/acquiring-go/internal/infrastructure/client"
	"github.com/moneyport/acquiring-go/internal/usecase/process"
)

func TestRecurrentProcess_Start(t *testing.T) {
	source := acquiring.RebillSource{RebillID: "145919"}

	t.Run("successful charge completes without polling", func(t *testing.T) {
		api := &mockAPI{}
		api.On("Init", mock.Anything, mock.Anything).Return(&client.InitResponse{PaymentID: 10}, nil)
		api.On("Charge", mock.Anything, mock.MatchedBy(func(req *client.ChargeRequest) bool {
			return req.PaymentID == 10 && req.RebillID == "145919"
		})).Return(&client.ChargeResponse{
			Status:    acquiring.StatusConfirmed,
			PaymentID: 10,
			CardID:    "881900",
			RebillID:  "145919",
		}, nil)

		proc := process.NewRecurrentProcess(api, mockEncryptor{}, zap.NewNop())
		require.NoError(t, proc.Start(context.Background(), testOptions(), source))

		succeeded, ok := proc.State().(pstate.Succeeded)
		require.True(t, ok, "expected Succeeded, got %T", proc.State())
		assert.Equal(t, int64(10), succeeded.PaymentID)
		assert.Equal(t, "881900", succeeded.CardID)
		assert.Equal(t, "145919", succeeded.RebillID)
		api.AssertNotCalled(t, "GetState")
	})

	t.Run("decline with the cvc confirmation code parks in CvcRequired", func(t *testing.T) {
		api := &mockAPI{}
		api.On("Init", mock.Anything, mock.Anything).Return(&client.InitResponse{PaymentID: 11}, nil)
		api.On("Charge", mock.Anything, mock.Anything).Return(nil, &acquiring.APIError{
			Code:    acquiring.CvcConfirmationErrorCode,
			Message: "Charge must be confirmed with CVC",
		})

		proc := process.NewRecurrentProcess(api, mockEncryptor{}, zap.NewNop())
		require.NoError(t, proc.Start(context.Background(), testOptions(), source))

		parked, ok := proc.State().(pstate.CvcRequired)
		require.True(t, ok, "expected CvcRequired, got %T", proc.State())
		assert.Equal(t, int64(11), parked.RejectedPaymentID)
		require.NotNil(t, parked.Options)
		assert.Equal(t, "order-1", parked.Options.Order.OrderID)
	})

	t.Run("any other decline code is a plain failure", func(t *testing.T) {
		api := &mockAPI{}
		api.On("Init", mock.Anything, mock.Anything).Return(&client.InitResponse{PaymentID: 12}, nil)
		api.On("Charge", mock.Anything, mock.Anything).Return(nil, &acquiring.APIError{
			Code:    "103",
			Message: "Insufficient funds",
		})

		proc := process.NewRecurrentProcess(api, mockEncryptor{}, zap.NewNop())
		require.NoError(t, proc.Start(context.Background(), testOptions(), source))

		failed, ok := proc.State().(pstate.Failed)
		require.True(t, ok, "expected Failed, got %T", proc.State())
		require.NotNil(t, failed.PaymentID)
		assert.Equal(t, int64(12), *failed.PaymentID)
	})

	t.Run("non-terminal charge status falls back to polling", func(t *testing.T) {
		api := &mockAPI{}
		api.On("Init", mock.Anything, mock.Anything).Return(&client.InitResponse{PaymentID: 13}, nil)
		api.On("Charge", mock.Anything, mock.Anything).Return(&client.ChargeResponse{
			Status:    acquiring.StatusAuthorizing,
			PaymentID: 13,
		}, nil)

		proc := process.NewRecurrentProcess(api, mockEncryptor{}, zap.NewNop(),
			process.WithProcessPoller(fastPoller(t, func(ctx context.Context, paymentID int64) (acquiring.Status, error) {
				return acquiring.StatusConfirmed, nil
			})))
		require.NoError(t, proc.Start(context.Background(), testOptions(), source))
		assert.IsType(t, pstate.Succeeded{}, proc.State())
	})

	t.Run("empty rebill id fails fast", func(t *testing.T) {
		proc := process.NewRecurrentProcess(&mockAPI{}, mockEncryptor{}, zap.NewNop())
		err := proc.Start(context.Background(), testOptions(), acquiring.RebillSource{})
		assert.ErrorIs(t, err, acquiring.ErrEmptyRebillID)
	})
}

func TestRecurrentProcess_StartWithCvc(t *testing.T) {
	source := acquiring.RebillSource{RebillID: "145919"}

	t.Run("resumes a parked charge through the confirmation endpoint", func(t *testing.T) {
		api := &mockAPI{}
		api.On("Init", mock.Anything, mock.Anything).Return(&client.InitResponse{PaymentID: 11}, nil).Once()
		api.On("Charge", mock.Anything, mock.Anything).Return(nil, &acquiring.APIError{
			Code: acquiring.CvcConfirmationErrorCode,
		}).Once()

		proc := process.NewRecurrentProcess(api, mockEncryptor{}, zap.NewNop())
		require.NoError(t, proc.Start(context.Background(), testOptions(), source))

		parked, ok := proc.State().(pstate.CvcRequired)
		require.True(t, ok)

		api.On("Init", mock.Anything, mock.Anything).Return(&client.InitResponse{PaymentID: 14}, nil).Once()
		api.On("Confirm", mock.Anything, mock.MatchedBy(func(req *client.ConfirmRequest) bool {
			return req.PaymentID == 14 && req.RebillID == "145919" && req.CardData == "enc(CVV=123)"
		})).Return(&client.ConfirmResponse{
			Status:    acquiring.StatusConfirmed,
			PaymentID: 14,
			RebillID:  "145919",
		}, nil).Once()

		require.NoError(t, proc.StartWithCvc(context.Background(), "123", source, parked.RejectedPaymentID, parked.Options))

		succeeded, ok := proc.State().(pstate.Succeeded)
		require.True(t, ok, "expected Succeeded, got %T", proc.State())
		assert.Equal(t, int64(14), succeeded.PaymentID)
		api.AssertExpectations(t)
	})

	t.Run("rejects a malformed cvc before any api call", func(t *testing.T) {
		api := &mockAPI{}
		proc := process.NewRecurrentProcess(api, mockEncryptor{}, zap.NewNop())

		for _, cvc := range []string{"", "12", "12345"} {
			err := proc.StartWithCvc(context.Background(), cvc, source, 11, testOptions())
			assert.ErrorIs(t, err, acquiring.ErrInvalidCvc, "cvc %q", cvc)
		}
		api.AssertNotCalled(t, "Init")
	})

	t.Run("confirmation decline fails the process", func(t *testing.T) {
		api := &mockAPI{}
		api.On("Init", mock.Anything, mock.Anything).Return(&client.InitResponse{PaymentID: 15}, nil)
		api.On("Confirm", mock.Anything, mock.Anything).Return(nil, &acquiring.APIError{
			Code:    "116",
			Message: "Wrong CVC",
		})

		proc := process.NewRecurrentProcess(api, mockEncryptor{}, zap.NewNop(),
			process.WithProcessPoller(fastPoller(t, func(ctx context.Context, paymentID int64) (acquiring.Status, error) {
				return acquiring.StatusConfirmed, nil
			}, process.WithRetries(1))))
		require.NoError(t, proc.StartWithCvc(context.Background(), "123", source, 11, testOptions()))

		failed, ok := proc.State().(pstate.Failed)
		require.True(t, ok)
		require.NotNil(t, failed.PaymentID)
		assert.Equal(t, int64(15), *failed.PaymentID)
	})
}
