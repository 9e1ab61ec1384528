package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
)

const confirmedNotification = `{
	"TerminalKey": "TestTerminal",
	"OrderId": "order-1",
	"Success": true,
	"Status": "CONFIRMED",
	"PaymentId": 123,
	"ErrorCode": "0",
	"Amount": 100000,
	"Token": "9bddb7320f333223d0299edec7976fef6c9f82f9f80ecdbe922e4568b4b67dd9"
}`

func TestParseNotification(t *testing.T) {
	signer := NewPasswordSigner("secret")

	t.Run("accepts a correctly signed payload", func(t *testing.T) {
		n, err := ParseNotification([]byte(confirmedNotification), signer)
		require.NoError(t, err)

		assert.Equal(t, "TestTerminal", n.TerminalKey)
		assert.Equal(t, "order-1", n.OrderID)
		assert.True(t, n.Success)
		assert.Equal(t, acquiring.StatusConfirmed, n.Status)
		assert.Equal(t, int64(123), n.PaymentID)
		assert.Equal(t, int64(100000), n.Amount)
	})

	t.Run("rejects a payload signed with another password", func(t *testing.T) {
		_, err := ParseNotification([]byte(confirmedNotification), NewPasswordSigner("other"))
		assert.ErrorIs(t, err, ErrNotificationTokenInvalid)
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		tampered := []byte(`{
			"TerminalKey": "TestTerminal",
			"OrderId": "order-1",
			"Success": true,
			"Status": "CONFIRMED",
			"PaymentId": 123,
			"ErrorCode": "0",
			"Amount": 999999,
			"Token": "9bddb7320f333223d0299edec7976fef6c9f82f9f80ecdbe922e4568b4b67dd9"
		}`)
		_, err := ParseNotification(tampered, signer)
		assert.ErrorIs(t, err, ErrNotificationTokenInvalid)
	})

	t.Run("rejects a payload without a token", func(t *testing.T) {
		_, err := ParseNotification([]byte(`{"TerminalKey":"TestTerminal","OrderId":"order-1"}`), signer)
		assert.ErrorIs(t, err, ErrNotificationTokenMissing)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		_, err := ParseNotification([]byte(`{not json`), signer)
		assert.Error(t, err)
	})
}
