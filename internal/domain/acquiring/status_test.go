package acquiring_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
)

func TestStatus_UnmarshalJSON(t *testing.T) {
	t.Run("known statuses round-trip exactly", func(t *testing.T) {
		for _, raw := range []string{"NEW", "AUTHORIZING", "CONFIRMED", "AUTHORIZED", "REJECTED", "DEADLINE_EXPIRED"} {
			var s acquiring.Status
			require.NoError(t, json.Unmarshal([]byte(`"`+raw+`"`), &s))
			assert.Equal(t, raw, s.String())

			out, err := json.Marshal(s)
			require.NoError(t, err)
			assert.Equal(t, `"`+raw+`"`, string(out))
		}
	})

	t.Run("3DS statuses map to their special-cased values and back", func(t *testing.T) {
		var checking acquiring.Status
		require.NoError(t, json.Unmarshal([]byte(`"3DS_CHECKING"`), &checking))
		assert.Equal(t, acquiring.StatusThreeDSChecking, checking)

		var checked acquiring.Status
		require.NoError(t, json.Unmarshal([]byte(`"3DS_CHECKED"`), &checked))
		assert.Equal(t, acquiring.StatusThreeDSChecked, checked)

		out, err := json.Marshal(checking)
		require.NoError(t, err)
		assert.Equal(t, `"3DS_CHECKING"`, string(out))

		out, err = json.Marshal(checked)
		require.NoError(t, err)
		assert.Equal(t, `"3DS_CHECKED"`, string(out))
	})

	t.Run("unrecognized strings become UNKNOWN without an error", func(t *testing.T) {
		var s acquiring.Status
		require.NoError(t, json.Unmarshal([]byte(`"SOME_FUTURE_STATUS"`), &s))
		assert.Equal(t, acquiring.StatusUnknown, s)
	})

	t.Run("non-string values become UNKNOWN without an error", func(t *testing.T) {
		var s acquiring.Status
		require.NoError(t, json.Unmarshal([]byte(`42`), &s))
		assert.Equal(t, acquiring.StatusUnknown, s)
	})
}

func TestStatus_Classification(t *testing.T) {
	assert.True(t, acquiring.StatusConfirmed.IsSuccessful())
	assert.True(t, acquiring.StatusAuthorized.IsSuccessful())
	assert.False(t, acquiring.StatusNew.IsSuccessful())

	assert.True(t, acquiring.StatusRejected.IsFailed())
	assert.True(t, acquiring.StatusDeadlineExpired.IsFailed())
	assert.False(t, acquiring.StatusConfirmed.IsFailed())

	// Everything that is neither success- nor failure-terminal keeps polling.
	for _, s := range []acquiring.Status{
		acquiring.StatusNew,
		acquiring.StatusAuthorizing,
		acquiring.StatusThreeDSChecking,
		acquiring.StatusThreeDSChecked,
		acquiring.StatusUnknown,
	} {
		assert.False(t, s.IsTerminal(), "status %s must be non-terminal", s)
	}
}
