package acquiring

import (
	"errors"
	"fmt"
)

var (
	// ErrProcessStopped indicates that a payment process was stopped and must
	// be recreated before it can be used again.
	ErrProcessStopped = errors.New("payment process is stopped")

	// ErrProcessRunning indicates that a start was requested while a previous
	// start or status check is still in flight.
	ErrProcessRunning = errors.New("payment process is already running")

	// ErrChallengeCanceled indicates that the user dismissed the 3-D Secure
	// challenge without completing it.
	ErrChallengeCanceled = errors.New("3ds challenge canceled by user")

	// ErrInvalidTransition indicates an operation that is not allowed in the
	// current process state.
	ErrInvalidTransition = errors.New("operation not allowed in the current process state")
)

// CvcConfirmationErrorCode is the bank error code returned when a recurring
// charge must be confirmed with the card CVC. It is the single documented
// special case; no other codes trigger the confirmation branch.
const CvcConfirmationErrorCode = "104"

// APIError is a business-level error returned by the acquiring API.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("acquiring api error %s: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("acquiring api error %s: %s", e.Code, e.Message)
}

// RequiresCvcConfirmation reports whether the error means the charge must be
// retried with an explicit CVC confirmation.
func (e *APIError) RequiresCvcConfirmation() bool {
	return e.Code == CvcConfirmationErrorCode
}

// RejectedError is returned when status polling observes a REJECTED payment.
type RejectedError struct {
	PaymentID int64
	Status    Status
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("payment %d rejected with status %s", e.PaymentID, e.Status)
}

// TimeoutError is returned when polling observes DEADLINE_EXPIRED or exhausts
// its retry budget without reaching a terminal status. Status is nil in the
// exhausted-budget case.
type TimeoutError struct {
	PaymentID int64
	Status    *Status
}

func (e *TimeoutError) Error() string {
	if e.Status != nil {
		return fmt.Sprintf("payment %d timed out with status %s", e.PaymentID, *e.Status)
	}
	return fmt.Sprintf("payment %d status polling exhausted without a terminal status", e.PaymentID)
}
