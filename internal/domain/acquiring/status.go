package acquiring

import "encoding/json"

// Status is the payment lifecycle status reported by the acquiring API.
type Status string

const (
	StatusNew             Status = "NEW"
	StatusFormShowed      Status = "FORM_SHOWED"
	StatusAuthorizing     Status = "AUTHORIZING"
	StatusThreeDSChecking Status = "3DS_CHECKING"
	StatusThreeDSChecked  Status = "3DS_CHECKED"
	StatusAuthorized      Status = "AUTHORIZED"
	StatusPreauthorizing  Status = "PREAUTHORIZING"
	StatusConfirming      Status = "CONFIRMING"
	StatusConfirmed       Status = "CONFIRMED"
	StatusReversing       Status = "REVERSING"
	StatusReversed        Status = "REVERSED"
	StatusRefunding       Status = "REFUNDING"
	StatusRefunded        Status = "REFUNDED"
	StatusPartialRefunded Status = "PARTIAL_REFUNDED"
	StatusRejected        Status = "REJECTED"
	StatusDeadlineExpired Status = "DEADLINE_EXPIRED"
	StatusCanceled        Status = "CANCELED"
	StatusLoopChecking    Status = "LOOP_CHECKING"
	StatusCompleted       Status = "COMPLETED"
	StatusProcessing      Status = "PROCESSING"
	StatusChecking        Status = "CHECKING"
	StatusChecked         Status = "CHECKED"
	StatusUnknown         Status = "UNKNOWN"
)

var knownStatuses = map[Status]struct{}{
	StatusNew:             {},
	StatusFormShowed:      {},
	StatusAuthorizing:     {},
	StatusThreeDSChecking: {},
	StatusThreeDSChecked:  {},
	StatusAuthorized:      {},
	StatusPreauthorizing:  {},
	StatusConfirming:      {},
	StatusConfirmed:       {},
	StatusReversing:       {},
	StatusReversed:        {},
	StatusRefunding:       {},
	StatusRefunded:        {},
	StatusPartialRefunded: {},
	StatusRejected:        {},
	StatusDeadlineExpired: {},
	StatusCanceled:        {},
	StatusLoopChecking:    {},
	StatusCompleted:       {},
	StatusProcessing:      {},
	StatusChecking:        {},
	StatusChecked:         {},
	StatusUnknown:         {},
}

// ParseStatus maps a wire status string onto the known set. Unrecognized
// values fall back to StatusUnknown so that new server-side statuses never
// break deserialization.
func ParseStatus(raw string) Status {
	s := Status(raw)
	if _, ok := knownStatuses[s]; ok {
		return s
	}
	return StatusUnknown
}

// UnmarshalJSON never fails: anything that is not a recognized status string
// becomes StatusUnknown. Downstream code depends on this fallback.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = StatusUnknown
		return nil
	}
	*s = ParseStatus(raw)
	return nil
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s Status) String() string {
	return string(s)
}

// IsSuccessful reports whether the status is success-terminal.
func (s Status) IsSuccessful() bool {
	return s == StatusConfirmed || s == StatusAuthorized
}

// IsFailed reports whether the status is failure-terminal.
func (s Status) IsFailed() bool {
	return s == StatusRejected || s == StatusDeadlineExpired
}

// IsTerminal reports whether polling should stop at this status.
func (s Status) IsTerminal() bool {
	return s.IsSuccessful() || s.IsFailed()
}
