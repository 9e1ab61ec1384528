package process

import (
	"errors"

	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
	"github.com/moneyport/acquiring-go/internal/domain/threeds"
)

// SheetDescriptor describes what the status sheet should render for a state.
// Title/Subtitle/Button are message keys resolved by the presentation layer.
type SheetDescriptor struct {
	Title    string
	Subtitle string
	Button   string
	Err      error
}

// NavigationEvent is a one-shot instruction for the presentation layer.
type NavigationEvent interface {
	isNavigationEvent()
}

// OpenDeeplink asks the host to open an external app by deeplink.
type OpenDeeplink struct {
	Deeplink string
}

// OpenChallenge asks the host to present the 3-D Secure challenge.
type OpenChallenge struct {
	Challenge threeds.ChallengeData
}

// OpenCvcForm asks the host to collect a CVC for a declined recurring charge.
type OpenCvcForm struct {
	RejectedPaymentID int64
	Options           *acquiring.PaymentOptions
}

func (OpenDeeplink) isNavigationEvent()  {}
func (OpenChallenge) isNavigationEvent() {}
func (OpenCvcForm) isNavigationEvent()   {}

// Result is the terminal outcome delivered to the external caller.
type Result interface {
	isResult()
}

type ResultSuccess struct {
	PaymentID int64
	CardID    string
	RebillID  string
}

type ResultError struct {
	PaymentID *int64
	Err       error
}

type ResultCanceled struct{}

func (ResultSuccess) isResult()  {}
func (ResultError) isResult()    {}
func (ResultCanceled) isResult() {}

// Sheet maps a state to its status sheet descriptor. The mapping is total:
// every state variant renders something, non-terminal states as progress.
func Sheet(s State) SheetDescriptor {
	switch st := s.(type) {
	case Succeeded:
		return SheetDescriptor{
			Title:  "payment.success.title",
			Button: "payment.success.button",
		}
	case Failed:
		return SheetDescriptor{
			Title:    "payment.failure.title",
			Subtitle: failureSubtitle(st.Err),
			Button:   "payment.failure.button",
			Err:      st.Err,
		}
	case CvcRequired:
		return SheetDescriptor{
			Title:    "payment.cvc.title",
			Subtitle: "payment.cvc.subtitle",
			Button:   "payment.cvc.button",
		}
	case Stopped:
		return SheetDescriptor{
			Title: "payment.stopped.title",
		}
	case AwaitingAppChoice:
		return SheetDescriptor{
			Title:    "payment.choose_app.title",
			Subtitle: "payment.choose_app.subtitle",
		}
	default:
		// Created, Started, LeftForBankApp, AwaitingChallenge, CheckingStatus.
		return SheetDescriptor{
			Title: "payment.progress.title",
		}
	}
}

// Navigation maps a state to a one-shot navigation event, or nil when the
// state requires no host action.
func Navigation(s State) NavigationEvent {
	switch st := s.(type) {
	case AwaitingAppChoice:
		return OpenDeeplink{Deeplink: st.Deeplink}
	case AwaitingChallenge:
		return OpenChallenge{Challenge: st.Challenge}
	case CvcRequired:
		return OpenCvcForm{RejectedPaymentID: st.RejectedPaymentID, Options: st.Options}
	default:
		return nil
	}
}

// LauncherResult maps a terminal state to the caller-facing result, or nil
// for non-terminal states.
func LauncherResult(s State) Result {
	switch st := s.(type) {
	case Succeeded:
		return ResultSuccess{PaymentID: st.PaymentID, CardID: st.CardID, RebillID: st.RebillID}
	case Failed:
		if errors.Is(st.Err, acquiring.ErrChallengeCanceled) {
			return ResultCanceled{}
		}
		return ResultError{PaymentID: st.PaymentID, Err: st.Err}
	case Stopped:
		return ResultCanceled{}
	default:
		return nil
	}
}

func failureSubtitle(err error) string {
	var timeout *acquiring.TimeoutError
	if errors.As(err, &timeout) {
		return "payment.failure.timeout"
	}
	var rejected *acquiring.RejectedError
	if errors.As(err, &rejected) {
		return "payment.failure.rejected"
	}
	return "payment.failure.generic"
}
