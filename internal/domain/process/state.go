// Package process defines the observable states of a payment process and the
// pure mappings from states to UI-facing descriptors, navigation events and
// launcher results.
package process

import (
	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
	"github.com/moneyport/acquiring-go/internal/domain/threeds"
)

// State is a tagged variant. Exactly one state is current per process
// instance; transitions are strictly sequential.
type State interface {
	isState()
}

// Created is the initial state of a fresh or restarted process.
type Created struct{}

// Started means Init succeeded and a payment session exists.
type Started struct {
	PaymentID int64
}

// AwaitingAppChoice means a deeplink is ready and the user must pick an
// external app to continue the payment in.
type AwaitingAppChoice struct {
	PaymentID int64
	Deeplink  string
}

// LeftForBankApp means the UI reported that the user switched to the
// external bank app.
type LeftForBankApp struct {
	PaymentID int64
}

// AwaitingChallenge means a 3-D Secure challenge must be completed before the
// payment can proceed.
type AwaitingChallenge struct {
	PaymentID int64
	Challenge threeds.ChallengeData
}

// CheckingStatus means status polling is in progress. Status is the most
// recently observed value, empty before the first successful poll.
type CheckingStatus struct {
	PaymentID int64
	Status    acquiring.Status
}

// Succeeded is success-terminal.
type Succeeded struct {
	PaymentID int64
	CardID    string
	RebillID  string
}

// Failed is failure-terminal. PaymentID is nil when the failure happened
// before a session was created.
type Failed struct {
	PaymentID *int64
	Err       error
}

// CvcRequired means a recurring charge was declined pending CVC confirmation.
type CvcRequired struct {
	RejectedPaymentID int64
	Options           *acquiring.PaymentOptions
}

// Stopped means the process was canceled by its owner and is unusable.
type Stopped struct{}

func (Created) isState()           {}
func (Started) isState()           {}
func (AwaitingAppChoice) isState() {}
func (LeftForBankApp) isState()    {}
func (AwaitingChallenge) isState() {}
func (CheckingStatus) isState()    {}
func (Succeeded) isState()         {}
func (Failed) isState()            {}
func (CvcRequired) isState()       {}
func (Stopped) isState()           {}
