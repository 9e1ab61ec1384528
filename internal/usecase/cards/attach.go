package cards

import (
	"context"

	"go.uber.org/zap"

	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
	"github.com/moneyport/acquiring-go/internal/domain/threeds"
	"github.com/moneyport/acquiring-go/internal/infrastructure/client"
)

// AttachAPI is the client slice the attach flow needs.
type AttachAPI interface {
	AddCard(ctx context.Context, req *client.AddCardRequest) (*client.AddCardResponse, error)
	AttachCard(ctx context.Context, req *client.AttachCardRequest) (*client.AttachCardResponse, error)
	GetAddCardState(ctx context.Context, req *client.GetAddCardStateRequest) (*client.GetAddCardStateResponse, error)
	SubmitRandomAmount(ctx context.Context, req *client.SubmitRandomAmountRequest) (*client.SubmitRandomAmountResponse, error)
	RemoveCard(ctx context.Context, req *client.RemoveCardRequest) (*client.RemoveCardResponse, error)
}

// AttachOutcome describes where an attach attempt landed: completed with a
// card id, pending a 3DS challenge, or pending a hold-amount confirmation.
type AttachOutcome struct {
	RequestKey string
	CardID     string
	RebillID   string
	Status     acquiring.Status

	Challenge *threeds.ChallengeData
}

// NeedsRandomAmount reports whether the customer must confirm the hold
// amount charged to the card.
func (o *AttachOutcome) NeedsRandomAmount() bool {
	return o.Status == acquiring.StatusLoopChecking
}

// AttachFlow drives attaching a new card to a customer.
type AttachFlow struct {
	api       AttachAPI
	cache     *ListCache
	encryptor acquiring.CardEncryptor
	logger    *zap.Logger
}

func NewAttachFlow(api AttachAPI, cache *ListCache, encryptor acquiring.CardEncryptor, logger *zap.Logger) *AttachFlow {
	return &AttachFlow{api: api, cache: cache, encryptor: encryptor, logger: logger}
}

// Attach opens an attachment session and submits the card. The caller
// inspects the outcome for a pending challenge or hold confirmation.
func (f *AttachFlow) Attach(ctx context.Context, customerKey string, card acquiring.CardData, checkType acquiring.CheckType) (*AttachOutcome, error) {
	if err := card.Validate(); err != nil {
		return nil, err
	}

	added, err := f.api.AddCard(ctx, &client.AddCardRequest{
		CustomerKey: customerKey,
		CheckType:   checkType,
	})
	if err != nil {
		return nil, err
	}

	encoded, err := card.Encode(f.encryptor)
	if err != nil {
		return nil, err
	}

	attached, err := f.api.AttachCard(ctx, &client.AttachCardRequest{
		RequestKey: added.RequestKey,
		CardData:   encoded,
	})
	if err != nil {
		return nil, err
	}

	outcome := &AttachOutcome{
		RequestKey: attached.RequestKey,
		CardID:     attached.CardID,
		RebillID:   attached.RebillID,
		Status:     attached.Status,
	}

	if attached.AcsURL != "" {
		outcome.Challenge = &threeds.ChallengeData{
			Version: threeds.VersionBrowser,
			AcsURL:  attached.AcsURL,
			PaReq:   attached.PaReq,
			MD:      attached.MD,
		}
	}

	if outcome.CardID != "" {
		f.cache.Invalidate(customerKey)
	}

	f.logger.Info("card attach initiated",
		zap.String("customer_key", customerKey),
		zap.String("request_key", outcome.RequestKey),
		zap.String("status", outcome.Status.String()))

	return outcome, nil
}

// ConfirmRandomAmount completes a LOOP_CHECKING attachment.
func (f *AttachFlow) ConfirmRandomAmount(ctx context.Context, customerKey, requestKey string, amount acquiring.Money) (*AttachOutcome, error) {
	resp, err := f.api.SubmitRandomAmount(ctx, &client.SubmitRandomAmountRequest{
		RequestKey: requestKey,
		Amount:     amount.Kopecks(),
	})
	if err != nil {
		return nil, err
	}

	if resp.CardID != "" {
		f.cache.Invalidate(customerKey)
	}

	return &AttachOutcome{
		RequestKey: resp.RequestKey,
		CardID:     resp.CardID,
		RebillID:   resp.RebillID,
		Status:     resp.Status,
	}, nil
}

// AttachState fetches the progress of an attachment session.
func (f *AttachFlow) AttachState(ctx context.Context, requestKey string) (*AttachOutcome, error) {
	resp, err := f.api.GetAddCardState(ctx, &client.GetAddCardStateRequest{RequestKey: requestKey})
	if err != nil {
		return nil, err
	}
	return &AttachOutcome{
		RequestKey: resp.RequestKey,
		CardID:     resp.CardID,
		RebillID:   resp.RebillID,
		Status:     resp.Status,
	}, nil
}

// Remove detaches a saved card and invalidates the cached list.
func (f *AttachFlow) Remove(ctx context.Context, customerKey, cardID string) error {
	if _, err := f.api.RemoveCard(ctx, &client.RemoveCardRequest{
		CustomerKey: customerKey,
		CardID:      cardID,
	}); err != nil {
		return err
	}
	f.cache.Invalidate(customerKey)
	return nil
}
