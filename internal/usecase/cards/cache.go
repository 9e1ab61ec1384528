// Package cards manages the customer's saved cards: a cached card list and
// the attach-card flow.
package cards

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/moneyport/acquiring-go/internal/infrastructure/client"
)

// ListAPI is the client slice the cache needs.
type ListAPI interface {
	GetCardList(ctx context.Context, req *client.GetCardListRequest) ([]client.Card, error)
}

// ListCache keeps the last fetched card list per customer in a single
// in-memory slot. Concurrent refreshes for the same customer collapse into
// one network call whose result every caller shares.
type ListCache struct {
	api    ListAPI
	logger *zap.Logger

	mu    sync.Mutex
	lists map[string][]client.Card
	group singleflight.Group
}

func NewListCache(api ListAPI, logger *zap.Logger) *ListCache {
	return &ListCache{
		api:    api,
		logger: logger,
		lists:  make(map[string][]client.Card),
	}
}

// Cards returns the card list for a customer. force bypasses the cached
// value; otherwise a cached list is served without a network call.
func (c *ListCache) Cards(ctx context.Context, customerKey string, force bool) ([]client.Card, error) {
	if !force {
		c.mu.Lock()
		cached, ok := c.lists[customerKey]
		c.mu.Unlock()
		if ok {
			return append([]client.Card(nil), cached...), nil
		}
	}

	result, err, shared := c.group.Do(customerKey, func() (any, error) {
		cards, err := c.api.GetCardList(ctx, &client.GetCardListRequest{CustomerKey: customerKey})
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.lists[customerKey] = cards
		c.mu.Unlock()
		return cards, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		c.logger.Debug("card list refresh shared between callers",
			zap.String("customer_key", customerKey))
	}

	cards := result.([]client.Card)
	return append([]client.Card(nil), cards...), nil
}

// Invalidate drops the cached list for a customer, forcing the next read to
// hit the network.
func (c *ListCache) Invalidate(customerKey string) {
	c.mu.Lock()
	delete(c.lists, customerKey)
	c.mu.Unlock()
}
