package threeds

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultCertRefreshInterval bounds how often the directory-server config is
// re-fetched.
const DefaultCertRefreshInterval = 240 * time.Minute

// CertConfig is the process-wide directory-server key material used to
// encrypt device data for app-based challenges.
type CertConfig struct {
	Certificates []DirectoryServerCert `json:"certificates"`
}

type DirectoryServerCert struct {
	PaymentSystem     string `json:"paymentSystem"`
	DirectoryServerID string `json:"directoryServerID"`
	Type              string `json:"type"`
	URL               string `json:"url"`
	PublicKey         string `json:"publicKey"`
	ForceUpdate       bool   `json:"forceUpdateFlag"`
}

// CertForPaymentSystem finds the encryption certificate for a payment system.
func (c *CertConfig) CertForPaymentSystem(system string) (DirectoryServerCert, bool) {
	if c == nil {
		return DirectoryServerCert{}, false
	}
	for _, cert := range c.Certificates {
		if cert.PaymentSystem == system {
			return cert, true
		}
	}
	return DirectoryServerCert{}, false
}

// CertConfigCache keeps the last successfully fetched config and refreshes it
// from a remote JSON document no more often than the configured interval.
// Refresh failures are ignored and the last-known-good config is served:
// availability over freshness. Reads are lock-free; at most one refresh runs
// at a time.
type CertConfigCache struct {
	url        string
	interval   time.Duration
	httpClient *http.Client
	logger     *zap.Logger

	config atomic.Value // *CertConfig

	mu          sync.Mutex
	lastAttempt time.Time
}

func NewCertConfigCache(url string, interval time.Duration, logger *zap.Logger) *CertConfigCache {
	if interval <= 0 {
		interval = DefaultCertRefreshInterval
	}
	return &CertConfigCache{
		url:        url,
		interval:   interval,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		logger:     logger,
	}
}

// Config returns the cached config, refreshing first when the interval has
// elapsed. It never fails: before the first successful fetch it returns nil.
func (c *CertConfigCache) Config(ctx context.Context) *CertConfig {
	c.refreshIfStale(ctx)
	if cfg, ok := c.config.Load().(*CertConfig); ok {
		return cfg
	}
	return nil
}

func (c *CertConfigCache) refreshIfStale(ctx context.Context) {
	c.mu.Lock()
	if time.Since(c.lastAttempt) < c.interval {
		c.mu.Unlock()
		return
	}
	// The attempt time advances even on failure so a broken endpoint is not
	// hammered on every payment.
	c.lastAttempt = time.Now()
	c.mu.Unlock()

	cfg, err := c.fetch(ctx)
	if err != nil {
		c.logger.Debug("cert config refresh failed, keeping previous config",
			zap.Error(err))
		return
	}
	c.config.Store(cfg)
	c.logger.Debug("cert config refreshed",
		zap.Int("certificates", len(cfg.Certificates)))
}

func (c *CertConfigCache) fetch(ctx context.Context) (*CertConfig, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &httpStatusError{code: resp.StatusCode}
	}

	var cfg CertConfig
	if err := json.NewDecoder(resp.Body).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type httpStatusError struct {
	code int
}

func (e *httpStatusError) Error() string {
	return http.StatusText(e.code)
}
