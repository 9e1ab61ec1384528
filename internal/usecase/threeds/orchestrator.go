// Package threeds decides which 3-D Secure path a payment takes and supplies
// the supporting device data and directory-server configuration.
package threeds

import (
	"context"

	"go.uber.org/zap"

	"github.com/moneyport/acquiring-go/internal/domain/threeds"
	"github.com/moneyport/acquiring-go/internal/infrastructure/client"
)

var defaultAppBasedVersions = []string{"2.1.0"}

// Orchestrator routes a payment into the browser or app-based challenge flow
// and packages the data each flow needs.
type Orchestrator struct {
	device *DeviceDataCollector
	certs  *CertConfigCache
	logger *zap.Logger
}

func NewOrchestrator(device *DeviceDataCollector, certs *CertConfigCache, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{device: device, certs: certs, logger: logger}
}

// IsAppBased reports whether the server 3DS version is handled by the
// app-based flow. extraVersions widens the default set per payment options.
func (o *Orchestrator) IsAppBased(version string, extraVersions []string) bool {
	versions := extraVersions
	if len(versions) == 0 {
		versions = defaultAppBasedVersions
	}
	for _, v := range versions {
		if v == version {
			return true
		}
	}
	return false
}

// CollectDeviceData gathers the fingerprint for the app-based flow. The cert
// config cache is touched here so directory-server keys refresh on the same
// cadence as challenges happen.
func (o *Orchestrator) CollectDeviceData(ctx context.Context) threeds.DeviceData {
	if o.certs != nil {
		o.certs.Config(ctx)
	}
	return o.device.Collect()
}

// ChallengeFrom extracts challenge parameters from a finished authorization.
// The second return value is false when no challenge is required.
func (o *Orchestrator) ChallengeFrom(paymentID int64, check *client.Check3DSVersionResponse, fin *client.FinishAuthorizeResponse) (threeds.ChallengeData, bool) {
	if fin.AcsURL == "" {
		return threeds.ChallengeData{}, false
	}

	data := threeds.ChallengeData{
		PaymentID: paymentID,
		AcsURL:    fin.AcsURL,
	}

	// The transaction ids are the flow discriminator; the checked version
	// only refines which 2.x protocol the app-based flow speaks. A browser
	// challenge stays v1 no matter what the version check reported.
	if fin.TdsServerTransID != "" {
		data.Version = threeds.VersionAppBased
		if check != nil && check.Version != "" {
			data.Version = threeds.Version(check.Version)
		}
		data.ServerTransID = fin.TdsServerTransID
		data.AcsTransID = fin.AcsTransID
	} else {
		data.Version = threeds.VersionBrowser
		data.PaReq = fin.PaReq
		data.MD = fin.MD
	}

	o.logger.Info("3ds challenge required",
		zap.Int64("payment_id", paymentID),
		zap.String("version", string(data.Version)))

	return data, true
}
