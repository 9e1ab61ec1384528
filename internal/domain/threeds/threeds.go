// Package threeds holds the data exchanged between a payment process and the
// 3-D Secure challenge surface. The challenge itself is rendered outside the
// engine; these types are the handoff and resume contract.
package threeds

// Version discriminates the challenge path.
type Version string

const (
	// VersionBrowser is the v1 redirect flow through the issuer ACS page.
	VersionBrowser Version = "1.0.0"
	// VersionAppBased is the v2 flow driven by device data collection.
	VersionAppBased Version = "2.1.0"
)

// ChallengeData carries everything the challenge surface needs. For the
// browser flow AcsURL/PaReq/MD are set; for the app-based flow the
// transaction ids are set instead.
type ChallengeData struct {
	PaymentID int64
	Version   Version

	AcsURL string
	PaReq  string
	MD     string

	ServerTransID string
	AcsTransID    string
}

// IsAppBased reports whether the challenge uses the app-based v2 flow.
func (d ChallengeData) IsAppBased() bool {
	return d.ServerTransID != ""
}

// Result is the outcome posted back by the challenge surface.
type Result struct {
	Challenge   ChallengeData
	TransStatus string
	Canceled    bool
	Err         error
}

// DeviceData is the fingerprint collected for the app-based flow and packed
// into the authorize call.
type DeviceData struct {
	InstallationID string
	Language       string
	TimezoneOffset string
	ScreenWidth    string
	ScreenHeight   string
	ColorDepth     string
}

// Params flattens the fingerprint into the DATA block of the authorize call.
func (d DeviceData) Params() map[string]string {
	return map[string]string{
		"sdkAppID":      d.InstallationID,
		"language":      d.Language,
		"timezone":      d.TimezoneOffset,
		"screen_width":  d.ScreenWidth,
		"screen_height": d.ScreenHeight,
		"colorDepth":    d.ColorDepth,
	}
}
