package threeds

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moneyport/acquiring-go/internal/domain/threeds"
)

// ScreenInfo is the display geometry reported by the host application.
type ScreenInfo struct {
	Width      int
	Height     int
	ColorDepth int
}

// DeviceDataCollector assembles the device fingerprint for app-based 3DS.
// The installation id is generated once and persisted so repeat payments
// from the same installation fingerprint identically.
type DeviceDataCollector struct {
	screen   ScreenInfo
	language string

	mu       sync.Mutex
	idPath   string
	cachedID string
}

func NewDeviceDataCollector(idPath, language string, screen ScreenInfo) *DeviceDataCollector {
	if language == "" {
		language = "ru"
	}
	return &DeviceDataCollector{
		screen:   screen,
		language: language,
		idPath:   idPath,
	}
}

func (c *DeviceDataCollector) Collect() threeds.DeviceData {
	_, offset := time.Now().Zone()
	return threeds.DeviceData{
		InstallationID: c.installationID(),
		Language:       c.language,
		TimezoneOffset: fmt.Sprintf("%d", -offset/60),
		ScreenWidth:    fmt.Sprintf("%d", c.screen.Width),
		ScreenHeight:   fmt.Sprintf("%d", c.screen.Height),
		ColorDepth:     fmt.Sprintf("%d", c.screen.ColorDepth),
	}
}

// installationID loads the persisted id, generating and storing a fresh one
// on first use. Persistence failures degrade to a per-run id rather than
// failing the payment.
func (c *DeviceDataCollector) installationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachedID != "" {
		return c.cachedID
	}

	if raw, err := os.ReadFile(c.idPath); err == nil {
		id := strings.TrimSpace(string(raw))
		if _, err := uuid.Parse(id); err == nil {
			c.cachedID = id
			return id
		}
	}

	id := uuid.NewString()
	c.cachedID = id

	if err := os.MkdirAll(filepath.Dir(c.idPath), 0o700); err == nil {
		_ = os.WriteFile(c.idPath, []byte(id), 0o600)
	}

	return id
}
