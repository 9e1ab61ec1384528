package config

// AcquiringConfig holds the terminal credentials and engine tuning for one
// acquiring terminal.
type AcquiringConfig struct {
	BaseURL     string `yaml:"base_url" validate:"required,url"`
	TerminalKey string `yaml:"terminal_key" validate:"required"`
	Password    string `yaml:"password" validate:"required"`
	// PublicKey is the PEM encoded terminal RSA key used to encrypt card data.
	PublicKey string `yaml:"public_key" validate:"required"`

	// CertConfigURL points at the directory-server certificate document for
	// app-based 3-D Secure.
	CertConfigURL       string   `yaml:"cert_config_url"`
	CertRefreshInterval Duration `yaml:"cert_refresh_interval"`

	// InstallationIDPath stores the generated installation identifier.
	InstallationIDPath string `yaml:"installation_id_path"`

	PollRetries int      `yaml:"poll_retries"`
	PollDelay   Duration `yaml:"poll_delay"`
}
