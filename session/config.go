package session

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the set of options a Session needs to connect and
// authenticate against an SMSC. Zero values for UseChecksum,
// WindowSize, and SubAddr are meaningful defaults (checksum mode off,
// window size and sub-address omitted from the login frame).
type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	UseChecksum         bool
	ReconnectTimeout    time.Duration
	MaxReconnectBackoff time.Duration
	DisableReconnect    bool
	WindowSize          int
	SubAddr             string
}

// DefaultReconnectTimeout matches the distilled spec's documented
// default for the first reconnect attempt.
const DefaultReconnectTimeout = 10 * time.Second

// DefaultMaxReconnectBackoff caps the exponential backoff between
// reconnect attempts after repeated failures.
const DefaultMaxReconnectBackoff = 2 * time.Minute

// LoadDotEnv loads a .env file into the process environment if one is
// present, the same optional step this codebase's own entry points
// take before reading os.Getenv. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ConfigFromEnv reads CIMD2_HOST, CIMD2_PORT, CIMD2_USERNAME,
// CIMD2_PASSWORD, CIMD2_USE_CHECKSUM, CIMD2_RECONNECT_TIMEOUT_SECONDS,
// CIMD2_WINDOW_SIZE, and CIMD2_SUB_ADDR from the process environment
// and validates the result.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Host:             os.Getenv("CIMD2_HOST"),
		Username:         os.Getenv("CIMD2_USERNAME"),
		Password:         os.Getenv("CIMD2_PASSWORD"),
		SubAddr:             os.Getenv("CIMD2_SUB_ADDR"),
		ReconnectTimeout:    DefaultReconnectTimeout,
		MaxReconnectBackoff: DefaultMaxReconnectBackoff,
	}

	if v := os.Getenv("CIMD2_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("session: invalid CIMD2_PORT: %w", err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("CIMD2_USE_CHECKSUM"); v != "" {
		useChecksum, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("session: invalid CIMD2_USE_CHECKSUM: %w", err)
		}
		cfg.UseChecksum = useChecksum
	}

	if v := os.Getenv("CIMD2_RECONNECT_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("session: invalid CIMD2_RECONNECT_TIMEOUT_SECONDS: %w", err)
		}
		cfg.ReconnectTimeout = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv("CIMD2_WINDOW_SIZE"); v != "" {
		windowSize, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("session: invalid CIMD2_WINDOW_SIZE: %w", err)
		}
		cfg.WindowSize = windowSize
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate applies the same length/range bounds the builders enforce,
// so a bad configuration fails at construction time instead of at the
// first login attempt.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("session: host is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("session: port %d out of range 1..65535", c.Port)
	}
	if len(c.Username) == 0 || len(c.Username) > 32 {
		return fmt.Errorf("session: username must be 1..32 characters")
	}
	if len(c.Password) == 0 || len(c.Password) > 32 {
		return fmt.Errorf("session: password must be 1..32 characters")
	}
	if len(c.SubAddr) > 3 {
		return fmt.Errorf("session: sub_addr must be at most 3 characters")
	}
	if c.WindowSize < 0 || c.WindowSize > 128 {
		return fmt.Errorf("session: window_size must be 0..128")
	}
	if c.ReconnectTimeout <= 0 {
		return fmt.Errorf("session: reconnect_timeout must be positive")
	}
	return nil
}

// Addr returns the host:port dial target.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
