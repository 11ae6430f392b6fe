package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverDynamoDB = "dynamodb"
)

type Config struct {
	Slot        SlotConfig
	BackendURL  string
	DevToolsURL string
	// ParamPrefix, when set, lets SSM override BackendURL via <prefix>/config/backend_url.
	ParamPrefix string
	PanelHeight int
}

type SlotConfig struct {
	Driver string
	DBPath string
	Table  string
}

// Load reads the environment, after merging a .env file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Slot: SlotConfig{
			Driver: strings.ToLower(firstNonEmpty(strings.TrimSpace(os.Getenv("SLOT_DRIVER")), DriverSQLite)),
			DBPath: firstNonEmpty(strings.TrimSpace(os.Getenv("SLOT_DB_PATH")), defaultDBPath()),
			Table:  strings.TrimSpace(os.Getenv("SLOT_TABLE")),
		},
		BackendURL:  firstNonEmpty(strings.TrimSpace(os.Getenv("BACKEND_URL")), "http://localhost:8000"),
		DevToolsURL: firstNonEmpty(strings.TrimSpace(os.Getenv("DEVTOOLS_URL")), "http://localhost:9222"),
		ParamPrefix: strings.TrimRight(strings.TrimSpace(os.Getenv("PARAM_PREFIX")), "/"),
		PanelHeight: envInt("PANEL_HEIGHT", 20),
	}

	switch cfg.Slot.Driver {
	case DriverSQLite:
	case DriverDynamoDB:
		if cfg.Slot.Table == "" {
			return nil, errors.New("config: SLOT_TABLE is required for the dynamodb slot driver")
		}
	default:
		return nil, errors.New("config: SLOT_DRIVER must be sqlite or dynamodb")
	}
	return cfg, nil
}

// BackendURLParam is the SSM parameter that overrides BackendURL.
func (c *Config) BackendURLParam() string {
	if c.ParamPrefix == "" {
		return ""
	}
	return c.ParamPrefix + "/config/backend_url"
}

func defaultDBPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "video-chat", "slots.db")
	}
	return filepath.Join(homeDir, ".video-chat", "slots.db")
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
