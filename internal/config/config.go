package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	History    HistoryConfig
	Automation AutomationConfig
	Log        LogConfig
	API        APIConfig
}

type ServerConfig struct {
	Port    int
	MCPPort int
}

type StorageConfig struct {
	DataDir string
}

type HistoryConfig struct {
	// Limit caps how many live unpinned clipboard items are kept before
	// the oldest move to the recycle bin.
	Limit int
}

type AutomationConfig struct {
	// TimerInterval is the tick period for timer-triggered workflows,
	// in Go duration syntax.
	TimerInterval string
}

type LogConfig struct {
	Level string
}

type APIConfig struct {
	// Token authenticates local HTTP clients. Generated on first start
	// when not configured.
	Token string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:    4200,
			MCPPort: 4201,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		History: HistoryConfig{
			Limit: 500,
		},
		Automation: AutomationConfig{
			TimerInterval: "1m",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend and
// environment variables.
//
// On macOS the backend is UserDefaults (domain: com.clipsync.app); on
// Linux it is a JSON file at $XDG_CONFIG_HOME/clipsync/config.json.
// Environment variables (CLIPSYNC_*) override backend values on all
// platforms. A missing API token is generated and written back to the
// backend so subsequent client invocations can authenticate.
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.API.Token == "" {
		token, err := generateToken()
		if err != nil {
			return Config{}, fmt.Errorf("generating api token: %w", err)
		}
		if err := b.SetString("api.token", token); err != nil {
			return Config{}, fmt.Errorf("persisting api token: %w", err)
		}
		cfg.API.Token = token
	}

	return cfg, nil
}

func generateToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
