package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	API         APIConfig         `toml:"api"`
	Poll        PollConfig        `toml:"poll"`
	Download    DownloadConfig    `toml:"download"`
	Output      OutputConfig      `toml:"output"`
}

// CredentialsConfig contains the two opaque bearer tokens the application
// consumes. Environment variables take precedence over file values; a missing
// OpenAI key disables only the auto-lyrics path.
type CredentialsConfig struct {
	SunoAPIKey   string `toml:"suno_api_key"`
	OpenAIAPIKey string `toml:"openai_api_key"`
}

// APIConfig contains remote generation service settings.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// PollConfig contains task polling settings.
type PollConfig struct {
	MaxAttempts     int `toml:"max_attempts"`
	IntervalSeconds int `toml:"interval_seconds"`
}

// DownloadConfig contains clip download settings.
type DownloadConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// OutputConfig contains file output settings.
type OutputConfig struct {
	Dir    string `toml:"dir"`
	LogDir string `toml:"log_dir"`
}

// LoadConfig reads and parses a TOML configuration file from the specified
// path, then overlays credentials from the environment. A .env file in the
// working directory is honored if present.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.loadEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the
// embedded example config, overlaid with environment credentials.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.loadEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) loadEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("SUNO_API_KEY"); v != "" {
		c.Credentials.SunoAPIKey = v
	}
	if v := os.Getenv("OPENAI_KEY"); v != "" {
		c.Credentials.OpenAIAPIKey = v
	}
}
