package cfg

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"exoplanet-detector/internal/common"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Settings struct {
	ModelURL         string
	ScalerURL        string
	ServerPort       int
	DataPath         string
	FetchTimeout     time.Duration
	FetchMaxRetries  int
	FetchMaxElapsed  time.Duration
	StartupTimeout   time.Duration
	MaxArtifactBytes int64
	LogLevel         string
	LogFormat        string
	MetricsEnabled   bool
	APIURL           string
	ClientTimeout    time.Duration
	ClientRPS        int
}

type ConfigFile struct {
	Artifacts struct {
		ModelURL     string `yaml:"modelURL"`
		ScalerURL    string `yaml:"scalerURL"`
		FetchTimeout string `yaml:"fetchTimeout"`
		MaxRetries   int    `yaml:"maxRetries"`
		MaxElapsed   string `yaml:"maxElapsed"`
		MaxBytes     int64  `yaml:"maxBytes"`
	} `yaml:"artifacts"`

	Server struct {
		Port           int    `yaml:"port"`
		DataPath       string `yaml:"dataPath"`
		StartupTimeout string `yaml:"startupTimeout"`
		MetricsEnabled *bool  `yaml:"metricsEnabled"`
	} `yaml:"server"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Client struct {
		APIURL  string `yaml:"apiURL"`
		Timeout string `yaml:"timeout"`
		RPS     int    `yaml:"rps"`
	} `yaml:"client"`
}

func Load() (Settings, error) {
	// Try to load from YAML file first
	if configPath := os.Getenv(common.EnvConfigFile); configPath != "" {
		return loadFromYAML(configPath)
	}

	// Fallback to environment variables
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	metricsEnabled := true
	if config.Server.MetricsEnabled != nil {
		metricsEnabled = *config.Server.MetricsEnabled
	}

	// Environment variables override the file
	settings := Settings{
		ModelURL:         getEnvOrDefault(common.EnvModelURL, config.Artifacts.ModelURL),
		ScalerURL:        getEnvOrDefault(common.EnvScalerURL, config.Artifacts.ScalerURL),
		ServerPort:       getIntFromEnvOrConfig(common.EnvServerPort, config.Server.Port, common.DefaultServerPort),
		DataPath:         getEnvOrDefault(common.EnvDataPath, config.Server.DataPath),
		FetchTimeout:     getDurationFromEnvOrConfig(common.EnvFetchTimeout, config.Artifacts.FetchTimeout, 30*time.Second),
		FetchMaxRetries:  getIntFromEnvOrConfig(common.EnvFetchMaxRetries, config.Artifacts.MaxRetries, common.DefaultFetchMaxRetries),
		FetchMaxElapsed:  getDurationFromEnvOrConfig(common.EnvFetchMaxElapsed, config.Artifacts.MaxElapsed, 2*time.Minute),
		StartupTimeout:   getDurationFromEnvOrConfig(common.EnvStartupTimeout, config.Server.StartupTimeout, 5*time.Minute),
		MaxArtifactBytes: getInt64FromEnvOrConfig(common.EnvMaxArtifactBytes, config.Artifacts.MaxBytes, common.DefaultMaxArtifactBytes),
		LogLevel:         getEnvOrDefault(common.EnvLogLevel, orDefault(config.Logging.Level, common.DefaultLogLevel)),
		LogFormat:        getEnvOrDefault(common.EnvLogFormat, orDefault(config.Logging.Format, common.DefaultLogFormat)),
		MetricsEnabled:   getBoolOrDefault(common.EnvMetricsEnabled, metricsEnabled),
		APIURL:           getEnvOrDefault(common.EnvAPIURL, orDefault(config.Client.APIURL, common.DefaultAPIURL)),
		ClientTimeout:    getDurationFromEnvOrConfig(common.EnvClientTimeout, config.Client.Timeout, 10*time.Second),
		ClientRPS:        getIntFromEnvOrConfig(common.EnvClientRPS, config.Client.RPS, common.DefaultClientRPS),
	}

	// Validate configuration
	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		ModelURL:         os.Getenv(common.EnvModelURL),
		ScalerURL:        os.Getenv(common.EnvScalerURL), // optional
		ServerPort:       getIntOrDefault(common.EnvServerPort, common.DefaultServerPort),
		DataPath:         os.Getenv(common.EnvDataPath), // optional
		FetchTimeout:     getDurationOrDefault(common.EnvFetchTimeout, 30*time.Second),
		FetchMaxRetries:  getIntOrDefault(common.EnvFetchMaxRetries, common.DefaultFetchMaxRetries),
		FetchMaxElapsed:  getDurationOrDefault(common.EnvFetchMaxElapsed, 2*time.Minute),
		StartupTimeout:   getDurationOrDefault(common.EnvStartupTimeout, 5*time.Minute),
		MaxArtifactBytes: int64(getIntOrDefault(common.EnvMaxArtifactBytes, common.DefaultMaxArtifactBytes)),
		LogLevel:         getEnvOrDefault(common.EnvLogLevel, common.DefaultLogLevel),
		LogFormat:        getEnvOrDefault(common.EnvLogFormat, common.DefaultLogFormat),
		MetricsEnabled:   getBoolOrDefault(common.EnvMetricsEnabled, true),
		APIURL:           getEnvOrDefault(common.EnvAPIURL, common.DefaultAPIURL),
		ClientTimeout:    getDurationOrDefault(common.EnvClientTimeout, 10*time.Second),
		ClientRPS:        getIntOrDefault(common.EnvClientRPS, common.DefaultClientRPS),
	}

	// Validate configuration
	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func orDefault(v, defaultValue string) string {
	if v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func getInt64FromEnvOrConfig(key string, configValue, defaultValue int64) int64 {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseInt(env, 10, 64); err == nil {
			return val
		}
	}
	if configValue != 0 {
		return configValue
	}
	return defaultValue
}

func getDurationFromEnvOrConfig(key, configValue string, defaultValue time.Duration) time.Duration {
	if env := os.Getenv(key); env != "" {
		if d, err := time.ParseDuration(env); err == nil {
			return d
		}
	}
	if configValue != "" {
		if d, err := time.ParseDuration(configValue); err == nil {
			return d
		}
	}
	return defaultValue
}

// validateSettings performs comprehensive validation of configuration values
func validateSettings(settings *Settings) error {
	if settings.ServerPort < common.MinServerPort || settings.ServerPort > common.MaxServerPort {
		return fmt.Errorf("server port must be between %d and %d, got %d",
			common.MinServerPort, common.MaxServerPort, settings.ServerPort)
	}

	// Validate time durations
	if settings.FetchTimeout < time.Second || settings.FetchTimeout > 10*time.Minute {
		return fmt.Errorf("fetch timeout must be between 1s and 10m, got %v", settings.FetchTimeout)
	}
	if settings.FetchMaxElapsed < time.Second || settings.FetchMaxElapsed > time.Hour {
		return fmt.Errorf("fetch max elapsed must be between 1s and 1h, got %v", settings.FetchMaxElapsed)
	}
	if settings.StartupTimeout < settings.FetchTimeout {
		return fmt.Errorf("startup timeout %v must not be shorter than fetch timeout %v",
			settings.StartupTimeout, settings.FetchTimeout)
	}
	if settings.ClientTimeout < time.Second || settings.ClientTimeout > 5*time.Minute {
		return fmt.Errorf("client timeout must be between 1s and 5m, got %v", settings.ClientTimeout)
	}

	// Validate integer values
	if settings.FetchMaxRetries < 0 || settings.FetchMaxRetries > common.MaxFetchRetries {
		return fmt.Errorf("fetch retries must be between 0 and %d, got %d", common.MaxFetchRetries, settings.FetchMaxRetries)
	}
	if settings.MaxArtifactBytes <= 0 {
		return fmt.Errorf("max artifact bytes must be positive, got %d", settings.MaxArtifactBytes)
	}
	if settings.ClientRPS <= 0 || settings.ClientRPS > 1000 {
		return fmt.Errorf("client requests per second must be between 1 and 1000, got %d", settings.ClientRPS)
	}

	// Validate logging
	if _, err := zerolog.ParseLevel(settings.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", settings.LogLevel, err)
	}
	switch strings.ToLower(settings.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be json or console, got %q", settings.LogFormat)
	}

	// Validate URLs
	u, err := url.Parse(settings.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API URL %q", settings.APIURL)
	}

	return nil
}
