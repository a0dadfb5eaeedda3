package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		wantErr  bool
		validate func(t *testing.T, settings Settings)
	}{
		{
			name:    "defaults with no environment",
			envVars: map[string]string{},
			wantErr: false,
			validate: func(t *testing.T, settings Settings) {
				if settings.ModelURL != "" {
					t.Errorf("expected empty ModelURL, got %s", settings.ModelURL)
				}
				if settings.ServerPort != 8000 {
					t.Errorf("expected default ServerPort 8000, got %d", settings.ServerPort)
				}
				if settings.FetchTimeout != 30*time.Second {
					t.Errorf("expected default FetchTimeout 30s, got %v", settings.FetchTimeout)
				}
				if settings.FetchMaxRetries != 3 {
					t.Errorf("expected default FetchMaxRetries 3, got %d", settings.FetchMaxRetries)
				}
				if settings.StartupTimeout != 5*time.Minute {
					t.Errorf("expected default StartupTimeout 5m, got %v", settings.StartupTimeout)
				}
				if settings.MaxArtifactBytes != 64<<20 {
					t.Errorf("expected default MaxArtifactBytes 64MiB, got %d", settings.MaxArtifactBytes)
				}
				if !settings.MetricsEnabled {
					t.Error("expected MetricsEnabled to default to true")
				}
				if settings.APIURL != "http://localhost:8000" {
					t.Errorf("expected default APIURL, got %s", settings.APIURL)
				}
				if settings.ClientTimeout != 10*time.Second {
					t.Errorf("expected default ClientTimeout 10s, got %v", settings.ClientTimeout)
				}
			},
		},
		{
			name: "custom artifact locations and settings",
			envVars: map[string]string{
				"MODEL_URL":         "https://example.org/model.json",
				"SCALER_URL":        "https://example.org/scaler.json",
				"SERVER_PORT":       "9000",
				"DATA_PATH":         "/tmp/exo",
				"FETCH_TIMEOUT":     "5s",
				"FETCH_MAX_RETRIES": "1",
				"LOG_LEVEL":         "debug",
				"LOG_FORMAT":        "console",
				"METRICS_ENABLED":   "false",
				"CLIENT_RPS":        "2",
			},
			wantErr: false,
			validate: func(t *testing.T, settings Settings) {
				if settings.ModelURL != "https://example.org/model.json" {
					t.Errorf("unexpected ModelURL %s", settings.ModelURL)
				}
				if settings.ScalerURL != "https://example.org/scaler.json" {
					t.Errorf("unexpected ScalerURL %s", settings.ScalerURL)
				}
				if settings.ServerPort != 9000 {
					t.Errorf("expected ServerPort 9000, got %d", settings.ServerPort)
				}
				if settings.DataPath != "/tmp/exo" {
					t.Errorf("expected DataPath /tmp/exo, got %s", settings.DataPath)
				}
				if settings.FetchTimeout != 5*time.Second {
					t.Errorf("expected FetchTimeout 5s, got %v", settings.FetchTimeout)
				}
				if settings.FetchMaxRetries != 1 {
					t.Errorf("expected FetchMaxRetries 1, got %d", settings.FetchMaxRetries)
				}
				if settings.LogLevel != "debug" || settings.LogFormat != "console" {
					t.Errorf("unexpected logging settings %s/%s", settings.LogLevel, settings.LogFormat)
				}
				if settings.MetricsEnabled {
					t.Error("expected MetricsEnabled to be false")
				}
				if settings.ClientRPS != 2 {
					t.Errorf("expected ClientRPS 2, got %d", settings.ClientRPS)
				}
			},
		},
		{
			name:    "privileged port",
			envVars: map[string]string{"SERVER_PORT": "80"},
			wantErr: true,
		},
		{
			name:    "too many retries",
			envVars: map[string]string{"FETCH_MAX_RETRIES": "50"},
			wantErr: true,
		},
		{
			name:    "unknown log level",
			envVars: map[string]string{"LOG_LEVEL": "loud"},
			wantErr: true,
		},
		{
			name:    "unknown log format",
			envVars: map[string]string{"LOG_FORMAT": "xml"},
			wantErr: true,
		},
		{
			name:    "startup shorter than fetch timeout",
			envVars: map[string]string{"FETCH_TIMEOUT": "60s", "STARTUP_TIMEOUT": "10s"},
			wantErr: true,
		},
		{
			name:    "relative API URL",
			envVars: map[string]string{"API_URL": "localhost"},
			wantErr: true,
		},
		{
			name:    "malformed duration keeps default",
			envVars: map[string]string{"CLIENT_TIMEOUT": "soon"},
			wantErr: false,
			validate: func(t *testing.T, settings Settings) {
				if settings.ClientTimeout != 10*time.Second {
					t.Errorf("expected ClientTimeout 10s, got %v", settings.ClientTimeout)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTestEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			settings, err := Load()
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && tt.validate != nil {
				tt.validate(t, settings)
			}
		})
	}
}

func TestLoadFromYAML(t *testing.T) {
	tests := []struct {
		name         string
		yamlContent  string
		envOverrides map[string]string
		wantErr      bool
		validate     func(t *testing.T, settings Settings)
	}{
		{
			name: "valid YAML config",
			yamlContent: `
artifacts:
  modelURL: "https://example.org/model.json"
  scalerURL: "file:///srv/scaler.json"
  fetchTimeout: "15s"
  maxRetries: 5
  maxBytes: 1048576

server:
  port: 8080
  dataPath: "/custom/data"
  startupTimeout: "1m"
  metricsEnabled: false

logging:
  level: "warn"
  format: "console"

client:
  apiURL: "https://exo.example.org"
  timeout: "20s"
  rps: 10
`,
			wantErr: false,
			validate: func(t *testing.T, settings Settings) {
				if settings.ModelURL != "https://example.org/model.json" {
					t.Errorf("unexpected ModelURL %s", settings.ModelURL)
				}
				if settings.ScalerURL != "file:///srv/scaler.json" {
					t.Errorf("unexpected ScalerURL %s", settings.ScalerURL)
				}
				if settings.FetchTimeout != 15*time.Second {
					t.Errorf("expected FetchTimeout 15s, got %v", settings.FetchTimeout)
				}
				if settings.FetchMaxRetries != 5 {
					t.Errorf("expected FetchMaxRetries 5, got %d", settings.FetchMaxRetries)
				}
				if settings.MaxArtifactBytes != 1048576 {
					t.Errorf("expected MaxArtifactBytes 1048576, got %d", settings.MaxArtifactBytes)
				}
				if settings.ServerPort != 8080 {
					t.Errorf("expected ServerPort 8080, got %d", settings.ServerPort)
				}
				if settings.StartupTimeout != time.Minute {
					t.Errorf("expected StartupTimeout 1m, got %v", settings.StartupTimeout)
				}
				if settings.MetricsEnabled {
					t.Error("expected MetricsEnabled to be false")
				}
				if settings.LogLevel != "warn" {
					t.Errorf("expected LogLevel warn, got %s", settings.LogLevel)
				}
				if settings.APIURL != "https://exo.example.org" {
					t.Errorf("unexpected APIURL %s", settings.APIURL)
				}
				if settings.ClientRPS != 10 {
					t.Errorf("expected ClientRPS 10, got %d", settings.ClientRPS)
				}
			},
		},
		{
			name: "environment overrides YAML",
			yamlContent: `
artifacts:
  modelURL: "https://example.org/model.json"
server:
  port: 8080
`,
			envOverrides: map[string]string{
				"MODEL_URL":   "https://mirror.example.org/model.json",
				"SERVER_PORT": "9090",
			},
			wantErr: false,
			validate: func(t *testing.T, settings Settings) {
				if settings.ModelURL != "https://mirror.example.org/model.json" {
					t.Errorf("expected env ModelURL, got %s", settings.ModelURL)
				}
				if settings.ServerPort != 9090 {
					t.Errorf("expected ServerPort 9090, got %d", settings.ServerPort)
				}
				if !settings.MetricsEnabled {
					t.Error("expected MetricsEnabled to default to true")
				}
			},
		},
		{
			name:        "invalid YAML",
			yamlContent: "artifacts: [unclosed",
			wantErr:     true,
		},
		{
			name: "invalid values in YAML",
			yamlContent: `
server:
  port: 70000
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearTestEnv(t)

			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.yamlContent), 0o600); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}
			t.Setenv("CONFIG_FILE", configPath)
			for key, value := range tt.envOverrides {
				t.Setenv(key, value)
			}

			settings, err := Load()
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && tt.validate != nil {
				tt.validate(t, settings)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing config file", func(t *testing.T) {
		clearTestEnv(t)
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

		if _, err := Load(); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

// clearTestEnv clears potentially conflicting environment variables
func clearTestEnv(t *testing.T) {
	envVars := []string{
		"CONFIG_FILE", "MODEL_URL", "SCALER_URL", "SERVER_PORT", "DATA_PATH",
		"FETCH_TIMEOUT", "FETCH_MAX_RETRIES", "FETCH_MAX_ELAPSED", "STARTUP_TIMEOUT",
		"MAX_ARTIFACT_BYTES", "LOG_LEVEL", "LOG_FORMAT", "METRICS_ENABLED",
		"API_URL", "CLIENT_TIMEOUT", "CLIENT_RPS",
	}

	for _, env := range envVars {
		t.Setenv(env, "")
	}
}
