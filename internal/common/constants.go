package common

// Environment variable keys
const (
	EnvConfigFile       = "CONFIG_FILE"
	EnvModelURL         = "MODEL_URL"
	EnvScalerURL        = "SCALER_URL"
	EnvServerPort       = "SERVER_PORT"
	EnvDataPath         = "DATA_PATH"
	EnvFetchTimeout     = "FETCH_TIMEOUT"
	EnvFetchMaxRetries  = "FETCH_MAX_RETRIES"
	EnvFetchMaxElapsed  = "FETCH_MAX_ELAPSED"
	EnvStartupTimeout   = "STARTUP_TIMEOUT"
	EnvMaxArtifactBytes = "MAX_ARTIFACT_BYTES"
	EnvLogLevel         = "LOG_LEVEL"
	EnvLogFormat        = "LOG_FORMAT"
	EnvMetricsEnabled   = "METRICS_ENABLED"
	EnvAPIURL           = "API_URL"
	EnvClientTimeout    = "CLIENT_TIMEOUT"
	EnvClientRPS        = "CLIENT_RPS"
)

// Configuration defaults
const (
	DefaultServerPort       = 8000
	DefaultAPIURL           = "http://localhost:8000"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultFetchMaxRetries  = 3
	DefaultMaxArtifactBytes = 64 << 20
	DefaultClientRPS        = 5
)

// Response strings shared by the service and the client
const (
	APIMessage        = "Exoplanet Detection API"
	StatusRunning     = "running"
	StatusHealthy     = "healthy"
	LabelDetected     = "Exoplanet detected!"
	LabelNotDetected  = "No exoplanet detected"
	ConfidenceHigh    = "High"
	ConfidenceMedium  = "Medium"
	DetailNotLoaded   = "Model not loaded"
	DetailErrorPrefix = "Prediction error: "
)

// Validation constants
const (
	MinServerPort       = 1024
	MaxServerPort       = 65535
	MaxFetchRetries     = 10
	MaxPredictionsLimit = 500
	MaxRequestBodyBytes = 1 << 20
)
