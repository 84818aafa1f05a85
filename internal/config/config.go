package config

import (
	"fmt"
	"intake/pkg/camera"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, database connection,
// the intake heuristics, audio and camera devices, and graceful shutdown.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the level of the environment's logger preset (debug, info, warn, error)
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// AllowedOrigins lists the origins of terminal screens allowed by CORS
		AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" env-default:"*" env-separator:"," yaml:"allowedOrigins"`
	} `yaml:"http"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"intake" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// Intake tunes the scanner heuristic and the resolution side effects.
	Intake struct {
		// ScanTimeout is the keystroke gap under which input counts as a scanner burst
		ScanTimeout time.Duration `env:"INTAKE_SCAN_TIMEOUT" env-default:"100ms" yaml:"scanTimeout"`
		// MinAutoSubmitLength is the shortest burst that is auto-submitted
		MinAutoSubmitLength int `env:"INTAKE_MIN_AUTO_SUBMIT_LENGTH" env-default:"8" yaml:"minAutoSubmitLength"`
		// SoundsEnabled turns the audio cues on; unset means on (see Config.SoundsEnabled)
		SoundsEnabled *bool `env:"INTAKE_SOUNDS_ENABLED" yaml:"soundsEnabled"`
		// TaxRate is applied on top of cart subtotals
		TaxRate string `env:"INTAKE_TAX_RATE" env-default:"0.12" yaml:"taxRate"`
		// Tone selects how audio cues are played
		Tone struct {
			// Mode is one of none, bell or command
			Mode string `env:"INTAKE_TONE_MODE" env-default:"none" yaml:"mode"`
			// Command is the audio player fed with a WAV stream on stdin
			Command string `env:"INTAKE_TONE_COMMAND" env-default:"aplay" yaml:"command"`
			// Args are the player arguments
			Args []string `env:"INTAKE_TONE_ARGS" env-default:"-q,-" env-separator:"," yaml:"args"`
			// SampleRate of the rendered cues
			SampleRate int `env:"INTAKE_TONE_SAMPLE_RATE" env-default:"44100" yaml:"sampleRate"`
		} `yaml:"tone"`
	} `yaml:"intake"`

	// Camera lists the snapshot cameras terminals may scan with.
	Camera struct {
		// FPS is the rate at which snapshots are polled while scanning
		FPS int `env:"CAMERA_FPS" env-default:"15" yaml:"fps"`
		// FrameTimeout bounds a single snapshot request
		FrameTimeout time.Duration `env:"CAMERA_FRAME_TIMEOUT" env-default:"2s" yaml:"frameTimeout"`
		// Devices are the configured cameras
		Devices []camera.Device `yaml:"devices"`
	} `yaml:"camera"`

	// Catalog controls the in-memory product snapshot.
	Catalog struct {
		// RefreshInterval is how often the snapshot is reloaded from the database
		RefreshInterval time.Duration `env:"CATALOG_REFRESH_INTERVAL" env-default:"5m" yaml:"refreshInterval"`
	} `yaml:"catalog"`

	// Worker configures the background job client.
	Worker struct {
		// MaxWorkers is the number of concurrent jobs of the default queue
		MaxWorkers int `env:"WORKER_MAX_WORKERS" env-default:"2" yaml:"maxWorkers"`
	} `yaml:"worker"`

	// JWT holds the RS256 key pair used for operator bearer tokens.
	JWT struct {
		// PublicKey verifies tokens
		PublicKey string `env:"JWT_PUBLIC_KEY" yaml:"publicKey"`
		// PrivateKey signs tokens issued by the jwt command
		PrivateKey string `env:"JWT_PRIVATE_KEY" yaml:"privateKey"`
	} `yaml:"jwt"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// SoundsEnabled reports whether audio cues are on. cleanenv would override an
// explicit false with a default, so the default lives here.
func (c *Config) SoundsEnabled() bool {
	return c.Intake.SoundsEnabled == nil || *c.Intake.SoundsEnabled
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
