package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration shared by the service binaries. Each
// binary consumes the subset it needs; the signing secret in particular must
// be identical across services so every one of them can verify tokens issued
// by the auth service.
type Config struct {
	Addr         string        `envconfig:"ADDR" default:":8080"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`

	PGDSN string `envconfig:"PG_DSN"`

	AuthSecret string        `envconfig:"AUTH_SECRET" required:"true"`
	TokenTTL   time.Duration `envconfig:"TOKEN_TTL" default:"1h"`
	PublicURL  string        `envconfig:"PUBLIC_URL" default:""`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`

	UploadDir string `envconfig:"UPLOAD_DIR" default:"./uploads"`

	RateLimitPerSecond int   `envconfig:"RATE_LIMIT_PER_SECOND" default:"50"`
	RateLimitBurst     int   `envconfig:"RATE_LIMIT_BURST" default:"100"`
	MaxBodyBytes       int64 `envconfig:"MAX_BODY_BYTES" default:"10485760"`
}

// Load reads configuration from DOCMESH_-prefixed environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("docmesh", &cfg); err != nil {
		return nil, err
	}
	if cfg.AuthSecret == "" {
		return nil, errors.New("auth secret must be provided")
	}
	return &cfg, nil
}
