package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "FLORESTA"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Env var names referenced outside envconfig tags (tests, error messages).
const (
	EnvAppEnv           = "FLORESTA_APP_ENV"
	EnvPort             = "FLORESTA_APP_PORT"
	EnvStoragePublicDir = "FLORESTA_STORAGE_PUBLIC_DIR"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Metrics MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.ensurePublicDir(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FLORESTA_APP_ENV" required:"true"`
	Port         string `envconfig:"FLORESTA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FLORESTA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FLORESTA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig configures the local file storage backing uploaded media.
type StorageConfig struct {
	PublicDir      string `envconfig:"FLORESTA_STORAGE_PUBLIC_DIR"`
	PublicBaseURL  string `envconfig:"FLORESTA_STORAGE_PUBLIC_BASE_URL" default:"/uploads"`
	UploadsDirName string `envconfig:"FLORESTA_STORAGE_UPLOADS_DIR_NAME" default:"uploads"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"FLORESTA_METRICS_ENABLED" default:"true"`
}

// ensurePublicDir defaults the public dir to <cwd>/public and requires the
// resulting path to be absolute so locator reversal stays unambiguous.
func (s *StorageConfig) ensurePublicDir() error {
	if s.PublicDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}
		s.PublicDir = filepath.Join(cwd, "public")
		return nil
	}
	if !filepath.IsAbs(s.PublicDir) {
		return fmt.Errorf("%s must be an absolute path", EnvStoragePublicDir)
	}
	return nil
}
