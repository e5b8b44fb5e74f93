// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/ayusman/sareefit/internal/body"
)

// Environment variable names. They must match the env tags on Config and
// calibration.
const (
	EnvAddr              = "SAREEFIT_ADDR"
	EnvDataDir           = "SAREEFIT_DATA_DIR"
	EnvWebDir            = "SAREEFIT_WEB_DIR"
	EnvLogDir            = "SAREEFIT_LOG_DIR"
	EnvLogLevel          = "SAREEFIT_LOG_LEVEL"
	EnvReferenceShoulder = "SAREEFIT_REFERENCE_SHOULDER_CM"
	EnvMinVisibility     = "SAREEFIT_MIN_VISIBILITY"
	EnvDetector          = "SAREEFIT_DETECTOR"
	EnvAppEnv            = "APP_ENV"
)

// Defaults, mirrored in the envDefault tags on Config.
const (
	DefaultAddr     = ":8080"
	DefaultLogLevel = "info"

	DetectorMediaPipe = "mediapipe"
	DetectorMock      = "mock"

	defaultDataDirName = ".sareefit"
	databaseFileName   = "sareefit.db"
)

// Config holds every runtime setting. Fields are bound from the environment
// by their env tags.
type Config struct {
	Addr     string `env:"SAREEFIT_ADDR" envDefault:":8080"`
	DataDir  string `env:"SAREEFIT_DATA_DIR"`
	WebDir   string `env:"SAREEFIT_WEB_DIR"`
	LogDir   string `env:"SAREEFIT_LOG_DIR"`
	LogLevel string `env:"SAREEFIT_LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV"`
	Detector string `env:"SAREEFIT_DETECTOR" envDefault:"mediapipe"`

	// Body is filled from calibration after parsing.
	Body body.Config
}

// calibration is the part of body.Config that can be set from the environment.
type calibration struct {
	ReferenceShoulderCM float64 `env:"SAREEFIT_REFERENCE_SHOULDER_CM"`
	MinVisibility       float64 `env:"SAREEFIT_MIN_VISIBILITY"`
}

// DatabasePath is the sqlite file inside DataDir.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, databaseFileName)
}

// Load reads the given .env files, if present, then builds a Config from the
// process environment. Missing .env files are not an error.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromMap(env.ToMap(os.Environ()))
}

// FromMap builds a Config from the given variables instead of the process
// environment.
func FromMap(environ map[string]string) (Config, error) {
	opts := env.Options{Environment: environ}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.Body = body.DefaultConfig()
	cal := calibration{
		ReferenceShoulderCM: cfg.Body.ReferenceShoulderCM,
		MinVisibility:       cfg.Body.MinVisibility,
	}
	if err := env.ParseWithOptions(&cal, opts); err != nil {
		return Config{}, fmt.Errorf("parse calibration: %w", err)
	}
	cfg.Body.ReferenceShoulderCM = cal.ReferenceShoulderCM
	cfg.Body.MinVisibility = cal.MinVisibility
	if err := cfg.Body.Validate(); err != nil {
		return Config{}, err
	}

	if cfg.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(homeDir, defaultDataDirName)
	}
	if cfg.WebDir == "" {
		cfg.WebDir = findWebDir(cfg.DataDir)
	}

	switch cfg.Detector {
	case DetectorMediaPipe, DetectorMock:
	default:
		return Config{}, fmt.Errorf("%s: unknown detector %q", EnvDetector, cfg.Detector)
	}

	return cfg, nil
}

// findWebDir checks "web", "../web", "../../web" and <dataDir>/web and
// returns the first directory found, or "".
func findWebDir(dataDir string) string {
	for _, p := range []string{"web", "../web", "../../web", filepath.Join(dataDir, "web")} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return ""
}
