package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ayusman/sareefit/internal/app"
	"github.com/ayusman/sareefit/internal/body"
	"github.com/ayusman/sareefit/internal/config"
	"github.com/ayusman/sareefit/internal/logging"
	"github.com/ayusman/sareefit/internal/pose"
	"github.com/ayusman/sareefit/internal/store"
)

var (
	envFile  string
	logLevel string

	cfg    config.Config
	logger *logrus.Logger
)

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sareefit",
		Short:         "Virtual saree try-on: pose landmarks to drape anchors and body measurements",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(envFile); err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			logger, err = logging.New(logging.Config{
				Level: cfg.LogLevel,
				Dir:   cfg.LogDir,
				Env:   cfg.AppEnv,
			})
			return err
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional .env file to load")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides "+config.EnvLogLevel+")")

	root.AddCommand(serveCmd(), measureCmd(), detectCmd())
	return root
}

// appOptions selects the optional parts of the app a command needs.
type appOptions struct {
	store    *store.Store
	detector bool
}

// newApp builds the app from the loaded config.
func newApp(opts appOptions) (*app.App, error) {
	est, err := body.NewEstimator(cfg.Body)
	if err != nil {
		return nil, err
	}

	var det pose.Detector
	if opts.detector {
		if det, err = newDetector(); err != nil {
			return nil, err
		}
	}

	return app.New(app.Config{
		Store:     opts.store,
		Detector:  det,
		Estimator: est,
		Logger:    logger,
	})
}

// newDetector returns the configured detector. When the MediaPipe service
// cannot be found it returns nil, so image operations report the detector as
// unavailable while landmark operations keep working.
func newDetector() (pose.Detector, error) {
	switch cfg.Detector {
	case config.DetectorMock:
		logger.Warn("Using mock pose detector")
		return pose.NewMockDetector(), nil
	case config.DetectorMediaPipe:
		det, err := pose.NewMediaPipeDetector(pose.DefaultConfig())
		if err != nil {
			logger.WithField("error", err.Error()).Warn("MediaPipe unavailable, image detection disabled")
			return nil, nil
		}
		return det, nil
	default:
		return nil, fmt.Errorf("unknown detector %q", cfg.Detector)
	}
}
