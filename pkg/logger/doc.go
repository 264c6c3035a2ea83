// Package logger provides the structured logger used for agent diagnostics.
//
// It is a thin wrapper around Uber's zap. Every other package in this module
// depends on a small Logger interface with the same method set, so a host can
// plug in its own implementation instead.
//
// Basic Usage:
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:       logger.Debug,
//		ServiceName: "storefront",
//	})
//
//	log.Info("init complete", nil, map[string]interface{}{
//		"app": "storefront",
//	})
//	log.Warn("session cookie not persisted", err, nil)
//
// Configuration:
//
//	LOGGER_LEVEL=debug              # debug, info, warning, error
//	LOGGER_SERVICE_NAME=storefront  # value of the "service" field
//
// FX Module Integration:
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config { return logger.Config{Level: logger.Info} }),
//	)
//
// Thread Safety:
//
// All methods on Logger are safe for concurrent use by multiple goroutines.
package logger
