// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for humans
//
// Components take a named child logger so every line carries its origin:
//
//	logger, err := logging.New(logging.Config{Level: "info"})
//	ctrlLog := logger.Named("controller")
//	ctrlLog.Info("browser launched", zap.String("kind", "chrome"))
package logging
