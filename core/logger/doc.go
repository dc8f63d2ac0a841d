// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and a small helper for correlating log entries
// across a synchronization run.
//
// # Run Correlation
//
// Every synchronization run is assigned a run ID. The WithRun helper attaches
// that ID to the logger so that all entries produced during the run, from the
// database read to the final statistics report, can be grouped together.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("run started")
//
//	// Inside a run:
//	l := logger.WithRun(log, runID)
//	l.Error("export failed", zap.Error(err))
package logger
