// Package log provides a simple, leveled logging interface for LawGraph.
//
// The engine logs its routing decisions, search progress, and degraded-mode
// fallbacks through the Logger interface defined here. Two implementations
// ship with the package: DefaultLogger over the standard library, and
// GologLogger over github.com/kataras/golog for applications that already
// use golog.
//
// # Log Levels
//
// Five levels, in order of increasing severity:
//
//   - LogLevelDebug: detailed debugging information
//   - LogLevelInfo: general informational messages
//   - LogLevelWarn: potentially problematic situations
//   - LogLevelError: failures that need attention
//   - LogLevelNone: disables all output
//
// # Example
//
//	logger := log.NewDefaultLogger(log.LogLevelInfo)
//	logger.Info("engine ready, collection=%s", cfg.QdrantCollection)
//
// A package-level default logger is available for components that are not
// handed a logger explicitly:
//
//	log.SetLogLevel(log.LogLevelDebug)
//	log.Debug("fuzzy candidate: %s (ratio %.4f)", name, ratio)
package log
