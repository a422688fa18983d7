// Package logger provides structured logging for streamkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers. Stream evaluations log through the "stream"
// component; declarative plans log through "plan".
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("stream")
//	log.Debug("stream evaluated", logger.Fields(logger.FieldStreamID, id, logger.FieldPulled, 42))
package logger
