// Package logger provides structured logging for pipekit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying pipe, step and run identifiers.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("pipe")
//	log.Debug("status changed", logger.Fields(logger.FieldPipe, "lower", logger.FieldTo, "working"))
package logger
