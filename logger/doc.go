// Package logger provides structured logging for kvrest using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("kvrest")
//	log.Debug("request completed", logger.Fields("method", "GET", "status_code", 200))
package logger
