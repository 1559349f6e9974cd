// Package logger provides the structured logger used by every other
// package in this repository.
//
// It wraps Uber's Zap with a small convenience API (message + optional
// error + optional field maps) so that consumer packages can declare a
// local Logger interface and stay decoupled from Zap.
//
// Example:
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Info})
//	log.Info("project created", nil, map[string]interface{}{
//	    "project_id": projectID,
//	})
package logger
