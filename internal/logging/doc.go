// Package logging provides structured logging for loupekit.
//
// This package wraps zap with convenience functions for the logging
// patterns used throughout the driver. By default it is silent; set the
// LOUPEKIT_LOG_LEVEL environment variable to enable output, which keeps
// the CLI quiet unless wire-level debugging is wanted.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: wire-level detail (hex dumps, handshake lines, ticks)
//   - Info: normal operations (connections, session state changes)
//   - Warn: non-fatal issues (rejected writes, join timeouts)
//   - Error: failures the workers recover from (read errors, bad frames)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("device confirmed",
//	    zap.String("path", "/dev/ttyUSB0"),
//	    zap.String("serial", "LDL1234567"),
//	)
//
// # Wire Debugging
//
//	logging.LogRawBytes("inbound chunk", chunk)
//
// emits hex and ascii dumps of up to 256 bytes at debug level.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use; the driver's two
// workers and any number of command issuers share the one logger.
package logging
