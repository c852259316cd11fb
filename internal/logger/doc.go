// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a plain console encoder suited for build logs,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, WarnKV, etc.).
//
// The stamper pipeline accepts a context and extracts the logger from it, so
// every step logs under the name of the command that started it.
package logger
