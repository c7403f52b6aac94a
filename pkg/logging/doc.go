// Package logging provides subsystem-tagged structured logging for pega-mcp.
//
// The package wraps Go's log/slog with a small printf-style API so call sites
// stay short and every entry carries the subsystem that produced it:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Server", "Starting MCP Pega Server for %s", baseURL)
//	logging.Debug("Auth", "Using cached token, expires at %s", expiresAt)
//	logging.Error("Pega", err, "Failed to list case types")
//
// # Subsystems
//
//   - Bootstrap: command startup and configuration loading
//   - Config: configuration parsing and validation
//   - Auth: OAuth client-credentials token lifecycle
//   - Pega: upstream REST calls
//   - Server: MCP transport and handler registration
//   - Check: the end-to-end tool check command
//
// # Audit Logging
//
// Token acquisitions are recorded as audit events:
//
//	logging.Audit(logging.AuditEvent{
//	    Action:  "token_acquire",
//	    Outcome: "success",
//	    Target:  tokenURL,
//	})
//
// Audit events are logged at INFO level with an [AUDIT] prefix for easy
// filtering by log aggregation systems. Access tokens and client secrets are
// never passed to the logger; see internal/oauth.RedactedToken.
//
// Before InitForCLI is called, debug and info messages are dropped while
// warnings and errors are written to stderr so they are never lost.
package logging
