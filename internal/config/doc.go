// Package config loads the pega-mcp runtime configuration.
//
// Settings come from three layers, later ones winning:
//
//  1. Built-in defaults (see GetDefaultConfig)
//  2. A dotenv file, ./.env unless --env-file says otherwise
//  3. Process environment variables
//
// Loading is done with viper. The resulting Config is treated as immutable.
//
// # Platform Settings
//
//   - PEGA_BASE_URL (alias BASE_URL): platform root, trailing slash trimmed
//   - PEGA_CLIENT_ID / PEGA_CLIENT_SECRET (aliases CLIENT_ID / CLIENT_SECRET)
//   - APP_ALIAS: substituted for {app_alias} in API_BASE_PATH
//   - API_BASE_PATH: default /prweb/app/{app_alias}/api/application/v2
//   - OAUTH2_TOKEN_URL: token path, default /prweb/PRRestService/oauth2/v1/token
//   - VERIFY_SSL: default true
//   - REQUEST_TIMEOUT: seconds, default 30
//   - MAX_CONCURRENT_REQUESTS: accepted but unused, default 10
//
// # Server Settings
//
//   - MCP_SERVER_HOST / MCP_SERVER_PORT: default 0.0.0.0:8080
//   - MCP_TRANSPORT: streamable-http (default), sse or stdio
//   - METRICS_ENABLED: serve /metrics, default true
//   - DEDUPE_TOKEN_REFRESH: collapse concurrent token refreshes, default false
//
// # Validation
//
// IsConfigured reports whether the four required platform values are set.
// Validate returns a ConfigurationErrorCollection naming every missing or
// invalid setting together with suggestions for fixing it.
package config
