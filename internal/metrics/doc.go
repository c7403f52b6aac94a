// Package metrics exposes Prometheus collectors for token refreshes and Pega
// API operations. The collectors live on a private registry served at /metrics
// by the HTTP transports.
package metrics
