package app

import (
	"github.com/amribhatt/pega/internal/config"
	"github.com/amribhatt/pega/internal/metrics"
	"github.com/amribhatt/pega/internal/pega"
	"github.com/amribhatt/pega/internal/server"
	"github.com/amribhatt/pega/pkg/logging"
)

// Services holds the components a running server is built from.
type Services struct {
	Metrics *metrics.Recorder
	Pega    *pega.Client
	Server  *server.Server
}

// InitializeServices wires the metrics recorder, the Pega client and the MCP
// server for cfg. Nothing is started.
func InitializeServices(cfg *config.Config, version string) *Services {
	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder()
		logging.Info("Bootstrap", "Metrics enabled at %s", cfg.Metrics.Path)
	}

	client := pega.NewClient(cfg, pega.WithMetrics(recorder))

	srv := server.New(cfg, client,
		server.WithMetrics(recorder),
		server.WithVersion(version),
	)

	return &Services{
		Metrics: recorder,
		Pega:    client,
		Server:  srv,
	}
}
