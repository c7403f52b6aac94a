package cli

import (
	"context"
	"fmt"

	"github.com/amribhatt/pega/internal/agent"
	"github.com/amribhatt/pega/internal/config"
	"github.com/amribhatt/pega/internal/server"
)

// Target is what the check suite exercises: the three tools and the two
// resources, addressed by their MCP names.
type Target interface {
	// CallToolText calls a tool and returns its text. isError reports a
	// tool-level failure; err is reserved for transport problems.
	CallToolText(ctx context.Context, name string, args map[string]interface{}) (text string, isError bool, err error)
	// ReadResourceText reads a text resource.
	ReadResourceText(ctx context.Context, uri string) (string, error)
}

// ConnectLocal builds an MCP server for service and returns a client
// connected to it in-process. Checks run through the same tool and resource
// handlers a deployed server uses. The caller closes the client.
func ConnectLocal(ctx context.Context, cfg *config.Config, service server.CaseService, version string) (*agent.Client, error) {
	srv := server.New(cfg, service, server.WithVersion(version))

	client := agent.NewInProcessClient(srv.MCPServer())
	client.SetVersion(version)
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to in-process server: %w", err)
	}
	return client, nil
}
