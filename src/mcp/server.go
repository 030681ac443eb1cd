// Package mcp exposes the build report pipeline as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tomzx/drone-stats/src/config"
	"github.com/tomzx/drone-stats/src/drone"
	"github.com/tomzx/drone-stats/src/fetch"
	"github.com/tomzx/drone-stats/src/logger"
	"github.com/tomzx/drone-stats/src/report"
)

// Server is the MCP server for drone-stats.
type Server struct {
	mcpServer *server.MCPServer
	cfg       *config.Config
}

// reportResult is the JSON payload returned by the build_report tool.
type reportResult struct {
	Columns []string    `json:"columns"`
	Rows    []reportRow `json:"rows"`
}

type reportRow struct {
	BuildNumber int              `json:"build_number"`
	Branch      string           `json:"branch"`
	Steps       map[string]int64 `json:"steps"`
}

// NewServer creates a new MCP server. The configuration must carry the
// Drone server URL and token (DRONE_SERVER / DRONE_TOKEN).
func NewServer(cfg *config.Config) (*Server, error) {
	if err := cfg.RequireServer(); err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		"drone-stats",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	srv := &Server{
		mcpServer: s,
		cfg:       cfg,
	}
	srv.registerTools()

	return srv, nil
}

// registerTools registers all available tools.
func (s *Server) registerTools() {
	reportTool := mcp.NewTool("build_report",
		mcp.WithDescription("Flatten a repository's CI builds into per-step durations. Returns one row per build with a map of step name to duration in seconds. Skipped steps have duration 0."),
		mcp.WithString("organization",
			mcp.Required(),
			mcp.Description("Drone organization (e.g., my-organization)"),
		),
		mcp.WithString("repository",
			mcp.Required(),
			mcp.Description("Repository name (e.g., my-repository)"),
		),
		mcp.WithNumber("last_n",
			mcp.Description("Only report the most recent N builds (default: all builds)"),
		),
	)

	stepsTool := mcp.NewTool("list_steps",
		mcp.WithDescription("List the distinct pipeline step names seen across a repository's builds."),
		mcp.WithString("organization",
			mcp.Required(),
			mcp.Description("Drone organization"),
		),
		mcp.WithString("repository",
			mcp.Required(),
			mcp.Description("Repository name"),
		),
	)

	s.mcpServer.AddTool(reportTool, s.handleBuildReport)
	s.mcpServer.AddTool(stepsTool, s.handleListSteps)
}

// Run starts the MCP server on stdio.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) runReport(ctx context.Context, org, repo string, lastN int) (*report.Table, error) {
	fetcher, err := fetch.New(s.cfg.ServerURL, s.cfg.Token, s.cfg.CacheDir,
		logger.NewSilentLogger(), fetch.WithTimeout(s.cfg.HTTPTimeout))
	if err != nil {
		return nil, err
	}

	builder := report.NewBuilder(drone.NewClient(fetcher), org, repo, logger.NewSilentLogger())
	builder.LastN = lastN
	return builder.Run(ctx)
}

// handleBuildReport handles the build_report tool call.
func (s *Server) handleBuildReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	org := request.GetString("organization", "")
	if org == "" {
		return mcp.NewToolResultError("organization parameter is required"), nil
	}
	repo := request.GetString("repository", "")
	if repo == "" {
		return mcp.NewToolResultError("repository parameter is required"), nil
	}
	lastN := request.GetInt("last_n", 0)

	table, err := s.runReport(ctx, org, repo, lastN)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	result := reportResult{
		Columns: table.Columns(),
		Rows:    make([]reportRow, 0, table.Len()),
	}
	for _, row := range table.Rows() {
		steps := make(map[string]int64, len(row.Steps))
		for _, step := range row.Steps {
			steps[step.Name] = step.Seconds
		}
		result.Rows = append(result.Rows, reportRow{
			BuildNumber: row.BuildNumber,
			Branch:      row.Branch,
			Steps:       steps,
		})
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// handleListSteps handles the list_steps tool call.
func (s *Server) handleListSteps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	org := request.GetString("organization", "")
	if org == "" {
		return mcp.NewToolResultError("organization parameter is required"), nil
	}
	repo := request.GetString("repository", "")
	if repo == "" {
		return mcp.NewToolResultError("repository parameter is required"), nil
	}

	table, err := s.runReport(ctx, org, repo, 0)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	payload, err := json.Marshal(table.StepColumns())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
