// Package mcpapi provides a stateless MCP streamable-HTTP adapter.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/evanschultz/rota/internal/adapters/server/common"
)

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// dayNames lists accepted day arguments for tool schemas.
var dayNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// NewHandler builds one stateless MCP adapter exposing the rotation tools.
func NewHandler(cfg Config, rotation common.RotationService) (*Handler, error) {
	if rotation == nil {
		return nil, fmt.Errorf("rotation service is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerAssignTools(mcpSrv, rotation)
	registerWeekTools(mcpSrv, rotation)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP handles one MCP streamable HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "rota"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.EndpointPath, "/") {
		cfg.EndpointPath = "/" + cfg.EndpointPath
	}
	cfg.EndpointPath = "/" + strings.Trim(cfg.EndpointPath, "/")
	return cfg
}

// registerAssignTools registers `rota.assign_day` and `rota.get_plan`.
func registerAssignTools(srv *mcpserver.MCPServer, rotation common.RotationService) {
	srv.AddTool(
		mcp.NewTool(
			"rota.assign_day",
			mcp.WithDescription("Generate one day's assignment plan and record its special duties for the week."),
			mcp.WithString("day", mcp.Required(), mcp.Description("Day of the week"), mcp.Enum(dayNames...)),
			mcp.WithBoolean("weighted", mcp.Description("Hand out the heaviest items first")),
			mcp.WithBoolean("randomize", mcp.Description("Shuffle item order before distribution")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			day, err := req.RequireString("day")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			plan, err := rotation.AssignDay(ctx, common.AssignRequest{
				Day:       day,
				Weighted:  optionalBool(req, "weighted"),
				Randomize: optionalBool(req, "randomize"),
			})
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(plan)
			if err != nil {
				return nil, fmt.Errorf("encode assign_day result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"rota.get_plan",
			mcp.WithDescription("Return the most recent plan generated for one day this week."),
			mcp.WithString("day", mcp.Required(), mcp.Description("Day of the week"), mcp.Enum(dayNames...)),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			day, err := req.RequireString("day")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			plan, err := rotation.Plan(ctx, day)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(plan)
			if err != nil {
				return nil, fmt.Errorf("encode get_plan result: %w", err)
			}
			return result, nil
		},
	)
}

// registerWeekTools registers history, reset, and availability tools.
func registerWeekTools(srv *mcpserver.MCPServer, rotation common.RotationService) {
	srv.AddTool(
		mcp.NewTool(
			"rota.history",
			mcp.WithDescription("List the week's special-duty rotation records and per-worker counts."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			history, err := rotation.History(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(history)
			if err != nil {
				return nil, fmt.Errorf("encode history result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"rota.reset_week",
			mcp.WithDescription("Clear the week's rotation history and cached plans."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			reset, err := rotation.ResetWeek(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(reset)
			if err != nil {
				return nil, fmt.Errorf("encode reset_week result: %w", err)
			}
			return result, nil
		},
	)

	srv.AddTool(
		mcp.NewTool(
			"rota.availability",
			mcp.WithDescription("Return every worker's availability for the week."),
		),
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			rows, err := rotation.Availability(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]any{
				"workers": rows,
			})
			if err != nil {
				return nil, fmt.Errorf("encode availability result: %w", err)
			}
			return result, nil
		},
	)
}

// optionalBool returns a pointer to a boolean argument only when the caller set it.
func optionalBool(req mcp.CallToolRequest, name string) *bool {
	if _, ok := req.GetArguments()[name]; !ok {
		return nil
	}
	v := req.GetBool(name, false)
	return &v
}

// toolResultFromError maps service errors into MCP-visible tool errors.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case errors.Is(err, common.ErrInvalidRequest):
		return mcp.NewToolResultError("invalid_request: " + err.Error())
	case errors.Is(err, common.ErrNotFound):
		return mcp.NewToolResultError("not_found: " + err.Error())
	case errors.Is(err, common.ErrNothingToAssign):
		return mcp.NewToolResultError("nothing_to_assign: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}
