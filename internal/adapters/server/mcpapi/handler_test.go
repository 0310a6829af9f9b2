package mcpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/evanschultz/rota/internal/adapters/server/common"
	"github.com/evanschultz/rota/internal/domain"
)

// stubRotationService provides deterministic rotation responses for MCP tool tests.
type stubRotationService struct {
	plan       common.PlanResponse
	history    common.HistoryResponse
	rows       []common.AvailabilityEntry
	assignErr  error
	lastAssign common.AssignRequest
	resets     int
}

// AssignDay records the request and returns the configured plan.
func (s *stubRotationService) AssignDay(_ context.Context, req common.AssignRequest) (common.PlanResponse, error) {
	s.lastAssign = req
	if s.assignErr != nil {
		return common.PlanResponse{}, s.assignErr
	}
	return s.plan, nil
}

// Plan returns the configured plan.
func (s *stubRotationService) Plan(context.Context, string) (common.PlanResponse, error) {
	return s.plan, nil
}

// History returns the configured history.
func (s *stubRotationService) History(context.Context) (common.HistoryResponse, error) {
	return s.history, nil
}

// ResetWeek counts resets.
func (s *stubRotationService) ResetWeek(context.Context) (common.ResetResponse, error) {
	s.resets++
	return common.ResetResponse{Cleared: 3}, nil
}

// Availability returns the configured rows.
func (s *stubRotationService) Availability(context.Context) ([]common.AvailabilityEntry, error) {
	return s.rows, nil
}

// jsonRPCResponse models minimal JSON-RPC response fields used in MCP adapter tests.
type jsonRPCResponse struct {
	ID     float64        `json:"id"`
	Result map[string]any `json:"result"`
}

// callToolRequest constructs one deterministic tools/call JSON-RPC request payload.
func callToolRequest(id int, toolName string, arguments map[string]any) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  "tools/call",
		"params": map[string]any{
			"name":      toolName,
			"arguments": arguments,
		},
	}
}

// toolResultText decodes the first text entry from one tool-call result payload.
func toolResultText(t *testing.T, result map[string]any) string {
	t.Helper()

	contentRaw, ok := result["content"].([]any)
	if !ok || len(contentRaw) == 0 {
		t.Fatalf("content missing in tool result: %#v", result)
	}
	first, ok := contentRaw[0].(map[string]any)
	if !ok {
		t.Fatalf("first content entry has unexpected type: %#v", contentRaw[0])
	}
	text, ok := first["text"].(string)
	if !ok {
		t.Fatalf("content text missing in tool result: %#v", first)
	}
	return text
}

// toolResultStructured decodes structuredContent as one map for stable assertions.
func toolResultStructured(t *testing.T, result map[string]any) map[string]any {
	t.Helper()
	structured, ok := result["structuredContent"].(map[string]any)
	if !ok {
		t.Fatalf("structuredContent missing in tool result: %#v", result)
	}
	return structured
}

// postJSONRPC sends one JSON-RPC payload and decodes the response body.
func postJSONRPC(t *testing.T, client *http.Client, url string, payload any) (*http.Response, jsonRPCResponse) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	var decoded jsonRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if err := resp.Body.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return resp, decoded
}

// initializeRequest builds a deterministic MCP initialize request payload.
func initializeRequest() map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "initialize",
		"params": map[string]any{
			"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
			"clientInfo": map[string]any{
				"name":    "rota-test",
				"version": "1.0.0",
			},
		},
	}
}

// newTestServer starts an MCP test server over the stub service.
func newTestServer(t *testing.T, rotation *stubRotationService) *httptest.Server {
	t.Helper()
	handler, err := NewHandler(Config{}, rotation)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	_, _ = postJSONRPC(t, server.Client(), server.URL, initializeRequest())
	return server
}

// TestHandlerUsesStatelessTransport verifies MCP transport does not issue session ids.
func TestHandlerUsesStatelessTransport(t *testing.T) {
	handler, err := NewHandler(Config{}, &stubRotationService{})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, decoded := postJSONRPC(t, server.Client(), server.URL, initializeRequest())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if decoded.ID != 1 {
		t.Fatalf("id = %v, want 1", decoded.ID)
	}
	if got := resp.Header.Get("Mcp-Session-Id"); got != "" {
		t.Fatalf("Mcp-Session-Id header = %q, want empty (stateless transport)", got)
	}
}

// TestHandlerRegistersRotationTools verifies MCP tool discovery lists every rotation tool.
func TestHandlerRegistersRotationTools(t *testing.T) {
	server := newTestServer(t, &stubRotationService{})
	_, toolsResp := postJSONRPC(t, server.Client(), server.URL, map[string]any{
		"jsonrpc": "2.0",
		"id":      2,
		"method":  "tools/list",
	})

	toolsRaw, ok := toolsResp.Result["tools"].([]any)
	if !ok {
		t.Fatalf("tools list payload missing tools: %#v", toolsResp.Result)
	}
	toolNames := make([]string, 0, len(toolsRaw))
	for _, toolRaw := range toolsRaw {
		toolMap, ok := toolRaw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := toolMap["name"].(string)
		toolNames = append(toolNames, name)
	}
	for _, required := range []string{
		"rota.assign_day",
		"rota.get_plan",
		"rota.history",
		"rota.reset_week",
		"rota.availability",
	} {
		if !slices.Contains(toolNames, required) {
			t.Fatalf("tool list missing %q: %#v", required, toolNames)
		}
	}
}

// TestHandlerAssignDayToolCall verifies argument mapping and structured plan output.
func TestHandlerAssignDayToolCall(t *testing.T) {
	plan := domain.AssignmentPlan{
		RunID: "run-9",
		Day:   domain.Thursday,
		Assignments: []domain.WorkerAssignment{{
			Worker:         "Marvin",
			Items:          []domain.PlanItem{{Name: "DCOSS Monitoring", Intensity: 2, Special: true}},
			TotalIntensity: 2,
			ItemCount:      1,
			SpecialTask:    "DCOSS Monitoring",
		}},
	}
	rotation := &stubRotationService{plan: common.PlanResponse{AssignmentPlan: plan, Summary: plan.Summary()}}
	server := newTestServer(t, rotation)

	_, callResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(3, "rota.assign_day", map[string]any{
		"day":      "thursday",
		"weighted": false,
	}))
	structured := toolResultStructured(t, callResp.Result)
	if got, _ := structured["run_id"].(string); got != "run-9" {
		t.Fatalf("run_id = %q, want run-9", got)
	}
	if got, _ := structured["day"].(string); got != "thursday" {
		t.Fatalf("day = %q, want thursday", got)
	}
	if rotation.lastAssign.Day != "thursday" {
		t.Fatalf("assign day = %q, want thursday", rotation.lastAssign.Day)
	}
	if rotation.lastAssign.Weighted == nil || *rotation.lastAssign.Weighted {
		t.Fatalf("weighted = %v, want explicit false", rotation.lastAssign.Weighted)
	}
	if rotation.lastAssign.Randomize != nil {
		t.Fatalf("randomize = %v, want unset", *rotation.lastAssign.Randomize)
	}
}

// TestHandlerToolErrors verifies missing arguments and mapped service errors surface as tool errors.
func TestHandlerToolErrors(t *testing.T) {
	rotation := &stubRotationService{
		assignErr: errors.Join(common.ErrNothingToAssign, errors.New("no available workers on Sunday")),
	}
	server := newTestServer(t, rotation)

	_, missingArgResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "rota.assign_day", map[string]any{}))
	if isError, _ := missingArgResp.Result["isError"].(bool); !isError {
		t.Fatalf("isError = %v, want true", missingArgResp.Result["isError"])
	}
	if got := toolResultText(t, missingArgResp.Result); !strings.Contains(got, `required argument "day" not found`) {
		t.Fatalf("unexpected missing argument text %q", got)
	}

	_, mappedErrResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(3, "rota.assign_day", map[string]any{
		"day": "sunday",
	}))
	if isError, _ := mappedErrResp.Result["isError"].(bool); !isError {
		t.Fatalf("isError = %v, want true", mappedErrResp.Result["isError"])
	}
	if got := toolResultText(t, mappedErrResp.Result); !strings.HasPrefix(got, "nothing_to_assign:") {
		t.Fatalf("unexpected mapped error text %q", got)
	}
}

// TestHandlerWeekTools verifies history, reset, and availability tool output.
func TestHandlerWeekTools(t *testing.T) {
	rotation := &stubRotationService{
		history: common.HistoryResponse{
			Records: []domain.RotationRecord{{Day: domain.Monday, Task: "EoS Report", Worker: "Sergio"}},
			Tallies: []common.WorkerTally{{Worker: "Sergio", Total: 1, ByTask: map[string]int{"EoS Report": 1}}},
		},
		rows: []common.AvailabilityEntry{{Worker: "Sergio", Active: true, Days: map[string]string{"sunday": "no"}}},
	}
	server := newTestServer(t, rotation)

	_, historyResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(2, "rota.history", map[string]any{}))
	records, ok := toolResultStructured(t, historyResp.Result)["records"].([]any)
	if !ok || len(records) != 1 {
		t.Fatalf("unexpected history records %#v", historyResp.Result)
	}

	_, resetResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(3, "rota.reset_week", map[string]any{}))
	if got, _ := toolResultStructured(t, resetResp.Result)["cleared"].(float64); got != 3 {
		t.Fatalf("cleared = %v, want 3", got)
	}
	if rotation.resets != 1 {
		t.Fatalf("resets = %d, want 1", rotation.resets)
	}

	_, availabilityResp := postJSONRPC(t, server.Client(), server.URL, callToolRequest(4, "rota.availability", map[string]any{}))
	workers, ok := toolResultStructured(t, availabilityResp.Result)["workers"].([]any)
	if !ok || len(workers) != 1 {
		t.Fatalf("unexpected availability payload %#v", availabilityResp.Result)
	}
}

// TestNewHandlerRequiresRotationService verifies dependency enforcement.
func TestNewHandlerRequiresRotationService(t *testing.T) {
	handler, err := NewHandler(Config{}, nil)
	if err == nil {
		t.Fatalf("NewHandler() error = nil, want non-nil")
	}
	if handler != nil {
		t.Fatalf("handler = %#v, want nil", handler)
	}
}

// TestNormalizeConfig verifies deterministic config defaults and path normalization.
func TestNormalizeConfig(t *testing.T) {
	cases := []struct {
		name string
		in   Config
		want Config
	}{
		{
			name: "defaults",
			in:   Config{},
			want: Config{ServerName: "rota", ServerVersion: "dev", EndpointPath: "/mcp"},
		},
		{
			name: "trimmed values and slash prefix",
			in:   Config{ServerName: " rota-server ", ServerVersion: " v1.2.3 ", EndpointPath: "custom/path"},
			want: Config{ServerName: "rota-server", ServerVersion: "v1.2.3", EndpointPath: "/custom/path"},
		},
		{
			name: "endpoint trim of repeated slashes",
			in:   Config{EndpointPath: "///mcp///"},
			want: Config{ServerName: "rota", ServerVersion: "dev", EndpointPath: "/mcp"},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeConfig(tt.in)
			if got != tt.want {
				t.Fatalf("normalizeConfig() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

// TestHandlerServeHTTPUnavailable verifies nil handler paths fail closed with 503.
func TestHandlerServeHTTPUnavailable(t *testing.T) {
	cases := []struct {
		name    string
		handler *Handler
	}{
		{
			name:    "nil receiver",
			handler: nil,
		},
		{
			name:    "missing inner http handler",
			handler: &Handler{},
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(`{}`))
			rec := httptest.NewRecorder()

			tt.handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusServiceUnavailable {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
			}
			if !strings.Contains(rec.Body.String(), "mcp handler unavailable") {
				t.Fatalf("body = %q, want mcp handler unavailable", rec.Body.String())
			}
		})
	}
}

// TestToolResultFromErrorMapping verifies deterministic error-to-tool-result mapping.
func TestToolResultFromErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantPrefix string
	}{
		{name: "nil error", err: nil, wantPrefix: "unknown error"},
		{name: "invalid request", err: errors.Join(common.ErrInvalidRequest, errors.New("bad day")), wantPrefix: "invalid_request:"},
		{name: "not found", err: errors.Join(common.ErrNotFound, errors.New("no plan")), wantPrefix: "not_found:"},
		{name: "nothing to assign", err: errors.Join(common.ErrNothingToAssign, errors.New("empty catalog")), wantPrefix: "nothing_to_assign:"},
		{name: "internal", err: errors.New("boom"), wantPrefix: "internal_error:"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			result := toolResultFromError(tt.err)
			if !result.IsError {
				t.Fatal("IsError = false, want true")
			}
			text, ok := result.Content[0].(mcp.TextContent)
			if !ok {
				t.Fatalf("content[0] has unexpected type %T", result.Content[0])
			}
			if !strings.HasPrefix(text.Text, tt.wantPrefix) {
				t.Fatalf("text = %q, want prefix %q", text.Text, tt.wantPrefix)
			}
		})
	}
}
