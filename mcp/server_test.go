package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// writeTestPDF saves a plain A4 document with numPages pages and returns its path.
func writeTestPDF(t *testing.T, numPages int) string {
	t.Helper()
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 14)
	for i := 1; i <= numPages; i++ {
		pdf.AddPage()
		pdf.Text(60, 80, fmt.Sprintf("Page %d", i))
	}
	path := filepath.Join(t.TempDir(), "input.pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("creating test PDF: %v", err)
	}
	return path
}

// resultText returns the concatenated text blocks of a tools/call result.
func resultText(t *testing.T, resp jsonrpcResponse) (string, bool) {
	t.Helper()
	raw, _ := json.Marshal(resp.Result)
	var res ToolResult
	if err := json.Unmarshal(raw, &res); err != nil {
		t.Fatalf("unmarshaling tool result: %v", err)
	}
	var sb strings.Builder
	for _, c := range res.Content {
		sb.WriteString(c.Text)
	}
	return sb.String(), res.IsError
}

func sendRequest(t *testing.T, s *Server, method string, id int, params interface{}) jsonrpcResponse {
	t.Helper()

	req := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		req["params"] = params
	}

	reqBytes, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	reqBytes = append(reqBytes, '\n')

	var output bytes.Buffer
	s.input = bytes.NewReader(reqBytes)
	s.output = &output

	s.Run()

	var resp jsonrpcResponse
	if err := json.Unmarshal(output.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling response %q: %v", output.String(), err)
	}
	return resp
}

func TestServerInitialize(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	resp := sendRequest(t, s, "initialize", 1, map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]interface{}{},
		"clientInfo":      map[string]interface{}{"name": "test", "version": "1.0"},
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}

	if result["protocolVersion"] != "2024-11-05" {
		t.Fatalf("unexpected protocol version: %v", result["protocolVersion"])
	}

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("missing serverInfo")
	}
	if serverInfo["name"] != "pdfnumber-mcp" {
		t.Fatalf("unexpected server name: %v", serverInfo["name"])
	}
}

func TestServerToolsList(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	resp := sendRequest(t, s, "tools/list", 2, nil)

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}

	tools, ok := result["tools"].([]interface{})
	if !ok {
		t.Fatal("tools is not an array")
	}

	if len(tools) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(tools))
	}

	// Check that key tools exist
	toolNames := make(map[string]bool)
	for _, tool := range tools {
		tm, ok := tool.(map[string]interface{})
		if !ok {
			continue
		}
		if name, ok := tm["name"].(string); ok {
			toolNames[name] = true
		}
	}

	expectedTools := []string{"number_pages", "preview_labels", "pdf_info"}
	for _, name := range expectedTools {
		if !toolNames[name] {
			t.Errorf("expected tool %q not found", name)
		}
	}
}

func TestServerResourcesList(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultResources(s)

	resp := sendRequest(t, s, "resources/list", 3, nil)

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}

	resources, ok := result["resources"].([]interface{})
	if !ok {
		t.Fatal("resources is not an array")
	}

	if len(resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(resources))
	}
}

func TestServerPing(t *testing.T) {
	s := NewServerWithIO(nil, nil)

	resp := sendRequest(t, s, "ping", 4, nil)

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
}

func TestServerUnknownMethod(t *testing.T) {
	s := NewServerWithIO(nil, nil)

	resp := sendRequest(t, s, "nonexistent/method", 5, nil)

	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Fatalf("expected error code -32601, got %d", resp.Error.Code)
	}
}

func TestServerUnknownTool(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	resp := sendRequest(t, s, "tools/call", 6, map[string]interface{}{
		"name":      "nonexistent_tool",
		"arguments": map[string]interface{}{},
	})

	if resp.Error == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestServerNumberPagesTool(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	input := writeTestPDF(t, 6)
	output := filepath.Join(t.TempDir(), "numbered.pdf")

	resp := sendRequest(t, s, "tools/call", 7, map[string]interface{}{
		"name": "number_pages",
		"arguments": map[string]interface{}{
			"inputPath":  input,
			"outputPath": output,
			"roman":      "1-2",
			"arabic":     "3-6",
		},
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	text, isErr := resultText(t, resp)
	if isErr {
		t.Fatalf("tool failed: %s", text)
	}
	if !strings.Contains(text, "Page numbers added") {
		t.Fatalf("unexpected result: %s", text)
	}
	if _, err := os.Stat(output); err != nil {
		t.Fatalf("output not written: %v", err)
	}
}

func TestServerNumberPagesBase64(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	resp := sendRequest(t, s, "tools/call", 8, map[string]interface{}{
		"name": "number_pages",
		"arguments": map[string]interface{}{
			"inputPath": writeTestPDF(t, 4),
			"roman":     []interface{}{"1-1", "4-4"},
			"arabic":    "2-3",
			"layout":    "split",
		},
	})
	text, isErr := resultText(t, resp)
	if isErr {
		t.Fatalf("tool failed: %s", text)
	}
	if !strings.Contains(text, "Base64") {
		t.Fatalf("expected base64 data in result: %s", text)
	}
}

func TestServerNumberPagesOverlap(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	output := filepath.Join(t.TempDir(), "numbered.pdf")
	resp := sendRequest(t, s, "tools/call", 9, map[string]interface{}{
		"name": "number_pages",
		"arguments": map[string]interface{}{
			"inputPath":  writeTestPDF(t, 10),
			"outputPath": output,
			"roman":      "1-5",
			"arabic":     "3-8",
		},
	})
	if resp.Error != nil {
		t.Fatalf("tool errors are reported in the result, got %v", resp.Error.Message)
	}

	text, isErr := resultText(t, resp)
	if !isErr {
		t.Fatalf("expected isError, got %s", text)
	}
	if !strings.Contains(text, "page 3") {
		t.Errorf("expected first overlapping page in message, got %s", text)
	}
	if _, err := os.Stat(output); err == nil {
		t.Error("no file should be written on overlap")
	}
}

func TestServerPreviewLabelsTool(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultTools(s)

	resp := sendRequest(t, s, "tools/call", 10, map[string]interface{}{
		"name": "preview_labels",
		"arguments": map[string]interface{}{
			"path":   writeTestPDF(t, 5),
			"roman":  "1-2",
			"arabic": "3-5",
		},
	})
	text, isErr := resultText(t, resp)
	if isErr {
		t.Fatalf("tool failed: %s", text)
	}

	var preview struct {
		NumPages int `json:"numPages"`
		Labels   []struct {
			Page int    `json:"page"`
			Text string `json:"text"`
		} `json:"labels"`
	}
	if err := json.Unmarshal([]byte(text), &preview); err != nil {
		t.Fatalf("unmarshaling preview: %v", err)
	}
	if preview.NumPages != 5 || len(preview.Labels) != 5 {
		t.Fatalf("unexpected preview: %+v", preview)
	}
	want := []string{"I", "II", "1", "2", "3"}
	for i, l := range preview.Labels {
		if l.Page != i+1 || l.Text != want[i] {
			t.Errorf("label %d = %d %q, want %d %q", i, l.Page, l.Text, i+1, want[i])
		}
	}
}

func TestServerReadPagesResource(t *testing.T) {
	s := NewServerWithIO(nil, nil)
	RegisterDefaultResources(s)

	resp := sendRequest(t, s, "resources/read", 11, map[string]interface{}{
		"uri": "pdf://pages?path=" + writeTestPDF(t, 3),
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	raw, _ := json.Marshal(resp.Result)
	if !strings.Contains(string(raw), `\"numPages\": 3`) {
		t.Errorf("expected 3 pages in %s", raw)
	}

	resp = sendRequest(t, s, "resources/read", 12, map[string]interface{}{
		"uri": "pdf://pages",
	})
	if resp.Error == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestServerNotificationHasNoResponse(t *testing.T) {
	var output bytes.Buffer
	input := `{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n" +
		`{"jsonrpc":"2.0","method":"notifications/progress"}` + "\n"

	s := NewServerWithIO(strings.NewReader(input), &output)
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}
	if output.Len() != 0 {
		t.Errorf("expected no output, got %q", output.String())
	}
}

func TestServerMultipleRequests(t *testing.T) {
	// Test that the server can handle multiple requests in sequence
	requests := []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","id":4,"method":"ping"}`,
	}

	input := strings.Join(requests, "\n") + "\n"
	var output bytes.Buffer

	s := NewServerWithIO(strings.NewReader(input), &output)
	RegisterDefaultTools(s)
	RegisterDefaultResources(s)

	s.Run()

	// Each line should be a valid JSON response
	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 responses, got %d: %s", len(lines), output.String())
	}

	for i, line := range lines {
		var resp jsonrpcResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("response %d: unmarshal error: %v\nline: %s", i, err, line)
		}
		if resp.Error != nil {
			t.Errorf("response %d: unexpected error: %s", i, resp.Error.Message)
		}
	}
}

func TestToolAddTool(t *testing.T) {
	s := NewServerWithIO(nil, nil)

	customTool := Tool{
		Name:        "custom_tool",
		Description: "A custom test tool",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Handler: func(args map[string]interface{}) (ToolResult, error) {
			return ToolResult{
				Content: []ContentBlock{{Type: "text", Text: "custom result"}},
			}, nil
		},
	}

	s.AddTool(customTool)

	resp := sendRequest(t, s, "tools/call", 1, map[string]interface{}{
		"name":      "custom_tool",
		"arguments": map[string]interface{}{},
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	resultBytes, _ := json.Marshal(resp.Result)
	if !strings.Contains(string(resultBytes), "custom result") {
		t.Fatalf("unexpected result: %s", string(resultBytes))
	}
}
