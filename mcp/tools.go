package mcp

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lvillar/pdfnumber"
	"github.com/lvillar/pdfnumber/interval"
	"github.com/lvillar/pdfnumber/reader"
)

// RegisterDefaultTools adds all built-in numbering tools to the server.
func RegisterDefaultTools(s *Server) {
	s.AddTool(numberPagesTool())
	s.AddTool(previewLabelsTool())
	s.AddTool(pdfInfoTool())
}

// rangeProperties describes the range arguments shared by the numbering tools.
func rangeProperties() map[string]interface{} {
	return map[string]interface{}{
		"roman": map[string]interface{}{
			"description": "Pages for Roman numbering, e.g. '1-5,11-15'. With layout 'split', an array of up to two single ranges.",
			"oneOf": []interface{}{
				map[string]interface{}{"type": "string"},
				map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			},
		},
		"arabic": map[string]interface{}{
			"type":        "string",
			"description": "Pages for Arabic numbering, e.g. '6-10'",
		},
		"layout": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"combined", "split"},
			"description": "Field layout: 'combined' (lists of ranges, default) or 'split' (two Roman ranges and one Arabic range)",
		},
		"strict": map[string]interface{}{
			"type":        "boolean",
			"description": "Reject malformed or out-of-range tokens instead of skipping them (default: false)",
		},
	}
}

// requestFromArgs reads the document at path and the range arguments.
func requestFromArgs(args map[string]interface{}, path string) (pdfnumber.Request, []pdfnumber.Option, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pdfnumber.Request{}, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	req := pdfnumber.Request{Document: data}

	switch v := args["roman"].(type) {
	case string:
		req.Roman = []string{v}
	case []interface{}:
		for _, item := range v {
			s, _ := item.(string)
			req.Roman = append(req.Roman, s)
		}
	}
	req.Arabic, _ = args["arabic"].(string)

	var opts []pdfnumber.Option
	if l, ok := args["layout"].(string); ok {
		layout, err := pdfnumber.ParseLayout(l)
		if err != nil {
			return pdfnumber.Request{}, nil, err
		}
		opts = append(opts, pdfnumber.WithLayout(layout))
	}
	if strict, _ := args["strict"].(bool); strict {
		opts = append(opts, pdfnumber.WithMode(interval.Strict))
	}
	return req, opts, nil
}

func numberPagesTool() Tool {
	props := rangeProperties()
	props["inputPath"] = map[string]interface{}{
		"type":        "string",
		"description": "Path to the input PDF",
	}
	props["outputPath"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional path for the numbered PDF. If omitted, returns base64.",
	}
	return Tool{
		Name:        "number_pages",
		Description: "Add Roman and/or Arabic page numbers at the bottom center of selected page ranges. Each range restarts at 1. Overlapping ranges are rejected and no file is written.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": props,
			"required":   []string{"inputPath"},
		},
		Handler: handleNumberPages,
	}
}

func handleNumberPages(args map[string]interface{}) (ToolResult, error) {
	inputPath, _ := args["inputPath"].(string)
	if inputPath == "" {
		return ToolResult{}, fmt.Errorf("missing 'inputPath' argument")
	}
	req, opts, err := requestFromArgs(args, inputPath)
	if err != nil {
		return ToolResult{}, err
	}

	var buf bytes.Buffer
	if err := pdfnumber.Number(&buf, req, opts...); err != nil {
		return ToolResult{}, err
	}

	if outputPath, ok := args["outputPath"].(string); ok && outputPath != "" {
		if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
			return ToolResult{}, fmt.Errorf("writing file: %w", err)
		}
		return textResult("Page numbers added: %s -> %s (%d bytes)", inputPath, outputPath, buf.Len()), nil
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return textResult("Page numbers added (%d bytes). Base64 data:\n%s", buf.Len(), encoded), nil
}

func previewLabelsTool() Tool {
	props := rangeProperties()
	props["path"] = map[string]interface{}{
		"type":        "string",
		"description": "Path to the PDF file",
	}
	return Tool{
		Name:        "preview_labels",
		Description: "Show which label each page would receive for the given ranges, without writing a PDF.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": props,
			"required":   []string{"path"},
		},
		Handler: handlePreviewLabels,
	}
}

func handlePreviewLabels(args map[string]interface{}) (ToolResult, error) {
	path, _ := args["path"].(string)
	if path == "" {
		return ToolResult{}, fmt.Errorf("missing 'path' argument")
	}
	req, opts, err := requestFromArgs(args, path)
	if err != nil {
		return ToolResult{}, err
	}

	preview, err := pdfnumber.Plan(req, opts...)
	if err != nil {
		return ToolResult{}, err
	}

	labels := make([]map[string]interface{}, 0, len(preview.Labels))
	for _, l := range preview.Labels {
		labels = append(labels, map[string]interface{}{
			"page":     l.Page,
			"text":     l.Text,
			"style":    l.Style.String(),
			"interval": fmt.Sprintf("%d-%d", l.Interval.Start, l.Interval.End),
		})
	}
	info := map[string]interface{}{
		"numPages": preview.Pages,
		"labels":   labels,
	}

	jsonBytes, _ := json.MarshalIndent(info, "", "  ")
	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(jsonBytes)}},
	}, nil
}

func pdfInfoTool() Tool {
	return Tool{
		Name:        "pdf_info",
		Description: "Get the version, page count, outline presence and per-page size, rotation and annotation count of a PDF file.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the PDF file",
				},
			},
			"required": []string{"path"},
		},
		Handler: handlePDFInfo,
	}
}

func handlePDFInfo(args map[string]interface{}) (ToolResult, error) {
	path, ok := args["path"].(string)
	if !ok {
		return ToolResult{}, fmt.Errorf("missing 'path' argument")
	}

	info, err := pageInfo(path)
	if err != nil {
		return ToolResult{}, err
	}

	jsonBytes, _ := json.MarshalIndent(info, "", "  ")
	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: string(jsonBytes)}},
	}, nil
}

// pageInfo describes the document at path and each of its pages.
func pageInfo(path string) (map[string]interface{}, error) {
	doc, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	pages := make([]map[string]interface{}, 0, doc.NumPages())
	for pageNum, page := range doc.Pages() {
		mb := page.MediaBox
		pages = append(pages, map[string]interface{}{
			"page":        pageNum,
			"width":       mb.Width(),
			"height":      mb.Height(),
			"rotate":      page.Rotate,
			"annotations": page.Annotations,
		})
	}

	return map[string]interface{}{
		"version":    doc.Version,
		"numPages":   doc.NumPages(),
		"hasOutline": doc.HasOutline,
		"pages":      pages,
	}, nil
}
