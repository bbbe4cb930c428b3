package mcp

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/lvillar/pdfnumber/reader"
)

// RegisterDefaultResources adds all built-in PDF resources to the server.
// Resources use the pdf:// scheme with the file path as a query parameter.
func RegisterDefaultResources(s *Server) {
	s.AddResource(Resource{
		URI:         "pdf://pages",
		Name:        "PDF Page Info",
		Description: "Get page information from a PDF (count, dimensions). Pass the file path as a query parameter: pdf://pages?path=/path/to/file.pdf",
		MIMEType:    "application/json",
		Handler:     handlePagesResource,
	})

	s.AddResource(Resource{
		URI:         "pdf://text",
		Name:        "PDF Page Text",
		Description: "Text of each page, plus any stamped text such as page number labels. Pass the file path as a query parameter: pdf://text?path=/path/to/file.pdf",
		MIMEType:    "text/plain",
		Handler:     handleTextResource,
	})
}

// extractPathFromURI returns the path query parameter of a resource URI such
// as pdf://text?path=/foo/bar.pdf.
func extractPathFromURI(uri string) (string, error) {
	_, query, ok := strings.Cut(uri, "?")
	if !ok {
		return "", fmt.Errorf("missing 'path' parameter in URI")
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return "", fmt.Errorf("invalid query in URI: %w", err)
	}
	path := values.Get("path")
	if path == "" {
		return "", fmt.Errorf("missing 'path' parameter in URI")
	}
	return path, nil
}

func handlePagesResource(uri string) ([]ResourceContent, error) {
	path, err := extractPathFromURI(uri)
	if err != nil {
		return nil, err
	}

	info, err := pageInfo(path)
	if err != nil {
		return nil, err
	}

	jsonBytes, _ := json.MarshalIndent(info, "", "  ")
	return []ResourceContent{{
		URI:      uri,
		MIMEType: "application/json",
		Text:     string(jsonBytes),
	}}, nil
}

func handleTextResource(uri string) ([]ResourceContent, error) {
	path, err := extractPathFromURI(uri)
	if err != nil {
		return nil, err
	}

	doc, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	var result strings.Builder
	for pageNum, page := range doc.Pages() {
		text, err := page.ExtractText()
		if err != nil {
			fmt.Fprintf(&result, "--- Page %d (error: %v) ---\n", pageNum, err)
			continue
		}
		fmt.Fprintf(&result, "--- Page %d ---\n%s\n", pageNum, strings.TrimSpace(text))
		if stamps, err := page.FormText(); err == nil && len(stamps) > 0 {
			fmt.Fprintf(&result, "[stamped: %s]\n", strings.Join(stamps, " "))
		}
		result.WriteString("\n")
	}

	return []ResourceContent{{
		URI:      uri,
		MIMEType: "text/plain",
		Text:     result.String(),
	}}, nil
}
