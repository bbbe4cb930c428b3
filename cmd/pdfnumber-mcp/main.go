// Command pdfnumber-mcp is an MCP (Model Context Protocol) server that exposes
// PDF page numbering to AI assistants.
//
// # Installation
//
//	go install github.com/lvillar/pdfnumber/cmd/pdfnumber-mcp@latest
//
// # Available Tools
//
//   - number_pages: Add Roman and Arabic page numbers to page ranges
//   - preview_labels: Show the label each page would receive
//   - pdf_info: Get page count and page sizes
//
// # Available Resources
//
//   - pdf://pages?path=... : Get page information
//   - pdf://text?path=... : Extract text drawn on each page
package main

import (
	"fmt"
	"os"

	"github.com/lvillar/pdfnumber/mcp"
)

func main() {
	server := mcp.NewServer()

	mcp.RegisterDefaultTools(server)
	mcp.RegisterDefaultResources(server)

	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "pdfnumber-mcp: %v\n", err)
		os.Exit(1)
	}
}
