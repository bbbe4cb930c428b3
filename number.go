// Package pdfnumber overlays Roman or Arabic page number labels onto selected
// page ranges of a PDF document.
//
// A Request carries the document and the raw range fields exactly as a user
// typed them. Plan parses and validates the fields against the document's page
// count; Number additionally composes the numbered document.
//
//	var out bytes.Buffer
//	err := pdfnumber.Number(&out, pdfnumber.Request{
//	    Document: data,
//	    Roman:    []string{"1-4"},
//	    Arabic:   "5-20",
//	})
//
// Each range restarts its numbering at 1. Ranges that overlap, whatever their
// styles, are rejected with ErrOverlap before any page is processed.
package pdfnumber

import (
	"fmt"
	"io"
	"os"

	"github.com/lvillar/pdfnumber/interval"
	"github.com/lvillar/pdfnumber/numeral"
	"github.com/lvillar/pdfnumber/pageops"
	"github.com/lvillar/pdfnumber/reader"
)

// Request is one numbering invocation.
type Request struct {
	Document []byte   // source PDF
	Roman    []string // one entry per Roman field of the layout
	Arabic   string
}

// Preview describes the labels a request produces.
type Preview struct {
	Pages  int              // page count of the document
	Labels []interval.Label // labeled pages in page order
}

// Fields returns the request's range fields as the layout defines them.
func (l Layout) Fields(req Request) ([]interval.Field, error) {
	if len(req.Roman) > l.RomanFields() {
		return nil, fmt.Errorf("%w: %s layout takes %d roman field(s), got %d",
			ErrInvalidParam, l, l.RomanFields(), len(req.Roman))
	}

	single := l == LayoutSplit
	var fields []interval.Field
	for i := 0; i < l.RomanFields(); i++ {
		name := "roman"
		if i > 0 {
			name = fmt.Sprintf("roman%d", i+1)
		}
		f := interval.Field{Name: name, Style: numeral.Roman, Single: single}
		if i < len(req.Roman) {
			f.Spec = req.Roman[i]
		}
		fields = append(fields, f)
	}
	fields = append(fields, interval.Field{Name: "arabic", Style: numeral.Arabic, Spec: req.Arabic, Single: single})
	return fields, nil
}

// Plan parses and validates the request and returns the resulting labels
// without composing a document.
func Plan(req Request, opts ...Option) (*Preview, error) {
	pages, res, err := plan(req, newConfig(opts))
	if err != nil {
		return nil, newPDFError("Plan", err)
	}
	return &Preview{Pages: pages, Labels: res.Labels(pages)}, nil
}

// Number writes the numbered document to w. On any error, including
// overlapping ranges, nothing is written.
func Number(w io.Writer, req Request, opts ...Option) error {
	cfg := newConfig(opts)
	_, res, err := plan(req, cfg)
	if err != nil {
		return newPDFError("Number", err)
	}
	if err := pageops.Compose(w, req.Document, res, cfg.overlay...); err != nil {
		return newPDFError("Number", err)
	}
	return nil
}

// NumberFile numbers the PDF at inputPath and saves the result to outputPath.
func NumberFile(inputPath, outputPath string, roman []string, arabic string, opts ...Option) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return newPDFError("NumberFile", err)
	}
	cfg := newConfig(opts)
	_, res, err := plan(Request{Document: data, Roman: roman, Arabic: arabic}, cfg)
	if err != nil {
		return newPDFError("NumberFile", err)
	}
	if err := pageops.ComposeFile(inputPath, outputPath, res, cfg.overlay...); err != nil {
		return newPDFError("NumberFile", err)
	}
	return nil
}

func plan(req Request, cfg *config) (int, *interval.Resolver, error) {
	if len(req.Document) == 0 {
		return 0, nil, fmt.Errorf("%w: empty document", ErrInvalidParam)
	}
	fields, err := cfg.layout.Fields(req)
	if err != nil {
		return 0, nil, err
	}

	doc, err := reader.ReadBytes(req.Document)
	if err != nil {
		return 0, nil, err
	}
	total := doc.NumPages()

	set, err := interval.ParseFields(fields, total, cfg.mode)
	if err != nil {
		return 0, nil, err
	}
	res, err := interval.NewResolver(set)
	if err != nil {
		return 0, nil, err
	}
	return total, res, nil
}
