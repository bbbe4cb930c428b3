// Package pageops composes page number labels onto existing PDF documents.
//
// Labels are stamped onto the source pages in place with pdfcpu, so page
// objects keep their content, annotations, rotation and boxes, and the
// document keeps its outline, forms and metadata. Pages without a label are
// copied unchanged. The source bytes are never modified.
package pageops

import (
	"fmt"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Nominal page size in points, used for standalone overlays.
const (
	PageWidth  = 595.27
	PageHeight = 841.89
)

// Fixed label anchor in PDF user space (origin at the bottom-left corner).
// The horizontal anchor is not adjusted for the width of the label.
const (
	AnchorX = 297.63
	AnchorY = 50
)

func init() {
	// pdfcpu would otherwise create a config and font directory under the
	// user's home on first use. Core fonts need neither.
	api.DisableConfigDir()
}

// pdfConfig returns the pdfcpu configuration used for stamping. Output uses
// a classic cross-reference table without object streams, which every
// reader understands.
func pdfConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	return conf
}

// writePDF writes the PDF to a writer.
func writePDF(pdf *gofpdf.Fpdf, w io.Writer) error {
	return pdf.Output(w)
}

// writeFile writes data to a new file, removing it again if the write fails.
func writeFile(filename string, data []byte) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("pageops: creating %s: %w", filename, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(filename)
		return fmt.Errorf("pageops: writing %s: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(filename)
		return fmt.Errorf("pageops: writing %s: %w", filename, err)
	}
	return nil
}
