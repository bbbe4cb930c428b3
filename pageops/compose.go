package pageops

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/lvillar/pdfnumber/interval"
	"github.com/lvillar/pdfnumber/reader"
)

// Compose numbers the pages of src according to res and writes the result to w.
//
// The output has the same pages in the same order; labeled pages differ only
// by the label stamped on top of the original content, and every other page
// is copied unchanged. When res holds no intervals, src is written unchanged.
// Nothing is written to w unless the whole document was built.
func Compose(w io.Writer, src []byte, res *interval.Resolver, opts ...Option) error {
	out, err := compose(src, res, newConfig(opts))
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("pageops: writing output: %w", err)
	}
	return nil
}

// ComposeFile numbers the pages of the PDF at inputPath and saves the result
// to outputPath.
func ComposeFile(inputPath, outputPath string, res *interval.Resolver, opts ...Option) error {
	src, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("pageops: reading %s: %w", inputPath, err)
	}
	out, err := compose(src, res, newConfig(opts))
	if err != nil {
		return err
	}
	return writeFile(outputPath, out)
}

func compose(src []byte, res *interval.Resolver, cfg overlayConfig) ([]byte, error) {
	doc, err := reader.ReadBytes(src)
	if err != nil {
		return nil, fmt.Errorf("pageops: %w", err)
	}
	if res.Empty() {
		return src, nil
	}

	stamps, err := labelStamps(doc, res, cfg)
	if err != nil {
		return nil, err
	}
	if len(stamps) == 0 {
		return src, nil
	}
	return stampPages(src, stamps)
}

// labelStamps builds one stamp per labeled page, keyed by page number.
func labelStamps(doc *reader.Document, res *interval.Resolver, cfg overlayConfig) (map[int]*model.Watermark, error) {
	stamps := make(map[int]*model.Watermark)
	for n := range doc.Pages() {
		label, ok := res.Resolve(n)
		if !ok {
			continue
		}
		wm, err := cfg.overlay(label.Text).stamp()
		if err != nil {
			return nil, fmt.Errorf("pageops: page %d: %w", n, err)
		}
		stamps[n] = wm
	}
	return stamps, nil
}

func stampPages(src []byte, stamps map[int]*model.Watermark) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("pageops: stamping labels: %v", r)
		}
	}()

	var buf bytes.Buffer
	if err := api.AddWatermarksMap(bytes.NewReader(src), &buf, stamps, pdfConfig()); err != nil {
		return nil, fmt.Errorf("pageops: stamping labels: %w", err)
	}
	return buf.Bytes(), nil
}
