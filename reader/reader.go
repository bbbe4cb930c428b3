// Package reader inspects existing PDF documents: page count, page boxes and
// page text. It is the read side used to bound page ranges before numbering and
// to check numbered output.
//
// Parsing is delegated to github.com/ledongthuc/pdf. Panics raised by the
// parser on damaged input are converted to ErrCorrupted.
package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"encoding/hex"
	"iter"
	"os"
	"regexp"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// Sentinel errors for documents that cannot be inspected.
var (
	ErrEncrypted = errors.New("reader: document is encrypted")
	ErrCorrupted = errors.New("reader: document is corrupted")
	ErrNoPages   = errors.New("reader: document has no pages")
)

// Rectangle represents a PDF rectangle [llx lly urx ury].
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// Width returns the width of the rectangle.
func (r Rectangle) Width() float64 { return r.URX - r.LLX }

// Height returns the height of the rectangle.
func (r Rectangle) Height() float64 { return r.URY - r.LLY }

// Document represents a parsed PDF document.
type Document struct {
	Version    string // PDF version from file header (e.g., "1.7")
	HasOutline bool   // catalog has a document outline (bookmarks)
	pages      []*Page
}

// Page represents a single page in a PDF document.
type Page struct {
	Number      int
	MediaBox    Rectangle
	Rotate      int // clockwise display rotation: 0, 90, 180 or 270
	Annotations int // entries in /Annots (links, widgets, notes)
	page        pdflib.Page
}

// Open opens and parses a PDF file from disk.
func Open(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reader: opening %s: %w", filename, err)
	}
	return ReadBytes(data)
}

// ReadFrom parses a PDF document from a reader.
// The reader content is read entirely into memory for random access.
func ReadFrom(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reader: reading input: %w", err)
	}
	return ReadBytes(data)
}

// ReadBytes parses a PDF document held in memory. The returned Document keeps
// a reference to data, which must not be modified afterwards.
func ReadBytes(data []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %v", ErrCorrupted, r)
		}
	}()

	r, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if errors.Is(err, pdflib.ErrInvalidPassword) {
			return nil, ErrEncrypted
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	n := r.NumPage()
	if n == 0 {
		return nil, ErrNoPages
	}

	doc = &Document{
		Version:    parseVersion(data),
		HasOutline: !r.Trailer().Key("Root").Key("Outlines").IsNull(),
		pages:      make([]*Page, 0, n),
	}
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			return nil, fmt.Errorf("%w: page %d missing from page tree", ErrCorrupted, i)
		}
		doc.pages = append(doc.pages, &Page{
			Number:      i,
			MediaBox:    mediaBox(p.V),
			Rotate:      rotation(p.V),
			Annotations: p.V.Key("Annots").Len(),
			page:        p,
		})
	}
	return doc, nil
}

// parseVersion extracts the PDF version from the file header (e.g., "%PDF-1.7").
func parseVersion(data []byte) string {
	if len(data) < 8 {
		return ""
	}
	header := string(data[:min(20, len(data))])
	if idx := strings.Index(header, "%PDF-"); idx >= 0 {
		end := idx + 5
		for end < len(header) && header[end] != '\n' && header[end] != '\r' {
			end++
		}
		return header[idx+5 : end]
	}
	return ""
}

// inherited looks up a page attribute, following /Parent for values
// inherited from the page tree.
func inherited(v pdflib.Value, key string) pdflib.Value {
	for depth := 0; !v.IsNull() && depth < 32; depth++ {
		if x := v.Key(key); !x.IsNull() {
			return x
		}
		v = v.Key("Parent")
	}
	return pdflib.Value{}
}

// mediaBox returns the page's media box. A missing or malformed box yields
// the zero Rectangle.
func mediaBox(v pdflib.Value) Rectangle {
	box := inherited(v, "MediaBox")
	if box.Kind() != pdflib.Array || box.Len() != 4 {
		return Rectangle{}
	}
	return Rectangle{
		LLX: box.Index(0).Float64(),
		LLY: box.Index(1).Float64(),
		URX: box.Index(2).Float64(),
		URY: box.Index(3).Float64(),
	}
}

// rotation returns the page's /Rotate normalized to [0, 360).
func rotation(v pdflib.Value) int {
	r := int(inherited(v, "Rotate").Int64()) % 360
	if r < 0 {
		r += 360
	}
	return r
}

// NumPages returns the total number of pages in the document.
func (d *Document) NumPages() int {
	return len(d.pages)
}

// Page returns the page at the given 1-based index.
func (d *Document) Page(n int) (*Page, error) {
	if n < 1 || n > len(d.pages) {
		return nil, fmt.Errorf("reader: page %d out of range [1, %d]", n, len(d.pages))
	}
	return d.pages[n-1], nil
}

// Pages returns an iterator over all pages. Index is 1-based.
func (d *Document) Pages() iter.Seq2[int, *Page] {
	return func(yield func(int, *Page) bool) {
		for i, page := range d.pages {
			if !yield(i+1, page) {
				return
			}
		}
	}
}

// ExtractText returns the text shown by the page's own content stream.
// Text inside form XObjects, such as stamped labels, is read by FormText.
func (p *Page) ExtractText() (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("reader: page %d text: %v", p.Number, r)
		}
	}()
	text, err = p.page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("reader: page %d text: %w", p.Number, err)
	}
	return text, nil
}

// stringOperand matches literal and hexadecimal string operands in a
// content stream.
var stringOperand = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)|<([0-9A-Fa-f\s]*)>`)

// FormText returns the strings shown by the form XObjects the page paints,
// in resource order. Stamps and watermarks are drawn this way; the page's
// own content stream is covered by ExtractText.
func (p *Page) FormText() (strs []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			strs, err = nil, fmt.Errorf("reader: page %d forms: %v", p.Number, r)
		}
	}()
	return formText(inherited(p.page.V, "Resources"), 0)
}

func formText(res pdflib.Value, depth int) ([]string, error) {
	if depth > 8 {
		return nil, nil
	}
	xobjs := res.Key("XObject")
	var strs []string
	for _, name := range xobjs.Keys() {
		x := xobjs.Key(name)
		if x.Kind() != pdflib.Stream || x.Key("Subtype").Name() != "Form" {
			continue
		}
		rc := x.Reader()
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reader: form %s: %w", name, err)
		}
		strs = append(strs, stringOperands(data)...)

		nested, err := formText(x.Key("Resources"), depth+1)
		if err != nil {
			return nil, err
		}
		strs = append(strs, nested...)
	}
	return strs, nil
}

func stringOperands(content []byte) []string {
	var strs []string
	for _, m := range stringOperand.FindAllSubmatch(content, -1) {
		if m[2] == nil {
			strs = append(strs, unescapeLiteral(string(m[1])))
			continue
		}
		h := strings.Join(strings.Fields(string(m[2])), "")
		if len(h)%2 == 1 {
			h += "0"
		}
		b, err := hex.DecodeString(h)
		if err == nil {
			strs = append(strs, string(b))
		}
	}
	return strs
}

func unescapeLiteral(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
