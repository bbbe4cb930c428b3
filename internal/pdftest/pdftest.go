// Package pdftest writes small hand-built PDF files for tests. Unlike gofpdf
// output they can use a cross-reference stream and carry page features such
// as link annotations, page rotation and a document outline.
package pdftest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// Options describes a generated document. Every page is A4 and shows
// "Body of page N" in Helvetica.
type Options struct {
	Pages      int
	XRefStream bool // cross-reference stream (PDF 1.5) instead of a table
	Link       bool // URI link annotation on the first page
	Rotate     int  // /Rotate of the last page
	Outline    bool // one bookmark pointing at the first page
}

// Document builds a document as described by o.
func Document(o Options) []byte {
	const catalog, pages, font = 1, 2, 3
	pageObj := func(i int) int { return 4 + 2*(i-1) }
	contentObj := func(i int) int { return 5 + 2*(i-1) }

	next := 4 + 2*o.Pages
	var annot, outlines, item int
	if o.Link {
		annot = next
		next++
	}
	if o.Outline {
		outlines, item = next, next+1
		next += 2
	}
	objs := make([]string, next-1)

	cat := fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R", pages)
	if o.Outline {
		cat += fmt.Sprintf(" /Outlines %d 0 R /PageMode /UseOutlines", outlines)
	}
	objs[catalog-1] = cat + " >>"

	kids := make([]string, o.Pages)
	for i := 1; i <= o.Pages; i++ {
		kids[i-1] = fmt.Sprintf("%d 0 R", pageObj(i))
	}
	objs[pages-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 595.27 841.89] >>",
		strings.Join(kids, " "), o.Pages)
	objs[font-1] = "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>"

	for i := 1; i <= o.Pages; i++ {
		var extra string
		if i == 1 && o.Link {
			extra += fmt.Sprintf(" /Annots [%d 0 R]", annot)
		}
		if i == o.Pages && o.Rotate != 0 {
			extra += fmt.Sprintf(" /Rotate %d", o.Rotate)
		}
		objs[pageObj(i)-1] = fmt.Sprintf("<< /Type /Page /Parent %d 0 R /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R%s >>",
			pages, font, contentObj(i), extra)
		objs[contentObj(i)-1] = Stream(fmt.Sprintf("BT /F1 14 Tf 60 760 Td (Body of page %d) Tj ET", i))
	}

	if o.Link {
		objs[annot-1] = "<< /Type /Annot /Subtype /Link /Rect [60 740 260 780] /Border [0 0 0] /A << /S /URI /URI (https://example.com/) >> >>"
	}
	if o.Outline {
		objs[outlines-1] = fmt.Sprintf("<< /Type /Outlines /First %d 0 R /Last %d 0 R /Count 1 >>", item, item)
		objs[item-1] = fmt.Sprintf("<< /Title (Introduction) /Parent %d 0 R /Dest [%d 0 R /Fit] >>", outlines, pageObj(1))
	}
	return Build(objs, o.XRefStream)
}

// Stream formats the body of an unfiltered stream object.
func Stream(content string) string {
	return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content)
}

// Build writes objs as objects 1..n and adds the cross-reference section.
// Object 1 must be the catalog.
func Build(objs []string, xrefStream bool) []byte {
	var b bytes.Buffer
	version := "1.4"
	if xrefStream {
		version = "1.5"
	}
	fmt.Fprintf(&b, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", version)

	offsets := make([]int, len(objs)+1)
	for i, body := range objs {
		offsets[i+1] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	if !xrefStream {
		start := b.Len()
		fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
		for _, off := range offsets[1:] {
			fmt.Fprintf(&b, "%010d 00000 n \n", off)
		}
		fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, start)
		return b.Bytes()
	}

	// The stream lists itself as the last object.
	self := len(objs) + 1
	offsets = append(offsets, b.Len())
	var rows bytes.Buffer
	rows.Write([]byte{0, 0, 0, 0, 0, 0xff, 0xff})
	for _, off := range offsets[1:] {
		var row [7]byte
		row[0] = 1
		binary.BigEndian.PutUint32(row[1:5], uint32(off))
		rows.Write(row[:])
	}
	fmt.Fprintf(&b, "%d 0 obj\n<< /Type /XRef /Size %d /W [1 4 2] /Root 1 0 R /Length %d >>\nstream\n",
		self, self+1, rows.Len())
	b.Write(rows.Bytes())
	b.WriteString("\nendstream\nendobj\n")
	fmt.Fprintf(&b, "startxref\n%d\n%%%%EOF\n", offsets[self])
	return b.Bytes()
}
