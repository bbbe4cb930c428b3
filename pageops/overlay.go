package pageops

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var (
	// ErrEmptyOverlay is returned when writing an overlay that has no pages.
	ErrEmptyOverlay = errors.New("pageops: overlay has no pages")
	// ErrUnknownFont is returned for a font that is not a standard PDF font.
	ErrUnknownFont = errors.New("pageops: not a standard font")
)

// RGBColor represents an RGB color value.
type RGBColor struct {
	R, G, B int
}

func (c RGBColor) hex() string {
	clamp := func(v int) int { return min(max(v, 0), 255) }
	return fmt.Sprintf("#%02X%02X%02X", clamp(c.R), clamp(c.G), clamp(c.B))
}

// Faces of the standard fonts, indexed regular, bold, italic, bold italic.
var coreFaces = map[string][4]string{
	"helvetica": {"Helvetica", "Helvetica-Bold", "Helvetica-Oblique", "Helvetica-BoldOblique"},
	"arial":     {"Helvetica", "Helvetica-Bold", "Helvetica-Oblique", "Helvetica-BoldOblique"},
	"times":     {"Times-Roman", "Times-Bold", "Times-Italic", "Times-BoldItalic"},
	"courier":   {"Courier", "Courier-Bold", "Courier-Oblique", "Courier-BoldOblique"},
}

// CoreFont returns the PostScript name of a standard font given a family
// (Helvetica, Arial, Times or Courier) and a style ("", "B", "I" or "BI").
func CoreFont(family, style string) (string, error) {
	faces, ok := coreFaces[strings.ToLower(strings.TrimSpace(family))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFont, family)
	}
	switch strings.ToUpper(style) {
	case "":
		return faces[0], nil
	case "B":
		return faces[1], nil
	case "I":
		return faces[2], nil
	case "BI", "IB":
		return faces[3], nil
	}
	return "", fmt.Errorf("%w: style %q", ErrUnknownFont, style)
}

// Font selects a standard PDF font (Helvetica, Times or Courier).
type Font struct {
	Family string
	Style  string // "", "B", "I" or "BI"
	Size   float64
}

// Option configures overlay rendering.
type Option func(*overlayConfig)

type overlayConfig struct {
	font   Font
	x, y   float64
	color  RGBColor
	pageWd float64
	pageHt float64
}

func defaultConfig() overlayConfig {
	return overlayConfig{
		font:   Font{Family: "Helvetica", Size: 12},
		x:      AnchorX,
		y:      AnchorY,
		pageWd: PageWidth,
		pageHt: PageHeight,
	}
}

func newConfig(opts []Option) overlayConfig {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithFont sets the label font. Zero values keep the default
// (Helvetica, regular, 12pt).
func WithFont(family, style string, size float64) Option {
	return func(c *overlayConfig) {
		if family != "" {
			c.font.Family = family
		}
		c.font.Style = style
		if size > 0 {
			c.font.Size = size
		}
	}
}

// WithAnchor moves the label baseline start, in points from the bottom-left
// corner of the page.
func WithAnchor(x, y float64) Option {
	return func(c *overlayConfig) {
		c.x = x
		c.y = y
	}
}

// WithTextColor sets the label color (default: black).
func WithTextColor(r, g, b int) Option {
	return func(c *overlayConfig) {
		c.color = RGBColor{r, g, b}
	}
}

// Overlay is a page-sized layer that holds nothing but a page number label.
// An overlay with empty text has no pages and draws nothing.
type Overlay struct {
	Text  string
	X, Y  float64 // baseline start, points from the bottom-left corner
	Size  gofpdf.SizeType
	Font  Font
	Color RGBColor
}

// RenderOverlay builds the overlay for one label.
func RenderOverlay(text string, opts ...Option) Overlay {
	cfg := newConfig(opts)
	return cfg.overlay(text)
}

func (c overlayConfig) overlay(text string) Overlay {
	return Overlay{
		Text:  text,
		X:     c.x,
		Y:     c.y,
		Size:  gofpdf.SizeType{Wd: c.pageWd, Ht: c.pageHt},
		Font:  c.font,
		Color: c.color,
	}
}

// NumPages returns 1 for an overlay with a label and 0 otherwise.
func (o Overlay) NumPages() int {
	if o.Text == "" {
		return 0
	}
	return 1
}

// draw renders the label onto the current page of pdf, whose height is pageH.
// gofpdf measures y from the top, the overlay from the bottom.
func (o Overlay) draw(pdf *gofpdf.Fpdf, pageH float64) {
	if o.NumPages() == 0 {
		return
	}
	pdf.SetFont(o.Font.Family, o.Font.Style, o.Font.Size)
	pdf.SetTextColor(o.Color.R, o.Color.G, o.Color.B)
	pdf.Text(o.X, pageH-o.Y, o.Text)
}

// stamp converts the overlay into a pdfcpu text stamp. The anchor becomes the
// lower-left corner of the label's box; pdfcpu sizes text in whole points.
func (o Overlay) stamp() (*model.Watermark, error) {
	font, err := CoreFont(o.Font.Family, o.Font.Style)
	if err != nil {
		return nil, err
	}
	points := max(int(math.Round(o.Font.Size)), 1)
	desc := fmt.Sprintf("fontname:%s, points:%d, position:bl, offset:%s %s, scalefactor:1 abs, rotation:0, fillcolor:%s, opacity:1",
		font, points, formatPt(o.X), formatPt(o.Y), o.Color.hex())
	return api.TextWatermark(o.Text, desc, true, false, types.POINTS)
}

func formatPt(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Output writes the overlay as a standalone one-page PDF.
func (o Overlay) Output(w io.Writer) error {
	if o.NumPages() == 0 {
		return ErrEmptyOverlay
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           o.Size,
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	o.draw(pdf, o.Size.Ht)
	if pdf.Err() {
		return fmt.Errorf("pageops: overlay: %w", pdf.Error())
	}
	return writePDF(pdf, w)
}
