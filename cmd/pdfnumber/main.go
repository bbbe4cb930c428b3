// Command pdfnumber adds Roman and Arabic page numbers to page ranges of a
// PDF file.
//
//	pdfnumber -roman 1-4 -arabic 5-120 thesis.pdf numbered.pdf
//
// With -layout split, -roman may be given twice, each time with a single
// range. -dry-run prints the label of every numbered page instead of writing
// the output file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lvillar/pdfnumber"
	"github.com/lvillar/pdfnumber/interval"
)

// romanFlags collects repeated -roman values.
type romanFlags []string

func (f *romanFlags) String() string { return strings.Join(*f, " ") }

func (f *romanFlags) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func main() {
	var roman romanFlags
	flag.Var(&roman, "roman", "pages for Roman numbering, e.g. 1-5,11-15 (repeat with -layout split)")
	arabic := flag.String("arabic", "", "pages for Arabic numbering, e.g. 6-10")
	layoutName := flag.String("layout", "combined", "field layout: combined or split")
	strict := flag.Bool("strict", false, "reject malformed or out-of-range ranges")
	dryRun := flag.Bool("dry-run", false, "print page labels without writing output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: pdfnumber [flags] input.pdf [output.pdf]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(flag.Args(), roman, *arabic, *layoutName, *strict, *dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "pdfnumber: %v\n", err)
		if errors.Is(err, pdfnumber.ErrOverlap) {
			fmt.Fprintln(os.Stderr, "pdfnumber: please ensure no overlapping pages between intervals")
		}
		os.Exit(1)
	}
}

func run(args []string, roman []string, arabic, layoutName string, strict, dryRun bool) error {
	if len(args) < 1 || (!dryRun && len(args) != 2) {
		flag.Usage()
		return errors.New("expected input and output paths")
	}

	layout, err := pdfnumber.ParseLayout(layoutName)
	if err != nil {
		return err
	}
	opts := []pdfnumber.Option{pdfnumber.WithLayout(layout)}
	if strict {
		opts = append(opts, pdfnumber.WithMode(interval.Strict))
	}

	if !dryRun {
		return pdfnumber.NumberFile(args[0], args[1], roman, arabic, opts...)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	preview, err := pdfnumber.Plan(pdfnumber.Request{Document: data, Roman: roman, Arabic: arabic}, opts...)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d pages, %d labeled\n", args[0], preview.Pages, len(preview.Labels))
	for _, l := range preview.Labels {
		fmt.Printf("%4d  %-8s %s\n", l.Page, l.Text, l.Interval)
	}
	return nil
}
