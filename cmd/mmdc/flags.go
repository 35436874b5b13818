package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all flags for the mmdc command.
type cliFlags struct {
	theme             string
	width             int
	height            int
	scale             int
	input             string
	output            string
	outputFormat      string
	backgroundColor   string
	configFile        string
	cssFile           string
	svgID             string
	pdfFit            bool
	quiet             bool
	browserConfigFile string
	iconPacks         []string
	version           bool
}

// parseFlags parses command-line flags and returns positional args.
func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("mmdc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &cliFlags{}

	fs.StringVarP(&f.theme, "theme", "t", "default", "theme of the chart: default, forest, dark, neutral")
	fs.IntVarP(&f.width, "width", "w", 800, "width of the page")
	fs.IntVarP(&f.height, "height", "H", 600, "height of the page")
	fs.StringVarP(&f.input, "input", "i", "", "input mermaid file; .md/.markdown inputs have all charts extracted; use - for stdin")
	fs.StringVarP(&f.output, "output", "o", "", "output file ending in .md, .svg, .png or .pdf, or - for stdout (default: input + \".svg\")")
	fs.StringVarP(&f.outputFormat, "output-format", "e", "", "output format: svg, png, pdf (default: inferred from output)")
	fs.StringVarP(&f.backgroundColor, "background-color", "b", "white", "background color for pngs/svgs, e.g. transparent, red, '#F0F0F0'")
	fs.StringVarP(&f.configFile, "config-file", "c", "", "JSON or YAML configuration file for mermaid")
	fs.StringVarP(&f.cssFile, "css-file", "C", "", "CSS file injected into the rendered SVG")
	fs.StringVarP(&f.svgID, "svg-id", "I", "", "id attribute for the rendered SVG element")
	fs.IntVarP(&f.scale, "scale", "s", 1, "device scale factor")
	fs.BoolVarP(&f.pdfFit, "pdf-fit", "f", false, "scale PDF to fit chart")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "suppress log output")
	fs.StringVarP(&f.browserConfigFile, "browser-config-file", "p", "", "JSON or YAML configuration file for the browser launch")
	fs.StringArrayVar(&f.iconPacks, "icon-packs", nil, "icon packs to use, e.g. @iconify-json/logos")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
