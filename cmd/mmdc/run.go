package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	mmdc "github.com/alnah/go-mmdc"
	"github.com/alnah/go-mmdc/internal/configutil"
	"github.com/alnah/go-mmdc/internal/fileutil"
)

// Validation errors surfaced before any rendering occurs.
var (
	errInvalidTheme     = errors.New("theme must be one of default, forest, dark, neutral")
	errInvalidOutputExt = errors.New(`output file must end with ".md"/".markdown", ".svg", ".png" or ".pdf"`)
)

// run executes one invocation end to end: parse and validate flags, load
// config documents, render, and report. Any failure is logged and
// returned; main maps it to exit code 1.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	f, _, err := parseFlags(args, stderr)
	if err != nil {
		return err // pflag already printed the message and usage
	}

	if f.version {
		fmt.Fprintln(stdout, "mmdc "+Version)
		return nil
	}

	// Writing raw bytes to stdout and log lines cannot share the stream.
	quiet := f.quiet || f.output == mmdc.StdoutPath
	logger := newLogger(stderr, quiet)

	in, err := buildFileInput(f, logger)
	if err != nil {
		logger.Error(err.Error())
		return err
	}
	in.Stdin = stdin
	in.Stdout = stdout

	r := mmdc.NewRenderer()
	res, err := r.RenderFile(context.Background(), *in)
	if err != nil {
		logger.Error(err.Error())
		return err
	}

	report(logger, res)
	return nil
}

// newLogger builds the process-wide terminal logger. Construction is the
// one-time colorized-output setup; library code never logs.
// Quiet suppresses info lines only; warnings and errors always reach
// stderr.
func newLogger(w io.Writer, quiet bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: false})
	if quiet {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

// buildFileInput validates flags and assembles the render input.
// All configuration errors are detected here, before a browser launches.
func buildFileInput(f *cliFlags, logger *log.Logger) (*mmdc.FileInput, error) {
	if err := validateTheme(f.theme); err != nil {
		return nil, err
	}

	input := f.input
	switch {
	case input == "":
		logger.Warn("no input file specified, reading from stdin; " +
			"use `-i <input>` to name a file, or `-i -` to read stdin and suppress this warning")
	case input == "-":
		// read from stdin without the warning
	case !fileutil.FileExists(input):
		return nil, fmt.Errorf("input file %q doesn't exist", input)
	}

	var format mmdc.OutputFormat
	if f.outputFormat != "" {
		parsed, err := mmdc.ParseOutputFormat(f.outputFormat)
		if err != nil {
			return nil, err
		}
		format = parsed
	}

	output := resolveOutputPath(input, f.output, format)
	if output == mmdc.StdoutPath {
		if format == "" {
			format = mmdc.FormatSVG
			logger.Warn("no output format specified, using svg; " +
				"use `-e <format>` to choose one and suppress this warning")
		}
	} else {
		if err := validateOutputExtension(output); err != nil {
			return nil, err
		}
		if dir := filepath.Dir(output); !fileutil.DirExists(dir) {
			return nil, fmt.Errorf("output directory %q doesn't exist", dir)
		}
	}

	mermaidConfig, err := loadMermaidConfig(f.theme, f.configFile)
	if err != nil {
		return nil, err
	}

	browserConfig, err := loadBrowserConfig(f.browserConfigFile)
	if err != nil {
		return nil, err
	}

	css, err := loadCSS(f.cssFile)
	if err != nil {
		return nil, err
	}

	return &mmdc.FileInput{
		InputPath:  input,
		OutputPath: output,
		Format:     format,
		Options: mmdc.RenderOptions{
			Viewport: &mmdc.Viewport{
				Width:             f.width,
				Height:            f.height,
				DeviceScaleFactor: float64(f.scale),
			},
			BackgroundColor: f.backgroundColor,
			MermaidConfig:   mermaidConfig,
			CSS:             css,
			PDFFit:          f.pdfFit,
			SVGID:           f.svgID,
			IconPacks:       f.iconPacks,
			Browser:         browserConfig,
		},
	}, nil
}

// validateTheme enforces the fixed theme choice set.
func validateTheme(theme string) error {
	switch theme {
	case "default", "forest", "dark", "neutral":
		return nil
	}
	return fmt.Errorf("%w: got %q", errInvalidTheme, theme)
}

// resolveOutputPath applies the default output naming: input + extension,
// or out.<ext> for stdin input. The explicit format picks the extension;
// otherwise svg.
func resolveOutputPath(input, output string, format mmdc.OutputFormat) string {
	if output != "" {
		return output
	}
	ext := "svg"
	if format != "" {
		ext = format.Extension()
	}
	if input == "" || input == mmdc.StdoutPath {
		return "out." + ext
	}
	return input + "." + ext
}

// validateOutputExtension rejects destinations no format maps to.
func validateOutputExtension(output string) error {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".md", ".markdown", ".svg", ".png", ".pdf":
		return nil
	}
	return fmt.Errorf("%w: got %q", errInvalidOutputExt, output)
}

// loadMermaidConfig layers the config file (JSON or YAML) over the
// default {theme: <theme>}.
func loadMermaidConfig(theme, configFile string) (map[string]any, error) {
	cfg := map[string]any{"theme": theme}
	if configFile == "" {
		return cfg, nil
	}
	if !fileutil.FileExists(configFile) {
		return nil, fmt.Errorf("configuration file %q doesn't exist", configFile)
	}
	overlay := map[string]any{}
	if err := configutil.LoadFile(configFile, &overlay); err != nil {
		return nil, err
	}
	configutil.MergeInto(cfg, overlay)
	return cfg, nil
}

// loadBrowserConfig parses the browser launch document. Absent file means
// the default headless launch.
func loadBrowserConfig(configFile string) (*mmdc.BrowserConfig, error) {
	if configFile == "" {
		return nil, nil
	}
	if !fileutil.FileExists(configFile) {
		return nil, fmt.Errorf("configuration file %q doesn't exist", configFile)
	}
	cfg := &mmdc.BrowserConfig{}
	if err := configutil.LoadFile(configFile, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCSS reads the custom stylesheet injected into the rendered SVG.
func loadCSS(cssFile string) (string, error) {
	if cssFile == "" {
		return "", nil
	}
	if !fileutil.FileExists(cssFile) {
		return "", fmt.Errorf("CSS file %q doesn't exist", cssFile)
	}
	content, err := os.ReadFile(cssFile) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("reading CSS file %q: %w", cssFile, err)
	}
	return string(content), nil
}

// report logs what the render produced.
func report(logger *log.Logger, res *mmdc.FileResult) {
	switch {
	case res.MarkdownInput && res.DiagramCount == 0:
		logger.Info("no mermaid charts found in Markdown input")
	case res.MarkdownInput:
		logger.Info(fmt.Sprintf("found %d mermaid charts in Markdown input", res.DiagramCount))
	default:
		logger.Info("generated single mermaid chart")
	}
	for _, path := range res.Written {
		logger.Info("wrote " + path)
	}
}
