package mmdc

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// OutputFormat selects the rendered artifact encoding.
type OutputFormat string

// Supported output formats.
const (
	FormatSVG OutputFormat = "svg"
	FormatPNG OutputFormat = "png"
	FormatPDF OutputFormat = "pdf"
)

// ParseOutputFormat converts a user-supplied string to an OutputFormat.
// Matching is case-insensitive.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: got %q", ErrInvalidFormat, s)
}

// Extension returns the file extension for the format, without the dot.
func (f OutputFormat) Extension() string {
	return string(f)
}

// FormatFromPath infers the output format from a destination path's
// extension. Markdown destinations always yield SVG (the embedded images
// are SVG siblings). The second return value is false when the extension
// maps to no format.
func FormatFromPath(path string) (OutputFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatSVG, true
	case ".svg":
		return FormatSVG, true
	case ".png":
		return FormatPNG, true
	case ".pdf":
		return FormatPDF, true
	}
	return "", false
}

// IsMarkdownPath reports whether the path has a Markdown extension
// (case-insensitive).
func IsMarkdownPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Viewport configures the browser page dimensions used for rendering.
type Viewport struct {
	Width             int
	Height            int
	DeviceScaleFactor float64
}

// DefaultViewport returns the 800x600 viewport at scale 1 used when no
// viewport is specified.
func DefaultViewport() Viewport {
	return Viewport{Width: 800, Height: 600, DeviceScaleFactor: 1}
}

// BrowserConfig configures the browser launch. The zero value launches a
// headless managed Chromium.
type BrowserConfig struct {
	// Headless controls headless mode. Nil means headless (the default).
	Headless *bool `yaml:"headless" json:"headless"`
	// ExecutablePath points to a Chrome/Chromium binary. Empty means the
	// rod-managed browser (or ROD_BROWSER_BIN when set).
	ExecutablePath string `yaml:"executablePath" json:"executablePath"`
	// Args holds extra Chromium command-line switches, e.g. "--no-sandbox"
	// or "--lang=de".
	Args []string `yaml:"args" json:"args"`
}

// backgroundTransparent is the background value that suppresses opaque
// fills in PNG and PDF output.
const backgroundTransparent = "transparent"

// RenderOptions holds per-render settings. The zero value renders with an
// 800x600 viewport, white background, and default mermaid configuration.
type RenderOptions struct {
	Viewport        *Viewport
	BackgroundColor string         // default "white"; "transparent" omits fills
	MermaidConfig   map[string]any // passed opaquely to mermaid.initialize
	CSS             string         // injected as a <style> block inside the SVG
	PDFFit          bool           // size the PDF page to the diagram bounding box
	SVGID           string         // id attribute override for the SVG element
	IconPacks       []string       // e.g. "@iconify-json/logos"
	Browser         *BrowserConfig
}

// withDefaults fills unset fields so the dispatcher never branches on nil.
// The viewport is copied before defaulting so caller-owned state is never
// written through.
func (o RenderOptions) withDefaults() RenderOptions {
	vp := DefaultViewport()
	if o.Viewport != nil {
		if o.Viewport.Width > 0 {
			vp.Width = o.Viewport.Width
		}
		if o.Viewport.Height > 0 {
			vp.Height = o.Viewport.Height
		}
		if o.Viewport.DeviceScaleFactor > 0 {
			vp.DeviceScaleFactor = o.Viewport.DeviceScaleFactor
		}
	}
	o.Viewport = &vp
	if o.BackgroundColor == "" {
		o.BackgroundColor = "white"
	}
	if o.MermaidConfig == nil {
		o.MermaidConfig = map[string]any{}
	}
	return o
}

// transparent reports whether the background suppresses opaque fills.
func (o RenderOptions) transparent() bool {
	return o.BackgroundColor == backgroundTransparent
}

// RenderResult is the outcome of a single diagram render. Title and
// Description are taken from the rendered SVG's <title> and <desc>
// children when present; empty strings mean absent.
type RenderResult struct {
	Title       string
	Description string
	Data        []byte
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	timeout time.Duration
}

// defaultTimeout bounds harness page load when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the page-load timeout for each render.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mmdc: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}
