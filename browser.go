package mmdc

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mmdc/internal/assets"
	"github.com/alnah/go-mmdc/internal/fileutil"
)

// diagramRenderer abstracts diagram rendering to allow different backends.
type diagramRenderer interface {
	Render(ctx context.Context, definition string, format OutputFormat, opts RenderOptions) (*RenderResult, error)
}

// Compile-time interface check.
var _ diagramRenderer = (*rodRenderer)(nil)

// cssPixelsPerInch converts CSS pixel dimensions to the inch-based paper
// sizes Chrome's printToPDF expects.
const cssPixelsPerInch = 96.0

// rodRenderer implements diagramRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
//
// Every Render call launches its own browser session and tears it down on
// all exit paths. Sessions are never reused across renders.
type rodRenderer struct {
	timeout time.Duration
}

// newRodRenderer creates a rodRenderer with the given page-load timeout.
func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// renderScript runs inside the harness page. It initializes mermaid with
// the supplied configuration, renders the definition into #container,
// applies background color and custom CSS to the SVG, and returns the
// title/desc metadata.
const renderScript = `async (definition, config, css, backgroundColor, svgId, iconPacks) => {
	document.body.style.background = backgroundColor;

	await Promise.all(Array.from(document.fonts, (font) => font.load()));

	if (window['mermaid-zenuml']) {
		mermaid.registerExternalDiagrams([window['mermaid-zenuml']]);
	}

	if (iconPacks && iconPacks.length > 0) {
		mermaid.registerIconPacks(
			iconPacks.map((icon) => ({
				name: icon.split('/')[1],
				loader: () =>
					fetch('https://unpkg.com/' + icon + '/icons.json')
						.then((res) => res.json())
						.catch(() => console.error('Failed to fetch icon: ' + icon)),
			}))
		);
	}

	const container = document.getElementById('container');
	mermaid.initialize({ startOnLoad: false, ...config });

	const { svg: svgText } = await mermaid.render(svgId || 'my-svg', definition, container);
	container.innerHTML = svgText;

	const svg = container.getElementsByTagName('svg')[0];
	if (svg && svg.style) {
		svg.style.backgroundColor = backgroundColor;
	}
	if (svg && config.theme) {
		svg.classList.add('theme-' + config.theme);
	}

	if (svg && css) {
		const style = document.createElementNS('http://www.w3.org/2000/svg', 'style');
		style.appendChild(document.createTextNode(css));
		svg.appendChild(style);
	}

	let title = null;
	if (svg.firstChild && svg.firstChild.tagName === 'title') {
		title = svg.firstChild.textContent;
	}

	let desc = null;
	for (const node of svg.children) {
		if (node.tagName === 'desc') {
			desc = node.textContent;
			break;
		}
	}

	return { title, desc };
}`

// serializeSVGScript returns the rendered SVG element as an XML string.
const serializeSVGScript = `() => {
	const svg = document.querySelector('svg');
	return new XMLSerializer().serializeToString(svg);
}`

// intBoundingBoxScript returns the SVG bounding box with integer pixel
// coordinates (floored origin, ceiled size) for screenshot clipping.
const intBoundingBoxScript = `() => {
	const rect = document.querySelector('svg').getBoundingClientRect();
	return {
		x: Math.floor(rect.left),
		y: Math.floor(rect.top),
		width: Math.ceil(rect.width),
		height: Math.ceil(rect.height),
	};
}`

// boundingBoxScript returns the SVG bounding box with fractional
// coordinates for PDF page sizing.
const boundingBoxScript = `() => {
	const rect = document.querySelector('svg').getBoundingClientRect();
	return { x: rect.left, y: rect.top, width: rect.width, height: rect.height };
}`

// Render drives one scoped browser session: load the harness, inject the
// definition and options, run mermaid, and capture the output in the
// requested format. The session is released on every exit path.
func (r *rodRenderer) Render(ctx context.Context, definition string, format OutputFormat, opts RenderOptions) (*RenderResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	harnessPath, cleanupHarness, err := fileutil.WriteTempFile(assets.Harness(), "html")
	if err != nil {
		return nil, err
	}
	defer cleanupHarness()

	browser, release, err := launchBrowser(opts.Browser)
	if err != nil {
		return nil, err
	}
	defer release()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + harnessPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Viewport.Width,
		Height:            opts.Viewport.Height,
		DeviceScaleFactor: opts.Viewport.DeviceScaleFactor,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	// Rod serializes arguments as JSON, so nested configuration structures
	// reach the page without type coercion. Invalid diagram syntax surfaces
	// here as an eval error.
	iconPacks := opts.IconPacks
	if iconPacks == nil {
		iconPacks = []string{}
	}
	meta, err := page.Eval(renderScript,
		definition, opts.MermaidConfig, opts.CSS, opts.BackgroundColor, opts.SVGID, iconPacks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	result := &RenderResult{}
	if v := meta.Value.Get("title"); !v.Nil() {
		result.Title = v.Str()
	}
	if v := meta.Value.Get("desc"); !v.Nil() {
		result.Description = v.Str()
	}

	switch format {
	case FormatSVG:
		result.Data, err = captureSVG(page)
	case FormatPNG:
		result.Data, err = capturePNG(page, opts)
	case FormatPDF:
		result.Data, err = capturePDF(page, opts)
	default:
		return nil, fmt.Errorf("%w: got %q", ErrInvalidFormat, format)
	}
	if err != nil {
		return nil, err
	}

	return result, nil
}

// captureSVG serializes the in-page SVG element verbatim to UTF-8 bytes.
func captureSVG(page *rod.Page) ([]byte, error) {
	obj, err := page.Eval(serializeSVGScript)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSVGSerialize, err)
	}
	return []byte(obj.Value.Str()), nil
}

// clipRect is the SVG bounding box reported by the page.
type clipRect struct {
	x, y          float64
	width, height float64
}

// evalClip runs a bounding-box script and decodes the result.
func evalClip(page *rod.Page, script string) (clipRect, error) {
	obj, err := page.Eval(script)
	if err != nil {
		return clipRect{}, fmt.Errorf("%w: reading bounding box: %v", ErrRender, err)
	}
	return clipRect{
		x:      obj.Value.Get("x").Num(),
		y:      obj.Value.Get("y").Num(),
		width:  obj.Value.Get("width").Num(),
		height: obj.Value.Get("height").Num(),
	}, nil
}

// capturePNG resizes the viewport to enclose the diagram and takes a
// region-clipped screenshot. A transparent background omits the opaque
// fill Chrome would otherwise paint.
func capturePNG(page *rod.Page, opts RenderOptions) ([]byte, error) {
	clip, err := evalClip(page, intBoundingBoxScript)
	if err != nil {
		return nil, err
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             int(clip.x + clip.width),
		Height:            int(clip.y + clip.height),
		DeviceScaleFactor: opts.Viewport.DeviceScaleFactor,
	}); err != nil {
		return nil, fmt.Errorf("%w: resizing viewport: %v", ErrScreenshot, err)
	}

	if opts.transparent() {
		err := proto.EmulationSetDefaultBackgroundColorOverride{
			Color: &proto.DOMRGBA{R: 0, G: 0, B: 0, A: floatPtr(0)},
		}.Call(page)
		if err != nil {
			return nil, fmt.Errorf("%w: overriding background: %v", ErrScreenshot, err)
		}
	}

	data, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      clip.x,
			Y:      clip.y,
			Width:  clip.width,
			Height: clip.height,
			Scale:  1,
		},
		FromSurface: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return data, nil
}

// capturePDF prints the page to PDF. With PDFFit the page is sized to the
// diagram bounding box plus twice its origin offset, preserving margins,
// and emitted as a single page.
func capturePDF(page *rod.Page, opts RenderOptions) ([]byte, error) {
	req := &proto.PagePrintToPDF{
		PrintBackground: !opts.transparent(),
	}

	if opts.PDFFit {
		clip, err := evalClip(page, boundingBoxScript)
		if err != nil {
			return nil, err
		}
		req.PaperWidth = floatPtr(fitPaperDimension(clip.width, clip.x))
		req.PaperHeight = floatPtr(fitPaperDimension(clip.height, clip.y))
		req.PageRanges = "1-1"
	}

	reader, err := page.PDF(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// fitPaperDimension converts one fitted page dimension from CSS pixels to
// inches: the ceiled diagram size plus the origin offset doubled.
func fitPaperDimension(size, origin float64) float64 {
	return (math.Ceil(size) + origin*2) / cssPixelsPerInch
}

// launchBrowser starts a browser per the config and connects to it.
// The returned release func closes the browser and cleans up the
// launcher's user data directory.
func launchBrowser(cfg *BrowserConfig) (*rod.Browser, func(), error) {
	l := launcher.New()

	headless := true
	if cfg != nil && cfg.Headless != nil {
		headless = *cfg.Headless
	}
	l = l.Headless(headless)

	// Use pre-installed browser if specified (Docker/containerized environments)
	switch {
	case cfg != nil && cfg.ExecutablePath != "":
		l = l.Bin(cfg.ExecutablePath)
	default:
		if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
			l = l.Bin(bin)
		}
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") != "" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	if cfg != nil {
		for _, arg := range cfg.Args {
			name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
			if name == "" {
				continue
			}
			if hasValue {
				l = l.Set(flags.Flag(name), value)
			} else {
				l = l.Set(flags.Flag(name))
			}
		}
	}

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	release := func() {
		_ = browser.Close()
		l.Cleanup()
	}
	return browser, release, nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
