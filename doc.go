// Package mmdc renders Mermaid diagram definitions to SVG, PNG, or PDF
// using headless Chrome.
//
// Diagram semantics (parsing, layout, theming) are delegated entirely to
// the browser-loaded mermaid.js library; browser lifecycle is managed by
// go-rod. This package is the glue: it drives the browser, branches on the
// output format, and rewrites Markdown documents by replacing embedded
// mermaid code fences with image references.
//
// # Quick Start
//
// Create a renderer and render a single diagram:
//
//	r := mmdc.NewRenderer()
//
//	result, err := r.Render(ctx, "graph TD\nA-->B", mmdc.FormatSVG, mmdc.RenderOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("diagram.svg", result.Data, 0644)
//
// Each render launches its own browser session and tears it down on every
// exit path, so there is nothing to close.
//
// # File Rendering
//
// RenderFile handles whole files, including Markdown documents with
// embedded diagrams:
//
//	res, err := r.RenderFile(ctx, mmdc.FileInput{
//	    InputPath:  "README.md",
//	    OutputPath: "out.md",
//	})
//
// For a Markdown input, every ```mermaid (or :::mermaid) fence is rendered
// to a sibling file named out-1.svg, out-2.svg, ... and the fence is
// replaced by a Markdown image reference. A Markdown input without fences
// is copied through unchanged. Non-Markdown inputs are treated as a single
// diagram definition; use "-" as the output path to write the raw bytes to
// standard output.
//
// # Configuration
//
// Per-render options are passed via RenderOptions: viewport, background
// color, an opaque mermaid configuration map, custom CSS injected into the
// rendered SVG, icon packs, and browser launch settings. Renderer options
// use the functional option pattern:
//
//	r := mmdc.NewRenderer(mmdc.WithTimeout(2 * time.Minute))
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// For containers and CI environments, set ROD_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package mmdc
