package mmdc

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyDefinition = errors.New("diagram definition cannot be empty")
	ErrInvalidFormat   = errors.New(`output format must be one of "svg", "png" or "pdf"`)

	// Browser/render errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load render harness")
	ErrRender         = errors.New("diagram rendering failed")
	ErrSVGSerialize   = errors.New("SVG serialization failed")
	ErrScreenshot     = errors.New("screenshot capture failed")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// File rendering errors.
	ErrReadInput      = errors.New("failed to read input")
	ErrWriteOutput    = errors.New("failed to write output")
	ErrStdoutMarkdown = errors.New("cannot use stdout with markdown input")
)
