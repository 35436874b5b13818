package mmdc

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Renderer orchestrates diagram rendering and Markdown rewriting.
// Create with NewRenderer; the zero value is not usable.
type Renderer struct {
	cfg        rendererConfig
	dispatcher diagramRenderer
}

// NewRenderer creates a Renderer with default configuration.
// Use options to customize behavior (e.g., WithTimeout).
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		cfg: rendererConfig{timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(r)
	}

	// Create dispatcher if not injected (e.g., by tests)
	if r.dispatcher == nil {
		r.dispatcher = newRodRenderer(r.cfg.timeout)
	}

	return r
}

// Render renders a single diagram definition to the requested format.
// The context is used for cancellation; each call runs its own browser
// session.
func (r *Renderer) Render(ctx context.Context, definition string, format OutputFormat, opts RenderOptions) (*RenderResult, error) {
	if definition == "" {
		return nil, ErrEmptyDefinition
	}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
	default:
		return nil, fmt.Errorf("%w: got %q", ErrInvalidFormat, format)
	}

	return r.dispatcher.Render(ctx, definition, format, opts.withDefaults())
}

// FileInput describes one file-rendering invocation.
type FileInput struct {
	// InputPath names the source file. Empty or "-" reads standard input.
	// Markdown handling is decided by this path's extension.
	InputPath string
	// OutputPath names the destination: .svg/.png/.pdf/.md/.markdown, or
	// "-" for standard output.
	OutputPath string
	// Format overrides format inference from OutputPath.
	Format OutputFormat
	// Options are applied to every rendered diagram.
	Options RenderOptions

	// Stdin and Stdout override the process streams, mainly for tests.
	Stdin  io.Reader
	Stdout io.Writer
}

// FileResult reports what a RenderFile call produced.
type FileResult struct {
	Format        OutputFormat
	MarkdownInput bool
	// DiagramCount is the number of mermaid fences found in a Markdown
	// input; 1 for a raw diagram input.
	DiagramCount int
	// Written lists every file written, sibling images first, in order.
	Written []string
}

// RenderFile renders a diagram file or a Markdown file with embedded
// diagrams to the destination path.
//
// For a Markdown input each fence is rendered to a sibling file named
// {stem}-{i}.{ext} and, when the destination is itself Markdown, the
// fences are replaced by image references in a single ordered pass. A
// Markdown input without fences is copied through unchanged. Earlier
// sibling files are left on disk when a later render fails; there is no
// rollback.
func (r *Renderer) RenderFile(ctx context.Context, in FileInput) (*FileResult, error) {
	format := in.Format
	if format == "" {
		f, ok := FormatFromPath(in.OutputPath)
		if !ok {
			return nil, fmt.Errorf("%w: cannot infer from output %q", ErrInvalidFormat, in.OutputPath)
		}
		format = f
	}

	source, err := readInput(in)
	if err != nil {
		return nil, err
	}

	if isMarkdownInput(in.InputPath) {
		return r.renderMarkdown(ctx, in, format, source)
	}
	return r.renderSingle(ctx, in, format, source)
}

// renderMarkdown implements the Markdown-destination branch of the
// output assembler.
func (r *Renderer) renderMarkdown(ctx context.Context, in FileInput, format OutputFormat, source string) (*FileResult, error) {
	if in.OutputPath == StdoutPath {
		return nil, ErrStdoutMarkdown
	}

	outputPath, err := prepareOutputDir(in.OutputPath)
	if err != nil {
		return nil, err
	}
	outputDir := filepath.Dir(outputPath)

	result := &FileResult{Format: format, MarkdownInput: true}

	blocks := ExtractBlocks(source)
	if len(blocks) == 0 {
		// No diagrams present: the destination becomes a passthrough copy.
		if err := writeFile(outputPath, []byte(source)); err != nil {
			return nil, err
		}
		result.Written = append(result.Written, outputPath)
		return result, nil
	}
	result.DiagramCount = len(blocks)

	refs := make([]ImageReference, 0, len(blocks))
	for _, block := range blocks {
		imagePath := siblingImagePath(outputPath, block.Index+1, format)

		rendered, err := r.Render(ctx, block.Definition, format, in.Options)
		if err != nil {
			return nil, fmt.Errorf("rendering diagram %d: %w", block.Index+1, err)
		}

		if err := writeFile(imagePath, rendered.Data); err != nil {
			return nil, err
		}
		result.Written = append(result.Written, imagePath)

		url, err := relativeImageURL(imagePath, outputDir)
		if err != nil {
			return nil, err
		}

		alt := rendered.Description
		if alt == "" {
			alt = "diagram"
		}
		refs = append(refs, ImageReference{URL: url, Title: rendered.Title, Alt: alt})
	}

	if IsMarkdownPath(outputPath) {
		rewritten := SubstituteBlocks(source, refs)
		if err := writeFile(outputPath, []byte(rewritten)); err != nil {
			return nil, err
		}
		result.Written = append(result.Written, outputPath)
	}

	return result, nil
}

// renderSingle implements the non-Markdown branch: render the whole input
// as one definition and write the payload bytes directly.
func (r *Renderer) renderSingle(ctx context.Context, in FileInput, format OutputFormat, source string) (*FileResult, error) {
	rendered, err := r.Render(ctx, source, format, in.Options)
	if err != nil {
		return nil, err
	}

	result := &FileResult{Format: format, DiagramCount: 1}

	if in.OutputPath == StdoutPath {
		out := in.Stdout
		if out == nil {
			out = os.Stdout
		}
		if _, err := out.Write(rendered.Data); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return result, nil
	}

	outputPath, err := prepareOutputDir(in.OutputPath)
	if err != nil {
		return nil, err
	}
	if err := writeFile(outputPath, rendered.Data); err != nil {
		return nil, err
	}
	result.Written = append(result.Written, outputPath)
	return result, nil
}

// isMarkdownInput reports whether the input path selects the Markdown
// pipeline. Standard input never does.
func isMarkdownInput(inputPath string) bool {
	if inputPath == "" || inputPath == StdoutPath {
		return false
	}
	return IsMarkdownPath(inputPath)
}

// readInput loads the diagram source from the named file or stdin.
func readInput(in FileInput) (string, error) {
	if in.InputPath == "" || in.InputPath == StdoutPath {
		stdin := in.Stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(in.InputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return string(data), nil
}

// prepareOutputDir resolves the destination to an absolute path and
// creates its directory recursively before any write.
func prepareOutputDir(outputPath string) (string, error) {
	abs, err := filepath.Abs(outputPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return abs, nil
}

// writeFile writes payload bytes with world-readable permissions.
func writeFile(path string, data []byte) error {
	// #nosec G306 -- rendered artifacts are intended to be readable
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
