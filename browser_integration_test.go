//go:build integration

package mmdc

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

// These tests launch a real headless Chrome and need network access for
// the mermaid.js bundle. Run with: go test -tags integration ./...

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestRenderFormatSignatures(t *testing.T) {
	r := NewRenderer(WithTimeout(2 * time.Minute))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	const definition = "graph TD\nA-->B"

	t.Run("svg", func(t *testing.T) {
		res, err := r.Render(ctx, definition, FormatSVG, RenderOptions{})
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		if !strings.HasPrefix(string(res.Data), "<svg") {
			t.Errorf("payload does not start with <svg: %q", res.Data[:16])
		}
	})

	t.Run("png", func(t *testing.T) {
		res, err := r.Render(ctx, definition, FormatPNG, RenderOptions{})
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		if !bytes.HasPrefix(res.Data, pngMagic) {
			t.Errorf("payload does not start with PNG magic: % x", res.Data[:8])
		}
	})

	t.Run("pdf", func(t *testing.T) {
		res, err := r.Render(ctx, definition, FormatPDF, RenderOptions{PDFFit: true})
		if err != nil {
			t.Fatalf("Render() error: %v", err)
		}
		if !bytes.HasPrefix(res.Data, []byte("%PDF")) {
			t.Errorf("payload does not start with %%PDF: %q", res.Data[:8])
		}
	})
}

func TestRenderInvalidDefinition(t *testing.T) {
	r := NewRenderer(WithTimeout(2 * time.Minute))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	_, err := r.Render(ctx, "this is not a diagram at all {{{", FormatSVG, RenderOptions{})
	if err == nil {
		t.Fatal("Render() succeeded for invalid diagram syntax")
	}
}
