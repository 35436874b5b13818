package main

import (
	"io"
	"testing"
)

func TestParseFlagsDefaults(t *testing.T) {
	t.Parallel()

	f, _, err := parseFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags() error: %v", err)
	}

	if f.theme != "default" {
		t.Errorf("theme = %q, want default", f.theme)
	}
	if f.width != 800 || f.height != 600 {
		t.Errorf("viewport = %dx%d, want 800x600", f.width, f.height)
	}
	if f.scale != 1 {
		t.Errorf("scale = %d, want 1", f.scale)
	}
	if f.backgroundColor != "white" {
		t.Errorf("background = %q, want white", f.backgroundColor)
	}
	if f.quiet || f.pdfFit {
		t.Error("boolean flags default to true")
	}
}

func TestParseFlagsShorthands(t *testing.T) {
	t.Parallel()

	args := []string{
		"-t", "dark",
		"-w", "1024",
		"-H", "768",
		"-i", "in.md",
		"-o", "out.md",
		"-e", "png",
		"-b", "transparent",
		"-c", "mermaid.json",
		"-C", "style.css",
		"-I", "my-id",
		"-s", "2",
		"-f",
		"-q",
		"-p", "browser.json",
		"--icon-packs", "@iconify-json/logos",
		"--icon-packs", "@iconify-json/mdi",
	}

	f, rest, err := parseFlags(args, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags() error: %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("positional args = %v, want none", rest)
	}

	if f.theme != "dark" || f.width != 1024 || f.height != 768 || f.scale != 2 {
		t.Errorf("parsed flags = %+v", f)
	}
	if f.input != "in.md" || f.output != "out.md" || f.outputFormat != "png" {
		t.Errorf("paths = %q -> %q (%q)", f.input, f.output, f.outputFormat)
	}
	if f.backgroundColor != "transparent" || f.configFile != "mermaid.json" ||
		f.cssFile != "style.css" || f.svgID != "my-id" || f.browserConfigFile != "browser.json" {
		t.Errorf("parsed flags = %+v", f)
	}
	if !f.pdfFit || !f.quiet {
		t.Error("boolean shorthands not parsed")
	}
	if len(f.iconPacks) != 2 || f.iconPacks[1] != "@iconify-json/mdi" {
		t.Errorf("iconPacks = %v", f.iconPacks)
	}
}

func TestParseFlagsUnknownFlag(t *testing.T) {
	t.Parallel()

	if _, _, err := parseFlags([]string{"--no-such-flag"}, io.Discard); err == nil {
		t.Error("parseFlags() accepted an unknown flag")
	}
}
