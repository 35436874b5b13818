package mmdc

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSiblingImagePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		output  string
		ordinal int
		format  OutputFormat
		want    string
	}{
		{
			name:    "markdown destination",
			output:  filepath.Join("docs", "out.md"),
			ordinal: 1,
			format:  FormatSVG,
			want:    filepath.Join("docs", "out-1.svg"),
		},
		{
			name:    "second ordinal png",
			output:  filepath.Join("docs", "out.md"),
			ordinal: 2,
			format:  FormatPNG,
			want:    filepath.Join("docs", "out-2.png"),
		},
		{
			name:    "bare filename",
			output:  "out.md",
			ordinal: 1,
			format:  FormatSVG,
			want:    "out-1.svg",
		},
		{
			name:    "stem with dots",
			output:  filepath.Join("a", "report.v2.md"),
			ordinal: 3,
			format:  FormatPDF,
			want:    filepath.Join("a", "report.v2-3.pdf"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := siblingImagePath(tt.output, tt.ordinal, tt.format); got != tt.want {
				t.Errorf("siblingImagePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRelativeImageURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		imagePath string
		outputDir string
		want      string
	}{
		{
			name:      "sibling file",
			imagePath: filepath.Join("/a", "b", "out-1.svg"),
			outputDir: filepath.Join("/a", "b"),
			want:      "./out-1.svg",
		},
		{
			name:      "parent directory",
			imagePath: filepath.Join("/a", "c", "x.svg"),
			outputDir: filepath.Join("/a", "b"),
			want:      "../c/x.svg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := relativeImageURL(tt.imagePath, tt.outputDir)
			if err != nil {
				t.Fatalf("relativeImageURL() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("relativeImageURL() = %q, want %q", got, tt.want)
			}
			if !strings.HasPrefix(got, "./") && !strings.HasPrefix(got, "../") {
				t.Errorf("relativeImageURL() = %q, want a relative marker prefix", got)
			}
		})
	}
}
