package mmdc

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// StdoutPath is the sentinel output path mapped to standard output.
const StdoutPath = "-"

// siblingImagePath computes the path of the rendered image written
// alongside the destination: {stem}-{ordinal}.{ext}. Ordinals are 1-based
// to match the filenames readers see.
func siblingImagePath(outputPath string, ordinal int, format OutputFormat) string {
	dir := filepath.Dir(outputPath)
	base := filepath.Base(outputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+"-"+strconv.Itoa(ordinal)+"."+format.Extension())
}

// relativeImageURL computes the URL embedded in the rewritten Markdown:
// the image path relative to the destination directory, slash-separated,
// prefixed with "./" unless it already starts with a relative marker.
func relativeImageURL(imagePath, outputDir string) (string, error) {
	rel, err := filepath.Rel(outputDir, imagePath)
	if err != nil {
		return "", fmt.Errorf("computing relative image path: %w", err)
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel, nil
}
