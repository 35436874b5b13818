package mmdc

import (
	"regexp"
	"strings"
)

// mermaidBlockPattern matches a fenced mermaid block inside Markdown.
//
// A block opens at a line consisting of three backticks or three colons
// immediately followed by the word "mermaid", and closes at the next line
// whose trimmed content is three backticks or three colons. Either
// delimiter closes either opener; existing Markdown corpora depend on that
// permissiveness, so it is preserved verbatim.
var mermaidBlockPattern = regexp.MustCompile(
	"(?m)^[^\\S\\n]*[`:]{3}mermaid([^\\S\\n]*\\r?\\n([\\s\\S]*?))[`:]{3}[^\\S\\n]*$")

// DiagramBlock is one extracted mermaid fence. Offsets are byte positions
// of the full match (fence lines included) in the source document; Index
// is the zero-based order of appearance.
type DiagramBlock struct {
	Definition string
	Start      int
	End        int
	Index      int
}

// ExtractBlocks scans Markdown source for mermaid fences and returns the
// blocks in document order. An empty slice means no diagrams are present;
// that is a valid outcome, not an error.
func ExtractBlocks(source string) []DiagramBlock {
	matches := mermaidBlockPattern.FindAllStringSubmatchIndex(source, -1)
	if len(matches) == 0 {
		return nil
	}

	blocks := make([]DiagramBlock, 0, len(matches))
	for i, m := range matches {
		// m[4:6] is the inner body capture (group 2).
		blocks = append(blocks, DiagramBlock{
			Definition: source[m[4]:m[5]],
			Start:      m[0],
			End:        m[1],
			Index:      i,
		})
	}
	return blocks
}

// ImageReference is a Markdown image built from a rendered diagram.
type ImageReference struct {
	URL   string // relative path to the rendered file
	Title string // optional; from the SVG <title>
	Alt   string // alt text; defaults to the SVG <desc> or "diagram"
}

// altEscaper escapes characters that would terminate the alt text early.
var altEscaper = strings.NewReplacer("[", `\[`, "]", `\]`)

// Markdown renders the reference as ![alt](url) or ![alt](url "title").
func (r ImageReference) Markdown() string {
	alt := altEscaper.Replace(r.Alt)
	if r.Title == "" {
		return "![" + alt + "](" + r.URL + ")"
	}
	title := strings.ReplaceAll(r.Title, `"`, `\"`)
	return "![" + alt + "](" + r.URL + ` "` + title + `")`
}

// SubstituteBlocks replaces each mermaid fence in source with the
// corresponding image reference, in document order. Fences beyond
// len(refs) are left untouched.
func SubstituteBlocks(source string, refs []ImageReference) string {
	matches := mermaidBlockPattern.FindAllStringIndex(source, -1)
	if len(matches) == 0 || len(refs) == 0 {
		return source
	}

	var b strings.Builder
	b.Grow(len(source))
	last := 0
	for i, m := range matches {
		if i >= len(refs) {
			break
		}
		b.WriteString(source[last:m[0]])
		b.WriteString(refs[i].Markdown())
		last = m[1]
	}
	b.WriteString(source[last:])
	return b.String()
}
