package mmdc

import (
	"strings"
	"testing"
)

func TestExtractBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "no blocks",
			source: "# Title\n\nJust prose.\n",
			want:   nil,
		},
		{
			name:   "single backtick fence",
			source: "# Title\n\n```mermaid\ngraph TD\nA-->B\n```\n\nAfter.\n",
			want:   []string{"graph TD\nA-->B\n"},
		},
		{
			name:   "colon fence",
			source: ":::mermaid\nsequenceDiagram\nAlice->>Bob: hi\n:::\n",
			want:   []string{"sequenceDiagram\nAlice->>Bob: hi\n"},
		},
		{
			name:   "backtick opener closed by colons",
			source: "```mermaid\ngraph TD\n:::\n",
			want:   []string{"graph TD\n"},
		},
		{
			name:   "colon opener closed by backticks",
			source: ":::mermaid\ngraph LR\n```\n",
			want:   []string{"graph LR\n"},
		},
		{
			name: "multiple blocks in document order",
			source: "first\n\n```mermaid\ngraph TD\nA-->B\n```\n\nmiddle\n\n" +
				":::mermaid\npie\n\"a\": 1\n:::\n\nlast\n",
			want: []string{"graph TD\nA-->B\n", "pie\n\"a\": 1\n"},
		},
		{
			name:   "indented fence",
			source: "  ```mermaid\ngraph LR\n  ```\n",
			want:   []string{"graph LR\n"},
		},
		{
			name:   "trailing spaces after opener",
			source: "```mermaid   \ngraph TD\n```\n",
			want:   []string{"graph TD\n"},
		},
		{
			name:   "non-mermaid fence ignored",
			source: "```js\nconsole.log(1)\n```\n",
			want:   nil,
		},
		{
			name:   "crlf body preserved",
			source: "```mermaid \r\ngraph TD\r\nA-->B\r\n```\r\n",
			want:   []string{"graph TD\r\nA-->B\r\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			blocks := ExtractBlocks(tt.source)
			if len(blocks) != len(tt.want) {
				t.Fatalf("ExtractBlocks() returned %d blocks, want %d", len(blocks), len(tt.want))
			}
			for i, b := range blocks {
				if b.Definition != tt.want[i] {
					t.Errorf("block %d definition = %q, want %q", i, b.Definition, tt.want[i])
				}
				if b.Index != i {
					t.Errorf("block %d index = %d, want %d", i, b.Index, i)
				}
				if b.Start < 0 || b.End > len(tt.source) || b.Start >= b.End {
					t.Errorf("block %d span [%d,%d) out of range", i, b.Start, b.End)
				}
				if !strings.Contains(tt.source[b.Start:b.End], tt.want[i]) {
					t.Errorf("block %d span does not contain its definition", i)
				}
			}
		})
	}
}

func TestExtractBlocksOffsetsOrdered(t *testing.T) {
	t.Parallel()

	source := "```mermaid\na\n```\n\n```mermaid\nb\n```\n\n```mermaid\nc\n```\n"
	blocks := ExtractBlocks(source)
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
	for i := 1; i < len(blocks); i++ {
		if blocks[i].Start < blocks[i-1].End {
			t.Errorf("block %d overlaps or precedes block %d", i, i-1)
		}
	}
}

func TestImageReferenceMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ref  ImageReference
		want string
	}{
		{
			name: "no title",
			ref:  ImageReference{URL: "image.png", Alt: "Alt text"},
			want: "![Alt text](image.png)",
		},
		{
			name: "with title",
			ref:  ImageReference{URL: "image.png", Title: "Title", Alt: "Alt text"},
			want: `![Alt text](image.png "Title")`,
		},
		{
			name: "brackets in alt escaped",
			ref:  ImageReference{URL: "a.svg", Alt: "x [y] z"},
			want: `![x \[y\] z](a.svg)`,
		},
		{
			name: "quote in title escaped",
			ref:  ImageReference{URL: "a.svg", Title: `say "hi"`, Alt: "d"},
			want: `![d](a.svg "say \"hi\"")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.ref.Markdown(); got != tt.want {
				t.Errorf("Markdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSubstituteBlocks(t *testing.T) {
	t.Parallel()

	source := "# Doc\n\n```mermaid\ngraph TD\nA-->B\n```\n\ntext\n\n:::mermaid\npie\n:::\n\nend\n"
	refs := []ImageReference{
		{URL: "./out-1.svg", Alt: "diagram"},
		{URL: "./out-2.svg", Alt: "diagram", Title: "Pie"},
	}

	got := SubstituteBlocks(source, refs)

	if strings.Contains(got, "mermaid") {
		t.Errorf("substituted document still contains a fence:\n%s", got)
	}
	if !strings.Contains(got, "![diagram](./out-1.svg)") {
		t.Errorf("missing first image reference:\n%s", got)
	}
	if !strings.Contains(got, `![diagram](./out-2.svg "Pie")`) {
		t.Errorf("missing second image reference:\n%s", got)
	}
	if !strings.HasPrefix(got, "# Doc\n\n") || !strings.HasSuffix(got, "\n\nend\n") {
		t.Errorf("surrounding text not preserved:\n%s", got)
	}
	if first, second := strings.Index(got, "out-1"), strings.Index(got, "out-2"); first > second {
		t.Error("references substituted out of order")
	}
}

func TestSubstituteBlocksFewerRefs(t *testing.T) {
	t.Parallel()

	source := "```mermaid\na\n```\n\n```mermaid\nb\n```\n"
	got := SubstituteBlocks(source, []ImageReference{{URL: "./x.svg", Alt: "d"}})

	if !strings.Contains(got, "![d](./x.svg)") {
		t.Errorf("first fence not replaced:\n%s", got)
	}
	if !strings.Contains(got, "```mermaid\nb\n```") {
		t.Errorf("second fence should be left untouched:\n%s", got)
	}
}

func TestSubstituteBlocksNoBlocks(t *testing.T) {
	t.Parallel()

	source := "no fences here\n"
	if got := SubstituteBlocks(source, []ImageReference{{URL: "x", Alt: "a"}}); got != source {
		t.Errorf("SubstituteBlocks() = %q, want source unchanged", got)
	}
}
