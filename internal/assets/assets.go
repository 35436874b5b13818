// Package assets embeds the browser-side render harness.
//
// The harness is a minimal HTML page that loads mermaid.js (and the
// zenuml external diagram bundle) and exposes an empty #container
// element. The renderer writes it to a temp file, navigates headless
// Chrome to it, and evaluates the render script against it.
package assets

import "embed"

//go:embed templates/*
var templates embed.FS

// Harness returns the render harness page.
func Harness() string {
	content, err := templates.ReadFile("templates/index.html")
	if err != nil {
		// The file is embedded at compile time; a missing file is a build
		// defect, not a runtime condition.
		panic("assets: embedded harness missing: " + err.Error())
	}
	return string(content)
}
