package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/aymanbagabas/go-udiff"
)

// diffPreviewLimit caps how much content gets diffed in previews; larger
// files are summarized instead of rendered line by line.
const diffPreviewLimit = 64 * 1024

// RenderDiff returns a styled unified diff between two versions of a file,
// or a short note when the content is binary or too large to preview.
func RenderDiff(path string, old, new []byte) string {
	if len(old) > diffPreviewLimit || len(new) > diffPreviewLimit {
		return Muted.Render("  (diff too large to preview)")
	}
	if !utf8.Valid(old) || !utf8.Valid(new) {
		return Muted.Render("  (binary content, no preview)")
	}

	unified := udiff.Unified(path, path, string(old), string(new))
	if unified == "" {
		return ""
	}

	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(unified, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			b.WriteString(DiffAdd.Render(line))
		case strings.HasPrefix(line, "-"):
			b.WriteString(DiffDel.Render(line))
		default:
			b.WriteString(Muted.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
