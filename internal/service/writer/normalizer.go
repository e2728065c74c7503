// Package writer turns interview material into finished prose: it assembles
// prompts, drives the generation provider with bounded retry, and normalizes
// raw model output into a clean (title, body) pair.
package writer

import (
	"regexp"
	"strings"
)

// leakPrefixes are instruction-template labels that models occasionally echo
// into their output. A line starting with one of these is a meta-leak and is
// dropped entirely.
var leakPrefixes = []string{
	"Title:",
	"Subtitle:",
	"Tone:",
	"Structure:",
	"Style:",
	"Outline:",
	"Introduction:",
	"Conclusion:",
	"Body:",
	"Target length:",
	"Word count:",
}

// Numbered outline labels like "1. Body Paragraph" or "Body Paragraph 2:".
var bodyParagraphPattern = regexp.MustCompile(`^(\d+[.)]\s*)?Body Paragraph\b`)

// NormalizedDraft is the result of cleaning one raw generation.
type NormalizedDraft struct {
	Title        string
	Body         string
	DroppedLines int
}

// Normalize strips meta-leak lines from raw generation output and splits it
// into title and body. If the first remaining line is a level-1 or level-2
// markdown heading it becomes the title (marker stripped); otherwise
// fallbackTitle is used verbatim and the whole cleaned text is the body.
// Dropping never fails the pipeline; the count is reported for observability.
func Normalize(raw, fallbackTitle string) NormalizedDraft {
	var kept []string
	dropped := 0
	for _, line := range strings.Split(raw, "\n") {
		if isLeakLine(strings.TrimSpace(line)) {
			dropped++
			continue
		}
		kept = append(kept, line)
	}

	// Trim blank framing left behind by the model or by dropped lines.
	for len(kept) > 0 && strings.TrimSpace(kept[0]) == "" {
		kept = kept[1:]
	}
	for len(kept) > 0 && strings.TrimSpace(kept[len(kept)-1]) == "" {
		kept = kept[:len(kept)-1]
	}

	draft := NormalizedDraft{Title: fallbackTitle, DroppedLines: dropped}
	if len(kept) == 0 {
		return draft
	}

	first := strings.TrimSpace(kept[0])
	switch {
	case strings.HasPrefix(first, "# "):
		draft.Title = strings.TrimSpace(strings.TrimPrefix(first, "# "))
		kept = kept[1:]
	case strings.HasPrefix(first, "## "):
		draft.Title = strings.TrimSpace(strings.TrimPrefix(first, "## "))
		kept = kept[1:]
	}

	for len(kept) > 0 && strings.TrimSpace(kept[0]) == "" {
		kept = kept[1:]
	}
	draft.Body = strings.Join(kept, "\n")
	return draft
}

func isLeakLine(line string) bool {
	for _, prefix := range leakPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return bodyParagraphPattern.MatchString(line)
}
