package writer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDropsLeakLines(t *testing.T) {
	raw := "Title: leaked label\n# The Real Title\n\nFirst paragraph.\nTone: warm\nSecond paragraph."

	draft := Normalize(raw, "fallback")

	assert.Equal(t, "The Real Title", draft.Title)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", draft.Body)
	assert.Equal(t, 2, draft.DroppedLines)
}

func TestNormalizeTitleFromHeading(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		title string
		body  string
	}{
		{"level one", "# Morning Pages\n\nBody text.", "Morning Pages", "Body text."},
		{"level two", "## Morning Pages\n\nBody text.", "Morning Pages", "Body text."},
		{"no heading", "Just prose from the first line.", "fallback", "Just prose from the first line."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := Normalize(tt.raw, "fallback")
			assert.Equal(t, tt.title, draft.Title)
			assert.Equal(t, tt.body, draft.Body)
		})
	}
}

func TestNormalizeBodyParagraphLabels(t *testing.T) {
	raw := "# T\n\n1. Body Paragraph about openings\nActual prose stays.\nBody Paragraph 2:\nMore prose."

	draft := Normalize(raw, "fallback")

	assert.Equal(t, "Actual prose stays.\nMore prose.", draft.Body)
	assert.Equal(t, 2, draft.DroppedLines)
}

func TestNormalizeTrimsBlankFraming(t *testing.T) {
	draft := Normalize("\n\n# Title\n\nBody.\n\n\n", "fallback")

	assert.Equal(t, "Title", draft.Title)
	assert.Equal(t, "Body.", draft.Body)
}

func TestNormalizeOnlyLeakLines(t *testing.T) {
	draft := Normalize("Title: x\nOutline: y", "fallback")

	assert.Equal(t, "fallback", draft.Title)
	assert.Empty(t, draft.Body)
	assert.Equal(t, 2, draft.DroppedLines)
}
