package writer

import (
	"fmt"
	"strings"
)

// Message is one dialogue turn as the engine sees it, decoupled from the
// persisted message entity so the stateless endpoints can supply history
// directly from the request body.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnInput carries the context for generating the next interview question.
type TurnInput struct {
	ThemeTitle       string
	ThemeDescription string
	Memos            []string
	Messages         []Message
	IsSkip           bool
}

// ArticleInput carries the context for final article synthesis.
type ArticleInput struct {
	ThemeTitle       string
	ThemeDescription string
	Memos            []string
	Messages         []Message
	TargetLength     int
	Pronoun          string
	WritingStyle     string
	StyleReference   string
}

// RewriteInput carries an existing article and the style sample to restyle
// it with.
type RewriteInput struct {
	Title          string
	Content        string
	StyleReference string
}

// rewriteTemplate is fixed rather than registry-versioned: rewrite swaps the
// instruction block but reuses the writing category's model settings.
const rewriteTemplate = `You are a careful editor. Rewrite the article below so its tone and rhythm follow the style reference.
Preserve every fact, claim and example; transform only voice, rhythm and word choice.
Do not copy sentences from the style reference into the article.
Start with a single markdown heading line for the title, then the body.`

func buildInterviewPrompt(template string, in TurnInput) string {
	var b strings.Builder
	b.WriteString(template)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Theme: %s\n", in.ThemeTitle)
	if in.ThemeDescription != "" {
		fmt.Fprintf(&b, "Description: %s\n", in.ThemeDescription)
	}
	writeMemos(&b, in.Memos)
	b.WriteString("\nDialogue so far:\n")
	if len(in.Messages) == 0 {
		b.WriteString("(no dialogue yet — ask an opening question)\n")
	} else {
		writeDialogue(&b, in.Messages)
	}
	if in.IsSkip {
		b.WriteString("\nThe writer skipped the previous question. Ask about something different.\n")
	}
	return b.String()
}

func buildArticlePrompt(template string, in ArticleInput) string {
	var b strings.Builder
	b.WriteString(template)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Theme: %s\n", in.ThemeTitle)
	if in.ThemeDescription != "" {
		fmt.Fprintf(&b, "Description: %s\n", in.ThemeDescription)
	}
	fmt.Fprintf(&b, "Target length: about %d characters\n", in.TargetLength)
	if in.Pronoun != "" {
		fmt.Fprintf(&b, "First-person pronoun: %s\n", in.Pronoun)
	}
	if in.WritingStyle != "" {
		fmt.Fprintf(&b, "Requested style: %s\n", in.WritingStyle)
	}
	writeMemos(&b, in.Memos)
	if in.StyleReference != "" {
		b.WriteString("\nStyle reference (influence tone only, never copy):\n")
		b.WriteString(in.StyleReference)
		b.WriteString("\n")
	}
	b.WriteString("\nInterview transcript:\n")
	if len(in.Messages) == 0 {
		b.WriteString("(no interview held — write from the theme and memos alone)\n")
	} else {
		writeDialogue(&b, in.Messages)
	}
	return b.String()
}

func buildRewritePrompt(in RewriteInput) string {
	var b strings.Builder
	b.WriteString(rewriteTemplate)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Article title: %s\n", in.Title)
	b.WriteString("\nArticle body:\n")
	b.WriteString(in.Content)
	b.WriteString("\n\nStyle reference:\n")
	b.WriteString(in.StyleReference)
	b.WriteString("\n\nRewrite the article now.")
	return b.String()
}

func writeMemos(b *strings.Builder, memos []string) {
	if len(memos) == 0 {
		return
	}
	b.WriteString("Memos:\n")
	for _, memo := range memos {
		fmt.Fprintf(b, "- %s\n", memo)
	}
}

func writeDialogue(b *strings.Builder, messages []Message) {
	for _, msg := range messages {
		speaker := "User"
		if msg.Role == "assistant" {
			speaker = "Interviewer"
		}
		fmt.Fprintf(b, "%s: %s\n", speaker, msg.Content)
	}
}
