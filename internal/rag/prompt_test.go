package rag

import (
	"strings"
	"testing"
)

func TestAssemblePrompt_ContainsContextAndQuestion(t *testing.T) {
	entries := []ContextEntry{
		{
			Text: "Transformers use attention.",
			Source: Hit{
				PaperID: "p1",
				Title:   "Attention Is All You Need",
				Section: "methods",
				Page:    3,
			},
		},
	}

	prompt := AssemblePrompt("How do transformers work?", entries)

	for _, want := range []string{
		"<context>",
		"</context>",
		`paper_id="p1"`,
		`paper_title="Attention Is All You Need"`,
		`section="methods"`,
		`page="3"`,
		"Transformers use attention.",
		"<question>How do transformers work?</question>",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAssemblePrompt_EscapesMarkup(t *testing.T) {
	entries := []ContextEntry{
		{
			Text:   `see <xref> & "quoted"`,
			Source: Hit{PaperID: "p1", Title: `A <Survey> & More`},
		},
	}

	prompt := AssemblePrompt("what's <this>?", entries)

	if strings.Contains(prompt, "<xref>") || strings.Contains(prompt, "<Survey>") || strings.Contains(prompt, "<this>") {
		t.Errorf("prompt leaked unescaped markup:\n%s", prompt)
	}
	for _, want := range []string{"&lt;xref&gt;", "&amp;", "&quot;quoted&quot;", "what&apos;s"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing escaped form %q", want)
		}
	}
}
