package rag

import (
	"fmt"
	"strings"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// AssemblePrompt renders the packed context and the question into the prompt
// sent to the generation service. Chunk text and attributes are XML-escaped
// so document content cannot break out of its tags.
func AssemblePrompt(question string, entries []ContextEntry) string {
	var b strings.Builder

	b.WriteString("<context>\n")
	for _, entry := range entries {
		b.WriteString("<chunk>\n")
		fmt.Fprintf(&b, "<meta paper_id=\"%s\" paper_title=\"%s\" section=\"%s\" page=\"%d\"/>\n",
			xmlEscaper.Replace(entry.Source.PaperID),
			xmlEscaper.Replace(entry.Source.Title),
			xmlEscaper.Replace(entry.Source.Section),
			entry.Source.Page)
		b.WriteString(xmlEscaper.Replace(entry.Text))
		b.WriteString("\n</chunk>\n")
	}
	b.WriteString("</context>\n\n")

	b.WriteString("You are a research assistant. Answer the question using ONLY the provided context.\n")
	b.WriteString("Cite sources explicitly in the form [paper_title, section, page].\n")
	b.WriteString("If the answer is not covered by the context, say you are uncertain.\n\n")

	fmt.Fprintf(&b, "<question>%s</question>", xmlEscaper.Replace(question))
	return b.String()
}
