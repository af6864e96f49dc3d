// Package extract turns native Markdown uploads into the same extraction
// shape the embedder service produces for PDFs, so both paths feed the
// identical storage and ingestion code.
package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"sage-ai/internal/embedder"
)

const (
	// minChunkRunes merges fragments smaller than this into a neighbor.
	minChunkRunes = 50
	// maxChunkRunes splits section text above this, targeting the embedding
	// model's token window.
	maxChunkRunes = 1400
)

// MarkdownExtractor extracts sections and chunks from Markdown documents via
// goldmark AST parsing. Markdown carries no page numbers, so the section
// ordinal (1-based) stands in for the page everywhere one is expected.
type MarkdownExtractor struct {
	parser goldmark.Markdown
}

// NewMarkdownExtractor creates a new MarkdownExtractor.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{
		parser: goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

// section is one heading-delimited region of the document.
type section struct {
	name   string
	blocks []string
}

// Extract parses the document and returns its title, sections and chunk
// records. Content before the first heading lands in a section named after
// the document title; a document with no headings yields one section.
func (e *MarkdownExtractor) Extract(content []byte, filename string) (*embedder.Extraction, error) {
	title := titleFromFilename(filename)
	if len(content) == 0 {
		return &embedder.Extraction{
			Metadata: embedder.ExtractMetadata{Title: title, Filename: filename},
			Sections: []embedder.SectionRange{},
			Chunks:   []embedder.ExtractChunk{},
		}, nil
	}

	doc := e.parser.Parser().Parse(text.NewReader(content))

	if heading := firstHeading(doc, content); heading != "" {
		title = heading
	}

	sections := e.collectSections(doc, content, title)

	out := &embedder.Extraction{
		Metadata: embedder.ExtractMetadata{Title: title, Filename: filename},
		Sections: make([]embedder.SectionRange, 0, len(sections)),
		Chunks:   []embedder.ExtractChunk{},
	}

	order := 0
	for i, sec := range sections {
		ordinal := i + 1
		out.Sections = append(out.Sections, embedder.SectionRange{
			Name:      sec.name,
			StartPage: ordinal,
			EndPage:   ordinal,
		})

		for _, chunkText := range packSection(sec.blocks) {
			out.Chunks = append(out.Chunks, embedder.ExtractChunk{
				Text:    chunkText,
				Section: sec.name,
				Page:    ordinal,
				Order:   order,
			})
			order++
		}
	}

	return out, nil
}

// collectSections splits the document at headings, accumulating the plain
// text of every block under the most recent heading.
func (e *MarkdownExtractor) collectSections(doc ast.Node, content []byte, title string) []section {
	var sections []section
	current := -1

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if heading, ok := node.(*ast.Heading); ok {
			name := nodeText(heading, content)
			if name == "" {
				name = title
			}
			sections = append(sections, section{name: name})
			current = len(sections) - 1
			continue
		}

		blockText := nodeText(node, content)
		if blockText == "" {
			continue
		}
		if current < 0 {
			sections = append(sections, section{name: title})
			current = 0
		}
		sections[current].blocks = append(sections[current].blocks, blockText)
	}

	// Drop heading-only sections with no body text.
	kept := sections[:0]
	for _, sec := range sections {
		if len(sec.blocks) > 0 {
			kept = append(kept, sec)
		}
	}
	return kept
}

// packSection joins a section's blocks and splits the result into chunks
// within the size bounds: blocks accumulate until the cap, oversized single
// blocks are split at paragraph or sentence boundaries, and a trailing
// fragment below the minimum merges into the previous chunk.
func packSection(blocks []string) []string {
	var chunks []string
	var buf strings.Builder

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		chunks = append(chunks, buf.String())
		buf.Reset()
	}

	for _, block := range blocks {
		if utf8.RuneCountInString(block) > maxChunkRunes {
			flush()
			chunks = append(chunks, splitText(block)...)
			continue
		}
		if buf.Len() > 0 && utf8.RuneCountInString(buf.String())+utf8.RuneCountInString(block) > maxChunkRunes {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(block)
	}
	flush()

	// Merge a small trailing fragment back into its neighbor.
	if n := len(chunks); n > 1 && utf8.RuneCountInString(chunks[n-1]) < minChunkRunes {
		merged := chunks[n-2] + "\n\n" + chunks[n-1]
		if utf8.RuneCountInString(merged) <= maxChunkRunes+minChunkRunes {
			chunks = append(chunks[:n-2], merged)
		}
	}

	return chunks
}

// splitText splits oversized text preferring paragraph boundaries, then
// line breaks, then sentence ends, falling back to a hard cut.
func splitText(s string) []string {
	var parts []string
	runes := []rune(s)

	for start := 0; start < len(runes); {
		end := start + maxChunkRunes
		if end >= len(runes) {
			parts = append(parts, string(runes[start:]))
			break
		}

		window := string(runes[start:end])
		cut := end
		if at := strings.LastIndex(window, "\n\n"); at > 0 {
			cut = start + utf8.RuneCountInString(window[:at+2])
		} else if at := strings.LastIndex(window, "\n"); at > 0 {
			cut = start + utf8.RuneCountInString(window[:at+1])
		} else if at := strings.LastIndex(window, ". "); at > 0 {
			cut = start + utf8.RuneCountInString(window[:at+2])
		}

		parts = append(parts, string(runes[start:cut]))
		start = cut
	}

	return parts
}

// firstHeading returns the text of the first level-1 heading, falling back
// to the first level-2 heading.
func firstHeading(doc ast.Node, content []byte) string {
	var h2 string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		heading, ok := node.(*ast.Heading)
		if !ok {
			continue
		}
		switch heading.Level {
		case 1:
			return nodeText(heading, content)
		case 2:
			if h2 == "" {
				h2 = nodeText(heading, content)
			}
		}
	}
	return h2
}

// titleFromFilename derives a title from the filename: extension stripped,
// words capitalized.
func titleFromFilename(filename string) string {
	name := filename
	if at := strings.LastIndex(name, "."); at > 0 {
		name = name[:at]
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// nodeText collects the plain text of a node and its descendants. Table
// cells and list items are separated by line breaks so their text does not
// run together.
func nodeText(n ast.Node, content []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
		case *ast.String:
			b.Write(v.Value)
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(content))
			}
			return ast.WalkSkipChildren, nil
		default:
			if node != n && node.Type() == ast.TypeBlock && b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}
