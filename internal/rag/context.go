package rag

import (
	"context"
	"fmt"
	"sort"

	"sage-ai/internal/contextutil"
	"sage-ai/internal/storage"
)

const (
	// DefaultContextBudget is the maximum total character length of chunk
	// text packed into one prompt.
	DefaultContextBudget = 8000

	maxCitations = 5
)

// Assembler resolves re-ranked hits back to chunk text and packs them into a
// character-budgeted context.
type Assembler struct {
	chunks storage.ChunkStore
	budget int
}

// NewAssembler creates an Assembler with the default character budget.
func NewAssembler(chunks storage.ChunkStore) *Assembler {
	return &Assembler{chunks: chunks, budget: DefaultContextBudget}
}

// NewAssemblerWithBudget creates an Assembler with a custom character budget.
func NewAssemblerWithBudget(chunks storage.ChunkStore, budget int) *Assembler {
	return &Assembler{chunks: chunks, budget: budget}
}

// Assemble fetches the chunk text behind each hit and accumulates entries
// while the running character total stays within budget. An entry that would
// exceed the budget is skipped whole, never truncated, and processing moves
// on without backtracking. Hits whose chunk cannot be resolved contribute
// nothing. Citations are deduplicated by (title, section, page) keeping the
// higher score, sorted by descending score and capped at 5.
//
// An empty entry list is a valid result and signals the caller to answer
// uncertain instead of invoking generation.
func (a *Assembler) Assemble(ctx context.Context, hits []Hit) (*AssembledContext, error) {
	logger := contextutil.LoggerFromContext(ctx)

	out := &AssembledContext{
		Entries:     []ContextEntry{},
		Citations:   []Citation{},
		SourcesUsed: []string{},
	}

	// Group hits by paper so each paper costs one chunk lookup, preserving
	// first-seen paper order and hit order within a paper.
	paperOrder := make([]string, 0, len(hits))
	byPaper := make(map[string][]Hit)
	for _, hit := range hits {
		if _, seen := byPaper[hit.PaperID]; !seen {
			paperOrder = append(paperOrder, hit.PaperID)
		}
		byPaper[hit.PaperID] = append(byPaper[hit.PaperID], hit)
	}

	var citations []Citation
	seenTitles := make(map[string]bool)
	total := 0

	for _, paperID := range paperOrder {
		paperHits := byPaper[paperID]

		orders := make([]int, 0, len(paperHits))
		for _, hit := range paperHits {
			if hit.Order >= 0 {
				orders = append(orders, hit.Order)
			}
		}

		orderToText := make(map[int]string)
		if len(orders) > 0 {
			chunks, err := a.chunks.GetByPaperAndOrders(ctx, paperID, orders)
			if err != nil {
				return nil, fmt.Errorf("fetch chunks for paper %s: %w", paperID, err)
			}
			for _, chunk := range chunks {
				orderToText[chunk.Order] = chunk.Text
			}
		}

		for _, hit := range paperHits {
			text := orderToText[hit.Order]
			if text == "" {
				logger.DebugContext(ctx, "hit resolved to no chunk text",
					"paper_id", hit.PaperID, "chunk_index", hit.Order)
				continue
			}
			if total+len(text) > a.budget {
				continue
			}
			total += len(text)

			out.Entries = append(out.Entries, ContextEntry{Text: text, Source: hit})
			citations = append(citations, Citation{
				PaperTitle:     hit.Title,
				Section:        hit.Section,
				Page:           hit.Page,
				RelevanceScore: hit.Score,
			})
			if hit.Title != "" && !seenTitles[hit.Title] {
				seenTitles[hit.Title] = true
				out.SourcesUsed = append(out.SourcesUsed, hit.Title)
			}
		}
	}

	out.Citations = dedupCitations(citations)
	return out, nil
}

// dedupCitations collapses citations sharing (title, section, page) to the
// highest-scoring one, sorts by descending score and caps the result.
func dedupCitations(citations []Citation) []Citation {
	index := make(map[string]int)
	unique := make([]Citation, 0, len(citations))
	for _, c := range citations {
		key := fmt.Sprintf("%s|%s|%d", c.PaperTitle, c.Section, c.Page)
		if at, ok := index[key]; ok {
			if c.RelevanceScore > unique[at].RelevanceScore {
				unique[at] = c
			}
			continue
		}
		index[key] = len(unique)
		unique = append(unique, c)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].RelevanceScore > unique[j].RelevanceScore
	})

	if len(unique) > maxCitations {
		unique = unique[:maxCitations]
	}
	return unique
}
