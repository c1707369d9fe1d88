// Package assembler merges per-entity traversal results into the fact
// context handed to answer synthesis.
package assembler

import (
	"github.com/soundprediction/go-graphrag/pkg/types"
)

// DefaultMaxFacts caps the assembled fact count. Dense graphs can return
// thousands of edges for one entity; the cap keeps the synthesis prompt
// bounded.
const DefaultMaxFacts = 200

// Assembler builds an AssembledContext from traversal results.
type Assembler struct {
	maxFacts int
}

// New creates an Assembler. Values < 1 fall back to DefaultMaxFacts.
func New(maxFacts int) *Assembler {
	if maxFacts < 1 {
		maxFacts = DefaultMaxFacts
	}
	return &Assembler{maxFacts: maxFacts}
}

// Assemble concatenates rendered facts in entity-extraction order, keeping
// each entity's facts together, deduplicating identical fact strings across
// entities, and truncating deterministically at the configured cap (first N
// in assembly order). Truncated is set when any fact was dropped.
func (a *Assembler) Assemble(results []types.TraversalResult) types.AssembledContext {
	seen := make(map[string]struct{})
	ctx := types.AssembledContext{Facts: []string{}}

	for _, result := range results {
		for _, fact := range result.Rendered() {
			if _, dup := seen[fact]; dup {
				continue
			}
			seen[fact] = struct{}{}

			if len(ctx.Facts) >= a.maxFacts {
				ctx.Truncated = true
				return ctx
			}
			ctx.Facts = append(ctx.Facts, fact)
		}
	}

	return ctx
}
