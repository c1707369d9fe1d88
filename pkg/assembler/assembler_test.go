package assembler

import (
	"fmt"
	"testing"

	"github.com/soundprediction/go-graphrag/pkg/types"
	"github.com/stretchr/testify/assert"
)

func fact(source, relType, target string) types.RelationshipFact {
	return types.RelationshipFact{Source: source, Type: relType, Target: target}
}

func TestAssembleKeepsEntityOrder(t *testing.T) {
	a := New(0)

	ctx := a.Assemble([]types.TraversalResult{
		{Entity: "B", Facts: []types.RelationshipFact{fact("B", "KNOWS", "C")}},
		{Entity: "A", Facts: []types.RelationshipFact{fact("A", "KNOWS", "B"), fact("A", "OWNS", "D")}},
	})

	assert.Equal(t, []string{
		"B -[KNOWS]-> C",
		"A -[KNOWS]-> B",
		"A -[OWNS]-> D",
	}, ctx.Facts)
	assert.False(t, ctx.Truncated)
}

func TestAssembleDeduplicatesAcrossEntities(t *testing.T) {
	a := New(0)

	// Two entities sharing a connecting edge report it once.
	shared := fact("Gmail Toolkit", "TYPE_OF", "Email Software")
	ctx := a.Assemble([]types.TraversalResult{
		{Entity: "Gmail Toolkit", Facts: []types.RelationshipFact{shared}},
		{Entity: "Email Software", Facts: []types.RelationshipFact{shared, fact("Email Software", "USED_BY", "Acme")}},
	})

	assert.Equal(t, []string{
		"Gmail Toolkit -[TYPE_OF]-> Email Software",
		"Email Software -[USED_BY]-> Acme",
	}, ctx.Facts)
}

func TestAssembleTruncatesAtCap(t *testing.T) {
	a := New(3)

	var facts []types.RelationshipFact
	for i := 0; i < 10; i++ {
		facts = append(facts, fact(fmt.Sprintf("N%d", i), "REL", fmt.Sprintf("M%d", i)))
	}

	ctx := a.Assemble([]types.TraversalResult{{Entity: "N", Facts: facts}})

	assert.Len(t, ctx.Facts, 3)
	assert.True(t, ctx.Truncated)
	// Keep-first truncation in assembly order.
	assert.Equal(t, "N0 -[REL]-> M0", ctx.Facts[0])
	assert.Equal(t, "N2 -[REL]-> M2", ctx.Facts[2])
}

func TestAssembleEmptyResults(t *testing.T) {
	a := New(0)

	ctx := a.Assemble(nil)
	assert.NotNil(t, ctx.Facts)
	assert.True(t, ctx.Empty())
	assert.False(t, ctx.Truncated)

	ctx = a.Assemble([]types.TraversalResult{{Entity: "ghost"}})
	assert.True(t, ctx.Empty())
}

func TestAssembleCapNotTruncatedWhenExact(t *testing.T) {
	a := New(2)

	ctx := a.Assemble([]types.TraversalResult{
		{Entity: "A", Facts: []types.RelationshipFact{fact("A", "R", "B"), fact("A", "R", "C")}},
	})

	assert.Len(t, ctx.Facts, 2)
	assert.False(t, ctx.Truncated)
}
