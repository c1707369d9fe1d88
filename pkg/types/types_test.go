package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelationshipFactRender(t *testing.T) {
	fact := RelationshipFact{
		Source: "Gmail Toolkit",
		Type:   "TYPE_OF",
		Target: "Email Software",
	}
	assert.Equal(t, "Gmail Toolkit -[TYPE_OF]-> Email Software", fact.Render())
}

func TestTraversalResultRendered(t *testing.T) {
	result := TraversalResult{
		Entity: "A",
		Facts: []RelationshipFact{
			{Source: "A", Type: "KNOWS", Target: "B"},
			{Source: "B", Type: "WORKS_FOR", Target: "C"},
		},
	}
	assert.Equal(t, []string{"A -[KNOWS]-> B", "B -[WORKS_FOR]-> C"}, result.Rendered())
}

func TestNewTurn(t *testing.T) {
	turn := NewTurn("What is quantum computing?")

	assert.NotEmpty(t, turn.ID)
	assert.Equal(t, "What is quantum computing?", turn.Question)
	assert.Equal(t, TurnStateStart, turn.State)
	assert.Empty(t, turn.Diagnostics)

	other := NewTurn("same question")
	assert.NotEqual(t, turn.ID, other.ID)
}

func TestTurnRecord(t *testing.T) {
	turn := NewTurn("q")

	turn.Record(StepTraverse, "Acme", nil, 5*time.Millisecond)
	turn.Record(StepTraverse, "Globex", errors.New("boom"), time.Millisecond)

	assert.Len(t, turn.Diagnostics, 2)
	assert.True(t, turn.Diagnostics[0].OK)
	assert.Empty(t, turn.Diagnostics[0].Error)
	assert.False(t, turn.Diagnostics[1].OK)
	assert.Equal(t, "boom", turn.Diagnostics[1].Error)
	assert.Equal(t, "Globex", turn.Diagnostics[1].Entity)
}

func TestTurnFactsNeverNil(t *testing.T) {
	turn := NewTurn("q")
	assert.NotNil(t, turn.Facts())
	assert.Empty(t, turn.Facts())
}
