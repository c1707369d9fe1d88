package types

import (
	"time"

	"github.com/google/uuid"
)

// TurnState tracks a Turn through the pipeline state machine.
type TurnState string

const (
	TurnStateStart        TurnState = "start"
	TurnStateExtracting   TurnState = "extracting"
	TurnStateTraversing   TurnState = "traversing"
	TurnStateAssembling   TurnState = "assembling"
	TurnStateSynthesizing TurnState = "synthesizing"
	TurnStateDone         TurnState = "done"
	TurnStateFailed       TurnState = "failed"
)

// Step names used in diagnostics records.
const (
	StepExtract    = "extract"
	StepTraverse   = "traverse"
	StepAssemble   = "assemble"
	StepSynthesize = "synthesize"
)

// StepDiagnostic records the outcome of one pipeline step for one Turn.
// Per-entity traversal produces one record per entity.
type StepDiagnostic struct {
	Step    string        `json:"step"`
	Entity  string        `json:"entity,omitempty"`
	OK      bool          `json:"ok"`
	Error   string        `json:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed"`
}

// Turn is one complete question-to-answer cycle. It is created at request
// time and discarded after the answer is returned; no state carries over
// between Turns.
type Turn struct {
	ID          string            `json:"id"`
	Question    string            `json:"question"`
	Entities    []string          `json:"entities"`
	Results     []TraversalResult `json:"results"`
	Context     AssembledContext  `json:"context"`
	Answer      string            `json:"answer"`
	State       TurnState         `json:"state"`
	Diagnostics []StepDiagnostic  `json:"diagnostics"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewTurn creates a Turn in the start state.
func NewTurn(question string) *Turn {
	return &Turn{
		ID:        uuid.New().String(),
		Question:  question,
		State:     TurnStateStart,
		CreatedAt: time.Now(),
	}
}

// Record appends a diagnostic entry to the Turn.
func (t *Turn) Record(step, entity string, err error, elapsed time.Duration) {
	d := StepDiagnostic{
		Step:    step,
		Entity:  entity,
		OK:      err == nil,
		Elapsed: elapsed,
	}
	if err != nil {
		d.Error = err.Error()
	}
	t.Diagnostics = append(t.Diagnostics, d)
}

// Facts returns the assembled context facts, never nil.
func (t *Turn) Facts() []string {
	if t.Context.Facts == nil {
		return []string{}
	}
	return t.Context.Facts
}
