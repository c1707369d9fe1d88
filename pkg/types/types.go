package types

// RelationshipFact is one directed edge discovered during traversal.
// It is immutable once produced.
type RelationshipFact struct {
	Source string `json:"source"`
	Type   string `json:"type"`
	Target string `json:"target"`
}

// Render returns the canonical human-readable form of the fact,
// e.g. "Gmail Toolkit -[TYPE_OF]-> Email Software".
func (f RelationshipFact) Render() string {
	return f.Source + " -[" + f.Type + "]-> " + f.Target
}

// TraversalResult holds the deduplicated edges reachable from every graph
// node matching one entity name, via outgoing and incoming paths.
type TraversalResult struct {
	Entity string             `json:"entity"`
	Facts  []RelationshipFact `json:"facts"`
}

// Rendered returns the facts as canonical strings, in stored order.
func (r TraversalResult) Rendered() []string {
	out := make([]string, len(r.Facts))
	for i, f := range r.Facts {
		out[i] = f.Render()
	}
	return out
}

// AssembledContext is the ordered, deduplicated fact list handed to answer
// synthesis. Truncated is set when the configured fact cap was exceeded.
type AssembledContext struct {
	Facts     []string `json:"facts"`
	Truncated bool     `json:"truncated"`
}

// Empty reports whether no facts were assembled.
func (c AssembledContext) Empty() bool {
	return len(c.Facts) == 0
}
