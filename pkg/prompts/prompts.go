// Package prompts holds the prompt builders used by the retrieval pipeline.
package prompts

import (
	"fmt"
	"strings"

	"github.com/soundprediction/go-graphrag/pkg/llm"
)

// ExtractEntities builds the structured entity-extraction prompt. The model
// is constrained to a single-field schema: a list of entity name strings.
func ExtractEntities(question string) []llm.Message {
	sysPrompt := `You are an AI assistant that extracts entities from text.
Extract person, organization, and business entities appearing in the input.
Respond with a JSON object of the form {"names": ["..."]} and nothing else.
Return an empty list when the input mentions no such entities.`

	userPrompt := fmt.Sprintf("Extract all the entities from the following input: %s", question)

	return []llm.Message{
		llm.NewSystemMessage(sysPrompt),
		llm.NewUserMessage(userPrompt),
	}
}

// SynthesizeAnswer builds the grounded answer-generation prompt from the
// question and the rendered fact list.
func SynthesizeAnswer(question string, facts []string, truncated bool) []llm.Message {
	sysPrompt := `You answer questions using only the provided knowledge graph facts
plus general reasoning. Use natural language and be concise.`

	var b strings.Builder
	b.WriteString("Answer the question based only on the following context:\n")
	for _, fact := range facts {
		b.WriteString(fact)
		b.WriteString("\n")
	}
	if truncated {
		b.WriteString("(The fact list was truncated; coverage is partial.)\n")
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer:")

	return []llm.Message{
		llm.NewSystemMessage(sysPrompt),
		llm.NewUserMessage(b.String()),
	}
}

// GraphTransform builds the document-to-graph conversion prompt used by the
// offline ingestion collaborator.
func GraphTransform(content string) []llm.Message {
	sysPrompt := `You convert documents into knowledge graph elements.
Identify the entities mentioned in the document and the directed relationships
between them. Respond with a JSON object of the form
{"nodes": [{"id": "...", "label": "..."}],
 "relationships": [{"source": "...", "type": "...", "target": "..."}]}
and nothing else. Relationship types are UPPER_SNAKE_CASE verbs such as
TYPE_OF, WORKS_FOR, or LOCATED_IN. Every relationship endpoint must appear in
the node list.`

	userPrompt := fmt.Sprintf("Convert the following document:\n\n%s", content)

	return []llm.Message{
		llm.NewSystemMessage(sysPrompt),
		llm.NewUserMessage(userPrompt),
	}
}
