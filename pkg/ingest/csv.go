package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Document is one ingestible unit of text, here one CSV row rendered as
// "header: value" lines.
type Document struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Row     int    `json:"row"`
}

// LoadCSV reads a CSV file with a header row and returns one Document per
// data row.
func LoadCSV(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) < 2 {
		return []Document{}, nil
	}

	header := records[0]
	docs := make([]Document, 0, len(records)-1)
	for rowIdx, record := range records[1:] {
		var b strings.Builder
		for i, value := range record {
			name := fmt.Sprintf("column_%d", i)
			if i < len(header) {
				name = header[i]
			}
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(value)
			b.WriteString("\n")
		}

		docs = append(docs, Document{
			ID:      uuid.New().String(),
			Content: strings.TrimSpace(b.String()),
			Row:     rowIdx + 1,
		})
	}

	return docs, nil
}
