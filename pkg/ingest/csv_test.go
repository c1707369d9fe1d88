package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, "name,category\nGmail Toolkit,Email Software\nSlack Toolkit,Chat Software\n")

	docs, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "name: Gmail Toolkit\ncategory: Email Software", docs[0].Content)
	assert.Equal(t, 1, docs[0].Row)
	assert.Equal(t, "name: Slack Toolkit\ncategory: Chat Software", docs[1].Content)
	assert.Equal(t, 2, docs[1].Row)
	assert.NotEqual(t, docs[0].ID, docs[1].ID)
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	path := writeCSV(t, "name,category\n")

	docs, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoadCSVRaggedRow(t *testing.T) {
	path := writeCSV(t, "name,category\nAcme,Manufacturing,Extra\n")

	docs, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "name: Acme\ncategory: Manufacturing\ncolumn_2: Extra", docs[0].Content)
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
