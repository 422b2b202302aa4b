package aspic

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `
transposition: false
ordering: weakest
rules:
  - label: "[d1]"
    text: "p => q"
  - label: "[u]"
    text: "r -> ~[d1]"
knowledge_base:
  premises:
    - "p"
    - "r"
  preferences:
    - ["r", "p"]
contraries:
  - less: "set_goal(X)"
    more: "set_goal(Y)"
    contradiction: true
rule_preferences:
  - ["[d1]", "[u]"]
extension_service:
  url: "http://example.invalid/solve"
  timeout: "5s"
`

func writeDocument(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "theory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDocument(t *testing.T) {
	path := writeDocument(t, sampleDocument)
	doc, err := LoadDocument(path)
	require.NoError(t, err)

	assert.False(t, doc.Transposition)
	assert.Equal(t, "weakest", doc.Ordering)
	require.Len(t, doc.Rules, 2)
	assert.Equal(t, "[d1]", doc.Rules[0].Label)
	assert.Equal(t, "p => q", doc.Rules[0].Text)
	assert.Equal(t, []string{"p", "r"}, doc.KnowledgeBase.Premises)
	require.Len(t, doc.KnowledgeBase.Preferences, 1)
	assert.Equal(t, [2]string{"r", "p"}, doc.KnowledgeBase.Preferences[0])
	require.Len(t, doc.Contraries, 1)
	assert.True(t, doc.Contraries[0].Contradiction)
	assert.Equal(t, "http://example.invalid/solve", doc.ExtensionService.URL)
	assert.Equal(t, "5s", doc.ExtensionService.Timeout)
}

func TestLoadDocumentMissingFile(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestBuildTheory(t *testing.T) {
	path := writeDocument(t, sampleDocument)
	doc, err := LoadDocument(path)
	require.NoError(t, err)

	theory, extCfg, err := BuildTheory(doc)
	require.NoError(t, err)
	require.NotNil(t, theory)

	assert.Equal(t, WeakestLink, theory.Ordering)
	assert.Len(t, theory.System.Rules, 2)
	assert.Equal(t, "http://example.invalid/solve", extCfg.URL)
	assert.Equal(t, 5*time.Second, extCfg.Timeout)

	theory.ConstructArguments()
	assert.NotNil(t, findArgumentByConclusion(theory, "q"))
	assert.NotNil(t, findArgumentByConclusion(theory, "~[d1]"))
}

func TestBuildTheoryLastOrdering(t *testing.T) {
	doc := &TheoryDocument{Ordering: "last"}
	theory, _, err := BuildTheory(doc)
	require.NoError(t, err)
	assert.Equal(t, LastLink, theory.Ordering)
}

func TestBuildTheoryRejectsMalformedRule(t *testing.T) {
	doc := &TheoryDocument{
		Rules: []ruleDoc{{Label: "[r]", Text: "not a rule"}},
	}
	_, _, err := BuildTheory(doc)
	require.Error(t, err)
}
