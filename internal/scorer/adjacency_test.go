package scorer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAdjacency_Asymmetric(t *testing.T) {
	adj := DefaultAdjacency()
	assert.True(t, adj.Related("SaaS", "Technology"))
	assert.False(t, adj.Related("Technology", "SaaS"))
	assert.False(t, adj.Related("unknown", "saas"))
}

func TestLoadAdjacency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adjacency.yaml")
	content := `
SaaS: [Technology, " Cloud "]
Retail:
  - e-commerce
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	adj, err := LoadAdjacency(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"technology", "cloud"}, adj["saas"])
	assert.True(t, adj.Related("retail", "E-Commerce"))
}

func TestLoadAdjacency_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadAdjacency(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("saas: [unterminated"), 0o644))
	_, err = LoadAdjacency(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte(""), 0o644))
	_, err = LoadAdjacency(empty)
	assert.Error(t, err)
}
