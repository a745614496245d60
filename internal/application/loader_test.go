package application

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-vignette/internal/ports"
)

func newTestLoader(t *testing.T) *PipelineLoader {
	t.Helper()
	loader, err := NewPipelineLoader(NewDefaultUnitRegistry(nil))
	require.NoError(t, err)
	return loader
}

const sequentialPipelineYAML = `
version: "1.0.0"
metadata:
  name: labels-only
units:
  - id: labels
    type: decision_labels
    parameters:
      require_labels: true
  - id: sides
    type: side_names
stages:
  - id: main
    units: [labels, sides]
`

func TestPipelineLoader_LoadDefault(t *testing.T) {
	loader := newTestLoader(t)

	p, err := loader.LoadDefault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "default-resolution", p.ID())

	stages := p.Executables()
	require.Len(t, stages, 2)

	derive, ok := stages[0].(*Layer)
	require.True(t, ok, "first stage runs in parallel")
	assert.Len(t, derive.Executables(), 3)

	resolve, ok := stages[1].(*Pipeline)
	require.True(t, ok)
	ids := make([]string, 0, 3)
	for _, e := range resolve.Executables() {
		ids = append(ids, e.ID())
	}
	assert.Equal(t, []string{"sides", "pairing", "axes", "outcomes"}, ids)
}

func TestPipelineLoader_LoadFromReader(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "valid sequential pipeline", yaml: sequentialPipelineYAML},
		{
			name:    "unknown field",
			yaml:    strings.Replace(sequentialPipelineYAML, "stages:", "stagez: []\nstages:", 1),
			wantErr: "field stagez not found",
		},
		{
			name:    "bad version",
			yaml:    strings.Replace(sequentialPipelineYAML, `"1.0.0"`, `"v1"`, 1),
			wantErr: "semver",
		},
		{
			name:    "unknown unit type",
			yaml:    strings.Replace(sequentialPipelineYAML, "type: side_names", "type: score_judge", 1),
			wantErr: "unknown unit type: score_judge",
		},
		{
			name:    "invalid step id",
			yaml:    strings.Replace(sequentialPipelineYAML, "- id: sides", "- id: Sides!", 1),
			wantErr: "stepid",
		},
		{
			name:    "stage references missing unit",
			yaml:    strings.Replace(sequentialPipelineYAML, "units: [labels, sides]", "units: [labels, axes]", 1),
			wantErr: "references non-existent unit: axes",
		},
		{
			name:    "unplaced unit",
			yaml:    strings.Replace(sequentialPipelineYAML, "units: [labels, sides]", "units: [labels]", 1),
			wantErr: "unit sides is not placed in any stage",
		},
		{
			name:    "stage id collides with unit id",
			yaml:    strings.Replace(sequentialPipelineYAML, "- id: main", "- id: labels", 1),
			wantErr: `duplicate ID "labels": already used by unit`,
		},
		{
			name:    "bad unit parameters",
			yaml:    strings.Replace(sequentialPipelineYAML, "require_labels: true", "require_label: true", 1),
			wantErr: "check for typos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := newTestLoader(t)
			p, err := loader.LoadFromReader(context.Background(), strings.NewReader(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "labels-only", p.ID())
		})
	}
}

func TestPipelineLoader_Caching(t *testing.T) {
	loader := newTestLoader(t)
	ctx := context.Background()

	first, err := loader.LoadFromBytes(ctx, []byte(sequentialPipelineYAML))
	require.NoError(t, err)

	// Comments and formatting do not change the cache key.
	reformatted := "# labels only\n" + strings.ReplaceAll(sequentialPipelineYAML, "[labels, sides]", "\n      - labels\n      - sides")
	second, err := loader.LoadFromBytes(ctx, []byte(reformatted))
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, loader.CacheSize())

	loader.ClearCache()
	assert.Equal(t, 0, loader.CacheSize())
	third, err := loader.LoadFromBytes(ctx, []byte(sequentialPipelineYAML))
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestPipelineLoader_ConcurrentLoadsShareCompilation(t *testing.T) {
	loader := newTestLoader(t)

	const n = 16
	results := make([]*Pipeline, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := loader.LoadDefault(context.Background())
			assert.NoError(t, err)
			results[i] = p
		}()
	}
	wg.Wait()

	for _, p := range results[1:] {
		assert.Same(t, results[0], p)
	}
	assert.Equal(t, 1, loader.CacheSize())
}

func TestPipelineLoader_LoadFromFile(t *testing.T) {
	loader := newTestLoader(t)

	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, DefaultPipelineYAML(), 0o600))

	p, err := loader.LoadFromFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "default-resolution", p.ID())

	_, err = loader.LoadFromFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	var cfgErr *ports.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, ports.ErrConfigNotFound)
}
