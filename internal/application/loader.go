package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-vignette/internal/ports"
)

//go:embed pipelines/default.yaml
var defaultPipelineYAML []byte

// DefaultPipelineYAML returns the built-in pipeline configuration.
func DefaultPipelineYAML() []byte { return bytes.Clone(defaultPipelineYAML) }

// PipelineLoader parses, validates and compiles pipeline configs.
// Compiled pipelines are cached by the SHA-256 of the normalized config.
//
// Cached pipelines are shared: callers must not call Add on them.
type PipelineLoader struct {
	validator    *validator.Validate
	unitRegistry ports.UnitRegistry

	cache   map[string]*Pipeline
	cacheMu sync.RWMutex
	sf      singleflight.Group
}

// NewPipelineLoader creates a loader that builds units through
// unitRegistry.
func NewPipelineLoader(unitRegistry ports.UnitRegistry) (*PipelineLoader, error) {
	v := validator.New()
	if err := RegisterPipelineValidators(v); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	return &PipelineLoader{
		validator:    v,
		unitRegistry: unitRegistry,
		cache:        make(map[string]*Pipeline),
	}, nil
}

// LoadDefault compiles the embedded default pipeline.
func (pl *PipelineLoader) LoadDefault(ctx context.Context) (*Pipeline, error) {
	return pl.LoadFromBytes(ctx, defaultPipelineYAML)
}

// LoadFromFile compiles the pipeline config at path.
func (pl *PipelineLoader) LoadFromFile(ctx context.Context, path string) (*Pipeline, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ports.NewConfigError(path, ports.ErrConfigNotFound)
	}
	if err != nil {
		return nil, ports.NewConfigError(path, fmt.Errorf("failed to read file: %w", err))
	}
	return pl.LoadFromBytes(ctx, data)
}

// LoadFromReader compiles the pipeline config read from r.
func (pl *PipelineLoader) LoadFromReader(ctx context.Context, r io.Reader) (*Pipeline, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return pl.LoadFromBytes(ctx, data)
}

// LoadFromBytes compiles a pipeline config. Concurrent loads of the same
// normalized config share one compilation.
func (pl *PipelineLoader) LoadFromBytes(ctx context.Context, data []byte) (*Pipeline, error) {
	config, err := pl.parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	hash, err := pl.calculateConfigHash(config)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}

	v, err, _ := pl.sf.Do(hash, func() (any, error) {
		if p, ok := pl.getCached(hash); ok {
			return p, nil
		}
		if err := pl.validateConfig(config); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
		p, err := pl.buildPipeline(ctx, config)
		if err != nil {
			return nil, fmt.Errorf("failed to build pipeline: %w", err)
		}
		pl.cachePipeline(hash, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Pipeline), nil
}

// parseYAML decodes strictly so misspelled fields fail.
func (pl *PipelineLoader) parseYAML(data []byte) (*PipelineConfig, error) {
	var config PipelineConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}
	return &config, nil
}

func (pl *PipelineLoader) validateConfig(config *PipelineConfig) error {
	if err := pl.validator.Struct(config); err != nil {
		return fmt.Errorf("struct validation failed: %w", err)
	}
	if err := pl.validateSemantics(config); err != nil {
		return fmt.Errorf("semantic validation failed: %w", err)
	}
	return nil
}

// validateSemantics checks what struct tags cannot: IDs are unique across
// units and stages, unit types are registered, and every unit is placed in
// exactly one stage.
func (pl *PipelineLoader) validateSemantics(config *PipelineConfig) error {
	ids := make(map[string]string)
	supported := pl.unitRegistry.GetSupportedTypes()

	for _, u := range config.Units {
		if kind, exists := ids[u.ID]; exists {
			return fmt.Errorf("duplicate ID %q: already used by %s", u.ID, kind)
		}
		ids[u.ID] = "unit"
		if !slices.Contains(supported, u.Type) {
			return fmt.Errorf("unit %s: %w: %s", u.ID, ports.ErrUnknownUnitType, u.Type)
		}
	}

	placed := make(map[string]string)
	for _, s := range config.Stages {
		if kind, exists := ids[s.ID]; exists {
			return fmt.Errorf("duplicate ID %q: already used by %s", s.ID, kind)
		}
		ids[s.ID] = "stage"

		for _, unitID := range s.Units {
			if ids[unitID] != "unit" {
				return fmt.Errorf("stage %s references non-existent unit: %s", s.ID, unitID)
			}
			if other, exists := placed[unitID]; exists {
				return fmt.Errorf("unit %s placed in both %s and %s", unitID, other, s.ID)
			}
			placed[unitID] = s.ID
		}
	}

	for _, u := range config.Units {
		if _, ok := placed[u.ID]; !ok {
			return fmt.Errorf("unit %s is not placed in any stage", u.ID)
		}
	}
	return nil
}

// buildPipeline compiles a validated config into a top-level Pipeline whose
// nodes are one Layer or Pipeline per stage.
func (pl *PipelineLoader) buildPipeline(ctx context.Context, config *PipelineConfig) (*Pipeline, error) {
	unitsByID := make(map[string]ports.Executable, len(config.Units))
	for _, uc := range config.Units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		unit, err := pl.createUnit(uc)
		if err != nil {
			return nil, fmt.Errorf("failed to create unit %s: %w", uc.ID, err)
		}
		unitsByID[uc.ID] = NewUnitAdapter(unit, uc.ID)
	}

	root := NewPipeline(config.Metadata.Name)
	for _, sc := range config.Stages {
		var stage interface {
			ports.Executable
			Add(ports.Executable) error
		}
		if sc.Parallel {
			stage = NewLayer(sc.ID)
		} else {
			stage = NewPipeline(sc.ID)
		}

		for _, unitID := range sc.Units {
			if err := stage.Add(unitsByID[unitID]); err != nil {
				return nil, fmt.Errorf("stage %s: %w", sc.ID, err)
			}
		}
		if err := root.Add(stage); err != nil {
			return nil, err
		}
	}
	return root, nil
}

// createUnit decodes the unit's YAML parameters and delegates to the
// registry.
func (pl *PipelineLoader) createUnit(config UnitConfig) (ports.Unit, error) {
	params := make(map[string]any)
	if !config.Parameters.IsZero() {
		if err := config.Parameters.Decode(&params); err != nil {
			return nil, fmt.Errorf("failed to decode parameters: %w", err)
		}
	}

	unit, err := pl.unitRegistry.CreateUnit(config.Type, config.ID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}
	return unit, nil
}

// calculateConfigHash hashes the re-encoded config so that formatting and
// comment differences map to the same cache entry.
func (pl *PipelineLoader) calculateConfigHash(config *PipelineConfig) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(config); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}

	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:]), nil
}

func (pl *PipelineLoader) getCached(hash string) (*Pipeline, bool) {
	pl.cacheMu.RLock()
	defer pl.cacheMu.RUnlock()
	p, ok := pl.cache[hash]
	return p, ok
}

func (pl *PipelineLoader) cachePipeline(hash string, p *Pipeline) {
	pl.cacheMu.Lock()
	defer pl.cacheMu.Unlock()
	pl.cache[hash] = p
}

// CacheSize returns the number of compiled pipelines held.
func (pl *PipelineLoader) CacheSize() int {
	pl.cacheMu.RLock()
	defer pl.cacheMu.RUnlock()
	return len(pl.cache)
}

// ClearCache drops every compiled pipeline.
func (pl *PipelineLoader) ClearCache() {
	pl.cacheMu.Lock()
	defer pl.cacheMu.Unlock()
	pl.cache = make(map[string]*Pipeline)
}
