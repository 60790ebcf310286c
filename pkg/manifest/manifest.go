// Package manifest defines which packages fixstrap installs. The component
// and plugin lists are configuration data, not code: the built-in manifest
// ships embedded as CUE and operators may supply a YAML override file. Both
// are validated against the same CUE schema before use.
package manifest

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/fixstrap/fixstrap/pkg/engine"
)

// Manifest holds the ordered package lists driving an installation run.
type Manifest struct {
	// Runtimes are interpreter candidates, most preferred first.
	Runtimes []string `json:"runtimes" yaml:"runtimes" validate:"required,min=1,dive,required"`

	// Core are the fixed, non-optional components, in install order.
	Core []string `json:"core" yaml:"core" validate:"required,min=1,dive,required"`

	// Plugins are the optional packages, in install order.
	Plugins []string `json:"plugins" yaml:"plugins" validate:"dive,required"`
}

// Loader parses and validates manifests.
type Loader struct {
	ctx      *cue.Context
	schema   cue.Value
	validate *validator.Validate
}

// NewLoader creates a loader with the built-in schema compiled.
func NewLoader() (*Loader, error) {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileString(builtinManifestSchema)
	if err := schemaVal.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile manifest schema: %w", err)
	}
	schema := schemaVal.LookupPath(cue.ParsePath("#Manifest"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("manifest schema has no #Manifest definition: %w", err)
	}

	return &Loader{
		ctx:      ctx,
		schema:   schema,
		validate: validator.New(),
	}, nil
}

// Default returns the built-in manifest, schema-validated.
func (l *Loader) Default() (*Manifest, error) {
	val := l.ctx.CompileString(builtinManifest)
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile built-in manifest: %w", err)
	}
	return l.decode(val)
}

// LoadFile reads a YAML manifest override from disk and validates it against
// the same schema as the built-in manifest.
func (l *Loader) LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	val := l.ctx.Encode(m)
	if err := val.Err(); err != nil {
		return nil, fmt.Errorf("failed to encode manifest %s: %w", path, err)
	}
	return l.decode(val)
}

// decode unifies a manifest value with the schema, checks it is fully
// concrete, and decodes it into the Go struct.
func (l *Loader) decode(val cue.Value) (*Manifest, error) {
	unified := l.schema.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("manifest does not satisfy schema: %w", err)
	}

	var m Manifest
	if err := unified.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	if err := l.validate.Struct(&m); err != nil {
		return nil, fmt.Errorf("manifest validation failed: %w", err)
	}

	return &m, nil
}

// CoreSpecs returns the core component list as package specs, in install
// order.
func (m *Manifest) CoreSpecs() []engine.PackageSpec {
	specs := make([]engine.PackageSpec, 0, len(m.Core))
	for _, name := range m.Core {
		specs = append(specs, engine.PackageSpec{Name: name})
	}
	return specs
}

// PluginSpecs returns the plugin list as package specs, in install order.
func (m *Manifest) PluginSpecs() []engine.PackageSpec {
	specs := make([]engine.PackageSpec, 0, len(m.Plugins))
	for _, name := range m.Plugins {
		specs = append(specs, engine.PackageSpec{Name: name, IsPlugin: true})
	}
	return specs
}
