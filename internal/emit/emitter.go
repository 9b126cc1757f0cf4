package emit

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/vk/taskgen/internal/ctxlog"
	"github.com/vk/taskgen/internal/expand"
	"github.com/vk/taskgen/internal/graph"
)

// ConfigFile is the name of the generated task configuration.
const ConfigFile = "evergreen_config.json"

const schemaURL = "evergreen_config.schema.json"

//go:embed schema.json
var schemaJSON []byte

// Emitter publishes a generated graph.
type Emitter interface {
	Emit(ctx context.Context, g *graph.Graph) error
}

// JSONEmitter writes a graph as JSON files below a directory.
type JSONEmitter struct {
	dir    string
	schema *jsonschema.Schema
}

// NewJSONEmitter creates an emitter writing below dir.
func NewJSONEmitter(dir string) (*JSONEmitter, error) {
	if dir == "" {
		return nil, errors.New("output directory is required")
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	return &JSONEmitter{dir: dir, schema: schema}, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// Encode renders g as indented JSON and validates it against the schema.
func (e *JSONEmitter) Encode(g *graph.Graph) ([]byte, error) {
	out := *g
	if out.Tasks == nil {
		out.Tasks = []*graph.Task{}
	}
	if out.Variants == nil {
		out.Variants = []*graph.Variant{}
	}
	raw, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode generated configuration: %w", err)
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode generated configuration: %w", err)
	}
	if err := e.schema.Validate(payload); err != nil {
		return nil, fmt.Errorf("generated configuration does not match schema: %w", err)
	}
	return append(raw, '\n'), nil
}

// Emit writes the suite files and then the configuration file. Nothing is
// written if the configuration fails validation.
func (e *JSONEmitter) Emit(ctx context.Context, g *graph.Graph) error {
	logger := ctxlog.FromContext(ctx)
	raw, err := e.Encode(g)
	if err != nil {
		return err
	}

	suiteDir := filepath.Join(e.dir, expand.GeneratedConfigDir)
	if err := os.MkdirAll(suiteDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	suites := 0
	for _, t := range g.Tasks {
		if t.Suite == nil {
			continue
		}
		data, err := json.MarshalIndent(t.Suite, "", "  ")
		if err != nil {
			return fmt.Errorf("encode suite of task %q: %w", t.Name, err)
		}
		path := filepath.Join(e.dir, filepath.FromSlash(expand.SuitePath(t.Name)))
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write suite of task %q: %w", t.Name, err)
		}
		suites++
	}

	path := filepath.Join(e.dir, ConfigFile)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write generated configuration: %w", err)
	}
	logger.Info("Wrote generated configuration.", "path", path, "tasks", len(g.Tasks), "suite_files", suites)
	return nil
}
