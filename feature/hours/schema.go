package hours

import (
	"fmt"
	"path/filepath"

	"hour-sync/core/sync"

	"github.com/xeipuuv/gojsonschema"
)

// Validator checks database event batches against the events JSON Schema
// before they enter the engine.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator loads and compiles the schema at path.
func NewValidator(path string) (*Validator, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema path %s: %w", path, err)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewReferenceLoader("file://" + abs))
	if err != nil {
		return nil, fmt.Errorf("failed to load schema %s: %w", path, err)
	}

	return &Validator{schema: schema}, nil
}

// Validate checks the whole batch. One invalid record rejects all of them:
// filtering individual records would hide data problems the engine must not
// paper over.
func (v *Validator) Validate(events []sync.DatabaseEvent) error {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(toEventRecords(events)))
	if err != nil {
		return fmt.Errorf("schema validation failed to run: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return &ValidationError{Violations: violations}
}
