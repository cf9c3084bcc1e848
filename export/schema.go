package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/tsawler/outliner/model"
)

//go:embed schema.json
var schemaJSON []byte

// ErrInvalidRecord is returned when a record does not match the output schema
var ErrInvalidRecord = errors.New("outline record does not match schema")

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Schema returns the JSON schema of the output format
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

func outputSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("outline.schema.json", bytes.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("failed to load output schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("outline.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("failed to compile output schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate checks the JSON encoding of record against the output schema
func Validate(record model.OutlineRecord) error {
	data, err := json.Marshal(withOutline(record))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return ValidateJSON(data)
}

// ValidateJSON checks an encoded record against the output schema
func ValidateJSON(data []byte) error {
	schema, err := outputSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode record for validation: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}
