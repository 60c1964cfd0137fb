// Package snapshot encodes and decodes the complete list collection.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/tada/internal/model"
)

const schemaURL = "tada://snapshot.schema.json"

// Items may be keyed "todos" or "items"; dates are optional so blobs written
// by hand still load.
const schemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title"],
    "properties": {
      "id":    {"type": "string"},
      "title": {"type": "string"},
      "todos": {"type": "array", "items": {"$ref": "#/$defs/item"}},
      "items": {"type": "array", "items": {"$ref": "#/$defs/item"}}
    }
  },
  "$defs": {
    "item": {
      "type": "object",
      "required": ["id", "title"],
      "properties": {
        "id":    {"type": "string"},
        "title": {"type": "string"},
        "date":  {"type": "string"}
      }
    }
  }
}`

// ErrInvalid wraps every decode failure, syntax or schema.
var ErrInvalid = errors.New("invalid snapshot")

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiled() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Encode serializes the collection as compact JSON. Nil item sequences are
// written as empty arrays.
func Encode(lists []model.List) ([]byte, error) {
	b, err := json.Marshal(model.CloneLists(lists))
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// EncodeIndent is Encode for humans.
func EncodeIndent(lists []model.List) ([]byte, error) {
	b, err := json.MarshalIndent(model.CloneLists(lists), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// Decode validates blob against the snapshot schema and parses it.
// The result and every item sequence in it are never nil.
func Decode(blob []byte) ([]model.List, error) {
	sch, err := compiled()
	if err != nil {
		return nil, err
	}

	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(blob))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: json unmarshal: %v", ErrInvalid, err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, describe(err))
	}

	var lists []model.List
	if err := json.Unmarshal(blob, &lists); err != nil {
		return nil, fmt.Errorf("%w: json unmarshal: %v", ErrInvalid, err)
	}
	return model.CloneLists(lists), nil
}

// describe flattens a schema error down to its first concrete cause.
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, ve.Message)
}
