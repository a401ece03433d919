// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package schema

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaID is the $id advertised in generated schema documents.
const SchemaID = "https://extxyz.dev/schemas/record.schema.json"

type schemaState struct {
	once   sync.Once
	schema *jschema.Schema
	err    error
}

var globalSchemaState = &schemaState{}

// GenerateSchema reflects ExportedRecord into a JSON Schema document,
// for use by "extxyzctl export --json-schema".
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{DoNotReference: true}
	doc := r.Reflect(&ExportedRecord{})
	doc.ID = jsonschema.ID(SchemaID)
	doc.Title = "extxyz exported record"
	doc.Description = "JSON representation of one decoded extxyz record"

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, oops.In("schema").Hint("failed to marshal schema").Wrap(err)
	}
	data = append(data, '\n')
	return data, nil
}

// ValidateJSON validates exported-record JSON data against the compiled
// schema, for "extxyzctl validate --json-schema".
func ValidateJSON(data []byte) error {
	if len(data) == 0 {
		return oops.In("schema").New("record data is empty")
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return oops.In("schema").Hint("invalid JSON").Wrap(err)
	}

	sch, err := getCompiledSchema()
	if err != nil {
		return oops.In("schema").Hint("failed to compile schema").Wrap(err)
	}

	if err := sch.Validate(doc); err != nil {
		return oops.In("schema").Hint("schema validation failed").Wrap(err)
	}
	return nil
}

func getCompiledSchema() (*jschema.Schema, error) {
	globalSchemaState.once.Do(func() {
		globalSchemaState.schema, globalSchemaState.err = compileSchema()
	})
	return globalSchemaState.schema, globalSchemaState.err
}

func compileSchema() (*jschema.Schema, error) {
	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, oops.In("schema").Hint("failed to parse schema JSON").Wrap(err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("record.json", schemaData); err != nil {
		return nil, oops.In("schema").Hint("failed to add schema resource").Wrap(err)
	}

	sch, err := c.Compile("record.json")
	if err != nil {
		return nil, oops.In("schema").Hint("failed to compile schema").Wrap(err)
	}
	return sch, nil
}

// ResetCache clears the cached compiled schema. Used by tests.
func ResetCache() {
	globalSchemaState = &schemaState{}
}
