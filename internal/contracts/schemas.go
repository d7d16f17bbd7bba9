package contracts

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	EventTypeListingChanged = "ListingChangedEvent"
	EventVersionV1          = "1.0.0"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Registry - скомпилированные схемы событий, ключ "тип/версия".
type Registry struct {
	schemas map[string]*jsonschema.Schema
}

// NewRegistry компилирует встроенные схемы.
func NewRegistry() (*Registry, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	sources := map[string]string{
		EventTypeListingChanged + "/" + EventVersionV1: "schemas/listing_changed_v1.json",
	}

	r := &Registry{schemas: make(map[string]*jsonschema.Schema, len(sources))}
	for key, path := range sources {
		raw, err := schemaFS.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
		}
		if err := compiler.AddResource(path, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", path, err)
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", path, err)
		}
		r.schemas[key] = schema
	}
	return r, nil
}

// ValidateEvent проверяет тело сообщения по схеме его типа и версии.
func (r *Registry) ValidateEvent(eventType, eventVersion string, body []byte) error {
	key := eventType + "/" + eventVersion
	schema, ok := r.schemas[key]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	var v interface{}
	if err := sonic.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
