package generation

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// itemsSchemaJSON is the contract the model's response must satisfy before
// anything touches the database. The prompt asks for exactly this shape.
const itemsSchemaJSON = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"required": ["text", "translation"],
		"properties": {
			"text": {"type": "string", "minLength": 1},
			"translation": {"type": "string", "minLength": 1},
			"examples": {"type": "array", "items": {"type": "string"}},
			"pronunciation": {"type": "string"}
		},
		"additionalProperties": false
	}
}`

const itemsSchemaURL = "schema://generated-items.json"

var (
	itemsSchemaOnce sync.Once
	itemsSchema     *jsonschema.Schema
	itemsSchemaErr  error
)

// compiledItemsSchema compiles the schema on first use and caches it.
func compiledItemsSchema() (*jsonschema.Schema, error) {
	itemsSchemaOnce.Do(func() {
		// The jsonschema compiler expects a parsed JSON value, not raw bytes.
		var def interface{}
		if err := json.Unmarshal([]byte(itemsSchemaJSON), &def); err != nil {
			itemsSchemaErr = fmt.Errorf("parse items schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(itemsSchemaURL, def); err != nil {
			itemsSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		itemsSchema, itemsSchemaErr = c.Compile(itemsSchemaURL)
	})
	return itemsSchema, itemsSchemaErr
}

// GeneratedItem is the wire shape of one item in the model's response.
type GeneratedItem struct {
	Text          string   `json:"text"`
	Translation   string   `json:"translation"`
	Examples      []string `json:"examples,omitempty"`
	Pronunciation string   `json:"pronunciation,omitempty"`
}

// ParseItemsResponse validates raw model output against the generated-items
// schema and decodes it. A response that fails validation never reaches the
// caller, no matter how plausible it looks.
func ParseItemsResponse(raw []byte) ([]GeneratedItem, error) {
	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrInvalidResponse, err)
	}

	schema, err := compiledItemsSchema()
	if err != nil {
		return nil, err
	}

	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	var items []GeneratedItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return items, nil
}
