package events

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed event.schema.json
var eventSchemaJSON string

var eventSchema = jsonschema.MustCompileString("event.schema.json", eventSchemaJSON)

// ValidateJSON checks raw event bytes against the published event schema.
func ValidateJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}
	if err := eventSchema.Validate(v); err != nil {
		return fmt.Errorf("event does not match schema: %w", err)
	}
	return nil
}
