package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	sqlassets "github.com/zenGate-Global/palmyra-admins/database"
)

const adminProfileSchemaURL = "mem://schemas/admin_profile.json"

// ProfileValidator checks admin profile documents against the embedded JSON Schema before they are written.
type ProfileValidator struct {
	schema *jsonschema.Schema
}

// NewProfileValidator compiles the embedded admin profile schema.
func NewProfileValidator() (*ProfileValidator, error) {
	return NewProfileValidatorFromSchema(sqlassets.AdminProfileSchema)
}

// NewProfileValidatorFromSchema compiles the provided schema definition.
func NewProfileValidatorFromSchema(definition []byte) (*ProfileValidator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(adminProfileSchemaURL, bytes.NewReader(definition)); err != nil {
		return nil, fmt.Errorf("register admin profile schema: %w", err)
	}

	compiled, err := compiler.Compile(adminProfileSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile admin profile schema: %w", err)
	}

	return &ProfileValidator{schema: compiled}, nil
}

// Validate ensures params form a well-shaped profile document.
func (v *ProfileValidator) Validate(params PutAdminParams) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode admin profile: %w", err)
	}

	var document any
	if err := json.Unmarshal(raw, &document); err != nil {
		return fmt.Errorf("decode admin profile: %w", err)
	}

	if err := v.schema.Validate(document); err != nil {
		return fmt.Errorf("admin profile validation: %w", err)
	}

	return nil
}
