// Package contracts embeds the OpenAPI description of the callable endpoints.
package contracts

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed callable.yaml
var callableSpec []byte

// GetSwagger parses and validates the embedded callable contract.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(callableSpec)
	if err != nil {
		return nil, fmt.Errorf("load callable contract: %w", err)
	}
	if err := spec.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate callable contract: %w", err)
	}
	return spec, nil
}
