package httpadapter

import (
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.json
var openAPISpec []byte

// ValidateOpenAPIContract parses the embedded contract and validates it.
// Run at startup so a broken contract fails the process, not a client.
func ValidateOpenAPIContract() error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return fmt.Errorf("load openapi contract: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return fmt.Errorf("validate openapi contract: %w", err)
	}
	return nil
}
