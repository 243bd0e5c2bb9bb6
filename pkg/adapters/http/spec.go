package http

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawSpec []byte

var (
	swaggerOnce sync.Once
	swaggerDoc  *openapi3.T
	swaggerErr  error
)

// GetSwagger returns the parsed and validated OpenAPI document served by this package.
func GetSwagger() (*openapi3.T, error) {
	swaggerOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(rawSpec)
		if err != nil {
			swaggerErr = fmt.Errorf("loading openapi spec: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			swaggerErr = fmt.Errorf("validating openapi spec: %w", err)
			return
		}
		swaggerDoc = doc
	})
	return swaggerDoc, swaggerErr
}
