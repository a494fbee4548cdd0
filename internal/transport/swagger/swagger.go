package swagger

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL("/openapi.yml"), // URL to the OpenAPI spec served at root
	)
}

// ValidateDocument loads and validates the OpenAPI document so a broken spec
// fails at startup instead of surfacing as a blank Swagger UI.
func ValidateDocument(path string) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return err
	}
	return doc.Validate(loader.Context)
}
