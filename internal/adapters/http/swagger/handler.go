// Package swagger serves the API reference.
package swagger

import (
	"context"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SpecPath is where the embedded OpenAPI document is served.
const SpecPath = "/swagger/openapi.yaml"

// Register attaches the Swagger UI and the OpenAPI document to mux.
// Routes:
//
//	GET /swagger/index.html    -> Swagger UI
//	GET /swagger/openapi.yaml  -> embedded OpenAPI document
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc(SpecPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})
	mux.Handle("/swagger/", httpSwagger.Handler(httpSwagger.URL(SpecPath)))
}
