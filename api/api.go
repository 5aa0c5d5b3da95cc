// Package api содержит статическую OpenAPI-спецификацию сервиса,
// которую роутер отдаёт на /swagger/openapi.json.
package api

import _ "embed"

//go:embed openapi.json
var OpenAPISpec []byte
