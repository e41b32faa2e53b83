// Package spec serves the embedded OpenAPI document.
package spec

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
