// Package openapi REST APIのOpenAPI仕様
package openapi

import _ "embed"

// Spec 埋め込みのOpenAPI仕様（YAML）
//
//go:embed openapi.yaml
var Spec []byte
