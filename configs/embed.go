// Package configs holds embedded configuration templates. Embedding them
// at build time keeps `moa init` working in every distribution, source
// builds and binary releases alike.
package configs

import _ "embed"

// ConfigTemplate is the annotated template written by `moa init` as
// .moa.yaml. Every value in it matches the built-in defaults.
//
//go:embed config.example.yaml
var ConfigTemplate string
