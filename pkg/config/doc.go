// Package config defines the triton configuration model and its YAML
// loader.
//
// Configuration is loaded from a single YAML file (triton.yaml by
// convention), defaults are applied for every unset field, and the
// result is validated before anything else starts. Environment
// variables named TRITON_SECTION_FIELD override file values.
//
// The zero-config path works: every field has a usable default, so a
// theme can be checked without writing a config file at all.
package config
