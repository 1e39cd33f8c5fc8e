// Package config loads, defaults, and validates csvlint
// configuration.
//
// Configuration is read from a YAML file, defaulted field by field,
// optionally overridden from CSVLINT_* environment variables, and then
// validated as a whole with every field error collected before
// reporting. The loading sequence is:
//
//  1. Load YAML from file (a missing file falls back to defaults)
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate the final configuration
package config
