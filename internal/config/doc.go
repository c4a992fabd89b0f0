// Package config holds configuration for dialdex.
//
// Configuration comes from three layers, later ones winning: built-in
// defaults, the .dialdex YAML file (current directory, then home), and
// CLI flags. The reputation API token additionally honors the
// DIALDEX_REPUTATION_TOKEN environment variable (with optional .env file
// support) so it can stay out of files entirely.
//
// The directory endpoint has no built-in default and must be configured
// explicitly; Validate returns ErrNoEndpoint otherwise.
package config
