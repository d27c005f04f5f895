// Package config holds runtime options for bakeryscan and loads the
// optional .bakeryscan YAML file and BAKERYSCAN_* environment overrides.
package config
