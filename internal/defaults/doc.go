// Package defaults loads the environment defaults a resolver is constructed
// with. Files are read in order and merged key by key; YAML and JSON files
// go through the YAML decoder, .env files through godotenv. Only flat scalar
// values are kept.
package defaults
