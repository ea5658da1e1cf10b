// Package storage provides the external property stores a resolver can be
// bound to: an in-memory map, a flat YAML file, and a Redis hash. Open picks
// one by backend name; the "none" backend yields no store at all.
package storage
