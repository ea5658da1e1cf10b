// Package properties resolves configuration values from two layers: immutable
// environment defaults captured at construction, and an optional external
// property store that non-protected keys can be read from and written to.
//
// Keys starting with ProtectionMarker are protected. They are always served
// from the defaults layer and can never be written through a Resolver.
//
// Values are flat scalars (strings, booleans, integers, floats). Nested or
// reference-typed values are not supported and are dropped when the defaults
// are copied.
package properties
