// Package application provides application initialization and dependency wiring.
// It loads property defaults, opens the configured store, and builds the
// resolver, metrics collector, handlers, router, and HTTP server, keeping the
// command packages focused on CLI parsing and orchestration.
package application
