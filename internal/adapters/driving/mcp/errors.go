// Package mcp provides an MCP (Model Context Protocol) server adapter for Resolva.
// It enables AI assistants like Claude to match support tickets and draft responses
// against the local corpus.
package mcp

import "errors"

// ErrMissingMatcherService is returned when the matcher service is not provided.
var ErrMissingMatcherService = errors.New("mcp: matcher service is required")
