// Package mcp provides an MCP (Model Context Protocol) server adapter
// for scantext. It lets AI assistants search the local scan index.
package mcp

import "errors"

// ErrMissingRetriever is returned when the search service is not provided.
var ErrMissingRetriever = errors.New("mcp: search service is required")
