// Package domain translates MCP tool calls into dice rolls.
//
// Handlers parse MCP input, route it through the traced roll service, and
// surface structured outputs that MCP clients can render.
package domain
