// Package service wires the MCP stdio transport to the dice tool handlers.
package service
