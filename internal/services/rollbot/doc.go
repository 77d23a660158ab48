// Package rollbot implements the chat-facing dice bot.
//
// Transports (websocket chat gateway, gRPC, MCP) only move text in and out;
// notation parsing and rolling stay in internal/dice so every transport
// answers the same message with the same rules.
package rollbot
