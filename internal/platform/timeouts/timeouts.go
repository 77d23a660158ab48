// Package timeouts defines shared timeout constants used across rollbot
// processes.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers and telemetry wait for in-flight work
// during graceful shutdown.
const Shutdown = 5 * time.Second

// WebsocketIdle closes chat connections that send nothing for this long.
const WebsocketIdle = 5 * time.Minute
