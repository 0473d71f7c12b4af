// Package mockmcp implements dataset-backed mock servers speaking the Model
// Context Protocol (MCP) over stdio or Server-Sent Events. Each mock server
// answers its tools entirely from a local JSON dataset, so agent integrations
// can be exercised offline with deterministic, reproducible responses.
//
// The root package provides the protocol plumbing: Server and Client, the
// StdIO and SSE transports, ToolSet for registering and filtering tools, and
// LogStream for the logging capability. The servers/ packages build the
// domain tool sets (calendar, places, flights, trains, shelters, weather) on
// top of it.
package mockmcp
