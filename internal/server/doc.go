// Package server implements the MCP (Model Context Protocol) server for
// dental radiograph annotation.
//
// This package provides a JSON-RPC 2.0 server that exposes the enrichment
// pipeline through the MCP protocol. A client supplies a radiograph path and
// the detections produced by an external tooth detector; the server returns
// diagnoses, outlines and an annotated image.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load a radiograph and get metadata
//   - xray_annotate: Classify, outline and label detections; returns the
//     report document and the annotated image
//   - xray_annotate_batch: Annotate several images in order; undecodable
//     images are reported per item and the rest still run
//   - xray_classify: Diagnose a single tooth from its label and confidence
//   - xray_tooth_color: Palette color for a tooth number
//   - xray_outline: Estimate the outline for one detection box
//   - xray_crop: Zoom into a detection box
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process. The annotate
// tools read the file bytes directly so decode failures surface as
// *pipeline.ImageDecodeError.
//
// Both annotate tools accept csv_path and append one summary row per image
// to that log, writing a header when the file is new.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(config.Default(), nil)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
