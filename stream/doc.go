// Package stream provides adapters that expose non-file transports as the
// plain io.Reader/io.Writer pairs a relay consumes.
//
// The relay core deliberately assumes nothing about its streams beyond
// "read bytes or signal end" and "write bytes, flush, close". Files, process
// pipes, and in-memory buffers already satisfy that; this package covers
// message-oriented transports, currently WebSocket connections.
package stream
