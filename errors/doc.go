// Package errors provides the structured error type shared by streamkit
// packages.
//
// Every failure carries a machine-readable ErrorCode. Misuse of the stream
// API (invalid stage arguments, reusing a consumed stream, pulling from an
// exhausted range) panics with an *AppError so callers can recover and
// inspect the code; configuration loaded from data is returned as an error.
package errors
