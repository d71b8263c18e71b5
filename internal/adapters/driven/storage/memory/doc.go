// Package memory provides in-memory implementations of the driven storage ports.
// They are used by tests and by callers that need no persistence.
package memory
