// Package component defines lifecycle and health interfaces for the pieces
// the kvrest CLI starts and probes, plus a Registry that starts them in
// order and stops them in reverse.
package component
