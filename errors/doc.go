// Package errors provides the structured error type used for client-side
// failures: invalid input, missing configuration and failed calls mapped to
// a machine-readable code.
package errors
