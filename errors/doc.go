// Package errors provides the structured error type used by pipekit for
// failures the library raises itself: unwired pipes, recovered worker
// panics, invalid configuration and progress-server lookups.
//
// Errors produced by collaborator code (mappers, writers, actions) are never
// wrapped in an AppError; they reach the caller unchanged.
package errors
