// Package errors provides structured error types for the scope module.
//
// Errors are categorized by Phase (which guard operation failed) and Kind
// (what went wrong). The Error type records which part of the guard was
// involved (the resource or the deleter), the Go type name, and the cause
// chain, so the originating failure stays reachable through errors.Is/As.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseMove, errors.KindTransfer).
//		Part(errors.PartDeleter).
//		Type("*pool.Deleter").
//		Cause(copyErr).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TransferFailed(errors.PhaseConstruct, errors.PartResource, "int", cause)
//	err := errors.DeleteFailed(errors.PhaseReset, "int", cause)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
