// Package errors provides structured, coded errors for cellflow.
//
// Structural misuse of the engine (self-listening, operating on a
// destroyed cell, out-of-bounds splices) indicates an invariant violation
// in the calling program, so these errors are raised synchronously rather
// than queued. Each carries a unique code (e.g. "E001") mapping to a
// short message, a detailed explanation, and a fix suggestion.
//
// # Usage
//
//	err := errors.New("E001").WithSuggestion("subscribe a derived cell instead")
//	fmt.Println(err.Format())
package errors
