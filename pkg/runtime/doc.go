// Package runtime holds the value model shared by the rest of the core.
//
// A Value is a tagged 64-bit word: null, bool and small integers are inline,
// everything else is a generation-checked handle into a reference-counted
// Heap. Ownership follows one rule set everywhere: constructors and results
// are owned, arguments are borrowed, containers retain what they store, and
// removals hand ownership to the caller.
//
// Fallible operations return a *Error. ErrorState is the single current-error
// slot the execution engine drives as it unwinds call frames.
package runtime
