// Package jsonk implements a self-contained JSON engine for constrained,
// allocation-sensitive callers.
//
// The engine is built from:
//   - A hand-rolled tokenizer and recursive parser with hard resource
//     limits (nesting depth, string/array/object sizes, a per-parse
//     memory budget) so adversarial input has bounded worst-case cost
//   - A reference-counted value tree with explicit Acquire/Release
//     lifecycle and deep-copy
//   - A serializer that writes into a caller-supplied fixed buffer and
//     fails cleanly on overflow
//   - An atomic merge-patch engine: copy-on-write, fail-fast, the original
//     document is never observably modified on any failure path
//   - A dot-path accessor for reading and writing nested object fields
//
// # Merge-patch semantics
//
// ApplyPatch implements a custom merge-patch, not RFC 6902 JSON Patch:
// objects merge recursively, everything else replaces wholesale, and an
// empty patch value (null, "", [] or {}) deletes the target member. A patch
// that fails to parse is a deliberate no-op rather than an error.
//
// # Concurrency
//
// Every operation is synchronous and single-threaded from the engine's point
// of view. Only the reference count is safe under concurrent access;
// structural mutation of a shared tree requires external mutual exclusion.
//
// # Fidelity policy
//
// Numbers use a reduced-precision representation: at most nine fractional
// digits, exponents accepted but not folded into the value. \uXXXX escapes
// are preserved verbatim rather than decoded. Both policies are documented
// behavior, chosen to keep the engine free of floating-point formatting.
package jsonk
