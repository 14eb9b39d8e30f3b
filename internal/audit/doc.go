// Package audit provides the audit event model, sink implementations, and
// the asynchronous dispatcher used by the credgate engine.
//
// # Architecture boundaries
//
// This package owns event buffering and delivery. Event construction and the
// decision of what to record belong to the engine; sinks decide where events
// land (channel, JSON writer, or a caller-provided implementation).
//
// # What this package must NOT do
//
//   - Block the authentication path: with DropIfFull set, Emit is
//     non-blocking and counts drops.
//   - Import credgate or any sibling package.
package audit
