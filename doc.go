// Package credgate provides a credential-based authentication and
// authorization engine with JWT access tokens, server-side revocable refresh
// tokens, and role-based access control.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// credgate is the public surface. It exposes [Engine], [Builder], [Config],
// the [UserStore] contract, and value types (UserRecord, TokenPair,
// PublicUser). Token signing lives in the jwt subpackage, credential hashing
// in password, and user-record persistence behind [UserStore] implementations
// under stores/.
//
// # Session model
//
// Each user holds at most one live refresh token at a time. Login overwrites
// the stored token, silently ending any prior session; logout clears it. A
// structurally valid, unexpired refresh token that does not byte-for-byte
// match the stored value is invalid — that equality check is the revocation
// mechanism, so no blacklist is needed.
//
// # What this package must NOT do
//
//   - Expose password hashes or signing secrets through its public API.
//   - Cache role or identity state between requests: authorization decisions
//     always re-read the user record.
//   - Own transport concerns; HTTP handling lives in internal/httpapi and
//     middleware.
package credgate
