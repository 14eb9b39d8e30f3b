// Package jwt mints and validates the two token kinds credgate issues:
// short-lived access tokens and long-lived refresh tokens.
//
// # Design
//
// Both kinds are HS256-signed with independent secrets held in [Config].
// Parsing pins the algorithm, requires an expiry claim, and classifies every
// failure as either [ErrTokenExpired] or [ErrTokenMalformed]; a token
// presented against the wrong purpose's secret is malformed, never valid.
//
// The clock is injectable through Config.TimeFunc so expiry boundaries can
// be tested against a simulated clock.
package jwt
