// Package auth resolves the caller's identity from a bearer token.
//
// Tokens are HMAC-SHA256 JWTs signed with a shared secret. The user is read
// from the uid claim, or from the subject when it holds a UUID. Accounts,
// passwords and token refresh are handled by the identity provider that
// issues the tokens; this package only validates them.
package auth
