// Package tokenx implements client-side checks on the stored bearer token.
//
// None of these checks are authoritative: the backend is the source of truth
// for token validity. They exist so the client can refuse obviously broken
// values ("undefined" written to storage by a buggy build, an empty string)
// before putting them on the wire, and so UI code can warn about imminent
// expiry. A token that cannot be decoded is deliberately NOT treated as
// expired — opaque API keys are valid credentials too.
package tokenx

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiryBuffer is subtracted from the exp claim when deciding whether
// a token is about to expire.
const DefaultExpiryBuffer = 60 * time.Second

// placeholders are literal values that mean "no token". They end up in
// storage when a null/undefined value is stringified before persisting.
var placeholders = map[string]struct{}{
	"":          {},
	"undefined": {},
	"null":      {},
}

// IsPlaceholder reports whether the value must be treated as an absent
// token: empty, whitespace-only, or one of the known junk literals.
func IsPlaceholder(token string) bool {
	_, ok := placeholders[strings.TrimSpace(token)]
	return ok
}

// StripBearer removes a leading "Bearer " prefix, repairing tokens that were
// stored with the header scheme already attached.
func StripBearer(token string) string {
	return strings.TrimPrefix(token, "Bearer ")
}

// decode parses the token without verifying its signature and returns the
// registered claims. Returns false when the value is not a decodable JWT.
func decode(token string) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// ExpiresAt returns the token's expiration time. The second return value is
// false when the token is not a JWT or carries no exp claim.
func ExpiresAt(token string) (time.Time, bool) {
	claims, ok := decode(token)
	if !ok {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// IsExpired reports whether the token is expired or will expire within
// buffer. Placeholder values are always expired. Tokens that cannot be
// decoded, or that carry no exp claim, are reported as not expired so the
// backend gets to decide.
func IsExpired(token string, buffer time.Duration) bool {
	if IsPlaceholder(token) {
		return true
	}
	exp, ok := ExpiresAt(token)
	if !ok {
		return false
	}
	return time.Now().Add(buffer).After(exp)
}

// TimeUntilExpiry returns the remaining token lifetime. The second return
// value is false when no expiry is known.
func TimeUntilExpiry(token string) (time.Duration, bool) {
	exp, ok := ExpiresAt(token)
	if !ok {
		return 0, false
	}
	return time.Until(exp), true
}

// Result is the outcome of Validate.
type Result struct {
	Valid  bool
	Reason string
}

// Validate performs the syntactic pre-flight check used by the navigation
// guard. Placeholders are invalid; everything else is accepted, possibly
// with an advisory reason, because only the backend can truly reject a
// credential.
func Validate(token string) Result {
	if IsPlaceholder(token) {
		return Result{Valid: false, Reason: "token is missing or invalid"}
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		return Result{Valid: true, Reason: "non-standard token format, backend will validate"}
	}
	if IsExpired(token, DefaultExpiryBuffer) {
		return Result{Valid: true, Reason: "token may be expired, backend will validate"}
	}
	return Result{Valid: true}
}
