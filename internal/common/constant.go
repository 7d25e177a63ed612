package common

// AuthorizationHeader is the HTTP header that carries the bearer credential
// on outbound requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix is prepended to the raw token when building the
// Authorization header value.
const BearerPrefix = "Bearer "

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// PrimaryTokenKey is the storage key the application writes the bearer
// token under.
const PrimaryTokenKey = "tapeout_token"

// LegacyTokenKeys are storage keys older builds used for the token.
// They are consulted as fallbacks on read and wiped together with the
// primary key on logout.
var LegacyTokenKeys = []string{"token", "authToken", "access_token"}

// TokenKeys returns every known token storage key, primary first.
func TokenKeys() []string {
	keys := make([]string, 0, len(LegacyTokenKeys)+1)
	keys = append(keys, PrimaryTokenKey)
	keys = append(keys, LegacyTokenKeys...)
	return keys
}
