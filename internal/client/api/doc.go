// Package api contains the authenticated HTTP request layer for the
// TapeTrack backend.
//
// # Overview
//
// The package provides:
//  1. A Dispatcher that wraps net/http: it resolves the bearer token from
//     the local token repository, builds a well-formed Authorization
//     header, normalizes endpoint paths, follows 307/308 redirects
//     manually so the header survives the hop, and classifies every
//     outcome (success, auth error, network error) into one uniform
//     Response shape.
//  2. Response helpers to decode JSON bodies and extract human-readable
//     error details from backend error payloads.
//
// # Error handling
//
// The Dispatcher never returns a transport error for conditions a caller
// can render: a missing token becomes a synthetic 401 with IsAuthError
// set, and a connection failure becomes a synthetic response with
// IsNetworkError set. A non-nil error from Do means the request could not
// even be constructed.
//
// A 401 on an auth-sensitive endpoint (login, /me, the user profile), or
// one whose error payload indicates the token itself is bad, wipes every
// stored token key and notifies the registered auth-failure handler so
// the navigation layer can force the login screen. A 401 on a data
// endpoint is returned to the caller untouched: it usually means a
// permission problem on an otherwise valid session.
package api
