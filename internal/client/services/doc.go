// Package services holds the domain stores of the client: one store per
// backend resource family (projects, specifications, checklists, companies,
// vendors, branding, metadata).
//
// Each store keeps its last-fetched collection in memory behind a mutex,
// exposes a loading flag and the last error detail, and goes through the
// api.Dispatcher for every request. Writes follow a reload-after-write
// policy: a successful mutation refetches the authoritative state instead
// of patching the local copy from the request payload.
package services
