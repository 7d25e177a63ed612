// Package cli implements the interactive TapeTrack client.
//
// The client is a read–eval–print loop over the domain stores. Screens are
// addressed like SPA routes ("go /projects"); a navigation guard decides
// whether the target screen needs a live session and redirects to the
// login screen when it does.
package cli
