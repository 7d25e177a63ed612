package api

import "strings"

// listRoots are collection endpoints the backend serves under a trailing
// slash. Hitting them without one yields a 307 to the slashed URL, and an
// auto-followed redirect drops the Authorization header, so the path is
// repaired up front instead.
var listRoots = []string{
	"/checklists",
	"/specifications",
	"/lint-results",
}

// settingsPrefix covers the whole settings family (branding and friends),
// which all require the trailing slash.
const settingsPrefix = "/settings/"

// NormalizePath applies the backend's trailing-slash quirks to a relative
// endpoint path:
//
//   - the user profile endpoint must never carry a trailing slash (the
//     backend errors on it);
//   - settings endpoints and list-class collection roots carry exactly one
//     trailing slash, unless the path has a query string or addresses a
//     specific resource by numeric ID;
//   - everything else (action subpaths, non-numeric resource IDs) is left
//     untouched.
func NormalizePath(path string) string {
	if strings.Contains(path, "/user/profile") {
		return strings.TrimRight(path, "/")
	}
	if strings.Contains(path, "?") {
		return path
	}
	if strings.HasPrefix(path, settingsPrefix) {
		if hasNumericSuffix(path) {
			return path
		}
		return withOneSlash(path)
	}
	trimmed := strings.TrimRight(path, "/")
	for _, root := range listRoots {
		if trimmed == root {
			return withOneSlash(path)
		}
		if strings.HasPrefix(path, root+"/") && hasNumericSuffix(path) {
			return strings.TrimRight(path, "/")
		}
	}
	return path
}

func withOneSlash(path string) string {
	return strings.TrimRight(path, "/") + "/"
}

// hasNumericSuffix reports whether the last path segment is a numeric
// resource ID.
func hasNumericSuffix(path string) bool {
	trimmed := strings.TrimRight(path, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 || idx == len(trimmed)-1 {
		return false
	}
	for _, r := range trimmed[idx+1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
