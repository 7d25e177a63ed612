package api

import (
	"encoding/json"
	"net/http"
)

// Response is the uniform result of a dispatched request. Both real backend
// responses and synthesized local failures (missing token, connection
// error) use this shape, so callers have a single code path.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte

	// RequestID is the correlation ID sent with the request.
	RequestID string

	// ErrorDetail is the extracted human-readable error message, set on
	// 401 responses and synthesized failures.
	ErrorDetail string

	// IsAuthError marks 401 responses and locally synthesized 401s.
	IsAuthError bool

	// IsNetworkError marks responses synthesized from transport failures
	// (DNS, connection refused, timeouts).
	IsNetworkError bool
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// wireError is the backend's error payload. Code is the structured
// machine-readable variant; older endpoints only fill detail or message.
type wireError struct {
	Code    string `json:"code"`
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// ParseError extracts an error message from a non-2xx response body:
// the JSON detail/message field if present, otherwise the raw text,
// otherwise fallback.
func ParseError(r *Response, fallback string) string {
	if len(r.Body) == 0 {
		if r.ErrorDetail != "" {
			return r.ErrorDetail
		}
		return fallback
	}
	var we wireError
	if err := json.Unmarshal(r.Body, &we); err == nil {
		if we.Detail != "" {
			return we.Detail
		}
		if we.Message != "" {
			return we.Message
		}
	}
	return string(r.Body)
}
