package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tapetrack/tapectl/internal/client/repositories/tokens"
	"github.com/tapetrack/tapectl/internal/common"
	"github.com/tapetrack/tapectl/internal/logging"
	"github.com/tapetrack/tapectl/internal/tokenx"
)

// APIPrefix is prepended to every relative endpoint path.
const APIPrefix = "/api/v1"

// noTokenDetail is the error message attached to the synthetic 401 produced
// when no stored token can be found.
const noTokenDetail = "No authentication token found. Please log in."

// Options carries per-request settings for Do.
type Options struct {
	// Body is the raw request body, if any.
	Body []byte

	// ContentType overrides the Content-Type header. When empty and Body is
	// set, application/json is assumed (multipart callers must set this to
	// the writer's FormDataContentType).
	ContentType string

	// Header holds extra request headers. Authorization set here is
	// ignored: the dispatcher owns that header.
	Header http.Header
}

// AuthFailureHandler is notified when the dispatcher decides the session is
// truly invalid: the stored credentials are already wiped when it runs, and
// the navigation layer is expected to force the login screen.
type AuthFailureHandler func(detail string)

// Dispatcher wraps the HTTP client with authentication-header injection,
// path normalization, manual redirect handling, and outcome classification.
type Dispatcher struct {
	baseURL   string
	client    *http.Client
	tokens    tokens.Repository
	log       logging.Logger
	onAuthErr AuthFailureHandler
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient replaces the underlying HTTP client. Redirect following is
// disabled on it regardless, so the single manual hop stays the only one.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) { d.client = c }
}

// WithAuthFailureHandler registers the hard-logout hook.
func WithAuthFailureHandler(h AuthFailureHandler) Option {
	return func(d *Dispatcher) { d.onAuthErr = h }
}

// New builds a Dispatcher for the backend at baseURL (scheme://host[:port],
// no path). The token repository provides the credential for every request.
func New(baseURL string, repo tokens.Repository, log logging.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		tokens:  repo,
		log:     log,
	}
	for _, opt := range opts {
		opt(d)
	}
	// Redirects are followed manually in dispatch so headers survive.
	d.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return d
}

// BuildAuthHeader produces the Authorization header value for a raw token,
// repairing values that were stored with the scheme already attached so the
// header never reads "Bearer Bearer ...".
func BuildAuthHeader(token string) string {
	return common.BearerPrefix + tokenx.StripBearer(token)
}

// Do issues an authenticated request against the relative endpoint path.
// A missing token short-circuits into a synthetic 401 without touching the
// network. A non-nil error is returned only when the request cannot be
// constructed; every other outcome, including transport failures, arrives
// as a classified *Response.
func (d *Dispatcher) Do(ctx context.Context, method, path string, opts *Options) (*Response, error) {
	token, err := d.tokens.FirstValid(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	if token == "" {
		d.log.Warn(ctx, "no token found, synthesizing auth error", "path", path)
		return &Response{
			StatusCode:  http.StatusUnauthorized,
			Status:      "401 Unauthorized",
			Body:        []byte(fmt.Sprintf(`{"detail":%q}`, noTokenDetail)),
			ErrorDetail: noTokenDetail,
			IsAuthError: true,
		}, nil
	}
	return d.dispatch(ctx, method, path, token, opts)
}

// DoAnonymous issues a request without a bearer header. It is used for the
// login endpoint, where a 401 means bad credentials rather than a broken
// session, so no classification side effects apply.
func (d *Dispatcher) DoAnonymous(ctx context.Context, method, path string, opts *Options) (*Response, error) {
	return d.dispatch(ctx, method, path, "", opts)
}

func (d *Dispatcher) dispatch(ctx context.Context, method, path, token string, opts *Options) (*Response, error) {
	if opts == nil {
		opts = &Options{}
	}

	finalPath := NormalizePath(path)
	fullURL := d.baseURL + APIPrefix + finalPath
	requestID := uuid.NewString()

	headers := make(http.Header)
	for key, values := range opts.Header {
		if strings.EqualFold(key, common.AuthorizationHeader) {
			continue
		}
		for _, v := range values {
			headers.Add(key, v)
		}
	}
	if token != "" {
		headers.Set(common.AuthorizationHeader, BuildAuthHeader(token))
	}
	if headers.Get("Content-Type") == "" {
		ct := opts.ContentType
		if ct == "" && len(opts.Body) > 0 {
			ct = "application/json"
		}
		if ct != "" {
			headers.Set("Content-Type", ct)
		}
	}
	headers.Set(common.RequestIDHeader, requestID)

	log := d.log.With("request_id", requestID, "method", method, "path", finalPath)
	log.Debug(ctx, "dispatching request", "url", fullURL, "has_auth_header", token != "")

	start := time.Now()
	resp, err := d.issue(ctx, method, fullURL, headers, opts.Body)
	if err != nil {
		log.Error(ctx, "network error", "error", err)
		detail := err.Error()
		return &Response{
			StatusCode:     http.StatusInternalServerError,
			Status:         "Network Error",
			Body:           []byte(fmt.Sprintf(`{"detail":%q}`, detail)),
			RequestID:      requestID,
			ErrorDetail:    detail,
			IsNetworkError: true,
		}, nil
	}

	// One manual redirect hop: reissue against Location with the same
	// headers, Authorization included. A redirect with no Location header
	// falls through and is returned to the caller like any other response.
	if resp.StatusCode == http.StatusTemporaryRedirect || resp.StatusCode == http.StatusPermanentRedirect {
		if location := resp.Header.Get("Location"); location != "" {
			_ = resp.Body.Close()
			redirectURL, err := resolveLocation(fullURL, location)
			if err != nil {
				return nil, fmt.Errorf("resolve redirect location: %w", err)
			}
			log.Debug(ctx, "following redirect", "from", fullURL, "to", redirectURL, "status", resp.StatusCode)
			resp, err = d.issue(ctx, method, redirectURL, headers, opts.Body)
			if err != nil {
				detail := err.Error()
				return &Response{
					StatusCode:     http.StatusInternalServerError,
					Status:         "Network Error",
					Body:           []byte(fmt.Sprintf(`{"detail":%q}`, detail)),
					RequestID:      requestID,
					ErrorDetail:    detail,
					IsNetworkError: true,
				}, nil
			}
		}
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       body,
		RequestID:  requestID,
	}
	log.Debug(ctx, "response received", "status", resp.StatusCode, "elapsed", time.Since(start))

	if out.StatusCode == http.StatusUnauthorized && token != "" {
		d.classifyAuthError(ctx, finalPath, out, log)
	}
	return out, nil
}

// issue sends one HTTP request; the body is replayed from the byte slice so
// a redirect reissue carries the identical payload.
func (d *Dispatcher) issue(ctx context.Context, method, url string, headers http.Header, body []byte) (*http.Response, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header = headers.Clone()
	return d.client.Do(req)
}

// classifyAuthError decides what a 401 means. Auth-sensitive endpoints, and
// payloads that say the token itself is bad, demote the session: every
// stored token key is wiped and the auth-failure handler runs. Data
// endpoints keep their 401 — it is the caller's permission problem, not a
// session problem.
func (d *Dispatcher) classifyAuthError(ctx context.Context, path string, resp *Response, log logging.Logger) {
	detail := ParseError(resp, "Authentication failed")
	resp.ErrorDetail = detail
	resp.IsAuthError = true

	if isAuthSensitive(path) || indicatesInvalidToken(resp.Body, detail) {
		log.Warn(ctx, "session invalid, clearing stored credentials", "detail", detail)
		if err := d.tokens.ClearAll(ctx); err != nil {
			log.Error(ctx, "failed to clear stored tokens", "error", err)
		}
		if d.onAuthErr != nil {
			d.onAuthErr(detail)
		}
		return
	}
	log.Warn(ctx, "401 on data endpoint, not logging out", "detail", detail)
}

// isAuthSensitive reports whether a 401 from this endpoint can be trusted
// to mean the session is invalid.
func isAuthSensitive(path string) bool {
	trimmed := strings.TrimRight(path, "/")
	return strings.Contains(path, "/auth/") ||
		strings.HasSuffix(trimmed, "/me") ||
		strings.Contains(path, "/user/profile")
}

// invalidTokenCodes are the structured error codes that mean the credential
// is dead. The substring heuristics below are the fallback for endpoints
// that still answer with free text.
var invalidTokenCodes = map[string]struct{}{
	"TOKEN_EXPIRED": {},
	"TOKEN_INVALID": {},
}

var invalidTokenHints = []string{"token", "expired", "invalid", "not authenticated"}

func indicatesInvalidToken(body []byte, detail string) bool {
	var we wireError
	if err := (&Response{Body: body}).Decode(&we); err == nil && we.Code != "" {
		_, ok := invalidTokenCodes[we.Code]
		return ok
	}
	lower := strings.ToLower(detail)
	for _, hint := range invalidTokenHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// resolveLocation resolves a possibly relative Location header against the
// original request URL.
func resolveLocation(base, location string) (string, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return location, nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return u.ResolveReference(ref).String(), nil
}
