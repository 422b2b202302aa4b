// Package extclient implements the blocking HTTP boundary to the
// external Dung-framework extension-enumeration service that
// spec.md §6 describes as an out-of-scope collaborator. The engine in
// pkg/aspic hands this package an argument set and a defeat relation;
// this package is solely responsible for the wire format and the
// "fall back to grounded" behaviour when the service omits the
// requested semantics.
package extclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// ErrUnavailable is returned when the transport itself fails (refused
// connection, timeout, non-2xx status). It is never returned just
// because the response omits the requested semantics — that case
// falls back to "grounded" per spec.md §7.
var ErrUnavailable = errors.New("extclient: extension service unavailable")

// DefaultURL is the endpoint the original ASPIC+ reference
// implementation hardcodes.
const DefaultURL = "http://ws.arg.tech/e/dom"

// Request is the solver input contract of spec.md §6.
type Request struct {
	Arguments []string
	// Attacks holds "(attacker,target)" strings, lexicographically
	// ordered by (attacker,target) per spec.md §5.
	Attacks   []string
	Semantics string
}

// Result is what a Client.Solve call hands back to the engine:
// the semantics actually used (which may be "grounded" if the
// requested one was absent from the response) and a mapping from
// extension id to the argument labels it contains.
type Result struct {
	Semantics  string
	Extensions map[string][]string
}

// Client resolves a Request against the external extension service.
type Client interface {
	Solve(ctx context.Context, req Request) (Result, error)
}

// HTTPClient is the production Client: a single blocking POST per
// spec.md §5 ("the only suspension point is the outbound call to the
// extension service; that call is a blocking request-response with no
// streaming").
type HTTPClient struct {
	URL        string
	Timeout    time.Duration
	httpClient *http.Client
}

// NewHTTPClient returns a client targeting url (DefaultURL if empty)
// with the given request timeout.
func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		URL:        url,
		Timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Solve(ctx context.Context, req Request) (Result, error) {
	payload, err := json.Marshal(map[string]any{
		"arguments": req.Arguments,
		"attacks":   req.Attacks,
		"semantics": req.Semantics,
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: encoding request: %v", ErrUnavailable, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("%w: building request: %v", ErrUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	return parseResponse(raw, req.Semantics), nil
}

// parseResponse navigates the dynamic response shape with gjson rather
// than a fixed struct: response[semantics] is either a list of label
// lists (multiple extensions) or a single flat label list (one
// extension), and the semantics key itself may simply be absent, in
// which case spec.md §7 mandates falling back to "grounded".
func parseResponse(raw []byte, requested string) Result {
	semantics := requested
	val := gjson.GetBytes(raw, gjsonKey(semantics))
	if !val.Exists() {
		semantics = "grounded"
		val = gjson.GetBytes(raw, gjsonKey(semantics))
	}

	extensions := map[string][]string{}
	if !val.IsArray() {
		return Result{Semantics: semantics, Extensions: extensions}
	}

	arr := val.Array()
	allNested := len(arr) > 0
	for _, el := range arr {
		if !el.IsArray() {
			allNested = false
			break
		}
	}

	if allNested {
		for i, el := range arr {
			extensions[strconv.Itoa(i)] = labelsOf(el)
		}
	} else {
		extensions["0"] = labelsOf(val)
	}

	return Result{Semantics: semantics, Extensions: extensions}
}

func labelsOf(v gjson.Result) []string {
	arr := v.Array()
	labels := make([]string, len(arr))
	for i, el := range arr {
		labels[i] = el.String()
	}
	return labels
}

// gjsonKey escapes a semantics name for use as a gjson path segment by
// putting a backslash before every byte that is not a letter, digit,
// '_' or '-'; none of the four ASPIC+ semantics names need escaping, but
// this keeps the lookup correct if a custom semantics name ever contains
// a gjson path metacharacter.
func gjsonKey(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		safe := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-'
		if !safe {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}
