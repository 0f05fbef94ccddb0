// Package http serves the ledger as server-rendered HTML driven by HTMX.
//
// This file holds the request parsing helpers shared by the handlers. Bodies
// may be form-encoded (HTMX default) or JSON (hx-ext json-enc, API clients).

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"finman/internal/presenter"
)

// maxBodyBytes bounds request bodies; entry forms are tiny.
const maxBodyBytes = 64 << 10

// noSelection is the index used when the request names no row.
const noSelection = -1

// RequestBodyParser handles different content types for request body parsing.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]interface{}
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing. Bodies over
// maxBodyBytes fail with *http.MaxBytesError rather than being cut short.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.IsJSONContent() || p.body[0] == '{' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.jsonData = nil
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// TooLarge reports whether the body exceeded maxBodyBytes.
func (p *RequestBodyParser) TooLarge() bool {
	var maxErr *http.MaxBytesError
	return errors.As(p.err, &maxErr)
}

// Get returns a trimmed, sanitized value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	return strings.TrimSpace(p.Raw(key))
}

// Raw returns a value with control characters removed but surrounding
// whitespace kept.
func (p *RequestBodyParser) Raw(key string) string {
	return sanitizeInput(p.Value(key))
}

// Value returns a value exactly as submitted.
func (p *RequestBodyParser) Value(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return stringValue(val)
		}
		return ""
	}
	if p.formData != nil {
		return p.formData.Get(key)
	}
	return ""
}

// IsJSONContent reports whether the request declared a JSON body.
func (p *RequestBodyParser) IsJSONContent() bool {
	return strings.HasPrefix(strings.ToLower(p.contentType), "application/json")
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ParseEntryForm reads the kind, category and amount inputs. Category and
// amount are passed on exactly as typed; the ledger decides what is valid.
func ParseEntryForm(p *RequestBodyParser) presenter.Form {
	return presenter.Form{
		Kind:     p.Get("kind"),
		Category: p.Value("category"),
		Amount:   p.Value("amount"),
	}
}

// ParseSelection reads the selected row index. A missing or malformed value
// means nothing is selected.
func ParseSelection(p *RequestBodyParser) int {
	v := p.Get("index")
	if v == "" {
		return noSelection
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return noSelection
	}
	return i
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireGET is a convenience function for read-only handlers.
func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet, http.MethodHead)
}

// isHTMX reports whether the request came from htmx rather than a plain
// form submission.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
