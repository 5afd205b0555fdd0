package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrConnection means the request never got an HTTP response.
	ErrConnection = errors.New("connection error")

	// ErrMalformedResponse means a successful status came with a non-JSON body.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is a rejection reported by the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// AsAPIError unwraps an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorMessage extracts a human message from an error body. It looks at
// message, then error, then errors given as a list or as a field map.
func errorMessage(raw []byte, fallback string) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return fallback
	}

	for _, key := range []string{"message", "error"} {
		var s string
		if err := json.Unmarshal(body[key], &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
	}

	if errs, ok := body["errors"]; ok {
		if msg := flatten(errs); msg != "" {
			return msg
		}
	}
	return fallback
}

func flatten(raw json.RawMessage) string {
	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		return joinValues(list)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err == nil {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		values := make([]any, 0, len(fields))
		for _, k := range keys {
			values = append(values, fields[k])
		}
		return joinValues(values)
	}
	return ""
}

func joinValues(values []any) string {
	var parts []string
	for _, v := range values {
		switch t := v.(type) {
		case string:
			parts = append(parts, t)
		case []any:
			if s := joinValues(t); s != "" {
				parts = append(parts, s)
			}
		case map[string]any:
			if msg, ok := t["msg"].(string); ok {
				parts = append(parts, msg)
			} else if msg, ok := t["message"].(string); ok {
				parts = append(parts, msg)
			}
		case nil:
		default:
			parts = append(parts, fmt.Sprint(t))
		}
	}
	return strings.Join(parts, ", ")
}
