package tracker

import (
	"fmt"
	"strings"
)

// ConfigurationError indicates the instance URL or access token is missing.
// Network operations are impossible until the user completes setup, so callers
// surface this as an actionable prompt rather than a raw failure.
type ConfigurationError struct {
	Missing []string // setting names, e.g. "instance URL", "access token"
}

func (e *ConfigurationError) Error() string {
	return "tracker not configured: missing " + strings.Join(e.Missing, ", ")
}

// APIError is a non-2xx response from the tracker.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tracker API error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("tracker API error: HTTP %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// NotFoundError indicates a lookup with no match.
type NotFoundError struct {
	Kind string // "repository", "asset", ...
	Name string
}

func (e *NotFoundError) Error() string {
	if e.Name == "" {
		return "no " + e.Kind + " found"
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// DecodeError records an asset that could not be mapped to a typed value.
// Fetches skip such assets but report them instead of defaulting silently.
type DecodeError struct {
	AssetID string
	Field   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("asset %s: missing or malformed %q attribute", e.AssetID, e.Field)
}
