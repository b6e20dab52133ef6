package library

import (
	"fmt"
	"strings"
)

// SchemaError reports a malformed or incomplete library document at load
// time. It is fatal: the loader never produces a partially valid table.
type SchemaError struct {
	Platform string // empty for top-level document errors
	Field    string
	Reason   string
}

func (e *SchemaError) Error() string {
	if e.Platform == "" {
		return fmt.Sprintf("library schema error: field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("library schema error: platform %q field %q: %s", e.Platform, e.Field, e.Reason)
}

// UnknownPlatformError reports a lookup for a platform identifier absent from
// the rule table. The message lists every known identifier so callers can
// surface an actionable "unsupported platform" response.
type UnknownPlatformError struct {
	Platform string
	Known    []string
}

func (e *UnknownPlatformError) Error() string {
	return fmt.Sprintf("platform %q not found, available platforms: %s",
		e.Platform, strings.Join(e.Known, ", "))
}
