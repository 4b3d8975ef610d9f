package sitetheory

import (
	"errors"
	"fmt"
	"sort"
)

// ConfigError is a configuration problem detected before any construct is declared.
//
// Code is stable and safe to match on; Field names the offending configuration key.
type ConfigError struct {
	Code    string
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s %s", e.Code, e.Field, e.Message)
}

func configError(code, field, message string) *ConfigError {
	return &ConfigError{Code: code, Field: field, Message: message}
}

// IsConfigError reports whether err (or anything it wraps or joins) is a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// ErrorCodes returns the sorted, de-duplicated codes of every *ConfigError in err.
func ErrorCodes(err error) []string {
	seen := map[string]bool{}
	collectCodes(err, seen)
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for code := range seen {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func collectCodes(err error, seen map[string]bool) {
	if err == nil {
		return
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) && cfgErr != nil {
		seen[cfgErr.Code] = true
	}
	switch wrapped := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range wrapped.Unwrap() {
			collectCodes(inner, seen)
		}
	case interface{ Unwrap() error }:
		collectCodes(wrapped.Unwrap(), seen)
	}
}
