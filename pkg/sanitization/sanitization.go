package sanitization

import (
	"fmt"
	"strings"
	"unicode"
)

const redactedValue = "[REDACTED]"

// SanitizationType defines how to sanitize a field.
type SanitizationType int

const (
	FullyRedact SanitizationType = iota
	PartialMask
)

// SensitiveFields defines fields that require explicit sanitization behavior.
//
// Keys are lowercased field names.
var SensitiveFields = map[string]SanitizationType{
	"aws_secret_access_key": FullyRedact,
	"aws_session_token":     FullyRedact,
	"secret_access_key":     FullyRedact,
	"session_token":         FullyRedact,
	"password":              FullyRedact,
	"private_key":           FullyRedact,
	"authorization":         FullyRedact,

	"account":         PartialMask,
	"account_id":      PartialMask,
	"aws_account":     PartialMask,
	"aws_account_id":  PartialMask,
	"access_key_id":   PartialMask,
	"aws_access_key":  PartialMask,
	"canonical_user":  PartialMask,
	"hosted_zone_id":  PartialMask,
	"certificate_arn": PartialMask,
}

// AllowedFields bypass key-based redaction even when their name contains a blocked substring.
var AllowedFields = map[string]bool{
	"token_count": true,
}

var blockedSubstrings = []string{
	"secret",
	"token",
	"password",
	"private_key",
	"credential",
}

// SanitizeLogString removes control characters that could enable log forging.
func SanitizeLogString(value string) string {
	if value == "" {
		return value
	}
	value = strings.ReplaceAll(value, "\r", "")
	value = strings.ReplaceAll(value, "\n", "")
	return value
}

// SanitizeFieldValue sanitizes a field value based on its key name.
//
// Deterministic: the same key and value always produce the same output.
func SanitizeFieldValue(key string, value any) any {
	keyLower := strings.ToLower(strings.TrimSpace(key))
	if keyLower == "" || AllowedFields[keyLower] {
		return sanitizeValue(value)
	}

	if typ, ok := SensitiveFields[keyLower]; ok {
		if typ == PartialMask {
			return maskValue(value)
		}
		return redactedValue
	}

	for _, substr := range blockedSubstrings {
		if strings.Contains(keyLower, substr) {
			return redactedValue
		}
	}

	return sanitizeValue(value)
}

// MaskTail keeps the last n characters of value and masks the rest.
func MaskTail(value string, n int) string {
	value = strings.TrimSpace(value)
	if value == "" || n <= 0 || len(value) <= n {
		return redactedValue
	}
	return strings.Repeat("*", len(value)-n) + value[len(value)-n:]
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		return SanitizeLogString(typed)
	case []byte:
		return SanitizeLogString(string(typed))
	case bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return typed
	case []string:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = SanitizeLogString(typed[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = SanitizeFieldValue(k, v)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = SanitizeFieldValue(k, v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = sanitizeValue(typed[i])
		}
		return out
	default:
		return SanitizeLogString(fmt.Sprintf("%v", typed))
	}
}

func maskValue(value any) string {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return redactedValue
	}

	raw = SanitizeLogString(strings.TrimSpace(raw))
	// ARNs keep their resource type visible: arn:aws:acm:...:certificate/****abcd
	if strings.HasPrefix(raw, "arn:") {
		if idx := strings.LastIndexAny(raw, "/:"); idx > 0 && idx < len(raw)-1 {
			return raw[:idx+1] + MaskTail(raw[idx+1:], 4)
		}
	}
	if isDigits(raw) && len(raw) > 4 {
		return MaskTail(raw, 4)
	}
	if len(raw) > 4 {
		return "..." + raw[len(raw)-4:]
	}
	return redactedValue
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
