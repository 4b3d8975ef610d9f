package sanitization

import (
	"testing"

	"pgregory.net/rapid"
)

func TestSanitizeLogString_StripsCRLF(t *testing.T) {
	got := SanitizeLogString("a\r\nb\nc\rd")
	if got != "abcd" {
		t.Fatalf("expected abcd, got %q", got)
	}
}

func TestSanitizeFieldValue_RedactsSecrets(t *testing.T) {
	for _, key := range []string{"aws_secret_access_key", "AWS_SESSION_TOKEN", "github_token", "db_password", "client_secret", "credentials"} {
		if got := SanitizeFieldValue(key, "value"); got != redactedValue {
			t.Fatalf("%s: expected redaction, got %#v", key, got)
		}
	}
	if got := SanitizeFieldValue("token_count", 3); got != 3 {
		t.Fatalf("allowed field rewritten: %#v", got)
	}
}

func TestSanitizeFieldValue_MasksAccountAndArn(t *testing.T) {
	if got := SanitizeFieldValue("account", "446708209687"); got != "********9687" {
		t.Fatalf("account mask: %#v", got)
	}
	if got := SanitizeFieldValue("hosted_zone_id", "Z0123456789ABC"); got != "...9ABC" {
		t.Fatalf("zone mask: %#v", got)
	}
	got := SanitizeFieldValue("certificate_arn", "arn:aws:acm:us-east-1:446708209687:certificate/1234-abcd")
	if got != "arn:aws:acm:us-east-1:446708209687:certificate/*****abcd" {
		t.Fatalf("arn mask: %#v", got)
	}
	if got := SanitizeFieldValue("account", 12); got != redactedValue {
		t.Fatalf("non-string account should be redacted: %#v", got)
	}
	if got := SanitizeFieldValue("account", "123"); got != redactedValue {
		t.Fatalf("short account should be redacted: %#v", got)
	}
}

func TestSanitizeFieldValue_Nested(t *testing.T) {
	got, ok := SanitizeFieldValue("config", map[string]any{
		"domain":  "leafsu.cc\n",
		"account": "446708209687",
		"tags":    map[string]string{"api_token": "x", "team": "web"},
		"sans":    []string{"www.leafsu.cc\r"},
		"enabled": true,
	}).(map[string]any)
	if !ok {
		t.Fatal("expected map")
	}
	if got["domain"] != "leafsu.cc" || got["account"] != "********9687" || got["enabled"] != true {
		t.Fatalf("unexpected nested sanitization: %#v", got)
	}
	tags := got["tags"].(map[string]any)
	if tags["api_token"] != redactedValue || tags["team"] != "web" {
		t.Fatalf("unexpected tag sanitization: %#v", tags)
	}
	if sans := got["sans"].([]any); sans[0] != "www.leafsu.cc" {
		t.Fatalf("unexpected slice sanitization: %#v", sans)
	}
}

func TestMaskTail(t *testing.T) {
	if got := MaskTail("abcdef", 2); got != "****ef" {
		t.Fatalf("MaskTail: %q", got)
	}
	if got := MaskTail("ab", 2); got != redactedValue {
		t.Fatalf("MaskTail short: %q", got)
	}
}

func TestSanitizeLogString_NeverLeavesLineBreaks(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.String().Draw(t, "in")
		out := SanitizeLogString(in)
		for _, r := range out {
			if r == '\r' || r == '\n' {
				t.Fatalf("line break survived in %q", out)
			}
		}
	})
}
