package naming

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	nonAlnum  = regexp.MustCompile(`[^a-z0-9-]+`)
	multiDash = regexp.MustCompile(`-+`)
)

func sanitizePart(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	value = strings.ReplaceAll(value, "_", "-")
	value = strings.ReplaceAll(value, " ", "-")
	value = strings.ReplaceAll(value, ".", "-")
	value = nonAlnum.ReplaceAllString(value, "-")
	value = multiDash.ReplaceAllString(value, "-")
	value = strings.Trim(value, "-")
	return value
}

// NormalizeStage maps stage aliases to canonical values.
//
// Canonical stages are lowercased and safe for CloudFormation stack names.
func NormalizeStage(stage string) string {
	stage = strings.ToLower(strings.TrimSpace(stage))
	switch stage {
	case "prod", "production", "live":
		return "live"
	case "dev", "development":
		return "dev"
	case "stg", "stage", "staging":
		return "stage"
	case "test", "testing":
		return "test"
	case "local":
		return "local"
	default:
		return sanitizePart(stage)
	}
}

// NormalizeDomain lowercases a domain name and strips surrounding space and trailing root dots.
func NormalizeDomain(domain string) string {
	domain = strings.TrimLeftFunc(domain, unicode.IsSpace)
	domain = strings.TrimRightFunc(domain, func(r rune) bool { return r == '.' || unicode.IsSpace(r) })
	return strings.ToLower(domain)
}

// DomainSlug turns a domain into a construct-safe slug: "www.Leafsu.cc" -> "www-leafsu-cc".
func DomainSlug(domain string) string {
	return sanitizePart(NormalizeDomain(domain))
}

// StackName returns a deterministic stack name:
// - <domain-slug>
// - <domain-slug>-<stage> (when stage is provided)
func StackName(domain, stage string) string {
	parts := []string{}
	if slug := DomainSlug(domain); slug != "" {
		parts = append(parts, slug)
	}
	if stage = NormalizeStage(stage); stage != "" {
		parts = append(parts, stage)
	}
	return strings.Join(parts, "-")
}

// ConstructID returns a stable child construct id: "SiteAliasRecord" + "www.leafsu.cc" -> "SiteAliasRecord-www-leafsu-cc".
func ConstructID(base, domain string) string {
	slug := DomainSlug(domain)
	if slug == "" {
		return base
	}
	return base + "-" + slug
}
