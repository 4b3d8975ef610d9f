package sitetheory

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/theory-cloud/sitetheory/pkg/assets"
	"github.com/theory-cloud/sitetheory/pkg/naming"
)

// CertificateRegion is the only region whose ACM certificates CloudFront accepts.
const CertificateRegion = "us-east-1"

const (
	RemovalPolicyDestroy = "destroy"
	RemovalPolicyRetain  = "retain"
)

const (
	PriceClass100 = "100"
	PriceClass200 = "200"
	PriceClassAll = "all"
)

const maxDomainLength = 253

var (
	domainLabel = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)
	accountID   = regexp.MustCompile(`^[0-9]{12}$`)
)

// Config is everything a site declaration needs. It is plain data: the declaration
// reads it and never consults the environment on its own.
type Config struct {
	StackID    string `json:"stack_id" yaml:"stack_id"`
	DomainName string `json:"domain_name" yaml:"domain_name"`
	Account    string `json:"account" yaml:"account"`
	Region     string `json:"region" yaml:"region"`
	AssetPath  string `json:"asset_path" yaml:"asset_path"`

	// ZoneName is the hosted zone holding DomainName; defaults to DomainName.
	ZoneName string `json:"zone_name,omitempty" yaml:"zone_name,omitempty"`
	// HostedZoneID imports the zone by id instead of looking it up by name.
	HostedZoneID string `json:"hosted_zone_id,omitempty" yaml:"hosted_zone_id,omitempty"`

	SubjectAlternativeNames []string `json:"subject_alternative_names,omitempty" yaml:"subject_alternative_names,omitempty"`
	RedirectFrom            []string `json:"redirect_from,omitempty" yaml:"redirect_from,omitempty"`

	// RemovalPolicy is kept at destroy for the default site: teardown deletes the bucket.
	RemovalPolicy string `json:"removal_policy" yaml:"removal_policy"`
	IPv6Alias     bool   `json:"ipv6_alias,omitempty" yaml:"ipv6_alias,omitempty"`
	PriceClass    string `json:"price_class,omitempty" yaml:"price_class,omitempty"`
	Comment       string `json:"comment,omitempty" yaml:"comment,omitempty"`

	Stage string            `json:"stage,omitempty" yaml:"stage,omitempty"`
	Tags  map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// DefaultConfig returns the leafsu.cc site.
func DefaultConfig() Config {
	return Config{
		StackID:       "LeafSucc",
		DomainName:    "leafsu.cc",
		Account:       "446708209687",
		Region:        CertificateRegion,
		AssetPath:     "../build",
		RemovalPolicy: RemovalPolicyDestroy,
	}
}

// Normalize returns a copy with whitespace trimmed, domains lowercased and defaults filled.
func (c Config) Normalize() Config {
	out := c
	out.DomainName = naming.NormalizeDomain(c.DomainName)
	out.ZoneName = naming.NormalizeDomain(c.ZoneName)
	if out.ZoneName == "" {
		out.ZoneName = out.DomainName
	}
	out.Account = strings.TrimSpace(c.Account)
	out.Region = strings.ToLower(strings.TrimSpace(c.Region))
	out.AssetPath = strings.TrimSpace(c.AssetPath)
	out.HostedZoneID = strings.TrimPrefix(strings.TrimSpace(c.HostedZoneID), "/hostedzone/")
	out.RemovalPolicy = strings.ToLower(strings.TrimSpace(c.RemovalPolicy))
	if out.RemovalPolicy == "" {
		out.RemovalPolicy = RemovalPolicyDestroy
	}
	out.PriceClass = strings.ToLower(strings.TrimSpace(c.PriceClass))
	out.Stage = naming.NormalizeStage(c.Stage)
	out.StackID = strings.TrimSpace(c.StackID)
	if out.StackID == "" {
		out.StackID = naming.StackName(out.DomainName, out.Stage)
	}
	out.Comment = strings.TrimSpace(c.Comment)
	out.SubjectAlternativeNames = normalizeDomains(c.SubjectAlternativeNames)
	out.RedirectFrom = normalizeDomains(c.RedirectFrom)
	if len(c.Tags) > 0 {
		out.Tags = make(map[string]string, len(c.Tags))
		for k, v := range c.Tags {
			if k = strings.TrimSpace(k); k != "" {
				out.Tags[k] = strings.TrimSpace(v)
			}
		}
	}
	return out
}

func normalizeDomains(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, d := range in {
		if d = naming.NormalizeDomain(d); d != "" {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Validate checks every static field and returns all problems joined, or nil.
//
// It does not touch the filesystem; see CheckAssets.
func (c Config) Validate() error {
	var errs []error
	add := func(err *ConfigError) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	add(validateDomain("domain_name", c.DomainName))
	if c.ZoneName != "" && c.ZoneName != c.DomainName {
		add(validateDomain("zone_name", c.ZoneName))
	}
	if c.DomainName != "" && !inZone(c.DomainName, c.zone()) {
		add(configError(ErrorCodeInvalidDomain, "domain_name", errorMessageOutsideZone))
	}

	if c.StackID == "" {
		add(configError(ErrorCodeInvalidOption, "stack_id", errorMessageRequired))
	}

	switch {
	case c.Account == "":
		add(configError(ErrorCodeInvalidAccount, "account", errorMessageRequired))
	case !accountID.MatchString(c.Account):
		add(configError(ErrorCodeInvalidAccount, "account", errorMessageAccountDigits))
	}

	switch {
	case c.Region == "":
		add(configError(ErrorCodeInvalidRegion, "region", errorMessageRequired))
	case c.Region != CertificateRegion:
		add(configError(ErrorCodeInvalidRegion, "region", errorMessageCertificateRegion))
	}

	if c.AssetPath == "" {
		add(configError(ErrorCodeInvalidAssetPath, "asset_path", errorMessageRequired))
	}

	switch c.RemovalPolicy {
	case RemovalPolicyDestroy, RemovalPolicyRetain:
	default:
		add(configError(ErrorCodeInvalidRemovalPolicy, "removal_policy", fmt.Sprintf("must be %q or %q", RemovalPolicyDestroy, RemovalPolicyRetain)))
	}

	switch c.PriceClass {
	case "", PriceClass100, PriceClass200, PriceClassAll:
	default:
		add(configError(ErrorCodeInvalidOption, "price_class", fmt.Sprintf("must be %q, %q or %q", PriceClass100, PriceClass200, PriceClassAll)))
	}

	seen := map[string]bool{c.DomainName: true}
	// Site domains get per-domain record ids, so their slugs must differ too.
	slugs := map[string]string{naming.DomainSlug(c.DomainName): c.DomainName}
	for _, list := range []struct {
		field   string
		domains []string
	}{
		{"subject_alternative_names", c.SubjectAlternativeNames},
		{"redirect_from", c.RedirectFrom},
	} {
		for _, d := range list.domains {
			field := list.field + "[" + d + "]"
			if err := validateDomain(field, d); err != nil {
				add(err)
				continue
			}
			if seen[d] {
				add(configError(ErrorCodeInvalidDomain, field, errorMessageDuplicateDomain))
				continue
			}
			seen[d] = true
			if !inZone(d, c.zone()) {
				add(configError(ErrorCodeInvalidDomain, field, errorMessageOutsideZone))
				continue
			}
			if list.field != "subject_alternative_names" {
				continue
			}
			slug := naming.DomainSlug(d)
			if other, ok := slugs[slug]; ok {
				add(configError(ErrorCodeInvalidDomain, field, fmt.Sprintf("%s %s", errorMessageSlugCollision, other)))
				continue
			}
			slugs[slug] = d
		}
	}

	for _, k := range c.TagKeys() {
		if strings.HasPrefix(strings.ToLower(k), "aws:") {
			add(configError(ErrorCodeInvalidOption, "tags["+k+"]", "uses the reserved aws: prefix"))
		}
	}

	return errors.Join(errs...)
}

// CheckAssets verifies the asset directory and returns its manifest.
func (c Config) CheckAssets() (assets.Manifest, error) {
	manifest, err := assets.Inspect(c.AssetPath)
	switch {
	case err == nil:
		return manifest, nil
	case errors.Is(err, assets.ErrNotFound):
		return assets.Manifest{}, configError(ErrorCodeInvalidAssetPath, "asset_path", errorMessageAssetsMissing)
	case errors.Is(err, assets.ErrNotDirectory):
		return assets.Manifest{}, configError(ErrorCodeInvalidAssetPath, "asset_path", errorMessageAssetsNotDir)
	case errors.Is(err, assets.ErrMissingIndex):
		return assets.Manifest{}, configError(ErrorCodeMissingIndex, "asset_path", errorMessageAssetsNoIndex)
	default:
		return assets.Manifest{}, fmt.Errorf("inspect assets: %w", err)
	}
}

// TagKeys returns tag keys in sorted order.
func (c Config) TagKeys() []string {
	keys := make([]string, 0, len(c.Tags))
	for k := range c.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SiteDomains returns the primary domain followed by any subject alternative names.
func (c Config) SiteDomains() []string {
	return append([]string{c.DomainName}, c.SubjectAlternativeNames...)
}

func (c Config) zone() string {
	if c.ZoneName != "" {
		return c.ZoneName
	}
	return c.DomainName
}

func inZone(domain, zone string) bool {
	return domain == zone || strings.HasSuffix(domain, "."+zone)
}

func validateDomain(field, domain string) *ConfigError {
	if domain == "" {
		return configError(ErrorCodeInvalidDomain, field, errorMessageRequired)
	}
	if strings.Contains(domain, "*") {
		return configError(ErrorCodeInvalidDomain, field, errorMessageWildcardDomain)
	}
	if len(domain) > maxDomainLength {
		return configError(ErrorCodeInvalidDomain, field, errorMessageMalformedDomain)
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return configError(ErrorCodeInvalidDomain, field, errorMessageMalformedDomain)
	}
	for _, label := range labels {
		if !domainLabel.MatchString(label) {
			return configError(ErrorCodeInvalidDomain, field, errorMessageMalformedDomain)
		}
	}
	return nil
}
