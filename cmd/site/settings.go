package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/theory-cloud/sitetheory"
)

var errConfigFile = errors.New("config file")

// fileConfig is the YAML file layout: site settings at the top level plus a log block.
type fileConfig struct {
	sitetheory.Config `yaml:",inline"`

	Log struct {
		Level  string `yaml:"level,omitempty"`
		Format string `yaml:"format,omitempty"`
	} `yaml:"log,omitempty"`
}

// readConfigFile decodes path strictly. A missing file is only an error when required.
func readConfigFile(path string, required bool) (fileConfig, error) {
	var out fileConfig
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return out, nil
		}
		return out, fmt.Errorf("%w %s: %w", errConfigFile, path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return out, fmt.Errorf("%w %s: %w", errConfigFile, path, err)
	}
	return out, nil
}

// loadConfig resolves the effective site configuration for cmd.
//
// Lists and tags come from the YAML file unless their flags are set; every scalar
// resolves through its flag's source chain.
func loadConfig(cmd *cli.Command, path string) (sitetheory.Config, error) {
	file, err := readConfigFile(path, os.Getenv("SITE_CONFIG") != "")
	if err != nil {
		return sitetheory.Config{}, err
	}

	cfg := file.Config
	cfg.StackID = cmd.String(flagStackID)
	cfg.DomainName = cmd.String(flagDomainName)
	cfg.Account = cmd.String(flagAccount)
	cfg.Region = cmd.String(flagRegion)
	cfg.AssetPath = cmd.String(flagAssetPath)
	cfg.ZoneName = cmd.String(flagZoneName)
	cfg.HostedZoneID = cmd.String(flagHostedZoneID)
	cfg.RemovalPolicy = cmd.String(flagRemovalPolicy)
	cfg.IPv6Alias = cmd.Bool(flagIPv6Alias)
	cfg.PriceClass = cmd.String(flagPriceClass)
	cfg.Comment = cmd.String(flagComment)
	cfg.Stage = cmd.String(flagStage)
	if cfg.Stage != "" && !cmd.IsSet(flagStackID) {
		// An empty id makes Normalize derive <domain>-<stage>.
		cfg.StackID = ""
	}

	if cmd.IsSet(flagAlternateName) {
		cfg.SubjectAlternativeNames = cmd.StringSlice(flagAlternateName)
	}
	if cmd.IsSet(flagRedirectFrom) {
		cfg.RedirectFrom = cmd.StringSlice(flagRedirectFrom)
	}
	for _, pair := range cmd.StringSlice(flagTag) {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return sitetheory.Config{}, &sitetheory.ConfigError{
				Code:    sitetheory.ErrorCodeInvalidOption,
				Field:   "tag",
				Message: fmt.Sprintf("%q must be key=value", pair),
			}
		}
		if cfg.Tags == nil {
			cfg.Tags = map[string]string{}
		}
		cfg.Tags[key] = value
	}

	return cfg.Normalize(), nil
}
