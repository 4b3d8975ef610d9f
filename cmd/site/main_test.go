package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/theory-cloud/sitetheory"
	"github.com/theory-cloud/sitetheory/testkit"
)

var siteEnv = []string{
	"SITE_CONFIG", "SITE_STACK_ID", "SITE_DOMAIN_NAME", "SITE_ACCOUNT", "SITE_REGION",
	"SITE_ASSET_PATH", "SITE_ZONE_NAME", "SITE_HOSTED_ZONE_ID", "SITE_REMOVAL_POLICY",
	"SITE_IPV6_ALIAS", "SITE_PRICE_CLASS", "SITE_STAGE", "SITE_LOG_LEVEL", "SITE_LOG_FORMAT",
	"CDK_DEFAULT_ACCOUNT", "CDK_DEFAULT_REGION", "CDK_OUTDIR",
	"SITE_ERROR_NOTIFICATIONS_TOPIC_ARN", "ERROR_NOTIFICATIONS_TOPIC_ARN",
}

// cleanEnv unsets every variable the CLI reads; t.Setenv restores them afterwards.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, key := range siteEnv {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

type harness struct {
	ids    *testkit.ManualIDGenerator
	stdout bytes.Buffer
	stderr bytes.Buffer
	path   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cleanEnv(t)
	return &harness{
		ids:  testkit.NewManualIDGenerator(),
		path: filepath.Join(t.TempDir(), "site.yaml"),
	}
}

func (h *harness) run(args ...string) error {
	app := newApp(appOptions{
		configPath: h.path,
		ids:        h.ids,
		stdout:     &h.stdout,
		stderr:     &h.stderr,
	})
	return app.Run(context.Background(), append([]string{"site"}, args...))
}

func (h *harness) writeConfig(t *testing.T, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(h.path, []byte(body), 0o600))
}

func (h *harness) printedConfig(t *testing.T) sitetheory.Config {
	t.Helper()
	var cfg sitetheory.Config
	require.NoError(t, yaml.Unmarshal(h.stdout.Bytes(), &cfg))
	return cfg
}

func TestConfigCommand_Defaults(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("config"))

	require.Equal(t, sitetheory.DefaultConfig().Normalize(), h.printedConfig(t))
	require.Contains(t, h.stdout.String(), "stack_id: LeafSucc")
}

func TestConfigCommand_Layers(t *testing.T) {
	h := newHarness(t)
	h.writeConfig(t, `
stack_id: ExampleSite
domain_name: www.example.com
zone_name: example.com
account: "123456789012"
hosted_zone_id: /hostedzone/Z999
subject_alternative_names:
  - blog.example.com
tags:
  team: web
log:
  level: debug
`)
	t.Setenv("SITE_ACCOUNT", "210987654321")

	require.NoError(t, h.run("--redirect-from", "old.example.com", "--tag", "owner=ops", "config"))

	cfg := h.printedConfig(t)
	require.Equal(t, "ExampleSite", cfg.StackID)
	require.Equal(t, "www.example.com", cfg.DomainName)
	require.Equal(t, "example.com", cfg.ZoneName)
	require.Equal(t, "210987654321", cfg.Account, "env beats the file")
	require.Equal(t, "Z999", cfg.HostedZoneID)
	require.Equal(t, []string{"blog.example.com"}, cfg.SubjectAlternativeNames)
	require.Equal(t, []string{"old.example.com"}, cfg.RedirectFrom)
	require.Equal(t, map[string]string{"team": "web", "owner": "ops"}, cfg.Tags)
	require.Equal(t, "us-east-1", cfg.Region)
}

func TestConfigCommand_CDKDefaultsAreLastResort(t *testing.T) {
	h := newHarness(t)
	t.Setenv("CDK_DEFAULT_ACCOUNT", "999999999999")
	require.NoError(t, h.run("config"))
	require.Equal(t, "999999999999", h.printedConfig(t).Account)

	h = newHarness(t)
	t.Setenv("CDK_DEFAULT_ACCOUNT", "999999999999")
	h.writeConfig(t, "account: \"123456789012\"\n")
	require.NoError(t, h.run("config"))
	require.Equal(t, "123456789012", h.printedConfig(t).Account)
}

func TestConfigCommand_StageDerivesStackName(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("--stage", "prod", "config"))
	require.Equal(t, "leafsu-cc-live", h.printedConfig(t).StackID)

	h = newHarness(t)
	t.Setenv("SITE_STAGE", "dev")
	h.writeConfig(t, "stack_id: Pinned\n")
	require.NoError(t, h.run("config"))
	cfg := h.printedConfig(t)
	require.Equal(t, "Pinned", cfg.StackID)
	require.Equal(t, "dev", cfg.Stage)

	h = newHarness(t)
	require.NoError(t, h.run("--stage", "dev", "--stack-id", "Explicit", "config"))
	require.Equal(t, "Explicit", h.printedConfig(t).StackID)
}

func TestConfigCommand_RejectsUnknownKeys(t *testing.T) {
	h := newHarness(t)
	h.writeConfig(t, "domian_name: typo.example.com\n")

	err := h.run("config")
	require.ErrorIs(t, err, errConfigFile)
	require.Equal(t, exitConfigError, exitCode(err))
}

func TestConfigCommand_RejectsMalformedTag(t *testing.T) {
	h := newHarness(t)
	err := h.run("--tag", "no-equals", "config")
	require.Equal(t, []string{sitetheory.ErrorCodeInvalidOption}, sitetheory.ErrorCodes(err))
}

func TestCheckCommand(t *testing.T) {
	h := newHarness(t)
	t.Setenv("SITE_ASSET_PATH", testkit.SiteAssets(t, map[string]string{"app.js": "1"}))

	require.NoError(t, h.run("--log-format", "json", "check"))
	out := h.stdout.String()
	require.Contains(t, out, "stack:       LeafSucc")
	require.Contains(t, out, "domains:     [leafsu.cc]")
	require.Contains(t, out, "(2 files, ")
	require.Contains(t, out, "fingerprint: ")
}

func TestCheckCommand_ConfigErrors(t *testing.T) {
	h := newHarness(t)
	t.Setenv("SITE_ASSET_PATH", testkit.SiteAssets(t, nil))

	err := h.run("--log-format", "json", "--account", "123", "check")
	require.Equal(t, []string{sitetheory.ErrorCodeInvalidAccount}, sitetheory.ErrorCodes(err))
	require.Equal(t, exitConfigError, exitCode(err))
	require.Contains(t, h.stderr.String(), "site configuration rejected")

	h = newHarness(t)
	t.Setenv("SITE_ASSET_PATH", t.TempDir())
	err = h.run("--log-format", "json", "check")
	require.Equal(t, []string{sitetheory.ErrorCodeMissingIndex}, sitetheory.ErrorCodes(err))
}

func TestSynthCommand_WritesAssembly(t *testing.T) {
	h := newHarness(t)
	h.ids.Queue("01JSITE0000000000000000000")
	outdir := t.TempDir()
	t.Setenv("SITE_ASSET_PATH", testkit.SiteAssets(t, nil))
	t.Setenv("SITE_HOSTED_ZONE_ID", "Z0123456789")

	require.NoError(t, h.run("--log-format", "json", "--outdir", outdir))

	template, err := os.ReadFile(filepath.Join(outdir, "LeafSucc.template.json"))
	require.NoError(t, err)
	require.Contains(t, string(template), "AWS::CloudFront::Distribution")
	require.Contains(t, string(template), "Custom::CDKBucketDeployment")
	require.Contains(t, string(template), "Static site for leafsu.cc")

	logs := h.stderr.String()
	require.Contains(t, logs, `"run_id":"01JSITE0000000000000000000"`)
	require.Contains(t, logs, "cloud assembly synthesized")
	require.NotContains(t, logs, "446708209687", "account ids are masked in logs")
}

func TestSynthCommand_ExplicitSubcommand(t *testing.T) {
	h := newHarness(t)
	outdir := t.TempDir()
	t.Setenv("SITE_ASSET_PATH", testkit.SiteAssets(t, nil))
	t.Setenv("SITE_HOSTED_ZONE_ID", "Z0123456789")
	t.Setenv("CDK_OUTDIR", outdir)

	require.NoError(t, h.run("--log-format", "json", "synth"))
	_, err := os.Stat(filepath.Join(outdir, "manifest.json"))
	require.NoError(t, err)
}

func TestSynthCommand_ConfigErrorDeclaresNothing(t *testing.T) {
	h := newHarness(t)
	outdir := t.TempDir()
	t.Setenv("SITE_ASSET_PATH", testkit.SiteAssets(t, nil))

	err := h.run("--log-format", "json", "--outdir", outdir, "--region", "eu-west-1")
	require.Equal(t, []string{sitetheory.ErrorCodeInvalidRegion}, sitetheory.ErrorCodes(err))
	require.Equal(t, exitConfigError, exitCode(err))

	_, statErr := os.Stat(filepath.Join(outdir, "LeafSucc.template.json"))
	require.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestSynthCommand_BadLogLevel(t *testing.T) {
	h := newHarness(t)
	err := h.run("--log-level", "loud")
	require.Equal(t, exitConfigError, exitCode(err))
}

func TestRun_ExitCodes(t *testing.T) {
	cleanEnv(t)
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("unknown_key: 1\n"), 0o600))
	t.Setenv("SITE_CONFIG", path)

	var stdout, stderr bytes.Buffer
	require.Equal(t, exitConfigError, run(context.Background(), []string{"site", "config"}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "unknown_key")

	t.Setenv("SITE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	stderr.Reset()
	require.Equal(t, exitConfigError, run(context.Background(), []string{"site", "config"}, &stdout, &stderr))
}

func TestExitCode(t *testing.T) {
	require.Equal(t, exitOK, exitCode(nil))
	require.Equal(t, exitConfigError, exitCode(fmt.Errorf("wrap: %w", &sitetheory.ConfigError{Code: sitetheory.ErrorCodeInvalidDomain})))
	require.Equal(t, exitConfigError, exitCode(fmt.Errorf("%w site.yaml: bad", errConfigFile)))
	require.Equal(t, exitFailure, exitCode(errors.New("jsii kernel crashed")))
}

func TestConfigPath(t *testing.T) {
	cleanEnv(t)
	require.Equal(t, "site.yaml", configPath())
	t.Setenv("SITE_CONFIG", "/etc/site/prod.yaml")
	require.Equal(t, "/etc/site/prod.yaml", configPath())
}
