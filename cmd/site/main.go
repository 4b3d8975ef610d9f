// Command site is the CDK app entrypoint for the static site stack and a small
// operator CLI around it.
//
//	site [synth]   validate, declare and synthesize the cloud assembly
//	site check     validate configuration and assets without synthesizing
//	site config    print the effective configuration as YAML
//
// Settings come from flags, then SITE_* environment variables, then the YAML
// file named by SITE_CONFIG (default site.yaml).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/sitetheory"
)

const (
	exitOK          = 0
	exitConfigError = 1
	exitFailure     = 2
)

const defaultConfigFile = "site.yaml"

func main() {
	code := run(context.Background(), os.Args, os.Stdout, os.Stderr)
	jsii.Close()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := newApp(appOptions{
		configPath: configPath(),
		ids:        &sitetheory.ULIDGenerator{},
		stdout:     stdout,
		stderr:     stderr,
	})
	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(stderr, err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case sitetheory.IsConfigError(err), errors.Is(err, errConfigFile):
		return exitConfigError
	default:
		return exitFailure
	}
}

// configPath returns SITE_CONFIG, or site.yaml when unset.
func configPath() string {
	if path := strings.TrimSpace(os.Getenv("SITE_CONFIG")); path != "" {
		return path
	}
	return defaultConfigFile
}
