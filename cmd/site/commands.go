package main

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/jsii-runtime-go"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/theory-cloud/sitetheory"
	"github.com/theory-cloud/sitetheory/pkg/logger"
	"github.com/theory-cloud/sitetheory/pkg/observability"
	"github.com/theory-cloud/sitetheory/pkg/observability/zap"
	"github.com/theory-cloud/sitetheory/pkg/site"
)

type appOptions struct {
	configPath string
	ids        sitetheory.IDGenerator
	stdout     io.Writer
	stderr     io.Writer
}

func newApp(opts appOptions) *cli.Command {
	synth := &cli.Command{
		Name:   "synth",
		Usage:  "validate, declare and synthesize the site stack",
		Action: opts.synth,
	}
	return &cli.Command{
		Name:      "site",
		Usage:     "static site on S3 and CloudFront",
		Flags:     siteFlags(opts.configPath),
		Writer:    opts.stdout,
		ErrWriter: opts.stderr,
		Action:    opts.synth,
		Commands: []*cli.Command{
			synth,
			{
				Name:   "check",
				Usage:  "validate configuration and assets without synthesizing",
				Action: opts.check,
			},
			{
				Name:   "config",
				Usage:  "print the effective configuration as YAML",
				Action: opts.printConfig,
			},
		},
	}
}

func (o appOptions) newLogger(ctx context.Context, cmd *cli.Command) (observability.StructuredLogger, error) {
	log, err := zap.NewZapLogger(
		observability.LoggerConfig{
			Level:  cmd.String(flagLogLevel),
			Format: cmd.String(flagLogFormat),
		},
		zap.WithOutput(o.stderr),
		zap.WithEnvironmentErrorNotifications(ctx, zap.DefaultEnvironmentErrorNotifications()),
	)
	if err != nil {
		return nil, &sitetheory.ConfigError{Code: sitetheory.ErrorCodeInvalidOption, Field: "log", Message: err.Error()}
	}
	return log.WithRunID(o.ids.NewID()), nil
}

func closeLogger(ctx context.Context, log observability.StructuredLogger) {
	_ = log.Flush(ctx)
	_ = log.Close()
	logger.SetLogger(nil)
}

func (o appOptions) synth(ctx context.Context, cmd *cli.Command) error {
	log, err := o.newLogger(ctx, cmd)
	if err != nil {
		return err
	}
	logger.SetLogger(log)
	defer closeLogger(ctx, log)

	cfg, err := loadConfig(cmd, o.configPath)
	if err != nil {
		log.Error("site configuration could not be loaded", map[string]any{"error": err.Error()})
		return err
	}

	var appProps awscdk.AppProps
	if outdir := cmd.String(flagOutdir); outdir != "" {
		appProps.Outdir = jsii.String(outdir)
	}
	app := awscdk.NewApp(&appProps)

	stack, err := site.NewSiteStack(app, cfg.StackID, &site.SiteStackProps{
		StackProps: awscdk.StackProps{
			Description: jsii.String(fmt.Sprintf("Static site for %s", cfg.DomainName)),
		},
		Config: cfg,
		Logger: log,
	})
	if err != nil {
		return err
	}

	assembly := app.Synth(nil)
	log.WithStack(*stack.StackName()).Info("cloud assembly synthesized", map[string]any{
		"directory": *assembly.Directory(),
		"stacks":    len(*assembly.Stacks()),
	})
	return nil
}

func (o appOptions) check(ctx context.Context, cmd *cli.Command) error {
	log, err := o.newLogger(ctx, cmd)
	if err != nil {
		return err
	}
	defer closeLogger(ctx, log)

	cfg, err := loadConfig(cmd, o.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		log.WithStack(cfg.StackID).Warn("site configuration rejected", map[string]any{
			"codes": sitetheory.ErrorCodes(err),
		})
		return err
	}
	manifest, err := cfg.CheckAssets()
	if err != nil {
		return err
	}

	fmt.Fprintf(o.stdout, "stack:       %s\n", cfg.StackID)
	fmt.Fprintf(o.stdout, "domains:     %v\n", cfg.SiteDomains())
	fmt.Fprintf(o.stdout, "environment: %s/%s\n", cfg.Account, cfg.Region)
	fmt.Fprintf(o.stdout, "assets:      %s (%d files, %d bytes)\n", manifest.Root, manifest.Files, manifest.Bytes)
	fmt.Fprintf(o.stdout, "fingerprint: %s\n", manifest.Fingerprint)
	return nil
}

func (o appOptions) printConfig(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, o.configPath)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(o.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
