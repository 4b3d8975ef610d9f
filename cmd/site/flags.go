package main

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/theory-cloud/sitetheory"
)

const (
	flagStackID       = "stack-id"
	flagDomainName    = "domain-name"
	flagAccount       = "account"
	flagRegion        = "region"
	flagAssetPath     = "asset-path"
	flagZoneName      = "zone-name"
	flagHostedZoneID  = "hosted-zone-id"
	flagAlternateName = "alternate-name"
	flagRedirectFrom  = "redirect-from"
	flagRemovalPolicy = "removal-policy"
	flagIPv6Alias     = "ipv6-alias"
	flagPriceClass    = "price-class"
	flagComment       = "comment"
	flagStage         = "stage"
	flagTag           = "tag"
	flagLogLevel      = "log-level"
	flagLogFormat     = "log-format"
	flagOutdir        = "outdir"
)

// siteFlags declares every setting. Scalars resolve flag, env var, YAML key, default
// in that order; list flags only override the YAML file when set.
func siteFlags(source string) []cli.Flag {
	defaults := sitetheory.DefaultConfig()
	src := altsrc.StringSourcer(source)

	return []cli.Flag{
		&cli.StringFlag{
			Name:  flagStackID,
			Usage: "CloudFormation stack name; without one a stage derives <domain>-<stage>",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SITE_STACK_ID"),
				yaml.YAML("stack_id", src),
			),
			Value: defaults.StackID,
		},
		&cli.StringFlag{
			Name:  flagDomainName,
			Usage: "public domain the site is served on",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SITE_DOMAIN_NAME"),
				yaml.YAML("domain_name", src),
			),
			Value: defaults.DomainName,
		},
		&cli.StringFlag{
			Name:  flagAccount,
			Usage: "AWS account id",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SITE_ACCOUNT"),
				yaml.YAML("account", src),
				cli.EnvVar("CDK_DEFAULT_ACCOUNT"),
			),
			Value: defaults.Account,
		},
		&cli.StringFlag{
			Name:  flagRegion,
			Usage: "AWS region; CloudFront certificates require us-east-1",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SITE_REGION"),
				yaml.YAML("region", src),
				cli.EnvVar("CDK_DEFAULT_REGION"),
			),
			Value: defaults.Region,
		},
		&cli.StringFlag{
			Name:  flagAssetPath,
			Usage: "directory of prebuilt static assets",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SITE_ASSET_PATH"),
				yaml.YAML("asset_path", src),
			),
			Value: defaults.AssetPath,
		},
		&cli.StringFlag{
			Name:  flagZoneName,
			Usage: "hosted zone holding the domain (defaults to the domain)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SITE_ZONE_NAME"),
				yaml.YAML("zone_name", src),
			),
		},
		&cli.StringFlag{
			Name:  flagHostedZoneID,
			Usage: "import the hosted zone by id instead of looking it up",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SITE_HOSTED_ZONE_ID"),
				yaml.YAML("hosted_zone_id", src),
			),
		},
		&cli.StringSliceFlag{
			Name:  flagAlternateName,
			Usage: "additional domain served by the distribution (repeatable)",
		},
		&cli.StringSliceFlag{
			Name:  flagRedirectFrom,
			Usage: "domain redirected to the site over HTTPS (repeatable)",
		},
		&cli.StringFlag{
			Name:  flagRemovalPolicy,
			Usage: "bucket removal policy: destroy or retain",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SITE_REMOVAL_POLICY"),
				yaml.YAML("removal_policy", src),
			),
			Value: defaults.RemovalPolicy,
		},
		&cli.BoolFlag{
			Name:  flagIPv6Alias,
			Usage: "also create AAAA alias records",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SITE_IPV6_ALIAS"),
				yaml.YAML("ipv6_alias", src),
			),
		},
		&cli.StringFlag{
			Name:  flagPriceClass,
			Usage: "CloudFront price class: 100, 200 or all",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SITE_PRICE_CLASS"),
				yaml.YAML("price_class", src),
			),
		},
		&cli.StringFlag{
			Name:  flagComment,
			Usage: "distribution comment",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("comment", src),
			),
		},
		&cli.StringFlag{
			Name:  flagStage,
			Usage: "deployment stage, used to derive the stack name unless stack-id is set",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SITE_STAGE"),
				yaml.YAML("stage", src),
			),
		},
		&cli.StringSliceFlag{
			Name:  flagTag,
			Usage: "stack tag as key=value (repeatable)",
		},
		&cli.StringFlag{
			Name:  flagLogLevel,
			Usage: "debug, info, warn or error",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SITE_LOG_LEVEL"),
				yaml.YAML("log.level", src),
			),
			Value: "info",
		},
		&cli.StringFlag{
			Name:  flagLogFormat,
			Usage: "json or console (defaults to json in CI)",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("SITE_LOG_FORMAT"),
				yaml.YAML("log.format", src),
			),
		},
		&cli.StringFlag{
			Name:  flagOutdir,
			Usage: "cloud assembly output directory",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("CDK_OUTDIR"),
			),
		},
	}
}
