// Package site declares the static website topology: a private S3 bucket served
// through CloudFront over HTTPS on a custom domain, with DNS and asset upload.
package site

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscertificatemanager"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfront"
	"github.com/aws/aws-cdk-go/awscdk/v2/awscloudfrontorigins"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53patterns"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsroute53targets"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3deployment"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/theory-cloud/sitetheory"
	"github.com/theory-cloud/sitetheory/pkg/assets"
	"github.com/theory-cloud/sitetheory/pkg/logger"
	"github.com/theory-cloud/sitetheory/pkg/naming"
	"github.com/theory-cloud/sitetheory/pkg/observability"
)

// Construct ids. Logical ids in the template derive from these, so they must not change.
const (
	HostedZoneID           = "HostedZone"
	OriginAccessIdentityID = "cloudfront-OAI"
	BucketID               = "SiteBucket"
	CertificateID          = "SiteCertificate"
	DistributionID         = "SiteDistribution"
	AliasRecordID          = "SiteAliasRecord"
	Ipv6AliasRecordID      = "SiteIpv6AliasRecord"
	DeploymentID           = "BucketDeployment"
	RedirectID             = "SiteRedirect"
)

// InvalidationPaths is invalidated on every deployment.
var InvalidationPaths = []string{"/*"}

// SiteStackProps configures NewSiteStack.
//
// Env is always derived from Config; any Env set on StackProps is replaced.
type SiteStackProps struct {
	awscdk.StackProps

	Config sitetheory.Config
	Logger observability.StructuredLogger
}

// SiteStack is the declared site. Optional members are nil when not configured.
type SiteStack struct {
	awscdk.Stack

	Config sitetheory.Config

	Zone                 awsroute53.IHostedZone
	OriginAccessIdentity awscloudfront.OriginAccessIdentity
	Bucket               awss3.Bucket
	Certificate          awscertificatemanager.Certificate
	Distribution         awscloudfront.Distribution
	AliasRecord          awsroute53.ARecord
	Deployment           awss3deployment.BucketDeployment

	// AlternateAliasRecords holds one A record per subject alternative name.
	AlternateAliasRecords []awsroute53.ARecord
	Ipv6AliasRecords      []awsroute53.AaaaRecord
	Redirect              awsroute53patterns.HttpsRedirect
}

// NewSiteStack validates props.Config and declares the site under scope.
//
// Configuration problems are returned before any construct is created, as a
// joined error of *sitetheory.ConfigError values.
func NewSiteStack(scope constructs.Construct, id string, props *SiteStackProps) (*SiteStack, error) {
	if props == nil {
		props = &SiteStackProps{Config: sitetheory.DefaultConfig()}
	}
	cfg := props.Config.Normalize()
	if id == "" {
		id = cfg.StackID
	}

	log := logger.Or(props.Logger).WithStack(id)

	if err := cfg.Validate(); err != nil {
		log.Error("site configuration rejected", map[string]any{
			"codes": sitetheory.ErrorCodes(err),
		})
		return nil, err
	}
	manifest, err := cfg.CheckAssets()
	if err != nil {
		log.Error("site assets rejected", map[string]any{
			"asset_path": cfg.AssetPath,
			"error":      err.Error(),
		})
		return nil, err
	}
	log.Info("declaring site", map[string]any{
		"domain_name":       cfg.DomainName,
		"account":           cfg.Account,
		"region":            cfg.Region,
		"hosted_zone_id":    cfg.HostedZoneID,
		"asset_files":       manifest.Files,
		"asset_bytes":       manifest.Bytes,
		"asset_fingerprint": manifest.Fingerprint,
	})

	stackProps := props.StackProps
	stackProps.Env = &awscdk.Environment{
		Account: jsii.String(cfg.Account),
		Region:  jsii.String(cfg.Region),
	}
	stack := awscdk.NewStack(scope, jsii.String(id), &stackProps)

	s := &SiteStack{Stack: stack, Config: cfg}
	s.Zone = hostedZone(stack, cfg)

	s.OriginAccessIdentity = awscloudfront.NewOriginAccessIdentity(stack, jsii.String(OriginAccessIdentityID), &awscloudfront.OriginAccessIdentityProps{
		Comment: jsii.String(fmt.Sprintf("OAI for %s", id)),
	})

	s.Bucket = awss3.NewBucket(stack, jsii.String(BucketID), &awss3.BucketProps{
		BucketName:        jsii.String(cfg.DomainName),
		PublicReadAccess:  jsii.Bool(false),
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
		RemovalPolicy:     removalPolicy(cfg.RemovalPolicy),
	})
	s.Bucket.AddToResourcePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions:   jsii.Strings("s3:GetObject"),
		Resources: &[]*string{s.Bucket.ArnForObjects(jsii.String("*"))},
		Principals: &[]awsiam.IPrincipal{
			awsiam.NewCanonicalUserPrincipal(s.OriginAccessIdentity.CloudFrontOriginAccessIdentityS3CanonicalUserId()),
		},
	}))

	s.Certificate = awscertificatemanager.NewCertificate(stack, jsii.String(CertificateID), &awscertificatemanager.CertificateProps{
		DomainName:              jsii.String(cfg.DomainName),
		SubjectAlternativeNames: optionalStrings(cfg.SubjectAlternativeNames),
		Validation:              awscertificatemanager.CertificateValidation_FromDns(s.Zone),
	})

	s.Distribution = awscloudfront.NewDistribution(stack, jsii.String(DistributionID), &awscloudfront.DistributionProps{
		Certificate:            s.Certificate,
		DefaultRootObject:      jsii.String(assets.IndexDocument),
		DomainNames:            jsii.Strings(cfg.SiteDomains()...),
		MinimumProtocolVersion: awscloudfront.SecurityPolicyProtocol_TLS_V1_2_2021,
		PriceClass:             priceClass(cfg.PriceClass),
		Comment:                optionalString(cfg.Comment),
		DefaultBehavior: &awscloudfront.BehaviorOptions{
			Origin: awscloudfrontorigins.S3BucketOrigin_WithOriginAccessIdentity(s.Bucket, &awscloudfrontorigins.S3BucketOriginWithOAIProps{
				OriginAccessIdentity: s.OriginAccessIdentity,
			}),
			Compress:             jsii.Bool(true),
			AllowedMethods:       awscloudfront.AllowedMethods_ALLOW_GET_HEAD_OPTIONS(),
			ViewerProtocolPolicy: awscloudfront.ViewerProtocolPolicy_REDIRECT_TO_HTTPS,
		},
	})

	target := awsroute53.RecordTarget_FromAlias(awsroute53targets.NewCloudFrontTarget(s.Distribution))
	for i, domain := range cfg.SiteDomains() {
		recordID := AliasRecordID
		if i > 0 {
			recordID = naming.ConstructID(AliasRecordID, domain)
		}
		record := awsroute53.NewARecord(stack, jsii.String(recordID), &awsroute53.ARecordProps{
			RecordName: jsii.String(domain),
			Target:     target,
			Zone:       s.Zone,
		})
		if i == 0 {
			s.AliasRecord = record
		} else {
			s.AlternateAliasRecords = append(s.AlternateAliasRecords, record)
		}

		if !cfg.IPv6Alias {
			continue
		}
		ipv6ID := Ipv6AliasRecordID
		if i > 0 {
			ipv6ID = naming.ConstructID(Ipv6AliasRecordID, domain)
		}
		s.Ipv6AliasRecords = append(s.Ipv6AliasRecords, awsroute53.NewAaaaRecord(stack, jsii.String(ipv6ID), &awsroute53.AaaaRecordProps{
			RecordName: jsii.String(domain),
			Target:     target,
			Zone:       s.Zone,
		}))
	}

	if len(cfg.RedirectFrom) > 0 {
		s.Redirect = awsroute53patterns.NewHttpsRedirect(stack, jsii.String(RedirectID), &awsroute53patterns.HttpsRedirectProps{
			RecordNames:  jsii.Strings(cfg.RedirectFrom...),
			TargetDomain: jsii.String(cfg.DomainName),
			Zone:         s.Zone,
		})
	}

	s.Deployment = awss3deployment.NewBucketDeployment(stack, jsii.String(DeploymentID), &awss3deployment.BucketDeploymentProps{
		Sources:           &[]awss3deployment.ISource{awss3deployment.Source_Asset(jsii.String(cfg.AssetPath), nil)},
		DestinationBucket: s.Bucket,
		Distribution:      s.Distribution,
		DistributionPaths: jsii.Strings(InvalidationPaths...),
	})

	s.addOutputs()
	for _, key := range cfg.TagKeys() {
		awscdk.Tags_Of(stack).Add(jsii.String(key), jsii.String(cfg.Tags[key]), nil)
	}

	log.Debug("site declared", map[string]any{
		"domains":   cfg.SiteDomains(),
		"redirects": cfg.RedirectFrom,
		"ipv6":      cfg.IPv6Alias,
	})
	return s, nil
}

func (s *SiteStack) addOutputs() {
	awscdk.NewCfnOutput(s.Stack, jsii.String("BucketName"), &awscdk.CfnOutputProps{
		Value: s.Bucket.BucketName(),
	})
	awscdk.NewCfnOutput(s.Stack, jsii.String("DistributionId"), &awscdk.CfnOutputProps{
		Value: s.Distribution.DistributionId(),
	})
	awscdk.NewCfnOutput(s.Stack, jsii.String("DistributionDomainName"), &awscdk.CfnOutputProps{
		Value: s.Distribution.DistributionDomainName(),
	})
	awscdk.NewCfnOutput(s.Stack, jsii.String("SiteUrl"), &awscdk.CfnOutputProps{
		Value: jsii.String("https://" + s.Config.DomainName),
	})
}

// hostedZone imports the zone by id when one is configured, otherwise looks it up by name.
func hostedZone(scope constructs.Construct, cfg sitetheory.Config) awsroute53.IHostedZone {
	if cfg.HostedZoneID != "" {
		return awsroute53.HostedZone_FromHostedZoneAttributes(scope, jsii.String(HostedZoneID), &awsroute53.HostedZoneAttributes{
			HostedZoneId: jsii.String(cfg.HostedZoneID),
			ZoneName:     jsii.String(cfg.ZoneName),
		})
	}
	return awsroute53.HostedZone_FromLookup(scope, jsii.String(HostedZoneID), &awsroute53.HostedZoneProviderProps{
		DomainName: jsii.String(cfg.ZoneName),
	})
}

func removalPolicy(policy string) awscdk.RemovalPolicy {
	if policy == sitetheory.RemovalPolicyRetain {
		return awscdk.RemovalPolicy_RETAIN
	}
	return awscdk.RemovalPolicy_DESTROY
}

func priceClass(class string) awscloudfront.PriceClass {
	switch class {
	case sitetheory.PriceClass100:
		return awscloudfront.PriceClass_PRICE_CLASS_100
	case sitetheory.PriceClass200:
		return awscloudfront.PriceClass_PRICE_CLASS_200
	case sitetheory.PriceClassAll:
		return awscloudfront.PriceClass_PRICE_CLASS_ALL
	default:
		return ""
	}
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return jsii.String(value)
}

func optionalStrings(values []string) *[]*string {
	if len(values) == 0 {
		return nil
	}
	return jsii.Strings(values...)
}
