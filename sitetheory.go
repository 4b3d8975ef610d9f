// Package sitetheory declares a static website on AWS: a private S3 bucket served
// through a CloudFront distribution with an ACM certificate and a Route 53 alias.
//
// The root package holds the site configuration and its validation. The resource
// graph itself lives in pkg/site; cmd/site is the CDK app entrypoint.
package sitetheory
