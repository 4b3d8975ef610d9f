package sitetheory

const (
	ErrorCodeInvalidDomain        = "site.invalid_domain"
	ErrorCodeInvalidAccount       = "site.invalid_account"
	ErrorCodeInvalidRegion        = "site.invalid_region"
	ErrorCodeInvalidAssetPath     = "site.invalid_asset_path"
	ErrorCodeMissingIndex         = "site.missing_index"
	ErrorCodeInvalidRemovalPolicy = "site.invalid_removal_policy"
	ErrorCodeInvalidOption        = "site.invalid_option"
)

const (
	errorMessageRequired          = "is required"
	errorMessageMalformedDomain   = "is not a valid domain name"
	errorMessageWildcardDomain    = "must not be a wildcard"
	errorMessageAccountDigits     = "must be a 12 digit account id"
	errorMessageCertificateRegion = "must be us-east-1: CloudFront only accepts certificates issued there"
	errorMessageAssetsMissing     = "does not exist"
	errorMessageAssetsNotDir      = "is not a directory"
	errorMessageAssetsNoIndex     = "does not contain index.html"
	errorMessageOutsideZone       = "is not inside the hosted zone"
	errorMessageDuplicateDomain   = "is listed more than once"
	errorMessageSlugCollision     = "maps to the same record id as"
)
