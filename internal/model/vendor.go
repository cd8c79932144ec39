package model

// vendorUnknownStr is the string representation for unknown vendors.
const vendorUnknownStr = "unknown"

// Vendor is the sitemap generator fingerprinted from the root document.
// It decides which leak phases apply and whether the Jetpack-only gates pass.
type Vendor string

// Vendor constants.
const (
	// VendorUnknown represents an unrecognized sitemap flavor.
	VendorUnknown Vendor = ""
	// VendorWPCom represents WordPress.com hosted sitemaps.
	VendorWPCom Vendor = "wpcom"
	// VendorJetpack represents self-hosted WordPress with Jetpack sitemaps.
	VendorJetpack Vendor = "jetpack"
	// VendorYoast represents Yoast SEO sitemaps.
	VendorYoast Vendor = "yoast"
	// VendorRankMath represents Rank Math sitemaps.
	VendorRankMath Vendor = "rank-math"
	// VendorAIOSEO represents All in One SEO sitemaps.
	VendorAIOSEO Vendor = "aioseo"
	// VendorSEOPress represents SEOPress sitemaps.
	VendorSEOPress Vendor = "seopress"
	// VendorCore represents core WordPress wp-sitemap documents, which
	// carry no image/video extensions but do enumerate attachments.
	VendorCore Vendor = "core"
)

// String returns the string representation of the Vendor.
func (v Vendor) String() string {
	if v == VendorUnknown {
		return vendorUnknownStr
	}
	return string(v)
}

// IsJetpackFamily returns true for the WordPress.com / Jetpack vendors the
// advisory gates target.
func (v Vendor) IsJetpackFamily() bool {
	return v == VendorWPCom || v == VendorJetpack
}
