// Package sitemap vendor fingerprinting.
package sitemap

import (
	"bytes"
	"strings"

	"github.com/purpleghosts/JetGhost-Suite/internal/model"
)

// DetectVendor fingerprints the generator of a sitemap document from its
// raw text. The checks run in specificity order: core WordPress sitemaps
// are recognized structurally, WordPress.com and Jetpack by generator
// markers, then SEO plugins by their branding comments.
//
// A document with image/video namespace elements but no recognizable
// marker still comes back VendorUnknown; presence of the namespaces alone
// does not identify who wrote the file.
func DetectVendor(data []byte) model.Vendor {
	t := strings.ToLower(string(bytes.ToValidUTF8(data, nil)))

	// Core WP ships urlsets under wp-sitemap routes and never embeds
	// image or video extensions.
	if strings.Contains(t, "<urlset") && strings.Contains(t, "wp-sitemap") {
		return model.VendorCore
	}

	if strings.Contains(t, `generator="wordpress.com"`) {
		return model.VendorWPCom
	}
	if strings.Contains(t, "jetpack") {
		return model.VendorJetpack
	}

	if strings.Contains(t, "yoast") {
		return model.VendorYoast
	}
	if strings.Contains(t, "rank math") || strings.Contains(t, "rank-math") {
		return model.VendorRankMath
	}
	if strings.Contains(t, "all in one seo") || strings.Contains(t, "aioseo") {
		return model.VendorAIOSEO
	}
	if strings.Contains(t, "seopress") {
		return model.VendorSEOPress
	}

	return model.VendorUnknown
}
