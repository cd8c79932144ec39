// Package fingerprint evidence rules.
package fingerprint

import (
	"regexp"
	"strings"

	"github.com/purpleghosts/JetGhost-Suite/internal/model"
)

// Marker patterns, matched case-insensitively against a lowercased
// snippet. Kept flexible on quoting and spacing because generator
// comments vary across plugin versions.
var (
	wpcomGeneratorRe   = regexp.MustCompile(`generator\s*=\s*["']wordpress\.com["']`)
	jetpackGeneratorRe = regexp.MustCompile(`generator\s*=\s*["']?jetpack`)
	jetpackSignatureRe = regexp.MustCompile(`jetpack[_\-\s]?sitemap`)
	imageSitemapPathRe = regexp.MustCompile(`image-sitemap-\d+\.xml`)
)

// Collect runs every evidence heuristic over the target URL and the
// fetched snippet, accumulating matches on the target. Evidence is
// additive; calling Collect twice adds nothing new.
func Collect(target *model.ScanTarget, sitemapURL string, snippet []byte) {
	t := strings.ToLower(string(snippet))
	u := strings.ToLower(sitemapURL)

	if strings.Contains(t, "<urlset") || strings.Contains(t, "<sitemapindex") {
		target.AddEvidence(model.EvidenceSitemapDocument)
	}

	if wpcomGeneratorRe.MatchString(t) {
		target.AddEvidence(model.EvidenceWPComGenerator)
	}
	if jetpackGeneratorRe.MatchString(t) {
		target.AddEvidence(model.EvidenceJetpackGenerator)
	}
	if jetpackSignatureRe.MatchString(t) {
		target.AddEvidence(model.EvidenceJetpackSignature)
	}
	if imageSitemapPathRe.MatchString(u) || imageSitemapPathRe.MatchString(t) {
		target.AddEvidence(model.EvidenceImageSitemapPath)
	}

	if strings.Contains(t, "<image:") || strings.Contains(t, "sitemap-image") {
		target.AddEvidence(model.EvidenceImageNamespace)
	}
	if strings.Contains(t, "<video:") || strings.Contains(t, "sitemap-video") {
		target.AddEvidence(model.EvidenceVideoNamespace)
	}

	if strings.Contains(u, "wp-sitemap") || strings.Contains(t, "wp-sitemap") {
		target.AddEvidence(model.EvidenceCoreSitemapPath)
	}
}

// platformMarkers identify a known platform regardless of namespace use.
var platformMarkers = []model.Evidence{
	model.EvidenceWPComGenerator,
	model.EvidenceJetpackGenerator,
	model.EvidenceJetpackSignature,
	model.EvidenceImageSitemapPath,
}

// mediaNamespaces signal image/video sitemap extensions in use.
var mediaNamespaces = []model.Evidence{
	model.EvidenceImageNamespace,
	model.EvidenceVideoNamespace,
}

// Classify derives the terminal classification from accumulated evidence.
// Platform markers dominate: a marked target is JetpackLike even when it
// also uses media namespaces. Media namespaces without a marker mean an
// unidentified plugin is publishing media declarations — LikelyLeaking.
// Everything else is SelfHosted.
func Classify(target *model.ScanTarget) model.Classification {
	for _, ev := range platformMarkers {
		if target.HasEvidence(ev) {
			return model.ClassJetpackLike
		}
	}
	for _, ev := range mediaNamespaces {
		if target.HasEvidence(ev) {
			return model.ClassLikelyLeaking
		}
	}
	return model.ClassSelfHosted
}
