package model

// PatternRule identifies the generative rule that produced a candidate URL.
type PatternRule string

// Pattern rule constants, in default precedence order (most specific first).
const (
	// RuleNumericSuffix generates collision-sequence siblings for stems
	// ending in -N (photo-3.png -> photo-2.png, photo-1.png, photo.png).
	RuleNumericSuffix PatternRule = "numeric_suffix"
	// RuleSizeSuffix generates the full-resolution original and other
	// conventional renditions for WxH size-suffixed stems.
	RuleSizeSuffix PatternRule = "size_suffix"
	// RuleRedactionSuffix substitutes or removes edited/redacted marker
	// tokens (diagram-redacted.png -> diagram.png).
	RuleRedactionSuffix PatternRule = "redaction_suffix"
	// RuleRange generates the contiguous run around a zero-padded sequence
	// index (img-007.png -> img-006.png, img-008.png, ...).
	RuleRange PatternRule = "range"
)

// String returns the string representation of the PatternRule.
func (r PatternRule) String() string { return string(r) }

// IsValid returns true if this is a known rule.
func (r PatternRule) IsValid() bool {
	switch r {
	case RuleNumericSuffix, RuleSizeSuffix, RuleRedactionSuffix, RuleRange:
		return true
	default:
		return false
	}
}

// VerifyState is the existence-check state of a PatternCandidate.
// It transitions exactly once, from VerifyUnverified to a terminal state.
type VerifyState string

// Verification state constants.
const (
	// VerifyUnverified means no existence probe has been performed.
	VerifyUnverified VerifyState = ""
	// VerifyExists means a probe returned success with a media content type.
	VerifyExists VerifyState = "exists"
	// VerifyNotExists means a probe returned a definitive not-found.
	VerifyNotExists VerifyState = "not_exists"
	// VerifyError means the probe was inconclusive (timeout, 5xx,
	// ambiguous content type).
	VerifyError VerifyState = "verify_error"
)

// String returns the string representation of the VerifyState.
func (s VerifyState) String() string {
	if s == VerifyUnverified {
		return "unverified"
	}
	return string(s)
}

// Terminal returns true once the state can no longer change.
func (s VerifyState) Terminal() bool {
	return s != VerifyUnverified
}

// PatternCandidate is one predicted sibling URL derived from an observed
// media filename. Rule and Confidence are fixed at generation time;
// verification never rewrites them.
type PatternCandidate struct {
	// BaseURL is the observed URL the candidate was derived from.
	BaseURL string `json:"base_url"`

	// CandidateURL is the predicted sibling URL.
	CandidateURL string `json:"candidate_url"`

	// Rule is the generative rule that produced this candidate.
	Rule PatternRule `json:"rule"`

	// Confidence in [0,1] orders candidates; it is never used to filter.
	Confidence float64 `json:"confidence"`

	// Verified is the existence-check state. See SetVerified.
	Verified VerifyState `json:"verified,omitempty"`
}

// SetVerified transitions the candidate into a terminal verification state.
// It returns false without modifying anything when the state is already
// terminal: a candidate is probed at most once.
func (c *PatternCandidate) SetVerified(state VerifyState) bool {
	if c.Verified.Terminal() || !state.Terminal() {
		return false
	}
	c.Verified = state
	return true
}
