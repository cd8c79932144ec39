// Package pattern candidate generation.
package pattern

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/purpleghosts/JetGhost-Suite/internal/model"
)

// Generation bounds. The numeric rule's backward walk is capped so one
// highly-numbered observation cannot flood the candidate list; nearest
// siblings come first anyway.
const (
	defaultForwardWindow  = 3
	defaultBackwardWindow = 25
	defaultRangeWindow    = 5
)

// defaultModifiers are the marker tokens the redaction rule recognizes,
// in substitution order. Privacy markers lead because an unredacted
// counterpart is the most valuable find.
var defaultModifiers = []string{
	"redacted", "censored", "anonymized", "anonymised", "masked",
	"obfuscated", "pixelated", "blur", "blurred",
	"cropped", "crop", "trimmed", "resized", "edited", "edit",
	"final", "draft",
}

// conventionalSizes are thumbnail suffixes WordPress installs generate by
// default, probed by the size rule alongside the bare full-resolution stem.
var conventionalSizes = []string{
	"150x150", "300x200", "300x300", "768x512", "1024x768",
}

var (
	plainNumberRe = regexp.MustCompile(`^[1-9]\d*$`)
	paddedRe      = regexp.MustCompile(`^0\d+$`)
	dimensionsRe  = regexp.MustCompile(`^\d{1,5}x\d{1,5}$`)
)

// defaultPriority orders rules by specificity.
var defaultPriority = []model.PatternRule{
	model.RuleNumericSuffix,
	model.RuleSizeSuffix,
	model.RuleRedactionSuffix,
	model.RuleRange,
}

// Generator produces sibling URL candidates for observed media URLs.
type Generator struct {
	forwardWindow  int
	backwardWindow int
	rangeWindow    int
	modifiers      []string
	priority       []model.PatternRule
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithForwardWindow sets how many indices past the observed one the
// numeric rule probes.
func WithForwardWindow(n int) GeneratorOption {
	return func(g *Generator) {
		if n >= 0 {
			g.forwardWindow = n
		}
	}
}

// WithRangeWindow sets the half-width of the padded-sequence run.
func WithRangeWindow(n int) GeneratorOption {
	return func(g *Generator) {
		if n >= 0 {
			g.rangeWindow = n
		}
	}
}

// DefaultModifiers returns a copy of the marker tokens the redaction rule
// recognizes by default, for callers that extend the set through
// WithModifiers.
func DefaultModifiers() []string {
	return append([]string{}, defaultModifiers...)
}

// WithModifiers replaces the marker tokens the redaction rule matches.
func WithModifiers(tokens []string) GeneratorOption {
	return func(g *Generator) {
		if len(tokens) > 0 {
			g.modifiers = tokens
		}
	}
}

// WithRulePriority reorders rule specificity, which drives confidence and
// therefore candidate ordering. Rules left out keep their default order
// after the listed ones.
func WithRulePriority(rules ...model.PatternRule) GeneratorOption {
	return func(g *Generator) {
		listed := make(map[model.PatternRule]bool, len(rules))
		priority := make([]model.PatternRule, 0, len(defaultPriority))
		for _, r := range rules {
			if !listed[r] {
				listed[r] = true
				priority = append(priority, r)
			}
		}
		for _, r := range defaultPriority {
			if !listed[r] {
				priority = append(priority, r)
			}
		}
		g.priority = priority
	}
}

// NewGenerator creates a Generator with default windows and markers.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		forwardWindow:  defaultForwardWindow,
		backwardWindow: defaultBackwardWindow,
		rangeWindow:    defaultRangeWindow,
		modifiers:      defaultModifiers,
		priority:       defaultPriority,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// decomposed is a media URL split for recombination.
type decomposed struct {
	dir  string // through the final slash
	stem string // filename without extension
	ext  string // including the dot
}

// decompose splits an absolute media URL. Returns false when there is no
// usable filename.
func decompose(observedURL string) (decomposed, bool) {
	trimmed := observedURL
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	slash := strings.LastIndexByte(trimmed, '/')
	if slash < 0 || slash == len(trimmed)-1 {
		return decomposed{}, false
	}

	base := trimmed[slash+1:]
	ext := path.Ext(base)
	if ext == "" || ext == base {
		return decomposed{}, false
	}

	return decomposed{
		dir:  trimmed[:slash+1],
		stem: strings.TrimSuffix(base, ext),
		ext:  ext,
	}, true
}

// Generate produces the ordered candidate sequence for one observed URL.
// Candidates are ordered by confidence (rule specificity, then proximity
// to the observed index) and deduplicated; the observed URL itself is
// never a candidate. A URL no rule matches yields an empty sequence.
func (g *Generator) Generate(observedURL string) []model.PatternCandidate {
	d, ok := decompose(observedURL)
	if !ok {
		return nil
	}

	var candidates []model.PatternCandidate
	seen := map[string]bool{observedURL: true}

	emit := func(rule model.PatternRule, stem string, distance int) {
		if stem == "" {
			return
		}
		candidateURL := d.dir + stem + d.ext
		if seen[candidateURL] {
			return
		}
		seen[candidateURL] = true
		candidates = append(candidates, model.PatternCandidate{
			BaseURL:      observedURL,
			CandidateURL: candidateURL,
			Rule:         rule,
			Confidence:   g.confidence(rule, distance),
		})
	}

	for _, rule := range g.priority {
		switch rule {
		case model.RuleNumericSuffix:
			g.applyNumeric(d.stem, emit)
		case model.RuleSizeSuffix:
			g.applySize(d.stem, emit)
		case model.RuleRedactionSuffix:
			g.applyRedaction(d.stem, emit)
		case model.RuleRange:
			g.applyRange(d.stem, emit)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return candidates
}

// confidence maps a rule's priority rank and the candidate's index
// distance to an ordering score. The proximity penalty is capped below
// the gap between ranks so rules never interleave.
func (g *Generator) confidence(rule model.PatternRule, distance int) float64 {
	rank := 0
	for i, r := range g.priority {
		if r == rule {
			rank = i
			break
		}
	}

	base := 0.95 - 0.2*float64(rank)
	penalty := 0.005 * float64(distance)
	if penalty > 0.15 {
		penalty = 0.15
	}
	return base - penalty
}

type emitFunc func(rule model.PatternRule, stem string, distance int)

// applyNumeric handles collision-sequence suffixes: photo-3 implies
// photo-2, photo-1, photo and a short forward run.
func (g *Generator) applyNumeric(stem string, emit emitFunc) {
	tokens := strings.Split(stem, "-")
	last := tokens[len(tokens)-1]
	if !plainNumberRe.MatchString(last) {
		return
	}
	n, err := strconv.Atoi(last)
	if err != nil {
		return
	}

	bare := strings.Join(tokens[:len(tokens)-1], "-")
	if bare == "" {
		return
	}

	low := n - g.backwardWindow
	if low < 1 {
		low = 1
	}
	for i := n - 1; i >= low; i-- {
		emit(model.RuleNumericSuffix, fmt.Sprintf("%s-%d", bare, i), n-i)
	}
	emit(model.RuleNumericSuffix, bare, n)
	for i := n + 1; i <= n+g.forwardWindow; i++ {
		emit(model.RuleNumericSuffix, fmt.Sprintf("%s-%d", bare, i), i-n)
	}
}

// applySize handles WxH thumbnail suffixes: the bare stem is the
// full-resolution original, the conventional sizes are its siblings.
func (g *Generator) applySize(stem string, emit emitFunc) {
	tokens := strings.Split(stem, "-")
	last := tokens[len(tokens)-1]
	if !dimensionsRe.MatchString(last) {
		return
	}

	bare := strings.Join(tokens[:len(tokens)-1], "-")
	if bare == "" {
		return
	}

	emit(model.RuleSizeSuffix, bare, 0)
	for i, size := range conventionalSizes {
		if size == last {
			continue
		}
		emit(model.RuleSizeSuffix, bare+"-"+size, i+1)
	}
}

// applyRedaction handles marker tokens: contract-redacted implies
// contract and the sibling marker spellings. The rightmost marker token
// is the one substituted.
func (g *Generator) applyRedaction(stem string, emit emitFunc) {
	tokens := strings.Split(stem, "-")

	found := -1
	for i := len(tokens) - 1; i >= 0; i-- {
		if g.isModifier(tokens[i]) {
			found = i
			break
		}
	}
	if found < 0 {
		return
	}

	without := append(append([]string{}, tokens[:found]...), tokens[found+1:]...)
	bare := strings.Join(without, "-")
	emit(model.RuleRedactionSuffix, bare, 0)

	marker := strings.ToLower(tokens[found])
	distance := 1
	for _, sibling := range g.modifiers {
		if sibling == marker {
			continue
		}
		substituted := append([]string{}, tokens...)
		substituted[found] = sibling
		emit(model.RuleRedactionSuffix, strings.Join(substituted, "-"), distance)
		distance++
	}
}

func (g *Generator) isModifier(token string) bool {
	lower := strings.ToLower(token)
	for _, m := range g.modifiers {
		if lower == m {
			return true
		}
	}
	return false
}

// applyRange handles zero-padded sequences: scan-007 implies the padded
// run around 7, nearest indices first.
func (g *Generator) applyRange(stem string, emit emitFunc) {
	tokens := strings.Split(stem, "-")
	last := tokens[len(tokens)-1]
	if !paddedRe.MatchString(last) {
		return
	}
	n, err := strconv.Atoi(last)
	if err != nil {
		return
	}

	bare := strings.Join(tokens[:len(tokens)-1], "-")
	if bare == "" {
		return
	}
	width := len(last)

	for d := 1; d <= g.rangeWindow; d++ {
		if n-d >= 0 {
			emit(model.RuleRange, fmt.Sprintf("%s-%0*d", bare, width, n-d), d)
		}
		emit(model.RuleRange, fmt.Sprintf("%s-%0*d", bare, width, n+d), d)
	}
}
