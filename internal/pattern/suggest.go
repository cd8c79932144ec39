package pattern

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/purpleghosts/JetGhost-Suite/internal/model"
)

// series collects the observed indices of one numbered filename family:
// same directory, same bare stem, same extension.
type series struct {
	dir     string
	bare    string
	ext     string
	first   string // earliest observed member URL
	width   int    // widest zero-padded index seen, 0 for unpadded
	indices map[int]bool
}

// SuggestGaps groups observed media URLs into numbered series and returns
// candidates for the indices missing inside each series' observed span.
// A series needs at least two observed members; one numbered file proves
// no sequence. Candidates carry the Range rule, keep the padding width of
// the observed members, and are ordered by series first appearance, then
// ascending index.
func SuggestGaps(observedURLs []string) []model.PatternCandidate {
	groups := make(map[string]*series)
	var order []string

	for _, raw := range observedURLs {
		d, ok := decompose(raw)
		if !ok {
			continue
		}
		tokens := strings.Split(d.stem, "-")
		last := tokens[len(tokens)-1]
		if !plainNumberRe.MatchString(last) && !paddedRe.MatchString(last) {
			continue
		}
		n, err := strconv.Atoi(last)
		if err != nil {
			continue
		}
		bare := strings.Join(tokens[:len(tokens)-1], "-")
		if bare == "" {
			continue
		}

		key := d.dir + bare + d.ext
		s, seen := groups[key]
		if !seen {
			s = &series{dir: d.dir, bare: bare, ext: d.ext, first: raw, indices: make(map[int]bool)}
			groups[key] = s
			order = append(order, key)
		}
		s.indices[n] = true
		if paddedRe.MatchString(last) && len(last) > s.width {
			s.width = len(last)
		}
	}

	var candidates []model.PatternCandidate
	for _, key := range order {
		s := groups[key]
		if len(s.indices) < 2 {
			continue
		}

		observed := make([]int, 0, len(s.indices))
		for n := range s.indices {
			observed = append(observed, n)
		}
		sort.Ints(observed)

		low, high := observed[0], observed[len(observed)-1]
		for n := low + 1; n < high; n++ {
			if s.indices[n] {
				continue
			}
			var stem string
			if s.width > 0 {
				stem = fmt.Sprintf("%s-%0*d", s.bare, s.width, n)
			} else {
				stem = fmt.Sprintf("%s-%d", s.bare, n)
			}
			candidates = append(candidates, model.PatternCandidate{
				BaseURL:      s.first,
				CandidateURL: s.dir + stem + s.ext,
				Rule:         model.RuleRange,
				Confidence:   gapConfidence(observed, n),
			})
		}
	}
	return candidates
}

// gapConfidence scores a missing index by its distance to the nearest
// observed neighbor, on the Range rule's confidence band. A gap inside a
// dense run is a stronger prediction than one in sparse scatter.
func gapConfidence(observed []int, n int) float64 {
	nearest := -1
	for _, o := range observed {
		d := o - n
		if d < 0 {
			d = -d
		}
		if nearest < 0 || d < nearest {
			nearest = d
		}
	}

	base := 0.35
	penalty := 0.005 * float64(nearest-1)
	if penalty > 0.15 {
		penalty = 0.15
	}
	return base - penalty
}
