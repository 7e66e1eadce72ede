package sidebus

import (
	"github.com/hbollon/go-edlib"

	"github.com/duoscreen/orchestrator/internal/model"
)

// matchThreshold is the minimum normalized Jaro-Winkler similarity a
// candidate's caption must reach against the expected caption to be
// considered a match (§4.6: "fuzzy string distance ... over caption").
const matchThreshold = 0.82

// CaptionMatcher is the catalog.WindowMatcher implementation used by the
// secondary-app launcher: picks the candidate whose caption is closest to
// expectedCaption by normalized Jaro-Winkler similarity.
type CaptionMatcher struct{}

// Match returns the best-scoring candidate above matchThreshold, or false
// if none clears it.
func (CaptionMatcher) Match(candidates []model.ClientInfo, expectedCaption string) (model.ClientInfo, bool) {
	var best model.ClientInfo
	bestScore := 0.0
	found := false

	for _, candidate := range candidates {
		score := edlib.JaroWinklerSimilarity(candidate.Caption, expectedCaption)
		if score >= matchThreshold && score > bestScore {
			best = candidate
			bestScore = score
			found = true
		}
	}
	return best, found
}
