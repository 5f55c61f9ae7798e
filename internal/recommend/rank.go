package recommend

import "sort"

// sortScored orders results by descending score, keeping input order for ties.
func sortScored(results []ScoredOffer) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

func sortRanked(results []RankedOffer) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
}
