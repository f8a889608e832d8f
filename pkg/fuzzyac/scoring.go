package fuzzyac

// score computes a candidate's similarity from its edit counts, the
// pattern's token length, its weight, and the active penalties.
//
//	cost       = ι·ins + δ·del + σ·sub + τ·swap
//	max_cost   = L
//	raw_sim    = max(0, 1 - cost/max_cost)
//	similarity = clamp(raw_sim * w, 0, 1)
func score(edits EditCounts, patternLen int, weight float64, pen FuzzyPenalties) (penalty, similarity float64) {
	cost := pen.Insertion*float64(edits.Insertions) +
		pen.Deletion*float64(edits.Deletions) +
		pen.Substitution*float64(edits.Substitutions) +
		pen.Swap*float64(edits.Swaps)

	maxCost := float64(patternLen)
	rawSim := 1 - cost/maxCost
	if rawSim < 0 {
		rawSim = 0
	}
	sim := rawSim * weight
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return cost, sim
}
