package engine

import (
	"strings"

	"github.com/lhartmann/kontoflow/internal/model"
)

// Similarity weights. Amount and date dominate; description tokens only
// break near-ties.
const (
	dateWeight        = 0.4
	amountWeight      = 0.4
	descriptionWeight = 0.2
	amountEpsilon     = 0.005
	matchThreshold    = 0.7
)

// MergeTransactions reconciles a heuristic and a generative transaction
// list. Pairs scoring above the match threshold keep the higher-confidence
// side; generative-only entries are appended. Pure over its inputs.
func MergeTransactions(heuristic, generative []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(heuristic))
	copy(out, heuristic)

	claimed := make([]bool, len(out))
	for _, gen := range generative {
		bestIdx := -1
		bestScore := 0.0
		for i := range out {
			if claimed[i] {
				continue
			}
			if score := Similarity(out[i], gen); score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx >= 0 && bestScore >= matchThreshold {
			claimed[bestIdx] = true
			if gen.Confidence > out[bestIdx].Confidence {
				out[bestIdx] = gen
			}
			continue
		}
		out = append(out, gen)
	}
	return out
}

// Similarity scores two transactions in [0,1] from date equality, amount
// equality within epsilon, and description token overlap.
func Similarity(a, b model.Transaction) float64 {
	score := 0.0
	if a.Date.Format("2006-01-02") == b.Date.Format("2006-01-02") {
		score += dateWeight
	}
	diff := a.Amount - b.Amount
	if diff < 0 {
		diff = -diff
	}
	if diff <= amountEpsilon {
		score += amountWeight
	}
	score += tokenOverlap(a.Description, b.Description) * descriptionWeight
	return score
}

// tokenOverlap is the Jaccard index of lowercased description tokens.
func tokenOverlap(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	common := 0
	for tok := range tokensA {
		if _, ok := tokensB[tok]; ok {
			common++
		}
	}
	union := len(tokensA) + len(tokensB) - common
	return float64(common) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = struct{}{}
	}
	return set
}
