package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/omarshaarawi/rosterbot/internal/models"
	"github.com/omarshaarawi/rosterbot/internal/roster"
)

const nameSimilarityThreshold = 0.7

// findByName matches a typed name against the candidates: an exact match
// first, then the closest name containing the typed letters in order, then
// the most similar name by edit distance. A name that matches more than one
// player equally well is an error.
func findByName(name string, candidates []models.Candidate) (models.Candidate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Candidate{}, fmt.Errorf("%w: no name given", ErrPlayerNotFound)
	}

	names := make([]string, len(candidates))
	var exact []int
	for i, c := range candidates {
		if strings.EqualFold(c.Name, name) {
			exact = append(exact, i)
		}
		names[i] = c.Name
	}
	if len(exact) > 0 {
		return pickOne(name, candidates, exact)
	}

	if ranks := fuzzy.RankFindNormalizedFold(name, names); len(ranks) > 0 {
		sort.Stable(ranks)
		var closest []int
		for _, r := range ranks {
			if r.Distance != ranks[0].Distance {
				break
			}
			closest = append(closest, r.OriginalIndex)
		}
		return pickOne(name, candidates, closest)
	}

	var closest []int
	bestSimilarity := nameSimilarityThreshold
	for i, n := range names {
		distance := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(n))
		maxLen := float64(max(len(name), len(n)))
		similarity := 1 - float64(distance)/maxLen
		switch {
		case similarity > bestSimilarity:
			closest, bestSimilarity = []int{i}, similarity
		case similarity == bestSimilarity && len(closest) > 0:
			closest = append(closest, i)
		}
	}
	if len(closest) == 0 {
		return models.Candidate{}, fmt.Errorf("%w: %q", ErrPlayerNotFound, name)
	}
	return pickOne(name, candidates, closest)
}

// pickOne returns the single player among the matches. The same player
// listed twice counts once.
func pickOne(name string, candidates []models.Candidate, matches []int) (models.Candidate, error) {
	first := candidates[matches[0]]
	var others []string
	for _, i := range matches[1:] {
		if c := candidates[i]; c.ID != first.ID {
			others = append(others, fmt.Sprintf("%s (%s)", c.Name, c.Team))
		}
	}
	if len(others) == 0 {
		return first, nil
	}
	all := append([]string{fmt.Sprintf("%s (%s)", first.Name, first.Team)}, others...)
	return models.Candidate{}, fmt.Errorf("%w %q: %s", ErrAmbiguousPlayer, name, strings.Join(all, ", "))
}

// notIn returns the candidates that are not on the lineup.
func notIn(candidates []models.Candidate, lineup *roster.Container) []models.Candidate {
	var out []models.Candidate
	for _, c := range candidates {
		if !lineup.Contains(c.ID) {
			out = append(out, c)
		}
	}
	return out
}
