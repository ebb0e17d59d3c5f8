package engine

import (
	"fmt"
	"math"
	"sort"
)

// RoundOrderingStrategy relabels the five generated rounds. Implementations
// must preserve the round structure itself: three matches per round, every
// team appearing once per round.
type RoundOrderingStrategy interface {
	Name() string
	Order(rounds [][]Match) ([][]Match, []string)
}

// ScoreWeights tunes the competitiveness score used by the marquee-last
// ordering. The formula is policy, not law, so both terms are configurable.
type ScoreWeights struct {
	RankSum  float64
	RankDiff float64
}

// DefaultScoreWeights favours low combined ranking with a mild penalty for
// mismatched sides.
var DefaultScoreWeights = ScoreWeights{RankSum: 10, RankDiff: 1}

// OrderingFor returns an ordering strategy by name. "round-5-extravaganza"
// is the historical name for the marquee-last ordering.
func OrderingFor(name string, weights ScoreWeights) (RoundOrderingStrategy, error) {
	switch name {
	case "", "random":
		return &RandomOrdering{}, nil
	case "marquee-last", "round-5-extravaganza":
		if weights == (ScoreWeights{}) {
			weights = DefaultScoreWeights
		}
		return &MarqueeLastOrdering{Weights: weights}, nil
	default:
		return nil, fmt.Errorf("unknown round ordering: %q", name)
	}
}

// RandomOrdering keeps the rounds as generated. The pairing generator has
// already shuffled them, so successive runs vary.
type RandomOrdering struct{}

func (s *RandomOrdering) Name() string { return "random" }

func (s *RandomOrdering) Order(rounds [][]Match) ([][]Match, []string) {
	return rounds, nil
}

// MarqueeLastOrdering sorts rounds by aggregate competitiveness ascending so
// the most attractive fixtures land late in the season, then forces the
// match between the two best-ranked teams into the final round.
type MarqueeLastOrdering struct {
	Weights ScoreWeights
}

func (s *MarqueeLastOrdering) Name() string { return "marquee-last" }

func (s *MarqueeLastOrdering) Order(rounds [][]Match) ([][]Match, []string) {
	ordered := make([][]Match, len(rounds))
	copy(ordered, rounds)

	sort.SliceStable(ordered, func(i, j int) bool {
		return s.roundScore(ordered[i]) < s.roundScore(ordered[j])
	})

	var notes []string
	last := len(ordered) - 1
	if mi, ok := s.marqueeRound(ordered); ok {
		if mi != last {
			// Swapping whole rounds keeps the one-appearance-per-team and
			// three-per-round invariants intact.
			ordered[mi], ordered[last] = ordered[last], ordered[mi]
		}
		home, away := s.marqueeMatch(ordered[last])
		notes = append(notes, fmt.Sprintf("Match Week %d: %s v %s headline the final round",
			len(ordered), home, away))
	}
	return ordered, notes
}

// score rewards low combined ranking and penalizes a large ranking gap.
func (s *MarqueeLastOrdering) score(m Match) float64 {
	sum := float64(m.Home.Ranking + m.Away.Ranking)
	diff := math.Abs(float64(m.Home.Ranking - m.Away.Ranking))
	return s.Weights.RankSum/sum - s.Weights.RankDiff*diff
}

func (s *MarqueeLastOrdering) roundScore(round []Match) float64 {
	total := 0.0
	for _, m := range round {
		total += s.score(m)
	}
	return total
}

// marqueeRound locates the round holding the rank-1 vs rank-2 match.
func (s *MarqueeLastOrdering) marqueeRound(rounds [][]Match) (int, bool) {
	best, second := bestTwoRankings(rounds)
	for i, round := range rounds {
		for _, m := range round {
			if (m.Home.Ranking == best && m.Away.Ranking == second) ||
				(m.Home.Ranking == second && m.Away.Ranking == best) {
				return i, true
			}
		}
	}
	return 0, false
}

func (s *MarqueeLastOrdering) marqueeMatch(round []Match) (string, string) {
	bestIdx, bestScore := 0, math.Inf(-1)
	for i, m := range round {
		if sc := s.score(m); sc > bestScore {
			bestScore = sc
			bestIdx = i
		}
	}
	return round[bestIdx].Home.Name, round[bestIdx].Away.Name
}

// bestTwoRankings returns the two lowest ranking values on the roster.
func bestTwoRankings(rounds [][]Match) (int, int) {
	best, second := math.MaxInt, math.MaxInt
	seen := make(map[int]bool)
	for _, round := range rounds {
		for _, m := range round {
			for _, r := range []int{m.Home.Ranking, m.Away.Ranking} {
				if seen[r] {
					continue
				}
				seen[r] = true
				switch {
				case r < best:
					best, second = r, best
				case r < second:
					second = r
				}
			}
		}
	}
	return best, second
}
