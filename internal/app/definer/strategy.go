package definer

import (
	"math/rand"
	"slices"
	"sort"
)

// Selection strategies over the pool of undefined words.
const (
	StrategySequential = "sequential"
	StrategyRandom     = "random"
	StrategyShort      = "short"
	StrategyLong       = "long"
	StrategySmart      = "smart"
)

// Strategies lists the accepted selection strategy names.
var Strategies = []string{StrategySmart, StrategyRandom, StrategySequential, StrategyShort, StrategyLong}

// ValidStrategy reports whether name is a known selection strategy.
func ValidStrategy(name string) bool {
	return slices.Contains(Strategies, name)
}

// Select picks up to n words from pool according to the strategy,
// which the caller has validated with ValidStrategy. The pool is never
// mutated. rng drives the random and smart strategies so tests can pin
// the seed.
func Select(pool []string, strategy string, n int, rng *rand.Rand) []string {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}

	switch strategy {
	case StrategyRandom:
		picked := make([]string, len(pool))
		copy(picked, pool)
		rng.Shuffle(len(picked), func(i, j int) {
			picked[i], picked[j] = picked[j], picked[i]
		})
		return picked[:n]

	case StrategyShort:
		return sortedByLength(pool, n, false)

	case StrategyLong:
		return sortedByLength(pool, n, true)

	case StrategySmart:
		return smartSelect(pool, n, rng)

	default: // sequential
		picked := make([]string, n)
		copy(picked, pool[:n])
		return picked
	}
}

// sortedByLength returns the n shortest (or longest) words. Equal
// lengths tie-break alphabetically so the pick order is deterministic.
func sortedByLength(pool []string, n int, longest bool) []string {
	picked := make([]string, len(pool))
	copy(picked, pool)
	sort.Slice(picked, func(i, j int) bool {
		a, b := picked[i], picked[j]
		if len(a) != len(b) {
			if longest {
				return len(a) > len(b)
			}
			return len(a) < len(b)
		}
		return a < b
	})
	return picked[:n]
}

// smartSelect mixes the edges of the pool with a random middle sample:
// a slice from the head, a slice from the tail and random picks in
// between. Duplicate picks are dropped, so the result may hold fewer
// than n words.
func smartSelect(pool []string, n int, rng *rand.Rand) []string {
	edge := n / 5
	if limit := len(pool) / 10; edge > limit {
		edge = limit
	}

	var picked []string
	picked = append(picked, pool[:edge]...)
	if edge > 0 {
		picked = append(picked, pool[len(pool)-edge:]...)
	}

	middle := pool[edge : len(pool)-edge]
	if remaining := n - len(picked); remaining > 0 && len(middle) > 0 {
		if remaining > len(middle) {
			remaining = len(middle)
		}
		for _, idx := range rng.Perm(len(middle))[:remaining] {
			picked = append(picked, middle[idx])
		}
	}

	seen := make(map[string]bool, len(picked))
	uniq := picked[:0]
	for _, w := range picked {
		if !seen[w] {
			seen[w] = true
			uniq = append(uniq, w)
		}
	}
	if len(uniq) > n {
		uniq = uniq[:n]
	}
	return uniq
}
