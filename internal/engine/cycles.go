package engine

import (
	"sort"
	"strings"
)

// Cycle length bounds. The upper bound caps the DFS so detection stays
// tractable on dense transaction graphs.
const (
	minCycleLength = 3
	maxCycleLength = 6
)

// DetectCycles returns the distinct simple directed cycles of 3 to 6 accounts
// found in the graph. Each cycle lists its members in traversal order without
// repeating the closing account. Two cycles over the same account set are
// considered the same ring regardless of rotation or direction; the
// first-discovered representative is kept.
func DetectCycles(g *TransactionGraph) [][]string {
	var cycles [][]string
	for _, start := range g.Accounts() {
		var path []string
		onPath := make(map[string]bool)

		var dfs func(current string)
		dfs = func(current string) {
			path = append(path, current)
			onPath[current] = true

			for _, neighbor := range g.Outgoing(current) {
				if neighbor == start && len(path) >= minCycleLength {
					cycles = append(cycles, append([]string(nil), path...))
				}
				if !onPath[neighbor] && len(path) < maxCycleLength {
					dfs(neighbor)
				}
			}

			path = path[:len(path)-1]
			delete(onPath, current)
		}
		dfs(start)
	}
	return dedupeByMemberSet(cycles)
}

// dedupeByMemberSet collapses rings whose member sets are identical. The
// canonical key deliberately ignores order and multiplicity: scoring only
// consumes membership.
func dedupeByMemberSet(rings [][]string) [][]string {
	seen := make(map[string]bool, len(rings))
	result := make([][]string, 0, len(rings))
	for _, ring := range rings {
		key := memberSetKey(ring)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, ring)
	}
	return result
}

func memberSetKey(members []string) string {
	sorted := append([]string(nil), members...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}
