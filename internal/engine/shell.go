package engine

// Shell chain bounds: relay paths of 4 to 6 accounts whose intermediates each
// touched 2 or 3 transactions across the whole batch. That activity band
// matches a disposable relay account, neither inactive nor genuinely busy.
const (
	minShellChain    = 4
	maxShellChain    = 6
	minRelayActivity = 2
	maxRelayActivity = 3
)

// DetectShellChains returns relay chains [entry, ...intermediates, exit]
// whose intermediate accounts all show low, bounded activity. A qualifying
// path is recorded at every length from 4 to 6 reached during traversal;
// chains over the same account set are collapsed to one ring.
func DetectShellChains(g *TransactionGraph) [][]string {
	var chains [][]string
	for _, start := range g.Accounts() {
		path := []string{start}
		onPath := map[string]bool{start: true}

		var dfs func(current string)
		dfs = func(current string) {
			for _, neighbor := range g.Outgoing(current) {
				if onPath[neighbor] {
					continue
				}
				path = append(path, neighbor)
				onPath[neighbor] = true

				if len(path) >= minShellChain && relaysLowActivity(g, path) {
					chains = append(chains, append([]string(nil), path...))
				}
				if len(path) < maxShellChain {
					dfs(neighbor)
				}

				path = path[:len(path)-1]
				delete(onPath, neighbor)
			}
		}
		dfs(start)
	}
	return dedupeByMemberSet(chains)
}

func relaysLowActivity(g *TransactionGraph, path []string) bool {
	for _, id := range path[1 : len(path)-1] {
		node := g.Node(id)
		if node == nil {
			return false
		}
		if node.TransactionCount < minRelayActivity || node.TransactionCount > maxRelayActivity {
			return false
		}
	}
	return true
}
