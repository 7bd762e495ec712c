package rendergraph

import "github.com/aurora-render/forge/logging"

// Graph is the compiled, executable result of Builder.Compile. A Graph with Valid == false no-ops on
// Execute without allocating any transient resource (§4.8 step 1, §7).
type Graph struct {
	nodes            []*node
	passOrder        []int // live pass node indices in topological order
	resourcesToCreate map[int][]int
	resourcesToDestroy map[int][]int
	barriers         map[int][]Barrier // pass.index -> transitions planBarriers emitted for that pass
	Valid            bool
}

// Compile culls unreachable nodes by backward BFS from the present pass, topologically sorts the live
// subgraph with Kahn's algorithm, and plans transient resource lifetimes (§4.8). The builder is reset to an
// empty state either way; the returned Graph keeps the nodes it was built from.
func (b *Builder) Compile() *Graph {
	g := &Graph{nodes: b.nodes, resourcesToCreate: map[int][]int{}, resourcesToDestroy: map[int][]int{}, barriers: map[int][]Barrier{}}
	defer func() { *b = *NewBuilder() }()

	if b.presentPass == invalidNode {
		logging.Named("rendergraph").Warn("render graph has no present pass, marking invalid")
		return g
	}

	live := cull(b.nodes, b.presentPass)
	order, ok := kahnSort(b.nodes, live)
	if !ok {
		logging.Named("rendergraph").Warn("render graph contains a cycle, marking invalid")
		return g
	}

	for idx, n := range b.nodes {
		n.index = invalidNode
		n.live = live[idx]
	}
	for pos, idx := range order {
		b.nodes[idx].index = pos
	}

	for _, idx := range order {
		if b.nodes[idx].kind.isPass() {
			g.passOrder = append(g.passOrder, idx)
		}
	}

	for idx, n := range b.nodes {
		if !live[idx] || !n.kind.isResource() {
			continue
		}
		adjacent := adjacentPasses(n)
		if len(adjacent) == 0 {
			continue
		}
		start, end := adjacent[0], adjacent[0]
		for _, a := range adjacent {
			if b.nodes[a].index < b.nodes[start].index {
				start = a
			}
			if b.nodes[a].index > b.nodes[end].index {
				end = a
			}
		}
		startIdx, endIdx := b.nodes[start].index, b.nodes[end].index
		g.resourcesToCreate[startIdx] = append(g.resourcesToCreate[startIdx], idx)
		g.resourcesToDestroy[endIdx] = append(g.resourcesToDestroy[endIdx], idx)
	}

	g.Valid = true
	return g
}

// cull marks every node reachable from start via backward (in-edge) traversal as live, then forces every
// resource written by a live pass live too, even if nothing downstream reads it (§4.8 step 1; ground truth
// bisemutum/src/graphics/render_graph.cpp's second forcing pass over a live pass's writes). Without this, a
// resource a live pass writes but no pass consumes would be culled, left out of resourcesToCreate, and never
// materialized even though the live pass's execute callback expects it to exist.
func cull(nodes []*node, start int) []bool {
	live := make([]bool, len(nodes))
	live[start] = true
	queue := []int{start}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, p := range nodes[u].in {
			if !live[p] {
				live[p] = true
				queue = append(queue, p)
			}
		}
	}

	for idx, n := range nodes {
		if !live[idx] || !n.kind.isPass() {
			continue
		}
		for _, out := range n.out {
			live[out] = true
		}
	}

	return live
}

// kahnSort topologically sorts the live subset of nodes, returning false if a cycle is detected.
func kahnSort(nodes []*node, live []bool) ([]int, bool) {
	indegree := make([]int, len(nodes))
	liveCount := 0
	for i, alive := range live {
		if !alive {
			continue
		}
		liveCount++
		for _, out := range nodes[i].out {
			if live[out] {
				indegree[out]++
			}
		}
	}

	var queue []int
	for i, alive := range live {
		if alive && indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	var order []int
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)
		for _, v := range nodes[u].out {
			if !live[v] {
				continue
			}
			indegree[v]--
			if indegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	return order, len(order) == liveCount
}

// adjacentPasses returns the deduplicated set of pass nodes adjacent to a resource node (its producers and
// consumers), used for resource lifetime planning (§4.8 step 3).
func adjacentPasses(n *node) []int {
	seen := map[int]bool{}
	var out []int
	add := func(i int) {
		if !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	for _, p := range n.producers {
		add(p)
	}
	for _, c := range n.consumers {
		add(c)
	}
	for _, i := range n.in {
		add(i)
	}
	for _, i := range n.out {
		add(i)
	}
	return out
}
