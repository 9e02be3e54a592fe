package pathfind

// frontierItem is a candidate distance for a node. Entries go stale when a
// shorter distance for the same node is pushed later; stale entries are
// skipped on pop.
type frontierItem struct {
	id   string
	dist Distance
}

// frontier is a min-heap ordered by distance, then by identifier.
// It implements container/heap.Interface.
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].id < f[j].id
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(frontierItem)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
