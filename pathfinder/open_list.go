package pathfinder

import "github.com/beka-birhanu/vinom-nav/grid"

// pathNode is the search-local view of a cell. Nodes are owned by a single
// FindRoute call and dropped when it returns.
type pathNode struct {
	cell          grid.Cell
	costFromStart int
	costToEnd     int
	costTotal     int
	parent        *pathNode
	seq           int // insertion order, breaks costTotal ties
	index         int // heap index
}

// openList is a min-heap on costTotal; equal totals pop in insertion order.
type openList []*pathNode

func (ol openList) Len() int { return len(ol) }

func (ol openList) Less(i, j int) bool {
	if ol[i].costTotal != ol[j].costTotal {
		return ol[i].costTotal < ol[j].costTotal
	}
	return ol[i].seq < ol[j].seq
}

func (ol openList) Swap(i, j int) {
	ol[i], ol[j] = ol[j], ol[i]
	ol[i].index = i
	ol[j].index = j
}

func (ol *openList) Push(x any) {
	node := x.(*pathNode)
	node.index = len(*ol)
	*ol = append(*ol, node)
}

func (ol *openList) Pop() any {
	old := *ol
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*ol = old[:n-1]
	return node
}
