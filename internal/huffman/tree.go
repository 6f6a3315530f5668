package huffman

import "container/heap"

// Node is an entry of the MergeTree arena. Leaves have Left and Right set to
// -1; internal nodes reference their children by handle.
type Node[S comparable] struct {
	Symbol S
	Weight int
	Left   int
	Right  int
}

func (n Node[S]) IsLeaf() bool {
	return n.Left < 0
}

// MergeTree is the Huffman tree stored as an arena of nodes. The leaves occupy
// the first handles, in the frequency table's appearance order, and every merge
// appends one internal node.
type MergeTree[S comparable] struct {
	nodes  []Node[S]
	leaves int
	root   int
}

func (t *MergeTree[S]) Root() int {
	return t.root
}

func (t *MergeTree[S]) Node(handle int) Node[S] {
	return t.nodes[handle]
}

// Len returns the number of nodes, leaves included.
func (t *MergeTree[S]) Len() int {
	return len(t.nodes)
}

func (t *MergeTree[S]) LeafCount() int {
	return t.leaves
}

// Weight returns the weight of the root, which equals the total symbol count.
func (t *MergeTree[S]) Weight() int {
	return t.nodes[t.root].Weight
}

// Leaves returns the leaf nodes in handle order.
func (t *MergeTree[S]) Leaves() []Node[S] {
	return t.nodes[:t.leaves]
}

type queueItem struct {
	handle int
	weight int
}

// mergeQueue is a min-heap on weight. Handles grow with insertion order, so
// comparing them breaks ties by insertion.
type mergeQueue []queueItem

func (q mergeQueue) Len() int { return len(q) }
func (q mergeQueue) Less(i, j int) bool {
	if q[i].weight != q[j].weight {
		return q[i].weight < q[j].weight
	}
	return q[i].handle < q[j].handle
}
func (q mergeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *mergeQueue) Push(x any)   { *q = append(*q, x.(queueItem)) }
func (q *mergeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// BuildTree merges the two lightest nodes until a single root remains. The
// first node taken from the queue becomes the left child. A table with one
// symbol yields a tree whose root is that leaf.
func BuildTree[S comparable](table *FrequencyTable[S]) (*MergeTree[S], error) {
	if table == nil || table.Len() == 0 {
		return nil, ErrEmptyInput
	}

	n := table.Len()
	tree := &MergeTree[S]{
		nodes:  make([]Node[S], 0, 2*n-1),
		leaves: n,
	}
	queue := make(mergeQueue, 0, n)
	for sym, count := range table.All() {
		handle := len(tree.nodes)
		tree.nodes = append(tree.nodes, Node[S]{Symbol: sym, Weight: count, Left: -1, Right: -1})
		queue = append(queue, queueItem{handle: handle, weight: count})
	}
	heap.Init(&queue)

	for queue.Len() > 1 {
		left := heap.Pop(&queue).(queueItem)
		right := heap.Pop(&queue).(queueItem)

		parent := Node[S]{
			Weight: left.weight + right.weight,
			Left:   left.handle,
			Right:  right.handle,
		}
		handle := len(tree.nodes)
		tree.nodes = append(tree.nodes, parent)
		heap.Push(&queue, queueItem{handle: handle, weight: parent.Weight})
	}

	tree.root = heap.Pop(&queue).(queueItem).handle
	return tree, nil
}
