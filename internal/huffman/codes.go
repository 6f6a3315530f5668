package huffman

// Code is a bit string made of '0' and '1' characters, first bit first.
type Code string

func (c Code) Len() int {
	return len(c)
}

// CodeTable maps every leaf symbol of a MergeTree to its code.
type CodeTable[S comparable] map[S]Code

// BuildCodeTable walks the tree appending '0' for a left edge and '1' for a
// right edge, and records the path of every leaf. The walk uses an explicit
// stack, skewed trees can be as deep as the number of symbols.
//
// A tree made of a single leaf maps its symbol to the empty code.
func BuildCodeTable[S comparable](tree *MergeTree[S]) CodeTable[S] {
	codes := make(CodeTable[S], tree.LeafCount())

	type frame struct {
		handle int
		path   string
	}
	stack := []frame{{handle: tree.Root()}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := tree.Node(top.handle)
		if node.IsLeaf() {
			codes[node.Symbol] = Code(top.path)
			continue
		}
		stack = append(stack,
			frame{handle: node.Right, path: top.path + "1"},
			frame{handle: node.Left, path: top.path + "0"},
		)
	}

	return codes
}

// WeightedLength returns the number of bits needed to encode every symbol
// counted in table. Symbols without a code are not counted.
func (c CodeTable[S]) WeightedLength(table *FrequencyTable[S]) int {
	total := 0
	for sym, n := range table.All() {
		if code, ok := c[sym]; ok {
			total += n * code.Len()
		}
	}
	return total
}

// MaxLen returns the length of the longest code.
func (c CodeTable[S]) MaxLen() int {
	longest := 0
	for _, code := range c {
		longest = max(longest, code.Len())
	}
	return longest
}
