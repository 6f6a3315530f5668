// Package huffman builds Huffman code tables from symbol frequencies and packs
// symbol streams into LSB-first bitstreams.
//
// The pipeline has four steps, each usable on its own:
//
//	freqs, err := huffman.CountFrequencies(ctx, input, 4)
//	tree, err := huffman.BuildTree(freqs)
//	codes := huffman.BuildCodeTable(tree)
//	encoded, err := huffman.Encode(ctx, input, codes, 4)
//
// Counting and encoding split the input into degree contiguous partitions and
// process them concurrently. Partition i always starts at input[i*(n/degree)],
// with the last partition absorbing the remainder, so both passes see the same
// partitioning.
//
// Ties between equal weights are broken by insertion order: leaves in order of
// first appearance in the input, merged nodes in creation order. The result is
// reproducible for a given input but it is not a canonical Huffman code.
package huffman
