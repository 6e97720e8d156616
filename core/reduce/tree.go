// core/reduce/tree.go
package reduce

import (
	"context"
	"errors"
)

var ErrNoLeaves = errors.New("reduce: no leaves")

// Node is one scheduled merge: Out = merge(A, B).
type Node[T any] struct {
	Index int
	A, B  T
	Out   T
}

// Namer returns the identity of the output of merge number index. last is
// set for the merge that produces the final artifact.
type Namer[T any] func(index int, last bool) T

// Tree schedules a pairwise reduction of leaves. A queue is seeded with the
// leaves; its two front items are merged and the result is pushed to the
// back until one item remains, so an odd leftover is paired with the next
// produced result. len(leaves)-1 nodes are returned. A single leaf is
// returned unchanged with no nodes.
func Tree[T any](leaves []T, name Namer[T]) (T, []Node[T], error) {
	var zero T
	switch len(leaves) {
	case 0:
		return zero, nil, ErrNoLeaves
	case 1:
		return leaves[0], nil, nil
	}
	queue := append(make([]T, 0, 2*len(leaves)-1), leaves...)
	nodes := make([]Node[T], 0, len(leaves)-1)
	for head := 0; len(queue)-head > 1; head += 2 {
		idx := len(nodes)
		out := name(idx, len(queue)-head == 2)
		nodes = append(nodes, Node[T]{Index: idx, A: queue[head], B: queue[head+1], Out: out})
		queue = append(queue, out)
	}
	return queue[len(queue)-1], nodes, nil
}

// Chain schedules a left fold: ((items[0] op items[1]) op items[2]) ...
// It has the same node count as Tree but every node depends on the one
// before it.
func Chain[T any](items []T, name Namer[T]) (T, []Node[T], error) {
	var zero T
	switch len(items) {
	case 0:
		return zero, nil, ErrNoLeaves
	case 1:
		return items[0], nil, nil
	}
	nodes := make([]Node[T], 0, len(items)-1)
	acc := items[0]
	for i := 1; i < len(items); i++ {
		out := name(i-1, i == len(items)-1)
		nodes = append(nodes, Node[T]{Index: i - 1, A: acc, B: items[i], Out: out})
		acc = out
	}
	return acc, nodes, nil
}

// MergeFunc materialises one node.
type MergeFunc[T any] func(ctx context.Context, n Node[T]) error

// Fold schedules a Tree and runs its nodes in order. Nodes are emitted in
// dependency order so a sequential walk is always valid.
func Fold[T any](ctx context.Context, leaves []T, name Namer[T], merge MergeFunc[T]) (T, error) {
	final, nodes, err := Tree(leaves, name)
	if err != nil {
		return final, err
	}
	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return final, err
		}
		if err := merge(ctx, n); err != nil {
			return final, err
		}
	}
	return final, nil
}
