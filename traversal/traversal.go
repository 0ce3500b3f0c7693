/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package traversal implements a generic cancellable BFS/DFS over either a
// sealed *ast.TNode tree or a live XorNode tree navigated through a
// Collection. The ancestry-driven inspection components (active, scope,
// types) walk parent chains and kind-directed children directly and poll
// the cancellation token themselves; this driver serves whole-tree sweeps -
// invariant verification, tooling, host integrations - where visit order
// and early exit need to be configurable.
package traversal

import (
	"github.com/krotik/mquery/ast"
	"github.com/krotik/mquery/config"
	"github.com/krotik/mquery/errs"
	"github.com/krotik/mquery/trace"
)

/*
Order selects the visiting order of a traversal.
*/
type Order int

/*
Known orders.
*/
const (
	DepthFirst Order = iota
	BreadthFirst
)

/*
VisitXor is called once per visited node. Returning earlyExit true stops the
whole traversal immediately, as if the token had been cancelled.
*/
type VisitXor func(node ast.XorNode) (earlyExit bool, err error)

/*
ExpandXor decides which of node's children to descend into, and in what
order. The default expander returns children in attribute-index order; a
caller supplies its own to prune branches it knows are irrelevant.
*/
type ExpandXor func(collection *ast.Collection, node ast.XorNode) []ast.XorNode

/*
DefaultExpandXor returns every child of node in attribute-index order.
*/
func DefaultExpandXor(collection *ast.Collection, node ast.XorNode) []ast.XorNode {
	return collection.Children(node.Id())
}

/*
TraverseXor walks the tree rooted at root, navigated through collection,
calling visit on every node in the given order. The cancellation token is
checked between every visit; a cancelled token aborts the walk and returns
an *errs.CommonError, matching every other cancellable operation in this
engine.
*/
func TraverseXor(collection *ast.Collection, root ast.XorNode, order Order, token trace.CancellationToken, visit VisitXor, expand ExpandXor) error {
	if expand == nil {
		expand = DefaultExpandXor
	}

	queue := []ast.XorNode{root}
	nodeGuard := config.Int(config.TraversalNodeGuard)
	visited := 0

	for len(queue) > 0 {
		if token != nil {
			if err := token.ThrowIfCancelled(); err != nil {
				return err
			}
		}

		visited++
		if visited > nodeGuard {
			return &errs.CommonError{Message: "traversal exceeded the configured node guard"}
		}

		var node ast.XorNode
		if order == BreadthFirst {
			node, queue = queue[0], queue[1:]
		} else {
			node, queue = queue[len(queue)-1], queue[:len(queue)-1]
		}

		earlyExit, err := visit(node)
		if err != nil {
			return err
		}
		if earlyExit {
			return nil
		}

		children := expand(collection, node)
		if order == BreadthFirst {
			queue = append(queue, children...)
		} else {
			// Depth-first: push children in reverse so the leftmost child is
			// popped (and therefore visited) first.
			for i := len(children) - 1; i >= 0; i-- {
				queue = append(queue, children[i])
			}
		}
	}

	return nil
}

/*
VisitAst is the Ast-only counterpart of VisitXor, used once a tree has
finished parsing and callers no longer need to see in-flight Context nodes.
*/
type VisitAst func(node *ast.TNode) (earlyExit bool, err error)

/*
TraverseAst walks a sealed Ast tree. It is a thin convenience wrapper around
TraverseXor for callers that only ever run after a successful parse and want
*ast.TNode directly instead of unwrapping XorNode on every visit.
*/
func TraverseAst(collection *ast.Collection, root *ast.TNode, order Order, token trace.CancellationToken, visit VisitAst) error {
	return TraverseXor(collection, ast.NewAstXorNode(root), order, token, func(node ast.XorNode) (bool, error) {
		if !node.IsAst() {
			return false, &errs.CommonError{Message: "TraverseAst encountered a non-Ast node"}
		}
		return visit(node.Ast)
	}, nil)
}

/*
Collect runs a traversal purely for its side effect of gathering every
visited node, in visiting order. Useful for tests, invariant sweeps and
host tooling that wants the whole tree as a flat list.
*/
func Collect(collection *ast.Collection, root ast.XorNode, order Order, token trace.CancellationToken) ([]ast.XorNode, error) {
	var out []ast.XorNode
	err := TraverseXor(collection, root, order, token, func(node ast.XorNode) (bool, error) {
		out = append(out, node)
		return false, nil
	}, nil)
	return out, err
}
