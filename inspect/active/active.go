/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package active implements ActiveNode resolution: mapping a cursor
// Position to the chain of enclosing XorNodes every inspection component
// (scope, types, autocomplete) navigates from.
package active

import "github.com/krotik/mquery/ast"

/*
LeafKind classifies where a Position sits relative to the narrowest node
resolution bottomed out at.
*/
type LeafKind int

/*
Known leaf kinds.
*/
const (
	OnTokenStart LeafKind = iota
	InAst
	AfterAstNode
	ContextNode
)

/*
ActiveNode is the result of resolving a Position against a Collection: the
narrowest enclosing node together with the full ancestry chain up to the
root, narrowest first.
*/
type ActiveNode struct {
	Position                ast.Position
	LeafKind                LeafKind
	IdentifierUnderPosition *ast.TNode
	Ancestry                []ast.XorNode
}

/*
Find resolves position against collection, returning false if position falls
outside the root's range entirely.
*/
func Find(collection *ast.Collection, position ast.Position) (*ActiveNode, bool) {
	root, ok := collection.Root()
	if !ok {
		return nil, false
	}
	if !containsPosition(collection, root, position) {
		return nil, false
	}

	var ancestry []ast.XorNode
	current := root
	descendedIntoContext := false

	for {
		ancestry = append(ancestry, current)

		children := collection.Children(current.Id())
		next, foundAst, isContextFallback := selectChild(collection, children, position)
		if !foundAst && !isContextFallback {
			break
		}

		current = next
		descendedIntoContext = isContextFallback
	}

	reversed := make([]ast.XorNode, len(ancestry))
	for i, n := range ancestry {
		reversed[len(ancestry)-1-i] = n
	}

	return &ActiveNode{
		Position:                position,
		LeafKind:                classify(current, position, descendedIntoContext, collection),
		IdentifierUnderPosition: identifierUnderPosition(reversed, position, collection),
		Ancestry:                reversed,
	}, true
}

/*
selectChild picks the child whose range contains position, preferring a
completed Ast child over a Context node and, among several matching
children, the one with the largest attribute index (the later sibling
wins a boundary tie). isContextFallback reports that no Ast child matched
and an in-flight Context child covering the cursor was chosen instead.
*/
func selectChild(collection *ast.Collection, children []ast.XorNode, position ast.Position) (best ast.XorNode, found bool, isContextFallback bool) {
	bestIndex := -1

	for _, c := range children {
		if !c.IsAst() {
			continue
		}
		if !containsPosition(collection, c, position) {
			continue
		}
		idx := attrIndex(c)
		if idx > bestIndex {
			best, found, bestIndex = c, true, idx
		}
	}
	if found {
		return best, true, false
	}

	for _, c := range children {
		if c.IsAst() {
			continue
		}
		if !containsPosition(collection, c, position) {
			continue
		}
		idx := attrIndex(c)
		if idx > bestIndex {
			best, isContextFallback, bestIndex = c, true, idx
		}
	}

	return best, false, isContextFallback
}

/*
containsPosition is the containment test descent uses. A completed Ast node
covers exactly its sealed token range (boundaries inclusive). An in-flight
Context node has no sealed end - it extends from its start to the frontier
of whatever has been read so far, so only the lower bound is tested; this is
what lets a cursor just past the last consumed token still resolve into the
construct the parser was building there.
*/
func containsPosition(collection *ast.Collection, x ast.XorNode, position ast.Position) bool {
	if x.IsAst() {
		return ast.IsIn(position, x, collection.RightmostLeaf, true, true)
	}
	return !ast.IsBefore(position, x, false)
}

func attrIndex(x ast.XorNode) int {
	if ai := x.AttributeIndex(); ai != nil {
		return *ai
	}
	return -1
}

/*
classify assigns the LeafKind for the narrowest node resolution bottomed
out at.
*/
func classify(current ast.XorNode, position ast.Position, descendedIntoContext bool, collection *ast.Collection) LeafKind {
	if current.IsContext() || descendedIntoContext {
		return ContextNode
	}
	if ast.IsOnStart(position, current) {
		return OnTokenStart
	}
	if ast.IsOnEnd(position, current, collection.RightmostLeaf) {
		return AfterAstNode
	}
	return InAst
}

/*
identifierUnderPosition searches the ancestry, narrowest first, for the
Identifier or GeneralizedIdentifier leaf the cursor sits within. Field
names are GeneralizedIdentifiers, so a partially-typed field must surface
here for autocomplete's prefix filter to see it.
*/
func identifierUnderPosition(ancestry []ast.XorNode, position ast.Position, collection *ast.Collection) *ast.TNode {
	for _, n := range ancestry {
		if !n.IsAst() {
			continue
		}
		if n.Kind() != ast.NodeKindIdentifier && n.Kind() != ast.NodeKindGeneralizedIdentifier {
			continue
		}
		if ast.IsIn(position, n, collection.RightmostLeaf, true, true) {
			return n.Ast
		}
	}
	return nil
}
