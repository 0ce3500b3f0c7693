/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package ast

import (
	"strings"
	"testing"
)

/*
buildFixture assembles, by hand, the collection a parse of "r[f]" produces:

	RecursivePrimaryExpression (1)
	  IdentifierExpression (2)
	    Identifier "r" (3)
	  FieldSelector (4)
	    GeneralizedIdentifier "f" (5)
*/
func buildFixture() *Collection {
	c := NewCollection()

	insertAst := func(id NodeId, kind NodeKind, parent NodeId, attr int, literal string, start, end int) {
		idx := attr
		n := &TNode{
			Id: id, Kind: kind, AttributeIndex: &idx, Literal: literal,
			TokenRange: TokenRange{
				PositionStart: Position{LineNumber: 1, LineCodeUnit: start},
				PositionEnd:   Position{LineNumber: 1, LineCodeUnit: end},
			},
		}
		c.InsertContext(&ContextNode{Id: id, Kind: kind, AttributeIndex: &idx}, parent, true)
		c.PromoteToAst(id, n, n.IsLeaf())
	}

	c.InsertContext(&ContextNode{Id: 1, Kind: NodeKindRecursivePrimaryExpression}, 0, false)

	c.InsertContext(&ContextNode{Id: 2, Kind: NodeKindIdentifierExpression, AttributeIndex: intp(0)}, 1, true)
	insertAst(3, NodeKindIdentifier, 2, 0, "r", 0, 1)
	c.PromoteToAst(2, &TNode{Id: 2, Kind: NodeKindIdentifierExpression, AttributeIndex: intp(0),
		TokenRange: TokenRange{
			PositionStart: Position{LineNumber: 1, LineCodeUnit: 0},
			PositionEnd:   Position{LineNumber: 1, LineCodeUnit: 1},
		}}, false)

	c.InsertContext(&ContextNode{Id: 4, Kind: NodeKindFieldSelector, AttributeIndex: intp(1)}, 1, true)
	insertAst(5, NodeKindGeneralizedIdentifier, 4, 0, "f", 2, 3)
	c.PromoteToAst(4, &TNode{Id: 4, Kind: NodeKindFieldSelector, AttributeIndex: intp(1),
		TokenRange: TokenRange{
			PositionStart: Position{LineNumber: 1, LineCodeUnit: 1},
			PositionEnd:   Position{LineNumber: 1, LineCodeUnit: 4},
		}}, false)

	return c
}

func intp(i int) *int { return &i }

func TestGetXorPrefersAst(t *testing.T) {
	c := buildFixture()

	x, ok := c.GetXor(3)
	if !ok || !x.IsAst() || x.Kind() != NodeKindIdentifier {
		t.Fatalf("GetXor(3) = %v, %v", x, ok)
	}

	// The root stays a context node in this fixture.
	root, ok := c.GetXor(1)
	if !ok || !root.IsContext() {
		t.Fatalf("GetXor(1) = %v, %v", root, ok)
	}

	if _, ok := c.GetXor(99); ok {
		t.Error("expected not-found for unknown id")
	}
}

func TestParentChildNavigation(t *testing.T) {
	c := buildFixture()

	parent, ok := c.Parent(3)
	if !ok || parent.Id() != 2 {
		t.Fatalf("Parent(3) = %v, %v", parent.Id(), ok)
	}

	if _, ok := c.Parent(1); ok {
		t.Error("the root must have no parent")
	}

	children := c.Children(1)
	if len(children) != 2 || children[0].Id() != 2 || children[1].Id() != 4 {
		t.Fatalf("Children(1) = %v", children)
	}
}

func TestChildByAttributeIndex(t *testing.T) {
	c := buildFixture()

	x, ok := c.ChildByAttributeIndex(1, 1, NodeKindFieldSelector)
	if !ok || x.Id() != 4 {
		t.Fatalf("got %v, %v", x.Id(), ok)
	}

	if _, ok := c.ChildByAttributeIndex(1, 1, NodeKindInvokeExpression); ok {
		t.Error("kind filter did not reject a mismatching child")
	}
	if _, ok := c.ChildByAttributeIndex(1, 7); ok {
		t.Error("expected not-found for out of range index")
	}
}

func TestRightmostLeaf(t *testing.T) {
	c := buildFixture()

	leaf, ok := c.RightmostLeaf(1)
	if !ok || leaf.Id != 5 {
		t.Fatalf("RightmostLeaf(1) = %v, %v", leaf, ok)
	}

	// A trailing childless context does not hide the completed nodes to its
	// left.
	c.InsertContext(&ContextNode{Id: 6, Kind: NodeKindInvokeExpression, AttributeIndex: intp(2)}, 1, true)
	leaf, ok = c.RightmostLeaf(1)
	if !ok || leaf.Id != 5 {
		t.Fatalf("RightmostLeaf with trailing context = %v, %v", leaf, ok)
	}
}

func TestRecursiveExpressionPreviousSibling(t *testing.T) {
	c := buildFixture()

	prev, ok := c.RecursiveExpressionPreviousSibling(4)
	if !ok || prev.Id() != 2 {
		t.Fatalf("got %v, %v", prev.Id(), ok)
	}

	// The head of the chain has no previous step.
	if _, ok := c.RecursiveExpressionPreviousSibling(2); ok {
		t.Error("expected no previous sibling for the chain head")
	}

	// Nodes outside a RecursivePrimaryExpression have none either.
	if _, ok := c.RecursiveExpressionPreviousSibling(3); ok {
		t.Error("expected no previous sibling outside a chain")
	}
}

func TestIdsByKindAndLeafFlags(t *testing.T) {
	c := buildFixture()

	ids := c.IdsByKind(NodeKindIdentifier)
	if len(ids) != 1 || ids[0] != 3 {
		t.Fatalf("IdsByKind = %v", ids)
	}

	if !c.IsLeaf(3) || !c.IsLeaf(5) {
		t.Error("leaves not flagged")
	}
	if c.IsLeaf(1) || c.IsLeaf(2) {
		t.Error("non-leaves flagged as leaves")
	}
}

func TestDeleteContextRemovesSubtree(t *testing.T) {
	c := buildFixture()

	c.DeleteContext(4)

	if _, ok := c.GetXor(4); ok {
		t.Error("deleted node still known")
	}
	if _, ok := c.GetXor(5); ok {
		t.Error("deleted descendant still known")
	}
	if kids := c.Children(1); len(kids) != 1 || kids[0].Id() != 2 {
		t.Errorf("parent child list not updated: %v", kids)
	}
	if c.IsLeaf(5) {
		t.Error("leaf flag survived deletion")
	}
	if len(c.IdsByKind(NodeKindGeneralizedIdentifier)) != 0 {
		t.Error("kind index survived deletion")
	}
}

func TestDetachAndAttachChild(t *testing.T) {
	c := buildFixture()

	parent, ok := c.DetachChild(4)
	if !ok || parent != 1 {
		t.Fatalf("DetachChild = %v, %v", parent, ok)
	}
	if _, ok := c.Parent(4); ok {
		t.Error("detached child still has a parent")
	}

	c.AttachChild(2, 4)

	p, _ := c.Parent(4)
	if p.Id() != 2 {
		t.Errorf("reattached parent = %d", p.Id())
	}
	x, _ := c.GetXor(4)
	if ai := x.AttributeIndex(); ai == nil || *ai != 1 {
		t.Errorf("attribute index not rewritten: %v", ai)
	}
}

func TestDetachRootClearsRootFlag(t *testing.T) {
	c := NewCollection()
	c.InsertContext(&ContextNode{Id: 1, Kind: NodeKindLiteralExpression}, 0, false)
	c.PromoteToAst(1, &TNode{Id: 1, Kind: NodeKindLiteralExpression, Literal: "1"}, true)

	if _, ok := c.DetachChild(1); !ok {
		t.Fatal("detaching the root must succeed")
	}
	if _, ok := c.Root(); ok {
		t.Error("root flag survived the detach")
	}

	// A new context can now legitimately take the root slot.
	c.InsertContext(&ContextNode{Id: 2, Kind: NodeKindArithmeticExpression}, 0, false)
	root, ok := c.Root()
	if !ok || root.Id() != 2 {
		t.Errorf("new root = %v, %v", root.Id(), ok)
	}
}

func TestCheckInvariantsDetectsViolations(t *testing.T) {
	c := buildFixture()
	if err := c.CheckInvariants(); err != nil {
		t.Fatalf("fixture violates invariants: %v", err)
	}

	// An id in both stores.
	c.contextNodeById[3] = &ContextNode{Id: 3, Kind: NodeKindIdentifier}
	err := c.CheckInvariants()
	if err == nil || !strings.Contains(err.Error(), "disjointness") {
		t.Errorf("expected a disjointness violation, got %v", err)
	}
	delete(c.contextNodeById, 3)

	// A leaf flag without an ast node.
	c.leafNodeIds[77] = true
	err = c.CheckInvariants()
	if err == nil || !strings.Contains(err.Error(), "leaf-flag") {
		t.Errorf("expected a leaf-flag violation, got %v", err)
	}
	delete(c.leafNodeIds, 77)

	// A parent entry whose child list disagrees.
	c.parentIdById[5] = 2
	err = c.CheckInvariants()
	if err == nil || !strings.Contains(err.Error(), "parent-child") {
		t.Errorf("expected a parent-child violation, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := buildFixture()
	clone := c.Clone()

	clone.DeleteContext(1)

	if _, ok := c.GetXor(4); !ok {
		t.Error("mutating the clone affected the original")
	}
	if _, ok := clone.GetXor(4); ok {
		t.Error("clone mutation did not apply")
	}
	if _, ok := clone.Root(); ok {
		t.Error("clone root flag survived deletion")
	}

	// Node structs are copied, not shared. The clone above no longer holds
	// node 3, so a fresh clone is used.
	cn, _ := c.Clone().GetAst(3)
	cn.Literal = "changed"
	on, _ := c.GetAst(3)
	if on.Literal != "r" {
		t.Error("clone shares node structs with the original")
	}
}

func TestCollectionString(t *testing.T) {
	c := buildFixture()

	dump := c.String()
	if !strings.Contains(dump, "RecursivePrimaryExpression") ||
		!strings.Contains(dump, "FieldSelector") {
		t.Errorf("unexpected dump: %s", dump)
	}

	if got := NewCollection().String(); got != "<empty>" {
		t.Errorf("empty dump = %q", got)
	}
}
