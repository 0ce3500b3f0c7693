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
	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/common/stringutil"
)

/*
Collection is the NodeIdMap: the single owning store for every node
produced while parsing one document. It unifies completed Ast nodes and
in-flight Context nodes under one id address space and keeps the
parent/child/leaf indices navigation and inspection run on.

Collection is exclusively owned by one ParseState while parsing is in
progress. Once parsing has finished it is read-only, and every inspection
component treats it as such.
*/
type Collection struct {
	astNodeById     map[NodeId]*TNode
	contextNodeById map[NodeId]*ContextNode
	childIdsById    map[NodeId][]NodeId
	parentIdById    map[NodeId]NodeId
	leafNodeIds     map[NodeId]bool
	idsByNodeKind   map[NodeKind]map[NodeId]bool

	rootId NodeId
	hasRoot bool
}

/*
NewCollection creates an empty NodeIdMap.
*/
func NewCollection() *Collection {
	return &Collection{
		astNodeById:     make(map[NodeId]*TNode),
		contextNodeById: make(map[NodeId]*ContextNode),
		childIdsById:    make(map[NodeId][]NodeId),
		parentIdById:    make(map[NodeId]NodeId),
		leafNodeIds:     make(map[NodeId]bool),
		idsByNodeKind:   make(map[NodeKind]map[NodeId]bool),
	}
}

/*
GetAst returns the completed Ast node for id, if any.
*/
func (c *Collection) GetAst(id NodeId) (*TNode, bool) {
	n, ok := c.astNodeById[id]
	return n, ok
}

/*
GetContext returns the in-flight Context node for id, if any.
*/
func (c *Collection) GetContext(id NodeId) (*ContextNode, bool) {
	n, ok := c.contextNodeById[id]
	return n, ok
}

/*
GetXor tries Ast first, then Context.
*/
func (c *Collection) GetXor(id NodeId) (XorNode, bool) {
	if n, ok := c.astNodeById[id]; ok {
		return NewAstXorNode(n), true
	}
	if n, ok := c.contextNodeById[id]; ok {
		return NewContextXorNode(n), true
	}
	return XorNode{}, false
}

/*
RootId returns the id of the (unique) root node.
*/
func (c *Collection) RootId() (NodeId, bool) {
	return c.rootId, c.hasRoot
}

/*
Root returns the root XorNode.
*/
func (c *Collection) Root() (XorNode, bool) {
	if !c.hasRoot {
		return XorNode{}, false
	}
	return c.GetXor(c.rootId)
}

/*
Parent returns the parent XorNode of id, if id is not the root.
*/
func (c *Collection) Parent(id NodeId) (XorNode, bool) {
	pid, ok := c.parentIdById[id]
	if !ok {
		return XorNode{}, false
	}
	return c.GetXor(pid)
}

/*
Children returns the children of id in attribute-index order.
*/
func (c *Collection) Children(id NodeId) []XorNode {
	ids := c.childIdsById[id]
	out := make([]XorNode, 0, len(ids))
	for _, cid := range ids {
		if x, ok := c.GetXor(cid); ok {
			out = append(out, x)
		}
	}
	return out
}

/*
ChildByAttributeIndex returns the child of parent at the given attribute
index, restricted to expectedKinds when non-empty. This lets
inspection navigate by shape instead of by raw position.
*/
func (c *Collection) ChildByAttributeIndex(parent NodeId, index int, expectedKinds ...NodeKind) (XorNode, bool) {
	ids := c.childIdsById[parent]
	if index < 0 || index >= len(ids) {
		return XorNode{}, false
	}

	x, ok := c.GetXor(ids[index])
	if !ok {
		return XorNode{}, false
	}

	if len(expectedKinds) == 0 {
		return x, true
	}

	for _, k := range expectedKinds {
		if x.Kind() == k {
			return x, true
		}
	}
	return XorNode{}, false
}

/*
RightmostLeaf walks the last-child chain from id down to a leaf Ast node.
Used to determine the observable end-of-tokens of a Context node.
*/
func (c *Collection) RightmostLeaf(id NodeId) (*TNode, bool) {
	if n, ok := c.astNodeById[id]; ok && n.IsLeaf() {
		return n, true
	}

	// Scan children right to left: the rightmost subtree that has produced
	// any completed node wins. A trailing Context child with nothing read
	// yet contributes no tokens, so the scan keeps moving left past it.
	ids := c.childIdsById[id]
	for i := len(ids) - 1; i >= 0; i-- {
		if leaf, ok := c.RightmostLeaf(ids[i]); ok {
			return leaf, true
		}
	}

	// A childless non-leaf Ast node (e.g. an empty RecordExpression) is its
	// own rightmost extent.
	if n, ok := c.astNodeById[id]; ok {
		return n, true
	}

	return nil, false
}

/*
RecursiveExpressionPreviousSibling returns the XorNode that is the
immediately previous step inside a RecursivePrimaryExpression chain (e.g.
the callee of an InvokeExpression, or the record of a FieldSelector).
*/
func (c *Collection) RecursiveExpressionPreviousSibling(id NodeId) (XorNode, bool) {
	parent, ok := c.Parent(id)
	if !ok || parent.Kind() != NodeKindRecursivePrimaryExpression {
		return XorNode{}, false
	}

	idx := 0
	if ai := c.indexOf(parent.Id(), id); ai >= 0 {
		idx = ai
	} else {
		return XorNode{}, false
	}

	if idx == 0 {
		return XorNode{}, false
	}

	return c.ChildByAttributeIndex(parent.Id(), idx-1)
}

func (c *Collection) indexOf(parent NodeId, child NodeId) int {
	for i, id := range c.childIdsById[parent] {
		if id == child {
			return i
		}
	}
	return -1
}

/*
IdsByKind returns every known id of the given kind, across both Ast and
Context nodes.
*/
func (c *Collection) IdsByKind(kind NodeKind) []NodeId {
	set := c.idsByNodeKind[kind]
	out := make([]NodeId, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

/*
IsLeaf reports whether id is a flagged leaf.
*/
func (c *Collection) IsLeaf(id NodeId) bool {
	return c.leafNodeIds[id]
}

// --- mutation, used only by the parser's State ---

/*
InsertContext adds a new in-flight node and wires it into the parent/child
indices. attributeIndex is nil for the root.
*/
func (c *Collection) InsertContext(n *ContextNode, parent NodeId, hasParent bool) {
	errorutil.AssertTrue(n != nil, "cannot insert a nil context node")

	c.contextNodeById[n.Id] = n
	c.indexKind(n.Id, n.Kind)

	if hasParent {
		c.parentIdById[n.Id] = parent
		c.childIdsById[parent] = append(c.childIdsById[parent], n.Id)
	} else {
		errorutil.AssertTrue(!c.hasRoot, "a NodeIdMap may only have one root")
		c.rootId = n.Id
		c.hasRoot = true
	}
}

/*
PromoteToAst removes the Context node with id id from contextNodeById and
installs the equivalent Ast node under the same id. The id is never reallocated.
*/
func (c *Collection) PromoteToAst(id NodeId, sealed *TNode, isLeaf bool) {
	ctxNode, ok := c.contextNodeById[id]
	errorutil.AssertTrue(ok, "endContext called without a matching context node")
	errorutil.AssertTrue(ctxNode.Kind == sealed.Kind, "promoted node kind mismatch")

	// Every child of a soon-to-be-Ast parent must already be Ast itself.
	for _, child := range c.childIdsById[id] {
		_, isAst := c.astNodeById[child]
		errorutil.AssertTrue(isAst, "cannot promote a context node with an unfinished child")
	}

	delete(c.contextNodeById, id)
	c.astNodeById[id] = sealed

	if isLeaf {
		c.leafNodeIds[id] = true
	}
}

/*
DeleteContext removes the Context node id and every descendant from every
index. The ids are never
reused.
*/
func (c *Collection) DeleteContext(id NodeId) {
	for _, child := range append([]NodeId(nil), c.childIdsById[id]...) {
		if _, ok := c.contextNodeById[child]; ok {
			c.DeleteContext(child)
		} else if _, ok := c.astNodeById[child]; ok {
			c.deleteAstSubtree(child)
		}
	}

	if n, ok := c.contextNodeById[id]; ok {
		c.unindexKind(id, n.Kind)
	} else if n, ok := c.astNodeById[id]; ok {
		c.unindexKind(id, n.Kind)
	}

	delete(c.contextNodeById, id)
	delete(c.astNodeById, id)
	delete(c.leafNodeIds, id)
	delete(c.childIdsById, id)

	if parent, ok := c.parentIdById[id]; ok {
		c.childIdsById[parent] = removeId(c.childIdsById[parent], id)
	}
	delete(c.parentIdById, id)

	if c.hasRoot && c.rootId == id {
		c.hasRoot = false
	}
}

func (c *Collection) deleteAstSubtree(id NodeId) {
	for _, child := range c.childIdsById[id] {
		c.deleteAstSubtree(child)
	}

	if n, ok := c.astNodeById[id]; ok {
		c.unindexKind(id, n.Kind)
	}

	delete(c.astNodeById, id)
	delete(c.childIdsById, id)
	delete(c.leafNodeIds, id)
	delete(c.parentIdById, id)
}

func (c *Collection) indexKind(id NodeId, kind NodeKind) {
	set, ok := c.idsByNodeKind[kind]
	if !ok {
		set = make(map[NodeId]bool)
		c.idsByNodeKind[kind] = set
	}
	set[id] = true
}

func (c *Collection) unindexKind(id NodeId, kind NodeKind) {
	if set, ok := c.idsByNodeKind[kind]; ok {
		delete(set, id)
	}
}

func removeId(ids []NodeId, target NodeId) []NodeId {
	for i, id := range ids {
		if id == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

/*
DetachChild removes child from its current parent's child list (if it has
one) and clears its parentIdById entry. Used by the parser when an
already-completed node must be re-wrapped as the first child of a node that
was decided on only after the fact - the classic Pratt "fold into a new
parent" move (e.g. folding a left operand under a freshly recognised binary
expression, or wrapping a primary expression under a RecursivePrimaryExpression
once a suffix is seen).

If child is currently the root (parse strategies fold operands before any
enclosing context exists, e.g. a top-level binary expression), DetachChild
clears the root flag instead of failing, so the caller's subsequent
InsertContext legitimately installs its own new node as root in child's
place.
*/
func (c *Collection) DetachChild(child NodeId) (parent NodeId, ok bool) {
	parent, ok = c.parentIdById[child]
	if !ok {
		if c.hasRoot && c.rootId == child {
			c.hasRoot = false
			return 0, true
		}
		return 0, false
	}

	c.childIdsById[parent] = removeId(c.childIdsById[parent], child)
	delete(c.parentIdById, child)

	return parent, true
}

/*
AttachChild appends child to parent's child list at the next attribute
index and updates child's own AttributeIndex field to match, regardless of
whether child is an Ast or Context node.
*/
func (c *Collection) AttachChild(parent NodeId, child NodeId) {
	index := len(c.childIdsById[parent])
	c.childIdsById[parent] = append(c.childIdsById[parent], child)
	c.parentIdById[child] = parent

	if n, ok := c.astNodeById[child]; ok {
		idx := index
		n.AttributeIndex = &idx
		return
	}
	if n, ok := c.contextNodeById[child]; ok {
		idx := index
		n.AttributeIndex = &idx
	}
}

// --- invariant checks ---

/*
CheckInvariants verifies the store/index consistency rules (id counter
monotonicity is a ParseState property and is checked there), returning the
first violation found. Intended for use in tests and golden-file verification, not
on every mutation (that would defeat the point of cheap checkpoints).
*/
func (c *Collection) CheckInvariants() error {
	for id := range c.astNodeById {
		if _, ok := c.contextNodeById[id]; ok {
			return disjointnessViolation(id)
		}
	}

	for child, parent := range c.parentIdById {
		found := false
		for i, cid := range c.childIdsById[parent] {
			if cid == child {
				found = true
				if ai := c.attributeIndexOf(child); ai != nil && *ai != i {
					return attributeIndexViolation(child, i, *ai)
				}
			}
		}
		if !found {
			return parentChildViolation(child, parent)
		}
	}

	for parent := range c.astNodeById {
		for _, child := range c.childIdsById[parent] {
			if _, ok := c.astNodeById[child]; !ok {
				return astClosureViolation(parent, child)
			}
		}
	}

	for id := range c.leafNodeIds {
		if _, ok := c.astNodeById[id]; !ok {
			return leafNotAstViolation(id)
		}
	}

	return nil
}

/*
Clone returns a deep copy of this Collection, used by ParseState's
checkpoint/restore mechanism. Every map and slice is copied so
mutating the clone never affects the original.
*/
func (c *Collection) Clone() *Collection {
	out := NewCollection()

	for id, n := range c.astNodeById {
		cp := *n
		out.astNodeById[id] = &cp
	}
	for id, n := range c.contextNodeById {
		cp := *n
		out.contextNodeById[id] = &cp
	}
	for id, kids := range c.childIdsById {
		out.childIdsById[id] = append([]NodeId(nil), kids...)
	}
	for id, p := range c.parentIdById {
		out.parentIdById[id] = p
	}
	for id := range c.leafNodeIds {
		out.leafNodeIds[id] = true
	}
	for kind, set := range c.idsByNodeKind {
		clone := make(map[NodeId]bool, len(set))
		for id := range set {
			clone[id] = true
		}
		out.idsByNodeKind[kind] = clone
	}

	out.rootId = c.rootId
	out.hasRoot = c.hasRoot

	return out
}

func (c *Collection) attributeIndexOf(id NodeId) *int {
	if n, ok := c.astNodeById[id]; ok {
		return n.AttributeIndex
	}
	if n, ok := c.contextNodeById[id]; ok {
		return n.AttributeIndex
	}
	return nil
}

/*
String returns a debug dump of the tree rooted at the collection's root
node, kind and child count per node.
*/
func (c *Collection) String() string {
	root, ok := c.Root()
	if !ok {
		return "<empty>"
	}
	return stringutil.ConvertToPrettyString(c.dumpNode(root))
}

func (c *Collection) dumpNode(n XorNode) map[string]interface{} {
	out := map[string]interface{}{
		"id":   uint64(n.Id()),
		"kind": string(n.Kind()),
		"xor":  map[bool]string{true: "ast", false: "context"}[n.IsAst()],
	}

	children := c.Children(n.Id())
	if len(children) > 0 {
		kids := make([]map[string]interface{}, 0, len(children))
		for _, child := range children {
			kids = append(kids, c.dumpNode(child))
		}
		out["children"] = kids
	}

	return out
}
