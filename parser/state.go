/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package parser implements the parse cursor State and the
// recursive-descent and combinatorial parsing strategies.
package parser

import (
	"devt.de/krotik/common/errorutil"
	"github.com/krotik/mquery/ast"
	"github.com/krotik/mquery/lexer"
)

/*
State is the parser's cursor: a token index, the stack of in-flight
context nodes, and the NodeIdMap being built. It is the unit of
checkpoint/rollback.
*/
type State struct {
	tokens    *lexer.Snapshot
	tokenIndex int
	idCounter  uint64
	contextStack []ast.NodeId
	collection   *Collection
}

/*
Collection is a thin alias kept local to the parser package so State can
reference *ast.Collection without importing it twice under different names
in call sites; it is exactly ast.Collection.
*/
type Collection = ast.Collection

/*
NewState creates a parser cursor over the given token snapshot.
*/
func NewState(tokens *lexer.Snapshot) *State {
	return &State{
		tokens:     tokens,
		tokenIndex: 0,
		idCounter:  0,
		collection: ast.NewCollection(),
	}
}

/*
NewStateWithIdCounterSeed creates a parser cursor whose id counter starts at
seed instead of 0. This is the parseStateFactory hook's main use:
golden-file tests want deterministic ids regardless of call order.
*/
func NewStateWithIdCounterSeed(tokens *lexer.Snapshot, seed uint64) *State {
	s := NewState(tokens)
	s.idCounter = seed
	return s
}

/*
Collection returns the NodeIdMap being built. While parsing is in progress
this is mutable; callers downstream of the parser (inspection) must treat it
as read-only.
*/
func (s *State) Collection() *ast.Collection {
	return s.collection
}

/*
TokenIndex returns the current cursor position.
*/
func (s *State) TokenIndex() int {
	return s.tokenIndex
}

/*
Peek looks at the token at tokenIndex+offset without consuming it.
*/
func (s *State) Peek(offset int) (lexer.Token, bool) {
	return s.tokens.At(s.tokenIndex + offset)
}

/*
ReadToken advances the cursor and returns the consumed token.
*/
func (s *State) ReadToken() (lexer.Token, bool) {
	tok, ok := s.tokens.At(s.tokenIndex)
	if !ok {
		return lexer.Token{}, false
	}
	s.tokenIndex++
	return tok, true
}

/*
nextId mints a fresh, strictly increasing NodeId.
*/
func (s *State) nextId() ast.NodeId {
	s.idCounter++
	return ast.NodeId(s.idCounter)
}

/*
CurrentContextId returns the id of the innermost open context, if any.
*/
func (s *State) CurrentContextId() (ast.NodeId, bool) {
	if len(s.contextStack) == 0 {
		return 0, false
	}
	return s.contextStack[len(s.contextStack)-1], true
}

/*
StartContext pushes a new in-flight node of the given kind, wiring it under
the current context (or as the root, if none is open).
*/
func (s *State) StartContext(kind ast.NodeKind) ast.NodeId {
	id := s.nextId()

	parentId, hasParent := s.CurrentContextId()

	var attrIndex *int
	if hasParent {
		idx := len(s.collection.Children(parentId))
		attrIndex = &idx
	}

	var tokenStart *ast.TokenStart
	if tok, ok := s.Peek(0); ok {
		tokenStart = &ast.TokenStart{Index: s.tokenIndex, Position: tok.PositionStart}
	}

	node := &ast.ContextNode{
		Id:              id,
		Kind:            kind,
		AttributeIndex:  attrIndex,
		TokenIndexStart: s.tokenIndex,
		TokenStart:      tokenStart,
	}

	s.collection.InsertContext(node, parentId, hasParent)
	s.contextStack = append(s.contextStack, id)

	return id
}

/*
NoteTokenConsumed refreshes the current context's TokenStart the first time
a token is actually read for it. Context nodes that are started but whose
first read fails (backtracking) never observe a consumed token.
*/
func (s *State) NoteTokenConsumed(contextId ast.NodeId, tok lexer.Token, index int) {
	if n, ok := s.collection.GetContext(contextId); ok && n.TokenStart == nil {
		n.TokenStart = &ast.TokenStart{Index: index, Position: tok.PositionStart}
		n.ChildCount++
	}
}

/*
SetContextLiteral stages the literal text an in-flight context will carry
once sealed. The parser calls this as soon as a node's defining token (e.g.
a binary operator) has been read, so inference over partial trees can see
it before EndContext runs.
*/
func (s *State) SetContextLiteral(contextId ast.NodeId, literal string) {
	if n, ok := s.collection.GetContext(contextId); ok {
		n.Literal = literal
	}
}

/*
EndContext promotes the current context to an Ast node, sealing its token
range. The caller supplies the end-exclusive token index and position, and
whether the resulting node is a leaf.
*/
func (s *State) EndContext(endTokenIndex int, endPosition ast.Position, isLeaf bool, literal string) *ast.TNode {
	id, ok := s.CurrentContextId()
	errorutil.AssertTrue(ok, "EndContext called with no open context")

	ctx, ok := s.collection.GetContext(id)
	errorutil.AssertTrue(ok, "EndContext: current context id not found")

	startPos := ast.Position{}
	if ctx.TokenStart != nil {
		startPos = ctx.TokenStart.Position
	}

	sealed := &ast.TNode{
		Id:             id,
		Kind:           ctx.Kind,
		AttributeIndex: ctx.AttributeIndex,
		TokenRange: ast.TokenRange{
			TokenIndexStart: ctx.TokenIndexStart,
			TokenIndexEnd:   endTokenIndex,
			PositionStart:   startPos,
			PositionEnd:     endPosition,
		},
		Literal: literal,
	}

	s.collection.PromoteToAst(id, sealed, isLeaf)
	s.contextStack = s.contextStack[:len(s.contextStack)-1]

	return sealed
}

/*
WrapAsFirstChild detaches an already-completed node from its current parent
and starts a new context of newKind in its place, with the detached node
re-attached as attribute index 0. This is how both parser strategies fold a
previously-read left operand under a binary expression, or a primary
expression under a RecursivePrimaryExpression, once a following token
reveals that the wrapper is needed (NodeIdMap navigation assumes attribute
indices are always contiguous, so the detach-then-reattach order below
matters).
*/
func (s *State) WrapAsFirstChild(existing ast.NodeId, newKind ast.NodeKind) ast.NodeId {
	existingXor, _ := s.collection.GetXor(existing)

	s.collection.DetachChild(existing)

	newId := s.StartContext(newKind)

	// The wrapper logically starts where the wrapped node started, not at
	// the parser's current cursor (which has already moved past it).
	if ctx, ok := s.collection.GetContext(newId); ok {
		ctx.TokenIndexStart = existingXor.TokenIndexStart()
		if start, ok := tokenStartOf(existingXor); ok {
			ctx.TokenStart = start
		}
	}

	s.collection.AttachChild(newId, existing)

	return newId
}

/*
tokenStartOf recovers the TokenStart a freshly-wrapped node should inherit
from an already-parsed XorNode.
*/
func tokenStartOf(x ast.XorNode) (*ast.TokenStart, bool) {
	if x.Ast != nil {
		return &ast.TokenStart{Index: x.Ast.TokenRange.TokenIndexStart, Position: x.Ast.TokenRange.PositionStart}, true
	}
	if x.Context != nil && x.Context.TokenStart != nil {
		return x.Context.TokenStart, true
	}
	return nil, false
}

/*
DeleteContext rolls back the current context and every descendant,
releasing their ids for good (they are never reused).
*/
func (s *State) DeleteContext() {
	id, ok := s.CurrentContextId()
	errorutil.AssertTrue(ok, "DeleteContext called with no open context")

	s.collection.DeleteContext(id)
	s.contextStack = s.contextStack[:len(s.contextStack)-1]
}

/*
Checkpoint is an opaque capture of State sufficient to restore every
observable property: tokenIndex, the open context stack, the id counter,
and the NodeIdMap contents built so far.

The token buffer and the Collection are both small
enough per parse that a structural copy is simple and correct; a production
system under tighter memory pressure would replace Collection's maps with
persistent (structurally-shared) maps and make this an O(1) snapshot
instead - noted here rather than built, since the
combinatorial/recursive-descent disambiguation this supports happens at
bounded grammar choice points, not in a hot per-token loop.
*/
type Checkpoint struct {
	tokenIndex   int
	idCounter    uint64
	contextStack []ast.NodeId
	collection   *ast.Collection
}

/*
Checkpoint captures the current State.
*/
func (s *State) Checkpoint() Checkpoint {
	return Checkpoint{
		tokenIndex:   s.tokenIndex,
		idCounter:    s.idCounter,
		contextStack: append([]ast.NodeId(nil), s.contextStack...),
		collection:   s.collection.Clone(),
	}
}

/*
RestoreCheckpoint resets State to exactly the state captured by cp. After
this call every observable property of State is identical to the state at
the matching Checkpoint call.
*/
func (s *State) RestoreCheckpoint(cp Checkpoint) {
	s.tokenIndex = cp.tokenIndex
	s.idCounter = cp.idCounter
	s.contextStack = append([]ast.NodeId(nil), cp.contextStack...)
	s.collection = cp.collection.Clone()
}
