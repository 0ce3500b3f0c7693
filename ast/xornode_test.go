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

import "testing"

func astSpan(start, end int) XorNode {
	return NewAstXorNode(&TNode{
		Id:   1,
		Kind: NodeKindLiteralExpression,
		TokenRange: TokenRange{
			PositionStart: Position{LineNumber: 1, LineCodeUnit: start},
			PositionEnd:   Position{LineNumber: 1, LineCodeUnit: end},
		},
	})
}

func at(unit int) Position {
	return Position{LineNumber: 1, LineCodeUnit: unit}
}

func TestIsBefore(t *testing.T) {
	x := astSpan(2, 5)

	if !IsBefore(at(1), x, false) {
		t.Error("1 is before [2, 5)")
	}
	if IsBefore(at(2), x, false) {
		t.Error("2 is not strictly before [2, 5)")
	}
	if !IsBefore(at(2), x, true) {
		t.Error("2 is on the inclusive start boundary")
	}
	if IsBefore(at(3), x, true) {
		t.Error("3 is inside, not before")
	}
}

func TestIsAfterAndOnEnd(t *testing.T) {
	x := astSpan(2, 5)

	if !IsAfter(at(6), x, nil, false) {
		t.Error("6 is after [2, 5)")
	}
	if IsAfter(at(5), x, nil, false) {
		t.Error("5 is not strictly after")
	}
	if !IsAfter(at(5), x, nil, true) {
		t.Error("5 is on the inclusive end boundary")
	}
	if !IsOnEnd(at(5), x, nil) {
		t.Error("5 is exactly the end")
	}
	if IsOnEnd(at(4), x, nil) {
		t.Error("4 is not the end")
	}
}

func TestIsInAndOnStart(t *testing.T) {
	x := astSpan(2, 5)

	if !IsOnStart(at(2), x) {
		t.Error("2 is exactly the start")
	}
	if !IsIn(at(3), x, nil, true, true) {
		t.Error("3 is inside")
	}
	if IsIn(at(2), x, nil, false, true) {
		t.Error("lower-exclusive must reject the start boundary")
	}
	if IsIn(at(5), x, nil, true, false) {
		t.Error("upper-exclusive must reject the end boundary")
	}
	if IsIn(at(1), x, nil, true, true) || IsIn(at(6), x, nil, true, true) {
		t.Error("positions outside the span must be rejected")
	}
}

func TestMultiLineOrdering(t *testing.T) {
	x := NewAstXorNode(&TNode{
		Id:   1,
		Kind: NodeKindLetExpression,
		TokenRange: TokenRange{
			PositionStart: Position{LineNumber: 1, LineCodeUnit: 4},
			PositionEnd:   Position{LineNumber: 3, LineCodeUnit: 2},
		},
	})

	// Any unit on an intermediate line is inside, regardless of magnitude.
	if !IsIn(Position{LineNumber: 2, LineCodeUnit: 999}, x, nil, true, true) {
		t.Error("line ordering must dominate code units")
	}
	if !IsBefore(Position{LineNumber: 1, LineCodeUnit: 0}, x, false) {
		t.Error("earlier unit on the start line is before")
	}
	if !IsAfter(Position{LineNumber: 3, LineCodeUnit: 3}, x, nil, false) {
		t.Error("later unit on the end line is after")
	}
}

func TestContextPositionFallbacks(t *testing.T) {
	ctx := NewContextXorNode(&ContextNode{
		Id:   7,
		Kind: NodeKindFieldSelector,
		TokenStart: &TokenStart{
			Index:    3,
			Position: Position{LineNumber: 1, LineCodeUnit: 10},
		},
	})

	// Without a rightmost leaf, the token start is the only known extent.
	if !IsOnEnd(at(10), ctx, nil) {
		t.Error("token start must serve as the end fallback")
	}

	leaf := &TNode{
		Id:   8,
		Kind: NodeKindGeneralizedIdentifier,
		TokenRange: TokenRange{
			PositionStart: Position{LineNumber: 1, LineCodeUnit: 11},
			PositionEnd:   Position{LineNumber: 1, LineCodeUnit: 14},
		},
	}
	rightmost := func(NodeId) (*TNode, bool) { return leaf, true }

	if !IsOnEnd(at(14), ctx, rightmost) {
		t.Error("rightmost leaf must win over the token start fallback")
	}
	if !IsIn(at(12), ctx, rightmost, true, true) {
		t.Error("12 is inside the leaf-extended range")
	}
}

func TestContextWithNoPositionsYet(t *testing.T) {
	ctx := NewContextXorNode(&ContextNode{Id: 9, Kind: NodeKindParameter})

	if IsBefore(at(0), ctx, false) {
		t.Error("a start-less context cannot classify positions as before")
	}
	if !IsAfter(at(0), ctx, nil, false) {
		t.Error("unknown extent reports after, per the fallback contract")
	}
	if IsOnStart(at(0), ctx) {
		t.Error("a start-less context has no start boundary")
	}
}

func TestXorAccessors(t *testing.T) {
	attr := 2
	a := NewAstXorNode(&TNode{Id: 5, Kind: NodeKindConstant, AttributeIndex: &attr,
		TokenRange: TokenRange{TokenIndexStart: 7}})
	c := NewContextXorNode(&ContextNode{Id: 6, Kind: NodeKindIfExpression, TokenIndexStart: 9})

	if !a.IsAst() || a.IsContext() || a.Id() != 5 || a.Kind() != NodeKindConstant {
		t.Error("ast accessors broken")
	}
	if ai := a.AttributeIndex(); ai == nil || *ai != 2 {
		t.Error("ast attribute index broken")
	}
	if a.TokenIndexStart() != 7 {
		t.Error("ast token index broken")
	}

	if !c.IsContext() || c.IsAst() || c.Id() != 6 || c.Kind() != NodeKindIfExpression {
		t.Error("context accessors broken")
	}
	if c.TokenIndexStart() != 9 {
		t.Error("context token index broken")
	}
}

func TestLeafKinds(t *testing.T) {
	leaves := []NodeKind{
		NodeKindConstant, NodeKindIdentifier, NodeKindGeneralizedIdentifier,
		NodeKindLiteralExpression, NodeKindPrimitiveType,
	}
	for _, k := range leaves {
		if !IsLeafKind(k) {
			t.Errorf("%v must be a leaf kind", k)
		}
	}

	for _, k := range []NodeKind{NodeKindIfExpression, NodeKindRecordExpression, NodeKindParameter} {
		if IsLeafKind(k) {
			t.Errorf("%v must not be a leaf kind", k)
		}
	}
}
