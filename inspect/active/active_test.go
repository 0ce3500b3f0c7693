/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package active

import (
	"testing"

	"github.com/krotik/mquery/ast"
	"github.com/krotik/mquery/lexer"
	"github.com/krotik/mquery/parser"
)

func parseSrc(t *testing.T, src string) *ast.Collection {
	t.Helper()

	snap, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatal(err)
	}

	s := parser.NewState(snap)
	parser.New(parser.RecursiveDescent).Parse(s, parser.EntryExpression)

	return s.Collection()
}

func pos(unit int) ast.Position {
	return ast.Position{LineNumber: 1, LineCodeUnit: unit}
}

func ancestryKinds(an *ActiveNode) []ast.NodeKind {
	out := make([]ast.NodeKind, len(an.Ancestry))
	for i, n := range an.Ancestry {
		out[i] = n.Kind()
	}
	return out
}

func TestAncestryForSimpleArithmetic(t *testing.T) {
	c := parseSrc(t, "1 + 2")

	an, ok := Find(c, pos(0))
	if !ok {
		t.Fatal("expected an active node")
	}

	kinds := ancestryKinds(an)
	if len(kinds) != 2 || kinds[0] != ast.NodeKindLiteralExpression ||
		kinds[1] != ast.NodeKindArithmeticExpression {
		t.Errorf("ancestry = %v", kinds)
	}
	if an.LeafKind != OnTokenStart {
		t.Errorf("leaf kind = %v, want OnTokenStart", an.LeafKind)
	}
}

func TestPositionContainmentProperty(t *testing.T) {
	c := parseSrc(t, "let a = 1, b = a + 1 in b")

	root, _ := c.Root()

	var walk func(x ast.XorNode)
	walk = func(x ast.XorNode) {
		if x.IsAst() {
			p := x.Ast.TokenRange.PositionStart
			an, ok := Find(c, p)
			if !ok {
				t.Fatalf("no active node at %v (node %d)", p, x.Id())
			}

			found := false
			for _, a := range an.Ancestry {
				if a.Id() == x.Id() {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("node %d (%v) missing from ancestry at its own start", x.Id(), x.Kind())
			}
		}
		for _, child := range c.Children(x.Id()) {
			walk(child)
		}
	}
	walk(root)
}

func TestOutOfBounds(t *testing.T) {
	c := parseSrc(t, "1 + 2")

	if _, ok := Find(c, pos(999)); ok {
		t.Error("expected out of bounds past the sealed end")
	}

	if _, ok := Find(ast.NewCollection(), pos(0)); ok {
		t.Error("expected out of bounds for an empty collection")
	}
}

func TestIdentifierUnderPosition(t *testing.T) {
	c := parseSrc(t, "foo + 1")

	an, ok := Find(c, pos(1))
	if !ok {
		t.Fatal("expected an active node")
	}
	if an.IdentifierUnderPosition == nil || an.IdentifierUnderPosition.Literal != "foo" {
		t.Errorf("identifier under position = %v", an.IdentifierUnderPosition)
	}

	// The cursor on the operator sits in no identifier.
	an, ok = Find(c, pos(4))
	if !ok {
		t.Fatal("expected an active node")
	}
	if an.IdentifierUnderPosition != nil {
		t.Errorf("unexpected identifier %q", an.IdentifierUnderPosition.Literal)
	}
}

func TestContextFrontierResolution(t *testing.T) {
	// "[x = 1, y = 2][" fails inside the field selector; the cursor just
	// after the "[" must resolve into the open FieldSelector context.
	c := parseSrc(t, "[x = 1, y = 2][")

	an, ok := Find(c, pos(15))
	if !ok {
		t.Fatal("expected an active node at the error frontier")
	}

	kinds := ancestryKinds(an)
	if len(kinds) != 2 || kinds[0] != ast.NodeKindFieldSelector ||
		kinds[1] != ast.NodeKindRecursivePrimaryExpression {
		t.Errorf("ancestry = %v", kinds)
	}
	if an.LeafKind != ContextNode {
		t.Errorf("leaf kind = %v, want ContextNode", an.LeafKind)
	}
	if !an.Ancestry[0].IsContext() {
		t.Error("narrowest node must still be in flight")
	}
}

func TestOpenParameterResolution(t *testing.T) {
	// "(x, " commits the parameter-list branch; the cursor after the comma
	// must land in the open second Parameter.
	c := parseSrc(t, "(x, ")

	an, ok := Find(c, pos(4))
	if !ok {
		t.Fatal("expected an active node")
	}

	kinds := ancestryKinds(an)
	if len(kinds) != 2 || kinds[0] != ast.NodeKindParameter ||
		kinds[1] != ast.NodeKindParameterList {
		t.Errorf("ancestry = %v", kinds)
	}
	if an.LeafKind != ContextNode {
		t.Errorf("leaf kind = %v", an.LeafKind)
	}
}

func TestInAstClassification(t *testing.T) {
	c := parseSrc(t, "foo + 1")

	an, ok := Find(c, pos(2))
	if !ok {
		t.Fatal("expected an active node")
	}
	if an.LeafKind != InAst {
		t.Errorf("leaf kind = %v, want InAst", an.LeafKind)
	}

	an, ok = Find(c, pos(3))
	if !ok {
		t.Fatal("expected an active node")
	}
	if an.LeafKind != AfterAstNode {
		t.Errorf("leaf kind = %v, want AfterAstNode", an.LeafKind)
	}
}
