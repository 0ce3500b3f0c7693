/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package complete

import (
	"errors"
	"reflect"
	"testing"

	"github.com/krotik/mquery/ast"
	"github.com/krotik/mquery/inspect/active"
	"github.com/krotik/mquery/lexer"
	"github.com/krotik/mquery/parser"
)

func tok(kind lexer.TokenKind, data string, start, end int) lexer.Token {
	return lexer.Token{
		Kind:          kind,
		Data:          data,
		PositionStart: lexer.TokenPosition{LineNumber: 1, LineCodeUnit: start, CodeUnit: start},
		PositionEnd:   lexer.TokenPosition{LineNumber: 1, LineCodeUnit: end, CodeUnit: end},
	}
}

// parseExpr drives the recursive-descent parser over tokens and returns the
// resulting NodeIdMap regardless of whether parsing succeeded - autocomplete
// runs over partial/error trees just as readily as complete ones.
func parseExpr(t *testing.T, tokens []lexer.Token) *ast.Collection {
	t.Helper()
	snap := &lexer.Snapshot{Tokens: tokens}
	s := parser.NewState(snap)
	parser.New(parser.RecursiveDescent).Parse(s, parser.EntryExpression)
	return s.Collection()
}

type fakeCancelledToken struct{}

func (fakeCancelledToken) IsCancelled() bool     { return true }
func (fakeCancelledToken) ThrowIfCancelled() error { return errors.New("cancelled") }

func TestKeywords_IfMissingThen(t *testing.T) {
	tokens := []lexer.Token{
		tok(lexer.TokenKeyword, "if", 0, 2),
		tok(lexer.TokenIdentifier, "x", 3, 4),
	}
	collection := parseExpr(t, tokens)

	root, ok := collection.Root()
	if !ok {
		t.Fatal("expected a root node")
	}
	children := collection.Children(root.Id())
	if len(children) != 1 {
		t.Fatalf("expected 1 attached child, got %d", len(children))
	}

	an := &active.ActiveNode{
		LeafKind: active.AfterAstNode,
		Ancestry: []ast.XorNode{children[0], root},
	}

	got, err := Keywords(collection, an, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"and", "as", "is", "meta", "or", "then"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords() = %v, want %v", got, want)
	}
}

func TestKeywords_IfMissingThen_PrefixFilter(t *testing.T) {
	tokens := []lexer.Token{
		tok(lexer.TokenKeyword, "if", 0, 2),
		tok(lexer.TokenIdentifier, "x", 3, 4),
	}
	collection := parseExpr(t, tokens)
	root, _ := collection.Root()
	children := collection.Children(root.Id())

	an := &active.ActiveNode{
		LeafKind: active.AfterAstNode,
		Ancestry: []ast.XorNode{children[0], root},
	}

	got, err := Keywords(collection, an, "th", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"then"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords() = %v, want %v", got, want)
	}
}

func TestKeywords_LetMissingIn(t *testing.T) {
	tokens := []lexer.Token{
		tok(lexer.TokenKeyword, "let", 0, 3),
		tok(lexer.TokenIdentifier, "x", 4, 5),
		tok(lexer.TokenOperator, "=", 6, 7),
		tok(lexer.TokenNumberLiteral, "1", 8, 9),
	}
	collection := parseExpr(t, tokens)
	root, ok := collection.Root()
	if !ok {
		t.Fatal("expected a root node")
	}
	children := collection.Children(root.Id())
	if len(children) != 1 {
		t.Fatalf("expected 1 attached child, got %d", len(children))
	}
	if children[0].Kind() != ast.NodeKindIdentifierPairedExpression {
		t.Fatalf("expected IdentifierPairedExpression child, got %v", children[0].Kind())
	}

	an := &active.ActiveNode{
		LeafKind: active.AfterAstNode,
		Ancestry: []ast.XorNode{children[0], root},
	}

	got, err := Keywords(collection, an, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"in"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords() = %v, want %v", got, want)
	}
}

func TestKeywords_TryMissingOtherwiseBody(t *testing.T) {
	tokens := []lexer.Token{
		tok(lexer.TokenKeyword, "try", 0, 3),
		tok(lexer.TokenNumberLiteral, "1", 4, 5),
		tok(lexer.TokenKeyword, "otherwise", 6, 15),
	}
	collection := parseExpr(t, tokens)
	root, _ := collection.Root()
	children := collection.Children(root.Id())

	an := &active.ActiveNode{
		LeafKind: active.AfterAstNode,
		Ancestry: []ast.XorNode{children[0], root},
	}

	got, err := Keywords(collection, an, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"and", "as", "is", "meta", "or", "otherwise"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords() = %v, want %v", got, want)
	}
}

func TestKeywords_EmptyAncestry(t *testing.T) {
	an := &active.ActiveNode{}
	got, err := Keywords(ast.NewCollection(), an, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Keywords() = %v, want empty", got)
	}
}

func TestKeywords_Cancelled(t *testing.T) {
	an := &active.ActiveNode{}
	_, err := Keywords(ast.NewCollection(), an, "", fakeCancelledToken{})
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
}
