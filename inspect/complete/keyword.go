/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package complete implements the four autocomplete sub-inspectors:
// keyword, language-constant, primitive-type and field-access, each driven
// by walking the ActiveNode ancestry the same way.
package complete

import (
	"devt.de/krotik/common/sortutil"

	"github.com/krotik/mquery/ast"
	"github.com/krotik/mquery/config"
	"github.com/krotik/mquery/inspect/active"
	"github.com/krotik/mquery/trace"
)

/*
conjunctionKeywords are offered immediately after a completed unary-or-type
expression, regardless of which construct encloses it.
*/
var conjunctionKeywords = []string{"and", "as", "is", "meta", "or"}

/*
expressionLikeKinds is the set of Ast kinds the conjunction-keyword post-step
treats as "a completed unary-or-type expression" - anything that could sit
on the left of "and"/"or"/"as"/"is"/"meta".
*/
var expressionLikeKinds = map[ast.NodeKind]bool{
	ast.NodeKindConstant:                   true,
	ast.NodeKindIdentifier:                 true,
	ast.NodeKindIdentifierExpression:       true,
	ast.NodeKindLiteralExpression:          true,
	ast.NodeKindUnaryExpression:            true,
	ast.NodeKindAsExpression:               true,
	ast.NodeKindIsExpression:               true,
	ast.NodeKindFieldSelector:              true,
	ast.NodeKindFieldProjection:            true,
	ast.NodeKindInvokeExpression:           true,
	ast.NodeKindItemAccessExpression:       true,
	ast.NodeKindParenthesizedExpression:    true,
	ast.NodeKindRecursivePrimaryExpression: true,
	ast.NodeKindRecordExpression:           true,
	ast.NodeKindListExpression:             true,
	ast.NodeKindEachExpression:             true,
	ast.NodeKindFunctionExpression:         true,
	ast.NodeKindArithmeticExpression:       true,
	ast.NodeKindEqualityExpression:         true,
	ast.NodeKindRelationalExpression:       true,
	ast.NodeKindLogicalExpression:          true,
	ast.NodeKindMetadataExpression:         true,
	ast.NodeKindTBinOpExpression:           true,
}

/*
Keywords walks an's ancestry in [child, parent] pairs and, for each parent
kind, consults the per-kind next-allowed-keyword routine for the attribute
slot child occupies. Results are the union of every matching routine,
filtered by prefix and deduplicated, then the conjunction-keyword post-step
is applied.
*/
func Keywords(collection *ast.Collection, an *active.ActiveNode, prefix string, token trace.CancellationToken) ([]string, error) {
	if token != nil {
		if err := token.ThrowIfCancelled(); err != nil {
			return nil, err
		}
	}

	seen := map[string]bool{}
	var out []string

	add := func(kw string) {
		if !seen[kw] && hasPrefix(kw, prefix) {
			seen[kw] = true
			out = append(out, kw)
		}
	}

	for i := 0; i+1 < len(an.Ancestry); i++ {
		child := an.Ancestry[i]
		parent := an.Ancestry[i+1]
		for _, kw := range nextKeywords(collection, parent, child) {
			add(kw)
		}
	}

	if len(an.Ancestry) > 0 && config.Bool(config.AutocompleteConjunctionKeywords) {
		narrowest := an.Ancestry[0]
		if narrowest.IsAst() && an.LeafKind == active.AfterAstNode && expressionLikeKinds[narrowest.Kind()] {
			for _, kw := range conjunctionKeywords {
				add(kw)
			}
		}
	}

	sortSuggestions(out)
	return out, nil
}

/*
sortSuggestions orders a suggestion list in place, stable across requests.
*/
func sortSuggestions(items []string) {
	keys := make([]interface{}, len(items))
	for i, s := range items {
		keys[i] = s
	}

	sortutil.InterfaceStrings(keys)

	for i, k := range keys {
		items[i] = k.(string)
	}
}

/*
nextKeywords enumerates the keywords legally following child within parent,
e.g. inside an IfExpression between condition and body only "then" can
come next. Only the most recently attached child of an
in-flight (Context) parent has an open "next" slot; a completed Ast parent
has no further children to suggest a keyword after.
*/
func nextKeywords(collection *ast.Collection, parent, child ast.XorNode) []string {
	if !parent.IsContext() {
		return nil
	}

	children := collection.Children(parent.Id())
	if len(children) == 0 || children[len(children)-1].Id() != child.Id() {
		return nil
	}

	idx := 0
	if ai := child.AttributeIndex(); ai != nil {
		idx = *ai
	}

	switch parent.Kind() {
	case ast.NodeKindIfExpression:
		switch idx {
		case 0:
			return []string{"then"}
		case 1:
			return []string{"else"}
		}
	case ast.NodeKindLetExpression:
		if child.Kind() == ast.NodeKindIdentifierPairedExpression {
			return []string{"in"}
		}
	case ast.NodeKindErrorHandlingExpression:
		if idx == 0 {
			return []string{"otherwise"}
		}
	}

	return nil
}

func hasPrefix(s, prefix string) bool {
	if prefix == "" {
		return true
	}
	if len(s) < len(prefix) {
		return false
	}
	return s[:len(prefix)] == prefix
}
