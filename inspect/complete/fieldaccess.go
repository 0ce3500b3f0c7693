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
	"sort"

	"github.com/krotik/mquery/ast"
	"github.com/krotik/mquery/inspect/active"
	"github.com/krotik/mquery/inspect/types"
	"github.com/krotik/mquery/trace"
)

/*
FieldSuggestion is one candidate field-access autocomplete result: a field
name paired with its inferred type.
*/
type FieldSuggestion struct {
	Name string
	Type types.TType
}

/*
FieldAccess infers the type of the recursively preceding primary expression
of the ancestry's innermost FieldSelector/FieldProjection via insp,
extracts its known field set, filters by prefix, and - for a projection -
filters out names already used elsewhere in the projection while keeping
the one the cursor is currently on.
*/
func FieldAccess(insp *types.Inspector, an *active.ActiveNode, prefix string, token trace.CancellationToken) ([]FieldSuggestion, error) {
	if token != nil {
		if err := token.ThrowIfCancelled(); err != nil {
			return nil, err
		}
	}

	target, ok := innermostFieldAccess(an)
	if !ok {
		return nil, nil
	}

	previous, ok := insp.Collection.RecursiveExpressionPreviousSibling(target.Id())
	if !ok {
		return nil, nil
	}

	t, err := insp.InspectXor(previous)
	if err != nil {
		return nil, err
	}
	fields := types.CollectFields(t)

	exclude := map[string]bool{}
	if target.Kind() == ast.NodeKindFieldProjection {
		exclude = alreadyProjectedNames(insp.Collection, target, an.IdentifierUnderPosition)
	}

	out := make([]FieldSuggestion, 0, len(fields))
	for _, f := range fields {
		if exclude[f.Name] {
			continue
		}
		if !hasPrefix(f.Name, prefix) {
			continue
		}
		out = append(out, FieldSuggestion{Name: f.Name, Type: f.Type})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

/*
innermostFieldAccess returns the narrowest FieldSelector/FieldProjection in
an's ancestry, if any.
*/
func innermostFieldAccess(an *active.ActiveNode) (ast.XorNode, bool) {
	for _, n := range an.Ancestry {
		if n.Kind() == ast.NodeKindFieldSelector || n.Kind() == ast.NodeKindFieldProjection {
			return n, true
		}
	}
	return ast.XorNode{}, false
}

/*
alreadyProjectedNames collects every GeneralizedIdentifier literal already
written in a FieldProjection, except the one the cursor is currently
editing - that one must stay in the candidate list so re-typing over it
still offers a match.
*/
func alreadyProjectedNames(collection *ast.Collection, projection ast.XorNode, underCursor *ast.TNode) map[string]bool {
	exclude := map[string]bool{}
	for _, child := range collection.Children(projection.Id()) {
		if child.Kind() != ast.NodeKindGeneralizedIdentifier || !child.IsAst() {
			continue
		}
		if underCursor != nil && child.Ast.Id == underCursor.Id {
			continue
		}
		exclude[child.Ast.Literal] = true
	}
	return exclude
}
