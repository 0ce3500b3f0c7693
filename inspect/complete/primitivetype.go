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
	"github.com/krotik/mquery/ast"
	"github.com/krotik/mquery/inspect/active"
	"github.com/krotik/mquery/parser"
	"github.com/krotik/mquery/trace"
)

/*
primitiveTypeSlotKinds is the closed set of constructs whose narrowest
enclosing in-flight node marks "the cursor is at a primitive-type position"
: AsExpression/IsExpression/NullablePrimitiveType are entered
only after their governing keyword ("as"/"is"/"nullable") has already been
consumed, and a Parameter with no children yet still awaits its identifier
so cannot be one - but a Parameter whose only child is the identifier and
whose source text up to the cursor ends in "as " reaches this same
NullablePrimitiveType/PrimitiveType path without a wrapping context,
covered by the PrimitiveType kind itself when the lexer has already
produced a (possibly partial) identifier-shaped token there.
*/
var primitiveTypeSlotKinds = map[ast.NodeKind]bool{
	ast.NodeKindAsExpression:        true,
	ast.NodeKindIsExpression:        true,
	ast.NodeKindNullablePrimitiveType: true,
}

/*
PrimitiveTypes offers the closed set of primitive-type constants when the
cursor sits at the type position of an AsExpression, IsExpression, or
NullablePrimitiveType, or directly inside a partially-typed PrimitiveType
leaf.
*/
func PrimitiveTypes(an *active.ActiveNode, prefix string, token trace.CancellationToken) ([]string, error) {
	if token != nil {
		if err := token.ThrowIfCancelled(); err != nil {
			return nil, err
		}
	}

	if len(an.Ancestry) == 0 {
		return nil, nil
	}
	narrowest := an.Ancestry[0]

	triggered := narrowest.Kind() == ast.NodeKindPrimitiveType
	if !triggered && narrowest.IsContext() && primitiveTypeSlotKinds[narrowest.Kind()] {
		triggered = true
	}
	if !triggered {
		return nil, nil
	}

	var out []string
	for _, name := range parser.PrimitiveTypeNames() {
		if hasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	sortSuggestions(out)

	return out, nil
}
