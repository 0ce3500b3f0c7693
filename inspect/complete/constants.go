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
	"github.com/krotik/mquery/trace"
)

/*
LanguageConstants offers the single-token language constants: "nullable" inside an AsExpression/IsExpression/NullablePrimitiveType
type slot (by the time that Context node exists, the grammar has already
consumed "as"/"is"/"nullable" to get there, so its mere presence as the
narrowest ancestor is enough), and "optional" inside the first slot of a
Parameter under a FunctionExpression's ParameterList, i.e. before its
identifier has been read.
*/
func LanguageConstants(collection *ast.Collection, an *active.ActiveNode, prefix string, token trace.CancellationToken) ([]string, error) {
	if token != nil {
		if err := token.ThrowIfCancelled(); err != nil {
			return nil, err
		}
	}

	var out []string

	if len(an.Ancestry) == 0 {
		return out, nil
	}
	narrowest := an.Ancestry[0]

	if !narrowest.IsContext() {
		return out, nil
	}

	switch narrowest.Kind() {
	case ast.NodeKindAsExpression, ast.NodeKindIsExpression, ast.NodeKindNullablePrimitiveType:
		if hasPrefix("nullable", prefix) {
			out = append(out, "nullable")
		}
	case ast.NodeKindParameter:
		if len(collection.Children(narrowest.Id())) == 0 && hasPrefix("optional", prefix) {
			out = append(out, "optional")
		}
	}

	return out, nil
}
