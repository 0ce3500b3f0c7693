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
	"github.com/krotik/mquery/config"
	"github.com/krotik/mquery/inspect/active"
	"github.com/krotik/mquery/inspect/types"
	"github.com/krotik/mquery/trace"
)

/*
Result aggregates the four independent autocomplete sub-inspectors. Each
field carries its own error so one sub-inspector failing does not prevent
the others from reporting.
*/
type Result struct {
	Keywords          []string
	KeywordsErr       error
	LanguageConstants []string
	ConstantsErr      error
	PrimitiveTypes    []string
	PrimitiveTypesErr error
	Fields            []FieldSuggestion
	FieldsErr         error
}

/*
Prefix returns the text to filter suggestions by: the identifier token the
cursor sits inside of, if any, else the empty string (matches everything).
*/
func Prefix(an *active.ActiveNode) string {
	if an.IdentifierUnderPosition != nil {
		return an.IdentifierUnderPosition.Literal
	}
	return ""
}

/*
Complete runs all four sub-inspectors against an active cursor position and
returns their combined Result. insp may be nil, in which case FieldAccess is
skipped (no type information available).
*/
func Complete(collection *ast.Collection, insp *types.Inspector, an *active.ActiveNode, token trace.CancellationToken) *Result {
	prefix := Prefix(an)
	res := &Result{}

	res.Keywords, res.KeywordsErr = Keywords(collection, an, prefix, token)
	res.LanguageConstants, res.ConstantsErr = LanguageConstants(collection, an, prefix, token)
	res.PrimitiveTypes, res.PrimitiveTypesErr = PrimitiveTypes(an, prefix, token)

	if insp != nil {
		res.Fields, res.FieldsErr = FieldAccess(insp, an, prefix, token)
	}

	cap := config.Int(config.AutocompleteResultCap)
	res.Keywords = capStrings(res.Keywords, cap)
	res.LanguageConstants = capStrings(res.LanguageConstants, cap)
	res.PrimitiveTypes = capStrings(res.PrimitiveTypes, cap)
	if len(res.Fields) > cap {
		res.Fields = res.Fields[:cap]
	}

	return res
}

func capStrings(items []string, cap int) []string {
	if cap >= 0 && len(items) > cap {
		return items[:cap]
	}
	return items
}
