/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import "github.com/krotik/mquery/ast"

/*
OperatorFamily groups binary operators by the shape of their result-type
rule.
*/
type OperatorFamily string

/*
Known operator families.
*/
const (
	FamilyLogical     OperatorFamily = "Logical"
	FamilyEquality    OperatorFamily = "Equality"
	FamilyRelational  OperatorFamily = "Relational"
	FamilyArithmetic  OperatorFamily = "Arithmetic"
	FamilyConcatenate OperatorFamily = "Concatenate"
	FamilyMetadata    OperatorFamily = "Metadata"
)

/*
Operator is one lexeme the precedence table recognizes, e.g. "+", "and",
"<>". The grammar's full keyword/operator enumeration is external data
; this lists only what the binary-expression machinery and the
type lattice need to agree on.
*/
type Operator string

/*
Known operators, grouped by family.
*/
const (
	OpOr  Operator = "or"
	OpAnd Operator = "and"

	OpEqual    Operator = "="
	OpNotEqual Operator = "<>"

	OpLess      Operator = "<"
	OpLessEq    Operator = "<="
	OpGreater   Operator = ">"
	OpGreaterEq Operator = ">="

	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"

	OpConcat Operator = "&"

	OpMeta Operator = "meta"

	OpNot Operator = "not"
)

/*
precedence is the binding power used by the combinatorial (Pratt) strategy
and by disambiguating the recursive-descent strategy's nesting order. Higher
binds tighter.
*/
var precedence = map[Operator]int{
	OpMeta:      10,
	OpOr:        20,
	OpAnd:       30,
	OpEqual:     40,
	OpNotEqual:  40,
	OpLess:      40,
	OpLessEq:    40,
	OpGreater:   40,
	OpGreaterEq: 40,
	OpConcat:    50,
	OpAdd:       60,
	OpSub:       60,
	OpMul:       70,
	OpDiv:       70,
}

/*
Family returns which operator family op belongs to.
*/
func Family(op Operator) OperatorFamily {
	switch op {
	case OpOr, OpAnd:
		return FamilyLogical
	case OpEqual, OpNotEqual:
		return FamilyEquality
	case OpLess, OpLessEq, OpGreater, OpGreaterEq:
		return FamilyRelational
	case OpAdd, OpSub, OpMul, OpDiv:
		return FamilyArithmetic
	case OpConcat:
		return FamilyConcatenate
	case OpMeta:
		return FamilyMetadata
	}
	return ""
}

/*
Precedence returns op's binding power, and whether op is a known binary
operator at all.
*/
func Precedence(op Operator) (int, bool) {
	p, ok := precedence[op]
	return p, ok
}

/*
NodeKindForFamily returns the NodeKind a binary expression of this family
produces.
*/
func NodeKindForFamily(family OperatorFamily) ast.NodeKind {
	switch family {
	case FamilyLogical:
		return ast.NodeKindLogicalExpression
	case FamilyEquality:
		return ast.NodeKindEqualityExpression
	case FamilyRelational:
		return ast.NodeKindRelationalExpression
	case FamilyMetadata:
		return ast.NodeKindMetadataExpression
	default:
		// Arithmetic and concatenation share one non-terminal in M's actual
		// grammar: "1 + 2 & "x""" is one ArithmeticExpression chain.
		return ast.NodeKindArithmeticExpression
	}
}
