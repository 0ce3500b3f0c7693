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
readBinOpExpressionCombinatorial implements the combinatorial strategy:
operator-precedence (Pratt) climbing driven by one binding-power table,
instead of the recursive-descent strategy's one mutually-recursive function
per precedence tier. Both strategies share every leaf/primary reader and
fold operands the same way (State.WrapAsFirstChild), so they provably
produce an identical tree for the same input (the "two
strategies, one tree" contract) - they differ only in how the climb over
binary operators is driven.
*/
func (p *Parser) readBinOpExpressionCombinatorial(s *State, minBindingPower int) (*ast.TNode, error) {
	left, err := p.readIsExpression(s)
	if err != nil {
		return nil, err
	}

	for {
		op, ok := matchAnyOperator(s, allBinaryOperators)
		if !ok {
			break
		}

		bp, known := Precedence(op)
		if !known || bp < minBindingPower {
			break
		}
		s.ReadToken()

		kind := NodeKindForFamily(Family(op))
		wrapperId := s.WrapAsFirstChild(left.Id, kind)
		s.SetContextLiteral(wrapperId, string(op))

		// Left-associative: the right side only binds operators strictly
		// tighter than this one, so a same-precedence operator that follows
		// closes this fold and becomes a sibling step in the caller's loop
		// instead of being absorbed into the right operand.
		if _, err := p.readBinOpExpressionCombinatorial(s, bp+1); err != nil {
			return nil, err
		}

		left = s.EndContext(s.TokenIndex(), endPositionOf(s), false, string(op))
	}

	return left, nil
}

/*
allBinaryOperators is the flat operator set the combinatorial strategy scans
for between operands, independent of precedence tier.
*/
var allBinaryOperators = []Operator{
	OpMeta, OpOr, OpAnd,
	OpEqual, OpNotEqual,
	OpLess, OpLessEq, OpGreater, OpGreaterEq,
	OpConcat, OpAdd, OpSub,
	OpMul, OpDiv,
}
