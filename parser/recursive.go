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

import (
	"github.com/krotik/mquery/ast"
	"github.com/krotik/mquery/errs"
	"github.com/krotik/mquery/lexer"
)

// binaryLevels lists the binary-operator precedence tiers from loosest to
// tightest, in the order the recursive-descent strategy's one-routine-per-
// level chain visits them. Each level is tried after the next-tighter level
// has already consumed as much as it can - the textbook recursive-descent
// precedence climb.
var binaryLevels = [][]Operator{
	{OpMeta},
	{OpOr},
	{OpAnd},
	{OpEqual, OpNotEqual},
	{OpLess, OpLessEq, OpGreater, OpGreaterEq},
	{OpConcat, OpAdd, OpSub},
	{OpMul, OpDiv},
}

/*
readExpression dispatches on the leading keyword to the handful of
constructs that occupy a whole Expression slot in M's grammar (let, if,
each, try), falling through to the binary-operator chain for everything
else.
*/
func (p *Parser) readExpression(s *State) (*ast.TNode, error) {
	switch {
	case atKeyword(s, 0, "each"):
		return p.readEachExpression(s)
	case atKeyword(s, 0, "let"):
		return p.readLetExpression(s)
	case atKeyword(s, 0, "if"):
		return p.readIfExpression(s)
	case atKeyword(s, 0, "try"):
		return p.readErrorHandlingExpression(s)
	}

	if p.Strategy == Combinatorial {
		return p.readBinOpExpressionCombinatorial(s, 0)
	}
	return p.readBinOpExpressionRecursive(s, 0)
}

/*
readBinOpExpressionRecursive implements the recursive-descent strategy: one
routine per precedence level, each calling the next-tighter level for its
operands and folding left-associatively as matching operators are found.
*/
func (p *Parser) readBinOpExpressionRecursive(s *State, level int) (*ast.TNode, error) {
	if level >= len(binaryLevels) {
		return p.readIsExpression(s)
	}

	left, err := p.readBinOpExpressionRecursive(s, level+1)
	if err != nil {
		return nil, err
	}

	for {
		op, ok := matchAnyOperator(s, binaryLevels[level])
		if !ok {
			return left, nil
		}
		s.ReadToken()

		kind := NodeKindForFamily(Family(op))
		wrapperId := s.WrapAsFirstChild(left.Id, kind)
		s.SetContextLiteral(wrapperId, string(op))

		if _, err := p.readBinOpExpressionRecursive(s, level+1); err != nil {
			return nil, err
		}

		left = s.EndContext(s.TokenIndex(), endPositionOf(s), false, string(op))
	}
}

/*
matchAnyOperator reports whether the current token is one of ops, returning
the matched Operator.
*/
func matchAnyOperator(s *State, ops []Operator) (Operator, bool) {
	tok, ok := s.Peek(0)
	if !ok || (tok.Kind != lexer.TokenOperator && tok.Kind != lexer.TokenKeyword) {
		return "", false
	}
	for _, op := range ops {
		if tok.Data == string(op) {
			return op, true
		}
	}
	return "", false
}

/*
endPositionOf returns the position just past the most recently consumed
token - the end position to seal a node whose last child ended there.
*/
func endPositionOf(s *State) ast.Position {
	if tok, ok := s.Peek(-1); ok {
		return tok.PositionEnd
	}
	return ast.Position{}
}

/*
readIsExpression wraps readAsExpression and checks for a trailing "is
<primitive type>" suffix.
*/
func (p *Parser) readIsExpression(s *State) (*ast.TNode, error) {
	left, err := p.readAsExpression(s)
	if err != nil {
		return nil, err
	}

	if !atKeyword(s, 0, "is") {
		return left, nil
	}
	s.ReadToken()

	s.WrapAsFirstChild(left.Id, ast.NodeKindIsExpression)

	if _, err := p.readNullablePrimitiveType(s); err != nil {
		return nil, err
	}

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
}

/*
readAsExpression wraps readUnaryExpression and checks for a trailing "as
<nullable primitive type>" suffix.
*/
func (p *Parser) readAsExpression(s *State) (*ast.TNode, error) {
	left, err := p.readUnaryExpression(s)
	if err != nil {
		return nil, err
	}

	if !atKeyword(s, 0, "as") {
		return left, nil
	}
	s.ReadToken()

	s.WrapAsFirstChild(left.Id, ast.NodeKindAsExpression)

	if _, err := p.readNullablePrimitiveType(s); err != nil {
		return nil, err
	}

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
}

/*
readNullablePrimitiveType reads an optional "nullable" marker followed by a
primitive type, producing a NullablePrimitiveType wrapper only when the
marker is present (otherwise the bare PrimitiveType leaf is returned
directly, matching the node shape autocomplete's primitive-type and
language-constant sub-inspectors expect).
*/
func (p *Parser) readNullablePrimitiveType(s *State) (*ast.TNode, error) {
	if atKeyword(s, 0, "nullable") {
		s.StartContext(ast.NodeKindNullablePrimitiveType)
		s.ReadToken()

		if _, err := p.readPrimitiveType(s); err != nil {
			return nil, err
		}

		return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
	}

	return p.readPrimitiveType(s)
}

/*
readUnaryExpression handles leading "not"/"+"/"-" prefixes.
*/
func (p *Parser) readUnaryExpression(s *State) (*ast.TNode, error) {
	if atKeyword(s, 0, "not") || atOperator(s, 0, OpAdd) || atOperator(s, 0, OpSub) {
		opTok, _ := s.Peek(0)

		id := s.StartContext(ast.NodeKindUnaryExpression)
		s.ReadToken()
		s.NoteTokenConsumed(id, opTok, s.TokenIndex()-1)

		if _, err := p.readUnaryExpression(s); err != nil {
			return nil, err
		}

		return s.EndContext(s.TokenIndex(), endPositionOf(s), false, opTok.Data), nil
	}

	return p.readRecursivePrimaryExpression(s)
}

/*
readRecursivePrimaryExpression reads a primary expression and then any chain
of FieldSelector / FieldProjection / ItemAccessExpression / InvokeExpression
suffixes, wrapping the whole chain in a RecursivePrimaryExpression once a
first suffix is found (recursiveExpressionPreviousSibling navigates exactly
this chain).
*/
func (p *Parser) readRecursivePrimaryExpression(s *State) (*ast.TNode, error) {
	head, err := p.readPrimaryExpression(s)
	if err != nil {
		return nil, err
	}

	wrapped := false
	current := head

	for {
		switch {
		case atKind(s, 0, lexer.TokenParenthesisOpen):
			if !wrapped {
				s.WrapAsFirstChild(current.Id, ast.NodeKindRecursivePrimaryExpression)
				wrapped = true
			}
			if err := p.readInvokeExpressionSuffix(s); err != nil {
				return nil, err
			}

		case atKind(s, 0, lexer.TokenBracketOpen):
			if !wrapped {
				s.WrapAsFirstChild(current.Id, ast.NodeKindRecursivePrimaryExpression)
				wrapped = true
			}
			if err := p.readFieldAccessSuffix(s); err != nil {
				return nil, err
			}

		case atKind(s, 0, lexer.TokenBraceOpen):
			if !wrapped {
				s.WrapAsFirstChild(current.Id, ast.NodeKindRecursivePrimaryExpression)
				wrapped = true
			}
			if err := p.readItemAccessSuffix(s); err != nil {
				return nil, err
			}

		default:
			if !wrapped {
				return current, nil
			}
			return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
		}
	}
}

func (p *Parser) readInvokeExpressionSuffix(s *State) error {
	s.StartContext(ast.NodeKindInvokeExpression)
	s.ReadToken() // "("

	for !atKind(s, 0, lexer.TokenParenthesisClose) {
		if _, err := p.readExpression(s); err != nil {
			return err
		}
		if atKind(s, 0, lexer.TokenComma) {
			s.ReadToken()
			continue
		}
		break
	}

	if !atKind(s, 0, lexer.TokenParenthesisClose) {
		return p.raise(s, errs.CauseUnterminatedParenthesis, []string{")"}, "")
	}
	s.ReadToken()

	s.EndContext(s.TokenIndex(), endPositionOf(s), false, "")
	return nil
}

func (p *Parser) readItemAccessSuffix(s *State) error {
	s.StartContext(ast.NodeKindItemAccessExpression)
	s.ReadToken() // "{"

	if _, err := p.readExpression(s); err != nil {
		return err
	}

	if !atKind(s, 0, lexer.TokenBraceClose) {
		return p.raise(s, errs.CauseExpectedClosing, []string{"}"}, "")
	}
	s.ReadToken()

	s.EndContext(s.TokenIndex(), endPositionOf(s), false, "")
	return nil
}

/*
readFieldAccessSuffix reads "[" ... "]", disambiguating FieldSelector from
FieldProjection by whether the content opens with another "[".
*/
func (p *Parser) readFieldAccessSuffix(s *State) error {
	if atKind(s, 1, lexer.TokenBracketOpen) {
		return p.readFieldProjectionSuffix(s)
	}
	return p.readFieldSelectorSuffix(s)
}

func (p *Parser) readFieldSelectorSuffix(s *State) error {
	s.StartContext(ast.NodeKindFieldSelector)
	s.ReadToken() // "["

	if _, err := p.readGeneralizedIdentifier(s); err != nil {
		return err
	}

	if !atKind(s, 0, lexer.TokenBracketClose) {
		return p.raise(s, errs.CauseUnterminatedBracket, []string{"]"}, "")
	}
	s.ReadToken()

	optional := ""
	if atKind(s, 0, lexer.TokenQuestionMark) {
		s.ReadToken()
		optional = "?"
	}

	s.EndContext(s.TokenIndex(), endPositionOf(s), false, optional)
	return nil
}

func (p *Parser) readFieldProjectionSuffix(s *State) error {
	s.StartContext(ast.NodeKindFieldProjection)
	s.ReadToken() // outer "["

	for {
		s.ReadToken() // inner "["
		if _, err := p.readGeneralizedIdentifier(s); err != nil {
			return err
		}
		if !atKind(s, 0, lexer.TokenBracketClose) {
			return p.raise(s, errs.CauseUnterminatedBracket, []string{"]"}, "")
		}
		s.ReadToken()

		if atKind(s, 0, lexer.TokenComma) {
			s.ReadToken()
			continue
		}
		break
	}

	if !atKind(s, 0, lexer.TokenBracketClose) {
		return p.raise(s, errs.CauseExpectedClosing, []string{"]"}, "")
	}
	s.ReadToken()

	optional := ""
	if atKind(s, 0, lexer.TokenQuestionMark) {
		s.ReadToken()
		optional = "?"
	}

	s.EndContext(s.TokenIndex(), endPositionOf(s), false, optional)
	return nil
}

/*
readPrimaryExpression reads the innermost expression forms: literals,
constants, identifiers, parenthesized/function expressions, records, and
lists.
*/
func (p *Parser) readPrimaryExpression(s *State) (*ast.TNode, error) {
	tok, ok := s.Peek(0)
	if !ok {
		return nil, p.raise(s, errs.CauseExpectedAnyTokenKind, []string{"expression"}, "unexpected end of input")
	}

	switch {
	case tok.Kind == lexer.TokenNumberLiteral || tok.Kind == lexer.TokenTextLiteral:
		return p.readLiteral(s)

	case tok.Data == "true" || tok.Data == "false" || tok.Data == "null":
		return p.readConstant(s, "true", "false", "null")

	case tok.Kind == lexer.TokenIdentifier || tok.Kind == lexer.TokenAtSign:
		return p.readIdentifierExpression(s)

	case tok.Kind == lexer.TokenParenthesisOpen:
		return p.readParenthesizedOrFunctionExpression(s)

	case tok.Kind == lexer.TokenBracketOpen:
		return p.readRecordExpression(s)

	case tok.Kind == lexer.TokenBraceOpen:
		return p.readListExpression(s)
	}

	return nil, p.raise(s, errs.CauseExpectedAnyTokenKind, []string{"expression"}, "")
}

func (p *Parser) readIdentifierExpression(s *State) (*ast.TNode, error) {
	s.StartContext(ast.NodeKindIdentifierExpression)

	if _, err := p.readIdentifier(s); err != nil {
		return nil, err
	}

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
}

/*
readParenthesizedOrFunctionExpression disambiguates "(identifier[, ...]) =>
expr" from "(" expr ")" by speculatively reading a ParameterList and
checking for a following "=>". Otherwise the speculative branch is
restored via checkpoint before the parenthesized branch is read for real,
so no Context node from it leaks into the final NodeIdMap. The one
exception is a source that ends inside the parameter list: that branch is
kept, with its error (see below).
*/
func (p *Parser) readParenthesizedOrFunctionExpression(s *State) (*ast.TNode, error) {
	cp := s.Checkpoint()

	if params, err := p.readParameterList(s); err == nil {
		if atOperator(s, 0, "=>") {
			return p.finishFunctionExpression(s, params)
		}
	} else if _, more := s.Peek(0); !more {
		// The source ended mid parameter list. Committing this branch (with
		// its error) keeps the ParameterList/Parameter contexts in the
		// NodeIdMap, which is what positional inspection at the frontier
		// needs; restoring would replace them with an equally-failed
		// parenthesized expression that knows less.
		return nil, err
	}

	s.RestoreCheckpoint(cp)
	return p.readParenthesizedExpression(s)
}

func (p *Parser) finishFunctionExpression(s *State, params *ast.TNode) (*ast.TNode, error) {
	s.WrapAsFirstChild(params.Id, ast.NodeKindFunctionExpression)

	s.ReadToken() // "=>"

	if _, err := p.readExpression(s); err != nil {
		return nil, err
	}

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
}

func (p *Parser) readParenthesizedExpression(s *State) (*ast.TNode, error) {
	s.StartContext(ast.NodeKindParenthesizedExpression)
	s.ReadToken() // "("

	if _, err := p.readExpression(s); err != nil {
		return nil, err
	}

	if !atKind(s, 0, lexer.TokenParenthesisClose) {
		return nil, p.raise(s, errs.CauseUnterminatedParenthesis, []string{")"}, "")
	}
	s.ReadToken()

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
}

/*
readEachExpression reads "each <expr>"; the implicit "_" parameter is not a
grammar construct, it is a scope fact the scope builder attaches.
*/
func (p *Parser) readEachExpression(s *State) (*ast.TNode, error) {
	s.StartContext(ast.NodeKindEachExpression)
	s.ReadToken() // "each"

	if _, err := p.readExpression(s); err != nil {
		return nil, err
	}

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
}

/*
readLetExpression reads "let" name1 = expr1 [, name2 = expr2 ...] "in" body.
*/
func (p *Parser) readLetExpression(s *State) (*ast.TNode, error) {
	s.StartContext(ast.NodeKindLetExpression)
	s.ReadToken() // "let"

	for {
		if _, err := p.readIdentifierPairedExpression(s); err != nil {
			return nil, err
		}
		if atKind(s, 0, lexer.TokenComma) {
			s.ReadToken()
			continue
		}
		break
	}

	if err := p.expectKeyword(s, "in"); err != nil {
		return nil, err
	}

	if _, err := p.readExpression(s); err != nil {
		return nil, err
	}

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
}

func (p *Parser) readIdentifierPairedExpression(s *State) (*ast.TNode, error) {
	s.StartContext(ast.NodeKindIdentifierPairedExpression)

	if _, err := p.readIdentifier(s); err != nil {
		return nil, err
	}
	if !atOperator(s, 0, OpEqual) {
		return nil, p.raise(s, errs.CauseExpectedTokenKind, []string{"="}, "")
	}
	s.ReadToken()

	if _, err := p.readExpression(s); err != nil {
		return nil, err
	}

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
}

func (p *Parser) readGeneralizedIdentifierPairedExpression(s *State) (*ast.TNode, error) {
	s.StartContext(ast.NodeKindGeneralizedIdentifierPairedExpression)

	if _, err := p.readGeneralizedIdentifier(s); err != nil {
		return nil, err
	}
	if !atOperator(s, 0, OpEqual) {
		return nil, p.raise(s, errs.CauseExpectedTokenKind, []string{"="}, "")
	}
	s.ReadToken()

	if _, err := p.readExpression(s); err != nil {
		return nil, err
	}

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
}

/*
readIfExpression reads "if" cond "then" trueExpr "else" falseExpr.
*/
func (p *Parser) readIfExpression(s *State) (*ast.TNode, error) {
	s.StartContext(ast.NodeKindIfExpression)
	s.ReadToken() // "if"

	if _, err := p.readExpression(s); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(s, "then"); err != nil {
		return nil, err
	}
	if _, err := p.readExpression(s); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(s, "else"); err != nil {
		return nil, err
	}
	if _, err := p.readExpression(s); err != nil {
		return nil, err
	}

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
}

/*
readErrorHandlingExpression reads "try" expr ["otherwise" expr].
*/
func (p *Parser) readErrorHandlingExpression(s *State) (*ast.TNode, error) {
	s.StartContext(ast.NodeKindErrorHandlingExpression)
	s.ReadToken() // "try"

	if _, err := p.readExpression(s); err != nil {
		return nil, err
	}

	if atKeyword(s, 0, "otherwise") {
		s.ReadToken()
		if _, err := p.readExpression(s); err != nil {
			return nil, err
		}
	}

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
}

/*
readRecordExpression reads "[" key1 = expr1 [, key2 = expr2 ...] "]".
*/
func (p *Parser) readRecordExpression(s *State) (*ast.TNode, error) {
	s.StartContext(ast.NodeKindRecordExpression)
	s.ReadToken() // "["

	for !atKind(s, 0, lexer.TokenBracketClose) {
		if _, err := p.readGeneralizedIdentifierPairedExpression(s); err != nil {
			return nil, err
		}
		if atKind(s, 0, lexer.TokenComma) {
			s.ReadToken()
			continue
		}
		break
	}

	if !atKind(s, 0, lexer.TokenBracketClose) {
		return nil, p.raise(s, errs.CauseExpectedClosing, []string{"]"}, "")
	}
	s.ReadToken()

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
}

/*
readListExpression reads "{" item1 [, item2 ...] "}".
*/
func (p *Parser) readListExpression(s *State) (*ast.TNode, error) {
	s.StartContext(ast.NodeKindListExpression)
	s.ReadToken() // "{"

	for !atKind(s, 0, lexer.TokenBraceClose) {
		if _, err := p.readExpression(s); err != nil {
			return nil, err
		}
		if atKind(s, 0, lexer.TokenComma) {
			s.ReadToken()
			continue
		}
		break
	}

	if !atKind(s, 0, lexer.TokenBraceClose) {
		return nil, p.raise(s, errs.CauseExpectedClosing, []string{"}"}, "")
	}
	s.ReadToken()

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
}

/*
readParameterList reads "(" [param1 [, param2 ...]] ")". A required
parameter following an optional one is a parse error
(RequiredParameterAfterOptionalParameter).
*/
func (p *Parser) readParameterList(s *State) (*ast.TNode, error) {
	s.StartContext(ast.NodeKindParameterList)

	if !atKind(s, 0, lexer.TokenParenthesisOpen) {
		return nil, p.raise(s, errs.CauseExpectedTokenKind, []string{"("}, "")
	}
	s.ReadToken()

	seenOptional := false
	for !atKind(s, 0, lexer.TokenParenthesisClose) {
		optional, err := p.readParameter(s)
		if err != nil {
			return nil, err
		}

		if seenOptional && !optional {
			return nil, p.raise(s, errs.CauseRequiredParameterAfterOptionalParameter, nil, "")
		}
		seenOptional = seenOptional || optional

		if atKind(s, 0, lexer.TokenComma) {
			s.ReadToken()
			continue
		}
		break
	}

	if !atKind(s, 0, lexer.TokenParenthesisClose) {
		return nil, p.raise(s, errs.CauseUnterminatedParenthesis, []string{")"}, "")
	}
	s.ReadToken()

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
}

/*
readParameter reads ["optional"] name [as nullablePrimitiveType]. It returns
whether the parameter was marked optional.
*/
func (p *Parser) readParameter(s *State) (bool, error) {
	s.StartContext(ast.NodeKindParameter)

	optional := false
	if atKeyword(s, 0, "optional") {
		s.ReadToken()
		optional = true
	}

	if _, err := p.readIdentifier(s); err != nil {
		return false, err
	}

	if atKeyword(s, 0, "as") {
		s.ReadToken()
		if _, err := p.readNullablePrimitiveType(s); err != nil {
			return false, err
		}
	}

	literal := ""
	if optional {
		literal = "optional"
	}
	s.EndContext(s.TokenIndex(), endPositionOf(s), false, literal)

	return optional, nil
}

/*
readSectionDocument reads "section" [name] ";" member1 ["; member2 ...]".
*/
func (p *Parser) readSectionDocument(s *State) (*ast.TNode, error) {
	s.StartContext(ast.NodeKindSection)

	if err := p.expectKeyword(s, "section"); err != nil {
		return nil, err
	}

	if atKind(s, 0, lexer.TokenIdentifier) {
		if _, err := p.readIdentifier(s); err != nil {
			return nil, err
		}
	}

	skipSemicolon(s)

	for atKind(s, 0, lexer.TokenKeyword) || atKind(s, 0, lexer.TokenIdentifier) {
		if _, err := p.readSectionMember(s); err != nil {
			return nil, err
		}
		skipSemicolon(s)
	}

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, ""), nil
}

func skipSemicolon(s *State) {
	if atKind(s, 0, lexer.TokenOperator) {
		if tok, ok := s.Peek(0); ok && tok.Data == ";" {
			s.ReadToken()
		}
	}
}

/*
readSectionMember reads ["shared"] name "=" expr.
*/
func (p *Parser) readSectionMember(s *State) (*ast.TNode, error) {
	s.StartContext(ast.NodeKindSectionMember)

	shared := ""
	if atKeyword(s, 0, "shared") {
		s.ReadToken()
		shared = "shared"
	}

	if _, err := p.readIdentifierPairedExpression(s); err != nil {
		return nil, err
	}

	return s.EndContext(s.TokenIndex(), endPositionOf(s), false, shared), nil
}
