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

/*
primitiveTypeNames is the closed set of primitive type keywords: what
readPrimitiveType accepts and what autocomplete's primitive-type
sub-inspector offers.
*/
var primitiveTypeNames = map[string]bool{
	"any": true, "anynonnull": true, "binary": true, "date": true,
	"datetime": true, "datetimezone": true, "duration": true, "function": true,
	"list": true, "logical": true, "none": true, "null": true, "number": true,
	"record": true, "table": true, "text": true, "time": true, "type": true,
	"action": true,
}

/*
PrimitiveTypeNames returns the closed set of primitive type keywords, sorted
is left to the caller (autocomplete sorts its own results).
*/
func PrimitiveTypeNames() []string {
	out := make([]string, 0, len(primitiveTypeNames))
	for k := range primitiveTypeNames {
		out = append(out, k)
	}
	return out
}

/*
atKeyword reports whether the token at offset is a keyword token with this
exact text.
*/
func atKeyword(s *State, offset int, kw string) bool {
	tok, ok := s.Peek(offset)
	return ok && tok.Kind == lexer.TokenKeyword && tok.Data == kw
}

/*
atOperator reports whether the token at offset is an operator token with
this exact text.
*/
func atOperator(s *State, offset int, op Operator) bool {
	tok, ok := s.Peek(offset)
	return ok && tok.Kind == lexer.TokenOperator && tok.Data == string(op)
}

func atKind(s *State, offset int, kind lexer.TokenKind) bool {
	tok, ok := s.Peek(offset)
	return ok && tok.Kind == kind
}

/*
expectKeyword consumes a keyword token with this exact text, or raises
ExpectedTokenKind.
*/
func (p *Parser) expectKeyword(s *State, kw string) error {
	if !atKeyword(s, 0, kw) {
		return p.raise(s, errs.CauseExpectedTokenKind, []string{kw}, "")
	}
	s.ReadToken()
	return nil
}

/*
readLeaf seals the current token as a leaf node: the context is started
before the token is consumed so the leaf's token range covers exactly that
token.
*/
func (s *State) readLeaf(kind ast.NodeKind, literal string) *ast.TNode {
	tok, _ := s.Peek(0)

	s.StartContext(kind)
	s.ReadToken()

	return s.EndContext(s.TokenIndex(), tok.PositionEnd, true, literal)
}

/*
readIdentifier reads an Identifier leaf, recognising a leading "@" as the
recursive-reference marker (stored verbatim in Literal, e.g. "@foo", so downstream scope code can detect
the prefix without a side channel).
*/
func (p *Parser) readIdentifier(s *State) (*ast.TNode, error) {
	if atKind(s, 0, lexer.TokenAtSign) {
		s.StartContext(ast.NodeKindIdentifier)
		s.ReadToken()

		tok, ok := s.Peek(0)
		if !ok || tok.Kind != lexer.TokenIdentifier {
			return nil, p.raise(s, errs.CauseExpectedTokenKind, []string{"identifier"}, "")
		}
		s.ReadToken()

		return s.EndContext(s.TokenIndex(), tok.PositionEnd, true, "@"+tok.Data), nil
	}

	tok, ok := s.Peek(0)
	if !ok || tok.Kind != lexer.TokenIdentifier {
		return nil, p.raise(s, errs.CauseExpectedTokenKind, []string{"identifier"}, "")
	}

	return s.readLeaf(ast.NodeKindIdentifier, tok.Data), nil
}

/*
readGeneralizedIdentifier reads a GeneralizedIdentifier leaf. M allows
keywords and dotted paths here; this engine accepts a single identifier-
shaped token, which covers the cases inspection cares about (record/section
field names).
*/
func (p *Parser) readGeneralizedIdentifier(s *State) (*ast.TNode, error) {
	tok, ok := s.Peek(0)
	if !ok || (tok.Kind != lexer.TokenIdentifier && tok.Kind != lexer.TokenKeyword) {
		return nil, p.raise(s, errs.CauseExpectedGeneralizedIdentifier, []string{"generalized identifier"}, "")
	}

	return s.readLeaf(ast.NodeKindGeneralizedIdentifier, tok.Data), nil
}

/*
readLiteral reads a LiteralExpression leaf from a number or text token.
*/
func (p *Parser) readLiteral(s *State) (*ast.TNode, error) {
	tok, ok := s.Peek(0)
	if !ok || (tok.Kind != lexer.TokenNumberLiteral && tok.Kind != lexer.TokenTextLiteral) {
		return nil, p.raise(s, errs.CauseInvalidLiteralValue, []string{"number or text literal"}, "")
	}

	return s.readLeaf(ast.NodeKindLiteralExpression, tok.Data), nil
}

/*
readConstant reads a Constant leaf from a single keyword or operator token
matching one of names.
*/
func (p *Parser) readConstant(s *State, names ...string) (*ast.TNode, error) {
	tok, ok := s.Peek(0)
	if !ok {
		return nil, p.raise(s, errs.CauseExpectedAnyTokenKind, names, "")
	}
	for _, n := range names {
		if tok.Data == n {
			return s.readLeaf(ast.NodeKindConstant, tok.Data), nil
		}
	}
	return nil, p.raise(s, errs.CauseExpectedAnyTokenKind, names, "")
}

/*
readPrimitiveType reads a PrimitiveType leaf: one identifier-shaped token
whose text is in the closed primitiveTypeNames set.
*/
func (p *Parser) readPrimitiveType(s *State) (*ast.TNode, error) {
	tok, ok := s.Peek(0)
	if !ok || !primitiveTypeNames[tok.Data] {
		return nil, p.raise(s, errs.CauseInvalidPrimitiveType, PrimitiveTypeNames(), "")
	}

	return s.readLeaf(ast.NodeKindPrimitiveType, tok.Data), nil
}
