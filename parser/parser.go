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
Strategy selects between the two parsing strategies.
Both produce identical trees; they differ only in how binary-operator
expressions are built internally.
*/
type Strategy int

/*
Known strategies.
*/
const (
	RecursiveDescent Strategy = iota
	Combinatorial
)

/*
EntryPoint selects which grammar non-terminal Parse starts at.
*/
type EntryPoint int

/*
Known entry points.
*/
const (
	EntryDefault EntryPoint = iota
	EntryExpression
	EntrySectionDocument
	EntryParameterList
)

/*
Parser is configured with a Strategy and drives a State to either a
completed Ast tree or a ParseError.
*/
type Parser struct {
	Strategy Strategy
}

/*
New returns a Parser using the given strategy.
*/
func New(strategy Strategy) *Parser {
	return &Parser{Strategy: strategy}
}

/*
Parse runs this parser's strategy over s starting at entry. On success it
returns the completed root Ast node and a nil error; s.Collection() holds
the full NodeIdMap. On failure it returns a nil root and a non-nil
*errs.ParseError; the root remains a Context node in s.Collection(), still
fully navigable. The one exception is UnusedTokensRemain: the expression
itself completed, so the sealed root Ast node is returned together with
the error.
*/
func (p *Parser) Parse(s *State, entry EntryPoint) (*ast.TNode, error) {
	var root *ast.TNode
	var err error

	switch entry {
	case EntryExpression:
		root, err = p.readExpression(s)
	case EntrySectionDocument:
		root, err = p.readSectionDocument(s)
	case EntryParameterList:
		root, err = p.readParameterList(s)
	default:
		if atKeyword(s, 0, "section") {
			root, err = p.readSectionDocument(s)
		} else {
			root, err = p.readExpression(s)
		}
	}

	if err != nil {
		return nil, err
	}

	if tok, ok := s.Peek(0); ok && tok.Kind != lexer.TokenEOF {
		return root, &errs.ParseError{
			Cause:          errs.CauseUnusedTokensRemain,
			TokenIndex:     s.TokenIndex(),
			FoundTokenData: tok.Data,
		}
	}

	return root, nil
}
