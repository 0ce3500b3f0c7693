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
	"github.com/krotik/mquery/errs"
)

/*
raise builds the ParseError a failed token read produces: it carries the
current context node id, the expected token kinds, and the found token (if
any) - the state is left with the partial context tree intact.
*/
func (p *Parser) raise(s *State, cause errs.ParseErrorCause, expected []string, detail string) error {
	contextId, _ := s.CurrentContextId()

	found := ""
	if tok, ok := s.Peek(0); ok {
		found = tok.Data
	}

	return &errs.ParseError{
		Cause:              cause,
		TokenIndex:         s.TokenIndex(),
		ContextNodeId:      contextId,
		ExpectedTokenKinds: expected,
		FoundTokenData:     found,
		Detail:             detail,
	}
}
