/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package errs models the engine's two disjoint error families:
// CommonError (programming bug or cancellation, never recoverable) and
// ParseError (expected, describes incomplete or invalid source).
package errs

import (
	"fmt"

	"github.com/krotik/mquery/ast"
)

/*
CommonError is an unrecoverable error: a programming bug or a cancellation.
It is never produced in response to invalid M source.
*/
type CommonError struct {
	Message       string
	CorrelationId uint64
	InnerError    error
}

func (e *CommonError) Error() string {
	if e.InnerError != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.InnerError)
	}
	return e.Message
}

func (e *CommonError) Unwrap() error {
	return e.InnerError
}

/*
NewCancellationError builds the CommonError a cancelled traversal, scope
build, type inference, or autocomplete run terminates with.
*/
func NewCancellationError() *CommonError {
	return &CommonError{Message: "operation was cancelled"}
}

/*
ParseErrorCause is the closed enum of inner parse-error variants the
parser can raise.
*/
type ParseErrorCause string

/*
Known parse error causes.
*/
const (
	CauseInvalidPrimitiveType                  ParseErrorCause = "InvalidPrimitiveType"
	CauseExpectedAnyTokenKind                  ParseErrorCause = "ExpectedAnyTokenKind"
	CauseExpectedClosing                       ParseErrorCause = "ExpectedClosing"
	CauseExpectedGeneralizedIdentifier          ParseErrorCause = "ExpectedGeneralizedIdentifier"
	CauseExpectedTokenKind                     ParseErrorCause = "ExpectedTokenKind"
	CauseInvalidLiteralValue                   ParseErrorCause = "InvalidLiteralValue"
	CauseRequiredParameterAfterOptionalParameter ParseErrorCause = "RequiredParameterAfterOptionalParameter"
	CauseUnterminatedBracket                   ParseErrorCause = "UnterminatedBracket"
	CauseUnterminatedParenthesis                ParseErrorCause = "UnterminatedParenthesis"
	CauseUnusedTokensRemain                    ParseErrorCause = "UnusedTokensRemain"
)

/*
ParseError is the expected-failure family: incomplete or invalid source.
The parser leaves a navigable, partial NodeIdMap alongside it.
*/
type ParseError struct {
	Cause              ParseErrorCause
	TokenIndex         int
	ContextNodeId      ast.NodeId
	ExpectedTokenKinds []string
	FoundTokenData     string
	Detail             string
}

func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s at token %d: %s", e.Cause, e.TokenIndex, e.Detail)
	}
	return fmt.Sprintf("%s at token %d", e.Cause, e.TokenIndex)
}
