/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package task

import (
	"github.com/krotik/mquery/ast"
	"github.com/krotik/mquery/errs"
	"github.com/krotik/mquery/lexer"
	"github.com/krotik/mquery/parser"
)

/*
Stage tags which half of the pipeline produced a task result.
*/
type Stage int

/*
Known stages.
*/
const (
	Lex Stage = iota
	Parse
)

func (s Stage) String() string {
	if s == Lex {
		return "Lex"
	}
	return "Parse"
}

/*
ResultKind tags the shape of a task result's payload.
*/
type ResultKind int

/*
Known result kinds.
*/
const (
	Ok ResultKind = iota
	LexError
	ParseError
	CommonError
)

func (k ResultKind) String() string {
	switch k {
	case Ok:
		return "Ok"
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case CommonError:
		return "CommonError"
	}
	return "Unknown"
}

/*
LexTaskResult is tryLex's stage-tagged result: either a usable Snapshot or
the error the external lexer hook returned.
*/
type LexTaskResult struct {
	Stage     Stage
	Kind      ResultKind
	Snapshot  *lexer.Snapshot
	LexErr    error
	CommonErr *errs.CommonError
}

/*
ParseTaskResult is tryParse's stage-tagged result. On Ok, Root and
Collection describe a completed parse. On Kind == ParseError, Collection
is still populated - the NodeIdMap remains navigable down to the innermost
Context node the parser reached - and ParseErr carries the failure cause.
Root is nil on that path, except for UnusedTokensRemain, where it is the
completed expression's root.
*/
type ParseTaskResult struct {
	Stage      Stage
	Kind       ResultKind
	Root       *ast.TNode
	Collection *ast.Collection
	ParseErr   *errs.ParseError
	CommonErr  *errs.CommonError
}

/*
TriedLexParseTask is tryLexParse's combined result: the Lex stage's result,
and - only if lexing succeeded - the Parse stage's result run against it.
*/
type TriedLexParseTask struct {
	Lex   *LexTaskResult
	Parse *ParseTaskResult
}

/*
TryLex runs settings.Lex over text and wraps its outcome as a stage-tagged
LexTaskResult. A nil settings.Lex is reported as a CommonError: the façade
has no tokenizer to drive (tokenizing is an external concern this engine
treats as an opaque oracle).
*/
func TryLex(text string, settings *Settings) *LexTaskResult {
	if settings == nil || settings.Lex == nil {
		return &LexTaskResult{
			Stage: Lex,
			Kind:  CommonError,
			CommonErr: &errs.CommonError{
				Message: "no lexer configured",
			},
		}
	}

	if tok := settings.token(); tok != nil {
		if err := tok.ThrowIfCancelled(); err != nil {
			return &LexTaskResult{Stage: Lex, Kind: CommonError, CommonErr: errs.NewCancellationError()}
		}
	}

	mgr := settings.manager()
	defer mgr.Entry(mgr.NextCorrelationId(), "task", "tryLex")()

	snap, err := settings.Lex(text)
	if err != nil {
		return &LexTaskResult{Stage: Lex, Kind: LexError, LexErr: err}
	}

	return &LexTaskResult{Stage: Lex, Kind: Ok, Snapshot: snap}
}

/*
TryParse runs the parser over an already-successful lex result and wraps
its outcome as a stage-tagged ParseTaskResult. Calling it with a
non-Ok lexResult is a programmer error the façade reports as a CommonError
rather than panicking.
*/
func TryParse(lexResult *LexTaskResult, settings *Settings) *ParseTaskResult {
	if lexResult == nil || lexResult.Kind != Ok || lexResult.Snapshot == nil {
		return &ParseTaskResult{
			Stage: Parse,
			Kind:  CommonError,
			CommonErr: &errs.CommonError{
				Message: "tryParse requires a successful lex result",
			},
		}
	}

	if settings == nil {
		settings = NewSettings()
	}

	if tok := settings.token(); tok != nil {
		if err := tok.ThrowIfCancelled(); err != nil {
			return &ParseTaskResult{Stage: Parse, Kind: CommonError, CommonErr: errs.NewCancellationError()}
		}
	}

	mgr := settings.manager()
	defer mgr.Entry(mgr.NextCorrelationId(), "task", "tryParse")()

	state := settings.stateFactory()(lexResult.Snapshot)
	p := parser.New(settings.strategy())

	root, err := p.Parse(state, settings.entryPoint())

	if err != nil {
		if pe, ok := err.(*errs.ParseError); ok {
			return &ParseTaskResult{
				Stage:      Parse,
				Kind:       ParseError,
				Root:       root,
				Collection: state.Collection(),
				ParseErr:   pe,
			}
		}
		return &ParseTaskResult{
			Stage:     Parse,
			Kind:      CommonError,
			CommonErr: &errs.CommonError{Message: err.Error(), InnerError: err},
		}
	}

	return &ParseTaskResult{
		Stage:      Parse,
		Kind:       Ok,
		Root:       root,
		Collection: state.Collection(),
	}
}

/*
TryLexParse runs tryLex then, only on success, tryParse, and returns both
stage results together. Inspection downstream of the façade takes either
the Ok parse result or the ParseError result - both leave a fully navigable
NodeIdMap in Parse.Collection.
*/
func TryLexParse(text string, settings *Settings) *TriedLexParseTask {
	lexResult := TryLex(text, settings)

	task := &TriedLexParseTask{Lex: lexResult}

	if lexResult.Kind != Ok {
		return task
	}

	task.Parse = TryParse(lexResult, settings)

	return task
}

/*
TrailingToken synthesises the autocomplete prefix-filter token: if the
parser failed at a token whose range contains the cursor, that token's text
is returned as a prefix candidate. ok is false if no ParseError is present,
the failing token index is out of range, or the cursor falls outside that
token's range.
*/
func TrailingToken(result *ParseTaskResult, snapshot *lexer.Snapshot, cursor lexer.TokenPosition) (lexer.Token, bool) {
	if result == nil || result.Kind != ParseError || result.ParseErr == nil || snapshot == nil {
		return lexer.Token{}, false
	}

	tok, ok := snapshot.At(result.ParseErr.TokenIndex)
	if !ok {
		return lexer.Token{}, false
	}

	if cursor.Compare(tok.PositionStart) < 0 || cursor.Compare(tok.PositionEnd) > 0 {
		return lexer.Token{}, false
	}

	return tok, true
}
