/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package task exposes the engine façade: tryLex, tryParse and tryLexParse,
// the only components that convert raw parser/lexer results into
// stage-tagged task records.
package task

import (
	"github.com/krotik/mquery/config"
	"github.com/krotik/mquery/inspect/types"
	"github.com/krotik/mquery/lexer"
	"github.com/krotik/mquery/parser"
	"github.com/krotik/mquery/trace"
)

/*
LexFunc is the pluggable external lexer hook. Tokenizing raw text is out of
scope for this engine (lexer.Snapshot documents why); Settings.Lex supplies
whatever concrete tokenizer a caller wants tryLex to drive.
*/
type LexFunc func(text string) (*lexer.Snapshot, error)

/*
Settings is the per-request configuration record of the engine. Every field
is optional; NewSettings fills in the documented defaults.
*/
type Settings struct {
	Locale               string
	CancellationToken    trace.CancellationToken
	InitialCorrelationId trace.CorrelationId
	TraceManager         trace.Manager
	ParserStrategy       parser.Strategy
	ParseStateFactory    func(tokens *lexer.Snapshot) *parser.State
	ParserEntryPoint     parser.EntryPoint
	ExternalTypeResolver types.ExternalResolver
	Lex                  LexFunc
}

/*
NewSettings returns a Settings with the engine defaults: the process-wide
default locale, no cancellation, no TraceManager (a no-op trace sink
seeded from InitialCorrelationId is used), recursive-descent parsing, the
default grammar entry point, and no external type resolver.
*/
func NewSettings() *Settings {
	return &Settings{
		Locale:           config.Str(config.DefaultLocale),
		ParserStrategy:   parser.RecursiveDescent,
		ParserEntryPoint: parser.EntryDefault,
	}
}

func (s *Settings) stateFactory() func(tokens *lexer.Snapshot) *parser.State {
	if s != nil && s.ParseStateFactory != nil {
		return s.ParseStateFactory
	}
	return func(tokens *lexer.Snapshot) *parser.State {
		return parser.NewState(tokens)
	}
}

func (s *Settings) manager() trace.Manager {
	if s == nil {
		return trace.NewNoOpManager(0)
	}
	if s.TraceManager != nil {
		return s.TraceManager
	}
	return trace.NewNoOpManager(uint64(s.InitialCorrelationId))
}

func (s *Settings) token() trace.CancellationToken {
	if s == nil {
		return nil
	}
	return s.CancellationToken
}

func (s *Settings) strategy() parser.Strategy {
	if s == nil {
		return parser.RecursiveDescent
	}
	return s.ParserStrategy
}

func (s *Settings) entryPoint() parser.EntryPoint {
	if s == nil {
		return parser.EntryDefault
	}
	return s.ParserEntryPoint
}
