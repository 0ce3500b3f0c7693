/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package ast defines the dual Ast/Context node representation (XorNode) and
// the NodeIdMap collection that unifies both under one id address space.
package ast

import (
	"github.com/krotik/mquery/lexer"
)

/*
NodeId is a process-unique, monotonically increasing id minted by a
ParseState. Ids are never reused within a ParseState and are stable across
the Context -> Ast promotion.
*/
type NodeId uint64

/*
NodeKind is the closed tag set of syntactic constructs this engine knows
about. The grammar that decides which kinds appear where is external data
; this is only the shape of the kind enumeration.
*/
type NodeKind string

/*
Known node kinds.
*/
const (
	NodeKindArithmeticExpression             NodeKind = "ArithmeticExpression"
	NodeKindAsExpression                     NodeKind = "AsExpression"
	NodeKindAsNullablePrimitiveType          NodeKind = "AsNullablePrimitiveType"
	NodeKindConstant                         NodeKind = "Constant"
	NodeKindEachExpression                   NodeKind = "EachExpression"
	NodeKindEqualityExpression               NodeKind = "EqualityExpression"
	NodeKindErrorHandlingExpression           NodeKind = "ErrorHandlingExpression"
	NodeKindFieldProjection                  NodeKind = "FieldProjection"
	NodeKindFieldSelector                    NodeKind = "FieldSelector"
	NodeKindFieldSpecification               NodeKind = "FieldSpecification"
	NodeKindFieldSpecificationList           NodeKind = "FieldSpecificationList"
	NodeKindFunctionExpression                NodeKind = "FunctionExpression"
	NodeKindGeneralizedIdentifier             NodeKind = "GeneralizedIdentifier"
	NodeKindGeneralizedIdentifierPairedExpression NodeKind = "GeneralizedIdentifierPairedExpression"
	NodeKindIdentifier                       NodeKind = "Identifier"
	NodeKindIdentifierExpression              NodeKind = "IdentifierExpression"
	NodeKindIdentifierPairedExpression         NodeKind = "IdentifierPairedExpression"
	NodeKindIfExpression                      NodeKind = "IfExpression"
	NodeKindInvokeExpression                  NodeKind = "InvokeExpression"
	NodeKindIsExpression                      NodeKind = "IsExpression"
	NodeKindItemAccessExpression              NodeKind = "ItemAccessExpression"
	NodeKindLetExpression                    NodeKind = "LetExpression"
	NodeKindListExpression                   NodeKind = "ListExpression"
	NodeKindLiteralExpression                 NodeKind = "LiteralExpression"
	NodeKindLogicalExpression                 NodeKind = "LogicalExpression"
	NodeKindMetadataExpression                NodeKind = "MetadataExpression"
	NodeKindNullablePrimitiveType              NodeKind = "NullablePrimitiveType"
	NodeKindNullableType                      NodeKind = "NullableType"
	NodeKindOtherwiseExpression                NodeKind = "OtherwiseExpression"
	NodeKindParameter                        NodeKind = "Parameter"
	NodeKindParameterList                     NodeKind = "ParameterList"
	NodeKindParenthesizedExpression            NodeKind = "ParenthesizedExpression"
	NodeKindPrimitiveType                     NodeKind = "PrimitiveType"
	NodeKindRecordExpression                  NodeKind = "RecordExpression"
	NodeKindRecursivePrimaryExpression          NodeKind = "RecursivePrimaryExpression"
	NodeKindRelationalExpression               NodeKind = "RelationalExpression"
	NodeKindSection                          NodeKind = "Section"
	NodeKindSectionMember                     NodeKind = "SectionMember"
	NodeKindTBinOpExpression                  NodeKind = "TBinOpExpression"
	NodeKindUnaryExpression                   NodeKind = "UnaryExpression"
)

/*
IsLeafKind reports whether a node of this kind is a leaf: a
leaf has no children and its tokenRange is exactly one token wide.
*/
func IsLeafKind(kind NodeKind) bool {
	switch kind {
	case NodeKindConstant, NodeKindIdentifier, NodeKindGeneralizedIdentifier,
		NodeKindLiteralExpression, NodeKindPrimitiveType:
		return true
	}
	return false
}

/*
Position is a (line, lineCodeUnit) pair: the input to an inspection query.
*/
type Position = lexer.TokenPosition

/*
TokenRange locates a node in both token-index space and position space.
*/
type TokenRange struct {
	TokenIndexStart int
	TokenIndexEnd   int // exclusive
	PositionStart   Position
	PositionEnd     Position
}

/*
TNode is a completed syntactic construct: the Ast half of the XorNode
variant.
*/
type TNode struct {
	Id             NodeId
	Kind           NodeKind
	AttributeIndex *int // nil if root
	TokenRange     TokenRange

	// Terminal nodes (Constant, Identifier, GeneralizedIdentifier,
	// LiteralExpression, PrimitiveType) carry their literal text directly;
	// non-terminal kinds leave this empty and are navigated via the
	// NodeIdMap's childIdsById instead.
	Literal string
}

/*
IsLeaf reports whether this node is a leaf kind.
*/
func (n *TNode) IsLeaf() bool {
	return IsLeafKind(n.Kind)
}
