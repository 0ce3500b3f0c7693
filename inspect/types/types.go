/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package types implements structural type inference: a small
// operator-compatibility lattice plus a per-node-kind dispatch that walks
// the Ast to resolve a TType.
package types

import (
	"reflect"
	"sync"

	"github.com/krotik/mquery/ast"
	"github.com/krotik/mquery/inspect/scope"
	"github.com/krotik/mquery/parser"
	"github.com/krotik/mquery/trace"
)

/*
TypeKind is the closed set of structural type tags.
*/
type TypeKind int

/*
Known type kinds.
*/
const (
	Any TypeKind = iota
	AnyNonNull
	Binary
	Date
	DateTime
	DateTimeZone
	Duration
	Function
	List
	Logical
	None
	Null
	Number
	Record
	Table
	Text
	Time
	TypeType
	Action
	Unknown
	NotApplicable
)

/*
ExtendedShapeKind tags which ExtendedShape variant a TType carries, if any.
*/
type ExtendedShapeKind int

/*
Known extended shape kinds.
*/
const (
	ShapeNone ExtendedShapeKind = iota
	ShapeAnyUnion
	ShapeDefinedList
	ShapeDefinedRecord
	ShapeDefinedTable
	ShapeDefinedFunction
	ShapeListType
	ShapeRecordType
	ShapeTableType
	ShapeTableTypePrimaryExpression
	ShapeFunctionType
	ShapeNumberLiteral
	ShapeTextLiteral
)

/*
Field is one entry of a DefinedRecord/DefinedTable/RecordType/TableType
shape.
*/
type Field struct {
	Name string
	Type TType
}

/*
Param is one entry of a DefinedFunction/FunctionType shape.
*/
type Param struct {
	Name     string
	Type     TType
	Optional bool
}

/*
ExtendedShape carries the payload for TType variants that need more than a
bare kind.
*/
type ExtendedShape struct {
	Kind ExtendedShapeKind

	Variants []TType // AnyUnion

	Elements []TType // DefinedList

	Fields []Field // DefinedRecord, DefinedTable, RecordType, TableType
	IsOpen bool

	Params     []Param // DefinedFunction, FunctionType
	ReturnType *TType

	Primary *TType // TableTypePrimaryExpression

	NumberLiteral string
	TextLiteral   string
}

/*
TType is a structural type: a kind, a nullability flag, and an optional
ExtendedShape.
*/
type TType struct {
	Kind       TypeKind
	IsNullable bool
	Extended   *ExtendedShape
}

/*
Singleton TTypes for the frequently shared primitive kinds.
*/
var (
	AnyInstance           = TType{Kind: Any, IsNullable: true}
	AnyNonNullInstance     = TType{Kind: AnyNonNull, IsNullable: false}
	UnknownInstance        = TType{Kind: Unknown, IsNullable: true}
	NoneInstance           = TType{Kind: None, IsNullable: false}
	NullInstance           = TType{Kind: Null, IsNullable: true}
	NotApplicableInstance  = TType{Kind: NotApplicable, IsNullable: true}
)

func primitive(kind TypeKind) TType { return TType{Kind: kind, IsNullable: false} }

/*
unionOf normalises on construction: nested unions are flattened and
variants deduplicated by structural equality, so operator-lattice decisions
never become order-sensitive. A union with one
surviving variant collapses to that variant.
*/
func unionOf(types ...TType) TType {
	flat := make([]TType, 0, len(types))

	add := func(t TType) {
		for _, existing := range flat {
			if reflect.DeepEqual(existing, t) {
				return
			}
		}
		flat = append(flat, t)
	}

	for _, t := range types {
		if t.Extended != nil && t.Extended.Kind == ShapeAnyUnion {
			for _, v := range t.Extended.Variants {
				add(v)
			}
			continue
		}
		add(t)
	}

	if len(flat) == 1 {
		return flat[0]
	}

	return TType{Kind: Any, Extended: &ExtendedShape{Kind: ShapeAnyUnion, Variants: flat}}
}

/*
Cache memoises inferred types per node id; one instance is shared with the
scope cache across a query to avoid repeated rewalks.
*/
type Cache struct {
	mu   sync.RWMutex
	byId map[ast.NodeId]TType
}

/*
NewCache returns an empty type cache.
*/
func NewCache() *Cache {
	return &Cache{byId: make(map[ast.NodeId]TType)}
}

/*
ExternalResolver looks up the type of a name this engine has no local
binding for - a section import, a builtin function, anything left to host
integration.
*/
type ExternalResolver interface {
	ResolveType(name string) (TType, bool)
}

/*
Inspector resolves TTypes for nodes in one Collection, backed by a shared
scope.Cache and an optional ExternalResolver. The cancellation token is
polled on entry of every inference step, so a deep inference over a large
tree terminates promptly once cancellation is requested.
*/
type Inspector struct {
	Collection *ast.Collection
	Scope      *scope.Cache
	Types      *Cache
	External   ExternalResolver
	Token      trace.CancellationToken
}

/*
NewInspector builds an Inspector. types and sc may be shared across queries
against the same Collection to amortise repeated lookups; token may be nil
when the caller does not need cancellation.
*/
func NewInspector(collection *ast.Collection, sc *scope.Cache, types *Cache, external ExternalResolver, token trace.CancellationToken) *Inspector {
	return &Inspector{Collection: collection, Scope: sc, Types: types, External: external, Token: token}
}

/*
InspectXor dispatches on xorNode's kind to resolve its TType, consulting and
populating the shared cache. Context nodes other than in-flight binary
expressions, and unrecognised kinds, resolve to Unknown rather than
erroring, since inference runs over partial trees
just as readily as complete ones; the only error a run terminates with is
the cancellation error.
*/
func (insp *Inspector) InspectXor(node ast.XorNode) (TType, error) {
	if insp.Token != nil {
		if err := insp.Token.ThrowIfCancelled(); err != nil {
			return UnknownInstance, err
		}
	}

	insp.Types.mu.RLock()
	if t, ok := insp.Types.byId[node.Id()]; ok {
		insp.Types.mu.RUnlock()
		return t, nil
	}
	insp.Types.mu.RUnlock()

	t, err := insp.inspect(node, make(map[ast.NodeId]bool))
	if err != nil {
		return UnknownInstance, err
	}

	insp.Types.mu.Lock()
	insp.Types.byId[node.Id()] = t
	insp.Types.mu.Unlock()

	return t, nil
}

/*
inspect is the per-node entry every handler is reached through; the
cancellation token is polled here, which covers every recursion step.
*/
func (insp *Inspector) inspect(node ast.XorNode, visiting map[ast.NodeId]bool) (TType, error) {
	if insp.Token != nil {
		if err := insp.Token.ThrowIfCancelled(); err != nil {
			return UnknownInstance, err
		}
	}

	if !node.IsAst() {
		// Binary expressions are the one construct inference still answers
		// for while in flight; everything else resolves to Unknown.
		switch node.Kind() {
		case ast.NodeKindLogicalExpression, ast.NodeKindEqualityExpression,
			ast.NodeKindRelationalExpression, ast.NodeKindArithmeticExpression,
			ast.NodeKindMetadataExpression:
			return insp.inspectBinOp(node, visiting)
		}
		return UnknownInstance, nil
	}
	n := node.Ast

	switch n.Kind {
	case ast.NodeKindConstant:
		return insp.inspectConstant(n), nil
	case ast.NodeKindPrimitiveType:
		return insp.inspectPrimitiveTypeLiteral(n), nil
	case ast.NodeKindLiteralExpression:
		return insp.inspectLiteralExpression(n), nil
	case ast.NodeKindIdentifier, ast.NodeKindIdentifierExpression:
		return insp.inspectIdentifier(node, visiting)
	case ast.NodeKindLogicalExpression, ast.NodeKindEqualityExpression,
		ast.NodeKindRelationalExpression, ast.NodeKindArithmeticExpression,
		ast.NodeKindMetadataExpression:
		return insp.inspectBinOp(node, visiting)
	case ast.NodeKindIfExpression:
		return insp.inspectIf(node, visiting)
	case ast.NodeKindInvokeExpression:
		return insp.inspectInvoke(node, visiting)
	case ast.NodeKindFieldSelector, ast.NodeKindFieldProjection:
		return insp.inspectFieldAccess(node, visiting)
	case ast.NodeKindErrorHandlingExpression:
		return insp.inspectErrorHandling(node, visiting)
	case ast.NodeKindEachExpression, ast.NodeKindFunctionExpression:
		return insp.inspectFunctionLike(node, visiting)
	case ast.NodeKindUnaryExpression:
		return insp.inspectUnary(node, visiting)
	case ast.NodeKindParenthesizedExpression:
		if child, ok := insp.Collection.ChildByAttributeIndex(n.Id, 0); ok {
			return insp.inspect(child, visiting)
		}
		return UnknownInstance, nil
	case ast.NodeKindRecursivePrimaryExpression:
		// The chain's value is its final step (the last selector, projection
		// or invocation), not the head expression.
		if children := insp.Collection.Children(n.Id); len(children) > 0 {
			return insp.inspect(children[len(children)-1], visiting)
		}
		return UnknownInstance, nil
	case ast.NodeKindAsExpression, ast.NodeKindIsExpression:
		return insp.inspectTypeAssertion(n), nil
	case ast.NodeKindRecordExpression:
		return insp.inspectRecordExpression(n, visiting)
	case ast.NodeKindListExpression:
		return insp.inspectListExpression(n, visiting)
	case ast.NodeKindLetExpression:
		// A let evaluates to its body, the final child after the bindings.
		if children := insp.Collection.Children(n.Id); len(children) > 0 {
			return insp.inspect(children[len(children)-1], visiting)
		}
		return UnknownInstance, nil
	}

	return UnknownInstance, nil
}

func (insp *Inspector) inspectConstant(n *ast.TNode) TType {
	switch n.Literal {
	case "true", "false":
		return primitive(Logical)
	case "null":
		return NullInstance
	}
	return UnknownInstance
}

func (insp *Inspector) inspectPrimitiveTypeLiteral(n *ast.TNode) TType {
	return TType{Kind: TypeType, Extended: &ExtendedShape{Kind: ShapeNone}}
}

func (insp *Inspector) inspectLiteralExpression(n *ast.TNode) TType {
	if isNumberLiteral(n.Literal) {
		return TType{Kind: Number, Extended: &ExtendedShape{Kind: ShapeNumberLiteral, NumberLiteral: n.Literal}}
	}
	return TType{Kind: Text, Extended: &ExtendedShape{Kind: ShapeTextLiteral, TextLiteral: n.Literal}}
}

func isNumberLiteral(lit string) bool {
	for _, r := range lit {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' && r != 'e' && r != 'E' {
			return false
		}
	}
	return len(lit) > 0
}

/*
inspectIdentifier dereferences through local scope, recursing through a
chain of LetVariable/SectionMember/RecordField bindings whose own value is
itself an identifier. A recursive ("@") lookup stops at the raw binding
without recursing into its value (this engine's decided resolution,
recorded in DESIGN.md).
*/
func (insp *Inspector) inspectIdentifier(node ast.XorNode, visiting map[ast.NodeId]bool) (TType, error) {
	n := node.Ast

	name := n.Literal
	if n.Kind == ast.NodeKindIdentifierExpression {
		if child, ok := insp.Collection.ChildByAttributeIndex(n.Id, 0, ast.NodeKindIdentifier); ok && child.IsAst() {
			name = child.Ast.Literal
			node = child
		}
	}

	if visiting[node.Id()] {
		return UnknownInstance, nil
	}
	visiting[node.Id()] = true

	sc, err := insp.Scope.Get(insp.Collection, node.Id(), insp.Token)
	if err != nil {
		return UnknownInstance, err
	}
	item := scope.Lookup(sc, name, node)

	switch item.Kind {
	case scope.ItemUndefined:
		if insp.External != nil {
			if t, ok := insp.External.ResolveType(item.Name); ok {
				return t, nil
			}
		}
		return UnknownInstance, nil

	case scope.ItemEach:
		return AnyInstance, nil

	case scope.ItemParameter:
		if item.HasTypeConstant {
			return primitiveTypeFromName(item.TypeConstantKind, item.Nullable), nil
		}
		return AnyInstance, nil
	}

	if item.Recursive || !item.HasValueNodeId {
		return AnyInstance, nil
	}

	value, ok := insp.Collection.GetXor(item.ValueNodeId)
	if !ok {
		return UnknownInstance, nil
	}

	if value.IsAst() && (value.Kind() == ast.NodeKindIdentifier || value.Kind() == ast.NodeKindIdentifierExpression) {
		return insp.inspectIdentifier(value, visiting)
	}

	return insp.InspectXor(value)
}

func primitiveTypeFromName(name string, nullable bool) TType {
	kind, ok := primitiveKindByName[name]
	if !ok {
		return AnyInstance
	}
	return TType{Kind: kind, IsNullable: nullable}
}

var primitiveKindByName = map[string]TypeKind{
	"any": Any, "anynonnull": AnyNonNull, "binary": Binary, "date": Date,
	"datetime": DateTime, "datetimezone": DateTimeZone, "duration": Duration,
	"function": Function, "list": List, "logical": Logical, "none": None,
	"null": Null, "number": Number, "record": Record, "table": Table,
	"text": Text, "time": Time, "type": TypeType, "action": Action,
}

func (insp *Inspector) inspectTypeAssertion(n *ast.TNode) TType {
	if child, ok := insp.Collection.ChildByAttributeIndex(n.Id, 1); ok {
		return insp.denotedType(child)
	}
	return AnyInstance
}

/*
inspectBinOp implements the three-valued completeness contract: no left ->
Unknown; no operator -> left's type; no right -> the AnyUnion of allowed
result kinds for that operator; both sides -> the lattice lookup.
*/
func (insp *Inspector) inspectBinOp(node ast.XorNode, visiting map[ast.NodeId]bool) (TType, error) {
	id := node.Id()

	left, hasLeft := insp.Collection.ChildByAttributeIndex(id, 0)
	if !hasLeft {
		return UnknownInstance, nil
	}
	leftType, err := insp.inspect(left, visiting)
	if err != nil {
		return UnknownInstance, err
	}

	literal := ""
	if node.IsAst() {
		literal = node.Ast.Literal
	} else {
		literal = node.Context.Literal
	}

	op := parser.Operator(literal)
	if op == "" {
		return leftType, nil
	}

	right, hasRight := insp.Collection.ChildByAttributeIndex(id, 1)
	if !hasRight {
		kinds := allowedResultKinds(op)
		if len(kinds) == 0 {
			return UnknownInstance, nil
		}
		if len(kinds) == 1 {
			return primitive(kinds[0]), nil
		}
		variants := make([]TType, len(kinds))
		for i, k := range kinds {
			variants[i] = primitive(k)
		}
		return unionOf(variants...), nil
	}
	rightType, err := insp.inspect(right, visiting)
	if err != nil {
		return UnknownInstance, err
	}

	return applyOperator(leftType, op, rightType), nil
}

func (insp *Inspector) inspectIf(node ast.XorNode, visiting map[ast.NodeId]bool) (TType, error) {
	n := node.Ast

	cond, ok := insp.Collection.ChildByAttributeIndex(n.Id, 0)
	if !ok {
		return UnknownInstance, nil
	}
	condType, err := insp.inspect(cond, visiting)
	if err != nil {
		return UnknownInstance, err
	}
	if !isLogicalCompatible(condType) {
		return NoneInstance, nil
	}

	thenType := UnknownInstance
	if thenNode, ok := insp.Collection.ChildByAttributeIndex(n.Id, 1); ok {
		if thenType, err = insp.inspect(thenNode, visiting); err != nil {
			return UnknownInstance, err
		}
	}
	elseType := UnknownInstance
	if elseNode, ok := insp.Collection.ChildByAttributeIndex(n.Id, 2); ok {
		if elseType, err = insp.inspect(elseNode, visiting); err != nil {
			return UnknownInstance, err
		}
	}

	return unionOf(thenType, elseType), nil
}

func isLogicalCompatible(t TType) bool {
	if t.Kind == Logical {
		return true
	}
	if t.Extended != nil && t.Extended.Kind == ShapeAnyUnion {
		for _, v := range t.Extended.Variants {
			if v.Kind != Logical && v.Kind != Any {
				return false
			}
		}
		return true
	}
	return false
}

func (insp *Inspector) inspectInvoke(node ast.XorNode, visiting map[ast.NodeId]bool) (TType, error) {
	n := node.Ast

	callee, ok := insp.Collection.RecursiveExpressionPreviousSibling(n.Id)
	if !ok {
		return UnknownInstance, nil
	}

	calleeType, err := insp.inspect(callee, visiting)
	if err != nil {
		return UnknownInstance, err
	}

	if calleeType.Extended != nil && calleeType.Extended.Kind == ShapeDefinedFunction &&
		calleeType.Extended.ReturnType != nil {
		return *calleeType.Extended.ReturnType, nil
	}

	switch calleeType.Kind {
	case Any:
		return AnyInstance, nil
	case Function:
		// A bare function of unknown shape can return anything.
		return AnyInstance, nil
	}

	return NoneInstance, nil
}

/*
inspectFieldAccess projects the recursively preceding sibling's type
through this field selector/projection.
*/
func (insp *Inspector) inspectFieldAccess(node ast.XorNode, visiting map[ast.NodeId]bool) (TType, error) {
	n := node.Ast

	previous, ok := insp.Collection.RecursiveExpressionPreviousSibling(n.Id)
	if !ok {
		return UnknownInstance, nil
	}
	previousType, err := insp.inspect(previous, visiting)
	if err != nil {
		return UnknownInstance, err
	}

	optional := n.Literal == "?"

	if n.Kind == ast.NodeKindFieldSelector {
		fieldName, _ := insp.Collection.ChildByAttributeIndex(n.Id, 0, ast.NodeKindGeneralizedIdentifier)
		name := ""
		if fieldName.IsAst() {
			name = fieldName.Ast.Literal
		}
		return projectField(previousType, name, optional), nil
	}

	names := make([]string, 0)
	for _, child := range insp.Collection.Children(n.Id) {
		if child.Kind() == ast.NodeKindGeneralizedIdentifier && child.IsAst() {
			names = append(names, child.Ast.Literal)
		}
	}
	return projectFields(previousType, names, optional), nil
}

func projectField(t TType, name string, optional bool) TType {
	if t.Extended != nil {
		switch t.Extended.Kind {
		case ShapeAnyUnion:
			variants := make([]TType, len(t.Extended.Variants))
			for i, v := range t.Extended.Variants {
				variants[i] = projectField(v, name, optional)
			}
			return unionOf(variants...)
		case ShapeDefinedRecord, ShapeDefinedTable:
			for _, f := range t.Extended.Fields {
				if f.Name == name {
					return f.Type
				}
			}
			if optional {
				return NullInstance
			}
			return NoneInstance
		}
	}
	return AnyInstance
}

func projectFields(t TType, names []string, optional bool) TType {
	if t.Extended == nil {
		return AnyInstance
	}

	switch t.Extended.Kind {
	case ShapeAnyUnion:
		variants := make([]TType, len(t.Extended.Variants))
		for i, v := range t.Extended.Variants {
			variants[i] = projectFields(v, names, optional)
		}
		return unionOf(variants...)
	case ShapeDefinedRecord, ShapeDefinedTable:
		fields := make([]Field, 0, len(names))
		for _, name := range names {
			found := false
			for _, f := range t.Extended.Fields {
				if f.Name == name {
					fields = append(fields, f)
					found = true
					break
				}
			}
			if !found && !optional {
				return NoneInstance
			}
		}
		kind := ShapeDefinedRecord
		if t.Extended.Kind == ShapeDefinedTable {
			kind = ShapeDefinedTable
		}
		resultKind := Record
		if t.Extended.Kind == ShapeDefinedTable {
			resultKind = Table
		}
		return TType{Kind: resultKind, Extended: &ExtendedShape{Kind: kind, Fields: fields, IsOpen: t.Extended.IsOpen}}
	}

	return AnyInstance
}

func (insp *Inspector) inspectErrorHandling(node ast.XorNode, visiting map[ast.NodeId]bool) (TType, error) {
	n := node.Ast

	protected, ok := insp.Collection.ChildByAttributeIndex(n.Id, 0)
	if !ok {
		return UnknownInstance, nil
	}
	protectedType, err := insp.inspect(protected, visiting)
	if err != nil {
		return UnknownInstance, err
	}

	if otherwise, ok := insp.Collection.ChildByAttributeIndex(n.Id, 1); ok {
		otherwiseType, err := insp.inspect(otherwise, visiting)
		if err != nil {
			return UnknownInstance, err
		}
		return unionOf(protectedType, otherwiseType), nil
	}

	return unionOf(protectedType, primitive(Record)), nil
}

/*
inspectFunctionLike produces a DefinedFunction type for Each (the implicit
single "_" parameter) and FunctionExpression.
*/
func (insp *Inspector) inspectFunctionLike(node ast.XorNode, visiting map[ast.NodeId]bool) (TType, error) {
	n := node.Ast

	var params []Param
	var bodyIdx int

	if n.Kind == ast.NodeKindEachExpression {
		params = []Param{{Name: "_", Type: AnyInstance}}
		bodyIdx = 0
	} else {
		if paramList, ok := insp.Collection.ChildByAttributeIndex(n.Id, 0, ast.NodeKindParameterList); ok {
			for _, p := range insp.Collection.Children(paramList.Id()) {
				if p.Kind() != ast.NodeKindParameter {
					continue
				}
				name, _ := insp.Collection.ChildByAttributeIndex(p.Id(), 0, ast.NodeKindIdentifier)
				pname := ""
				if name.IsAst() {
					pname = name.Ast.Literal
				}
				optional := p.IsAst() && p.Ast.Literal == "optional"
				ptype := AnyInstance
				if typeNode, ok := insp.Collection.ChildByAttributeIndex(p.Id(), 1); ok {
					ptype = insp.denotedType(typeNode)
				}
				params = append(params, Param{Name: pname, Type: ptype, Optional: optional})
			}
		}
		bodyIdx = 1
	}

	bodyType := UnknownInstance
	if body, ok := insp.Collection.ChildByAttributeIndex(n.Id, bodyIdx); ok {
		var err error
		if bodyType, err = insp.inspect(body, visiting); err != nil {
			return UnknownInstance, err
		}
	}

	return TType{
		Kind: Function,
		Extended: &ExtendedShape{
			Kind:       ShapeDefinedFunction,
			Params:     params,
			ReturnType: &bodyType,
		},
	}, nil
}

/*
denotedType resolves a type annotation node (a PrimitiveType leaf or its
nullable wrapper) to the type it denotes, as opposed to the type the
annotation expression itself has (which is "type").
*/
func (insp *Inspector) denotedType(typeNode ast.XorNode) TType {
	switch typeNode.Kind() {
	case ast.NodeKindPrimitiveType:
		if typeNode.IsAst() {
			return primitiveTypeFromName(typeNode.Ast.Literal, false)
		}
	case ast.NodeKindNullablePrimitiveType:
		if prim, ok := insp.Collection.ChildByAttributeIndex(typeNode.Id(), 0, ast.NodeKindPrimitiveType); ok && prim.IsAst() {
			return primitiveTypeFromName(prim.Ast.Literal, true)
		}
	}
	return AnyInstance
}

func (insp *Inspector) inspectUnary(node ast.XorNode, visiting map[ast.NodeId]bool) (TType, error) {
	n := node.Ast

	operand, ok := insp.Collection.ChildByAttributeIndex(n.Id, 0)
	if !ok {
		return UnknownInstance, nil
	}
	operandType, err := insp.inspect(operand, visiting)
	if err != nil {
		return UnknownInstance, err
	}

	if operandType.Kind == Number {
		if n.Literal == "not" {
			return NoneInstance, nil
		}
		if n.Literal == "-" && operandType.Extended != nil && operandType.Extended.Kind == ShapeNumberLiteral {
			return TType{Kind: Number, Extended: &ExtendedShape{
				Kind:          ShapeNumberLiteral,
				NumberLiteral: "-" + operandType.Extended.NumberLiteral,
			}}, nil
		}
		return operandType, nil
	}
	if operandType.Kind == Logical {
		if n.Literal == "not" {
			return operandType, nil
		}
		return NoneInstance, nil
	}

	return NoneInstance, nil
}

func (insp *Inspector) inspectRecordExpression(n *ast.TNode, visiting map[ast.NodeId]bool) (TType, error) {
	var fields []Field
	for _, pair := range insp.Collection.Children(n.Id) {
		if pair.Kind() != ast.NodeKindGeneralizedIdentifierPairedExpression {
			continue
		}
		name, _ := insp.Collection.ChildByAttributeIndex(pair.Id(), 0, ast.NodeKindGeneralizedIdentifier)
		fname := ""
		if name.IsAst() {
			fname = name.Ast.Literal
		}
		ftype := UnknownInstance
		if value, ok := insp.Collection.ChildByAttributeIndex(pair.Id(), 1); ok {
			var err error
			if ftype, err = insp.inspect(value, visiting); err != nil {
				return UnknownInstance, err
			}
		}
		fields = append(fields, Field{Name: fname, Type: ftype})
	}

	return TType{Kind: Record, Extended: &ExtendedShape{Kind: ShapeDefinedRecord, Fields: fields, IsOpen: false}}, nil
}

/*
CollectFields extracts the known field set of t, recursing through an
AnyUnion and deduplicating by name (first occurrence wins) - the "extracts
its known field set (recursing through AnyUnion)" step autocomplete's
field-access sub-inspector needs.
*/
func CollectFields(t TType) []Field {
	seen := map[string]bool{}
	var out []Field
	collectFields(t, seen, &out)
	return out
}

func collectFields(t TType, seen map[string]bool, out *[]Field) {
	if t.Extended == nil {
		return
	}

	switch t.Extended.Kind {
	case ShapeAnyUnion:
		for _, v := range t.Extended.Variants {
			collectFields(v, seen, out)
		}
	case ShapeDefinedRecord, ShapeDefinedTable:
		for _, f := range t.Extended.Fields {
			if !seen[f.Name] {
				seen[f.Name] = true
				*out = append(*out, f)
			}
		}
	}
}

func (insp *Inspector) inspectListExpression(n *ast.TNode, visiting map[ast.NodeId]bool) (TType, error) {
	var elements []TType
	for _, item := range insp.Collection.Children(n.Id) {
		t, err := insp.inspect(item, visiting)
		if err != nil {
			return UnknownInstance, err
		}
		elements = append(elements, t)
	}

	return TType{Kind: List, Extended: &ExtendedShape{Kind: ShapeDefinedList, Elements: elements}}, nil
}
