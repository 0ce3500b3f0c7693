/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package scope computes NodeScope: the name -> scope-item table
// visible from a given node, built by walking upward through the enclosing
// let/section/function/record/each constructs.
package scope

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	"devt.de/krotik/common/stringutil"

	"github.com/krotik/mquery/ast"
	"github.com/krotik/mquery/trace"
)

/*
ItemKind is the closed set of scope-item variants.
*/
type ItemKind int

/*
Known item kinds.
*/
const (
	ItemLetVariable ItemKind = iota
	ItemParameter
	ItemRecordField
	ItemSectionMember
	ItemEach
	ItemUndefined
)

/*
Item is one named entry in a NodeScope.
*/
type Item struct {
	Kind ItemKind
	Name string

	ValueNodeId    ast.NodeId
	HasValueNodeId bool

	Optional         bool
	Nullable         bool
	TypeConstantKind string
	HasTypeConstant  bool

	EachNodeId ast.NodeId

	// Recursive marks a lookup that went through the "@" prefix or an M
	// implicit self-reference. Per this engine's resolution rule, a
	// recursive identifier resolves to the raw binding without chasing its
	// value expression any further.
	Recursive bool

	Undefined ast.XorNode
}

/*
NodeScope maps a visible name to the scope item that binds it, closest
enclosing construct wins on a name collision.
*/
type NodeScope map[string]*Item

/*
String returns a human-readable dump of sc, one line per binding sorted by
name, indented the way this engine's other tree dumps are.
*/
func (sc NodeScope) String() string {
	names := make([]string, 0, len(sc))
	for name := range sc {
		names = append(names, name)
	}
	sort.Strings(names)

	indent := stringutil.GenerateRollingString(" ", 4)

	buf := bytes.Buffer{}
	buf.WriteString("scope {\n")
	for _, name := range names {
		item := sc[name]
		buf.WriteString(fmt.Sprintf("%s%s (%v)\n", indent, name, item.Kind))
	}
	buf.WriteString("}")

	return buf.String()
}

/*
String returns the kind's name for use in NodeScope's dump.
*/
func (k ItemKind) String() string {
	switch k {
	case ItemLetVariable:
		return "LetVariable"
	case ItemParameter:
		return "Parameter"
	case ItemRecordField:
		return "RecordField"
	case ItemSectionMember:
		return "SectionMember"
	case ItemEach:
		return "Each"
	case ItemUndefined:
		return "Undefined"
	}
	return "Unknown"
}

/*
Cache memoises NodeScope per node id. It is shared between scope resolution
and type inference, which would otherwise rewalk the same ancestries.
*/
type Cache struct {
	mu   sync.RWMutex
	byId map[ast.NodeId]NodeScope
}

/*
NewCache returns an empty scope cache.
*/
func NewCache() *Cache {
	return &Cache{byId: make(map[ast.NodeId]NodeScope)}
}

/*
Get returns the NodeScope visible from nodeId, building and caching it on
first request. The cancellation token is polled at entry; a cancelled
build terminates with the cancellation error instead of a scope.
*/
func (c *Cache) Get(collection *ast.Collection, nodeId ast.NodeId, token trace.CancellationToken) (NodeScope, error) {
	if token != nil {
		if err := token.ThrowIfCancelled(); err != nil {
			return nil, err
		}
	}

	c.mu.RLock()
	if sc, ok := c.byId[nodeId]; ok {
		c.mu.RUnlock()
		return sc, nil
	}
	c.mu.RUnlock()

	sc := build(collection, nodeId)

	c.mu.Lock()
	c.byId[nodeId] = sc
	c.mu.Unlock()

	return sc, nil
}

/*
build walks upward from target, letting each enclosing let/section/
function/record/each construct contribute its visible names. A construct
encountered earlier in the walk (closer to target) wins ties over one
encountered later - lexical shadowing.
*/
func build(collection *ast.Collection, target ast.NodeId) NodeScope {
	result := NodeScope{}

	cur, ok := collection.GetXor(target)
	if !ok {
		return result
	}

	for {
		parent, ok := collection.Parent(cur.Id())
		if !ok {
			break
		}

		switch parent.Kind() {
		case ast.NodeKindLetExpression:
			contributeLetVariables(collection, parent, result)
		case ast.NodeKindSection:
			contributeSectionMembers(collection, parent, result)
		case ast.NodeKindFunctionExpression:
			contributeParameters(collection, parent, result)
		case ast.NodeKindRecordExpression:
			contributeRecordFields(collection, parent, result)
		case ast.NodeKindEachExpression:
			contributeEach(parent, result)
		}

		cur = parent
	}

	return result
}

func setIfAbsent(result NodeScope, name string, item *Item) {
	if name == "" {
		return
	}
	if _, ok := result[name]; !ok {
		result[name] = item
	}
}

/*
contributeLetVariables adds every binding of a LetExpression except its
final child, the "in" body.
*/
func contributeLetVariables(collection *ast.Collection, letNode ast.XorNode, result NodeScope) {
	children := collection.Children(letNode.Id())
	if len(children) == 0 {
		return
	}

	for _, binding := range children[:len(children)-1] {
		if binding.Kind() != ast.NodeKindIdentifierPairedExpression {
			continue
		}

		name, ok := childLiteral(collection, binding, 0, ast.NodeKindIdentifier)
		if !ok {
			continue
		}

		item := &Item{Kind: ItemLetVariable, Name: name}
		if value, ok := collection.ChildByAttributeIndex(binding.Id(), 1); ok {
			item.ValueNodeId = value.Id()
			item.HasValueNodeId = true
		}

		setIfAbsent(result, name, item)
	}
}

/*
contributeSectionMembers adds every SectionMember child of a Section.
*/
func contributeSectionMembers(collection *ast.Collection, sectionNode ast.XorNode, result NodeScope) {
	for _, member := range collection.Children(sectionNode.Id()) {
		if member.Kind() != ast.NodeKindSectionMember {
			continue
		}

		pair, ok := collection.ChildByAttributeIndex(member.Id(), 0, ast.NodeKindIdentifierPairedExpression)
		if !ok {
			continue
		}

		name, ok := childLiteral(collection, pair, 0, ast.NodeKindIdentifier)
		if !ok {
			continue
		}

		item := &Item{Kind: ItemSectionMember, Name: name}
		if value, ok := collection.ChildByAttributeIndex(pair.Id(), 1); ok {
			item.ValueNodeId = value.Id()
			item.HasValueNodeId = true
		}

		setIfAbsent(result, name, item)
	}
}

/*
contributeParameters adds every Parameter of a FunctionExpression's
ParameterList.
*/
func contributeParameters(collection *ast.Collection, functionNode ast.XorNode, result NodeScope) {
	paramList, ok := collection.ChildByAttributeIndex(functionNode.Id(), 0, ast.NodeKindParameterList)
	if !ok {
		return
	}

	for _, param := range collection.Children(paramList.Id()) {
		if param.Kind() != ast.NodeKindParameter {
			continue
		}

		name, ok := childLiteral(collection, param, 0, ast.NodeKindIdentifier)
		if !ok {
			continue
		}

		item := &Item{Kind: ItemParameter, Name: name}
		if param.IsAst() {
			item.Optional = param.Ast.Literal == "optional"
		}

		if typeNode, ok := collection.ChildByAttributeIndex(param.Id(), 1); ok {
			switch typeNode.Kind() {
			case ast.NodeKindNullablePrimitiveType:
				item.Nullable = true
				if prim, ok := collection.ChildByAttributeIndex(typeNode.Id(), 0, ast.NodeKindPrimitiveType); ok && prim.IsAst() {
					item.TypeConstantKind = prim.Ast.Literal
					item.HasTypeConstant = true
				}
			case ast.NodeKindPrimitiveType:
				if typeNode.IsAst() {
					item.TypeConstantKind = typeNode.Ast.Literal
					item.HasTypeConstant = true
				}
			}
		}

		setIfAbsent(result, name, item)
	}
}

/*
contributeRecordFields adds every field of a RecordExpression, visible to
its own field values via "@" / recursive references.
*/
func contributeRecordFields(collection *ast.Collection, recordNode ast.XorNode, result NodeScope) {
	for _, pair := range collection.Children(recordNode.Id()) {
		if pair.Kind() != ast.NodeKindGeneralizedIdentifierPairedExpression {
			continue
		}

		name, ok := childLiteral(collection, pair, 0, ast.NodeKindGeneralizedIdentifier)
		if !ok {
			continue
		}

		item := &Item{Kind: ItemRecordField, Name: name}
		if value, ok := collection.ChildByAttributeIndex(pair.Id(), 1); ok {
			item.ValueNodeId = value.Id()
			item.HasValueNodeId = true
		}

		setIfAbsent(result, name, item)
	}
}

/*
contributeEach adds the implicit "_" binding an EachExpression introduces.
*/
func contributeEach(eachNode ast.XorNode, result NodeScope) {
	setIfAbsent(result, "_", &Item{Kind: ItemEach, Name: "_", EachNodeId: eachNode.Id()})
}

func childLiteral(collection *ast.Collection, parent ast.XorNode, index int, kind ast.NodeKind) (string, bool) {
	child, ok := collection.ChildByAttributeIndex(parent.Id(), index, kind)
	if !ok || !child.IsAst() {
		return "", false
	}
	return child.Ast.Literal, true
}

/*
Lookup resolves rawName (as it appears at a reference site, "@" prefix and
all) against sc, returning an Undefined item when the name has no binding.
A leading "@" is stripped before the name lookup and the returned item is
marked Recursive - resolved to the same raw binding a non-recursive
reference would find, never dereferenced any further.
*/
func Lookup(sc NodeScope, rawName string, unresolvedSite ast.XorNode) *Item {
	recursive := strings.HasPrefix(rawName, "@")
	name := strings.TrimPrefix(rawName, "@")

	item, ok := sc[name]
	if !ok {
		return &Item{Kind: ItemUndefined, Name: name, Undefined: unresolvedSite}
	}

	if !recursive {
		return item
	}

	cp := *item
	cp.Recursive = true
	return &cp
}
