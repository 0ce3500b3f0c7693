/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package types

import "github.com/krotik/mquery/parser"

/*
latticeKey identifies one (leftKind, operator, rightKind) entry of the
operator compatibility lattice.
*/
type latticeKey struct {
	Left  TypeKind
	Op    parser.Operator
	Right TypeKind
}

/*
lattice maps a concrete (leftKind, operator, rightKind) triple to the result
kind a TBinOpExpression of that shape produces. Built once at package init
from systematic per-family factories rather than hand listing every entry.
*/
var lattice = buildLattice()

/*
clockKinds are the four date/time kinds that behave as "Clock" for the
purposes of +/- Duration arithmetic.
*/
var clockKinds = []TypeKind{Date, Time, DateTime, DateTimeZone}

/*
relationalKinds is the equal-kind operand set "<", "<=", ">" and ">="
accept.
*/
var relationalKinds = []TypeKind{
	Null, Logical, Number, Time, Date, DateTime, DateTimeZone, Duration, Text, Binary,
}

/*
equalityKinds extends relationalKinds with List, Record and Table: every
kind "=" and "<>" accept on equal-kind operands.
*/
var equalityKinds = append(append([]TypeKind{}, relationalKinds...), List, Record, Table)

func buildLattice() map[latticeKey]TypeKind {
	m := map[latticeKey]TypeKind{}

	set := func(left TypeKind, op parser.Operator, right TypeKind, result TypeKind) {
		m[latticeKey{left, op, right}] = result
	}

	for _, k := range relationalKinds {
		for _, op := range []parser.Operator{parser.OpLess, parser.OpLessEq, parser.OpGreater, parser.OpGreaterEq} {
			set(k, op, k, Logical)
		}
	}

	for _, k := range equalityKinds {
		set(k, parser.OpEqual, k, Logical)
		set(k, parser.OpNotEqual, k, Logical)
	}

	set(Number, parser.OpAdd, Number, Number)
	set(Number, parser.OpSub, Number, Number)
	set(Number, parser.OpMul, Number, Number)
	set(Number, parser.OpDiv, Number, Number)

	set(Logical, parser.OpAnd, Logical, Logical)
	set(Logical, parser.OpOr, Logical, Logical)

	for _, k := range clockKinds {
		set(k, parser.OpAdd, Duration, k)
		set(Duration, parser.OpAdd, k, k)
		set(k, parser.OpSub, Duration, k)
		set(k, parser.OpSub, k, Duration)
	}

	set(Date, parser.OpConcat, Time, DateTime)

	set(Duration, parser.OpMul, Number, Duration)
	set(Duration, parser.OpDiv, Number, Duration)
	set(Number, parser.OpMul, Duration, Duration)

	set(Text, parser.OpConcat, Text, Text)
	set(List, parser.OpConcat, List, List)
	set(Record, parser.OpConcat, Record, Record)
	set(Table, parser.OpConcat, Table, Table)

	return m
}

/*
allowedResultKinds returns the set of result kinds op can ever produce,
across every lattice entry for op - used when a TBinOpExpression has a left
operand and an operator but no right operand yet (the operator-only
partial lookup).
*/
func allowedResultKinds(op parser.Operator) []TypeKind {
	seen := map[TypeKind]bool{}
	var out []TypeKind
	for key, result := range lattice {
		if key.Op != op {
			continue
		}
		if !seen[result] {
			seen[result] = true
			out = append(out, result)
		}
	}
	return out
}

/*
applyOperator looks up the lattice result for (left, op, right) by kind,
ignoring nullability (the lattice is defined over kinds,
not over nullable/non-nullable pairs). Concatenation on Record/Table with
known field shapes is special-cased into a structural merge rather than a
flat lattice lookup, since its result depends on the operands' field sets,
not just their kinds. An unmatched combination resolves to None.
*/
func applyOperator(left TType, op parser.Operator, right TType) TType {
	if op == parser.OpConcat {
		if merged, ok := tryStructuralConcat(left, op, right); ok {
			return merged
		}
	}

	key := latticeKey{left.Kind, op, right.Kind}
	if result, ok := lattice[key]; ok {
		return primitive(result)
	}

	return NoneInstance
}

/*
tryStructuralConcat implements the record/table merge rule: union of fields, left key wins on name collision, isOpen is the
disjunction of both operands' openness. Returns ok=false for anything that
is not a concatenation of two record-shaped or two table-shaped operands
with known fields, letting the caller fall back to the flat lattice lookup
(which still handles open records/tables with unknown field sets via the
plain Record/Table kind match).
*/
func tryStructuralConcat(left TType, op parser.Operator, right TType) (TType, bool) {
	if left.Extended == nil || right.Extended == nil {
		return TType{}, false
	}

	wantShape := ShapeDefinedRecord
	resultKind := Record
	if left.Kind == Table && right.Kind == Table {
		wantShape = ShapeDefinedTable
		resultKind = Table
	} else if left.Kind != Record || right.Kind != Record {
		return TType{}, false
	}

	if left.Extended.Kind != wantShape || right.Extended.Kind != wantShape {
		return TType{}, false
	}

	merged := make([]Field, 0, len(left.Extended.Fields)+len(right.Extended.Fields))
	index := map[string]int{}

	for _, f := range left.Extended.Fields {
		index[f.Name] = len(merged)
		merged = append(merged, f)
	}
	for _, f := range right.Extended.Fields {
		if i, ok := index[f.Name]; ok {
			_ = i // left key wins ties: keep the left-side field already in merged
			continue
		}
		index[f.Name] = len(merged)
		merged = append(merged, f)
	}

	return TType{
		Kind: resultKind,
		Extended: &ExtendedShape{
			Kind:   wantShape,
			Fields: merged,
			IsOpen: left.Extended.IsOpen || right.Extended.IsOpen,
		},
	}, true
}
