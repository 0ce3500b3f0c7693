/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package complete

import (
	"reflect"
	"sort"
	"testing"

	"github.com/krotik/mquery/parser"
)

func sortedPrimitiveTypeNames() []string {
	names := parser.PrimitiveTypeNames()
	sort.Strings(names)
	return names
}

func TestPrimitiveTypesAfterAs(t *testing.T) {
	// "1 as " fails at the missing type; the full closed set is offered.
	c, _ := parseM(t, "1 as")
	an := activeAt(t, c, 5)

	got, err := PrimitiveTypes(an, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(got, sortedPrimitiveTypeNames()) {
		t.Errorf("got %v", got)
	}
}

func TestPrimitiveTypesAfterIs(t *testing.T) {
	c, _ := parseM(t, "1 is")
	an := activeAt(t, c, 5)

	got, err := PrimitiveTypes(an, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, sortedPrimitiveTypeNames()) {
		t.Errorf("got %v", got)
	}
}

func TestPrimitiveTypesAfterNullable(t *testing.T) {
	c, _ := parseM(t, "1 as nullable")
	an := activeAt(t, c, 14)

	got, err := PrimitiveTypes(an, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, sortedPrimitiveTypeNames()) {
		t.Errorf("got %v", got)
	}
}

func TestPrimitiveTypesPrefixFilter(t *testing.T) {
	c, _ := parseM(t, "1 as")
	an := activeAt(t, c, 5)

	got, err := PrimitiveTypes(an, "dat", nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"date", "datetime", "datetimezone"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPrimitiveTypesNotOfferedInPlainExpression(t *testing.T) {
	c, _ := parseM(t, "1 + 2")
	an := activeAt(t, c, 0)

	got, err := PrimitiveTypes(an, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want nothing", got)
	}
}

func TestPrimitiveTypesCancelled(t *testing.T) {
	c, _ := parseM(t, "1 as")
	an := activeAt(t, c, 5)

	if _, err := PrimitiveTypes(an, "", fakeCancelledToken{}); err == nil {
		t.Fatal("expected a cancellation error")
	}
}
