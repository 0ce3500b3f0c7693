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
	"testing"

	"github.com/krotik/mquery/ast"
)

func TestOptionalOfferedInOpenParameter(t *testing.T) {
	// "(x, " commits the parameter-list branch; the cursor sits in the first
	// slot of the open second Parameter.
	c, _ := parseM(t, "(x, ")
	an := activeAt(t, c, 4)

	got, err := LanguageConstants(c, an, "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"optional"}) {
		t.Errorf("got %v, want [optional]", got)
	}

	// Expression keywords stay out of a Parameter slot.
	keywords, err := Keywords(c, an, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(keywords) != 0 {
		t.Errorf("keywords = %v, want none at a Parameter slot", keywords)
	}
}

func TestOptionalNotOfferedAfterParameterName(t *testing.T) {
	// Once the parameter has its identifier, the optional marker slot has
	// passed.
	c, _ := parseM(t, "(x, y")

	root, _ := c.Root()
	if root.Kind() != ast.NodeKindParameterList {
		t.Skipf("unexpected root %v", root.Kind())
	}

	an := activeAt(t, c, 5)
	got, err := LanguageConstants(c, an, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range got {
		if s == "optional" {
			t.Errorf("got %v, optional must not be offered after the name", got)
		}
	}
}

func TestNullableOfferedInTypeSlot(t *testing.T) {
	c, _ := parseM(t, "1 as")
	an := activeAt(t, c, 5)

	got, err := LanguageConstants(c, an, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"nullable"}) {
		t.Errorf("got %v, want [nullable]", got)
	}
}

func TestNullablePrefixFilter(t *testing.T) {
	c, _ := parseM(t, "1 as")
	an := activeAt(t, c, 5)

	got, err := LanguageConstants(c, an, "nu", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"nullable"}) {
		t.Errorf("prefix nu: got %v", got)
	}

	got, err = LanguageConstants(c, an, "xy", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("prefix xy: got %v", got)
	}
}

func TestConstantsNotOfferedInPlainExpression(t *testing.T) {
	c, _ := parseM(t, "1 + 2")
	an := activeAt(t, c, 0)

	got, err := LanguageConstants(c, an, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want nothing", got)
	}
}

func TestConstantsCancelled(t *testing.T) {
	c, _ := parseM(t, "1 as")
	an := activeAt(t, c, 5)

	if _, err := LanguageConstants(c, an, "", fakeCancelledToken{}); err == nil {
		t.Fatal("expected a cancellation error")
	}
}
