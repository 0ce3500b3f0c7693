/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package ast

import "fmt"

/*
InvariantError reports a violated NodeIdMap invariant. It
is always a programming bug in the parser, never user-triggerable from
valid or invalid M source, so callers typically just log and fail the
containing test rather than try to recover from it.
*/
type InvariantError struct {
	Code    string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func disjointnessViolation(id NodeId) error {
	return &InvariantError{"disjointness", fmt.Sprintf("node %d present in both astNodeById and contextNodeById", id)}
}

func parentChildViolation(child, parent NodeId) error {
	return &InvariantError{"parent-child", fmt.Sprintf("parentIdById[%d]=%d but %d is not in childIdsById[%d]", child, parent, child, parent)}
}

func attributeIndexViolation(child NodeId, actual, recorded int) error {
	return &InvariantError{"attribute-index", fmt.Sprintf("node %d sits at childIdsById position %d but recorded attributeIndex is %d", child, actual, recorded)}
}

func astClosureViolation(parent, child NodeId) error {
	return &InvariantError{"ast-closure", fmt.Sprintf("ast node %d has non-ast child %d", parent, child)}
}

func leafNotAstViolation(id NodeId) error {
	return &InvariantError{"leaf-flag", fmt.Sprintf("node %d is flagged as a leaf but is not in astNodeById", id)}
}
