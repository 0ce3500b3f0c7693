/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package trace

import (
	"sync/atomic"

	"github.com/krotik/mquery/errs"
)

/*
CancellationToken exposes the engine's cooperative-cancellation contract:
ThrowIfCancelled and IsCancelled. It has no cleanup obligations - all
state is heap-owned and garbage-collected regardless of when (or whether)
cancellation happens.
*/
type CancellationToken interface {

	/*
		IsCancelled reports whether cancellation has been requested.
	*/
	IsCancelled() bool

	/*
		ThrowIfCancelled returns a non-nil error iff cancellation has been
		requested. Every suspension point (traversal, scope build, type
		inference, autocomplete sub-inspector) calls this at entry.
	*/
	ThrowIfCancelled() error
}

/*
flagToken is a CancellationToken backed by an atomic flag. It is the token
Settings.CancellationToken is typically populated with.
*/
type flagToken struct {
	cancelled int32
}

/*
NewToken returns a fresh, not-yet-cancelled CancellationToken together with
the function that cancels it.
*/
func NewToken() (CancellationToken, func()) {
	t := &flagToken{}
	return t, func() { atomic.StoreInt32(&t.cancelled, 1) }
}

/*
IsCancelled reports whether Cancel has been called.
*/
func (t *flagToken) IsCancelled() bool {
	return atomic.LoadInt32(&t.cancelled) != 0
}

/*
ThrowIfCancelled returns a *errs.CommonError iff the token has been
cancelled - the same error family every other unrecoverable abort in this
engine surfaces, so callers propagate one cancellation type.
*/
func (t *flagToken) ThrowIfCancelled() error {
	if t.IsCancelled() {
		return errs.NewCancellationError()
	}
	return nil
}
