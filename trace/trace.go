/*
 * MQUERY
 *
 * Copyright 2024 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package trace provides the pluggable TraceManager named by Settings
// and the cancellation token shared by every suspension point
// in the inspection pipeline.
package trace

import (
	"fmt"
	"time"

	"devt.de/krotik/common/datautil"
)

/*
CorrelationId identifies a single façade request for trace correlation.
*/
type CorrelationId uint64

/*
Line is a single emitted trace event.
*/
type Line struct {
	CorrelationId CorrelationId
	Component     string
	Event         string
	Elapsed       time.Duration
}

/*
Manager is the pluggable trace sink. Settings.TraceManager picks between the
three supported variants: no-op, line-callback, and
benchmark-with-timestamps.
*/
type Manager interface {

	/*
		Entry starts a trace span for component/event and returns a function
		to call when the span ends.
	*/
	Entry(correlationId CorrelationId, component, event string) func()

	/*
		NextCorrelationId returns a fresh, increasing correlation id, seeded
		from Settings.InitialCorrelationId.
	*/
	NextCorrelationId() CorrelationId
}

/*
NoOpManager is the default: every method is a no-op.
*/
type NoOpManager struct {
	next uint64
}

/*
NewNoOpManager returns a trace manager that discards everything.
*/
func NewNoOpManager(initial uint64) *NoOpManager {
	return &NoOpManager{next: initial}
}

/*
Entry is a no-op; it returns a no-op close function.
*/
func (m *NoOpManager) Entry(CorrelationId, string, string) func() {
	return func() {}
}

/*
NextCorrelationId returns a strictly increasing id.
*/
func (m *NoOpManager) NextCorrelationId() CorrelationId {
	m.next++
	return CorrelationId(m.next)
}

/*
LineCallbackManager forwards every trace line to a user-supplied callback as
it happens, rather than buffering it.
*/
type LineCallbackManager struct {
	next     uint64
	callback func(Line)
}

/*
NewLineCallbackManager wraps callback in a Manager.
*/
func NewLineCallbackManager(initial uint64, callback func(Line)) *LineCallbackManager {
	return &LineCallbackManager{next: initial, callback: callback}
}

/*
Entry emits a Line with Elapsed=0 immediately, and another with the measured
elapsed time when the returned function is called.
*/
func (m *LineCallbackManager) Entry(id CorrelationId, component, event string) func() {
	start := time.Now()
	m.callback(Line{CorrelationId: id, Component: component, Event: event})

	return func() {
		m.callback(Line{CorrelationId: id, Component: component, Event: event, Elapsed: time.Since(start)})
	}
}

/*
NextCorrelationId returns a strictly increasing id.
*/
func (m *LineCallbackManager) NextCorrelationId() CorrelationId {
	m.next++
	return CorrelationId(m.next)
}

/*
BenchmarkManager records timestamped (event, elapsed) pairs in a bounded
ring buffer, so long-running hosts retain only the most recent spans.
*/
type BenchmarkManager struct {
	next uint64
	buf  *datautil.RingBuffer
}

/*
NewBenchmarkManager returns a benchmark trace manager retaining up to size
entries.
*/
func NewBenchmarkManager(initial uint64, size int) *BenchmarkManager {
	return &BenchmarkManager{next: initial, buf: datautil.NewRingBuffer(size)}
}

/*
Entry records a timestamped entry line when the span starts, and records the
elapsed time when the returned function is called.
*/
func (m *BenchmarkManager) Entry(id CorrelationId, component, event string) func() {
	start := time.Now()

	return func() {
		m.buf.Add(fmt.Sprintf("%s [%d] %s.%s took %s",
			start.Format(time.RFC3339Nano), id, component, event, time.Since(start)))
	}
}

/*
NextCorrelationId returns a strictly increasing id.
*/
func (m *BenchmarkManager) NextCorrelationId() CorrelationId {
	m.next++
	return CorrelationId(m.next)
}

/*
Lines returns the currently retained benchmark lines, oldest first.
*/
func (m *BenchmarkManager) Lines() []string {
	sl := m.buf.Slice()
	ret := make([]string, len(sl))
	for i, l := range sl {
		ret[i] = l.(string)
	}
	return ret
}
