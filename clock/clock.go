// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock provides the ledger's notion of now, in unix seconds.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current timestamp. Successive calls never go backwards.
type Clock interface {
	Now() uint64
}

// System is the wall clock with a monotonic guard: a wall clock step back
// repeats the last returned value instead.
type System struct {
	mu   sync.Mutex
	last uint64
}

func NewSystem() *System {
	return &System{}
}

func (s *System) Now() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now := uint64(time.Now().Unix()); now > s.last {
		s.last = now
	}
	return s.last
}

// Mock is a manually driven clock for tests and replays.
type Mock struct {
	mu  sync.Mutex
	now uint64
}

func NewMock(now uint64) *Mock {
	return &Mock{now: now}
}

func (m *Mock) Now() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d seconds.
func (m *Mock) Advance(d uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += d
}

// Set moves the clock to ts. Moving backwards is ignored.
func (m *Mock) Set(ts uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ts > m.now {
		m.now = ts
	}
}
