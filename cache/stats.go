// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts the lookups of a cache.
type Stats struct {
	hit, miss atomic.Int64
	// hit rate in permille, as of the last call to Stats
	reported atomic.Int32
}

// Hit records a hit and returns the total.
func (s *Stats) Hit() int64 { return s.hit.Add(1) }

// Miss records a miss and returns the total.
func (s *Stats) Miss() int64 { return s.miss.Add(1) }

// HitRate returns the ratio of hits over lookups, 0 before any lookup.
func (s *Stats) HitRate() float64 {
	hit, miss := s.hit.Load(), s.miss.Load()
	if hit+miss == 0 {
		return 0
	}
	return float64(hit) / float64(hit+miss)
}

// Stats returns the hit and miss counters, and whether the hit rate moved
// by at least one permille since the previous call.
func (s *Stats) Stats() (changed bool, hit, miss int64) {
	hit, miss = s.hit.Load(), s.miss.Load()
	rate := int32(0)
	if hit+miss > 0 {
		rate = int32(hit * 1000 / (hit + miss))
	}
	return s.reported.Swap(rate) != rate, hit, miss
}
