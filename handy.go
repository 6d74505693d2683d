/*
 * handy.go, part of molprep.
 *
 * Copyright 2026 The molprep authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package chem

import "strings"

// Deg2Rad converts degrees to radians.
func Deg2Rad(f float64) float64 {
	return f * 0.0174532925199433
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(f float64) float64 {
	return f / 0.0174532925199433
}

// OrderedSet collects values without repetitions, keeping the order in which
// they were first added. The zero value is ready to use.
type OrderedSet[T comparable] struct {
	seen  map[T]struct{}
	items []T
}

// Add adds v to the set. It returns false if v was already there.
func (S *OrderedSet[T]) Add(v T) bool {
	if S.seen == nil {
		S.seen = make(map[T]struct{})
	}
	if _, ok := S.seen[v]; ok {
		return false
	}
	S.seen[v] = struct{}{}
	S.items = append(S.items, v)
	return true
}

// Has tells whether v is in the set.
func (S *OrderedSet[T]) Has(v T) bool {
	_, ok := S.seen[v]
	return ok
}

// Len returns the number of elements in the set.
func (S *OrderedSet[T]) Len() int { return len(S.items) }

// Items returns a copy of the elements, in the order they were added.
func (S *OrderedSet[T]) Items() []T {
	ret := make([]T, len(S.items))
	copy(ret, S.items)
	return ret
}

// Reset empties the set.
func (S *OrderedSet[T]) Reset() {
	clear(S.seen)
	S.items = S.items[:0]
}

// JoinNames returns the names without padding, separated by single spaces,
// as they appear in aggregated warnings.
func JoinNames(names []string) string {
	t := make([]string, len(names))
	for i, v := range names {
		t[i] = TrimName(v)
	}
	return strings.Join(t, " ")
}
