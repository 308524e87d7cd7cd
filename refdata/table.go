/*
 * table.go, part of quantic.
 *
 *
 * Copyright 2024 The quantic Authors
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

package refdata

import (
	"fmt"
	"sort"
	"strings"

	chem "github.com/amphiquantic/quantic"
)

//PairKey is the canonical key for a pair of element symbols: the two
//symbols are normalized and sorted, so the key for (A,B) and (B,A) is the same.
type PairKey struct {
	A, B string
}

//NewPairKey returns the canonical key for symbols a and b.
func NewPairKey(a, b string) PairKey {
	a = chem.NormalizeSymbol(a)
	b = chem.NormalizeSymbol(b)
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

//ParsePairKey parses keys of the form "A-B", as used in the bond distance tables.
func ParsePairKey(s string) (PairKey, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return PairKey{}, fmt.Errorf("malformed element pair key %q", s)
	}
	return NewPairKey(parts[0], parts[1]), nil
}

func (K PairKey) String() string {
	return K.A + "-" + K.B
}

//Range is a reference bond distance interval, in Angstrom.
type Range struct {
	Min, Max float64
}

//Contains reports whether Min <= d <= Max.
func (R Range) Contains(d float64) bool {
	return R.Min <= d && d <= R.Max
}

//Average returns the middle point of the range.
func (R Range) Average() float64 {
	return (R.Min + R.Max) / 2
}

//Table is an immutable lookup of element-pair bond distance ranges and
//their averages. It is built once, at startup, and then shared read-only,
//so it is safe for concurrent use.
type Table struct {
	ranges   map[PairKey]Range
	averages map[PairKey]float64
}

//NewTable builds a Table from a map of "A-B" keys to [min, max] distances.
//The averages are derived from the ranges. Malformed keys, inverted ranges and
//conflicting duplicates ("A-B" and "B-A" with different values) give a
//ReferenceDataUnavailable error.
func NewTable(ranges map[string][2]float64) (*Table, error) {
	T := &Table{
		ranges:   make(map[PairKey]Range, len(ranges)),
		averages: make(map[PairKey]float64, len(ranges)),
	}
	for k, v := range ranges {
		key, err := ParsePairKey(k)
		if err != nil {
			return nil, chem.WrapError(chem.ReferenceDataUnavailable, err, "bad bond distance table", "NewTable")
		}
		r := Range{Min: v[0], Max: v[1]}
		if r.Min > r.Max {
			return nil, chem.NewError(chem.ReferenceDataUnavailable, fmt.Sprintf("inverted range %v for %s", v, k), "NewTable")
		}
		if prev, ok := T.ranges[key]; ok && prev != r {
			return nil, chem.NewError(chem.ReferenceDataUnavailable, fmt.Sprintf("conflicting ranges for %s: %v and %v", key, prev, r), "NewTable")
		}
		T.ranges[key] = r
		T.averages[key] = r.Average()
	}
	return T, nil
}

//LookupRange returns the reference range for the elements a and b,
//in any order, and whether it exists.
func (T *Table) LookupRange(a, b string) (Range, bool) {
	r, ok := T.ranges[NewPairKey(a, b)]
	return r, ok
}

//LookupAverage returns the reference average distance for the elements
//a and b, in any order, and whether it exists.
func (T *Table) LookupAverage(a, b string) (float64, bool) {
	avg, ok := T.averages[NewPairKey(a, b)]
	return avg, ok
}

//Len returns the number of element pairs in the table.
func (T *Table) Len() int {
	return len(T.ranges)
}

//Keys returns the element pairs in the table, sorted.
func (T *Table) Keys() []PairKey {
	keys := make([]PairKey, 0, len(T.ranges))
	for k := range T.ranges {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].A != keys[j].A {
			return keys[i].A < keys[j].A
		}
		return keys[i].B < keys[j].B
	})
	return keys
}
