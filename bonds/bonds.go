/*
 * bonds.go, part of quantic.
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

package bonds

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	chem "github.com/amphiquantic/quantic"
	"github.com/amphiquantic/quantic/refdata"
)

//NearTolerance is the largest difference, in Angstrom, between a pair distance
//and the reference average for the pair to be considered a near bond.
const NearTolerance = 0.2

//Options for the bond determination.
type Options struct {
	cpus int
}

//DefaultOptions returns an Options with the default values: as many
//goroutines as CPUs.
func DefaultOptions() *Options {
	return &Options{cpus: runtime.NumCPU()}
}

//Returns the current value of the Cpus option (the number of goroutines to
//use in the determination) and sets it, if a valid value is given.
func (O *Options) Cpus(cpus ...int) int {
	ret := O.cpus
	if len(cpus) > 0 && cpus[0] > 0 {
		O.cpus = cpus[0]
	}
	return ret
}

//Result is the classification of all the atom pairs of a structure.
//A pair appears in at most one of Confirmed and Near. Pairs whose element
//pair has a reference range, but that fall neither in the range nor close
//to the average, don't appear anywhere.
type Result struct {
	Confirmed []chem.Pair
	Near      []chem.Pair
	Missing   map[refdata.PairKey]struct{} //element pairs with no reference data
}

func newResult() *Result {
	return &Result{
		Confirmed: make([]chem.Pair, 0),
		Near:      make([]chem.Pair, 0),
		Missing:   make(map[refdata.PairKey]struct{}),
	}
}

//MissingPairs returns the element pairs without reference data, sorted.
func (R *Result) MissingPairs() []refdata.PairKey {
	ret := make([]refdata.PairKey, 0, len(R.Missing))
	for k := range R.Missing {
		ret = append(ret, k)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].String() < ret[j].String() })
	return ret
}

//All returns the confirmed and the near bonds together, sorted.
func (R *Result) All() []chem.Pair {
	ret := make([]chem.Pair, 0, len(R.Confirmed)+len(R.Near))
	ret = append(ret, R.Confirmed...)
	ret = append(ret, R.Near...)
	chem.SortPairs(ret)
	return ret
}

//Engine determines bonds from interatomic distances, using a reference
//table of bond distances for each pair of elements.
//An Engine holds no mutable state, so it can be used from several goroutines.
type Engine struct {
	table *refdata.Table
	cpus  int
}

//NewEngine returns an Engine using the reference table. Only the first
//options given, if any, are used.
func NewEngine(table *refdata.Table, options ...*Options) *Engine {
	o := DefaultOptions()
	if len(options) > 0 && options[0] != nil {
		o = options[0]
	}
	cpus := o.Cpus()
	if cpus < 1 {
		cpus = 1
	}
	return &Engine{table: table, cpus: cpus}
}

//Determine classifies every pair i<j of atoms in coords/types. A pair is confirmed
//if its distance is within the reference range for its elements, and near if
//it isn't, but it's within NearTolerance of the reference average. Element pairs
//without any reference data are collected in the Missing set of the result.
//The input is not modified, and the results are sorted, so they don't depend
//on the number of goroutines used.
func (E *Engine) Determine(coords []r3.Vec, types []string) (*Result, error) {
	if len(coords) != len(types) {
		return nil, chem.NewError(chem.MalformedInput, fmt.Sprintf("%d coordinates but %d element types", len(coords), len(types)), "Determine")
	}
	if E.table == nil {
		return nil, chem.NewError(chem.ReferenceDataUnavailable, "no bond distance table", "Determine")
	}
	res := newResult()
	n := len(coords)
	if n < 2 {
		return res, nil
	}
	workers := E.cpus
	if workers > n {
		workers = n
	}
	partial := make([]*Result, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			partial[w] = E.rows(coords, types, w, workers)
		}(w)
	}
	wg.Wait()
	for _, p := range partial {
		res.Confirmed = append(res.Confirmed, p.Confirmed...)
		res.Near = append(res.Near, p.Near...)
		for k := range p.Missing {
			res.Missing[k] = struct{}{}
		}
	}
	chem.SortPairs(res.Confirmed)
	chem.SortPairs(res.Near)
	return res, nil
}

//rows classifies the pairs (i,j), j>i, for the rows i=first, first+stride, ...
func (E *Engine) rows(coords []r3.Vec, types []string, first, stride int) *Result {
	res := newResult()
	for i := first; i < len(coords); i += stride {
		for j := i + 1; j < len(coords); j++ {
			d := r3.Norm(r3.Sub(coords[i], coords[j]))
			r, hasRange := E.table.LookupRange(types[i], types[j])
			if hasRange && r.Contains(d) {
				res.Confirmed = append(res.Confirmed, chem.Pair{I: i, J: j})
				continue
			}
			avg, hasAvg := E.table.LookupAverage(types[i], types[j])
			if hasAvg {
				if math.Abs(d-avg) <= NearTolerance {
					res.Near = append(res.Near, chem.Pair{I: i, J: j})
				}
				//otherwise the pair is simply not bonded.
				continue
			}
			if !hasRange {
				res.Missing[refdata.NewPairKey(types[i], types[j])] = struct{}{}
			}
		}
	}
	return res
}
