/*
 * solvation.go, part of quantic.
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

package solv

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	chem "github.com/amphiquantic/quantic"
	v3 "github.com/amphiquantic/quantic/v3"
)

//TIP3P water geometry, relative to the oxygen.
var tip3p = [3]struct {
	symbol string
	offset r3.Vec
}{
	{"O", r3.Vec{}},
	{"H", r3.Vec{X: 0.9572}},
	{"H", r3.Vec{X: -0.2399872, Y: 0.92662721}},
}

type Options struct {
	cpus    int
	grid    float64
	jitter  float64
	mindist float64
	step    float64
	end     float64
}

//Returns an Options with the default options.
func DefaultOptions() *Options {
	return &Options{
		cpus:    runtime.NumCPU(),
		grid:    3,
		jitter:  0.1,
		mindist: 2,
		step:    0.5,
		end:     10,
	}
}

//Returns the current value of the Cpus option (the number of goroutines to
//use in the shell calculation) and sets it, if a valid value is given.
func (O *Options) Cpus(cpus ...int) int {
	ret := O.cpus
	if len(cpus) > 0 && cpus[0] > 0 {
		O.cpus = cpus[0]
	}
	return ret
}

//Returns the spacing of the water grid, and sets it, if a valid value is given.
func (O *Options) Grid(grid ...float64) float64 {
	ret := O.grid
	if len(grid) > 0 && grid[0] > 0 {
		O.grid = grid[0]
	}
	return ret
}

//Returns the maximum random displacement of each water atom, and sets it, if a valid value is given.
func (O *Options) Jitter(jitter ...float64) float64 {
	ret := O.jitter
	if len(jitter) > 0 && jitter[0] >= 0 {
		O.jitter = jitter[0]
	}
	return ret
}

//Returns the minimum distance between a new water and any other atom, and sets it, if a valid value is given.
func (O *Options) MinDist(d ...float64) float64 {
	ret := O.mindist
	if len(d) > 0 && d[0] >= 0 {
		O.mindist = d[0]
	}
	return ret
}

//Returns the width of each shell in Shells, and sets it, if a valid value is given.
func (O *Options) Step(step ...float64) float64 {
	ret := O.step
	if len(step) > 0 && step[0] > 0 {
		O.step = step[0]
	}
	return ret
}

//Returns the largest distance considered in Shells, and sets it, if a valid value is given.
func (O *Options) End(end ...float64) float64 {
	ret := O.end
	if len(end) > 0 && end[0] > 0 {
		O.end = end[0]
	}
	return ret
}

func options(o []*Options) *Options {
	if len(o) > 0 && o[0] != nil {
		return o[0]
	}
	return DefaultOptions()
}

//AddIons adds n atoms of the element ion to S, placed uniformly at random in
//the bounding box of S. It returns an error if S has no atoms.
func AddIons(S *chem.Structure, ion string, n int, rng *rand.Rand) error {
	M := v3.FromVecs(S.Coords)
	if M == nil {
		return chem.NewError(chem.MalformedInput, "can't place ions around an empty structure", "AddIons")
	}
	if n < 0 {
		return chem.NewError(chem.MalformedInput, fmt.Sprintf("negative number of ions %d", n), "AddIons")
	}
	min, max := M.BoundingBox()
	ion = chem.NormalizeSymbol(ion)
	for i := 0; i < n; i++ {
		c := r3.Vec{
			X: min.X + rng.Float64()*(max.X-min.X),
			Y: min.Y + rng.Float64()*(max.Y-min.Y),
			Z: min.Z + rng.Float64()*(max.Z-min.Z),
		}
		S.AddAtom(ion, c)
	}
	return nil
}

//SolvateBox fills the bounding box of S, padded by box on each side, with TIP3P
//waters on a grid (3 A by default). Each water atom is displaced at random by
//up to the jitter (0.1 A by default) along each axis. Waters closer than the minimum
//distance (2 A by default) to any atom already present, including other
//waters, are skipped. The O-H bonds of the new waters are added to S.Bonds.
//It returns the number of waters added.
func SolvateBox(S *chem.Structure, box float64, rng *rand.Rand, opts ...*Options) (int, error) {
	o := options(opts)
	M := v3.FromVecs(S.Coords)
	if M == nil {
		return 0, chem.NewError(chem.MalformedInput, "can't solvate an empty structure", "SolvateBox")
	}
	if box < 0 || math.IsNaN(box) {
		return 0, chem.NewError(chem.MalformedInput, fmt.Sprintf("invalid box padding %f", box), "SolvateBox")
	}
	min, max := M.BoundingBox()
	start := r3.Vec{X: math.Trunc(min.X - box), Y: math.Trunc(min.Y - box), Z: math.Trunc(min.Z - box)}
	end := r3.Vec{X: math.Trunc(max.X + box), Y: math.Trunc(max.Y + box), Z: math.Trunc(max.Z + box)}
	cells := newCellList(o.mindist)
	for _, c := range S.Coords {
		cells.add(c)
	}
	added := 0
	for x := start.X; x < end.X; x += o.grid {
		for y := start.Y; y < end.Y; y += o.grid {
			for z := start.Z; z < end.Z; z += o.grid {
				var w [3]r3.Vec
				clash := false
				for k, at := range tip3p {
					w[k] = r3.Add(r3.Vec{X: x, Y: y, Z: z}, at.offset)
					w[k] = r3.Add(w[k], r3.Vec{X: jitter(rng, o.jitter), Y: jitter(rng, o.jitter), Z: jitter(rng, o.jitter)})
					if cells.near(w[k]) {
						clash = true
					}
				}
				if clash {
					continue
				}
				first := S.Len()
				for k, at := range tip3p {
					S.AddAtom(at.symbol, w[k])
					cells.add(w[k])
				}
				S.Bonds = append(S.Bonds, chem.Pair{I: first, J: first + 1}, chem.Pair{I: first, J: first + 2})
				added++
			}
		}
	}
	return added, nil
}

func jitter(rng *rand.Rand, j float64) float64 {
	if j == 0 {
		return 0
	}
	return (2*rng.Float64() - 1) * j
}

//cellList finds whether a point is closer than d to any point added, looking
//only at the neighbouring cells.
type cellList struct {
	d     float64
	cells map[[3]int][]r3.Vec
}

func newCellList(d float64) *cellList {
	return &cellList{d: d, cells: make(map[[3]int][]r3.Vec)}
}

func (C *cellList) key(p r3.Vec) [3]int {
	return [3]int{int(math.Floor(p.X / C.d)), int(math.Floor(p.Y / C.d)), int(math.Floor(p.Z / C.d))}
}

func (C *cellList) add(p r3.Vec) {
	if C.d <= 0 {
		return
	}
	k := C.key(p)
	C.cells[k] = append(C.cells[k], p)
}

func (C *cellList) near(p r3.Vec) bool {
	if C.d <= 0 {
		return false
	}
	k := C.key(p)
	for i := -1; i <= 1; i++ {
		for j := -1; j <= 1; j++ {
			for l := -1; l <= 1; l++ {
				for _, q := range C.cells[[3]int{k[0] + i, k[1] + j, k[2] + l}] {
					if r3.Norm(r3.Sub(p, q)) < C.d {
						return true
					}
				}
			}
		}
	}
	return false
}

//Shells counts the atoms of element solvent by their distance to the closest
//atom in ref. Element i of the returned slice is the number of solvent atoms
//with that distance in [i*step, (i+1)*step), up to the End option. Atoms in ref
//are never counted.
func Shells(S *chem.Structure, ref []int, solvent string, opts ...*Options) ([]int, error) {
	o := options(opts)
	if err := S.Corrupted(); err != nil {
		return nil, chem.ErrDecorate(err, "Shells")
	}
	isref := make(map[int]bool, len(ref))
	for _, r := range ref {
		if r < 0 || r >= S.Len() {
			return nil, chem.NewError(chem.MalformedInput, fmt.Sprintf("reference atom %d out of range", r), "Shells")
		}
		isref[r] = true
	}
	if len(ref) == 0 {
		return nil, chem.NewError(chem.MalformedInput, "no reference atoms", "Shells")
	}
	solvent = chem.NormalizeSymbol(solvent)
	targets := make([]int, 0)
	for i, t := range S.Types {
		if !isref[i] && chem.NormalizeSymbol(t) == solvent {
			targets = append(targets, i)
		}
	}
	dists := make([]float64, len(targets))
	cpus := o.cpus
	if cpus < 1 {
		cpus = 1
	}
	var wg sync.WaitGroup
	for w := 0; w < cpus; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for k := w; k < len(targets); k += cpus {
				d := math.Inf(1)
				for _, r := range ref {
					d = math.Min(d, r3.Norm(r3.Sub(S.Coords[targets[k]], S.Coords[r])))
				}
				dists[k] = d
			}
		}(w)
	}
	wg.Wait()
	sort.Float64s(dists)
	nshells := int(math.Ceil(o.end / o.step))
	ret := make([]int, nshells)
	prev := 0
	for i := 0; i < nshells; i++ {
		limit := float64(i+1) * o.step
		n := sort.SearchFloat64s(dists, limit)
		ret[i] = n - prev
		prev = n
	}
	return ret, nil
}
