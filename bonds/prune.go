/*
 * prune.go, part of quantic.
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
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	chem "github.com/amphiquantic/quantic"
	"github.com/amphiquantic/quantic/refdata"
)

type bond struct {
	pair chem.Pair
	dist float64
}

//PruneByValence removes, from each atom with more bonds than its valence,
//its longest bonds until the number of bonds is not greater than the valence.
//Atoms are visited in index order. Elements with valence 0, or not present in
//atoms, have no limit. The pruned list is returned sorted; pairs is not modified.
func PruneByValence(coords []r3.Vec, types []string, pairs []chem.Pair, atoms refdata.AtomProperties) ([]chem.Pair, error) {
	if len(coords) != len(types) {
		return nil, chem.NewError(chem.MalformedInput, fmt.Sprintf("%d coordinates but %d element types", len(coords), len(types)), "PruneByValence")
	}
	if err := chem.CheckPairs(pairs, len(coords)); err != nil {
		return nil, chem.ErrDecorate(err, "PruneByValence")
	}
	perAtom := make([][]*bond, len(coords))
	for _, p := range pairs {
		p = chem.NewPair(p.I, p.J)
		b := &bond{pair: p, dist: r3.Norm(r3.Sub(coords[p.I], coords[p.J]))}
		perAtom[p.I] = append(perAtom[p.I], b)
		perAtom[p.J] = append(perAtom[p.J], b)
	}
	removed := make(map[*bond]bool)
	for i := range perAtom {
		max := atoms.MaxBonds(types[i])
		if max == 0 { //means there is not a specified number of bonds for this atom.
			continue
		}
		live := alive(perAtom[i], removed)
		if len(live) <= max {
			continue
		}
		sort.SliceStable(live, func(a, b int) bool { return live[a].dist < live[b].dist })
		for _, b := range live[max:] {
			removed[b] = true
		}
	}
	ret := make([]chem.Pair, 0, len(pairs)-len(removed))
	seen := make(map[*bond]bool)
	for _, list := range perAtom {
		for _, b := range list {
			if removed[b] || seen[b] {
				continue
			}
			seen[b] = true
			ret = append(ret, b.pair)
		}
	}
	chem.SortPairs(ret)
	return ret, nil
}

func alive(list []*bond, removed map[*bond]bool) []*bond {
	ret := make([]*bond, 0, len(list))
	for _, b := range list {
		if !removed[b] {
			ret = append(ret, b)
		}
	}
	return ret
}
