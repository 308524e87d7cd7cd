/*
 * chem.go, part of quantic.
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

package chem

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

//Pair is an unordered pair of atom indexes, always stored with I<J.
type Pair struct {
	I, J int
}

//NewPair returns the Pair for atoms a and b, in canonical order.
func NewPair(a, b int) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{I: a, J: b}
}

func (P Pair) String() string {
	return fmt.Sprintf("(%d,%d)", P.I, P.J)
}

//SortPairs sorts pairs by I and then by J, in place.
func SortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].I != pairs[j].I {
			return pairs[i].I < pairs[j].I
		}
		return pairs[i].J < pairs[j].J
	})
}

/*****Structure type***/

//Structure is an ordered set of atoms. Atom identity is the index in
//Coords and Types, which always have the same length and order.
//Bonds holds the bonds currently attached to the structure, for instance
//read from CONECT records or assigned by the bonds package.
type Structure struct {
	Coords []r3.Vec
	Types  []string
	Bonds  []Pair
}

//NewStructure returns a Structure with the given coordinates and element symbols.
//It returns a MalformedInput error if the lengths don't match.
//The slices are used, not copied.
func NewStructure(coords []r3.Vec, types []string) (*Structure, error) {
	if len(coords) != len(types) {
		return nil, NewError(MalformedInput, fmt.Sprintf("%d coordinates but %d element types", len(coords), len(types)), "NewStructure")
	}
	return &Structure{Coords: coords, Types: types}, nil
}

//Len returns the number of atoms in the structure.
func (S *Structure) Len() int {
	return len(S.Coords)
}

//Copy returns a deep copy of the structure.
func (S *Structure) Copy() *Structure {
	ret := &Structure{
		Coords: make([]r3.Vec, len(S.Coords)),
		Types:  make([]string, len(S.Types)),
	}
	copy(ret.Coords, S.Coords)
	copy(ret.Types, S.Types)
	if S.Bonds != nil {
		ret.Bonds = make([]Pair, len(S.Bonds))
		copy(ret.Bonds, S.Bonds)
	}
	return ret
}

//AddAtom appends an atom with symbol at position c.
func (S *Structure) AddAtom(symbol string, c r3.Vec) {
	S.Coords = append(S.Coords, c)
	S.Types = append(S.Types, symbol)
}

//SetCoords replaces the coordinates of the structure. The number of
//atoms can't change.
func (S *Structure) SetCoords(coords []r3.Vec) error {
	if len(coords) != len(S.Coords) {
		return NewError(MalformedInput, fmt.Sprintf("%d coordinates given, %d expected", len(coords), len(S.Coords)), "SetCoords")
	}
	S.Coords = coords
	return nil
}

//Corrupted checks that the structure is internally consistent: same number
//of coordinates and types, and bonds that refer to existing atoms.
func (S *Structure) Corrupted() error {
	if len(S.Coords) != len(S.Types) {
		return NewError(MalformedInput, fmt.Sprintf("%d coordinates but %d element types", len(S.Coords), len(S.Types)), "Corrupted")
	}
	return CheckPairs(S.Bonds, len(S.Coords))
}

//CheckPairs returns a MalformedInput error if any pair refers to an atom
//outside 0..n-1, or pairs an atom with itself.
func CheckPairs(pairs []Pair, n int) error {
	for k, p := range pairs {
		if p.I < 0 || p.J < 0 || p.I >= n || p.J >= n {
			return NewError(MalformedInput, fmt.Sprintf("bond %d %v out of range for %d atoms", k, p, n), "CheckPairs")
		}
		if p.I == p.J {
			return NewError(MalformedInput, fmt.Sprintf("bond %d %v joins an atom with itself", k, p), "CheckPairs")
		}
	}
	return nil
}

//Mass returns the sum of the atomic masses in S. Elements without a known
//mass add nothing, and their symbols are returned, each one once.
func (S *Structure) Mass() (float64, []string) {
	var total float64
	var unknown []string
	seen := make(map[string]bool)
	for _, t := range S.Types {
		m := Mass(t)
		if m == 0 && !seen[t] {
			seen[t] = true
			unknown = append(unknown, t)
		}
		total += m
	}
	return total, unknown
}

//Distance returns the Euclidean distance between atoms i and j.
func (S *Structure) Distance(i, j int) float64 {
	return r3.Norm(r3.Sub(S.Coords[i], S.Coords[j]))
}
