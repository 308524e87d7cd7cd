/*
 * layout.go, part of quantic.
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
	"gonum.org/v1/gonum/spatial/r3"

	v3 "github.com/amphiquantic/quantic/v3"
)

//BoundingBox returns the minimum and maximum corners of the box that contains
//all the atoms in S. Both are the zero vector for an empty structure.
func (S *Structure) BoundingBox() (min, max r3.Vec) {
	M := v3.FromVecs(S.Coords)
	if M == nil {
		return
	}
	return M.BoundingBox()
}

//Centroid returns the geometric center of the atoms in S, or the zero
//vector for an empty structure.
func (S *Structure) Centroid() r3.Vec {
	M := v3.FromVecs(S.Coords)
	if M == nil {
		return r3.Vec{}
	}
	return M.Centroid()
}

//Center translates S so its centroid is at the origin, and returns the
//translation that was subtracted.
func (S *Structure) Center() r3.Vec {
	M := v3.FromVecs(S.Coords)
	if M == nil {
		return r3.Vec{}
	}
	c := M.Centroid()
	M.SubVec(M, c)
	S.Coords = M.Vecs()
	return c
}

//AdjustCoordinates rescales the x and y coordinates so the structure fills
//an area of fill plus a margin on each side: x goes from margin[0] to
//fill[0]+3*margin[0], and likewise for y. The z coordinates are kept.
//An axis along which all atoms have the same value is mapped to the middle of its range.
//coords is not modified.
func AdjustCoordinates(coords []r3.Vec, fill, margin [2]float64) []r3.Vec {
	ret := make([]r3.Vec, len(coords))
	M := v3.FromVecs(coords)
	if M == nil {
		return ret
	}
	min, max := M.BoundingBox()
	total := [2]float64{fill[0] + 2*margin[0], fill[1] + 2*margin[1]}
	mins := [2]float64{min.X, min.Y}
	extent := [2]float64{max.X - min.X, max.Y - min.Y}
	var scale [2]float64
	for k := range scale {
		if extent[k] > 0 {
			scale[k] = total[k] / extent[k]
		}
	}
	adjust := func(v float64, k int) float64 {
		if extent[k] == 0 {
			return margin[k] + total[k]/2
		}
		return (v-mins[k])*scale[k] + margin[k]
	}
	for i, c := range coords {
		ret[i] = r3.Vec{X: adjust(c.X, 0), Y: adjust(c.Y, 1), Z: c.Z}
	}
	return ret
}
