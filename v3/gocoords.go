/*
 * gocoords.go, part of quantic.
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

package v3

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

//BoundingBox returns the minimum and maximum value of each coordinate in F.
func (F *Matrix) BoundingBox() (min, max r3.Vec) {
	col := make([]float64, F.NVecs())
	var mins, maxs [3]float64
	for j := 0; j < 3; j++ {
		mat.Col(col, j, F.Dense)
		mins[j] = floats.Min(col)
		maxs[j] = floats.Max(col)
	}
	return r3.Vec{X: mins[0], Y: mins[1], Z: mins[2]}, r3.Vec{X: maxs[0], Y: maxs[1], Z: maxs[2]}
}

//Centroid returns the geometric center of the vectors in F.
func (F *Matrix) Centroid() r3.Vec {
	n := float64(F.NVecs())
	col := make([]float64, F.NVecs())
	var c [3]float64
	for j := 0; j < 3; j++ {
		mat.Col(col, j, F.Dense)
		c[j] = floats.Sum(col) / n
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}
}

//SubVec subtracts the vector vec from each vector in A, putting the result on the receiver.
func (F *Matrix) SubVec(A *Matrix, vec r3.Vec) {
	F.AddVec(A, r3.Scale(-1, vec))
}

//AddVec adds the vector vec to each vector in A, putting the result on the receiver.
func (F *Matrix) AddVec(A *Matrix, vec r3.Vec) {
	ar, _ := A.Dims()
	fr, _ := F.Dims()
	if ar != fr {
		panic(ErrShape)
	}
	for i := 0; i < ar; i++ {
		F.Set(i, 0, A.At(i, 0)+vec.X)
		F.Set(i, 1, A.At(i, 1)+vec.Y)
		F.Set(i, 2, A.At(i, 2)+vec.Z)
	}
}

//RMSD returns the root mean square deviation between the vectors of
//A and B, which must have the same number of vectors. No superposition
//is performed.
func RMSD(A, B *Matrix) (float64, error) {
	ar := A.NVecs()
	if ar != B.NVecs() {
		return -1, Error{"Ill formed matrices for RMSD calculation", []string{"RMSD"}, false}
	}
	diff := mat.NewDense(ar, 3, nil)
	diff.Sub(A.Dense, B.Dense)
	sq := mat.Norm(diff, 2) //Frobenius
	return math.Sqrt(sq * sq / float64(ar)), nil
}
