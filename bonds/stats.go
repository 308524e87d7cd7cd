/*
 * stats.go, part of quantic.
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

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	chem "github.com/amphiquantic/quantic"
)

//Statistics summarizes a set of bond lengths.
type Statistics struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func (S Statistics) String() string {
	return fmt.Sprintf("%d bonds, mean %.3f +/- %.3f, range [%.3f, %.3f]", S.N, S.Mean, S.StdDev, S.Min, S.Max)
}

//Lengths returns the length of each bond in pairs, in the same order.
func Lengths(coords []r3.Vec, pairs []chem.Pair) ([]float64, error) {
	if err := chem.CheckPairs(pairs, len(coords)); err != nil {
		return nil, chem.ErrDecorate(err, "Lengths")
	}
	ret := make([]float64, len(pairs))
	for k, p := range pairs {
		ret[k] = r3.Norm(r3.Sub(coords[p.I], coords[p.J]))
	}
	return ret, nil
}

//Stats returns the statistics of the lengths of the bonds in pairs.
//The zero Statistics is returned for an empty list. The standard deviation
//is the unbiased one, and it's 0 for a single bond.
func Stats(coords []r3.Vec, pairs []chem.Pair) (Statistics, error) {
	l, err := Lengths(coords, pairs)
	if err != nil {
		return Statistics{}, chem.ErrDecorate(err, "Stats")
	}
	if len(l) == 0 {
		return Statistics{}, nil
	}
	ret := Statistics{N: len(l), Min: floats.Min(l), Max: floats.Max(l)}
	if len(l) == 1 {
		ret.Mean = l[0]
		return ret, nil
	}
	ret.Mean, ret.StdDev = stat.MeanStdDev(l, nil)
	return ret, nil
}
