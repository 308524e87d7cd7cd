/*
 * pack.go, part of quantic.
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

package compute

import (
	"github.com/cogentcore/webgpu/wgpu"
	"gonum.org/v1/gonum/spatial/r3"

	chem "github.com/amphiquantic/quantic"
)

//WorkgroupSize is the number of invocations per work-group of every kernel.
const WorkgroupSize = 64

//NoBond fills the bond buffer when there are no bonds, since empty
//buffers can't be bound. Kernels skip pairs holding it.
const NoBond = 0xFFFFFFFF

//maxGroups is the largest number of work-groups in one dispatch dimension.
const maxGroups = 65535

//params is the uniform block the kernels receive. It's 16 bytes long,
//with no implicit padding.
type params struct {
	StepSize    float32
	MaxSteps    uint32
	ProcessKind uint32
	pad         uint32
}

func packParams(job Job) []byte {
	return wgpu.ToBytes([]params{{StepSize: job.StepSize, MaxSteps: job.MaxSteps, ProcessKind: uint32(job.Kind)}})
}

//packPositions flattens coords into x,y,z float32 triplets.
func packPositions(coords []r3.Vec) []byte {
	flat := make([]float32, 0, 3*len(coords))
	for _, c := range coords {
		flat = append(flat, float32(c.X), float32(c.Y), float32(c.Z))
	}
	return wgpu.ToBytes(flat)
}

//packCodes gives the atomic number of each element symbol, 0 for unknown ones.
func packCodes(types []string) []byte {
	codes := make([]uint32, len(types))
	for i, t := range types {
		codes[i] = chem.ElementCode(t)
	}
	return wgpu.ToBytes(codes)
}

//packBonds flattens the pairs, or gives a single NoBond pair if there are none.
func packBonds(bonds []chem.Pair) []byte {
	if len(bonds) == 0 {
		return wgpu.ToBytes([]uint32{NoBond, NoBond})
	}
	flat := make([]uint32, 0, 2*len(bonds))
	for _, b := range bonds {
		flat = append(flat, uint32(b.I), uint32(b.J))
	}
	return wgpu.ToBytes(flat)
}

//unpackPositions reads n x,y,z float32 triplets from raw.
func unpackPositions(raw []byte, n int) []r3.Vec {
	flat := make([]float32, 3*n)
	copy(wgpu.ToBytes(flat), raw)
	ret := make([]r3.Vec, n)
	for i := range ret {
		ret[i] = r3.Vec{X: float64(flat[3*i]), Y: float64(flat[3*i+1]), Z: float64(flat[3*i+2])}
	}
	return ret
}

//workgroups returns ceil(n/WorkgroupSize).
func workgroups(n int) uint32 {
	return uint32((n + WorkgroupSize - 1) / WorkgroupSize)
}
