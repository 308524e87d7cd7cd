/*
 * fake_test.go, part of quantic.
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
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

//fakeProvider hands out a fakeDevice, or fails with err.
type fakeProvider struct {
	err      error
	dev      *fakeDevice
	acquired int
}

func (P *fakeProvider) Acquire() (Device, error) {
	P.acquired++
	if P.err != nil {
		return nil, P.err
	}
	return P.dev, nil
}

type fakeBuffer struct {
	dev      *fakeDevice
	label    string
	data     []byte
	access   Access
	released bool
}

func (B *fakeBuffer) Release() {
	if !B.released {
		B.released = true
		B.dev.live--
	}
}

type fakePipeline struct {
	dev      *fakeDevice
	source   string
	bindings []Binding
	released bool
}

func (P *fakePipeline) Release() {
	if !P.released {
		P.released = true
		P.dev.live--
	}
}

//fakeDevice runs a CPU stand-in for the kernels: for every step, both
//atoms of each bond move StepSize along x.
type fakeDevice struct {
	live       int //buffers and pipelines not yet released
	uploads    []*fakeBuffer
	stagings   []*fakeBuffer
	pipelines  []*fakePipeline
	dispatches int
	groups     uint32
	released   int

	failPipeline bool
	failDispatch bool
	failRead     bool
}

func (D *fakeDevice) Upload(label string, data []byte, access Access) (Buffer, error) {
	B := &fakeBuffer{dev: D, label: label, data: append([]byte(nil), data...), access: access}
	D.live++
	D.uploads = append(D.uploads, B)
	return B, nil
}

func (D *fakeDevice) Staging(label string, size uint64) (Buffer, error) {
	B := &fakeBuffer{dev: D, label: label, data: make([]byte, size)}
	D.live++
	D.stagings = append(D.stagings, B)
	return B, nil
}

func (D *fakeDevice) Pipeline(label, source string, bindings []Binding) (Pipeline, error) {
	if D.failPipeline {
		return nil, errors.New("shader does not compile")
	}
	P := &fakePipeline{dev: D, source: source, bindings: bindings}
	D.live++
	D.pipelines = append(D.pipelines, P)
	return P, nil
}

func (D *fakeDevice) Dispatch(p Pipeline, groups uint32, src, dst Buffer, size uint64) error {
	D.dispatches++
	D.groups = groups
	if D.failDispatch {
		return errors.New("device lost")
	}
	P := p.(*fakePipeline)
	pos := P.bindings[0].Buffer.(*fakeBuffer)
	prm := decodeParams(P.bindings[1].Buffer.(*fakeBuffer).data)
	bonds := decodeU32(P.bindings[3].Buffer.(*fakeBuffer).data)
	coords := decodeF32(pos.data)
	for s := uint32(0); s < prm.MaxSteps; s++ {
		for k := 0; k+1 < len(bonds); k += 2 {
			if bonds[k] == NoBond {
				continue
			}
			coords[3*bonds[k]] += prm.StepSize
			coords[3*bonds[k+1]] += prm.StepSize
		}
	}
	copy(pos.data, wgpu.ToBytes(coords))
	copy(dst.(*fakeBuffer).data, pos.data[:size])
	return nil
}

func (D *fakeDevice) ReadBack(dst Buffer, size uint64, read func([]byte)) error {
	if D.failRead {
		return errors.New("map failed")
	}
	read(dst.(*fakeBuffer).data[:size])
	return nil
}

func (D *fakeDevice) Release() {
	D.released++
}

func decodeF32(raw []byte) []float32 {
	ret := make([]float32, len(raw)/4)
	copy(wgpu.ToBytes(ret), raw)
	return ret
}

func decodeU32(raw []byte) []uint32 {
	ret := make([]uint32, len(raw)/4)
	copy(wgpu.ToBytes(ret), raw)
	return ret
}

func decodeParams(raw []byte) params {
	ret := make([]params, 1)
	copy(wgpu.ToBytes(ret), raw)
	return ret[0]
}
