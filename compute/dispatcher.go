/*
 * dispatcher.go, part of quantic.
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
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	chem "github.com/amphiquantic/quantic"
)

//Dispatcher runs compute passes over the positions of a structure.
//Each call to Run acquires its own device and releases it before returning,
//so a Dispatcher can be shared between goroutines.
type Dispatcher struct {
	provider Provider
	kernels  KernelSet
}

//NewDispatcher returns a Dispatcher that gets devices from provider, and
//runs the kernels given. The kernel set must have a kernel for each process kind.
func NewDispatcher(provider Provider, kernels KernelSet) (*Dispatcher, error) {
	if provider == nil {
		return nil, chem.NewError(chem.DeviceUnavailable, "no device provider", "NewDispatcher")
	}
	if err := kernels.complete(); err != nil {
		return nil, chem.ErrDecorate(err, "NewDispatcher")
	}
	return &Dispatcher{provider: provider, kernels: kernels}, nil
}

//Run performs one compute pass of the given job and returns the new positions,
//in the same order as coords. Neither coords, types nor bonds are modified.
//The input is validated before the device is touched: mismatched lengths or
//out-of-range bonds give a MalformedInput error, and an unknown kind an
//InvalidProcessKind one. Failing to get a device gives a DeviceUnavailable error,
//and failing to submit the work or to read it back a ReadbackFailure one.
//An empty structure gives an empty result without using the device.
//Positions go through the device in single precision.
func (D *Dispatcher) Run(coords []r3.Vec, types []string, bonds []chem.Pair, job Job) ([]r3.Vec, error) {
	if err := validate(coords, types, bonds, job); err != nil {
		return nil, chem.ErrDecorate(err, "Run")
	}
	if len(coords) == 0 {
		return []r3.Vec{}, nil
	}
	dev, err := acquire(D.provider)
	if err != nil {
		return nil, chem.ErrDecorate(err, "Run")
	}
	defer dev.Release()
	ret, err := pass(dev, D.kernels, coords, types, bonds, job)
	if err != nil {
		return nil, chem.ErrDecorate(err, "Run")
	}
	return ret, nil
}

//Session returns a Session holding a device until it's closed.
func (D *Dispatcher) Session() (*Session, error) {
	dev, err := acquire(D.provider)
	if err != nil {
		return nil, chem.ErrDecorate(err, "Session")
	}
	return &Session{dev: dev, kernels: D.kernels}, nil
}

//Session runs compute passes on a single device, acquired once.
//Results are the same as those of Dispatcher.Run. A Session must not be used
//from several goroutines at the same time.
type Session struct {
	dev     Device
	kernels KernelSet
}

//Run performs a compute pass, like Dispatcher.Run.
func (S *Session) Run(coords []r3.Vec, types []string, bonds []chem.Pair, job Job) ([]r3.Vec, error) {
	if err := validate(coords, types, bonds, job); err != nil {
		return nil, chem.ErrDecorate(err, "Session.Run")
	}
	if S.dev == nil {
		return nil, chem.NewError(chem.DeviceUnavailable, "session is closed", "Session.Run")
	}
	if len(coords) == 0 {
		return []r3.Vec{}, nil
	}
	ret, err := pass(S.dev, S.kernels, coords, types, bonds, job)
	if err != nil {
		return nil, chem.ErrDecorate(err, "Session.Run")
	}
	return ret, nil
}

//Close releases the device of the session. Closing twice does nothing.
func (S *Session) Close() {
	if S.dev != nil {
		S.dev.Release()
		S.dev = nil
	}
}

func acquire(p Provider) (Device, error) {
	dev, err := p.Acquire()
	if err != nil {
		var E *chem.Error
		if errors.As(err, &E) && E.Kind() == chem.DeviceUnavailable {
			return nil, chem.ErrDecorate(err, "acquire")
		}
		return nil, chem.WrapError(chem.DeviceUnavailable, err, "can't acquire a compute device", "acquire")
	}
	return dev, nil
}

func validate(coords []r3.Vec, types []string, bonds []chem.Pair, job Job) error {
	if err := job.Validate(); err != nil {
		return chem.ErrDecorate(err, "validate")
	}
	if len(coords) != len(types) {
		return chem.NewError(chem.MalformedInput, fmt.Sprintf("%d positions but %d element types", len(coords), len(types)), "validate")
	}
	if err := chem.CheckPairs(bonds, len(coords)); err != nil {
		return chem.ErrDecorate(err, "validate")
	}
	if workgroups(len(coords)) > maxGroups {
		return chem.NewError(chem.MalformedInput, fmt.Sprintf("%d atoms don't fit in one dispatch", len(coords)), "validate")
	}
	return nil
}

//pass uploads the buffers, runs the kernel and reads the positions back.
//Everything allocated here is released before returning.
func pass(dev Device, kernels KernelSet, coords []r3.Vec, types []string, bonds []chem.Pair, job Job) ([]r3.Vec, error) {
	src, err := kernels.Source(job.Kind)
	if err != nil {
		return nil, chem.ErrDecorate(err, "pass")
	}
	positions := packPositions(coords)
	size := uint64(len(positions))
	uploads := []struct {
		label  string
		data   []byte
		access Access
	}{
		{"positions", positions, ReadWrite},
		{"params", packParams(job), Uniform},
		{"codes", packCodes(types), ReadOnly},
		{"bonds", packBonds(bonds), ReadOnly},
	}
	bindings := make([]Binding, 0, len(uploads))
	for _, u := range uploads {
		buf, err := dev.Upload(u.label, u.data, u.access)
		if err != nil {
			return nil, chem.WrapError(chem.DeviceUnavailable, err, "can't upload "+u.label, "pass")
		}
		defer buf.Release()
		bindings = append(bindings, Binding{Buffer: buf, Access: u.access})
	}
	staging, err := dev.Staging("staging", size)
	if err != nil {
		return nil, chem.WrapError(chem.DeviceUnavailable, err, "can't allocate staging buffer", "pass")
	}
	defer staging.Release()
	pl, err := dev.Pipeline(job.Kind.String(), src, bindings)
	if err != nil {
		return nil, chem.WrapError(chem.DeviceUnavailable, err, "can't build "+job.Kind.String()+" pipeline", "pass")
	}
	defer pl.Release()
	if err := dev.Dispatch(pl, workgroups(len(coords)), bindings[0].Buffer, staging, size); err != nil {
		return nil, chem.WrapError(chem.ReadbackFailure, err, "compute pass failed", "pass")
	}
	var ret []r3.Vec
	err = dev.ReadBack(staging, size, func(raw []byte) {
		if uint64(len(raw)) >= size {
			ret = unpackPositions(raw, len(coords))
		}
	})
	if err != nil {
		return nil, chem.WrapError(chem.ReadbackFailure, err, "can't read positions back", "pass")
	}
	if ret == nil {
		return nil, chem.NewError(chem.ReadbackFailure, "short read from staging buffer", "pass")
	}
	return ret, nil
}
