/*
 * webgpu.go, part of quantic.
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
	"fmt"
	"log"

	"github.com/cogentcore/webgpu/wgpu"

	chem "github.com/amphiquantic/quantic"
)

//WebGPU provides devices through the native WebGPU implementation.
//The zero value asks for a high-performance adapter.
type WebGPU struct {
	LowPower bool
}

//Acquire requests an adapter and a device. There is no retry and no
//software fallback: if no adapter is found, a DeviceUnavailable error is returned.
func (W WebGPU) Acquire() (Device, error) {
	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, chem.NewError(chem.DeviceUnavailable, "can't create a WebGPU instance", "WebGPU.Acquire")
	}
	pref := wgpu.PowerPreferenceHighPerformance
	if W.LowPower {
		pref = wgpu.PowerPreferenceLowPower
	}
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{PowerPreference: pref})
	if err != nil {
		instance.Release()
		return nil, chem.WrapError(chem.DeviceUnavailable, err, "no compatible adapter", "WebGPU.Acquire")
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, chem.WrapError(chem.DeviceUnavailable, err, "can't open device", "WebGPU.Acquire")
	}
	log.Printf("Acquired WebGPU device (low power: %t)", W.LowPower)
	return &gpuDevice{instance: instance, adapter: adapter, device: device, queue: device.GetQueue()}, nil
}

type gpuDevice struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

type gpuBuffer struct {
	buf *wgpu.Buffer
}

func (B *gpuBuffer) Release() { B.buf.Release() }

type gpuPipeline struct {
	module   *wgpu.ShaderModule
	groupLay *wgpu.BindGroupLayout
	layout   *wgpu.PipelineLayout
	pipeline *wgpu.ComputePipeline
	group    *wgpu.BindGroup
}

//Release frees whatever parts of the pipeline were created.
func (P *gpuPipeline) Release() {
	if P.group != nil {
		P.group.Release()
	}
	if P.pipeline != nil {
		P.pipeline.Release()
	}
	if P.layout != nil {
		P.layout.Release()
	}
	if P.groupLay != nil {
		P.groupLay.Release()
	}
	if P.module != nil {
		P.module.Release()
	}
}

func usages(a Access) wgpu.BufferUsage {
	switch a {
	case ReadWrite:
		return wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
	case Uniform:
		return wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
	default:
		return wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
	}
}

func bindingType(a Access) wgpu.BufferBindingType {
	switch a {
	case ReadWrite:
		return wgpu.BufferBindingTypeStorage
	case Uniform:
		return wgpu.BufferBindingTypeUniform
	default:
		return wgpu.BufferBindingTypeReadOnlyStorage
	}
}

func (D *gpuDevice) Upload(label string, data []byte, access Access) (Buffer, error) {
	buf, err := D.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: data,
		Usage:    usages(access),
	})
	if err != nil {
		return nil, err
	}
	return &gpuBuffer{buf: buf}, nil
}

func (D *gpuDevice) Staging(label string, size uint64) (Buffer, error) {
	buf, err := D.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	return &gpuBuffer{buf: buf}, nil
}

func (D *gpuDevice) Pipeline(label, source string, bindings []Binding) (Pipeline, error) {
	P := &gpuPipeline{}
	var err error
	P.module, err = D.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return nil, err
	}
	layEntries := make([]wgpu.BindGroupLayoutEntry, len(bindings))
	entries := make([]wgpu.BindGroupEntry, len(bindings))
	for i, b := range bindings {
		gb, ok := b.Buffer.(*gpuBuffer)
		if !ok {
			P.Release()
			return nil, fmt.Errorf("binding %d is not a buffer of this device", i)
		}
		layEntries[i] = wgpu.BindGroupLayoutEntry{
			Binding:    uint32(i),
			Visibility: wgpu.ShaderStageCompute,
			Buffer:     wgpu.BufferBindingLayout{Type: bindingType(b.Access)},
		}
		entries[i] = wgpu.BindGroupEntry{
			Binding: uint32(i),
			Buffer:  gb.buf,
			Size:    wgpu.WholeSize,
		}
	}
	P.groupLay, err = D.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: layEntries,
	})
	if err != nil {
		P.Release()
		return nil, err
	}
	P.layout, err = D.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: []*wgpu.BindGroupLayout{P.groupLay},
	})
	if err != nil {
		P.Release()
		return nil, err
	}
	P.pipeline, err = D.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  label,
		Layout: P.layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     P.module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		P.Release()
		return nil, err
	}
	P.group, err = D.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  P.groupLay,
		Entries: entries,
	})
	if err != nil {
		P.Release()
		return nil, err
	}
	return P, nil
}

func (D *gpuDevice) Dispatch(p Pipeline, groups uint32, src, dst Buffer, size uint64) error {
	P, ok := p.(*gpuPipeline)
	if !ok {
		return fmt.Errorf("pipeline was not built by this device")
	}
	s, ok1 := src.(*gpuBuffer)
	d, ok2 := dst.(*gpuBuffer)
	if !ok1 || !ok2 {
		return fmt.Errorf("buffers were not allocated by this device")
	}
	enc, err := D.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer enc.Release()
	pass := enc.BeginComputePass(nil)
	pass.SetPipeline(P.pipeline)
	pass.SetBindGroup(0, P.group, nil)
	pass.DispatchWorkgroups(groups, 1, 1)
	pass.End()
	pass.Release()
	enc.CopyBufferToBuffer(s.buf, 0, d.buf, 0, size)
	cmd, err := enc.Finish(nil)
	if err != nil {
		return err
	}
	defer cmd.Release()
	D.queue.Submit(cmd)
	D.device.Poll(true, nil)
	return nil
}

func (D *gpuDevice) ReadBack(dst Buffer, size uint64, read func([]byte)) error {
	d, ok := dst.(*gpuBuffer)
	if !ok {
		return fmt.Errorf("buffer was not allocated by this device")
	}
	var status wgpu.BufferMapAsyncStatus
	called := false
	err := d.buf.MapAsync(wgpu.MapModeRead, 0, size, func(s wgpu.BufferMapAsyncStatus) {
		status = s
		called = true
	})
	if err != nil {
		return err
	}
	D.device.Poll(true, nil)
	if !called {
		return fmt.Errorf("mapping the staging buffer did not complete")
	}
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return fmt.Errorf("mapping the staging buffer failed: %s", status.String())
	}
	read(d.buf.GetMappedRange(0, uint(size)))
	d.buf.Unmap()
	return nil
}

func (D *gpuDevice) Release() {
	D.queue.Release()
	D.device.Release()
	D.adapter.Release()
	D.instance.Release()
}
