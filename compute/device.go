/*
 * device.go, part of quantic.
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

//Access is the way a kernel accesses a buffer bound to it.
type Access int

const (
	ReadWrite Access = iota //read/write storage
	ReadOnly                //read-only storage
	Uniform                 //uniform block
)

//Buffer is memory allocated on a device.
type Buffer interface {
	Release()
}

//Pipeline is a compiled kernel, with its buffers already bound.
type Pipeline interface {
	Release()
}

//Binding attaches a buffer to a kernel. Bindings are numbered in the order
//they are given, starting at 0, all in group 0.
type Binding struct {
	Buffer Buffer
	Access Access
}

//Device is a GPU able to run compute kernels. All methods block.
//A Device is used from one goroutine at a time.
type Device interface {
	//Upload allocates a buffer for the given access initialized with data.
	//ReadWrite buffers can also be copied from.
	Upload(label string, data []byte, access Access) (Buffer, error)
	//Staging allocates a host-readable buffer of size bytes.
	Staging(label string, size uint64) (Buffer, error)
	//Pipeline compiles the WGSL source (entry point "main") and binds the buffers.
	Pipeline(label, source string, bindings []Binding) (Pipeline, error)
	//Dispatch runs the pipeline over groups work-groups, then copies size
	//bytes from src into dst, and waits for the device to finish.
	Dispatch(p Pipeline, groups uint32, src, dst Buffer, size uint64) error
	//ReadBack maps size bytes of the staging buffer dst, gives them to read,
	//and unmaps the buffer. The slice given to read is not valid after read returns.
	ReadBack(dst Buffer, size uint64, read func([]byte)) error
	//Release frees the device. It must be called once the device is no longer needed.
	Release()
}

//Provider gives access to devices.
type Provider interface {
	//Acquire returns a ready-to-use Device, or a DeviceUnavailable error.
	Acquire() (Device, error)
}
