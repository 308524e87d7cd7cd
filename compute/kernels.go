/*
 * kernels.go, part of quantic.
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
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"

	chem "github.com/amphiquantic/quantic"
)

//go:embed shaders/*.wgsl
var shaders embed.FS

//KernelSet holds the WGSL source of the kernel for each process kind.
type KernelSet map[ProcessKind]string

//EmbeddedKernels returns the kernels built into the package.
func EmbeddedKernels() (KernelSet, error) {
	sub, err := fs.Sub(shaders, "shaders")
	if err != nil {
		return nil, chem.WrapError(chem.ReferenceDataUnavailable, err, "can't open embedded shaders", "EmbeddedKernels")
	}
	K, err := loadKernels(sub, "embedded")
	if err != nil {
		return nil, chem.ErrDecorate(err, "EmbeddedKernels")
	}
	return K, nil
}

//DirKernels reads the kernels from dir, which must contain relax.wgsl,
//minimize.wgsl and simulate.wgsl. A missing file is a
//ReferenceDataUnavailable error.
func DirKernels(dir string) (KernelSet, error) {
	K, err := loadKernels(os.DirFS(dir), dir)
	if err != nil {
		return nil, chem.ErrDecorate(err, "DirKernels")
	}
	return K, nil
}

func loadKernels(fsys fs.FS, where string) (KernelSet, error) {
	K := make(KernelSet, len(kindNames))
	for _, kind := range Kinds() {
		name := kind.String() + ".wgsl"
		log.Printf("Loading shader: %s/%s", where, name)
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, chem.WrapError(chem.ReferenceDataUnavailable, err, "can't read shader "+name, "loadKernels")
		}
		K[kind] = string(src)
	}
	return K, nil
}

//Source returns the kernel for kind.
func (K KernelSet) Source(kind ProcessKind) (string, error) {
	src, ok := K[kind]
	if !ok {
		return "", chem.NewError(chem.InvalidProcessKind, fmt.Sprintf("no kernel for process kind %v", kind), "Source")
	}
	return src, nil
}

//complete returns an error if any known kind lacks a kernel.
func (K KernelSet) complete() error {
	for _, kind := range Kinds() {
		if K[kind] == "" {
			return chem.NewError(chem.ReferenceDataUnavailable, fmt.Sprintf("no kernel for process kind %v", kind), "complete")
		}
	}
	return nil
}
