/*
 * kind.go, part of quantic.
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
	"math"
	"strings"

	chem "github.com/amphiquantic/quantic"
)

//ProcessKind selects the position update that a compute pass performs.
//The numeric value is the one the kernels receive in the parameters.
type ProcessKind uint32

const (
	Relax ProcessKind = iota
	Minimize
	Simulate
)

var kindNames = [...]string{Relax: "relax", Minimize: "minimize", Simulate: "simulate"}

//Kinds returns all the known process kinds.
func Kinds() []ProcessKind {
	return []ProcessKind{Relax, Minimize, Simulate}
}

//Valid reports whether K is a known process kind.
func (K ProcessKind) Valid() bool {
	return int(K) < len(kindNames)
}

func (K ProcessKind) String() string {
	if !K.Valid() {
		return fmt.Sprintf("ProcessKind(%d)", uint32(K))
	}
	return kindNames[K]
}

//ParseProcessKind returns the ProcessKind named s ("relax", "minimize"
//or "simulate", in any case). Other names give an InvalidProcessKind error.
func ParseProcessKind(s string) (ProcessKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, v := range kindNames {
		if v == name {
			return ProcessKind(k), nil
		}
	}
	return 0, chem.NewError(chem.InvalidProcessKind, fmt.Sprintf("unknown process kind %q", s), "ParseProcessKind")
}

func (K ProcessKind) MarshalText() ([]byte, error) {
	if !K.Valid() {
		return nil, chem.NewError(chem.InvalidProcessKind, K.String(), "MarshalText")
	}
	return []byte(K.String()), nil
}

func (K *ProcessKind) UnmarshalText(text []byte) error {
	k, err := ParseProcessKind(string(text))
	if err != nil {
		return chem.ErrDecorate(err, "UnmarshalText")
	}
	*K = k
	return nil
}

//Job describes one compute pass. MaxSteps is the number of iterations the
//kernel performs within the pass, and StepSize the size of each one.
//A Job with MaxSteps 0 leaves the positions unchanged.
type Job struct {
	StepSize float32
	MaxSteps uint32
	Kind     ProcessKind
}

//Validate returns an InvalidProcessKind error for an unknown kind,
//and a MalformedInput error for a non-finite step size.
func (J Job) Validate() error {
	if !J.Kind.Valid() {
		return chem.NewError(chem.InvalidProcessKind, fmt.Sprintf("unknown process kind %d", uint32(J.Kind)), "Validate")
	}
	s := float64(J.StepSize)
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return chem.NewError(chem.MalformedInput, "step size is not a finite number", "Validate")
	}
	return nil
}
