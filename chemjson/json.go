/*
 * json.go, part of quantic.
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

package chemjson

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r3"

	chem "github.com/amphiquantic/quantic"
	"github.com/amphiquantic/quantic/refdata"
)

//A ready-to-serialize container for an atom.
type Atom struct {
	Index  int        `json:"index"`
	Symbol string     `json:"symbol"`
	Coords [3]float64 `json:"coords"`
	Color  [3]float32 `json:"color"`
	Radius float32    `json:"radius"`
}

//Structure is the serialized form of a structure and its bonds.
//Near and Missing are only filled when the bonds were determined from
//the geometry.
type Structure struct {
	Atoms   []Atom   `json:"atoms"`
	Bonds   [][2]int `json:"bonds"`
	Near    [][2]int `json:"near,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

//Used for atoms without properties.
var (
	defaultColor  = [3]float32{0.5, 0, 0.5}
	defaultRadius = float32(0.5)
)

//New builds the serializable form of S, taking colors and radii from atoms.
//near and missing can be nil.
func New(S *chem.Structure, atoms refdata.AtomProperties, near []chem.Pair, missing []refdata.PairKey) (*Structure, error) {
	if err := S.Corrupted(); err != nil {
		return nil, chem.ErrDecorate(err, "chemjson.New")
	}
	J := &Structure{Atoms: make([]Atom, S.Len()), Bonds: pairs(S.Bonds), Near: pairs(near)}
	for i, c := range S.Coords {
		a := Atom{Index: i, Symbol: S.Types[i], Coords: [3]float64{c.X, c.Y, c.Z}, Color: defaultColor, Radius: defaultRadius}
		if p, ok := atoms.Lookup(S.Types[i]); ok {
			a.Color = p.Color
			a.Radius = p.Radius
		}
		J.Atoms[i] = a
	}
	for _, k := range missing {
		J.Missing = append(J.Missing, k.String())
	}
	return J, nil
}

func pairs(p []chem.Pair) [][2]int {
	if len(p) == 0 {
		return nil
	}
	ret := make([][2]int, len(p))
	for i, v := range p {
		ret[i] = [2]int{v.I, v.J}
	}
	return ret
}

//Encode writes the JSON form of S to out, one object per call.
func Encode(out io.Writer, S *chem.Structure, atoms refdata.AtomProperties, near []chem.Pair, missing []refdata.PairKey) error {
	J, err := New(S, atoms, near, missing)
	if err != nil {
		return chem.ErrDecorate(err, "Encode")
	}
	w := bufio.NewWriter(out)
	if err := json.NewEncoder(w).Encode(J); err != nil {
		return chem.WrapError(chem.Unclassified, err, "can't encode structure", "Encode")
	}
	if err := w.Flush(); err != nil {
		return chem.WrapError(chem.Unclassified, err, "can't write structure", "Encode")
	}
	return nil
}

//Decode reads a structure in the form written by Encode. Colors, radii
//and the near and missing lists are ignored.
func Decode(in io.Reader) (*chem.Structure, error) {
	J := new(Structure)
	if err := json.NewDecoder(in).Decode(J); err != nil {
		return nil, chem.WrapError(chem.MalformedInput, err, "can't decode structure", "Decode")
	}
	S := &chem.Structure{Coords: make([]r3.Vec, len(J.Atoms)), Types: make([]string, len(J.Atoms))}
	for i, a := range J.Atoms {
		if a.Index != i {
			return nil, chem.NewError(chem.MalformedInput, fmt.Sprintf("atom %d has index %d", i, a.Index), "Decode")
		}
		S.Coords[i] = r3.Vec{X: a.Coords[0], Y: a.Coords[1], Z: a.Coords[2]}
		S.Types[i] = a.Symbol
	}
	for _, b := range J.Bonds {
		S.Bonds = append(S.Bonds, chem.NewPair(b[0], b[1]))
	}
	if err := S.Corrupted(); err != nil {
		return nil, chem.ErrDecorate(err, "Decode")
	}
	return S, nil
}

//An easily JSON-serializable error, for programs reading our output.
type Error struct {
	IsError  bool     `json:"is_error"`
	Kind     string   `json:"kind"`
	Critical bool     `json:"critical"`
	Function []string `json:"function,omitempty"` //the chain of functions the error went through
	Message  string   `json:"message"`
}

func (J *Error) Error() string {
	return J.Message
}

//NewError builds the serializable form of err.
func NewError(err error) *Error {
	J := &Error{IsError: true, Kind: chem.KindOf(err).String(), Message: err.Error()}
	var E *chem.Error
	if errors.As(err, &E) {
		J.Critical = E.Critical()
		J.Function = append(J.Function, E.Decorate("")...)
	}
	return J
}

//Send writes the JSON form of the error to out.
func (J *Error) Send(out io.Writer) error {
	return json.NewEncoder(out).Encode(J)
}
