/*
 * files.go, part of quantic.
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

package chem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/spatial/r3"
)

//openRead opens name for reading, decompressing it if the name ends in .zst.
func openRead(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(name), ".zst") {
		return f, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &zstdReadCloser{dec: dec, f: f}, nil
}

type zstdReadCloser struct {
	dec *zstd.Decoder
	f   *os.File
}

func (Z *zstdReadCloser) Read(p []byte) (int, error) { return Z.dec.Read(p) }

func (Z *zstdReadCloser) Close() error {
	Z.dec.Close()
	return Z.f.Close()
}

//openWrite creates name, compressing what is written if the name ends in .zst.
func openWrite(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(strings.ToLower(name), ".zst") {
		return f, nil
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &zstdWriteCloser{enc: enc, f: f}, nil
}

type zstdWriteCloser struct {
	enc *zstd.Encoder
	f   *os.File
}

func (Z *zstdWriteCloser) Write(p []byte) (int, error) { return Z.enc.Write(p) }

func (Z *zstdWriteCloser) Close() error {
	err := Z.enc.Close()
	if err2 := Z.f.Close(); err == nil {
		err = err2
	}
	return err
}

//This tries to guess a chemical element symbol from a PDB atom name.
//It only deals with some common bio-elements, and returns "" if it fails.
func symbolFromName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	switch name {
	case "CU", "CO", "CL", "NA", "SE", "ZN", "FE", "MG", "CA", "BR":
		return NormalizeSymbol(name)
	}
	//only Hs can have 4-char names in AMBER.
	if len(name) == 4 || name[0] == 'H' {
		return "H"
	}
	switch name[0] {
	case 'C', 'N', 'O', 'P', 'S':
		return name[:1]
	}
	return ""
}

//ReadPDB reads the first model of a PDB file, which is decompressed if the name ends in .zst.
//ATOM and HETATM records give the atoms, and CONECT records the bonds of the structure.
func ReadPDB(name string) (*Structure, error) {
	in, err := openRead(name)
	if err != nil {
		return nil, WrapError(Unclassified, err, "can't open "+name, "ReadPDB")
	}
	defer in.Close()
	S, err := DecodePDB(in)
	if err != nil {
		return nil, ErrDecorate(err, "ReadPDB")
	}
	return S, nil
}

//DecodePDB reads a PDB from in. Coordinates are in columns 31-54 and the element
//symbol in 77-78; if the latter is missing, it's guessed from the atom name.
//CONECT serials refer to the serial numbers of the atoms. Repeated bonds are
//kept only once.
func DecodePDB(in io.Reader) (*Structure, error) {
	S := &Structure{Coords: make([]r3.Vec, 0), Types: make([]string, 0)}
	serials := make(map[int]int)
	conect := make([][]int, 0)
	scanner := bufio.NewScanner(in)
	lineno := 0
	done := false //the first model has been read
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "ENDMDL"):
			//only the first model is read, but there may still be CONECTs after.
			done = true
		case !done && (strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM")):
			symbol, c, serial, err := pdbAtomLine(line)
			if err != nil {
				return nil, WrapError(MalformedInput, err, fmt.Sprintf("line %d", lineno), "DecodePDB")
			}
			if serial > 0 {
				serials[serial] = len(S.Coords)
			}
			S.AddAtom(symbol, c)
		case strings.HasPrefix(line, "CONECT"):
			fields := strings.Fields(line[6:])
			ids := make([]int, 0, len(fields))
			for _, f := range fields {
				id, err := strconv.Atoi(f)
				if err != nil {
					return nil, WrapError(MalformedInput, err, fmt.Sprintf("line %d", lineno), "DecodePDB")
				}
				ids = append(ids, id)
			}
			conect = append(conect, ids)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, WrapError(Unclassified, err, "reading PDB", "DecodePDB")
	}
	seen := make(map[Pair]bool)
	for _, ids := range conect {
		if len(ids) < 2 {
			continue
		}
		from, ok := serials[ids[0]]
		if !ok {
			return nil, NewError(MalformedInput, fmt.Sprintf("CONECT refers to unknown atom %d", ids[0]), "DecodePDB")
		}
		for _, id := range ids[1:] {
			to, ok := serials[id]
			if !ok {
				return nil, NewError(MalformedInput, fmt.Sprintf("CONECT refers to unknown atom %d", id), "DecodePDB")
			}
			if to == from {
				continue
			}
			p := NewPair(from, to)
			if !seen[p] {
				seen[p] = true
				S.Bonds = append(S.Bonds, p)
			}
		}
	}
	SortPairs(S.Bonds)
	return S, nil
}

//pdbAtomLine parses the element, coordinates and serial of an ATOM or HETATM line.
//The serial is 0 if it can't be read.
func pdbAtomLine(line string) (string, r3.Vec, int, error) {
	var c r3.Vec
	if len(line) < 54 {
		return "", c, 0, fmt.Errorf("ATOM record too short (%d characters)", len(line))
	}
	var err [3]error
	c.X, err[0] = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	c.Y, err[1] = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	c.Z, err[2] = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	for _, e := range err {
		if e != nil {
			return "", c, 0, e
		}
	}
	serial, _ := strconv.Atoi(strings.TrimSpace(line[6:11]))
	symbol := ""
	if len(line) >= 78 {
		symbol = NormalizeSymbol(line[76:78])
	}
	if symbol == "" {
		symbol = symbolFromName(line[12:16])
	}
	if symbol == "" {
		return "", c, 0, fmt.Errorf("can't determine the element of atom %q", strings.TrimSpace(line[12:16]))
	}
	return symbol, c, serial, nil
}

//WritePDB writes S to a PDB file, compressed if the name ends in .zst.
//Bonds are written as CONECT records if bonds is true.
func WritePDB(name string, S *Structure, bonds bool) error {
	if err := S.Corrupted(); err != nil {
		return ErrDecorate(err, "WritePDB")
	}
	out, err := openWrite(name)
	if err != nil {
		return WrapError(Unclassified, err, "can't create "+name, "WritePDB")
	}
	if err := EncodePDB(out, S, bonds); err != nil {
		out.Close()
		return ErrDecorate(err, "WritePDB")
	}
	if err := out.Close(); err != nil {
		return WrapError(Unclassified, err, "can't close "+name, "WritePDB")
	}
	return nil
}

//EncodePDB writes S in PDB format to out. All atoms belong to residue 1 of chain A,
//and are named after their element.
func EncodePDB(out io.Writer, S *Structure, bonds bool) error {
	if err := S.Corrupted(); err != nil {
		return ErrDecorate(err, "EncodePDB")
	}
	w := bufio.NewWriter(out)
	fmt.Fprint(w, "REMARK     WRITTEN WITH QUANTIC\n")
	for i, c := range S.Coords {
		sym := NormalizeSymbol(S.Types[i])
		name := sym
		if len(name) > 3 {
			name = name[:3]
		}
		fmt.Fprintf(w, "%-6s%5d  %-3s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s  \n",
			"ATOM", i+1, name, "MOL", "A", 1, c.X, c.Y, c.Z, 1.0, 0.0, sym)
	}
	if bonds {
		for _, b := range S.Bonds {
			fmt.Fprintf(w, "CONECT%5d%5d\n", b.I+1, b.J+1)
		}
	}
	fmt.Fprint(w, "END\n")
	if err := w.Flush(); err != nil {
		return WrapError(Unclassified, err, "writing PDB", "EncodePDB")
	}
	return nil
}

//ReadXYZ reads an XYZ file, compressed or not. Bonds are not set.
func ReadXYZ(name string) (*Structure, error) {
	in, err := openRead(name)
	if err != nil {
		return nil, WrapError(Unclassified, err, "can't open "+name, "ReadXYZ")
	}
	defer in.Close()
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return nil, NewError(MalformedInput, "empty XYZ file "+name, "ReadXYZ")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || natoms < 0 {
		return nil, NewError(MalformedInput, "ill formatted XYZ file "+name, "ReadXYZ")
	}
	scanner.Scan() //the comment line
	S := &Structure{Coords: make([]r3.Vec, 0, natoms), Types: make([]string, 0, natoms)}
	for i := 0; i < natoms; i++ {
		if !scanner.Scan() {
			return nil, NewError(MalformedInput, fmt.Sprintf("%s has %d atoms, %d expected", name, i, natoms), "ReadXYZ")
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			return nil, NewError(MalformedInput, fmt.Sprintf("line %d in file %s ill formed", i+3, name), "ReadXYZ")
		}
		var c r3.Vec
		var errs [3]error
		c.X, errs[0] = strconv.ParseFloat(fields[1], 64)
		c.Y, errs[1] = strconv.ParseFloat(fields[2], 64)
		c.Z, errs[2] = strconv.ParseFloat(fields[3], 64)
		for _, e := range errs {
			if e != nil {
				return nil, WrapError(MalformedInput, e, fmt.Sprintf("line %d in file %s", i+3, name), "ReadXYZ")
			}
		}
		S.AddAtom(NormalizeSymbol(fields[0]), c)
	}
	if err := scanner.Err(); err != nil {
		return nil, WrapError(Unclassified, err, "reading "+name, "ReadXYZ")
	}
	return S, nil
}

//WriteXYZ writes S to an XYZ file, with comment in the second line.
func WriteXYZ(name string, S *Structure, comment string) error {
	if err := S.Corrupted(); err != nil {
		return ErrDecorate(err, "WriteXYZ")
	}
	out, err := openWrite(name)
	if err != nil {
		return WrapError(Unclassified, err, "can't create "+name, "WriteXYZ")
	}
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "%-4d\n%s\n", S.Len(), strings.ReplaceAll(comment, "\n", " "))
	for i, c := range S.Coords {
		fmt.Fprintf(w, "%-2s  %12.6f%12.6f%12.6f\n", S.Types[i], c.X, c.Y, c.Z)
	}
	err = w.Flush()
	if err2 := out.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return WrapError(Unclassified, err, "writing "+name, "WriteXYZ")
	}
	return nil
}

//ReadStructure reads a PDB or an XYZ file, chosen by the extension
//(ignoring a final .zst).
func ReadStructure(name string) (*Structure, error) {
	base := strings.TrimSuffix(strings.ToLower(name), ".zst")
	var S *Structure
	var err error
	if strings.HasSuffix(base, ".xyz") {
		S, err = ReadXYZ(name)
	} else {
		S, err = ReadPDB(name)
	}
	if err != nil {
		return nil, ErrDecorate(err, "ReadStructure")
	}
	return S, nil
}

//WriteStructure writes S as PDB, with bonds, or as XYZ, depending on the extension of name.
func WriteStructure(name string, S *Structure) error {
	base := strings.TrimSuffix(strings.ToLower(name), ".zst")
	var err error
	if strings.HasSuffix(base, ".xyz") {
		err = WriteXYZ(name, S, "written with quantic")
	} else {
		err = WritePDB(name, S, true)
	}
	return ErrDecorate(err, "WriteStructure")
}
