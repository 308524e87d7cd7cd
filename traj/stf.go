/*
 * stf.go, part of quantic.
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

package traj

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/spatial/r3"

	chem "github.com/amphiquantic/quantic"
)

//DefaultPrec is the precision used when none is given.
const DefaultPrec = 2

//Writer writes frames to a compressed trajectory file.
type Writer struct {
	f        *os.File
	h        *zstd.Encoder
	w        *bufio.Writer
	natoms   int
	filename string
	prec     int
	frames   int
	writable bool
}

//NewWriter creates the file name and writes the header for a trajectory
//of natoms atoms per frame. If header has a "prec" key, it sets the precision,
//otherwise DefaultPrec is used and added to the header.
func NewWriter(name string, natoms int, header map[string]string) (*Writer, error) {
	if natoms < 0 {
		return nil, chem.NewError(chem.MalformedInput, fmt.Sprintf("negative atom number %d for %s", natoms, name), "traj.NewWriter")
	}
	W := &Writer{natoms: natoms, filename: name, prec: DefaultPrec}
	h := make(map[string]string, len(header)+1)
	for k, v := range header {
		if strings.ContainsAny(k, "=\n") || strings.Contains(v, "\n") || strings.HasPrefix(k, "*") {
			return nil, chem.NewError(chem.MalformedInput, fmt.Sprintf("invalid header entry %q", k), "traj.NewWriter")
		}
		h[k] = v
	}
	if p, ok := h["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil || prec < 0 {
			log.Printf("Invalid precision for trajectory %s. Will use the default", name)
		} else {
			W.prec = prec
		}
	}
	h["prec"] = strconv.Itoa(W.prec)
	var err error
	W.f, err = os.Create(name)
	if err != nil {
		return nil, chem.WrapError(chem.Unclassified, err, "can't create trajectory", "traj.NewWriter")
	}
	W.h, err = zstd.NewWriter(W.f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		W.f.Close()
		return nil, chem.WrapError(chem.Unclassified, err, "can't start compression", "traj.NewWriter")
	}
	W.w = bufio.NewWriter(W.h)
	//sorted, so equal headers give equal files
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(W.w, "%s=%s\n", k, h[k])
	}
	fmt.Fprintf(W.w, "** %d\n", natoms)
	W.writable = true
	return W, nil
}

//Len returns the number of atoms per frame.
func (W *Writer) Len() int {
	return W.natoms
}

//Frames returns the number of frames written so far.
func (W *Writer) Frames() int {
	return W.frames
}

//WriteFrame appends one frame with the given coordinates.
func (W *Writer) WriteFrame(coords []r3.Vec) error {
	if !W.writable {
		return chem.NewError(chem.MalformedInput, fmt.Sprintf("trajectory %s is not open for writing", W.filename), "traj.WriteFrame")
	}
	if len(coords) != W.natoms {
		return chem.NewError(chem.MalformedInput, fmt.Sprintf("%d coordinates given, but %d expected", len(coords), W.natoms), "traj.WriteFrame")
	}
	p := math.Pow(10, float64(W.prec))
	for _, c := range coords {
		W.w.WriteString(coordsEncode(c, p))
	}
	if _, err := W.w.WriteString("*\n"); err != nil {
		return chem.WrapError(chem.Unclassified, err, "can't write frame", "traj.WriteFrame")
	}
	W.frames++
	return nil
}

//Close flushes the pending frames and closes the file. It can be called
//more than once.
func (W *Writer) Close() error {
	if W == nil || !W.writable {
		return nil
	}
	W.writable = false
	err := W.w.Flush()
	if err2 := W.h.Close(); err == nil {
		err = err2
	}
	if err2 := W.f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return chem.WrapError(chem.Unclassified, err, "can't close trajectory", "traj.Close")
	}
	return nil
}

func coordsEncode(c r3.Vec, p float64) string {
	return fmt.Sprintf("%d %d %d\n", int(math.RoundToEven(c.X*p)), int(math.RoundToEven(c.Y*p)), int(math.RoundToEven(c.Z*p)))
}

func coordsDecode(str string, p float64) (r3.Vec, error) {
	s := strings.Fields(str)
	if len(s) != 3 {
		return r3.Vec{}, fmt.Errorf("coordinates line with %d fields: %q", len(s), str)
	}
	var temp [3]float64
	for i, v := range s {
		f, err := strconv.Atoi(v)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("can't parse coordinate %d (%s): %w", i, v, err)
		}
		temp[i] = float64(f) / p
	}
	return r3.Vec{X: temp[0], Y: temp[1], Z: temp[2]}, nil
}

//Reader reads frames from a trajectory written by Writer.
type Reader struct {
	f        *os.File
	h        *zstd.Decoder
	r        *bufio.Reader
	natoms   int
	filename string
	prec     int
	line     int
	readable bool
}

//NewReader opens the trajectory name, and returns the reader and the header.
func NewReader(name string) (*Reader, map[string]string, error) {
	R := &Reader{filename: name, prec: DefaultPrec, natoms: -1}
	var err error
	R.f, err = os.Open(name)
	if err != nil {
		return nil, nil, chem.WrapError(chem.Unclassified, err, "can't open trajectory", "traj.NewReader")
	}
	R.h, err = zstd.NewReader(R.f)
	if err != nil {
		R.f.Close()
		return nil, nil, chem.WrapError(chem.MalformedInput, err, "can't start decompression", "traj.NewReader")
	}
	R.r = bufio.NewReader(R.h)
	m := make(map[string]string)
	for {
		str, err := R.r.ReadString('\n')
		if err != nil {
			R.closeFiles()
			return nil, nil, chem.WrapError(chem.MalformedInput, err, "can't read header", "traj.NewReader")
		}
		R.line++
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				R.closeFiles()
				return nil, nil, chem.NewError(chem.MalformedInput, fmt.Sprintf("can't read atom number from %q", str), "traj.NewReader")
			}
			R.natoms, err = strconv.Atoi(nat[1])
			if err != nil || R.natoms < 0 {
				R.closeFiles()
				return nil, nil, chem.NewError(chem.MalformedInput, fmt.Sprintf("can't read atom number from %q", str), "traj.NewReader")
			}
			break
		}
		k, v, ok := strings.Cut(str, "=")
		if !ok {
			R.closeFiles()
			return nil, nil, chem.NewError(chem.MalformedInput, fmt.Sprintf("malformed header line %d: %q", R.line, str), "traj.NewReader")
		}
		m[k] = v
	}
	if p, ok := m["prec"]; ok {
		prec, err := strconv.Atoi(p)
		if err != nil || prec < 0 {
			log.Printf("Invalid precision for trajectory %s. Will assume the default", name)
		} else {
			R.prec = prec
		}
	}
	R.readable = true
	return R, m, nil
}

//Len returns the number of atoms in each frame.
func (R *Reader) Len() int {
	return R.natoms
}

//Next returns the coordinates of the next frame. At the end of the
//trajectory it returns io.EOF and closes the reader.
func (R *Reader) Next() ([]r3.Vec, error) {
	if !R.readable {
		return nil, io.EOF
	}
	p := math.Pow(10, float64(R.prec))
	ret := make([]r3.Vec, R.natoms)
	for i := 0; i <= R.natoms; i++ {
		str, err := R.r.ReadString('\n')
		if err == io.EOF && i == 0 && str == "" {
			R.Close()
			return nil, io.EOF
		}
		if err != nil {
			return nil, chem.WrapError(chem.MalformedInput, err, fmt.Sprintf("truncated frame at line %d", R.line+1), "traj.Next")
		}
		R.line++
		str = strings.TrimSuffix(str, "\n")
		if i == R.natoms {
			if !strings.HasPrefix(str, "*") {
				return nil, chem.NewError(chem.MalformedInput, fmt.Sprintf("line %d: frame has more than %d atoms", R.line, R.natoms), "traj.Next")
			}
			break
		}
		if strings.HasPrefix(str, "*") {
			return nil, chem.NewError(chem.MalformedInput, fmt.Sprintf("line %d: frame has %d atoms, %d expected", R.line, i, R.natoms), "traj.Next")
		}
		ret[i], err = coordsDecode(str, p)
		if err != nil {
			return nil, chem.WrapError(chem.MalformedInput, err, fmt.Sprintf("line %d", R.line), "traj.Next")
		}
	}
	return ret, nil
}

//Close closes the reader. It can be called more than once.
func (R *Reader) Close() {
	if !R.readable {
		return
	}
	R.readable = false
	R.closeFiles()
}

func (R *Reader) closeFiles() {
	R.h.Close()
	R.f.Close()
}
